//go:build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/to404hanga/contest_gateway/cmd/gateway/ioc"
	commonioc "github.com/to404hanga/contest_gateway/ioc"
	"github.com/to404hanga/contest_gateway/pkg/configs"
	"github.com/to404hanga/contest_gateway/pkg/raida"
	"github.com/to404hanga/contest_gateway/service"
	"github.com/to404hanga/contest_gateway/service/exporter/factory"
	"github.com/to404hanga/contest_gateway/web"
)

func BuildApp() (*ioc.App, func()) {
	wire.Build(
		commonioc.InitLogger,
		commonioc.InitRedis,
		commonioc.InitTokenProvider,
		commonioc.InitRaidaClient,
		wire.Bind(new(raida.TaskStore), new(*raida.Client)),
		commonioc.InitConfigsClient,
		wire.Bind(new(configs.Resolver), new(*configs.Client)),
		commonioc.InitJWTHandler,
		commonioc.InitJWTMiddlewareBuilder,
		commonioc.InitProducer,
		commonioc.InitEventPublisher,
		commonioc.InitNormalizer,

		factory.NewExporterFactory,
		service.NewContestService,
		service.NewConfigsService,

		web.NewContestHandler,
		web.NewConfigsHandler,
		ioc.InitHealthHandler,

		ioc.InitGinServer,
		ioc.InitScheduler,
		wire.Struct(new(ioc.App), "*"),
	)
	return nil, nil
}
