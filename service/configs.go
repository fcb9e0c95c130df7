package service

import (
	"context"

	"github.com/to404hanga/contest_gateway/model"
	"github.com/to404hanga/contest_gateway/pkg/configs"
)

type ConfigsService interface {
	// Fetch 透传配置服务中某一类型的配置
	Fetch(ctx context.Context, p *model.CommonParam, configType string) (any, error)
}

type ConfigsServiceImpl struct {
	configs configs.Resolver
}

var _ ConfigsService = (*ConfigsServiceImpl)(nil)

func NewConfigsService(resolver configs.Resolver) ConfigsService {
	return &ConfigsServiceImpl{
		configs: resolver,
	}
}

func (s *ConfigsServiceImpl) Fetch(ctx context.Context, p *model.CommonParam, configType string) (any, error) {
	return s.configs.Fetch(ctx, scopeOf(p), configType)
}
