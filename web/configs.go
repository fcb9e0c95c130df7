package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/to404hanga/contest_gateway/constants"
	"github.com/to404hanga/contest_gateway/model"
	"github.com/to404hanga/contest_gateway/pkg/gintool"
	"github.com/to404hanga/contest_gateway/pkg/logger"
	"github.com/to404hanga/contest_gateway/service"
	"github.com/to404hanga/contest_gateway/web/middleware"
)

type ConfigsHandler struct {
	configsSvc service.ConfigsService
	jwtBuilder *middleware.JWTMiddlewareBuilder
	log        logger.Logger
}

var _ Handler = (*ConfigsHandler)(nil)

func NewConfigsHandler(configsSvc service.ConfigsService, jwtBuilder *middleware.JWTMiddlewareBuilder, log logger.Logger) *ConfigsHandler {
	return &ConfigsHandler{
		configsSvc: configsSvc,
		jwtBuilder: jwtBuilder,
		log:        log,
	}
}

func (h *ConfigsHandler) Register(r *gin.Engine) {
	r.Group(constants.APIPrefix).GET(constants.ConfigsPath, h.jwtBuilder.Optional(), gintool.WrapHandler(h.GetConfigs, h.log))
}

func (h *ConfigsHandler) GetConfigs(c *gin.Context, param *model.ConfigsParam) {
	ctx := logger.ContextWithFields(c.Request.Context(),
		logger.String("config_type", param.Type))

	data, err := h.configsSvc.Fetch(ctx, &param.CommonParam, param.Type)
	if err != nil {
		apiErr := gintool.Abort(c, err)
		h.log.ErrorContext(ctx, "GetConfigs failed", logger.String("code", apiErr.Code), logger.Error(err))
		return
	}
	gintool.OK(c, http.StatusOK, data)
}
