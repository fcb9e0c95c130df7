package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type GinServer struct {
	Engine *gin.Engine
	Addr   string

	srv *http.Server
}

func NewGinServer(engine *gin.Engine, addr string, readHeaderTimeout time.Duration) *GinServer {
	return &GinServer{
		Engine: engine,
		Addr:   addr,
		srv: &http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// Start 阻塞直到服务关闭, 正常关闭时返回 nil
func (s *GinServer) Start() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *GinServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
