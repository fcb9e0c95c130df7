package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	ErrTokenMissing   = errors.New("credentials not provided")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenIncorrect = errors.New("token incorrect")
)

type Handler interface {
	// ExtractToken 从 Authorization 头提取 bearer token, 第二个返回值表示头是否存在
	ExtractToken(ctx *gin.Context) (string, bool)
	// ParseToken 校验签名与有效期并取出用户信息
	ParseToken(token string) (UserClaims, error)
	// CheckSession 检查会话是否已被注销
	CheckSession(ctx context.Context, ssid string) error
}

// UserClaims 用户中心签发的 JWT 中本服务关心的部分
type UserClaims struct {
	UserID    string
	AccountID string
	Ssid      string
	ExpiresAt time.Time
}
