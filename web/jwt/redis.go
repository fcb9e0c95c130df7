package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/to404hanga/contest_gateway/constants"
)

var ssidKey = "users:ssid:%s"

type RedisJWTHandler struct {
	client        redis.Cmdable
	signingMethod jwt.SigningMethod
	key           any
}

var _ Handler = (*RedisJWTHandler)(nil)

// NewRedisJWTHandler RS*/ES* 使用 PEM 公钥, HS* 使用共享密钥; client 为 nil 时不检查会话
func NewRedisJWTHandler(client redis.Cmdable, algorithm, key string) (*RedisJWTHandler, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	// 环境变量里的 PEM 常以字面量 \n 换行
	pem := []byte(strings.ReplaceAll(key, `\n`, "\n"))

	h := &RedisJWTHandler{
		client:        client,
		signingMethod: method,
	}
	var err error
	switch method.(type) {
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		h.key, err = jwt.ParseRSAPublicKeyFromPEM(pem)
	case *jwt.SigningMethodECDSA:
		h.key, err = jwt.ParseECPublicKeyFromPEM(pem)
	case *jwt.SigningMethodHMAC:
		h.key = []byte(key)
	default:
		err = fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	if err != nil {
		return nil, fmt.Errorf("load jwt key: %w", err)
	}
	return h, nil
}

func (h *RedisJWTHandler) CheckSession(ctx context.Context, ssid string) error {
	if h.client == nil || ssid == "" {
		return nil
	}
	cnt, err := h.client.Exists(ctx, fmt.Sprintf(ssidKey, ssid)).Result()
	if err != nil {
		return err
	}
	if cnt > 0 {
		return fmt.Errorf("%w: session revoked", ErrTokenIncorrect)
	}
	return nil
}

func (h *RedisJWTHandler) ExtractToken(ctx *gin.Context) (string, bool) {
	authCode, ok := ctx.Request.Header[constants.HeaderAuthorizationKey]
	if !ok || len(authCode) == 0 {
		return "", false
	}
	token := strings.TrimSpace(authCode[0])
	if len(token) >= 6 && strings.EqualFold(token[:6], "Bearer") {
		token = strings.TrimSpace(token[6:])
	}
	return token, true
}

func (h *RedisJWTHandler) ParseToken(tokenStr string) (UserClaims, error) {
	if tokenStr == "" {
		return UserClaims{}, ErrTokenIncorrect
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return h.key, nil
	}, jwt.WithValidMethods([]string{h.signingMethod.Alg()}), jwt.WithExpirationRequired())
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return UserClaims{}, fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case err != nil:
		return UserClaims{}, fmt.Errorf("%w: %w", ErrTokenIncorrect, err)
	case token == nil || !token.Valid:
		return UserClaims{}, ErrTokenIncorrect
	}

	uc := claimsFromMap(claims)
	if uc.UserID == "" {
		return UserClaims{}, fmt.Errorf("%w: user_id claim is missing", ErrTokenIncorrect)
	}
	if exp, _ := claims.GetExpirationTime(); exp != nil {
		uc.ExpiresAt = exp.Time
	}
	return uc, nil
}

// claimsFromMap 用户信息可能在顶层, 也可能在对象形式的 sub 中
func claimsFromMap(claims jwt.MapClaims) UserClaims {
	sources := []map[string]any{claims}
	if sub, ok := claims["sub"].(map[string]any); ok {
		sources = []map[string]any{sub, claims}
	}
	uc := UserClaims{
		UserID:    firstString(sources, "user_id"),
		AccountID: firstString(sources, "account_id"),
		Ssid:      firstString(sources, "ssid", "jti"),
	}
	if uc.UserID == "" {
		uc.UserID, _ = claims["sub"].(string)
	}
	return uc
}

func firstString(sources []map[string]any, keys ...string) string {
	for _, key := range keys {
		for _, src := range sources {
			if v, ok := src[key].(string); ok && v != "" {
				return v
			}
		}
	}
	return ""
}
