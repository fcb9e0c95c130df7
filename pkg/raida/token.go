package raida

import (
	"context"
	"fmt"
	"time"

	"github.com/to404hanga/contest_gateway/pkg/logger"
	"github.com/to404hanga/contest_gateway/pkg/upstream"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTokenTTL     = 3600 * time.Second
	defaultFetchTimeout = 30 * time.Second
	refreshKey          = "raida-token"
)

// FailurePolicy 刷新失败时对旧 token 的处理方式
type FailurePolicy string

const (
	// OnFailureClear 丢弃旧 token 并返回错误
	OnFailureClear FailurePolicy = "clear"
	// OnFailureKeepStale 继续使用过期的旧 token
	OnFailureKeepStale FailurePolicy = "keep_stale"
)

type TokenFetcher interface {
	FetchToken(ctx context.Context) (string, error)
}

type Token struct {
	Value    string    `json:"value"`
	IssuedAt time.Time `json:"issued_at"`
}

// TokenProvider 进程内共享的上游 token, 过期后单飞刷新
type TokenProvider struct {
	fetcher      TokenFetcher
	store        TokenStore
	log          logger.Logger
	ttl          time.Duration
	policy       FailurePolicy
	fetchTimeout time.Duration
	now          func() time.Time
	group        singleflight.Group
}

var _ TokenSource = (*TokenProvider)(nil)

type TokenOption func(*TokenProvider)

func WithTTL(ttl time.Duration) TokenOption {
	return func(p *TokenProvider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

func WithFailurePolicy(policy FailurePolicy) TokenOption {
	return func(p *TokenProvider) {
		if policy == OnFailureKeepStale {
			p.policy = policy
		}
	}
}

func WithFetchTimeout(timeout time.Duration) TokenOption {
	return func(p *TokenProvider) {
		if timeout > 0 {
			p.fetchTimeout = timeout
		}
	}
}

func WithClock(now func() time.Time) TokenOption {
	return func(p *TokenProvider) {
		p.now = now
	}
}

func NewTokenProvider(fetcher TokenFetcher, store TokenStore, log logger.Logger, opts ...TokenOption) *TokenProvider {
	p := &TokenProvider{
		fetcher:      fetcher,
		store:        store,
		log:          log,
		ttl:          DefaultTokenTTL,
		policy:       OnFailureClear,
		fetchTimeout: defaultFetchTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Token 返回未过期的缓存 token, 否则刷新
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	tok, ok := p.load(ctx)
	if ok && p.fresh(tok) {
		return tok.Value, nil
	}
	return p.refresh(ctx, tok, ok, false)
}

// Refresh 强制刷新 token
func (p *TokenProvider) Refresh(ctx context.Context) (string, error) {
	tok, ok := p.load(ctx)
	return p.refresh(ctx, tok, ok, true)
}

func (p *TokenProvider) fresh(tok Token) bool {
	return p.now().Sub(tok.IssuedAt) <= p.ttl
}

// retention 存储中 token 的保留时间, keep_stale 时不过期
func (p *TokenProvider) retention() time.Duration {
	if p.policy == OnFailureKeepStale {
		return 0
	}
	return p.ttl
}

func (p *TokenProvider) load(ctx context.Context) (Token, bool) {
	tok, ok, err := p.store.Load(ctx)
	if err != nil {
		p.log.WarnContext(ctx, "load upstream token failed", logger.Error(err))
		return Token{}, false
	}
	return tok, ok && tok.Value != ""
}

func (p *TokenProvider) refresh(ctx context.Context, stale Token, hasStale, force bool) (string, error) {
	ch := p.group.DoChan(refreshKey, func() (any, error) {
		// 上一轮刷新可能刚刚完成
		if cur, ok := p.load(ctx); !force && ok && p.fresh(cur) {
			return cur, nil
		}

		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.fetchTimeout)
		defer cancel()

		value, err := p.fetcher.FetchToken(fctx)
		if err != nil {
			return nil, err
		}
		tok := Token{Value: value, IssuedAt: p.now()}
		if err = p.store.Save(fctx, tok, p.retention()); err != nil {
			p.log.WarnContext(ctx, "save upstream token failed", logger.Error(err))
		}
		p.log.InfoContext(ctx, "upstream token refreshed")
		return tok, nil
	})

	select {
	case <-ctx.Done():
		return "", &upstream.RequestError{Method: "TOKEN", URL: "refresh", Err: ctx.Err()}
	case res := <-ch:
		if res.Err == nil {
			return res.Val.(Token).Value, nil
		}
		if force && hasStale && p.fresh(stale) {
			// 预热失败不影响仍在有效期内的 token
			p.log.WarnContext(ctx, "forced upstream token refresh failed, current token kept", logger.Error(res.Err))
			return "", fmt.Errorf("refresh upstream token: %w", res.Err)
		}
		if hasStale && p.policy == OnFailureKeepStale {
			p.log.WarnContext(ctx, "refresh upstream token failed, keep stale token", logger.Error(res.Err))
			return stale.Value, nil
		}
		if hasStale {
			if err := p.store.Clear(ctx); err != nil {
				p.log.WarnContext(ctx, "clear upstream token failed", logger.Error(err))
			}
		}
		p.log.ErrorContext(ctx, "refresh upstream token failed", logger.Error(res.Err))
		return "", fmt.Errorf("refresh upstream token: %w", res.Err)
	}
}
