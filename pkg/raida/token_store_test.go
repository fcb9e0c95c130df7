package raida

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/to404hanga/contest_gateway/pkg/logger"
)

func TestRedisTokenStore_Errors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisTokenStore(client, "k")
	ctx := context.Background()

	mock.ExpectGet("k").SetErr(errors.New("connection refused"))
	_, ok, err := store.Load(ctx)
	assert.Error(t, err)
	assert.False(t, ok)

	mock.ExpectGet("k").SetVal("{not json")
	_, ok, err = store.Load(ctx)
	assert.Error(t, err)
	assert.False(t, ok)

	mock.ExpectDel("k").SetErr(errors.New("connection refused"))
	assert.Error(t, store.Clear(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}

// redis 不可用时退化为每次向上游换取 token, 请求不失败
func TestTokenProvider_RedisUnavailable(t *testing.T) {
	client, mock := redismock.NewClientMock()
	f := &countingFetcher{}
	p := NewTokenProvider(f, NewRedisTokenStore(client, "k"), logger.NewNop(), WithTTL(time.Hour))

	mock.ExpectGet("k").SetErr(errors.New("connection refused"))
	mock.ExpectGet("k").SetErr(errors.New("connection refused"))
	mock.Regexp().ExpectSet("k", `token-1`, time.Hour).SetErr(errors.New("connection refused"))

	tok, err := p.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok)
	assert.Equal(t, int32(1), f.calls.Load())
	assert.NoError(t, mock.ExpectationsWereMet())
}
