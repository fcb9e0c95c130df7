package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Do_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"not found"}`))
	}))
	defer server.Close()

	c := NewClient(time.Second)
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL + "/x"})
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.True(t, IsNotFound(err))
}

func TestClient_Do_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c := NewClient(20 * time.Millisecond)
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL})

	var reqErr *RequestError
	assert.True(t, errors.As(err, &reqErr))
}

func TestClient_Do_RetriesOnlyGet(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"data":"ok"}`))
	}))
	defer server.Close()

	c := NewClient(time.Second, WithRetries(2, time.Millisecond))
	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())

	data, err := DecodeData[string](resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", data)

	calls.Store(0)
	_, err = c.Do(context.Background(), Request{Method: http.MethodPost, URL: server.URL})
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Do_NoRetryOn4xx(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	c := NewClient(time.Second, WithRetries(3, time.Millisecond))
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL})
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Do_RetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail":"down"}`))
	}))
	defer server.Close()

	c := NewClient(time.Second, WithRetries(2, time.Millisecond))
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, URL: server.URL})

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, `{"detail":"down"}`, httpErr.Body)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Do_CanceledDuringBackoff(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClient(time.Second, WithRetries(5, time.Second))
	_, err := c.Do(ctx, Request{Method: http.MethodGet, URL: server.URL})

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), calls.Load())
}
