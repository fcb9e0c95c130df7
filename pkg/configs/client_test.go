package configs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/to404hanga/contest_gateway/pkg/upstream"
)

var testScope = Scope{
	ProjectID:     "7f3c2a1e-5b4d-4c6e-9f8a-1b2c3d4e5f60",
	AccountID:     "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d",
	Authorization: "Bearer user-jwt",
}

func TestClient_Resolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/configs/", r.URL.Path)
		assert.Equal(t, []string{NodeID, ContestStatusID}, r.URL.Query()["configs"])
		assert.Equal(t, testScope.ProjectID, r.Header.Get("Project-ID"))
		assert.Equal(t, testScope.AccountID, r.Header.Get("Account-ID"))
		assert.Equal(t, testScope.Authorization, r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":{"node_id":{"value":"node-1"},
			"contest_status_id":{"done":"s-done","no_winner":"s-nw","order":3}}}`))
	}))
	defer server.Close()

	c := NewClient(upstream.NewClient(time.Second), server.URL)
	bundle, err := c.Resolve(context.Background(), testScope, NodeID, ContestStatusID)
	require.NoError(t, err)
	assert.Equal(t, "node-1", bundle.Value(NodeID))
	assert.Equal(t, "s-done", bundle.Get(ContestStatusID, "done"))
	assert.Equal(t, "s-nw", bundle.Get(ContestStatusID, "no_winner"))
	assert.Equal(t, "3", bundle.Get(ContestStatusID, "order"))
	assert.Empty(t, bundle.Get(ContestStatusID, "voting"))
}

func TestClient_ResolveErrors(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "bad credentials", status: http.StatusBadRequest, body: `{}`, want: ErrIncorrectCredentials},
		{name: "server error", status: http.StatusBadGateway, body: `{}`, want: ErrServiceFailure},
		{name: "forbidden", status: http.StatusForbidden, body: `{}`, want: ErrServiceFailure},
		{name: "missing config", status: http.StatusOK, body: `{"data":{}}`, want: ErrServiceFailure},
		{name: "broken body", status: http.StatusOK, body: `{"data":`, want: ErrServiceFailure},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			c := NewClient(upstream.NewClient(time.Second), server.URL)
			_, err := c.Resolve(context.Background(), testScope, NodeID)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/configs/contest_status_id/", r.URL.Path)
		w.Write([]byte(`{"data":{"done":"s-done"}}`))
	}))
	defer server.Close()

	c := NewClient(upstream.NewClient(time.Second), server.URL+"/")
	data, err := c.Fetch(context.Background(), testScope, ContestStatusID)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"done": "s-done"}, data)
}

func TestClient_FetchErrors(t *testing.T) {
	testCases := []struct {
		name       string
		status     int
		wantIs     error
		wantStatus int
	}{
		{name: "unknown type keeps upstream status", status: http.StatusNotFound, wantStatus: http.StatusNotFound},
		{name: "server error keeps upstream status", status: http.StatusBadGateway, wantStatus: http.StatusBadGateway},
		{name: "bad credentials", status: http.StatusBadRequest, wantIs: ErrIncorrectCredentials, wantStatus: http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			c := NewClient(upstream.NewClient(time.Second), server.URL)
			_, err := c.Fetch(context.Background(), testScope, "unknown_type")
			require.Error(t, err)
			if tc.wantIs != nil {
				assert.ErrorIs(t, err, tc.wantIs)
			} else {
				assert.NotErrorIs(t, err, ErrServiceFailure)
			}
			code, ok := upstream.StatusCode(err)
			require.True(t, ok)
			assert.Equal(t, tc.wantStatus, code)
		})
	}

	// 网络失败仍归为服务故障
	c := NewClient(upstream.NewClient(time.Second), "http://127.0.0.1:1")
	_, err := c.Fetch(context.Background(), testScope, ContestStatusID)
	assert.ErrorIs(t, err, ErrServiceFailure)
}
