package configs

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/to404hanga/contest_gateway/pkg/upstream"
)

// 配置项名称
const (
	NodeID           = "node_id"
	ContestProcessID = "contest_process_id"
	ContestStatusID  = "contest_status_id"
	TaskProcessID    = "task_process_id"
	TaskStatusID     = "task_status_id"
)

// Scope 请求所属的项目与账户, 以及调用方的 Authorization 头
type Scope struct {
	ProjectID     string
	AccountID     string
	Authorization string
}

type Resolver interface {
	// Resolve 获取指定名称的配置项
	Resolve(ctx context.Context, scope Scope, names ...string) (Bundle, error)
	// Fetch 透传某一类型的配置
	Fetch(ctx context.Context, scope Scope, configType string) (any, error)
}

type Client struct {
	http    *upstream.Client
	baseURL string
}

var _ Resolver = (*Client)(nil)

func NewClient(httpClient *upstream.Client, baseURL string) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) Resolve(ctx context.Context, scope Scope, names ...string) (Bundle, error) {
	params := url.Values{}
	for _, name := range names {
		params.Add("configs", name)
	}
	resp, err := c.http.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/api/configs/?" + params.Encode(),
		Header: scopeHeader(scope),
	})
	if err != nil {
		return nil, classify(err)
	}

	data, err := upstream.DecodeData[map[string]map[string]any](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceFailure, err)
	}
	bundle := make(Bundle, len(data))
	for name, values := range data {
		entry := make(map[string]string, len(values))
		for k, v := range values {
			if s, ok := stringify(v); ok {
				entry[k] = s
			}
		}
		bundle[name] = entry
	}
	if err = bundle.Require(names...); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (c *Client) Fetch(ctx context.Context, scope Scope, configType string) (any, error) {
	resp, err := c.http.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/api/configs/" + url.PathEscape(configType) + "/",
		Header: scopeHeader(scope),
	})
	if err != nil {
		// 透传时保留上游状态码, 例如未知配置类型的 404
		if code, ok := upstream.StatusCode(err); ok && code != http.StatusBadRequest {
			return nil, err
		}
		return nil, classify(err)
	}
	data, err := upstream.DecodeData[any](resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceFailure, err)
	}
	return data, nil
}

// classify 400 视为凭据错误, 其余失败统一为服务故障
func classify(err error) error {
	if code, ok := upstream.StatusCode(err); ok && code == http.StatusBadRequest {
		return fmt.Errorf("%w: %w", ErrIncorrectCredentials, err)
	}
	return fmt.Errorf("%w: %w", ErrServiceFailure, err)
}

func scopeHeader(scope Scope) http.Header {
	header := http.Header{}
	header.Set("Accept", "application/json")
	header.Set("Project-ID", scope.ProjectID)
	if scope.AccountID != "" {
		header.Set("Account-ID", scope.AccountID)
	}
	if scope.Authorization != "" {
		header.Set("Authorization", scope.Authorization)
	}
	return header
}

func stringify(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case float64, bool, int, int64:
		return fmt.Sprint(val), true
	}
	return "", false
}
