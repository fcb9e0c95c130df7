package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/hashicorp/go-retryablehttp"
)

const maxBodySize = 16 << 20

type Client struct {
	httpClient  *http.Client
	retryClient *retryablehttp.Client
	retries     int
	backoff     time.Duration
}

type Option func(*Client)

// WithRetries GET 请求失败后的重试次数, 第 n 次重试前等待 n*backoff
func WithRetries(retries int, backoff time.Duration) Option {
	return func(c *Client) {
		c.retries = retries
		c.backoff = backoff
	}
}

func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = c.httpClient
	rc.Logger = nil
	rc.RetryMax = max(c.retries, 0)
	rc.RetryWaitMin = c.backoff
	rc.RetryWaitMax = c.backoff
	rc.Backoff = retryablehttp.LinearJitterBackoff
	rc.CheckRetry = checkRetry
	// 重试用尽后交回最后一次的响应, 由 readResponse 统一转换为 HTTPError/RequestError
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.retryClient = rc
	return c
}

type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Do 执行请求, 只有 GET 会重试; 4xx/5xx 返回 *HTTPError, 网络错误返回 *RequestError
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	var rawBody any
	if len(req.Body) > 0 {
		rawBody = req.Body
	}
	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, req.URL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", req.Method, req.URL, err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	var resp *http.Response
	if req.Method == http.MethodGet && c.retries > 0 {
		resp, err = c.retryClient.Do(httpReq)
	} else {
		resp, err = c.httpClient.Do(httpReq.Request)
	}
	return readResponse(req, resp, err)
}

func readResponse(req Request, resp *http.Response, err error) (*Response, error) {
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, &RequestError{Method: req.Method, URL: req.URL, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &RequestError{Method: req.Method, URL: req.URL, Err: err}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &HTTPError{
			Method:     req.Method,
			URL:        req.URL,
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// checkRetry 网络错误与 5xx 重试, 上下文结束后不再重试
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	return resp.StatusCode >= http.StatusInternalServerError, nil
}

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

// DecodeData 解析 {"data": ...} 包装的响应
func DecodeData[T any](body []byte) (T, error) {
	var env dataEnvelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return env.Data, fmt.Errorf("decode upstream response: %w", err)
	}
	return env.Data, nil
}
