package raida

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	json "github.com/bytedance/sonic"
	"github.com/to404hanga/contest_gateway/pkg/upstream"
)

// ErrEmptyData 上游响应成功但 data 为空
var ErrEmptyData = errors.New("raida: empty data in response")

// TokenSource 提供访问上游的 bearer token
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TaskStore 上游任务存储的操作集合
type TaskStore interface {
	// ListTasks 按 RQL 条件查询节点下的任务
	ListTasks(ctx context.Context, nodeID, query string) ([]Task, error)
	// GetTask 获取单个任务, 不存在时返回 404 的 HTTPError, data 为空时返回 ErrEmptyData
	GetTask(ctx context.Context, nodeID, taskID string) (*Task, error)
	// CreateTask 创建任务
	CreateTask(ctx context.Context, nodeID string, req *CreateTaskRequest) (*Task, error)
	// UpdateTask 更新任务状态与自定义字段
	UpdateTask(ctx context.Context, nodeID, taskID string, req *UpdateTaskRequest) (*Task, error)
	// ListAttachments 获取任务的附件列表
	ListAttachments(ctx context.Context, nodeID, taskID string) ([]Attachment, error)
	// UploadAttachment 上传附件到任务
	UploadAttachment(ctx context.Context, nodeID, taskID, filename string, content io.Reader) (*Attachment, error)
}

type Client struct {
	http    *upstream.Client
	baseURL string
	tokens  TokenSource
}

var _ TaskStore = (*Client)(nil)

func NewClient(httpClient *upstream.Client, baseURL string, tokens TokenSource) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
	}
}

func (c *Client) ListTasks(ctx context.Context, nodeID, query string) ([]Task, error) {
	params := url.Values{}
	if query != "" {
		params.Set("rql", query)
	}
	body, err := c.call(ctx, http.MethodGet, taskPath(nodeID), params, nil, "")
	if err != nil {
		return nil, err
	}
	return upstream.DecodeData[[]Task](body)
}

func (c *Client) GetTask(ctx context.Context, nodeID, taskID string) (*Task, error) {
	body, err := c.call(ctx, http.MethodGet, taskPath(nodeID, taskID), nil, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeTask(body)
}

func (c *Client) CreateTask(ctx context.Context, nodeID string, req *CreateTaskRequest) (*Task, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal create task request: %w", err)
	}
	body, err := c.call(ctx, http.MethodPost, taskPath(nodeID), nil, payload, "application/json")
	if err != nil {
		return nil, err
	}
	return decodeTask(body)
}

func (c *Client) UpdateTask(ctx context.Context, nodeID, taskID string, req *UpdateTaskRequest) (*Task, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal update task request: %w", err)
	}
	body, err := c.call(ctx, http.MethodPatch, taskPath(nodeID, taskID), nil, payload, "application/json")
	if err != nil {
		return nil, err
	}
	return decodeTask(body)
}

func decodeTask(body []byte) (*Task, error) {
	task, err := upstream.DecodeData[*Task](body)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrEmptyData
	}
	return task, nil
}

func (c *Client) ListAttachments(ctx context.Context, nodeID, taskID string) ([]Attachment, error) {
	body, err := c.call(ctx, http.MethodGet, attachmentPath(nodeID, taskID), nil, nil, "")
	if err != nil {
		return nil, err
	}
	return upstream.DecodeData[[]Attachment](body)
}

func (c *Client) UploadAttachment(ctx context.Context, nodeID, taskID, filename string, content io.Reader) (*Attachment, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create multipart part: %w", err)
	}
	if _, err = io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("copy attachment content: %w", err)
	}
	if err = mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	body, err := c.call(ctx, http.MethodPost, attachmentPath(nodeID, taskID), nil, buf.Bytes(), mw.FormDataContentType())
	if err != nil {
		return nil, err
	}
	return upstream.DecodeData[*Attachment](body)
}

func (c *Client) call(ctx context.Context, method, path string, params url.Values, payload []byte, contentType string) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("Accept", "application/json")
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(ctx, upstream.Request{
		Method: method,
		URL:    u,
		Header: header,
		Body:   payload,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func taskPath(nodeID string, taskID ...string) string {
	return joinPath("/api/tasks", nodeID, taskID...)
}

func attachmentPath(nodeID, taskID string) string {
	return joinPath("/api/attachments", nodeID, taskID)
}

func joinPath(prefix, nodeID string, rest ...string) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString("/")
	sb.WriteString(url.PathEscape(nodeID))
	sb.WriteString("/")
	for _, seg := range rest {
		sb.WriteString(url.PathEscape(seg))
		sb.WriteString("/")
	}
	return sb.String()
}
