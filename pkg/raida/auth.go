package raida

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	json "github.com/bytedance/sonic"
	"github.com/to404hanga/contest_gateway/pkg/upstream"
)

var ErrEmptyToken = errors.New("raida: token endpoint returned empty access_token")

// Authenticator 用服务账号换取上游 token
type Authenticator struct {
	http     *upstream.Client
	baseURL  string
	username string
	password string
}

var _ TokenFetcher = (*Authenticator)(nil)

func NewAuthenticator(httpClient *upstream.Client, baseURL, username, password string) *Authenticator {
	return &Authenticator{
		http:     httpClient,
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
	}
}

func (a *Authenticator) FetchToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("username", a.username)
	form.Set("password", a.password)

	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")
	header.Set("Accept", "application/json")

	resp, err := a.http.Do(ctx, upstream.Request{
		Method: http.MethodPost,
		URL:    a.baseURL + "/api/users/token/",
		Header: header,
		Body:   []byte(form.Encode()),
	})
	if err != nil {
		return "", err
	}

	var tr tokenResponse
	if err = json.Unmarshal(resp.Body, &tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", ErrEmptyToken
	}
	return tr.AccessToken, nil
}
