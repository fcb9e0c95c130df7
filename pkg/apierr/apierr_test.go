package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/to404hanga/contest_gateway/pkg/configs"
	"github.com/to404hanga/contest_gateway/pkg/raida"
	"github.com/to404hanga/contest_gateway/pkg/upstream"
)

func TestFrom(t *testing.T) {
	type payload struct {
		ID string `validate:"required,uuid"`
	}
	validationErr := validator.New().Struct(payload{ID: "nope"})
	require.Error(t, validationErr)

	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "api error passes through",
			err:        fmt.Errorf("create: %w", New(http.StatusConflict, CodeEntityExists, "exists")),
			wantStatus: http.StatusConflict,
			wantCode:   CodeEntityExists,
		},
		{
			name:       "upstream 404",
			err:        fmt.Errorf("get task: %w", &upstream.HTTPError{Method: "GET", URL: "/x", StatusCode: http.StatusNotFound}),
			wantStatus: http.StatusNotFound,
			wantCode:   "HTTP_ERROR - 404",
		},
		{
			name:       "upstream 502",
			err:        &upstream.HTTPError{Method: "GET", URL: "/x", StatusCode: http.StatusBadGateway},
			wantStatus: http.StatusBadGateway,
			wantCode:   "HTTP_ERROR - 502",
		},
		{
			name:       "network failure",
			err:        &upstream.RequestError{Method: "GET", URL: "/x", Err: errors.New("connection refused")},
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeRequestError,
		},
		{
			name:       "deadline",
			err:        fmt.Errorf("list: %w", context.DeadlineExceeded),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeRequestError,
		},
		{
			name:       "validation",
			err:        validationErr,
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeBadRequest,
		},
		{
			name:       "bind",
			err:        &BindError{Source: "json", Err: errors.New("unexpected EOF")},
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeBadRequest,
		},
		{
			name:       "configs 400",
			err:        fmt.Errorf("%w: %w", configs.ErrIncorrectCredentials, &upstream.HTTPError{StatusCode: http.StatusBadRequest}),
			wantStatus: http.StatusUnauthorized,
			wantCode:   CodeIncorrectCredential,
		},
		{
			name:       "configs failure",
			err:        fmt.Errorf("%w: %w", configs.ErrServiceFailure, &upstream.RequestError{Err: errors.New("timeout")}),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeInternalServerError,
		},
		{
			name:       "empty task data",
			err:        fmt.Errorf("create application: %w", raida.ErrEmptyData),
			wantStatus: http.StatusBadGateway,
			wantCode:   CodeInternalServerError,
		},
		{
			name:       "unknown",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeNotDefined,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := From(tc.err)
			require.NotNil(t, got)
			assert.Equal(t, tc.wantStatus, got.Status)
			assert.Equal(t, tc.wantCode, got.Code)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestFrom_Nil(t *testing.T) {
	assert.Nil(t, From(nil))
}
