package apierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/to404hanga/contest_gateway/pkg/configs"
	"github.com/to404hanga/contest_gateway/pkg/raida"
	"github.com/to404hanga/contest_gateway/pkg/upstream"
)

// 错误码
const (
	CodeOK                  = "OK"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeTokenIncorrect      = "TOKEN_INCORRECT"
	CodeBadRequest          = "BAD_REQUEST"
	CodeNotFound            = "NOT_FOUND"
	CodeEntityExists        = "ENTITY_EXISTS"
	CodeHTTPError           = "HTTP_ERROR"
	CodeRequestError        = "REQUEST_ERROR"
	CodeIncorrectCredential = "INCORRECT_CREDENTIALS"
	CodeInternalServerError = "INTERNAL_SERVER_ERROR"
	CodeNotDefined          = "NOT_DEFINED"
	CodeTaskCompleted       = "TASK_COMPLETED"
	CodeTaskDoesNotExist    = "TASK_DOES_NOT_EXIST"
)

// Error 对外的错误信封
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Wrap 附带原始错误, 原始错误只进日志
func Wrap(err error, status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message, Err: err}
}

// BindError 请求参数绑定失败
type BindError struct {
	Source string
	Err    error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Source, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, CodeNotFound, message)
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, CodeBadRequest, message)
}

// From 把任意错误映射为信封, 未识别的错误归为 NOT_DEFINED
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, configs.ErrIncorrectCredentials):
		return Wrap(err, http.StatusUnauthorized, CodeIncorrectCredential, "Неправильно введены учетные данные.")
	case errors.Is(err, configs.ErrServiceFailure):
		return Wrap(err, http.StatusInternalServerError, CodeInternalServerError, "Внутренняя ошибка в работе сервиса конфигов.")
	case errors.Is(err, raida.ErrEmptyData):
		return Wrap(err, http.StatusBadGateway, CodeInternalServerError, "Сервис задач вернул пустой ответ.")
	}

	var httpErr *upstream.HTTPError
	if errors.As(err, &httpErr) {
		return Wrap(err, httpErr.StatusCode, fmt.Sprintf("%s - %d", CodeHTTPError, httpErr.StatusCode), httpErr.Error())
	}

	var reqErr *upstream.RequestError
	var netErr net.Error
	if errors.As(err, &reqErr) || errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return Wrap(err, http.StatusInternalServerError, CodeRequestError, err.Error())
	}

	var validationErrs validator.ValidationErrors
	var bindErr *BindError
	if errors.As(err, &validationErrs) || errors.As(err, &bindErr) {
		return Wrap(err, http.StatusBadRequest, CodeBadRequest, err.Error())
	}

	return Wrap(err, http.StatusInternalServerError, CodeNotDefined, err.Error())
}
