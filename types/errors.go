package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind 错误分类，决定返回给客户端的 HTTP 状态码
type ErrorKind string

const (
	KindInput      ErrorKind = "input"
	KindExtraction ErrorKind = "extraction"
	KindModel      ErrorKind = "model"
	KindNotFound   ErrorKind = "not_found"
	KindInternal   ErrorKind = "internal"
)

// AppError 需要带状态码和提示信息返回给客户端的错误，各层统一使用
type AppError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Status 错误类型对应的 HTTP 状态码
func (e *AppError) Status() int {
	switch e.Kind {
	case KindInput, KindExtraction:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func InputError(msg string) *AppError {
	return &AppError{Kind: KindInput, Message: msg}
}

func ExtractionError(cause error) *AppError {
	return &AppError{Kind: KindExtraction, Message: "PDF processing failed", Cause: cause}
}

func ModelError(cause error) *AppError {
	return &AppError{Kind: KindModel, Message: "AI analysis failed", Cause: cause}
}

func NotFoundError(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

// StatusOf 错误链中没有 AppError 时一律按 500 处理
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status()
	}
	return http.StatusInternalServerError
}

// KindOf 错误链中第一个 AppError 的类型
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// ErrRecordNotFound 各存储实现在 id 不存在时返回
var ErrRecordNotFound = errors.New("analysis not found")
