package errors

import (
	"context"
	"errors"
	"fmt"
)

// AppError 应用业务错误
type AppError struct {
	Code    ErrCode // 业务错误码
	Message string  // 错误消息
	cause   error
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is 按错误码比较，errors.Is(err, errors.New(code, "")) 即可判断类别
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New 创建新的业务错误
func New(code ErrCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf 创建新的业务错误（格式化消息）
func Newf(code ErrCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap 包装底层错误，保留错误链
func Wrap(code ErrCode, cause error, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Wrapf 包装底层错误（格式化消息）
func Wrapf(code ErrCode, cause error, format string, args ...interface{}) *AppError {
	return Wrap(code, cause, fmt.Sprintf(format, args...))
}

// WrapService 包装外部服务调用错误：超时统一映射为 ErrServiceTimeout
func WrapService(code ErrCode, cause error, message string) *AppError {
	if errors.Is(cause, context.DeadlineExceeded) {
		return Wrap(ErrServiceTimeout, cause, message)
	}
	return Wrap(code, cause, message)
}

// IsAppError 判断是否为业务错误
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 获取业务错误，如果不是则返回nil
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// HasCode 判断错误链中是否包含指定错误码
func HasCode(err error, code ErrCode) bool {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.cause
	}
	return false
}
