package service

import "errors"

type ErrorCode string

const (
	ErrorCodeValidation   ErrorCode = "validation"
	ErrorCodeUnauthorized ErrorCode = "unauthorized"
	ErrorCodeForbidden    ErrorCode = "forbidden"
	ErrorCodeConflict     ErrorCode = "conflict"
	ErrorCodeNotFound     ErrorCode = "not_found"
	ErrorCodeInternal     ErrorCode = "internal"
)

// ServiceError 业务层错误。Message 是稳定的操作前缀（如 "failed to approve message"），
// Cause 是底层原因，渲染为 "<Message>: <Cause>"。
type ServiceError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

func NewServiceError(code ErrorCode, message string) error {
	return &ServiceError{Code: code, Message: message}
}

// Wrap 为底层错误附加操作前缀。cause 已经是 ServiceError 时保留其错误码。
func Wrap(code ErrorCode, prefix string, cause error) error {
	if inner, ok := AsServiceError(cause); ok {
		code = inner.Code
		cause = errors.New(inner.Error())
	}
	return &ServiceError{Code: code, Message: prefix, Cause: cause}
}

func NewValidationError(message string) error {
	return NewServiceError(ErrorCodeValidation, message)
}

func NewUnauthorizedError(message string) error {
	return NewServiceError(ErrorCodeUnauthorized, message)
}

func NewForbiddenError(message string) error {
	return NewServiceError(ErrorCodeForbidden, message)
}

func NewConflictError(message string) error {
	return NewServiceError(ErrorCodeConflict, message)
}

func NewNotFoundError(message string) error {
	return NewServiceError(ErrorCodeNotFound, message)
}

func NewInternalError(message string) error {
	return NewServiceError(ErrorCodeInternal, message)
}

func AsServiceError(err error) (*ServiceError, bool) {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr, true
	}
	return nil, false
}

// CodeOf 返回错误码，非 ServiceError 视为 internal。
func CodeOf(err error) ErrorCode {
	if serviceErr, ok := AsServiceError(err); ok {
		return serviceErr.Code
	}
	return ErrorCodeInternal
}
