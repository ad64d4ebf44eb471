package common

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match an AppError against the sentinel registered for its code.
func (e *AppError) Is(target error) bool {
	if s, ok := sentinelByCode[e.Code]; ok {
		return s == target
	}
	return false
}

// Error codes
const (
	CodeNotFound      = "NOT_FOUND"
	CodeUnreadablePDF = "UNREADABLE_PDF"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeStorage       = "STORAGE_ERROR"
	CodeTimeout       = "TIMEOUT"
	CodeInternal      = "INTERNAL"
	CodeValidation    = "VALIDATION_ERROR"
	CodeConfig        = "CONFIG_ERROR"
)

// Common application errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrUnreadablePDF = errors.New("unreadable pdf")
	ErrInvalidInput  = errors.New("invalid input")
	ErrStorage       = errors.New("storage error")
	ErrTimeout       = errors.New("processing timed out")
	ErrInternal      = errors.New("internal error")
	ErrValidation    = errors.New("validation failed")
)

var sentinelByCode = map[string]error{
	CodeNotFound:      ErrNotFound,
	CodeUnreadablePDF: ErrUnreadablePDF,
	CodeInvalidInput:  ErrInvalidInput,
	CodeStorage:       ErrStorage,
	CodeTimeout:       ErrTimeout,
	CodeInternal:      ErrInternal,
	CodeValidation:    ErrValidation,
	CodeConfig:        ErrInvalidInput,
}

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NotFound(message string, cause error) *AppError {
	return NewAppError(CodeNotFound, message, cause)
}

func UnreadablePDF(message string, cause error) *AppError {
	return NewAppError(CodeUnreadablePDF, message, cause)
}

func InvalidInput(message string, cause error) *AppError {
	return NewAppError(CodeInvalidInput, message, cause)
}

func Storage(message string, cause error) *AppError {
	return NewAppError(CodeStorage, message, cause)
}

func Timeout(message string, cause error) *AppError {
	return NewAppError(CodeTimeout, message, cause)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// FromContext converts an expired or cancelled context into a Timeout error.
// Returns nil while the context is still live.
func FromContext(ctx context.Context, message string) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	return Timeout(message, err)
}

// IsDeadline reports whether err stems from a context deadline or cancellation.
func IsDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, ErrTimeout)
}

// CodeOf returns the code of the outermost AppError in err's chain, or CodeInternal.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	if IsDeadline(err) {
		return CodeTimeout
	}
	return CodeInternal
}

// gRPC error helpers
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func NotFoundError(message string) error {
	return status.Error(codes.NotFound, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}

func InvalidArgumentErrorf(format string, args ...interface{}) error {
	return InvalidArgumentError(fmt.Sprintf(format, args...))
}

func InternalErrorf(format string, args ...interface{}) error {
	return InternalError(fmt.Sprintf(format, args...))
}

// ToStatus maps an application error onto a gRPC status error.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	switch CodeOf(err) {
	case CodeNotFound:
		return status.Error(codes.NotFound, err.Error())
	case CodeUnreadablePDF:
		return status.Error(codes.FailedPrecondition, err.Error())
	case CodeInvalidInput, CodeValidation, CodeConfig:
		return status.Error(codes.InvalidArgument, err.Error())
	case CodeTimeout:
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
