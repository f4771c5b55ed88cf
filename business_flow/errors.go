// Package businessflow contains the core business logic and use cases for maintenance request workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Maintenance request errors
	ErrAllFieldsRequired  = errors.New("all fields are required")
	ErrRequestNotFound    = errors.New("maintenance request not found")
	ErrInvalidOrderCode   = errors.New("order code must be numeric")
	ErrStoreUnavailable   = errors.New("request store is unavailable")
	ErrNotificationFailed = errors.New("notification delivery failed")

	// Contact message errors
	ErrMessageNotFound = errors.New("contact message not found")

	// Cache errors
	ErrCacheNotAvailable = errors.New("cache not available")

	// Filter errors
	ErrInvalidPage           = errors.New("page must be at least 1")
	ErrInvalidPageSize       = errors.New("page size must be between 1 and 100")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")
)

// Pipeline stage codes used when a submission fails partway through
const (
	CodeAllocationFailed   = "ALLOCATION_FAILED"
	CodePersistenceFailed  = "PERSISTENCE_FAILED"
	CodeNotificationFailed = "NOTIFICATION_FAILED"
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsAllFieldsRequired(err error) bool {
	return errors.Is(err, ErrAllFieldsRequired)
}

func IsRequestNotFound(err error) bool {
	return errors.Is(err, ErrRequestNotFound)
}

func IsInvalidOrderCode(err error) bool {
	return errors.Is(err, ErrInvalidOrderCode)
}

func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

func IsNotificationFailed(err error) bool {
	return errors.Is(err, ErrNotificationFailed)
}

func IsMessageNotFound(err error) bool {
	return errors.Is(err, ErrMessageNotFound)
}

func IsCacheNotAvailable(err error) bool {
	return errors.Is(err, ErrCacheNotAvailable)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

func IsStartDateAfterEndDate(err error) bool {
	return errors.Is(err, ErrStartDateAfterEndDate)
}
