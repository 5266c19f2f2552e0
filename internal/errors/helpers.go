package errors

import (
	"errors"
)

// As is a wrapper around errors.As that works with our Error type
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode extracts the error code from an error
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Code
	}

	return CodeInternal
}

// GetMeta extracts metadata from an error
func GetMeta(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Meta
	}

	return nil
}

// GetMessage extracts the user-friendly message from an error
func GetMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Message
	}

	return err.Error()
}

// Type checking helpers

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return GetCode(err) == CodeNotFound
}

// IsInvalidArgument checks if an error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return GetCode(err) == CodeInvalidArgument
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return GetCode(err) == CodeAlreadyExists
}

// IsInternal checks if an error is an internal error
func IsInternal(err error) bool {
	return GetCode(err) == CodeInternal
}

// IsUnavailable checks if an error is an unavailable error
func IsUnavailable(err error) bool {
	return GetCode(err) == CodeUnavailable
}

// IsNotEligible checks if an error is a not eligible error
func IsNotEligible(err error) bool {
	return GetCode(err) == CodeNotEligible
}

// IsInsufficientResources checks if an error is an insufficient resources error
func IsInsufficientResources(err error) bool {
	return GetCode(err) == CodeInsufficientResources
}

// IsCycleDetected checks if an error is a cycle detected error
func IsCycleDetected(err error) bool {
	return GetCode(err) == CodeCycleDetected
}

// IsConcurrentConflict checks if an error is a concurrent conflict error
func IsConcurrentConflict(err error) bool {
	return GetCode(err) == CodeConcurrentConflict
}

// IsUserFacing reports whether the error is an expected user-facing
// outcome rather than a system error. User-facing outcomes are returned
// to the caller as structured results and never logged as errors.
func IsUserFacing(err error) bool {
	switch GetCode(err) {
	case CodeNotFound, CodeNotEligible, CodeInsufficientResources:
		return true
	default:
		return false
	}
}
