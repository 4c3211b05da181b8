package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized responses and alert payloads
const (
	// 4xxx - Client / validation errors
	CodeInvalidAmount     = 4001
	CodeInvalidUserID     = 4002
	CodeDepositNotFound   = 4040
	CodeDepositNotPending = 4091
	CodeUserNotFound      = 4041

	// 5xxx - Infrastructure errors
	CodeGatewayUnreachable = 5021
	CodeGatewayTimeout     = 5022
	CodeGatewayRejected    = 5023
	CodeMalformedResponse  = 5024
	CodeStorage            = 5001
	CodeRender             = 5002
	CodeInternalServer     = 5000
)

// Base error types
var (
	// ErrInvalidAmount is returned when a deposit amount is outside the configured bounds
	ErrInvalidAmount = errors.New("deposit amount outside allowed bounds")

	// ErrInvalidUserID is returned when the user ID is not a positive integer
	ErrInvalidUserID = errors.New("user ID must be positive")

	// ErrDepositNotFound is returned when the requested deposit doesn't exist
	ErrDepositNotFound = errors.New("deposit not found")

	// ErrDepositNotPending is returned when a mutation requires a pending deposit
	// but the deposit already reached a terminal status
	ErrDepositNotPending = errors.New("deposit is no longer pending")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrGatewayUnreachable is returned when the payment provider cannot be reached
	ErrGatewayUnreachable = errors.New("payment gateway unreachable")

	// ErrGatewayTimeout is returned when a gateway call exceeds its deadline
	ErrGatewayTimeout = errors.New("payment gateway timeout")

	// ErrGatewayRejected is returned when the provider answered with status=false
	ErrGatewayRejected = errors.New("payment gateway rejected the request")

	// ErrMalformedResponse is returned when the provider payload cannot be decoded
	ErrMalformedResponse = errors.New("malformed payment gateway response")

	// ErrStorage is returned when persistence fails; the enclosing transaction
	// has been rolled back
	ErrStorage = errors.New("storage operation failed")

	// ErrRender is returned when the QR image could not be generated
	ErrRender = errors.New("failed to render payment code")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrDepositNotFound):
		return CodeDepositNotFound
	case errors.Is(err, ErrDepositNotPending):
		return CodeDepositNotPending
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrGatewayUnreachable):
		return CodeGatewayUnreachable
	case errors.Is(err, ErrGatewayTimeout):
		return CodeGatewayTimeout
	case errors.Is(err, ErrGatewayRejected):
		return CodeGatewayRejected
	case errors.Is(err, ErrMalformedResponse):
		return CodeMalformedResponse
	case errors.Is(err, ErrStorage):
		return CodeStorage
	case errors.Is(err, ErrRender):
		return CodeRender
	default:
		return CodeInternalServer
	}
}

// GatewayError carries provider-level details for a failed gateway call.
// The transport layer never leaks raw HTTP or JSON errors past this type.
type GatewayError struct {
	Operation string
	Code      int
	Message   string
	Err       error
}

// Error implements the error interface for GatewayError
func (e *GatewayError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("gateway %s failed: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *GatewayError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "gateway_error",
		"operation":  e.Operation,
		"code":       e.Code,
		"message":    e.Message,
		"error":      e.Err.Error(),
		"error_code": ErrorCode(e.Err),
	}
}

// NewGatewayError wraps a sentinel gateway error with call details
func NewGatewayError(operation string, code int, message string, err error) error {
	return &GatewayError{
		Operation: operation,
		Code:      code,
		Message:   message,
		Err:       err,
	}
}

// InvalidAmountError reports a deposit amount that failed bounds validation
type InvalidAmountError struct {
	Amount int64
	Min    int64
	Max    int64
}

// Error implements the error interface
func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid deposit amount %d: allowed range is %d..%d", e.Amount, e.Min, e.Max)
}

// Is checks if the target error is an ErrInvalidAmount
func (e *InvalidAmountError) Is(target error) bool {
	return target == ErrInvalidAmount
}

// LogFields returns a map of fields for structured logging
func (e *InvalidAmountError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "invalid_amount",
		"amount":     e.Amount,
		"min":        e.Min,
		"max":        e.Max,
		"error_code": CodeInvalidAmount,
	}
}

// NewInvalidAmountError creates a new detailed invalid amount error
func NewInvalidAmountError(amount, min, max int64) error {
	return &InvalidAmountError{Amount: amount, Min: min, Max: max}
}

// StorageError wraps a persistence failure with the operation and deposit it hit
type StorageError struct {
	Operation string
	DepositID string
	Err       error
}

// Error implements the error interface for StorageError
func (e *StorageError) Error() string {
	if e.DepositID != "" {
		return fmt.Sprintf("storage error during %s for deposit %s: %v", e.Operation, e.DepositID, e.Err)
	}
	return fmt.Sprintf("storage error during %s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is an ErrStorage
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// LogFields returns a map of fields for structured logging
func (e *StorageError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "storage_error",
		"operation":  e.Operation,
		"deposit_id": e.DepositID,
		"error":      e.Err.Error(),
		"error_code": CodeStorage,
	}
}

// NewStorageError creates a detailed storage error
func NewStorageError(operation, depositID string, err error) error {
	return &StorageError{Operation: operation, DepositID: depositID, Err: err}
}

// IsGatewayError checks whether the error came from the payment gateway layer
func IsGatewayError(err error) bool {
	return errors.Is(err, ErrGatewayUnreachable) ||
		errors.Is(err, ErrGatewayTimeout) ||
		errors.Is(err, ErrGatewayRejected) ||
		errors.Is(err, ErrMalformedResponse)
}

// IsInvalidAmountError checks if the error is an amount validation failure
func IsInvalidAmountError(err error) bool {
	return errors.Is(err, ErrInvalidAmount)
}

// IsDepositNotPendingError checks if the error signals a lost finalization race
func IsDepositNotPendingError(err error) bool {
	return errors.Is(err, ErrDepositNotPending)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrDepositNotFound) || errors.Is(err, ErrUserNotFound)
}

// IsStorageError checks if the error came from the persistence layer
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorage)
}
