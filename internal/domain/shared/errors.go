package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Error codes raised by the settlement engine. Named constants so the HTTP
// layer maps them to status codes without scattering string literals.
const (
	ErrCodeInvalidDateRange       = "INVALID_DATE_RANGE"
	ErrCodeInvalidPledgeState     = "INVALID_PLEDGE_STATE"
	ErrCodeOverpayment            = "OVERPAYMENT"
	ErrCodeUnauthorizedAdjustment = "UNAUTHORIZED_ADJUSTMENT"
	ErrCodeAmountMismatch         = "AMOUNT_MISMATCH"
	ErrCodeUnbalancedVoucher      = "UNBALANCED_VOUCHER"
	ErrCodeValidation             = "VALIDATION_ERROR"
)
