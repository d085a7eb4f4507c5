package model

// Standard error codes for API responses.
const (
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeNotAuthorized        = "NOT_AUTHORIZED"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeEmptyOrder           = "EMPTY_ORDER"
	ErrCodeInsufficientStock    = "INSUFFICIENT_STOCK"
	ErrCodeProductUnavailable   = "PRODUCT_UNAVAILABLE"
	ErrCodeTotalMismatch        = "TOTAL_MISMATCH"
	ErrCodeOrderNotCancellable  = "ORDER_NOT_CANCELLABLE"
	ErrCodePaymentNotFound      = "PAYMENT_NOT_FOUND"
	ErrCodePaymentNotSuccessful = "PAYMENT_NOT_SUCCESSFUL"
	ErrCodeInvalidSignature     = "INVALID_SIGNATURE"
	ErrCodeUpstreamUnavailable  = "UPSTREAM_UNAVAILABLE"
	ErrCodeEmailTaken           = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation with a stable machine-readable
// code. Handlers translate these to HTTP statuses; anything else is a 500.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors.
var (
	ErrEmptyOrder           = NewDomainError(ErrCodeEmptyOrder, "Order must contain at least one item")
	ErrInsufficientStock    = NewDomainError(ErrCodeInsufficientStock, "Insufficient stock for one or more items")
	ErrProductUnavailable   = NewDomainError(ErrCodeProductUnavailable, "One or more products are unavailable")
	ErrTotalMismatch        = NewDomainError(ErrCodeTotalMismatch, "Order totals do not match the server-side computation")
	ErrInvalidQuantity      = NewDomainError(ErrCodeValidation, "Quantity must be greater than zero")
	ErrProductNotFound      = NewDomainError(ErrCodeNotFound, "Product not found")
	ErrOrderNotFound        = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrUserNotFound         = NewDomainError(ErrCodeNotFound, "User not found")
	ErrNotificationNotFound = NewDomainError(ErrCodeNotFound, "Notification not found")
	ErrNotAuthorized        = NewDomainError(ErrCodeNotAuthorized, "Not authorised to access this resource")
	ErrOrderNotCancellable  = NewDomainError(ErrCodeOrderNotCancellable, "Order can no longer be cancelled")
	ErrOrderCancelled       = NewDomainError(ErrCodeValidation, "Order has been cancelled")
	ErrPaymentNotFound      = NewDomainError(ErrCodePaymentNotFound, "No transaction found for this reference")
	ErrPaymentNotSuccessful = NewDomainError(ErrCodePaymentNotSuccessful, "Transaction was not successful")
	ErrInvalidSignature     = NewDomainError(ErrCodeInvalidSignature, "Webhook signature verification failed")
	ErrUpstreamUnavailable  = NewDomainError(ErrCodeUpstreamUnavailable, "Payment processor is unavailable, retry later")
	ErrEmailTaken           = NewDomainError(ErrCodeEmailTaken, "An account with this email already exists")
	ErrInvalidCredentials   = NewDomainError(ErrCodeInvalidCredentials, "Invalid email or password")
)
