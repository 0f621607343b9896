package domain

import "errors"

// Domain errors
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrDocumentNotFound     = errors.New("document not found")
	ErrAccessDenied         = errors.New("access denied")
	ErrInvalidAPIKey        = errors.New("invalid api key")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInvalidFile          = errors.New("invalid file")
	ErrFileTooLarge         = errors.New("file too large")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrPricingNotFound      = errors.New("pricing not found")
	ErrConcurrentUpdate     = errors.New("concurrent balance update")
	ErrDocumentNotReady     = errors.New("document is not ready for download")
)

// ValidationError reports an invalid field on an incoming request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
