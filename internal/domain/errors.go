package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeConfiguration = "CONFIGURATION_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyQuery           = NewDomainError(ErrCodeValidation, "retrieval query text cannot be empty")
	ErrInvalidRuleKind      = NewDomainError(ErrCodeValidation, "invalid rule kind")
	ErrInvalidSeverity      = NewDomainError(ErrCodeValidation, "invalid severity tier")
	ErrInvalidChunkType     = NewDomainError(ErrCodeValidation, "invalid chunk type")
	ErrMissingRequiredField = NewDomainError(ErrCodeValidation, "missing required field")
)

// Not found errors
var (
	ErrChunkNotFound = NewDomainError(ErrCodeNotFound, "knowledge chunk not found")
)

// Configuration errors. A broken rule table must refuse to serve:
// silently skipping a rule would produce false negatives.
var (
	ErrEmptyRuleTable = NewDomainError(ErrCodeConfiguration, "rule table contains no rules")
	ErrEmptyCorpus    = NewDomainError(ErrCodeConfiguration, "reference corpus contains no documents")
)
