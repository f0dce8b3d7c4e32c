package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Auth errors (AUTH-001 to AUTH-099)
	ErrCodeNotAuthenticated    ErrorCode = "AUTH-001"
	ErrCodeCredentialsRejected ErrorCode = "AUTH-002"
	ErrCodeCredentialsMissing  ErrorCode = "AUTH-003"

	// API errors (API-001 to API-099)
	ErrCodeAPIUnreachable ErrorCode = "API-001"
	ErrCodeAPIMalformed   ErrorCode = "API-002"
	ErrCodeAPIRejected    ErrorCode = "API-003"

	// Input errors (INPUT-001 to INPUT-099)
	ErrCodeInputRequired ErrorCode = "INPUT-001"
	ErrCodeInputInvalid  ErrorCode = "INPUT-002"

	// Config errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid ErrorCode = "CONFIG-001"
	ErrCodeConfigEnv     ErrorCode = "CONFIG-002"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
	ErrCodeFileUnmarshal   ErrorCode = "IO-005"
)

const docsBase = "https://github.com/felixgeelhaar/pressdesk"

// PressdeskError represents an enhanced error with code, suggestions, and documentation
type PressdeskError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *PressdeskError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *PressdeskError) Unwrap() error {
	return e.Cause
}

// Category returns the code prefix, e.g. "AUTH" for "AUTH-001".
func (e *PressdeskError) Category() string {
	code := string(e.Code)
	if i := strings.IndexByte(code, '-'); i > 0 {
		return code[:i]
	}
	return code
}

// New creates a new PressdeskError
func New(code ErrorCode, message string) *PressdeskError {
	return &PressdeskError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new PressdeskError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *PressdeskError {
	return &PressdeskError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *PressdeskError) WithSuggestion(suggestion string) *PressdeskError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *PressdeskError) WithSuggestions(suggestions ...string) *PressdeskError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *PressdeskError) WithDocs(url string) *PressdeskError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewNotAuthenticatedError is returned when a protected operation runs without a session.
func NewNotAuthenticatedError() *PressdeskError {
	return New(ErrCodeNotAuthenticated, "not logged in").
		WithSuggestion("Run 'pressdesk auth login' to authenticate").
		WithSuggestion("Run 'pressdesk auth register' if you do not have an account yet").
		WithDocs(docsBase + "#authentication")
}

// NewCredentialsRejectedError wraps a failed login or registration.
func NewCredentialsRejectedError(detail string) *PressdeskError {
	return New(ErrCodeCredentialsRejected, detail).
		WithSuggestion("Check your email and password").
		WithSuggestion("Run 'pressdesk auth status' to see the current session")
}

// NewCredentialsMissingError is returned when email or password were not supplied.
func NewCredentialsMissingError(field string) *PressdeskError {
	return New(ErrCodeCredentialsMissing, fmt.Sprintf("--%s is required", field)).
		WithSuggestion("Pass the flag explicitly or run the command in an interactive terminal")
}

// NewAPIUnreachableError creates a backend connectivity error
func NewAPIUnreachableError(baseURL string, cause error) *PressdeskError {
	return Wrap(ErrCodeAPIUnreachable, fmt.Sprintf("cannot reach API at %s", baseURL), cause).
		WithSuggestion("Check that the backend is running").
		WithSuggestion("Set PRESSDESK_API_URL or pass --api-url to point at another backend").
		WithDocs(docsBase + "#configuration")
}

// NewInputRequiredError reports a missing form field.
func NewInputRequiredError(field string) *PressdeskError {
	return New(ErrCodeInputRequired, fmt.Sprintf("%s is required", field)).
		WithSuggestion(fmt.Sprintf("Provide a non-empty value for %s", field))
}

// NewInputInvalidError reports a value outside the accepted set.
func NewInputInvalidError(field, value string, allowed []string) *PressdeskError {
	return New(ErrCodeInputInvalid, fmt.Sprintf("invalid %s: %q", field, value)).
		WithSuggestion(fmt.Sprintf("Use one of: %s", strings.Join(allowed, ", ")))
}

// NewConfigInvalidError creates a configuration parse error
func NewConfigInvalidError(path string, cause error) *PressdeskError {
	return Wrap(ErrCodeConfigInvalid, fmt.Sprintf("failed to parse config file: %s", path), cause).
		WithSuggestion("Check the YAML syntax").
		WithSuggestion("Run 'pressdesk config path' to locate the file").
		WithDocs(docsBase + "#configuration")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *PressdeskError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Check if the file path is correct").
		WithSuggestion("Verify the file exists and you have read permissions")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *PressdeskError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
