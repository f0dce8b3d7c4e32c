package exitcode

import (
	"errors"
	"os"
	"strings"

	pderrors "github.com/felixgeelhaar/pressdesk/internal/errors"
	"github.com/felixgeelhaar/pressdesk/internal/platform"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage or input (bad flags, missing fields, etc.)
	UsageError = 2

	// RequestRejected indicates the backend refused an otherwise valid request
	RequestRejected = 3

	// ConfigError indicates an unreadable or invalid configuration
	ConfigError = 4

	// AuthError indicates an authentication failure or a missing session
	AuthError = 5

	// NetworkError indicates the backend could not be reached
	NetworkError = 6

	// Interrupted indicates the user cancelled the command (128 + SIGINT)
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}

	code := DetermineExitCode(err)
	Exit(code)
}

// DetermineExitCode analyzes an error and returns the appropriate exit code.
// Typed errors are classified first; anything else falls back to matching
// the message text of common cobra and network failures.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var apiErr *platform.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case platform.AuthRejected:
			return AuthError
		case platform.NetworkFailure:
			return NetworkError
		case platform.RequestRejected, platform.MalformedResponse:
			return RequestRejected
		}
	}

	var pdErr *pderrors.PressdeskError
	if errors.As(err, &pdErr) {
		switch {
		case pdErr.Code == pderrors.ErrCodeAPIUnreachable:
			return NetworkError
		case pdErr.Category() == "AUTH":
			return AuthError
		case pdErr.Category() == "INPUT":
			return UsageError
		case pdErr.Category() == "CONFIG":
			return ConfigError
		case pdErr.Category() == "API":
			return RequestRejected
		}
		return GeneralError
	}

	errMsg := strings.ToLower(err.Error())

	// Network errors
	if strings.Contains(errMsg, "connection refused") || strings.Contains(errMsg, "no such host") {
		return NetworkError
	}
	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "unreachable") {
		return NetworkError
	}

	// Usage errors
	if strings.Contains(errMsg, "unknown flag") || strings.Contains(errMsg, "unknown command") {
		return UsageError
	}
	if strings.Contains(errMsg, "invalid argument") || strings.Contains(errMsg, "required flag") {
		return UsageError
	}
	if strings.Contains(errMsg, "accepts ") && strings.Contains(errMsg, " arg(s)") {
		return UsageError
	}

	// Default to general error
	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags, arguments or input)"
	case RequestRejected:
		return "Request rejected by the backend"
	case ConfigError:
		return "Configuration error"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
