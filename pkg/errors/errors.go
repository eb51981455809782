package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/YagorVitor/CodeReview/pkg/api"
	"github.com/YagorVitor/CodeReview/pkg/mention"
	"github.com/YagorVitor/CodeReview/pkg/session"
	"github.com/YagorVitor/CodeReview/pkg/thread"
)

// ErrorType categorizes different error types
type ErrorType string

const (
	// Network errors
	ErrorTypeNetwork ErrorType = "network"
	ErrorTypeTimeout ErrorType = "timeout"

	// Authentication errors
	ErrorTypeUnauthorized   ErrorType = "unauthorized"
	ErrorTypeForbidden      ErrorType = "forbidden"
	ErrorTypeSessionExpired ErrorType = "session_expired"

	// Validation errors
	ErrorTypeValidation      ErrorType = "validation"
	ErrorTypeInvalidMentions ErrorType = "invalid_mentions"

	// Server errors
	ErrorTypeServer   ErrorType = "server"
	ErrorTypeNotFound ErrorType = "not_found"

	ErrorTypeUnknown ErrorType = "unknown"
)

// CLIError represents a structured error with context
type CLIError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
	StatusCode int
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// WithSuggestion adds a helpful suggestion to the error
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestion = suggestion
	return e
}

// HasSuggestion returns true if the error has a suggestion
func (e *CLIError) HasSuggestion() bool {
	return e.Suggestion != ""
}

// Unwrap returns the underlying error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewCLIError creates a new CLI error
func NewCLIError(errorType ErrorType, message string, cause error) *CLIError {
	return &CLIError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NetworkError creates a network error
func NetworkError(message string, cause error) *CLIError {
	err := NewCLIError(ErrorTypeNetwork, message, cause)
	err.Suggestion = "Check that the CodeReview+ server is reachable (api.base_url) and try again."
	return err
}

// TimeoutError creates a timeout error
func TimeoutError(cause error) *CLIError {
	err := NewCLIError(ErrorTypeTimeout, "Request timed out", cause)
	err.Suggestion = "The server is taking too long to respond. Try again in a moment."
	return err
}

// SessionExpiredError creates a session expired error
func SessionExpiredError(cause error) *CLIError {
	err := NewCLIError(ErrorTypeSessionExpired, "You are not logged in or your session has expired", cause)
	err.Suggestion = "Run 'codereview-cli auth login' to sign in."
	return err
}

// ForbiddenError creates a forbidden error
func ForbiddenError(message string, cause error) *CLIError {
	err := NewCLIError(ErrorTypeForbidden, message, cause)
	err.Suggestion = "Only the author of a post or comment can delete it."
	return err
}

// ValidationError creates a validation error
func ValidationError(field, reason string) *CLIError {
	message := fmt.Sprintf("Validation error: %s - %s", field, reason)
	return NewCLIError(ErrorTypeValidation, message, nil)
}

// InvalidMentionsError reports mentions that do not name existing users.
func InvalidMentionsError(usernames []string, cause error) *CLIError {
	err := NewCLIError(ErrorTypeInvalidMentions, "users not found: "+strings.Join(usernames, ", "), cause)
	err.Suggestion = "Fix or remove the mentions; your text was kept."
	return err
}

// ServerError creates a server error
func ServerError(status int, cause error) *CLIError {
	err := NewCLIError(ErrorTypeServer, "Server error", cause)
	err.StatusCode = status
	err.Suggestion = "The server encountered an error. Try again in a few moments."
	return err
}

// NotFoundError creates a not found error
func NotFoundError(resourceType, identifier string) *CLIError {
	return NewCLIError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", resourceType, identifier), nil)
}

// CategorizeError converts a standard error into a CLIError
func CategorizeError(err error) *CLIError {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var invalid *mention.InvalidMentionsError
	if errors.As(err, &invalid) {
		return InvalidMentionsError(invalid.Usernames, err)
	}

	var unverified *mention.UnverifiedError
	if errors.As(err, &unverified) {
		e := NewCLIError(ErrorTypeValidation, "Could not verify mentions", err)
		e.Suggestion = "Set mention.on_resolve_error = \"defer\" to post anyway, or try again."
		return e
	}

	switch {
	case errors.Is(err, session.ErrNotLoggedIn):
		return SessionExpiredError(err)
	case errors.Is(err, thread.ErrNotAuthor):
		return ForbiddenError("You can only delete your own comments", err)
	case errors.Is(err, thread.ErrEmptyContent):
		return ValidationError("content", "comment text is empty")
	case errors.Is(err, thread.ErrNotConfirmed):
		return NewCLIError(ErrorTypeValidation, "Deletion cancelled", err)
	case errors.Is(err, context.DeadlineExceeded):
		return TimeoutError(err)
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401:
			return SessionExpiredError(err)
		case apiErr.StatusCode == 403:
			return ForbiddenError(apiErr.Message, err)
		case apiErr.StatusCode == 404:
			e := NewCLIError(ErrorTypeNotFound, apiErr.Message, err)
			e.StatusCode = 404
			return e
		case apiErr.StatusCode == 400:
			e := NewCLIError(ErrorTypeValidation, apiErr.Message, err)
			e.StatusCode = 400
			return e
		case apiErr.StatusCode >= 500:
			return ServerError(apiErr.StatusCode, err)
		}
		e := NewCLIError(ErrorTypeUnknown, apiErr.Message, err)
		e.StatusCode = apiErr.StatusCode
		return e
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return TimeoutError(err)
		}
		return NetworkError("Could not connect to server", err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) || strings.Contains(err.Error(), "connection refused") {
		return NetworkError("Could not connect to server", err)
	}

	return NewCLIError(ErrorTypeUnknown, err.Error(), err)
}

// FormatError returns a user-friendly error message
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	cliErr := CategorizeError(err)
	var sb strings.Builder

	sb.WriteString("Error")
	if cliErr.Type != ErrorTypeUnknown {
		sb.WriteString(" (")
		sb.WriteString(string(cliErr.Type))
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(cliErr.Message)
	sb.WriteString("\n")

	if cliErr.HasSuggestion() {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(cliErr.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}
