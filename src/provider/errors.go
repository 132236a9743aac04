package provider

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrAuthFailed    = errors.New("authentication failed")
	ErrBuildNotFound = errors.New("build not found")
)

// ConfigError reports a missing or invalid setting. No output is produced when it occurs.
type ConfigError struct {
	Setting string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Setting, e.Reason)
}

// TransportError is returned when the API answers with a non-success status.
type TransportError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Unwrap maps well-known statuses onto the sentinel errors so callers can use errors.Is.
func (e *TransportError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthFailed
	case http.StatusNotFound:
		return ErrBuildNotFound
	}
	return nil
}

// ParseError reports a malformed JSON document or timestamp.
type ParseError struct {
	What  string
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("failed to parse %s: %v", e.What, e.Err)
	}
	return fmt.Sprintf("failed to parse %s %q: %v", e.What, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports a record lacking a required field.
type SchemaError struct {
	Field  string
	Record string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("record %s is missing required field %q", e.Record, e.Field)
}

// UserError wraps errors with user-friendly messages
type UserError struct {
	Message string
	Hint    string
	Err     error
}

func (e *UserError) Error() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n\nHint: " + e.Hint
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n\nDetails: %v", e.Err)
	}
	return msg
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// WrapError converts API and configuration errors to user-friendly messages
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return &UserError{
			Message: "Invalid configuration",
			Hint:    "Usage: circle-stats <repository> [builds] [branch] [build_failures|test_failures]\n  - Set GITHUB_USER to the project organization\n  - Set CI_TOKEN to a CircleCI API token",
			Err:     err,
		}
	}

	if errors.Is(err, ErrAuthFailed) {
		return &UserError{
			Message: "Authentication failed",
			Hint:    "Check that CI_TOKEN is a valid CircleCI API token with access to the project.",
			Err:     err,
		}
	}

	if errors.Is(err, ErrBuildNotFound) {
		return &UserError{
			Message: "Project or build not found",
			Hint:    "Check GITHUB_USER, the repository name and the branch.",
			Err:     err,
		}
	}

	return err
}
