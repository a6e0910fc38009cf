// Package errors provides the error taxonomy for the resolution engine.
//
// Every failure a provider can produce is folded into one of three
// categories: transient (worth one retry), hard (advance the chain), or
// invalid response (parse or validation failure, advance the chain).
// Chain- and pipeline-level conditions are sentinel errors.
package errors

import (
	"errors"
	"strings"
	"time"
)

// ============================================================
// Error Categories
// ============================================================

// Category defines the type of failure for handling decisions.
type Category int

const (
	// CategoryTransient errors are retryable within a provider attempt
	// (rate limit, "model loading", network timeout).
	CategoryTransient Category = iota

	// CategoryHard errors are not retryable (bad credentials, 4xx other
	// than 429).
	CategoryHard

	// CategoryInvalidResponse errors cover both unparseable bodies and
	// structurally invalid payloads. They share one failure code.
	CategoryInvalidResponse
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryTransient:
		return "transient"
	case CategoryHard:
		return "hard"
	case CategoryInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// ============================================================
// Sentinels
// ============================================================

// ErrChainExhausted signals that every provider in a chain failed. It is
// contained within the CapabilityResolver and never reaches callers.
var ErrChainExhausted = errors.New("provider chain exhausted")

// ErrDeadlineExceeded signals that the caller budget ran out before a
// pipeline stage started.
var ErrDeadlineExceeded = errors.New("deadline exceeded before stage start")

// ============================================================
// ProviderError - Main Error Type
// ============================================================

// ProviderError is the error type for all provider call failures.
type ProviderError struct {
	// Code is a stable code for logs (e.g. "TIMEOUT", "INVALID_RESPONSE").
	Code string

	// Message describes the failure.
	Message string

	// Category determines how the chain handles the error.
	Category Category

	// Inner is the underlying error, if any.
	Inner error

	// RetryAfter is an optional provider-suggested delay (e.g. from a
	// 429 response). The chain's fixed backoff still applies.
	RetryAfter time.Duration
}

// Error returns the error message.
func (e *ProviderError) Error() string {
	var sb strings.Builder

	if e.Code != "" {
		sb.WriteString("[")
		sb.WriteString(e.Code)
		sb.WriteString("] ")
	}

	sb.WriteString(e.Message)

	if e.Inner != nil {
		innerMsg := e.Inner.Error()
		if innerMsg != "" && innerMsg != e.Message {
			sb.WriteString(": ")
			sb.WriteString(innerMsg)
		}
	}

	return sb.String()
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Inner
}

// ============================================================
// Constructors
// ============================================================

// Transient creates a retryable transient error.
func Transient(code, message string) *ProviderError {
	return &ProviderError{
		Code:     code,
		Message:  message,
		Category: CategoryTransient,
	}
}

// Hard creates a non-retryable hard error.
func Hard(code, message string) *ProviderError {
	return &ProviderError{
		Code:     code,
		Message:  message,
		Category: CategoryHard,
	}
}

// InvalidResponse creates a parse/validation failure. Both cases share
// the single INVALID_RESPONSE failure code.
func InvalidResponse(message string) *ProviderError {
	return &ProviderError{
		Code:     CodeInvalidResponse,
		Message:  message,
		Category: CategoryInvalidResponse,
	}
}

// Wrap attaches an underlying error to a categorized failure.
func Wrap(err error, code, message string, category Category) *ProviderError {
	if err == nil {
		return nil
	}
	return &ProviderError{
		Code:     code,
		Message:  message,
		Category: category,
		Inner:    err,
	}
}

// ============================================================
// Error Codes
// ============================================================

const (
	CodeTimeout         = "TIMEOUT"
	CodeRateLimit       = "RATE_LIMIT"
	CodeModelLoading    = "MODEL_LOADING"
	CodeUnavailable     = "UNAVAILABLE"
	CodeBadCredentials  = "BAD_CREDENTIALS"
	CodeBadRequest      = "BAD_REQUEST"
	CodeInvalidResponse = "INVALID_RESPONSE"
)

// ============================================================
// Helpers
// ============================================================

// GetCategory extracts the category from an error. Unknown errors are
// treated as hard: retrying a failure we cannot classify wastes budget.
func GetCategory(err error) Category {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return CategoryHard
}

// IsTransient reports whether the error is retryable within an attempt.
func IsTransient(err error) bool {
	return err != nil && GetCategory(err) == CategoryTransient
}

// IsInvalidResponse reports whether the error is a parse/validation
// failure.
func IsInvalidResponse(err error) bool {
	return err != nil && GetCategory(err) == CategoryInvalidResponse
}

// GetRetryAfter returns the provider-suggested retry delay, if any.
func GetRetryAfter(err error) time.Duration {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.RetryAfter
	}
	return 0
}
