// Package provider implements the adapter side of the resolution engine:
// thin HTTP clients for remote model services that translate each
// provider's wire format into canonical capability payloads.
//
// Adapters never decide anything. Timeouts, retries, validation, and
// chain order all belong to the chain driver; an adapter only makes one
// HTTP call and classifies the outcome into the error taxonomy.
package provider

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	apperrors "github.com/mindmirror-ai/mindmirror/internal/errors"
)

// Config carries the connection parameters the host supplies per
// provider. The engine treats all of it as opaque.
type Config struct {
	ID      string // ProviderSpec id, used in logs and results
	Model   string // model identifier at the provider
	BaseURL string
	APIKey  string
}

// newHTTPClient returns the shared client shape for adapters. No client
// timeout: the chain bounds every call through its context.
func newHTTPClient() *http.Client {
	return &http.Client{}
}

// classifyStatus maps an HTTP status to the error taxonomy. 429 and the
// 5xx family (including the inference API's 503 "model loading") are
// transient; auth failures and other 4xx are hard.
func classifyStatus(status int, header http.Header, body []byte) error {
	switch {
	case status == http.StatusTooManyRequests:
		pe := apperrors.Transient(apperrors.CodeRateLimit, "provider rate limited")
		pe.RetryAfter = retryAfter(header)
		return pe
	case status == http.StatusServiceUnavailable:
		return apperrors.Transient(apperrors.CodeModelLoading, "model unavailable or loading")
	case status >= 500:
		return apperrors.Transient(apperrors.CodeUnavailable, fmt.Sprintf("provider error (status %d)", status))
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.Hard(apperrors.CodeBadCredentials, fmt.Sprintf("provider rejected credentials (status %d)", status))
	default:
		return apperrors.Hard(apperrors.CodeBadRequest, fmt.Sprintf("provider rejected request (status %d): %s", status, truncate(string(body), 200)))
	}
}

func retryAfter(header http.Header) time.Duration {
	if header == nil {
		return 0
	}
	if secs, err := strconv.Atoi(header.Get("Retry-After")); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

// truncate caps s at max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
