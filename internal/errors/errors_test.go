package errors

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "transient", CategoryTransient.String())
	assert.Equal(t, "hard", CategoryHard.String())
	assert.Equal(t, "invalid_response", CategoryInvalidResponse.String())
	assert.Equal(t, "unknown", Category(99).String())
}

func TestProviderErrorMessage(t *testing.T) {
	t.Run("code and message", func(t *testing.T) {
		err := Transient(CodeRateLimit, "rate limited")
		assert.Equal(t, "[RATE_LIMIT] rate limited", err.Error())
	})

	t.Run("includes inner error", func(t *testing.T) {
		inner := fmt.Errorf("connection refused")
		err := Wrap(inner, CodeUnavailable, "call failed", CategoryTransient)
		assert.Equal(t, "[UNAVAILABLE] call failed: connection refused", err.Error())
		assert.Equal(t, inner, err.Unwrap())
	})
}

func TestGetCategory(t *testing.T) {
	assert.Equal(t, CategoryTransient, GetCategory(Transient(CodeTimeout, "timed out")))
	assert.Equal(t, CategoryHard, GetCategory(Hard(CodeBadCredentials, "bad key")))
	assert.Equal(t, CategoryInvalidResponse, GetCategory(InvalidResponse("garbage body")))

	t.Run("wrapped provider error", func(t *testing.T) {
		wrapped := fmt.Errorf("attempt 2: %w", Transient(CodeModelLoading, "loading"))
		assert.Equal(t, CategoryTransient, GetCategory(wrapped))
	})

	t.Run("unknown errors are hard", func(t *testing.T) {
		assert.Equal(t, CategoryHard, GetCategory(fmt.Errorf("something else")))
	})
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(Transient(CodeTimeout, "timed out")))
	assert.False(t, IsTransient(Hard(CodeBadRequest, "rejected")))
	assert.False(t, IsTransient(nil))
}

func TestIsInvalidResponse(t *testing.T) {
	assert.True(t, IsInvalidResponse(InvalidResponse("unparseable")))
	assert.False(t, IsInvalidResponse(Transient(CodeTimeout, "timed out")))
	assert.False(t, IsInvalidResponse(nil))
}

func TestGetRetryAfter(t *testing.T) {
	pe := Transient(CodeRateLimit, "rate limited")
	pe.RetryAfter = 7 * time.Second
	assert.Equal(t, 7*time.Second, GetRetryAfter(pe))
	assert.Equal(t, time.Duration(0), GetRetryAfter(fmt.Errorf("plain")))
}
