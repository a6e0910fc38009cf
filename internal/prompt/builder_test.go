package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBuildReflection(t *testing.T) {
	got := BuildReflection("rough day at work", map[string]string{
		"emotion":  "sadness",
		"language": "en",
	})

	assert.Contains(t, got, `"rough day at work"`)
	assert.Contains(t, got, "Detected emotion: sadness")
	assert.Contains(t, got, "Preferred language: en")
	assert.Contains(t, got, `"micro_actions"`)
	assert.True(t, strings.HasSuffix(got, "Output JSON:"))
}

func TestBuildReflectionNoContext(t *testing.T) {
	got := BuildReflection("hello", nil)
	assert.NotContains(t, got, "Detected emotion")
}

func TestBuildArt(t *testing.T) {
	t.Run("known emotion with summary", func(t *testing.T) {
		got := BuildArt("joy", "a sunny afternoon")
		assert.Contains(t, got, "warm yellows")
		assert.Contains(t, got, "evoking: a sunny afternoon")
		assert.Contains(t, got, "high quality")
	})

	t.Run("unknown emotion falls back to neutral", func(t *testing.T) {
		got := BuildArt("bewilderment", "")
		assert.Contains(t, got, "balanced colors")
	})

	t.Run("summary truncated", func(t *testing.T) {
		long := strings.Repeat("a", MaxSummaryChars+50)
		got := BuildArt("joy", long)
		assert.NotContains(t, got, long)
		assert.Contains(t, got, strings.Repeat("a", MaxSummaryChars))
	})

	t.Run("truncation keeps valid utf-8", func(t *testing.T) {
		// The odd leading byte puts the cut point mid-rune.
		long := "x" + strings.Repeat("é", MaxSummaryChars)
		got := BuildArt("joy", long)
		assert.True(t, utf8.ValidString(got), "truncation must not split a rune")
		assert.NotContains(t, got, "�")
	})
}
