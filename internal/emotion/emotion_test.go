package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "joy", Normalize("happy"))
	assert.Equal(t, "joy", Normalize("  Happiness "))
	assert.Equal(t, "sadness", Normalize("depressed"))
	assert.Equal(t, "fear", Normalize("ANXIOUS"))
	assert.Equal(t, "neutral", Normalize("calm"))
	// Unknown labels pass through lowercased.
	assert.Equal(t, "curiosity", Normalize("Curiosity"))
}

func TestColorAndEmoji(t *testing.T) {
	assert.Equal(t, "#FFD700", Color("joy"))
	assert.Equal(t, "#FFD700", Color("happy"), "aliases resolve before lookup")
	assert.Equal(t, "#808080", Color("something-unknown"))

	assert.Equal(t, "😢", Emoji("sadness"))
	assert.Equal(t, "😌", Emoji("something-unknown"))
}

func TestSummarize(t *testing.T) {
	t.Run("strong single emotion", func(t *testing.T) {
		got := Summarize([]string{"joy"}, map[string]float64{"joy": 0.95})
		assert.Contains(t, got, "strongly")
		assert.Contains(t, got, "joy")
	})

	t.Run("moderate with secondary hint", func(t *testing.T) {
		got := Summarize([]string{"sadness", "fear"}, map[string]float64{"sadness": 0.7, "fear": 0.4})
		assert.Contains(t, got, "moderately")
		assert.Contains(t, got, "hints of fear")
	})

	t.Run("weak secondary omitted", func(t *testing.T) {
		got := Summarize([]string{"joy", "fear"}, map[string]float64{"joy": 0.5, "fear": 0.1})
		assert.Contains(t, got, "slightly")
		assert.NotContains(t, got, "fear")
	})

	t.Run("empty ranking", func(t *testing.T) {
		assert.Equal(t, "Neutral emotional state", Summarize(nil, nil))
	})
}
