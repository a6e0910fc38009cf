package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validReflectionPayload() map[string]any {
	return map[string]any{
		"reflection": "I hear you, that sounds heavy.",
		"poem_line":  "One breath at a time.",
		"micro_actions": []any{
			map[string]any{
				"label":            "Deep breathing",
				"duration_seconds": float64(60),
				"instruction":      "Breathe in for 4, out for 6.",
			},
		},
		"severity": "calm",
		"tone":     "gentle",
	}
}

func TestValidateEmotion(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    bool
	}{
		{
			"valid",
			map[string]any{
				"emotions": []string{"joy", "love"},
				"scores":   map[string]float64{"joy": 0.9, "love": 0.4},
			},
			true,
		},
		{
			"valid with JSON-decoded shapes",
			map[string]any{
				"emotions": []any{"joy"},
				"scores":   map[string]any{"joy": 0.9},
			},
			true,
		},
		{"missing emotions", map[string]any{"scores": map[string]float64{"joy": 0.9}}, false},
		{"empty emotions", map[string]any{"emotions": []string{}, "scores": map[string]float64{}}, false},
		{
			"score out of range",
			map[string]any{
				"emotions": []string{"joy"},
				"scores":   map[string]float64{"joy": 1.5},
			},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(CapabilityEmotion, tt.payload))
		})
	}
}

func TestValidateReflection(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.True(t, Validate(CapabilityReflection, validReflectionPayload()))
	})

	t.Run("bad severity", func(t *testing.T) {
		p := validReflectionPayload()
		p["severity"] = "panic"
		assert.False(t, Validate(CapabilityReflection, p))
	})

	t.Run("bad tone", func(t *testing.T) {
		p := validReflectionPayload()
		p["tone"] = "sarcastic"
		assert.False(t, Validate(CapabilityReflection, p))
	})

	t.Run("empty micro actions", func(t *testing.T) {
		p := validReflectionPayload()
		p["micro_actions"] = []any{}
		assert.False(t, Validate(CapabilityReflection, p))
	})

	t.Run("negative duration", func(t *testing.T) {
		p := validReflectionPayload()
		p["micro_actions"] = []any{
			map[string]any{
				"label":            "x",
				"duration_seconds": float64(-1),
				"instruction":      "y",
			},
		}
		assert.False(t, Validate(CapabilityReflection, p))
	})

	t.Run("fractional duration", func(t *testing.T) {
		p := validReflectionPayload()
		p["micro_actions"] = []any{
			map[string]any{
				"label":            "x",
				"duration_seconds": 1.5,
				"instruction":      "y",
			},
		}
		assert.False(t, Validate(CapabilityReflection, p))
	})

	t.Run("empty poem line", func(t *testing.T) {
		p := validReflectionPayload()
		p["poem_line"] = ""
		assert.False(t, Validate(CapabilityReflection, p))
	})
}

func TestValidateArt(t *testing.T) {
	assert.True(t, Validate(CapabilityArt, map[string]any{"image": "PHN2Zz4=", "format": "png"}))
	assert.True(t, Validate(CapabilityArt, map[string]any{"image": "<svg/>", "format": "svg"}))
	assert.False(t, Validate(CapabilityArt, map[string]any{"image": "x", "format": "gif"}))
	assert.False(t, Validate(CapabilityArt, map[string]any{"format": "png"}))
	assert.False(t, Validate(CapabilityArt, map[string]any{"image": "", "format": "png"}))
}

func TestValidateTranscriptionAndSpeech(t *testing.T) {
	assert.True(t, Validate(CapabilityTranscription, map[string]any{"text": "hello"}))
	assert.False(t, Validate(CapabilityTranscription, map[string]any{}))

	assert.True(t, Validate(CapabilitySpeech, map[string]any{"audio": "UklGRg==", "format": "wav"}))
	assert.False(t, Validate(CapabilitySpeech, map[string]any{"format": "wav"}))
}

func TestValidateNilPayload(t *testing.T) {
	assert.False(t, Validate(CapabilityEmotion, nil))
}
