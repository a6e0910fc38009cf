package fallback

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindmirror-ai/mindmirror/internal/resolve"
	"github.com/mindmirror-ai/mindmirror/internal/safety"
)

// firstPick always chooses the first template option.
func firstPick(n int) int { return 0 }

func TestEmotionLocalKeywordScoring(t *testing.T) {
	g := NewEmotionLocal()

	payload, err := g.Generate(resolve.Request{
		RawInput:   "I am so happy and excited about the wonderful news",
		Capability: resolve.CapabilityEmotion,
	})
	require.NoError(t, err)

	assert.Equal(t, "joy", payload["primary_emotion"])
	scores := payload["scores"].(map[string]float64)
	assert.InDelta(t, 0.9, scores["joy"], 0.001, "three keyword hits are capped at 0.9")
	assert.True(t, resolve.Validate(resolve.CapabilityEmotion, payload))
}

func TestEmotionLocalNeutralWhenNoKeywords(t *testing.T) {
	g := NewEmotionLocal()

	payload, err := g.Generate(resolve.Request{
		RawInput:   "the meeting was rescheduled to Thursday",
		Capability: resolve.CapabilityEmotion,
	})
	require.NoError(t, err)

	assert.Equal(t, "neutral", payload["primary_emotion"])
	scores := payload["scores"].(map[string]float64)
	assert.Equal(t, 0.7, scores["neutral"])
}

func TestEmotionLocalDeterministic(t *testing.T) {
	g := NewEmotionLocal()
	req := resolve.Request{
		RawInput:   "grateful but also a bit worried and scared",
		Capability: resolve.CapabilityEmotion,
	}

	first, err := g.Generate(req)
	require.NoError(t, err)
	second, err := g.Generate(req)
	require.NoError(t, err)

	assert.Equal(t, first["emotions"], second["emotions"])
	assert.Equal(t, first["scores"], second["scores"])
}

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"I feel so sad and hopeless", "sad"},
		{"I'm anxious about the interview", "anxious"},
		{"this makes me furious", "angry"},
		{"it's all too much, I'm stressed", "overwhelmed"},
		{"I feel so alone lately", "lonely"},
		{"nothing in particular today", "neutral"},
		// "sad" is checked before "anxious"; fixed order wins.
		{"sad and anxious at the same time", "sad"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCategory(tt.input))
		})
	}
}

func TestReflectionLocalSeverity(t *testing.T) {
	g := NewReflectionLocal(safety.NewInterceptor(nil), firstPick)

	t.Run("urgent appends crisis resources", func(t *testing.T) {
		payload, err := g.Generate(resolve.Request{
			RawInput:   "I want to die, nothing matters",
			Capability: resolve.CapabilityReflection,
		})
		require.NoError(t, err)

		assert.Equal(t, "urgent", payload["severity"])
		reflection := payload["reflection"].(string)
		assert.Contains(t, reflection, safety.CrisisResources["global"])
	})

	t.Run("notice for elevated categories", func(t *testing.T) {
		payload, err := g.Generate(resolve.Request{
			RawInput:   "so anxious I can barely sit still",
			Capability: resolve.CapabilityReflection,
		})
		require.NoError(t, err)
		assert.Equal(t, "notice", payload["severity"])
	})

	t.Run("calm otherwise", func(t *testing.T) {
		payload, err := g.Generate(resolve.Request{
			RawInput:   "just writing down my day",
			Capability: resolve.CapabilityReflection,
		})
		require.NoError(t, err)
		assert.Equal(t, "calm", payload["severity"])
	})
}

func TestReflectionLocalPayloadValidates(t *testing.T) {
	g := NewReflectionLocal(nil, firstPick)

	for _, input := range []string{
		"I feel sad",
		"panic is setting in",
		"so frustrated with everything",
		"completely overwhelmed",
		"feeling isolated and alone",
		"an ordinary day",
	} {
		payload, err := g.Generate(resolve.Request{
			RawInput:   input,
			Capability: resolve.CapabilityReflection,
		})
		require.NoError(t, err)
		assert.True(t, resolve.Validate(resolve.CapabilityReflection, payload), "input %q", input)
	}
}

func TestReflectionLocalFixedPickerIsDeterministic(t *testing.T) {
	g := NewReflectionLocal(nil, firstPick)
	req := resolve.Request{RawInput: "I feel sad", Capability: resolve.CapabilityReflection}

	first, err := g.Generate(req)
	require.NoError(t, err)
	second, err := g.Generate(req)
	require.NoError(t, err)

	assert.Equal(t, first["reflection"], second["reflection"])
	assert.Equal(t, first["poem_line"], second["poem_line"])
}

func TestArtLocalUsesContextEmotion(t *testing.T) {
	g := NewArtLocal()

	payload, err := g.Generate(resolve.Request{
		RawInput:   "an ordinary entry",
		Capability: resolve.CapabilityArt,
		Context:    map[string]string{"emotion": "joy"},
	})
	require.NoError(t, err)

	assert.Equal(t, "joy", payload["emotion"])
	assert.Equal(t, "svg", payload["format"])
	image := payload["image"].(string)
	assert.True(t, strings.HasPrefix(image, "<?xml"))
	assert.Contains(t, image, "#FFD700", "joy palette primary color")
	assert.True(t, resolve.Validate(resolve.CapabilityArt, payload))
}

func TestArtLocalDetectsEmotionWithoutContext(t *testing.T) {
	g := NewArtLocal()

	payload, err := g.Generate(resolve.Request{
		RawInput:   "I am so sad and crying",
		Capability: resolve.CapabilityArt,
	})
	require.NoError(t, err)
	assert.Equal(t, "sadness", payload["emotion"])
}

func TestMinimalPayloadsAlwaysValidate(t *testing.T) {
	capabilities := []resolve.Capability{
		resolve.CapabilityEmotion,
		resolve.CapabilityReflection,
		resolve.CapabilityArt,
		resolve.CapabilityTranscription,
		resolve.CapabilitySpeech,
	}

	for _, capability := range capabilities {
		for _, urgent := range []bool{false, true} {
			payload := Minimal(capability)(resolve.Request{Capability: capability}, urgent)
			assert.True(t, resolve.Validate(capability, payload), "capability %s urgent=%v", capability, urgent)
		}
	}
}

func TestMinimalReflectionUrgent(t *testing.T) {
	payload := minimalReflection(resolve.Request{}, true)

	assert.Equal(t, "urgent", payload["severity"])
	assert.Contains(t, payload["reflection"].(string), safety.CrisisResources["global"])
}

func TestSilentWAV(t *testing.T) {
	wav := SilentWAV(1)

	require.GreaterOrEqual(t, len(wav), 44)
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, 44+16000*2, len(wav), "one second of mono 16-bit 16kHz PCM")

	// Sub-second requests round up to one second.
	assert.Equal(t, len(wav), len(SilentWAV(0)))
}
