package fallback

import (
	"encoding/base64"

	"github.com/mindmirror-ai/mindmirror/internal/emotion"
	"github.com/mindmirror-ai/mindmirror/internal/resolve"
	"github.com/mindmirror-ai/mindmirror/internal/safety"
)

// Minimal returns the minimal-tier payload builder for a capability.
// These are the last rung of the ladder: plain data, no lookups that can
// fail, always schema-valid.
func Minimal(capability resolve.Capability) resolve.MinimalFunc {
	switch capability {
	case resolve.CapabilityEmotion:
		return minimalEmotion
	case resolve.CapabilityReflection:
		return minimalReflection
	case resolve.CapabilityArt:
		return minimalArt
	case resolve.CapabilityTranscription:
		return minimalTranscription
	case resolve.CapabilitySpeech:
		return minimalSpeech
	default:
		return minimalEmotion
	}
}

func minimalEmotion(req resolve.Request, urgent bool) map[string]any {
	return map[string]any{
		"emotions":        []string{"neutral"},
		"scores":          map[string]float64{"neutral": 0.5},
		"primary_emotion": "neutral",
		"color":           emotion.Color("neutral"),
		"emoji":           emotion.Emoji("neutral"),
		"summary":         "Unable to detect specific emotions",
	}
}

func minimalReflection(req resolve.Request, urgent bool) map[string]any {
	reflection := "I hear you. That sounds really heavy. Try taking a few deep breaths right now. You're not alone in this."
	severity := "notice"
	if urgent {
		reflection = "I hear you, and I'm concerned. Please reach out for immediate support. " + safety.CrisisResources["global"]
		severity = "urgent"
	}

	return map[string]any{
		"reflection": reflection,
		"poem_line":  "One breath at a time, you find your way.",
		"micro_actions": []map[string]any{
			{
				"label":            "Deep breathing",
				"duration_seconds": 60,
				"instruction":      "Breathe in slowly for 4 counts, hold for 4, out for 6. Repeat 3 times.",
			},
		},
		"severity":       severity,
		"tone":           "gentle",
		"explainability": "Minimal safe response provided due to system limitations.",
		"notes":          "All AI services temporarily unavailable. This is a safe fallback response.",
	}
}

func minimalArt(req resolve.Request, urgent bool) map[string]any {
	return map[string]any{
		"image":   RenderSVG("neutral"),
		"format":  "svg",
		"emotion": "neutral",
	}
}

func minimalTranscription(req resolve.Request, urgent bool) map[string]any {
	return map[string]any{
		"text": "[Transcription failed - please try again]",
	}
}

func minimalSpeech(req resolve.Request, urgent bool) map[string]any {
	return map[string]any{
		"audio":  base64.StdEncoding.EncodeToString(SilentWAV(1)),
		"format": "wav",
	}
}
