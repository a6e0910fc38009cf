// Package prompt builds provider prompts for the generative capabilities.
package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxSummaryChars bounds how much raw input the art prompt carries.
const MaxSummaryChars = 200

// ReflectionSystem is the system message for chat-style reflection models.
const ReflectionSystem = "You are an empathetic mental wellness assistant. Respond ONLY with valid JSON matching the exact schema provided."

// BuildReflection builds the reflection prompt. The context map may carry
// "emotion" (the dominant label from the emotion stage), "language", and
// "sensitivity" hints.
func BuildReflection(input string, ctx map[string]string) string {
	var context strings.Builder
	if ctx["emotion"] != "" {
		fmt.Fprintf(&context, "\nDetected emotion: %s", ctx["emotion"])
	}
	if ctx["language"] != "" {
		fmt.Fprintf(&context, "\nPreferred language: %s", ctx["language"])
	}
	if ctx["sensitivity"] != "" {
		fmt.Fprintf(&context, "\nSensitivity level: %s", ctx["sensitivity"])
	}

	return fmt.Sprintf(`You are an empathetic mental wellness assistant. Given the user's text and context, produce a JSON object with these exact fields:

User text: %q
%s

Required JSON structure:
{
  "reflection": "1-3 sentences of empathetic, non-judgmental reflection",
  "poem_line": "One poetic line capturing the emotion",
  "micro_actions": [
    {"label": "Action name", "duration_seconds": 60, "instruction": "Clear step-by-step instruction"},
    {"label": "Action name", "duration_seconds": 180, "instruction": "Clear step-by-step instruction"}
  ],
  "severity": "calm" or "notice" or "urgent",
  "tone": "gentle" or "encouraging" or "practical" or "creative",
  "explainability": "Brief rationale for why this reflection fits"
}

Guidelines:
- Keep reflection kind, warm, and validating
- Micro-actions must be realistic, under 5 minutes, no equipment needed
- severity: "calm" for mild feelings, "notice" for elevated stress, "urgent" for crisis indicators
- Respond ONLY with valid JSON, no other text

Output JSON:`, input, context.String())
}

// artPrompts maps emotions to text-to-image prompt fragments.
var artPrompts = map[string]string{
	"joy":      "abstract art, vibrant colors, warm yellows and oranges, flowing shapes, uplifting, energetic, positive energy, digital art",
	"sadness":  "abstract art, cool blues and purples, gentle waves, melancholic, soft gradients, contemplative, serene, digital art",
	"anger":    "abstract art, intense reds and blacks, sharp angles, dynamic movement, powerful, bold strokes, dramatic, digital art",
	"fear":     "abstract art, dark purples and grays, swirling patterns, mysterious, ethereal, shadowy, atmospheric, digital art",
	"love":     "abstract art, soft pinks and warm reds, heart shapes, gentle curves, romantic, tender, harmonious, digital art",
	"surprise": "abstract art, bright oranges and yellows, explosive patterns, dynamic, energetic, unexpected, vibrant, digital art",
	"neutral":  "abstract art, balanced colors, geometric patterns, calm, centered, minimalist, peaceful, digital art",
}

// BuildArt builds the text-to-image prompt for a mood. The summary is the
// raw input truncated to MaxSummaryChars.
func BuildArt(emotionLabel, summary string) string {
	base, ok := artPrompts[emotionLabel]
	if !ok {
		base = artPrompts["neutral"]
	}
	if len(summary) > MaxSummaryChars {
		cut := MaxSummaryChars
		for cut > 0 && !utf8.RuneStart(summary[cut]) {
			cut--
		}
		summary = summary[:cut]
	}
	if summary != "" {
		return fmt.Sprintf("%s, evoking: %s, high quality, artistic, beautiful", base, summary)
	}
	return base + ", high quality, artistic, beautiful"
}
