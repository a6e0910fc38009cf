// Package emotion holds the shared emotion vocabulary: label
// normalization across provider models, and the color/emoji/summary
// presentation tables attached to every emotion payload.
package emotion

import (
	"fmt"
	"strings"
)

// labelAliases maps the label variants different classifier models emit
// onto the standard set.
var labelAliases = map[string]string{
	"happy":     "joy",
	"happiness": "joy",
	"excited":   "joy",
	"sad":       "sadness",
	"depressed": "sadness",
	"angry":     "anger",
	"mad":       "anger",
	"scared":    "fear",
	"anxious":   "fear",
	"anxiety":   "fear",
	"worried":   "fear",
	"affection": "love",
	"caring":    "love",
	"surprised": "surprise",
	"amazed":    "surprise",
	"calm":      "neutral",
}

// Normalize maps a model-specific label onto the standard set. Unknown
// labels pass through lowercased.
func Normalize(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if std, ok := labelAliases[label]; ok {
		return std
	}
	return label
}

var colors = map[string]string{
	"joy":      "#FFD700",
	"sadness":  "#4169E1",
	"anger":    "#DC143C",
	"fear":     "#9370DB",
	"love":     "#FF69B4",
	"surprise": "#FF8C00",
	"neutral":  "#808080",
}

// Color returns the hex color associated with an emotion.
func Color(label string) string {
	if c, ok := colors[Normalize(label)]; ok {
		return c
	}
	return colors["neutral"]
}

var emojis = map[string]string{
	"joy":      "😊",
	"sadness":  "😢",
	"anger":    "😤",
	"fear":     "😰",
	"love":     "❤️",
	"surprise": "😮",
	"neutral":  "😌",
}

// Emoji returns the emoji associated with an emotion.
func Emoji(label string) string {
	if e, ok := emojis[Normalize(label)]; ok {
		return e
	}
	return emojis["neutral"]
}

var descriptions = map[string]string{
	"joy":      "You're feeling joyful and positive!",
	"sadness":  "You're experiencing sadness. It's okay to feel this way.",
	"anger":    "You're feeling angry or frustrated. Take a deep breath.",
	"fear":     "You're feeling anxious or fearful. You're not alone.",
	"love":     "You're feeling love and warmth!",
	"surprise": "You're feeling surprised or amazed!",
	"neutral":  "You're in a calm, neutral state.",
}

// Summarize produces the human-readable summary sentence for a ranked
// emotion list. Confidence wording follows fixed thresholds; a second
// emotion above 0.3 is mentioned as a hint.
func Summarize(labels []string, scores map[string]float64) string {
	if len(labels) == 0 {
		return "Neutral emotional state"
	}

	primary := Normalize(labels[0])
	confidence := scores[primary]

	base, ok := descriptions[primary]
	if !ok {
		base = fmt.Sprintf("You're feeling %s", primary)
	}

	intensity := "slightly"
	switch {
	case confidence > 0.8:
		intensity = "strongly"
	case confidence > 0.6:
		intensity = "moderately"
	}

	if len(labels) > 1 {
		secondary := Normalize(labels[1])
		if scores[secondary] > 0.3 {
			return fmt.Sprintf("%s You're %s experiencing %s, with hints of %s.", base, intensity, primary, secondary)
		}
	}

	return fmt.Sprintf("%s You're %s experiencing %s.", base, intensity, primary)
}
