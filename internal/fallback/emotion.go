package fallback

import (
	"sort"
	"strings"

	"github.com/mindmirror-ai/mindmirror/internal/emotion"
	"github.com/mindmirror-ai/mindmirror/internal/resolve"
)

// emotionKeywords drives the local keyword scorer. Each hit adds 0.3 to
// the emotion's score, capped at 0.9.
var emotionKeywords = map[string][]string{
	"joy":       {"happy", "joy", "excited", "great", "wonderful", "amazing", "glad"},
	"sadness":   {"sad", "depressed", "down", "unhappy", "miserable", "crying", "tears"},
	"anger":     {"angry", "mad", "furious", "annoyed", "frustrated", "irritated"},
	"fear":      {"scared", "afraid", "anxious", "worried", "nervous", "fear", "panic"},
	"love":      {"love", "adore", "cherish", "care", "affection"},
	"surprise":  {"surprised", "shocked", "amazed", "unexpected", "wow"},
	"gratitude": {"thank", "grateful", "appreciate", "thankful"},
}

const (
	keywordWeight = 0.3
	keywordCap    = 0.9
	neutralScore  = 0.7
)

// EmotionLocal scores text against fixed keyword lists. Fully
// deterministic: the same input always yields the same ranking.
type EmotionLocal struct{}

// NewEmotionLocal creates the local emotion generator.
func NewEmotionLocal() *EmotionLocal {
	return &EmotionLocal{}
}

// Generate implements resolve.LocalGenerator.
func (g *EmotionLocal) Generate(req resolve.Request) (map[string]any, error) {
	text := strings.ToLower(req.RawInput)

	scores := make(map[string]float64)
	for label, keywords := range emotionKeywords {
		count := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				count++
			}
		}
		if count > 0 {
			score := float64(count) * keywordWeight
			if score > keywordCap {
				score = keywordCap
			}
			scores[label] = score
		}
	}

	if len(scores) == 0 {
		scores["neutral"] = neutralScore
	}

	labels := make([]string, 0, len(scores))
	for label := range scores {
		labels = append(labels, label)
	}
	// Ties break alphabetically so the ranking is stable.
	sort.Slice(labels, func(i, j int) bool {
		if scores[labels[i]] != scores[labels[j]] {
			return scores[labels[i]] > scores[labels[j]]
		}
		return labels[i] < labels[j]
	})
	if len(labels) > 3 {
		labels = labels[:3]
	}

	top := make(map[string]float64, len(labels))
	for _, label := range labels {
		top[label] = scores[label]
	}

	return map[string]any{
		"emotions":        labels,
		"scores":          top,
		"primary_emotion": labels[0],
		"color":           emotion.Color(labels[0]),
		"emoji":           emotion.Emoji(labels[0]),
		"summary":         emotion.Summarize(labels, top),
		"model_used":      "template",
	}, nil
}
