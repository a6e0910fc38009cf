package fallback

import (
	"fmt"

	"github.com/mindmirror-ai/mindmirror/internal/emotion"
	"github.com/mindmirror-ai/mindmirror/internal/resolve"
)

type palette struct {
	Primary   string
	Secondary string
	Accent    string
}

var palettes = map[string]palette{
	"joy":      {"#FFD700", "#FFA500", "#FF6347"},
	"sadness":  {"#4169E1", "#6495ED", "#87CEEB"},
	"anger":    {"#DC143C", "#8B0000", "#FF4500"},
	"fear":     {"#9370DB", "#8B008B", "#4B0082"},
	"love":     {"#FF69B4", "#FF1493", "#FFB6C1"},
	"surprise": {"#FF8C00", "#FFA500", "#FFD700"},
	"neutral":  {"#808080", "#A9A9A9", "#C0C0C0"},
}

// ArtLocal renders procedural SVG art from the emotion's color palette.
// The composition is fixed; only the palette varies, so output is fully
// deterministic per emotion.
type ArtLocal struct{}

// NewArtLocal creates the procedural art generator.
func NewArtLocal() *ArtLocal {
	return &ArtLocal{}
}

// Generate implements resolve.LocalGenerator. The emotion label comes
// from the request context (set by the pipeline); without one, the label
// is detected from the raw input keywords.
func (g *ArtLocal) Generate(req resolve.Request) (map[string]any, error) {
	label := req.Context["emotion"]
	if label == "" {
		label = detectArtEmotion(req.RawInput)
	}
	label = emotion.Normalize(label)

	return map[string]any{
		"image":      RenderSVG(label),
		"format":     "svg",
		"emotion":    label,
		"model_used": "procedural_svg",
	}, nil
}

// detectArtEmotion reuses the keyword scorer to pick a palette when no
// upstream emotion label is available.
func detectArtEmotion(input string) string {
	payload, err := NewEmotionLocal().Generate(resolve.Request{
		RawInput:   input,
		Capability: resolve.CapabilityEmotion,
	})
	if err != nil {
		return "neutral"
	}
	if label, ok := payload["primary_emotion"].(string); ok {
		return label
	}
	return "neutral"
}

// RenderSVG draws the mood gradient composition in the emotion's palette.
func RenderSVG(label string) string {
	colors, ok := palettes[label]
	if !ok {
		colors = palettes["neutral"]
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="512" height="512" xmlns="http://www.w3.org/2000/svg">
    <defs>
        <radialGradient id="grad1">
            <stop offset="0%%" style="stop-color:%[1]s;stop-opacity:0.8" />
            <stop offset="100%%" style="stop-color:%[2]s;stop-opacity:0.4" />
        </radialGradient>
        <linearGradient id="grad2" x1="0%%" y1="0%%" x2="100%%" y2="100%%">
            <stop offset="0%%" style="stop-color:%[2]s;stop-opacity:0.6" />
            <stop offset="100%%" style="stop-color:%[3]s;stop-opacity:0.8" />
        </linearGradient>
    </defs>

    <rect width="512" height="512" fill="url(#grad1)"/>

    <circle cx="256" cy="256" r="150" fill="url(#grad2)" opacity="0.7"/>
    <circle cx="180" cy="180" r="80" fill="%[3]s" opacity="0.5"/>
    <circle cx="350" cy="320" r="100" fill="%[1]s" opacity="0.4"/>

    <path d="M 50 256 Q 256 100, 462 256 T 50 256" fill="none" stroke="%[2]s" stroke-width="3" opacity="0.6"/>
    <path d="M 256 50 Q 400 256, 256 462 T 256 50" fill="none" stroke="%[3]s" stroke-width="2" opacity="0.5"/>
</svg>`, colors.Primary, colors.Secondary, colors.Accent)
}
