package fallback

import (
	"fmt"
	"strings"

	"github.com/mindmirror-ai/mindmirror/internal/resolve"
	"github.com/mindmirror-ai/mindmirror/internal/safety"
)

// microAction is one template action. Realistic, under five minutes, no
// equipment.
type microAction struct {
	Label           string
	DurationSeconds int
	Instruction     string
}

type reflectionTemplate struct {
	Reflections []string
	Poems       []string
	Actions     []microAction
	Tone        string
}

// categoryKeywords maps template categories to trigger words. Checked in
// a fixed order; the first category with a hit wins.
var categoryOrder = []string{"sad", "anxious", "angry", "overwhelmed", "lonely"}

var categoryKeywords = map[string][]string{
	"sad":         {"sad", "depressed", "down", "hopeless", "crying"},
	"anxious":     {"anxious", "worried", "nervous", "panic", "scared", "afraid"},
	"angry":       {"angry", "mad", "furious", "frustrated", "irritated"},
	"overwhelmed": {"overwhelmed", "too much", "can't handle", "stressed"},
	"lonely":      {"lonely", "alone", "isolated", "nobody"},
}

var reflectionTemplates = map[string]reflectionTemplate{
	"sad": {
		Reflections: []string{
			"I hear the weight you're carrying. Sadness is a natural response to loss or disappointment, and it's okay to feel this way.",
			"Your feelings are valid. Sometimes sadness is our heart's way of processing what matters to us.",
			"It's brave to acknowledge sadness. This feeling won't last forever, even though it feels heavy right now.",
		},
		Poems: []string{
			"Even in the darkest night, stars find a way to shine.",
			"Tears water the seeds of tomorrow's strength.",
			"Your heart knows how to heal, one gentle breath at a time.",
		},
		Actions: []microAction{
			{"Gentle breathing", 120, "Sit comfortably. Breathe in for 4 counts, hold for 4, out for 6. Repeat 5 times."},
			{"Comfort ritual", 180, "Make a warm drink, wrap yourself in a blanket, and sit by a window for 3 minutes."},
		},
		Tone: "gentle",
	},
	"anxious": {
		Reflections: []string{
			"Anxiety can feel overwhelming, but you're not alone in this. Your nervous system is trying to protect you.",
			"I see you're feeling anxious. That racing mind and tight chest are real, and there are ways to ease them.",
			"Anxiety is uncomfortable, but it's also temporary. Let's find a way to ground you in this moment.",
		},
		Poems: []string{
			"Breathe in calm, breathe out worry. You are safe in this moment.",
			"Like waves, anxiety rises and falls. You are the steady shore.",
			"One breath at a time, you find your center again.",
		},
		Actions: []microAction{
			{"5-4-3-2-1 grounding", 180, "Name 5 things you see, 4 you hear, 3 you touch, 2 you smell, 1 you taste."},
			{"Progressive relaxation", 240, "Tense and release each muscle group: feet, legs, stomach, hands, shoulders, face."},
		},
		Tone: "practical",
	},
	"angry": {
		Reflections: []string{
			"Anger is a powerful emotion that tells us something matters. It's okay to feel this way.",
			"I hear your frustration. Anger often masks hurt or unmet needs. You deserve to be heard.",
			"Your anger is valid. Let's find a healthy way to express and release this energy.",
		},
		Poems: []string{
			"Fire can warm or burn. Choose how you channel this flame.",
			"Anger is energy seeking expression. Let it flow, then let it go.",
			"Beneath the storm, your calm center waits.",
		},
		Actions: []microAction{
			{"Physical release", 120, "Do 20 jumping jacks or punch a pillow. Let your body express the energy."},
			{"Cooling breath", 180, "Breathe in through nose, out through mouth with a 'ha' sound. Imagine releasing heat."},
		},
		Tone: "encouraging",
	},
	"overwhelmed": {
		Reflections: []string{
			"Feeling overwhelmed means you care deeply. It's a sign you're human, not weak.",
			"When everything feels like too much, remember: you only need to take the next small step.",
			"Overwhelm is your system saying 'pause.' Let's break this down into manageable pieces.",
		},
		Poems: []string{
			"Mountains are climbed one step at a time, not all at once.",
			"In the chaos, find one small thing you can control.",
			"You don't have to carry it all. Set something down.",
		},
		Actions: []microAction{
			{"Brain dump", 300, "Write everything on your mind for 5 minutes. Don't organize, just release."},
			{"One thing", 120, "Choose the smallest task you can do right now. Do only that. Celebrate it."},
		},
		Tone: "practical",
	},
	"lonely": {
		Reflections: []string{
			"Loneliness is painful, and I'm sorry you're feeling this way. Connection is a fundamental human need.",
			"Even in loneliness, you're not truly alone. Your feelings matter, and there are people who care.",
			"Loneliness can feel like an empty room, but small connections can light it up again.",
		},
		Poems: []string{
			"Even the moon needs the sun. Reach out, even in small ways.",
			"Loneliness is a bridge, not a destination. Cross it gently.",
			"Your presence matters. Someone needs your light, even if you can't see it yet.",
		},
		Actions: []microAction{
			{"Reach out", 180, "Send a text to someone you haven't talked to in a while. Just say hi."},
			{"Self-compassion", 120, "Place hand on heart. Say: 'I am here for myself. I am worthy of connection.'"},
		},
		Tone: "gentle",
	},
	"neutral": {
		Reflections: []string{
			"Thank you for sharing. Sometimes just expressing what's on our mind can bring clarity.",
			"I'm here with you. Whatever you're feeling is valid and worth acknowledging.",
			"Taking time to reflect is a gift you give yourself. Keep going.",
		},
		Poems: []string{
			"In stillness, we find ourselves.",
			"Every moment of awareness is a step toward growth.",
			"Your journey is uniquely yours. Honor it.",
		},
		Actions: []microAction{
			{"Mindful moment", 120, "Close eyes. Notice your breath. Just be present for 2 minutes."},
			{"Gratitude pause", 180, "Think of 3 small things you're grateful for today. Really feel them."},
		},
		Tone: "creative",
	},
}

// noticeCategories escalate severity from calm to notice.
var noticeCategories = map[string]bool{
	"anxious":     true,
	"overwhelmed": true,
	"angry":       true,
}

// ReflectionLocal generates reflections from keyword-matched templates.
// Category detection is deterministic; the picker chooses among the
// category's equally-ranked reflections and poem lines.
type ReflectionLocal struct {
	interceptor *safety.Interceptor
	pick        Picker
}

// NewReflectionLocal creates the local reflection generator. A nil picker
// uses math/rand.
func NewReflectionLocal(interceptor *safety.Interceptor, pick Picker) *ReflectionLocal {
	if pick == nil {
		pick = defaultPicker
	}
	return &ReflectionLocal{interceptor: interceptor, pick: pick}
}

// DetectCategory returns the template category for the input. Categories
// are checked in fixed order; first hit wins, neutral otherwise.
func DetectCategory(input string) string {
	text := strings.ToLower(input)
	for _, category := range categoryOrder {
		for _, kw := range categoryKeywords[category] {
			if strings.Contains(text, kw) {
				return category
			}
		}
	}
	return "neutral"
}

// Generate implements resolve.LocalGenerator.
func (g *ReflectionLocal) Generate(req resolve.Request) (map[string]any, error) {
	category := DetectCategory(req.RawInput)
	template := reflectionTemplates[category]

	reflection := pickString(g.pick, template.Reflections)
	poemLine := pickString(g.pick, template.Poems)

	severity := "calm"
	if g.interceptor != nil && g.interceptor.Classify(req.RawInput) == safety.LevelUrgent {
		severity = "urgent"
		reflection = reflection + " " + safety.CrisisResources["global"]
	} else if noticeCategories[category] {
		severity = "notice"
	}

	actions := make([]map[string]any, 0, len(template.Actions))
	for _, a := range template.Actions {
		actions = append(actions, map[string]any{
			"label":            a.Label,
			"duration_seconds": a.DurationSeconds,
			"instruction":      a.Instruction,
		})
	}

	return map[string]any{
		"reflection":     reflection,
		"poem_line":      poemLine,
		"micro_actions":  actions,
		"severity":       severity,
		"tone":           template.Tone,
		"explainability": fmt.Sprintf("Detected emotion: %s. Used template-based reflection for reliability.", category),
		"notes":          "Using local reflection (AI services temporarily limited)",
		"model_used":     "template_v1",
	}, nil
}
