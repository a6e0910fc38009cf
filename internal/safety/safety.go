// Package safety scans raw input for crisis indicators before any
// provider is consulted.
//
// Matching is deliberately coarse: case-insensitive substring, first match
// wins, no scoring or negation handling. "no thoughts of harming myself"
// matches "harm myself". That imprecision is a known, accepted property of
// the phrase list; the cost of a false positive is a gentler response,
// while the cost of a false negative is not acceptable.
package safety

import "strings"

// Level classifies input risk.
type Level int

const (
	LevelNormal Level = iota
	LevelUrgent
)

// String returns the level name.
func (l Level) String() string {
	if l == LevelUrgent {
		return "urgent"
	}
	return "normal"
}

// defaultPhrases is the built-in crisis phrase list.
var defaultPhrases = []string{
	"kill myself",
	"end my life",
	"suicide",
	"want to die",
	"harm myself",
	"cut myself",
	"hurt myself",
	"no reason to live",
	"better off dead",
}

// CrisisResources maps region codes to crisis hotline messages. The
// "global" entry is embedded in every urgent-tier reflection.
var CrisisResources = map[string]string{
	"global":    "If you're in crisis, please reach out: International Association for Suicide Prevention: https://www.iasp.info/resources/Crisis_Centres/",
	"us":        "National Suicide Prevention Lifeline: 988 or 1-800-273-8255",
	"uk":        "Samaritans: 116 123",
	"sri_lanka": "Sumithrayo: 011-2692909 or 011-2696666",
}

// Interceptor scans input against a fixed phrase list.
type Interceptor struct {
	phrases []string
}

// NewInterceptor creates an interceptor. With no phrases given, the
// built-in list is used.
func NewInterceptor(phrases []string) *Interceptor {
	if len(phrases) == 0 {
		phrases = defaultPhrases
	}
	lowered := make([]string, len(phrases))
	for i, p := range phrases {
		lowered[i] = strings.ToLower(p)
	}
	return &Interceptor{phrases: lowered}
}

// Classify scans rawInput for crisis phrases. First match wins.
func (i *Interceptor) Classify(rawInput string) Level {
	text := strings.ToLower(rawInput)
	for _, phrase := range i.phrases {
		if strings.Contains(text, phrase) {
			return LevelUrgent
		}
	}
	return LevelNormal
}
