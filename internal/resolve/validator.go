package resolve

// Validation is purely structural: required fields are present with the
// right primitive shape and enum membership. Semantic quality is never
// evaluated here. Payloads arrive both as JSON-decoded maps (float64
// numbers, []any slices) and as maps built by local generators with
// concrete Go types, so the shape checks accept either form.

var reflectionSeverities = map[string]bool{
	"calm":   true,
	"notice": true,
	"urgent": true,
}

var reflectionTones = map[string]bool{
	"gentle":      true,
	"encouraging": true,
	"practical":   true,
	"creative":    true,
}

var artFormats = map[string]bool{
	"png":  true,
	"jpeg": true,
	"svg":  true,
}

// Validate reports whether payload satisfies the capability's
// required-field contract.
func Validate(capability Capability, payload map[string]any) bool {
	if payload == nil {
		return false
	}

	switch capability {
	case CapabilityEmotion:
		return validateEmotion(payload)
	case CapabilityReflection:
		return validateReflection(payload)
	case CapabilityArt:
		return validateArt(payload)
	case CapabilityTranscription:
		return nonEmptyString(payload["text"])
	case CapabilitySpeech:
		return nonEmptyString(payload["audio"])
	default:
		return false
	}
}

func validateEmotion(payload map[string]any) bool {
	labels, ok := asStringSlice(payload["emotions"])
	if !ok || len(labels) == 0 {
		return false
	}
	scores, ok := asNumberMap(payload["scores"])
	if !ok {
		return false
	}
	for _, s := range scores {
		if s < 0 || s > 1 {
			return false
		}
	}
	return true
}

func validateReflection(payload map[string]any) bool {
	if !nonEmptyString(payload["reflection"]) {
		return false
	}
	if !nonEmptyString(payload["poem_line"]) {
		return false
	}

	severity, ok := asString(payload["severity"])
	if !ok || !reflectionSeverities[severity] {
		return false
	}
	tone, ok := asString(payload["tone"])
	if !ok || !reflectionTones[tone] {
		return false
	}

	actions, ok := asSlice(payload["micro_actions"])
	if !ok || len(actions) == 0 {
		return false
	}
	for _, a := range actions {
		action, ok := asMap(a)
		if !ok {
			return false
		}
		if !nonEmptyString(action["label"]) || !nonEmptyString(action["instruction"]) {
			return false
		}
		secs, ok := asNumber(action["duration_seconds"])
		if !ok || secs < 0 || secs != float64(int64(secs)) {
			return false
		}
	}
	return true
}

func validateArt(payload map[string]any) bool {
	if !nonEmptyString(payload["image"]) {
		return false
	}
	format, ok := asString(payload["format"])
	return ok && artFormats[format]
}

// ============================================================
// Shape helpers
// ============================================================

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func nonEmptyString(v any) bool {
	s, ok := asString(v)
	return ok && s != ""
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []map[string]any:
		out := make([]any, len(s))
		for i, m := range s {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asStringSlice(v any) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		return s, true
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok || str == "" {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	default:
		return nil, false
	}
}

func asNumberMap(v any) (map[string]float64, bool) {
	switch m := v.(type) {
	case map[string]float64:
		return m, true
	case map[string]any:
		out := make(map[string]float64, len(m))
		for k, item := range m {
			n, ok := asNumber(item)
			if !ok {
				return nil, false
			}
			out[k] = n
		}
		return out, true
	default:
		return nil, false
	}
}
