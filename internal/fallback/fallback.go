// Package fallback provides the Local and Minimal degradation tiers:
// rule-based generators with no network dependency, and the hardcoded
// safe payloads returned when even those fail.
//
// Local generators are deterministic given the same input, except where a
// randomness source picks among equally-ranked templates within the
// detected category. The source is injectable so tests can pin it.
package fallback

import "math/rand"

// Picker selects an index in [0, n). The default draws from math/rand;
// tests inject a fixed picker for reproducible output.
type Picker func(n int) int

func defaultPicker(n int) int {
	return rand.Intn(n)
}

func pickString(pick Picker, options []string) string {
	if len(options) == 1 {
		return options[0]
	}
	return options[pick(len(options))]
}
