package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDefaultPhrases(t *testing.T) {
	i := NewInterceptor(nil)

	tests := []struct {
		name  string
		input string
		want  Level
	}{
		{"direct crisis phrase", "I want to kill myself", LevelUrgent},
		{"uppercase match", "I WANT TO END MY LIFE", LevelUrgent},
		{"phrase inside sentence", "sometimes I feel like there is no reason to live anymore", LevelUrgent},
		{"self harm phrase", "I might hurt myself tonight", LevelUrgent},
		{"ordinary sadness", "I had a terrible day and feel sad", LevelNormal},
		{"empty input", "", LevelNormal},
		{"unrelated text", "the deployment failed again", LevelNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, i.Classify(tt.input))
		})
	}
}

func TestClassifyCustomPhrases(t *testing.T) {
	i := NewInterceptor([]string{"Code Red"})

	assert.Equal(t, LevelUrgent, i.Classify("this is a CODE RED situation"))
	// Custom phrase lists replace the defaults entirely.
	assert.Equal(t, LevelNormal, i.Classify("I want to kill myself"))
}

func TestCrisisResourcesPresent(t *testing.T) {
	for _, region := range []string{"global", "us", "uk", "sri_lanka"} {
		assert.NotEmpty(t, CrisisResources[region], "region %s", region)
	}
}
