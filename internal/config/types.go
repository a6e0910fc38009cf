// Package config provides configuration types for MindMirror.
package config

import (
	"time"

	"github.com/mindmirror-ai/mindmirror/internal/resolve"
)

// Config represents the main MindMirror configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Logging   LoggingConfig   `toml:"logging"`
	Cache     CacheConfig     `toml:"cache"`
	Safety    SafetyConfig    `toml:"safety"`
	Pipeline  PipelineConfig  `toml:"pipeline"`
	Providers ProvidersConfig `toml:"providers"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Addr            string   `toml:"addr"`
	RequestTimeout  Duration `toml:"request_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `toml:"level"` // trace, debug, info, warn, error
	Pretty bool   `toml:"pretty"`
}

// CacheConfig contains result cache settings.
type CacheConfig struct {
	Capacity      int      `toml:"capacity"`
	DefaultTTL    Duration `toml:"default_ttl"`
	ReflectionTTL Duration `toml:"reflection_ttl"`
	LocalTTL      Duration `toml:"local_ttl"`
	PipelineTTL   Duration `toml:"pipeline_ttl"`
}

// SafetyConfig contains crisis detection settings. An empty phrase list
// uses the built-in defaults.
type SafetyConfig struct {
	Phrases []string `toml:"phrases"`
}

// PipelineConfig contains orchestrator settings.
type PipelineConfig struct {
	EnableSpeech bool `toml:"enable_speech"`
}

// ProvidersConfig contains the per-capability provider chains plus the
// shared transport settings. API keys are read from the environment, not
// the config file.
type ProvidersConfig struct {
	HuggingFaceURL    string `toml:"huggingface_url"`
	OpenRouterURL     string `toml:"openrouter_url"`
	HuggingFaceKeyEnv string `toml:"huggingface_key_env"`
	OpenRouterKeyEnv  string `toml:"openrouter_key_env"`

	Emotion       []ProviderEntry `toml:"emotion"`
	Reflection    []ProviderEntry `toml:"reflection"`
	Art           []ProviderEntry `toml:"art"`
	Transcription []ProviderEntry `toml:"transcription"`
	Speech        []ProviderEntry `toml:"speech"`
}

// ProviderEntry is one provider in a capability's chain.
type ProviderEntry struct {
	ID          string   `toml:"id"`
	Kind        string   `toml:"kind"` // huggingface, openrouter
	Model       string   `toml:"model"`
	Priority    int      `toml:"priority"`
	CallTimeout Duration `toml:"call_timeout"`
	TotalBudget Duration `toml:"total_budget"`
	Retryable   bool     `toml:"retryable"`
}

// Provider kinds.
const (
	KindHuggingFace = "huggingface"
	KindOpenRouter  = "openrouter"
)

// Entries returns the provider chain configured for a capability.
func (p *ProvidersConfig) Entries(capability resolve.Capability) []ProviderEntry {
	switch capability {
	case resolve.CapabilityEmotion:
		return p.Emotion
	case resolve.CapabilityReflection:
		return p.Reflection
	case resolve.CapabilityArt:
		return p.Art
	case resolve.CapabilityTranscription:
		return p.Transcription
	case resolve.CapabilitySpeech:
		return p.Speech
	default:
		return nil
	}
}

// Duration wraps time.Duration so config files can use "30s" / "6h"
// strings.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML encoding.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// seconds is a shorthand for building default durations.
func seconds(n int) Duration {
	return Duration{time.Duration(n) * time.Second}
}
