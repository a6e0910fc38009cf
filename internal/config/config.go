// Package config handles MindMirror configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Default returns the default configuration. The provider chains mirror
// the free-tier model registry: every capability lists its models in
// priority order, inference timeouts sized per task.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			RequestTimeout:  seconds(90),
			ShutdownTimeout: seconds(10),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: false,
		},
		Cache: CacheConfig{
			Capacity:      100,
			DefaultTTL:    Duration{5 * time.Minute},
			ReflectionTTL: Duration{6 * time.Hour},
			LocalTTL:      Duration{1 * time.Minute},
			PipelineTTL:   Duration{5 * time.Minute},
		},
		Safety: SafetyConfig{},
		Pipeline: PipelineConfig{
			EnableSpeech: false,
		},
		Providers: ProvidersConfig{
			HuggingFaceURL:    "https://api-inference.huggingface.co",
			OpenRouterURL:     "https://openrouter.ai/api/v1",
			HuggingFaceKeyEnv: "HUGGINGFACE_API_KEY",
			OpenRouterKeyEnv:  "OPENROUTER_API_KEY",
			Emotion: []ProviderEntry{
				{ID: "hf-distilroberta", Kind: KindHuggingFace, Model: "j-hartmann/emotion-english-distilroberta-base", Priority: 1, CallTimeout: seconds(12), TotalBudget: seconds(26), Retryable: true},
				{ID: "hf-bert-emotion", Kind: KindHuggingFace, Model: "nateraw/bert-base-uncased-emotion", Priority: 2, CallTimeout: seconds(12), TotalBudget: seconds(26), Retryable: true},
				{ID: "hf-distilbert-emotion", Kind: KindHuggingFace, Model: "bhadresh-savani/distilbert-base-uncased-emotion", Priority: 3, CallTimeout: seconds(12), TotalBudget: seconds(13), Retryable: false},
			},
			Reflection: []ProviderEntry{
				{ID: "or-llama-3b", Kind: KindOpenRouter, Model: "meta-llama/llama-3.2-3b-instruct:free", Priority: 1, CallTimeout: seconds(25), TotalBudget: seconds(52), Retryable: true},
				{ID: "or-llama-8b", Kind: KindOpenRouter, Model: "meta-llama/llama-3.1-8b-instruct:free", Priority: 2, CallTimeout: seconds(25), TotalBudget: seconds(26), Retryable: false},
				{ID: "hf-zephyr", Kind: KindHuggingFace, Model: "HuggingFaceH4/zephyr-7b-beta", Priority: 3, CallTimeout: seconds(30), TotalBudget: seconds(62), Retryable: true},
				{ID: "hf-mistral", Kind: KindHuggingFace, Model: "mistralai/Mistral-7B-Instruct-v0.1", Priority: 4, CallTimeout: seconds(30), TotalBudget: seconds(31), Retryable: false},
			},
			Art: []ProviderEntry{
				{ID: "hf-sd21", Kind: KindHuggingFace, Model: "stabilityai/stable-diffusion-2-1-base", Priority: 1, CallTimeout: seconds(45), TotalBudget: seconds(92), Retryable: true},
				{ID: "hf-sd14", Kind: KindHuggingFace, Model: "CompVis/stable-diffusion-v1-4", Priority: 2, CallTimeout: seconds(45), TotalBudget: seconds(46), Retryable: false},
			},
			Transcription: []ProviderEntry{
				{ID: "hf-whisper-tiny", Kind: KindHuggingFace, Model: "openai/whisper-tiny", Priority: 1, CallTimeout: seconds(15), TotalBudget: seconds(32), Retryable: true},
				{ID: "hf-whisper-base", Kind: KindHuggingFace, Model: "openai/whisper-base", Priority: 2, CallTimeout: seconds(20), TotalBudget: seconds(42), Retryable: true},
				{ID: "hf-wav2vec2", Kind: KindHuggingFace, Model: "facebook/wav2vec2-base-960h", Priority: 3, CallTimeout: seconds(15), TotalBudget: seconds(16), Retryable: false},
			},
			Speech: []ProviderEntry{
				{ID: "hf-fastspeech2", Kind: KindHuggingFace, Model: "facebook/fastspeech2-en-ljspeech", Priority: 1, CallTimeout: seconds(20), TotalBudget: seconds(42), Retryable: true},
				{ID: "hf-vits", Kind: KindHuggingFace, Model: "espnet/kan-bayashi_ljspeech_vits", Priority: 2, CallTimeout: seconds(20), TotalBudget: seconds(21), Retryable: false},
			},
		},
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	// Probe the document first: a provider chain present in the file
	// replaces the default chain wholesale. Decoding straight into the
	// defaults would merge array-of-tables entries element by element, so
	// a partial entry would silently inherit fields from the default at
	// the same index instead of failing validation.
	var probe Config
	md, err := toml.Decode(string(data), &probe)
	if err != nil {
		return nil, err
	}
	for name, chain := range map[string]*[]ProviderEntry{
		"emotion":       &cfg.Providers.Emotion,
		"reflection":    &cfg.Providers.Reflection,
		"art":           &cfg.Providers.Art,
		"transcription": &cfg.Providers.Transcription,
		"speech":        &cfg.Providers.Speech,
	} {
		if md.IsDefined("providers", name) {
			*chain = nil
		}
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to the given path.
func (c *Config) Save(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	return encoder.Encode(c)
}

// Validate checks the loaded configuration for entries the engine cannot
// run with.
func (c *Config) Validate() error {
	if c.Cache.Capacity < 1 {
		return fmt.Errorf("cache.capacity must be at least 1, got %d", c.Cache.Capacity)
	}
	chains := map[string][]ProviderEntry{
		"emotion":       c.Providers.Emotion,
		"reflection":    c.Providers.Reflection,
		"art":           c.Providers.Art,
		"transcription": c.Providers.Transcription,
		"speech":        c.Providers.Speech,
	}
	for name, entries := range chains {
		for i, e := range entries {
			if e.ID == "" {
				return fmt.Errorf("providers.%s[%d]: id is required", name, i)
			}
			if e.Kind != KindHuggingFace && e.Kind != KindOpenRouter {
				return fmt.Errorf("providers.%s[%d] (%s): unknown kind %q", name, i, e.ID, e.Kind)
			}
			if e.Model == "" {
				return fmt.Errorf("providers.%s[%d] (%s): model is required", name, i, e.ID)
			}
			if e.CallTimeout.Duration <= 0 {
				return fmt.Errorf("providers.%s[%d] (%s): call_timeout must be positive", name, i, e.ID)
			}
			if e.TotalBudget.Duration < e.CallTimeout.Duration {
				return fmt.Errorf("providers.%s[%d] (%s): total_budget must cover at least one call", name, i, e.ID)
			}
		}
	}
	return nil
}

// HuggingFaceKey reads the HuggingFace API key from the environment.
func (c *Config) HuggingFaceKey() string {
	return os.Getenv(c.Providers.HuggingFaceKeyEnv)
}

// OpenRouterKey reads the OpenRouter API key from the environment.
func (c *Config) OpenRouterKey() string {
	return os.Getenv(c.Providers.OpenRouterKeyEnv)
}
