package speech

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// VoiceSettings tunes the synthesized voice.
type VoiceSettings struct {
	Stability       float64 `toml:"stability" json:"stability"`
	SimilarityBoost float64 `toml:"similarity_boost" json:"similarity_boost"`
	Style           float64 `toml:"style" json:"style"`
}

// Config holds text-to-speech provider settings.
type Config struct {
	BaseURL       string        `toml:"base_url"`
	APIKey        string        `toml:"api_key"`
	VoiceID       string        `toml:"voice_id"`
	ModelID       string        `toml:"model_id"`
	MaxTextLength int           `toml:"max_text_length"`
	Timeout       string        `toml:"timeout"`
	Voice         VoiceSettings `toml:"voice"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL       string
	APIKey        string
	VoiceID       string
	ModelID       string
	MaxTextLength string
	Timeout       string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
// An empty APIKey is allowed; synthesis then fails with ErrNotConfigured.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.VoiceID != "" {
		c.VoiceID = overlay.VoiceID
	}
	if overlay.ModelID != "" {
		c.ModelID = overlay.ModelID
	}
	if overlay.MaxTextLength != 0 {
		c.MaxTextLength = overlay.MaxTextLength
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Voice != (VoiceSettings{}) {
		c.Voice = overlay.Voice
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.elevenlabs.io/v1"
	}
	if c.VoiceID == "" {
		c.VoiceID = "21m00Tcm4TlvDq8ikWAM"
	}
	if c.ModelID == "" {
		c.ModelID = "eleven_multilingual_v2"
	}
	if c.MaxTextLength == 0 {
		c.MaxTextLength = 5000
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.Voice == (VoiceSettings{}) {
		c.Voice = VoiceSettings{Stability: 0.5, SimilarityBoost: 0.8, Style: 0.3}
	}
}

func (c *Config) loadEnv(env *Env) {
	for _, e := range []struct {
		key string
		dst *string
	}{
		{env.BaseURL, &c.BaseURL},
		{env.APIKey, &c.APIKey},
		{env.VoiceID, &c.VoiceID},
		{env.ModelID, &c.ModelID},
		{env.Timeout, &c.Timeout},
	} {
		if e.key == "" {
			continue
		}
		if v := os.Getenv(e.key); v != "" {
			*e.dst = v
		}
	}

	if env.MaxTextLength != "" {
		if v := os.Getenv(env.MaxTextLength); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxTextLength = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.MaxTextLength < 1 {
		return fmt.Errorf("max_text_length must be positive")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	for name, v := range map[string]float64{
		"stability":        c.Voice.Stability,
		"similarity_boost": c.Voice.SimilarityBoost,
		"style":            c.Voice.Style,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("voice.%s must be within [0, 1]", name)
		}
	}
	return nil
}
