// Package config loads the service configuration from config.toml, an
// optional config.<env>.toml overlay, and VIGIL_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/vigil/pkg/database"
	"github.com/JaimeStill/vigil/pkg/openapi"
	"github.com/JaimeStill/vigil/pkg/speech"
	"github.com/JaimeStill/vigil/pkg/storage"
	"github.com/JaimeStill/vigil/pkg/vision"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvVigilEnv             = "VIGIL_ENV"
	EnvVigilShutdownTimeout = "VIGIL_SHUTDOWN_TIMEOUT"
	EnvVigilVersion         = "VIGIL_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "VIGIL_DB_HOST",
	Port:            "VIGIL_DB_PORT",
	Name:            "VIGIL_DB_NAME",
	User:            "VIGIL_DB_USER",
	Password:        "VIGIL_DB_PASSWORD",
	SSLMode:         "VIGIL_DB_SSL_MODE",
	MaxOpenConns:    "VIGIL_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "VIGIL_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "VIGIL_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "VIGIL_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "VIGIL_STORAGE_CONTAINER_NAME",
	ConnectionString: "VIGIL_STORAGE_CONNECTION_STRING",
	AccountURL:       "VIGIL_STORAGE_ACCOUNT_URL",
	MaxListSize:      "VIGIL_STORAGE_MAX_LIST_SIZE",
}

var visionEnv = &vision.Env{
	CredentialsFile: "VIGIL_VISION_CREDENTIALS_FILE",
	Endpoint:        "VIGIL_VISION_ENDPOINT",
	MaxResults:      "VIGIL_VISION_MAX_RESULTS",
	Timeout:         "VIGIL_VISION_TIMEOUT",
}

var speechEnv = &speech.Env{
	BaseURL:       "VIGIL_SPEECH_BASE_URL",
	APIKey:        "VIGIL_SPEECH_API_KEY",
	VoiceID:       "VIGIL_SPEECH_VOICE_ID",
	ModelID:       "VIGIL_SPEECH_MODEL_ID",
	MaxTextLength: "VIGIL_SPEECH_MAX_TEXT_LENGTH",
	Timeout:       "VIGIL_SPEECH_TIMEOUT",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "VIGIL_OPENAPI_TITLE",
	Description: "VIGIL_OPENAPI_DESCRIPTION",
	ServerURL:   "VIGIL_OPENAPI_SERVER_URL",
}

// Config is the root configuration for the Vigil service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	API             APIConfig        `toml:"api"`
	Vision          vision.Config    `toml:"vision"`
	Speech          speech.Config    `toml:"speech"`
	Assessment      AssessmentConfig `toml:"assessment"`
	OpenAPI         openapi.Config   `toml:"openapi"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the VIGIL_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvVigilEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// LoadDatabase reads the same files as Load but finalizes only the database
// section, so tools that touch only the schema need no storage or provider settings.
func LoadDatabase() (*database.Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Database.Finalize(databaseEnv); err != nil {
		return nil, fmt.Errorf("finalize config: database: %w", err)
	}

	return &cfg.Database, nil
}

// LoadClient finalizes the sections a standalone client needs: the vision
// and speech providers and the assessment engine.
func LoadClient() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	cfg.loadDefaults()
	cfg.loadEnv()

	for _, step := range []struct {
		name string
		fn   func() error
	}{
		{"vision", func() error { return cfg.Vision.Finalize(visionEnv) }},
		{"speech", func() error { return cfg.Speech.Finalize(speechEnv) }},
		{"assessment", cfg.Assessment.Finalize},
	} {
		if err := step.fn(); err != nil {
			return nil, fmt.Errorf("finalize config: %s: %w", step.name, err)
		}
	}

	return cfg, nil
}

func read() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Vision.Merge(&overlay.Vision)
	c.Speech.Merge(&overlay.Speech)
	c.Assessment.Merge(&overlay.Assessment)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	for _, step := range []struct {
		name string
		fn   func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"vision", func() error { return c.Vision.Finalize(visionEnv) }},
		{"speech", func() error { return c.Speech.Finalize(speechEnv) }},
		{"assessment", c.Assessment.Finalize},
		{"openapi", func() error { return c.OpenAPI.Finalize(openapiEnv) }},
	} {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvVigilShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvVigilVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvVigilEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
