package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/vigil/internal/assessment"
)

const (
	EnvAssessmentCatalogSource = "VIGIL_ASSESSMENT_CATALOG_SOURCE"
	EnvAssessmentCatalogFile   = "VIGIL_ASSESSMENT_CATALOG_FILE"
	EnvAssessmentMatchMode     = "VIGIL_ASSESSMENT_MATCH_MODE"
)

// CatalogSource selects where the active situation catalog is loaded from.
type CatalogSource string

const (
	// SourceDefault uses the embedded catalog.
	SourceDefault CatalogSource = "default"
	// SourceFile loads a TOML or YAML catalog document from CatalogFile.
	SourceFile CatalogSource = "file"
	// SourceDatabase loads the situations table, falling back to the embedded catalog when empty.
	SourceDatabase CatalogSource = "database"
)

// AssessmentConfig controls how the risk-assessment engine is built.
type AssessmentConfig struct {
	CatalogSource CatalogSource `toml:"catalog_source"`
	CatalogFile   string        `toml:"catalog_file"`
	MatchMode     string        `toml:"match_mode"`
}

// Mode returns the parsed match mode. Finalize guarantees it parses.
func (c *AssessmentConfig) Mode() assessment.MatchMode {
	mode, _ := assessment.ParseMatchMode(c.MatchMode)
	return mode
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AssessmentConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AssessmentConfig) Merge(overlay *AssessmentConfig) {
	if overlay.CatalogSource != "" {
		c.CatalogSource = overlay.CatalogSource
	}
	if overlay.CatalogFile != "" {
		c.CatalogFile = overlay.CatalogFile
	}
	if overlay.MatchMode != "" {
		c.MatchMode = overlay.MatchMode
	}
}

func (c *AssessmentConfig) loadDefaults() {
	if c.CatalogSource == "" {
		c.CatalogSource = SourceDefault
	}
	if c.MatchMode == "" {
		c.MatchMode = assessment.MatchSubstring.String()
	}
}

func (c *AssessmentConfig) loadEnv() {
	if v := os.Getenv(EnvAssessmentCatalogSource); v != "" {
		c.CatalogSource = CatalogSource(v)
	}
	if v := os.Getenv(EnvAssessmentCatalogFile); v != "" {
		c.CatalogFile = v
	}
	if v := os.Getenv(EnvAssessmentMatchMode); v != "" {
		c.MatchMode = v
	}
}

func (c *AssessmentConfig) validate() error {
	switch c.CatalogSource {
	case SourceDefault, SourceDatabase:
	case SourceFile:
		if c.CatalogFile == "" {
			return fmt.Errorf("catalog_file required when catalog_source is %q", SourceFile)
		}
	default:
		return fmt.Errorf("unknown catalog_source %q", c.CatalogSource)
	}

	if _, err := assessment.ParseMatchMode(c.MatchMode); err != nil {
		return fmt.Errorf("match_mode: %w", err)
	}
	return nil
}
