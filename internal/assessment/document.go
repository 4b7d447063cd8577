package assessment

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.toml
var defaultsTOML []byte

// Format is a catalog document encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ParseFormat reads a format name; "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch normalizeToken(s) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Document is the file form of an engine configuration. Only Situations is
// required; missing vocabulary, combinations and phrases fall back to the
// defaults.
type Document struct {
	Situations   []Situation       `json:"situations" toml:"situations" yaml:"situations"`
	Combinations []Combination     `json:"combinations,omitempty" toml:"combinations,omitempty" yaml:"combinations,omitempty"`
	Environment  []EnvironmentTerm `json:"environment,omitempty" toml:"environment,omitempty" yaml:"environment,omitempty"`
	Activities   []ActivityTerm    `json:"activities,omitempty" toml:"activities,omitempty" yaml:"activities,omitempty"`
	Phrases      *Phrases          `json:"phrases,omitempty" toml:"phrases,omitempty" yaml:"phrases,omitempty"`
}

// ParseDocument decodes data in the given format.
func ParseDocument(data []byte, format Format) (*Document, error) {
	var doc Document
	var err error

	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrInvalidCatalog, format, err)
	}
	return &doc, nil
}

// LoadDocument reads and decodes a catalog file, inferring its format from
// the extension.
func LoadDocument(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	return ParseDocument(data, format)
}

// Encode serializes the document in the given format.
func (d *Document) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(d)
	case FormatYAML:
		return yaml.Marshal(d)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Config validates the document and returns an engine configuration.
func (d *Document) Config(mode MatchMode) (Config, error) {
	catalog, err := NewCatalog(d.Situations)
	if err != nil {
		return Config{}, err
	}

	vocabulary := DefaultVocabulary()
	if len(d.Environment) > 0 || len(d.Activities) > 0 {
		vocabulary = Vocabulary{Environment: d.Environment, Activities: d.Activities}
		if err := vocabulary.Validate(); err != nil {
			return Config{}, err
		}
	}

	combinations := DefaultCombinations()
	if len(d.Combinations) > 0 {
		combinations = slices.Clone(d.Combinations)
		if err := ValidateCombinations(combinations); err != nil {
			return Config{}, err
		}
	}

	phrases := DefaultPhrases()
	if d.Phrases != nil {
		phrases = *d.Phrases
		phrases.Merge(DefaultPhrases())
	}

	return Config{
		Catalog:      catalog,
		Vocabulary:   vocabulary,
		Combinations: combinations,
		Phrases:      phrases,
		Mode:         mode,
	}, nil
}

// DocumentFromCatalog wraps a catalog with the default vocabulary and
// combinations.
func DocumentFromCatalog(c *Catalog) *Document {
	v := DefaultVocabulary()
	return &Document{
		Situations:   c.Situations(),
		Combinations: DefaultCombinations(),
		Environment:  v.Environment,
		Activities:   v.Activities,
	}
}

// ParseCatalog decodes only the situations of a document.
func ParseCatalog(data []byte, format Format) (*Catalog, error) {
	doc, err := ParseDocument(data, format)
	if err != nil {
		return nil, err
	}
	return NewCatalog(doc.Situations)
}

// LoadCatalogFile reads the situations of a catalog file.
func LoadCatalogFile(path string) (*Catalog, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return NewCatalog(doc.Situations)
}

// DefaultDocument returns a fresh copy of the embedded document.
func DefaultDocument() *Document {
	doc, err := ParseDocument(defaultsTOML, FormatTOML)
	if err != nil {
		panic(fmt.Sprintf("assessment: embedded defaults: %v", err))
	}
	return doc
}

// DefaultCatalog returns the embedded situation catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultDocument().Situations)
	if err != nil {
		panic(fmt.Sprintf("assessment: embedded catalog: %v", err))
	}
	return c
}

// DefaultVocabulary returns the embedded environment and activity terms.
func DefaultVocabulary() Vocabulary {
	doc := DefaultDocument()
	v := Vocabulary{Environment: doc.Environment, Activities: doc.Activities}
	if err := v.Validate(); err != nil {
		panic(fmt.Sprintf("assessment: embedded vocabulary: %v", err))
	}
	return v
}

// DefaultCombinations returns the embedded structural rules.
func DefaultCombinations() []Combination {
	combinations := DefaultDocument().Combinations
	if err := ValidateCombinations(combinations); err != nil {
		panic(fmt.Sprintf("assessment: embedded combinations: %v", err))
	}
	return combinations
}
