package assessment

import (
	"fmt"
	"slices"
)

// AloneKey is the synthetic situation asserted when exactly one person is present.
const AloneKey = "alone"

// Situation is a catalog row: a detection token with its risk label and advisory phrase.
type Situation struct {
	Key       string `json:"key" toml:"key" yaml:"key"`
	RiskLabel string `json:"risk_label" toml:"risk_label" yaml:"risk_label"`
	Advisory  string `json:"advisory" toml:"advisory" yaml:"advisory"`
}

// Catalog is an ordered, key-unique, immutable table of situations.
// Accessors hand out copies so a Catalog can be shared freely.
type Catalog struct {
	situations []Situation
	index      map[string]int
}

// NewCatalog validates situations and builds a Catalog preserving their order.
// Keys are trimmed and lower-cased; empty keys, empty risk labels and
// duplicate keys are rejected.
func NewCatalog(situations []Situation) (*Catalog, error) {
	c := &Catalog{
		situations: make([]Situation, 0, len(situations)),
		index:      make(map[string]int, len(situations)),
	}

	for i, s := range situations {
		s.Key = normalizeToken(s.Key)
		if s.Key == "" {
			return nil, fmt.Errorf("%w: situation %d has an empty key", ErrInvalidCatalog, i)
		}
		if s.RiskLabel == "" {
			return nil, fmt.Errorf("%w: situation %q has an empty risk label", ErrInvalidCatalog, s.Key)
		}
		if _, dup := c.index[s.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate key %q", ErrInvalidCatalog, s.Key)
		}

		c.index[s.Key] = len(c.situations)
		c.situations = append(c.situations, s)
	}

	return c, nil
}

// EmptyCatalog returns a catalog with no situations.
func EmptyCatalog() *Catalog {
	return &Catalog{index: map[string]int{}}
}

// Len returns the number of situations.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.situations)
}

// Keys returns the situation keys in catalog order.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, len(c.situations))
	for i, s := range c.situations {
		keys[i] = s.Key
	}
	return keys
}

// Situations returns a copy of the catalog rows in order.
func (c *Catalog) Situations() []Situation {
	if c == nil {
		return nil
	}
	return slices.Clone(c.situations)
}

// Lookup returns the situation registered under key.
func (c *Catalog) Lookup(key string) (Situation, bool) {
	if c == nil {
		return Situation{}, false
	}
	i, ok := c.index[key]
	if !ok {
		return Situation{}, false
	}
	return c.situations[i], true
}
