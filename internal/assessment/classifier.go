package assessment

import (
	"fmt"
	"strings"
)

// MatchMode selects how a detection token is compared with a catalog key.
type MatchMode int

const (
	// MatchSubstring matches when the token contains the key ("near-stairs" matches "stairs").
	MatchSubstring MatchMode = iota
	// MatchExact matches only when the token equals the key.
	MatchExact
)

// String returns the configuration name of the mode.
func (m MatchMode) String() string {
	switch m {
	case MatchExact:
		return "exact"
	default:
		return "substring"
	}
}

// ParseMatchMode reads a configuration name. An empty name is MatchSubstring.
func ParseMatchMode(s string) (MatchMode, error) {
	switch normalizeToken(s) {
	case "", "substring":
		return MatchSubstring, nil
	case "exact":
		return MatchExact, nil
	default:
		return MatchSubstring, fmt.Errorf("%w: %q", ErrUnknownMatchMode, s)
	}
}

func (m MatchMode) matches(token, key string) bool {
	if m == MatchExact {
		return token == key
	}
	return strings.Contains(token, key)
}

// Match is the ordered, key-unique set of situations matched for one analysis.
// Keys never contains AloneKey; the solitary flag is carried by Alone and
// always sorts after lexical matches.
type Match struct {
	Keys  []string `json:"keys"`
	Alone bool     `json:"alone"`
}

// Ordered returns the matched keys with AloneKey appended when flagged.
func (m Match) Ordered() []string {
	keys := make([]string, 0, len(m.Keys)+1)
	keys = append(keys, m.Keys...)
	if m.Alone {
		keys = append(keys, AloneKey)
	}
	return keys
}

// Empty reports whether nothing matched.
func (m Match) Empty() bool {
	return len(m.Keys) == 0 && !m.Alone
}

// Classifier matches normalized detections against a catalog.
type Classifier struct {
	catalog *Catalog
	mode    MatchMode
}

// NewClassifier returns a classifier over catalog using mode.
func NewClassifier(catalog *Catalog, mode MatchMode) *Classifier {
	return &Classifier{catalog: catalog, mode: mode}
}

// Classify scans tokens in order and, for each token, catalog keys in
// catalog order. A key is recorded on its first match only.
func (c *Classifier) Classify(d Detections) Match {
	seen := newKeySet()
	keys := c.catalog.Keys()

	for _, token := range d.All {
		for _, key := range keys {
			if key == AloneKey {
				continue
			}
			if c.mode.matches(token, key) {
				seen.add(key)
			}
		}
	}

	return Match{
		Keys:  seen.order,
		Alone: solitary(d),
	}
}

// solitary reports whether exactly one object is a person and the token
// stream contains a person.
func solitary(d Detections) bool {
	if d.PersonCount != 1 {
		return false
	}
	for _, token := range d.All {
		if token == personToken {
			return true
		}
	}
	return false
}

type keySet struct {
	order []string
	index map[string]struct{}
}

func newKeySet() *keySet {
	return &keySet{
		order: []string{},
		index: map[string]struct{}{},
	}
}

func (s *keySet) add(key string) bool {
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = struct{}{}
	s.order = append(s.order, key)
	return true
}
