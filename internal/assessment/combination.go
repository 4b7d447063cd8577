package assessment

import "fmt"

// Combination is a structural rule that raises its own risk when any of
// Keys is detected together with the solitary condition. A combination
// with Alone unset fires on its keys alone.
type Combination struct {
	Keys      []string `json:"keys" toml:"keys" yaml:"keys"`
	Alone     bool     `json:"alone" toml:"alone" yaml:"alone"`
	RiskLabel string   `json:"risk_label" toml:"risk_label" yaml:"risk_label"`
}

// ValidateCombinations normalizes keys in place and rejects rules without
// keys or a risk label.
func ValidateCombinations(combinations []Combination) error {
	for i := range combinations {
		c, ok := combinations[i].normalized()
		if !ok {
			return fmt.Errorf("%w: combination %d needs keys and a risk label", ErrInvalidCatalog, i)
		}
		combinations[i] = c
	}
	return nil
}

// NormalizeCombinations returns a copy with keys lower-cased. Rules
// ValidateCombinations would reject are dropped.
func NormalizeCombinations(combinations []Combination) []Combination {
	out := make([]Combination, 0, len(combinations))
	for _, c := range combinations {
		if c, ok := c.normalized(); ok {
			out = append(out, c)
		}
	}
	return out
}

func (c Combination) normalized() (Combination, bool) {
	keys := make([]string, 0, len(c.Keys))
	for _, k := range c.Keys {
		if k = normalizeToken(k); k != "" {
			keys = append(keys, k)
		}
	}
	c.Keys = keys
	return c, len(keys) > 0 && c.RiskLabel != ""
}

func (c Combination) fires(d Detections, m Match, mode MatchMode) bool {
	if c.Alone && !m.Alone {
		return false
	}
	for _, token := range d.All {
		for _, key := range c.Keys {
			if mode.matches(token, key) {
				return true
			}
		}
	}
	return false
}
