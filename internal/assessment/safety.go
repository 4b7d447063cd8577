package assessment

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Likelihood is the ordinal confidence scale reported by safe-search detection.
type Likelihood int

// Likelihood values in ascending order.
const (
	LikelihoodUnknown Likelihood = iota
	LikelihoodVeryUnlikely
	LikelihoodUnlikely
	LikelihoodPossible
	LikelihoodLikely
	LikelihoodVeryLikely
)

var likelihoodNames = [...]string{
	"UNKNOWN",
	"VERY_UNLIKELY",
	"UNLIKELY",
	"POSSIBLE",
	"LIKELY",
	"VERY_LIKELY",
}

// String returns the provider's enumeration name.
func (l Likelihood) String() string {
	if l < LikelihoodUnknown || l > LikelihoodVeryLikely {
		return likelihoodNames[LikelihoodUnknown]
	}
	return likelihoodNames[l]
}

// Triggers reports whether l meets the fixed LIKELY threshold.
func (l Likelihood) Triggers() bool {
	return l >= LikelihoodLikely && l <= LikelihoodVeryLikely
}

// ParseLikelihood reads an enumeration name (case-insensitive, with or
// without a "Likelihood." prefix) or its ordinal 0-5. Anything else is
// LikelihoodUnknown.
func ParseLikelihood(s string) Likelihood {
	s = strings.TrimSpace(s)
	if s == "" {
		return LikelihoodUnknown
	}

	if n, err := strconv.Atoi(s); err == nil {
		return likelihoodFromOrdinal(n)
	}

	s = strings.ToUpper(s)
	s = strings.TrimPrefix(s, "LIKELIHOOD.")
	for i, name := range likelihoodNames {
		if s == name {
			return Likelihood(i)
		}
	}

	return LikelihoodUnknown
}

// MarshalText encodes the enumeration name.
func (l Likelihood) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalJSON accepts an enumeration name or ordinal. Unrecognized values
// decode to LikelihoodUnknown rather than failing the whole payload.
func (l *Likelihood) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*l = LikelihoodUnknown
		return nil
	}

	switch v := raw.(type) {
	case string:
		*l = ParseLikelihood(v)
	case float64:
		*l = likelihoodFromOrdinal(int(v))
	default:
		*l = LikelihoodUnknown
	}
	return nil
}

func likelihoodFromOrdinal(n int) Likelihood {
	if n < int(LikelihoodUnknown) || n > int(LikelihoodVeryLikely) {
		return LikelihoodUnknown
	}
	return Likelihood(n)
}

// SafetySignal is the coarse content-safety classification for one image.
type SafetySignal struct {
	Violence Likelihood `json:"violence"`
	Medical  Likelihood `json:"medical"`
}

// EvaluateSafety returns the risk flags raised by signal, violence first.
// A nil signal raises nothing.
func EvaluateSafety(signal *SafetySignal, phrases Phrases) []string {
	flags := make([]string, 0, 2)
	if signal == nil {
		return flags
	}

	hazards := []struct {
		level Likelihood
		flag  string
	}{
		{signal.Violence, phrases.ViolenceRisk},
		{signal.Medical, phrases.MedicalRisk},
	}

	for _, h := range hazards {
		if h.level.Triggers() {
			flags = append(flags, h.flag)
		}
	}

	return flags
}
