package situations

import (
	"net/url"

	"github.com/JaimeStill/vigil/pkg/query"
	"github.com/JaimeStill/vigil/pkg/repository"
)

const columns = "id, key, risk_label, advisory, position, created_at, updated_at"

var projection = query.
	NewProjectionMap("public", "situations", "s").
	Project("id", "ID").
	Project("key", "Key").
	Project("risk_label", "RiskLabel").
	Project("advisory", "Advisory").
	Project("position", "Position").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = []query.SortField{
	{Field: "Position"},
	{Field: "Key"},
}

// Filters contains optional filtering criteria for situation queries.
// Nil fields are ignored. Key and RiskLabel use case-insensitive contains matching.
type Filters struct {
	Key       *string `json:"key,omitempty"`
	RiskLabel *string `json:"risk_label,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Key", f.Key).
		WhereContains("RiskLabel", f.RiskLabel)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if k := values.Get("key"); k != "" {
		f.Key = &k
	}
	if l := values.Get("risk_label"); l != "" {
		f.RiskLabel = &l
	}

	return f
}

func scanSituation(s repository.Scanner) (Situation, error) {
	var st Situation
	err := s.Scan(
		&st.ID,
		&st.Key,
		&st.RiskLabel,
		&st.Advisory,
		&st.Position,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	return st, err
}
