// Package situations administers the persisted situation catalog: the
// table of hazard keys, risk labels and advisories the assessment engine
// matches against. It also moves catalogs between the database and blob
// storage and publishes the stored catalog to the running engine.
package situations

import (
	"time"

	"github.com/google/uuid"
)

// ExportPrefix is the blob storage prefix for exported catalogs.
const ExportPrefix = "catalogs/"

// Situation is one stored catalog entry. Position orders the catalog.
type Situation struct {
	ID        uuid.UUID `json:"id"`
	Key       string    `json:"key"`
	RiskLabel string    `json:"risk_label"`
	Advisory  string    `json:"advisory"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCommand carries the data for a new situation. A nil Position
// appends the situation to the end of the catalog.
type CreateCommand struct {
	Key       string `json:"key"`
	RiskLabel string `json:"risk_label"`
	Advisory  string `json:"advisory"`
	Position  *int   `json:"position,omitempty"`
}

// UpdateCommand replaces the editable fields of a situation.
type UpdateCommand struct {
	Key       string `json:"key"`
	RiskLabel string `json:"risk_label"`
	Advisory  string `json:"advisory"`
	Position  int    `json:"position"`
}

// ImportCommand names an exported catalog in blob storage.
type ImportCommand struct {
	Key string `json:"key"`
}

// Snapshot describes an exported catalog.
type Snapshot struct {
	Key        string    `json:"key"`
	Situations int       `json:"situations"`
	CreatedAt  time.Time `json:"created_at"`
}
