package situations

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/vigil/internal/assessment"
	"github.com/JaimeStill/vigil/pkg/pagination"
)

// System defines the public contract for situation domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Situation], error)

	Find(ctx context.Context, id uuid.UUID) (*Situation, error)
	Create(ctx context.Context, cmd CreateCommand) (*Situation, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Situation, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Catalog returns the stored situations as an engine catalog ordered by position.
	Catalog(ctx context.Context) (*assessment.Catalog, error)
	// Export writes the stored catalog to blob storage as TOML.
	Export(ctx context.Context) (*Snapshot, error)
	// Import replaces the stored catalog with an exported document.
	Import(ctx context.Context, cmd ImportCommand) (*Snapshot, error)
}
