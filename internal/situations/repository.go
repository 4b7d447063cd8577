package situations

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/vigil/internal/assessment"
	"github.com/JaimeStill/vigil/pkg/pagination"
	"github.com/JaimeStill/vigil/pkg/query"
	"github.com/JaimeStill/vigil/pkg/repository"
	"github.com/JaimeStill/vigil/pkg/storage"
)

// MaxDocumentSize bounds the catalog documents Import will read.
const MaxDocumentSize = 1 << 20

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a situation repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "situations"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Situation], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort...).
		WhereSearch(page.Search, "Key", "RiskLabel", "Advisory")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count situations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	situations, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSituation)
	if err != nil {
		return nil, fmt.Errorf("query situations: %w", err)
	}

	result := pagination.NewPageResult(situations, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Situation, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSituation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Situation, error) {
	entry, err := validate(cmd.Key, cmd.RiskLabel, cmd.Advisory)
	if err != nil {
		return nil, err
	}
	if cmd.Position != nil && *cmd.Position < 0 {
		return nil, fmt.Errorf("%w: position must not be negative", ErrInvalid)
	}

	q := `
		INSERT INTO situations(key, risk_label, advisory, position)
		VALUES ($1, $2, $3, COALESCE($4, (SELECT COALESCE(MAX(position), -1) + 1 FROM situations)))
		RETURNING ` + columns

	args := []any{entry.Key, entry.RiskLabel, entry.Advisory, cmd.Position}

	s, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Situation, error) {
		return repository.QueryOne(ctx, tx, q, args, scanSituation)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("situation created", "id", s.ID, "key", s.Key, "position", s.Position)
	return &s, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Situation, error) {
	entry, err := validate(cmd.Key, cmd.RiskLabel, cmd.Advisory)
	if err != nil {
		return nil, err
	}
	if cmd.Position < 0 {
		return nil, fmt.Errorf("%w: position must not be negative", ErrInvalid)
	}

	q := `
		UPDATE situations
		SET key = $1, risk_label = $2, advisory = $3, position = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING ` + columns

	args := []any{entry.Key, entry.RiskLabel, entry.Advisory, cmd.Position, id}

	s, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Situation, error) {
		return repository.QueryOne(ctx, tx, q, args, scanSituation)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("situation updated", "id", s.ID, "key", s.Key)
	return &s, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM situations WHERE id = $1",
			id,
		)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("situation deleted", "id", id)
	return nil
}

func (r *repo) Catalog(ctx context.Context) (*assessment.Catalog, error) {
	q, args := query.NewBuilder(projection, defaultSort...).Build()

	rows, err := repository.QueryMany(ctx, r.db, q, args, scanSituation)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}

	entries := make([]assessment.Situation, len(rows))
	for i, s := range rows {
		entries[i] = assessment.Situation{
			Key:       s.Key,
			RiskLabel: s.RiskLabel,
			Advisory:  s.Advisory,
		}
	}

	return assessment.NewCatalog(entries)
}

func (r *repo) Export(ctx context.Context) (*Snapshot, error) {
	c, err := r.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	if c.Len() == 0 {
		return nil, ErrEmptyCatalog
	}

	data, err := assessment.DocumentFromCatalog(c).Encode(assessment.FormatTOML)
	if err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}

	key := fmt.Sprintf("%s%s.%s", ExportPrefix, uuid.New(), assessment.FormatTOML)
	if err := r.storage.Upload(ctx, key, bytes.NewReader(data), "application/toml"); err != nil {
		return nil, fmt.Errorf("upload catalog: %w", err)
	}

	r.logger.Info("catalog exported", "key", key, "situations", c.Len())
	return &Snapshot{Key: key, Situations: c.Len(), CreatedAt: time.Now().UTC()}, nil
}

func (r *repo) Import(ctx context.Context, cmd ImportCommand) (*Snapshot, error) {
	format, err := assessment.FormatFromPath(cmd.Key)
	if err != nil {
		return nil, err
	}

	data, err := r.download(ctx, cmd.Key)
	if err != nil {
		return nil, err
	}

	c, err := assessment.ParseCatalog(data, format)
	if err != nil {
		return nil, err
	}
	if c.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCatalog, cmd.Key)
	}

	stmts := make([]repository.Statement, 0, c.Len()+1)
	stmts = append(stmts, repository.Statement{Query: "DELETE FROM situations"})
	for i, s := range c.Situations() {
		stmts = append(stmts, repository.Statement{
			Query: "INSERT INTO situations(key, risk_label, advisory, position) VALUES ($1, $2, $3, $4)",
			Args:  []any{s.Key, s.RiskLabel, s.Advisory, i},
		})
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecAll(ctx, tx, stmts)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("catalog imported", "key", cmd.Key, "situations", c.Len())
	return &Snapshot{Key: cmd.Key, Situations: c.Len(), CreatedAt: time.Now().UTC()}, nil
}

func (r *repo) download(ctx context.Context, key string) ([]byte, error) {
	d, err := r.storage.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer d.Body.Close()

	data, err := io.ReadAll(io.LimitReader(d.Body, MaxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", key, err)
	}
	if len(data) > MaxDocumentSize {
		return nil, fmt.Errorf("%w: %s", ErrImportTooBig, key)
	}
	return data, nil
}

// validate normalizes a single entry with the rules NewCatalog applies
// to a whole catalog.
func validate(key, riskLabel, advisory string) (assessment.Situation, error) {
	c, err := assessment.NewCatalog([]assessment.Situation{
		{Key: key, RiskLabel: riskLabel, Advisory: advisory},
	})
	if err != nil {
		return assessment.Situation{}, errors.Join(ErrInvalid, err)
	}
	return c.Situations()[0], nil
}
