// Package monitor holds the active assessment engine and replaces it
// atomically when the situation catalog changes.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/JaimeStill/vigil/internal/assessment"
	"github.com/JaimeStill/vigil/internal/config"
	"github.com/JaimeStill/vigil/pkg/lifecycle"
)

// ErrNoStore indicates a database-backed reload without a catalog store.
var ErrNoStore = errors.New("no catalog store configured")

// CatalogStore reads the persisted situation catalog.
type CatalogStore interface {
	Catalog(ctx context.Context) (*assessment.Catalog, error)
}

// System exposes the active engine. Engines are immutable; a catalog
// change publishes a new engine and in-flight analyses keep the old one.
type System interface {
	// Engine returns the active engine snapshot. Never nil.
	Engine() *assessment.Engine
	// Swap publishes an engine built over c and returns it.
	Swap(c *assessment.Catalog) *assessment.Engine
	// Reload reads the configured catalog source and publishes it.
	Reload(ctx context.Context) (*assessment.Engine, error)
	// Publish reads the catalog store and publishes it whatever the
	// configured source.
	Publish(ctx context.Context) (*assessment.Engine, error)
	// Status describes the active engine.
	Status() Status
	// Start registers a startup hook that performs the initial Reload.
	Start(lc *lifecycle.Coordinator) error

	Handler() *Handler
}

// Status describes the active engine and where its catalog came from.
type Status struct {
	Source     config.CatalogSource `json:"source"`
	Mode       string               `json:"mode"`
	Situations int                  `json:"situations"`
	Keys       []string             `json:"keys"`
}

type monitor struct {
	engine atomic.Pointer[assessment.Engine]
	source config.CatalogSource
	file   string
	store  CatalogStore
	logger *slog.Logger
}

// New creates a monitor serving the embedded catalog until the first Reload.
// store may be nil unless the source is config.SourceDatabase.
func New(cfg *config.AssessmentConfig, store CatalogStore, logger *slog.Logger) System {
	m := &monitor{
		source: cfg.CatalogSource,
		file:   cfg.CatalogFile,
		store:  store,
		logger: logger.With("system", "monitor"),
	}

	m.engine.Store(assessment.New(assessment.Config{
		Catalog:      assessment.DefaultCatalog(),
		Vocabulary:   assessment.DefaultVocabulary(),
		Combinations: assessment.DefaultCombinations(),
		Phrases:      assessment.DefaultPhrases(),
		Mode:         cfg.Mode(),
	}))

	return m
}

func (m *monitor) Engine() *assessment.Engine {
	return m.engine.Load()
}

func (m *monitor) Swap(c *assessment.Catalog) *assessment.Engine {
	next := m.engine.Load().WithCatalog(c)
	m.engine.Store(next)
	m.logger.Info("catalog published", "situations", c.Len())
	return next
}

func (m *monitor) Reload(ctx context.Context) (*assessment.Engine, error) {
	switch m.source {
	case config.SourceFile:
		return m.reloadFile()
	case config.SourceDatabase:
		return m.reloadStore(ctx)
	default:
		return m.Swap(assessment.DefaultCatalog()), nil
	}
}

func (m *monitor) Publish(ctx context.Context) (*assessment.Engine, error) {
	return m.reloadStore(ctx)
}

func (m *monitor) Status() Status {
	e := m.engine.Load()
	return Status{
		Source:     m.source,
		Mode:       e.Mode().String(),
		Situations: e.Catalog().Len(),
		Keys:       e.Catalog().Keys(),
	}
}

func (m *monitor) Handler() *Handler {
	return NewHandler(m, m.logger)
}

func (m *monitor) Start(lc *lifecycle.Coordinator) error {
	m.logger.Info("starting monitor", "source", m.source)

	lc.OnStartupErr("catalog", func(ctx context.Context) error {
		if _, err := m.Reload(ctx); err != nil {
			m.logger.Error("catalog load failed", "source", m.source, "error", err)
			return err
		}
		return nil
	})

	return nil
}

// The file may carry its own vocabulary and phrases, so the whole engine
// is rebuilt rather than swapping only the catalog.
func (m *monitor) reloadFile() (*assessment.Engine, error) {
	doc, err := assessment.LoadDocument(m.file)
	if err != nil {
		return nil, fmt.Errorf("load catalog file: %w", err)
	}

	cfg, err := doc.Config(m.engine.Load().Mode())
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", m.file, err)
	}

	next := assessment.New(cfg)
	m.engine.Store(next)
	m.logger.Info("catalog file published", "file", m.file, "situations", cfg.Catalog.Len())
	return next, nil
}

func (m *monitor) reloadStore(ctx context.Context) (*assessment.Engine, error) {
	if m.store == nil {
		return nil, ErrNoStore
	}

	c, err := m.store.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog from store: %w", err)
	}

	if c.Len() == 0 {
		m.logger.Warn("situations table is empty, using the embedded catalog")
		c = assessment.DefaultCatalog()
	}

	return m.Swap(c), nil
}
