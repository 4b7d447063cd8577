// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, perception and
// speech providers) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/vigil/internal/config"
	"github.com/JaimeStill/vigil/pkg/database"
	"github.com/JaimeStill/vigil/pkg/lifecycle"
	"github.com/JaimeStill/vigil/pkg/speech"
	"github.com/JaimeStill/vigil/pkg/storage"
	"github.com/JaimeStill/vigil/pkg/vision"
)

// Infrastructure holds the core systems required by all domain modules.
// Vision is nil when the provider client could not be created; analyses
// report that as unavailable instead of failing startup.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Vision    vision.System
	Speech    speech.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	vis, err := vision.New(context.Background(), &cfg.Vision, logger)
	if err != nil {
		logger.Warn("vision provider unavailable, image analysis disabled", "error", err)
		vis = nil
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Vision:    vis,
		Speech:    speech.New(&cfg.Speech, nil, logger),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if i.Vision != nil {
		if err := i.Vision.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("vision start failed: %w", err)
		}
	}
	return nil
}
