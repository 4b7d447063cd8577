package analyses

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/vigil/internal/assessment"
	"github.com/JaimeStill/vigil/pkg/speech"
	"github.com/JaimeStill/vigil/pkg/vision"
)

// EngineSource supplies the active assessment engine.
type EngineSource interface {
	Engine() *assessment.Engine
}

type analyzer struct {
	engines EngineSource
	vision  vision.System
	speech  speech.System
	logger  *slog.Logger
	workers int
}

// New creates an analysis system. A nil vision system makes image analysis
// report ErrVisionUnavailable while detections and speech keep working.
func New(
	engines EngineSource,
	vis vision.System,
	sp speech.System,
	logger *slog.Logger,
) System {
	return &analyzer{
		engines: engines,
		vision:  vis,
		speech:  sp,
		logger:  logger.With("system", "analyses"),
		workers: runtime.NumCPU(),
	}
}

func (a *analyzer) Handler(maxUploadSize int64, maxBatchSize int) *Handler {
	return NewHandler(a, a.logger, maxUploadSize, maxBatchSize)
}

func (a *analyzer) Analyze(ctx context.Context, image []byte) (*Analysis, error) {
	if a.vision == nil {
		return nil, ErrVisionUnavailable
	}

	start := time.Now()
	annotation, err := a.vision.Annotate(ctx, image)
	if err != nil {
		return nil, err
	}

	analysis := a.Assess(Command(annotation))
	analysis.Annotation = annotation

	a.logger.Info(
		"image analyzed",
		"objects", len(annotation.Objects),
		"labels", len(annotation.Labels),
		"risks", len(analysis.Result.Risks),
		"duration", time.Since(start),
	)
	return analysis, nil
}

func (a *analyzer) Assess(cmd DetectionsCommand) *Analysis {
	ev := a.engines.Engine().Evaluate(cmd.Objects, cmd.Labels, cmd.SafeSearch)

	return &Analysis{
		Detections: ev.Detections,
		Result:     ev.Result,
	}
}

func (a *analyzer) AnalyzeBatch(ctx context.Context, images []Image) []BatchItem {
	items := make([]BatchItem, len(images))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, img := range images {
		items[i].Filename = img.Filename
		g.Go(func() error {
			analysis, err := a.Analyze(gctx, img.Data)
			if err != nil {
				a.logger.Warn("batch image failed", "filename", img.Filename, "error", err)
				items[i].Error = err.Error()
				return nil
			}
			items[i].Analysis = analysis
			return nil
		})
	}

	g.Wait()
	return items
}

func (a *analyzer) Narrate(ctx context.Context, image []byte) (*speech.Audio, error) {
	analysis, err := a.Analyze(ctx, image)
	if err != nil {
		return nil, err
	}

	audio, err := a.Speak(ctx, analysis.Result.Narration())
	if err != nil {
		return nil, fmt.Errorf("narrate report: %w", err)
	}
	return audio, nil
}

func (a *analyzer) Speak(ctx context.Context, text string) (*speech.Audio, error) {
	return a.speech.Synthesize(ctx, text)
}
