package analyses

import (
	"context"

	"github.com/JaimeStill/vigil/pkg/speech"
)

// System defines the public contract for analysis operations.
type System interface {
	Handler(maxUploadSize int64, maxBatchSize int) *Handler

	// Analyze annotates an image and assesses the annotation.
	Analyze(ctx context.Context, image []byte) (*Analysis, error)
	// Assess runs caller-supplied detections through the engine. It never fails.
	Assess(cmd DetectionsCommand) *Analysis
	// AnalyzeBatch analyzes images concurrently. Results keep input order
	// and a failed image does not fail the others.
	AnalyzeBatch(ctx context.Context, images []Image) []BatchItem
	// Narrate analyzes an image and voices the report.
	Narrate(ctx context.Context, image []byte) (*speech.Audio, error)
	// Speak voices arbitrary text.
	Speak(ctx context.Context, text string) (*speech.Audio, error)
}
