// Package vision annotates images with Google Cloud Vision: localized
// objects, scene labels, and safe-search likelihoods in one request.
package vision

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"google.golang.org/api/option"

	"github.com/JaimeStill/vigil/pkg/lifecycle"
)

// System annotates images through the vision service.
type System interface {
	// Start registers a shutdown hook that closes the client.
	Start(lc *lifecycle.Coordinator) error
	// Annotate sends one image and returns its perception output.
	Annotate(ctx context.Context, image []byte) (*Annotation, error)
	// Close releases the client connection.
	Close() error
}

type cloudVision struct {
	client     *vision.ImageAnnotatorClient
	maxResults int32
	timeout    time.Duration
	logger     *slog.Logger
}

// New creates a vision system. The gRPC connection is established lazily
// on the first request.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (System, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create vision client: %w", err)
	}

	return &cloudVision{
		client:     client,
		maxResults: cfg.MaxResults,
		timeout:    cfg.TimeoutDuration(),
		logger:     logger.With("system", "vision"),
	}, nil
}

func (v *cloudVision) Start(lc *lifecycle.Coordinator) error {
	v.logger.Info("starting vision system")

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := v.Close(); err != nil {
			v.logger.Error("vision client close failed", "error", err)
			return
		}
		v.logger.Info("vision client closed")
	})

	return nil
}

func (v *cloudVision) Annotate(ctx context.Context, image []byte) (*Annotation, error) {
	if len(image) == 0 {
		return nil, ErrEmptyImage
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	start := time.Now()
	resp, err := v.client.BatchAnnotateImages(ctx, NewRequest(image, v.maxResults))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnnotate, err)
	}

	annotation, err := FromResponse(resp)
	if err != nil {
		return nil, err
	}

	v.logger.Debug(
		"image annotated",
		"objects", len(annotation.Objects),
		"labels", len(annotation.Labels),
		"duration", time.Since(start),
	)
	return annotation, nil
}

func (v *cloudVision) Close() error {
	return v.client.Close()
}
