package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/vigil/internal/analyses"
	"github.com/JaimeStill/vigil/internal/assessment"
	"github.com/JaimeStill/vigil/internal/config"
	"github.com/JaimeStill/vigil/pkg/speech"
	"github.com/JaimeStill/vigil/pkg/vision"
)

type imageOptions struct {
	format  string
	audio   string
	verbose bool
}

type engineSource struct {
	engine *assessment.Engine
}

func (s engineSource) Engine() *assessment.Engine { return s.engine }

func newImageCmd(root *options) *cobra.Command {
	opts := &imageOptions{}

	cmd := &cobra.Command{
		Use:   "image <path>...",
		Short: "Annotate images with the vision provider and assess them",
		Long: `Send each image to the configured vision provider and assess the result.
Provider settings come from config.toml and VIGIL_VISION_* / VIGIL_SPEECH_*
variables, as for the server.`,
		Example: `  assess image kitchen.jpg
  assess image --audio advisory.mp3 garage.png
  assess image --format json *.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImage(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text, json")
	cmd.Flags().StringVar(&opts.audio, "audio", "", "write the spoken advisory to this file (single image only)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log provider activity to stderr")

	return cmd
}

func runImage(cmd *cobra.Command, root *options, opts *imageOptions, paths []string) error {
	if err := validateOutput(opts.format); err != nil {
		return err
	}
	if opts.audio != "" && len(paths) > 1 {
		return fmt.Errorf("--audio takes a single image, got %d", len(paths))
	}

	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	if root.catalog == "" && cfg.Assessment.CatalogSource == config.SourceFile {
		root.catalog = cfg.Assessment.CatalogFile
	}

	engine, err := root.engine()
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	vis, err := vision.New(ctx, &cfg.Vision, logger)
	if err != nil {
		return fmt.Errorf("vision provider: %w", err)
	}
	defer vis.Close()

	sys := analyses.New(engineSource{engine}, vis, speech.New(&cfg.Speech, nil, logger), logger)

	images, err := readImages(paths)
	if err != nil {
		return err
	}

	if len(images) == 1 {
		return assessOne(ctx, cmd, sys, opts, images[0])
	}

	out := cmd.OutOrStdout()
	var failed int
	for _, item := range sys.AnalyzeBatch(ctx, images) {
		fmt.Fprintf(out, "== %s\n", item.Filename)
		if item.Error != "" {
			failed++
			fmt.Fprintf(out, "error: %s\n\n", item.Error)
			continue
		}
		if err := writeResult(out, opts.format, item.Analysis.Result); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(images))
	}
	return nil
}

func assessOne(ctx context.Context, cmd *cobra.Command, sys analyses.System, opts *imageOptions, img analyses.Image) error {
	analysis, err := sys.Analyze(ctx, img.Data)
	if err != nil {
		return fmt.Errorf("%s: %w", img.Filename, err)
	}

	if err := writeResult(cmd.OutOrStdout(), opts.format, analysis.Result); err != nil {
		return err
	}

	if opts.audio == "" {
		return nil
	}

	audio, err := sys.Speak(ctx, analysis.Result.Narration())
	if err != nil {
		return fmt.Errorf("speak advisory: %w", err)
	}
	if err := os.WriteFile(opts.audio, audio.Data, 0644); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "advisory audio written to %s\n", opts.audio)
	return nil
}

func readImages(paths []string) ([]analyses.Image, error) {
	images := make([]analyses.Image, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		images[i] = analyses.Image{Filename: filepath.Base(p), Data: data}
	}
	return images, nil
}
