package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/vigil/internal/analyses"
	"github.com/JaimeStill/vigil/internal/assessment"
)

type detectionsOptions struct {
	objects  []string
	labels   []string
	violence string
	medical  string
	input    string
	format   string
}

func newDetectionsCmd(root *options) *cobra.Command {
	opts := &detectionsOptions{}

	cmd := &cobra.Command{
		Use:   "detections",
		Short: "Assess detections given as flags or as a JSON document",
		Long: `Assess detections without calling a vision provider.

Detections come from flags, or from a JSON document shaped like the
/analyses/detections request body when --input is set ("-" reads stdin).`,
		Example: `  assess detections -o person -o knife -l kitchen
  assess detections --medical LIKELY -l stairs
  assess detections --input detections.json --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetections(cmd, root, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.objects, "object", "o", nil, "detected object name (repeatable)")
	cmd.Flags().StringSliceVarP(&opts.labels, "label", "l", nil, "scene label description (repeatable)")
	cmd.Flags().StringVar(&opts.violence, "violence", "", "violence likelihood, e.g. LIKELY or 4")
	cmd.Flags().StringVar(&opts.medical, "medical", "", "medical likelihood, e.g. VERY_LIKELY or 5")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "JSON detections document (- for stdin)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text, json")

	return cmd
}

func runDetections(cmd *cobra.Command, root *options, opts *detectionsOptions) error {
	if err := validateOutput(opts.format); err != nil {
		return err
	}

	engine, err := root.engine()
	if err != nil {
		return err
	}

	input, err := opts.command(cmd.InOrStdin())
	if err != nil {
		return err
	}

	result := engine.Analyze(input.Objects, input.Labels, input.SafeSearch)
	return writeResult(cmd.OutOrStdout(), opts.format, result)
}

func (o *detectionsOptions) command(stdin io.Reader) (analyses.DetectionsCommand, error) {
	if o.input != "" {
		return readDetections(o.input, stdin)
	}

	cmd := analyses.DetectionsCommand{
		Objects: assessment.ObjectsFromNames(o.objects...),
		Labels:  assessment.LabelsFromDescriptions(o.labels...),
	}
	if o.violence != "" || o.medical != "" {
		cmd.SafeSearch = &assessment.SafetySignal{
			Violence: assessment.ParseLikelihood(o.violence),
			Medical:  assessment.ParseLikelihood(o.medical),
		}
	}
	return cmd, nil
}

func readDetections(path string, stdin io.Reader) (analyses.DetectionsCommand, error) {
	var cmd analyses.DetectionsCommand

	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return cmd, fmt.Errorf("open detections: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(&cmd); err != nil {
		return cmd, fmt.Errorf("decode detections: %w", err)
	}
	return cmd, nil
}
