package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/vigil/internal/assessment"
)

type options struct {
	catalog string
	exact   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Assess scene detections for safety risks",
		Long: `assess runs the risk-assessment engine outside the server. It reports the
activity, environment, risks and advisory for supplied detections or images,
and prints the situation catalog the engine would use.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.catalog, "catalog", "", "TOML or YAML catalog document (default: embedded catalog)")
	cmd.PersistentFlags().BoolVar(&opts.exact, "exact", false, "match situation keys exactly instead of by substring")

	cmd.AddCommand(
		newDetectionsCmd(opts),
		newImageCmd(opts),
		newCatalogCmd(opts),
	)

	return cmd
}

func (o *options) mode() assessment.MatchMode {
	if o.exact {
		return assessment.MatchExact
	}
	return assessment.MatchSubstring
}

func (o *options) document() (*assessment.Document, error) {
	if o.catalog == "" {
		return assessment.DefaultDocument(), nil
	}
	doc, err := assessment.LoadDocument(o.catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return doc, nil
}

func (o *options) engine() (*assessment.Engine, error) {
	doc, err := o.document()
	if err != nil {
		return nil, err
	}

	cfg, err := doc.Config(o.mode())
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", o.catalogName(), err)
	}
	return assessment.New(cfg), nil
}

func (o *options) catalogName() string {
	if o.catalog == "" {
		return "embedded"
	}
	return o.catalog
}

func validateOutput(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown output format %q: want text or json", format)
	}
}

func writeResult(w io.Writer, format string, r assessment.Result) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	risks := "none"
	if r.Dangerous() {
		risks = strings.Join(r.Risks, ", ")
	}

	_, err := fmt.Fprintf(w, "Activity:    %s\nEnvironment: %s\nRisks:       %s\n\n%s\n",
		r.Activity, r.Environment, risks, r.AdvisoryMessage)
	return err
}
