package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/vigil/internal/assessment"
)

func newCatalogCmd(root *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate and print the situation catalog document",
		Long: `Print the catalog document the engine would use, after validation.
Converting between formats is a matter of --catalog in.yaml --format toml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := assessment.ParseFormat(format)
			if err != nil {
				return err
			}

			doc, err := root.document()
			if err != nil {
				return err
			}
			if _, err := doc.Config(root.mode()); err != nil {
				return fmt.Errorf("catalog %s: %w", root.catalogName(), err)
			}

			data, err := doc.Encode(f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "toml", "document format: toml, yaml")

	return cmd
}
