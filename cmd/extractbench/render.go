package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/extractbench/internal/groundtruth"
)

func renderCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the document text a dataset describes",
		Long: `Render the plain-text document for a ground-truth dataset, either loaded
from --dataset or generated from --template and --seed.

The output is what an OCR stage would read from a clean scan of the document.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := datasetFromFlags(cmd, v)
			if err != nil {
				return err
			}
			text, err := groundtruth.RenderDocument(ds)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		},
	}

	cmd.Flags().String("dataset", "", "dataset file (json or yaml)")
	cmd.Flags().StringP("template", "t", "", "template id to generate from")
	cmd.Flags().Uint32("seed", groundtruth.DefaultSeed, "generator seed (default: generator.seed)")

	return cmd
}
