package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/extractbench/internal/cli"
	"github.com/Veraticus/extractbench/internal/common"
	"github.com/Veraticus/extractbench/internal/config"
	"github.com/Veraticus/extractbench/internal/groundtruth"
	"github.com/Veraticus/extractbench/internal/model"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func generateCmd(v *viper.Viper) *cobra.Command {
	var (
		templateIDs []string
		format      string
		outputDir   string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate ground-truth datasets",
		Long: `Generate deterministic ground-truth datasets for one or more templates.

Each template in the batch uses seed+index, so the same flags always produce
the same documents. Without --output the datasets are written to stdout.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != formatJSON && format != formatYAML {
				return common.NewUserError(fmt.Sprintf("Unsupported format %q, use json or yaml", format), common.ErrInvalidInput)
			}
			ids, err := resolveTemplates(templateIDs)
			if err != nil {
				return err
			}
			seed, err := resolveSeed(cmd, v)
			if err != nil {
				return err
			}

			datasets := groundtruth.GenerateBatch(ids, config.LoadPools(v), seed)
			if outputDir == "" {
				return encodeDatasets(cmd.OutOrStdout(), datasets, format)
			}
			return writeDatasets(cmd, datasets, config.ExpandPath(outputDir), format)
		},
	}

	cmd.Flags().StringSliceVarP(&templateIDs, "template", "t", nil, "template ids to generate (default: all)")
	cmd.Flags().Uint32("seed", groundtruth.DefaultSeed, "generator seed (default: generator.seed)")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format (json, yaml)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory to write one file per dataset")

	return cmd
}

func encodeDatasets(w io.Writer, datasets []*model.GroundTruthDataset, format string) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, ds := range datasets {
			if err := enc.Encode(ds); err != nil {
				return fmt.Errorf("failed to encode %s: %w", ds.DocumentID, err)
			}
		}
		return enc.Close()
	}

	for _, ds := range datasets {
		if err := writeJSON(w, ds); err != nil {
			return err
		}
	}
	return nil
}

func marshalDataset(ds *model.GroundTruthDataset, format string) ([]byte, error) {
	if format == formatYAML {
		return yaml.Marshal(ds)
	}
	return json.MarshalIndent(ds, "", "  ")
}

func writeDatasets(cmd *cobra.Command, datasets []*model.GroundTruthDataset, dir, format string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	progress := cli.NewProgress(cmd.ErrOrStderr(), len(datasets), "Generating")
	lines := make([]string, 0, len(datasets))
	for _, ds := range datasets {
		progress.Describe(ds.DocumentID)

		data, err := marshalDataset(ds, format)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", ds.DocumentID, err)
		}
		path := filepath.Join(dir, ds.DocumentID+"."+format)
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		fingerprint, err := groundtruth.Fingerprint(ds)
		if err != nil {
			return err
		}
		slog.Debug("Wrote dataset", "path", path, "fingerprint", fingerprint)
		lines = append(lines, fmt.Sprintf("%s  %d entities  %s", ds.DocumentID, ds.TotalExpectedEntities, fingerprint[:16]))
		progress.Step()
	}
	progress.Done()

	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(line)); err != nil {
			return err
		}
	}
	return nil
}
