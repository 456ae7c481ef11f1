package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/extractbench/internal/common"
	"github.com/Veraticus/extractbench/internal/config"
	"github.com/Veraticus/extractbench/internal/extraction"
	"github.com/Veraticus/extractbench/internal/groundtruth"
	"github.com/Veraticus/extractbench/internal/model"
)

// resolveSeed prefers an explicit --seed flag over generator.seed.
func resolveSeed(cmd *cobra.Command, v *viper.Viper) (uint32, error) {
	if cmd.Flags().Changed("seed") {
		return cmd.Flags().GetUint32("seed")
	}
	return config.LoadSeed(v)
}

// resolveTemplates returns the requested template ids, or the whole catalog
// when none were given. Unknown ids are rejected.
func resolveTemplates(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return groundtruth.TemplateIDs(), nil
	}
	for _, id := range ids {
		if _, err := groundtruth.LookupTemplate(id); err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Unknown template %q, run 'extractbench templates' to list them", id), err)
		}
	}
	return ids, nil
}

// datasetFromFlags loads --dataset when set, otherwise generates one from
// --template and the resolved seed.
func datasetFromFlags(cmd *cobra.Command, v *viper.Viper) (*model.GroundTruthDataset, error) {
	path, _ := cmd.Flags().GetString("dataset")
	if path != "" {
		return extraction.LoadDataset(config.ExpandPath(path))
	}

	templateID, _ := cmd.Flags().GetString("template")
	if templateID == "" {
		return nil, common.NewUserError("Either --dataset or --template is required", common.ErrInvalidInput)
	}
	seed, err := resolveSeed(cmd, v)
	if err != nil {
		return nil, err
	}
	g, err := groundtruth.NewGenerator(templateID, config.LoadPools(v), groundtruth.WithSeed(seed))
	if err != nil {
		return nil, err
	}
	return g.Generate(), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
