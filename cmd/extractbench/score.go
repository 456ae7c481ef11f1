package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/extractbench/internal/benchmark"
	"github.com/Veraticus/extractbench/internal/common"
	"github.com/Veraticus/extractbench/internal/config"
	"github.com/Veraticus/extractbench/internal/extraction"
	"github.com/Veraticus/extractbench/internal/model"
)

func scoreCmd() *cobra.Command {
	var (
		datasetPath string
		resultPath  string
		historyPath string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an extraction result against its ground truth",
		Long: `Score an extraction result produced by an external pipeline against the
ground-truth dataset it was extracted from.

With --history the resulting benchmark is appended to a benchmark history
file that 'extractbench report' can summarize.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := extraction.LoadDataset(config.ExpandPath(datasetPath))
			if err != nil {
				return common.NewUserError("Could not load the ground-truth dataset", err)
			}
			result, err := extraction.LoadResult(config.ExpandPath(resultPath))
			if err != nil {
				return common.NewUserError("Could not load the extraction result", err)
			}
			if result.DocumentID != ds.DocumentID {
				slog.Warn("Extraction result and dataset describe different documents",
					"dataset", ds.DocumentID,
					"result", result.DocumentID)
			}

			// The external pipeline reports no timings.
			perf := model.PerformanceMetrics{
				EntityCount: result.CountEntities(),
				Success:     true,
			}
			bm := benchmark.CreateBenchmark(ds, result, perf)

			if historyPath != "" {
				if err := extraction.AppendBenchmark(config.ExpandPath(historyPath), &bm); err != nil {
					return err
				}
				slog.Info("Recorded benchmark", "document_id", bm.DocumentID, "history", historyPath)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), bm)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), benchmark.NewCLIFormatter().FormatBenchmark(&bm))
			return err
		},
	}

	cmd.Flags().StringVarP(&datasetPath, "dataset", "d", "", "ground-truth dataset file (json or yaml)")
	cmd.Flags().StringVarP(&resultPath, "result", "r", "", "extraction result file (json)")
	cmd.Flags().StringVar(&historyPath, "history", "", "benchmark history file to append to")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the benchmark as JSON")
	_ = cmd.MarkFlagRequired("dataset")
	_ = cmd.MarkFlagRequired("result")

	return cmd
}
