package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/extractbench/internal/benchmark"
	"github.com/Veraticus/extractbench/internal/common"
	"github.com/Veraticus/extractbench/internal/config"
	"github.com/Veraticus/extractbench/internal/extraction"
)

func reportCmd() *cobra.Command {
	var (
		historyPath string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize a benchmark history into a report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			benchmarks, err := extraction.LoadBenchmarks(config.ExpandPath(historyPath))
			if err != nil {
				return common.NewUserError("Could not load the benchmark history", err)
			}

			report, err := benchmark.GenerateReport(benchmarks)
			if errors.Is(err, common.ErrNoBenchmarks) {
				return common.NewUserError("The benchmark history is empty, run 'extractbench score' or 'extractbench simulate' first", err)
			}
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), benchmark.NewCLIFormatter().FormatReport(&report))
			return err
		},
	}

	cmd.Flags().StringVar(&historyPath, "history", "", "benchmark history file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	_ = cmd.MarkFlagRequired("history")

	return cmd
}
