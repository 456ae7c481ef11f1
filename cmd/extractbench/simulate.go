package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/extractbench/internal/benchmark"
	"github.com/Veraticus/extractbench/internal/cli"
	"github.com/Veraticus/extractbench/internal/common"
	"github.com/Veraticus/extractbench/internal/config"
	"github.com/Veraticus/extractbench/internal/extraction"
	"github.com/Veraticus/extractbench/internal/groundtruth"
	"github.com/Veraticus/extractbench/internal/model"
	"github.com/Veraticus/extractbench/internal/monitor"
	"github.com/Veraticus/extractbench/internal/simulate"
)

const shutdownTimeout = 5 * time.Second

type simulateOptions struct {
	historyPath    string
	metricsAddr    string
	statusSchedule string
	templateIDs    []string
	documents      int
	asJSON         bool
}

func simulateCmd(v *viper.Viper) *cobra.Command {
	var opts simulateOptions

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the simulated extraction pipeline and report on it",
		Long: `Generate ground truth, run it through a simulated OCR and extraction
pipeline with seeded noise, and score every result.

The pipeline is tracked by the performance monitor, so threshold alerts are
delivered to the configured channels while it runs. Use --metrics-addr to
expose the monitor's Prometheus metrics and --status-schedule to log the
system status on a cron schedule.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, v, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.templateIDs, "template", "t", nil, "template ids to cycle through (default: all)")
	cmd.Flags().IntVarP(&opts.documents, "documents", "n", 0, "number of documents to process (default: one per template)")
	cmd.Flags().Uint32("seed", groundtruth.DefaultSeed, "generator seed (default: generator.seed)")
	cmd.Flags().StringVar(&opts.historyPath, "history", "", "benchmark history file to append to")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	cmd.Flags().StringVar(&opts.statusSchedule, "status-schedule", "", "cron schedule for status logging, e.g. @every 10s")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the report as JSON")

	return cmd
}

func runSimulate(cmd *cobra.Command, v *viper.Viper, opts simulateOptions) error {
	if opts.documents < 0 {
		return common.NewUserError("--documents must not be negative", common.ErrInvalidInput)
	}
	ids, err := resolveTemplates(opts.templateIDs)
	if err != nil {
		return err
	}
	seed, err := resolveSeed(cmd, v)
	if err != nil {
		return err
	}
	simCfg, err := config.LoadSimulateConfig(v)
	if err != nil {
		return err
	}
	simCfg.Seed = seed
	monCfg, err := config.LoadMonitorConfig(v)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	monCfg.Registerer = registry
	m, err := monitor.New(monCfg)
	if err != nil {
		return err
	}
	m.Start()
	defer m.Stop()

	pipeline, err := simulate.NewPipeline(simCfg, m)
	if err != nil {
		return err
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Simulation")
	ctx, cancel := handler.HandleInterrupts(cmd.Context())
	defer cancel()

	if opts.metricsAddr != "" {
		stop := serveMetrics(opts.metricsAddr, registry)
		defer stop()
	}
	if opts.statusSchedule != "" {
		stop, err := scheduleStatus(ctx, opts.statusSchedule, m)
		if err != nil {
			return err
		}
		defer stop()
	}

	count := opts.documents
	if count == 0 {
		count = len(ids)
	}
	datasets := batch(ids, count, config.LoadPools(v), seed)

	benchmarks := make([]model.AccuracyBenchmark, 0, len(datasets))
	failures := 0
	progress := cli.NewProgress(cmd.ErrOrStderr(), len(datasets), "Simulating")
	for _, ds := range datasets {
		if ctx.Err() != nil {
			break
		}
		progress.Describe(ds.DocumentID)

		result, perf, err := pipeline.Run(ctx, ds)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			failures++
			slog.Warn("Simulated extraction failed", "document_id", ds.DocumentID, "error", err)
			progress.Step()
			continue
		}

		bm := benchmark.CreateBenchmark(ds, result, perf)
		benchmarks = append(benchmarks, bm)
		if opts.historyPath != "" {
			if err := extraction.AppendBenchmark(config.ExpandPath(opts.historyPath), &bm); err != nil {
				return err
			}
		}
		progress.Step()
	}
	progress.Done()
	m.Flush()

	slog.Info("Simulation finished",
		"documents", len(datasets),
		"scored", len(benchmarks),
		"failed", failures,
		"interrupted", handler.WasInterrupted())

	report, err := benchmark.GenerateReport(benchmarks)
	if errors.Is(err, common.ErrNoBenchmarks) {
		return common.NewUserError("No document completed the simulated pipeline", err)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		return writeJSON(out, report)
	}
	if _, err := fmt.Fprintln(out, benchmark.NewCLIFormatter().FormatReport(&report)); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, cli.RenderBox(" Pipeline Status ", statusLines(context.WithoutCancel(ctx), m)))
	return err
}

// batch builds count datasets, cycling through ids with seed+index.
func batch(ids []string, count int, pools groundtruth.Pools, seed uint32) []*model.GroundTruthDataset {
	cycled := make([]string, count)
	for i := range cycled {
		cycled[i] = ids[i%len(ids)]
	}
	return groundtruth.GenerateBatch(cycled, pools, seed)
}

func serveMetrics(addr string, registry *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slog.Warn("Failed to stop metrics server", "error", err)
		}
	}
}

func scheduleStatus(ctx context.Context, schedule string, m *monitor.Monitor) (func(), error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		snap := m.CurrentSnapshot(ctx)
		slog.Info("Pipeline status",
			"active", snap.ActiveOperations,
			"queue", snap.QueueLength,
			"memory", snap.MemoryUsage,
			"error_rate", snap.ErrorRate,
			"under_stress", m.IsSystemUnderStress(ctx))
	}); err != nil {
		return nil, common.NewUserError(fmt.Sprintf("Invalid status schedule %q", schedule), fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}

func statusLines(ctx context.Context, m *monitor.Monitor) string {
	var b strings.Builder
	snap := m.CurrentSnapshot(ctx)
	b.WriteString(cli.FormatKeyValue("Error rate", fmt.Sprintf("%.1f%%", snap.ErrorRate)))
	b.WriteString("\n")
	b.WriteString(cli.FormatKeyValue("Memory", monitor.FormatBytes(snap.MemoryUsage)))
	b.WriteString("\n")
	if m.IsSystemUnderStress(ctx) {
		b.WriteString(cli.FormatStatus(false, "System under stress"))
	} else {
		b.WriteString(cli.FormatStatus(true, "System healthy"))
	}
	for _, rec := range m.OptimizationRecommendations(ctx) {
		b.WriteString("\n  • ")
		b.WriteString(rec)
	}
	return b.String()
}
