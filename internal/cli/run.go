package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/specfun/sfbench/internal/bench"
	"github.com/specfun/sfbench/internal/bessel"
	"github.com/specfun/sfbench/internal/dataset"
	"github.com/specfun/sfbench/internal/platform"
	"github.com/specfun/sfbench/internal/report"
	"github.com/specfun/sfbench/internal/screen"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database       string
	Dataset        string
	MinTime        time.Duration
	Repeats        int
	Tolerance      float64
	Series         bool
	SkipUnpromoted bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Benchmark the function variants and record timings",
		Long: `Benchmark every enabled implementation variant of sph_bessel over the
reference dataset and append one timing record per variant to the
report sink.

The dataset is screened first: rows an implementation cannot evaluate
(out-of-domain arguments) are dropped, and the selection counts appear
in the recorded series label. Screening is about applicability, not
accuracy.

Example:
  sfbench run --db ./results.db
  sfbench run --db ./results.db --dataset ./sph_bessel.yaml --series --repeats 7`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmarks(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite report sink (required)")
	cmd.Flags().StringVar(&opts.Dataset, "dataset", "", "dataset YAML file (default: embedded reference table)")
	cmd.Flags().DurationVar(&opts.MinTime, "min-time", 250*time.Millisecond, "minimum wall-clock time per measurement")
	cmd.Flags().IntVar(&opts.Repeats, "repeats", 5, "independent measurements per variant")
	cmd.Flags().Float64Var(&opts.Tolerance, "tolerance", screen.DefaultRelTol, "relative tolerance for screening")
	cmd.Flags().BoolVar(&opts.Series, "series", false, "also benchmark the alternate power-series implementation")
	cmd.Flags().BoolVar(&opts.SkipUnpromoted, "skip-unpromoted", false, "skip the promotion-disabled variant")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runBenchmarks(opts *RunOptions, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))

	ctx := context.Background()

	// Load dataset
	table, err := loadTable(opts.Dataset)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load dataset", err)
	}
	slog.Info("dataset loaded", "source", table.Source, "function", table.Function, "rows", len(table.Rows))

	variants := bessel.Variants(bessel.VariantSet{
		SkipUnpromoted: opts.SkipUnpromoted,
		IncludeSeries:  opts.Series,
	})

	// Screen with every enabled variant in turn; rows any variant
	// cannot evaluate are dropped, so no timed callable is ever
	// invoked on a row its screen rejected.
	total := len(table.Rows)
	working := table.Rows
	for _, v := range variants {
		res := screen.Screen(working, probeFor(v), refValue, opts.Tolerance)
		slog.Debug("screened", "variant", v.Name, "in", res.Total, "kept", res.Used)
		working = res.Rows
	}
	used := len(working)
	if used == 0 {
		return NewExitError(ExitFailure, "screening rejected every dataset row: nothing to benchmark")
	}
	slog.Info("screening complete", "used", used, "total", total)

	seriesLabel := fmt.Sprintf("%s (%d/%d tests selected)", table.Function, used, total)
	group := platform.GroupLabel()

	// Open the report sink. An unreachable sink is fatal: there is no
	// point timing a benchmark whose result cannot be recorded.
	sink, err := report.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open report sink", err)
	}
	defer func() {
		if closeErr := sink.Close(); closeErr != nil {
			slog.Error("error closing report sink", "error", closeErr)
		}
	}()

	runID := uuid.NewString()
	benchOpts := bench.Options{MinDuration: opts.MinTime}
	records := make([]report.Record, 0, len(variants))

	for _, v := range variants {
		slog.Info("timing", "variant", v.Name, "repeats", opts.Repeats)
		summary, err := bench.Repeat(working, probeFor(v), benchOpts, opts.Repeats)
		if err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("timed run failed for %s", v.Name), err)
		}

		rec := report.NewRecord(runID, group, seriesLabel, v.Name)
		rec.ElapsedSeconds = summary.Best.Seconds()
		rec.Calls = summary.Best.Calls
		rec.RowsUsed = used
		rec.RowsTotal = total
		rec.MeanNsPerCall = summary.MeanNsPerCall
		rec.StddevNsPerCall = summary.StddevNsPerCall

		if err := sink.Append(ctx, rec); err != nil {
			return WrapExitError(ExitCommandError, "failed to record timing", err)
		}
		records = append(records, rec)

		if opts.Format != "json" {
			fmt.Fprintf(cmd.OutOrStdout(), "%-40s %.6fs  %.1f ns/call (±%.1f)\n",
				v.Name, rec.ElapsedSeconds, rec.MeanNsPerCall, rec.StddevNsPerCall)
		}
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		}
		return formatter.Success(records)
	}
	return nil
}

// loadTable reads the dataset file, or the embedded table when no path
// was given.
func loadTable(path string) (*dataset.Table, error) {
	if path == "" {
		return dataset.Default()
	}
	return dataset.Load(path)
}

// probeFor adapts a variant to the row-callable shape shared by
// screening and timing.
func probeFor(v bessel.Variant) func(dataset.Row) (float64, error) {
	return func(row dataset.Row) (float64, error) {
		return v.Eval(row.N, row.X)
	}
}

// refValue extracts the reference result field from a row.
func refValue(row dataset.Row) float64 {
	return row.Expected
}
