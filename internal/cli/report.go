package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/specfun/sfbench/internal/report"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Database string
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the accumulated comparison tables",
		Long: `Render the timing records accumulated in the report sink as one
comparison table per platform group. Cells show relative time, fastest
implementation first at 1.00, with absolute per-call cost alongside.

Example:
  sfbench report --db ./results.db
  sfbench report --db ./results.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite report sink (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReport(opts *ReportOptions, cmd *cobra.Command) error {
	sink, err := report.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open report sink", err)
	}
	defer sink.Close()

	matrix, err := sink.Matrix(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read records", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		}
		return formatter.Success(matrix)
	}
	if len(matrix.Tables) == 0 {
		cmd.Println("no records")
		return nil
	}
	return report.RenderText(cmd.OutOrStdout(), matrix)
}
