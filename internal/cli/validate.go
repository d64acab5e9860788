package cli

import (
	"github.com/spf13/cobra"

	"github.com/specfun/sfbench/internal/dataset"
)

// ValidationResult holds validation results for JSON output.
type ValidationResult struct {
	Valid    bool   `json:"valid"`
	Source   string `json:"source,omitempty"`
	Function string `json:"function,omitempty"`
	Rows     int    `json:"rows,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <dataset.yaml>",
		Short: "Validate a dataset file without benchmarking",
		Long: `Validate a dataset YAML file against the dataset schema without
running any benchmark. Faster feedback when preparing reference tables.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	table, err := dataset.Load(path)
	if err != nil {
		_ = formatter.Error("E_DATASET", err.Error(), nil)
		return NewExitError(ExitFailure, "dataset validation failed")
	}

	if opts.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:    true,
			Source:   table.Source,
			Function: table.Function,
			Rows:     len(table.Rows),
		})
	}
	formatter.VerboseLog("function %s, %d rows", table.Function, len(table.Rows))
	cmd.Printf("%s: valid (%d rows)\n", path, len(table.Rows))
	return nil
}
