package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pburgmer/Tydux/harness"
)

// ValidationResult holds validation results for JSON output.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Validate a scenario file without running it",
		Long: `Validate a scenario YAML file: strict field checking (typos are errors),
required fields, and assertion shapes. Does not construct a facade.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	scenario, err := harness.LoadScenario(path)

	if opts.Format == "json" {
		result := ValidationResult{Valid: err == nil}
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Name = scenario.Name
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(result); encErr != nil {
			return encErr
		}
		return err
	}

	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "✗ %s\n", err)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ scenario %q valid (%d steps)\n", scenario.Name, len(scenario.Steps))
	return nil
}
