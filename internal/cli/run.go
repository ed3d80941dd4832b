package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pburgmer/Tydux/harness"
	"github.com/pburgmer/Tydux/internal/canonical"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario and print its commit trace",
		Long: `Run a scenario against a fresh store: seed the document facade, dispatch
every step, check the scenario's assertions, and print the commit trace.
JSON output is canonical (sorted keys, byte-stable).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(rootOpts, args[0], cmd)
		},
	}
}

func runScenario(opts *RootOptions, path string, cmd *cobra.Command) error {
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return err
	}
	if opts.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "running scenario %q (%d steps)\n", scenario.Name, len(scenario.Steps))
	}

	result, err := harness.Run(scenario)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		out, err := canonical.Marshal(runSnapshot(scenario.Name, result))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "scenario: %s\n", scenario.Name)
	fmt.Fprintf(w, "commits:  %d\n", len(result.Trace))
	for _, e := range result.Trace {
		state, err := canonical.Marshal(map[string]any(e.State))
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %3d  %-12s %-28s %s\n", e.Seq, e.ID, e.Action, state)
	}
	final, err := canonical.Marshal(map[string]any(result.FinalState))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "final:    %s\n", final)
	return nil
}

func runSnapshot(name string, r *harness.Result) map[string]any {
	trace := make([]any, len(r.Trace))
	for i, e := range r.Trace {
		trace[i] = map[string]any{
			"action": e.Action,
			"id":     e.ID,
			"seq":    e.Seq,
			"state":  map[string]any(e.State),
		}
	}
	return map[string]any{
		"scenario_name": name,
		"final_state":   map[string]any(r.FinalState),
		"trace":         trace,
	}
}
