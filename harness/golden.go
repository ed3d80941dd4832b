package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/pburgmer/Tydux/internal/canonical"
)

// RunWithGolden executes a scenario and compares its trace against the
// golden file testdata/golden/{scenario.Name}.golden, serialized as
// canonical JSON so the comparison is byte-stable.
//
// To regenerate golden files, run:
//
//	go test ./harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-produced result against the golden file
// for scenarioName.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := canonical.Marshal(snapshot(scenarioName, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
	return nil
}

// snapshot flattens a result into the plain map shape canonical JSON
// accepts.
func snapshot(scenarioName string, r *Result) map[string]any {
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
		"scenario_name": scenarioName,
		"trace":         trace,
	}
}
