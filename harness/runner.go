package harness

import (
	"errors"
	"fmt"
	"reflect"

	tydux "github.com/pburgmer/Tydux"
	"github.com/pburgmer/Tydux/store"
)

// TraceEvent is one commit record of a scenario run, flattened for
// serialization.
type TraceEvent struct {
	// Action is the dispatched action type ("[facade] method").
	Action string

	// ID is the commit record id ("mut-1", "mut-2", ... within a run).
	ID string

	// Seq is the store-wide commit sequence number.
	Seq int64

	// State is the committed document after the mutation.
	State DocumentState
}

// Result holds everything a scenario run produced.
type Result struct {
	// FinalState is the committed document after the last step.
	FinalState DocumentState

	// Trace lists one event per successful commit, in commit order.
	Trace []TraceEvent

	// Observed lists the states delivered on the change stream, including
	// the initial snapshot.
	Observed []DocumentState
}

// Run executes a scenario on a fresh store and checks its assertions.
// Commit-record ids are sequential ("mut-1", ...) so traces are
// deterministic and comparable against golden files.
func Run(scenario *Scenario) (*Result, error) {
	facadeID := scenario.Facade
	if facadeID == "" {
		facadeID = "doc"
	}
	path := scenario.Path
	if path == "" {
		path = facadeID
	}

	tydux.ResetMutatorEvents()

	mp, err := store.New().CreateMountPoint(path)
	if err != nil {
		return nil, fmt.Errorf("mount %q: %w", path, err)
	}

	initial := scenario.Initial
	if initial == nil {
		initial = DocumentState{}
	}
	f, err := tydux.New(mp, facadeID, &DocumentCommands{},
		tydux.WithInitialState(initial),
		tydux.WithIDGenerator[DocumentState](tydux.NewSequentialIDs("mut")),
	)
	if err != nil {
		return nil, fmt.Errorf("facade %q: %w", facadeID, err)
	}
	defer f.Destroy()

	rec := tydux.NewRecorder(facadeID)
	defer rec.Stop()

	result := &Result{}
	sub := tydux.Observe(f).Subscribe(func(s DocumentState) {
		result.Observed = append(result.Observed, s)
	})
	defer sub.Unsubscribe()

	for i, step := range scenario.Steps {
		err := f.Dispatch(step.Dispatch, step.Args...)
		if step.ExpectError != "" {
			if err == nil {
				return nil, fmt.Errorf("steps[%d] %s: expected error %s, got success",
					i, step.Dispatch, step.ExpectError)
			}
			var fe *tydux.Error
			if !errors.As(err, &fe) || string(fe.Code) != step.ExpectError {
				return nil, fmt.Errorf("steps[%d] %s: expected error %s, got: %w",
					i, step.Dispatch, step.ExpectError, err)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("steps[%d] %s: %w", i, step.Dispatch, err)
		}
	}

	result.FinalState = f.State()
	for _, e := range rec.Events() {
		state, _ := e.State.(DocumentState)
		result.Trace = append(result.Trace, TraceEvent{
			Action: e.Action.Type,
			ID:     e.ID,
			Seq:    e.Seq,
			State:  state,
		})
	}

	if err := checkAssertions(scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

func checkAssertions(scenario *Scenario, r *Result) error {
	for i, a := range scenario.Assertions {
		switch a.Type {
		case AssertFinalState:
			for key, want := range a.Expect {
				got, ok := r.FinalState[key]
				if !ok {
					return fmt.Errorf("assertions[%d]: final state missing key %q", i, key)
				}
				if !reflect.DeepEqual(got, want) {
					return fmt.Errorf("assertions[%d]: final state key %q = %v, want %v", i, key, got, want)
				}
			}
			for _, key := range a.Absent {
				if _, ok := r.FinalState[key]; ok {
					return fmt.Errorf("assertions[%d]: final state must not contain key %q", i, key)
				}
			}
		case AssertTraceOrder:
			if len(r.Trace) != len(a.Actions) {
				return fmt.Errorf("assertions[%d]: trace has %d events, want %d", i, len(r.Trace), len(a.Actions))
			}
			for j, want := range a.Actions {
				if r.Trace[j].Action != want {
					return fmt.Errorf("assertions[%d]: trace[%d] = %q, want %q", i, j, r.Trace[j].Action, want)
				}
			}
		case AssertTraceCount:
			if len(r.Trace) != a.Count {
				return fmt.Errorf("assertions[%d]: trace has %d events, want %d", i, len(r.Trace), a.Count)
			}
		}
	}
	return nil
}
