package tydux

import (
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/pburgmer/Tydux/internal/clone"
	"github.com/pburgmer/Tydux/store"
)

// engine drives the mutation commit protocol for one facade: draft
// lifecycle, re-entrancy depth, commit-or-discard, contract checks.
//
// The engine is cooperative, not thread-safe: all mutator calls for a facade
// must run on one goroutine at a time, matching the store's dispatch model.
type engine[S any] struct {
	facadeID string
	mp       *store.MountPoint
	table    map[string]mutatorMethod
	argNames map[string][]string
	ids      IDGenerator

	// binding returns the embedded Mutator of the commands struct, for the
	// post-call check that the binding was not replaced.
	binding func() *Mutator[S]

	depth int
	draft *S

	// snapshot is the development-mode copy of the last committed sub-state,
	// compared against the live tree to detect out-of-band mutation.
	snapshot    *S
	hasSnapshot bool
}

// activeDraft returns the in-flight draft. Panics with ILLEGAL_STATE_ACCESS
// outside an active mutator call: the draft pointer is cleared on commit and
// on abort, which is what invalidates retained accessors.
func (e *engine[S]) activeDraft() *S {
	if e.depth == 0 || e.draft == nil {
		panic(&Error{
			Code:     ErrCodeIllegalStateAccess,
			Message:  "state accessed outside an active mutator call",
			FacadeID: e.facadeID,
		})
	}
	return e.draft
}

// invokeNested runs a mutator method from inside an active call tree. Shares
// the root call's draft; argument errors and method panics propagate as
// panics so the root call aborts as a unit.
func (e *engine[S]) invokeNested(method string, args []any) {
	if e.depth == 0 {
		panic(&Error{
			Code:     ErrCodeIllegalStateAccess,
			Message:  "Invoke called outside an active mutator call",
			FacadeID: e.facadeID,
		})
	}
	m, ok := e.table[method]
	if !ok {
		panic(&Error{
			Code:     ErrCodeUnknownMethod,
			Message:  "commands declare no such mutator method",
			FacadeID: e.facadeID,
			Method:   method,
		})
	}
	e.depth++
	defer func() { e.depth-- }()
	if err := callMutator(e.facadeID, m, args); err != nil {
		panic(err)
	}
}

// dispatch runs one root-level mutator call: open a draft over the committed
// sub-state, run the method, and on success commit the draft through the
// mount point and publish a commit record. On panic the draft is discarded,
// nothing is dispatched, and the panic is returned as a MUTATION_FAILED
// error.
func (e *engine[S]) dispatch(method string, args []any) error {
	m, ok := e.table[method]
	if !ok {
		return &Error{
			Code:     ErrCodeUnknownMethod,
			Message:  "commands declare no such mutator method",
			FacadeID: e.facadeID,
			Method:   method,
		}
	}
	if e.depth > 0 {
		// Dispatch from inside an active call tree behaves like Invoke:
		// contribute to the shared draft, never commit independently.
		e.invokeNested(method, args)
		return nil
	}

	dev := DevelopmentModeEnabled()
	if dev {
		if err := e.checkCommittedUntouched(); err != nil {
			return err
		}
	}

	var base S
	if cur, ok := e.mp.GetState(); ok {
		base = cur.(S)
	}
	draft := clone.Deep(base)
	e.draft = &draft
	e.depth = 1

	var start time.Time
	if dev {
		start = time.Now()
	}

	err := e.run(m, args)

	e.depth = 0
	if err != nil {
		e.draft = nil
		return err
	}

	if strictChecksEnabled() {
		if b := e.binding(); b == nil || b.eng != e {
			e.draft = nil
			return &Error{
				Code:     ErrCodeIllegalInstanceMember,
				Message:  "embedded Mutator binding was replaced during the call",
				FacadeID: e.facadeID,
				Member:   "Mutator",
			}
		}
	}

	final := *e.draft
	e.draft = nil

	var duration time.Duration
	if dev {
		duration = time.Since(start)
	}

	action := store.Action{
		Type:    store.TypeFor(e.facadeID, method),
		Payload: args,
		State:   final,
	}
	if names := e.argNames[method]; len(names) > 0 {
		action.NamedPayload = namedPayload(names, args)
	}

	// Stamp the sequence before dispatching: subscribers may re-entrantly
	// commit during the deferred phase inside mp.Dispatch, and their records
	// must sort after this one.
	seq := e.mp.Clock().Next()
	if derr := e.mp.Dispatch(action); derr != nil {
		return derr
	}

	if dev {
		snap := clone.Deep(final)
		e.snapshot = &snap
		e.hasSnapshot = true
	}

	slog.Debug("mutation committed",
		"facade", e.facadeID,
		"method", method,
		"seq", seq,
	)
	emitMutatorEvent(MutatorEvent{
		ID:       e.ids.Generate(),
		FacadeID: e.facadeID,
		Action:   action,
		State:    final,
		Duration: duration,
		Seq:      seq,
	})
	return nil
}

// run executes the method body, converting a panic into the error result.
// Contract-typed panics stay as they are; anything else is wrapped as
// MUTATION_FAILED so callers can distinguish configuration errors from
// mutator failures.
func (e *engine[S]) run(m mutatorMethod, args []any) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if fe, ok := r.(*Error); ok {
			err = fe
			return
		}
		cause, ok := r.(error)
		if !ok {
			cause = fmt.Errorf("%v", r)
		}
		err = &Error{
			Code:     ErrCodeMutationFailed,
			Message:  "mutator panicked; draft discarded",
			FacadeID: e.facadeID,
			Method:   m.name,
			Err:      cause,
		}
	}()
	return callMutator(e.facadeID, m, args)
}

// checkCommittedUntouched compares the committed sub-state against the
// snapshot taken at the last commit. Committed state is read-only between
// commits; a difference means something wrote around the mutator protocol.
func (e *engine[S]) checkCommittedUntouched() error {
	if !e.hasSnapshot {
		return nil
	}
	cur, ok := e.mp.GetState()
	if !ok {
		return nil
	}
	if !reflect.DeepEqual(cur, *e.snapshot) {
		return &Error{
			Code:     ErrCodeIllegalStateAccess,
			Message:  "committed state was mutated outside a mutator call",
			FacadeID: e.facadeID,
		}
	}
	return nil
}

func namedPayload(names []string, args []any) map[string]any {
	named := make(map[string]any, len(names))
	for i, name := range names {
		if i >= len(args) {
			break
		}
		named[name] = args[i]
	}
	return named
}
