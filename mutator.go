package tydux

// Mutator is the base every commands struct embeds. It carries the binding
// to the owning facade's commit engine and exposes the draft state accessor
// to mutator methods.
//
// A commands struct must embed Mutator[S] and nothing else; any further
// field is an ILLEGAL_INSTANCE_MEMBER configuration error reported at
// facade construction.
type Mutator[S any] struct {
	eng *engine[S]
}

// Commands is the constraint a commands type satisfies by embedding
// Mutator[S]. The unexported method keeps the set closed: only embedding
// grants access to the draft protocol.
type Commands[S any] interface {
	mutator() *Mutator[S]
}

func (m *Mutator[S]) mutator() *Mutator[S] { return m }

// State returns the in-flight draft of the facade's sub-state. Writes
// through the returned pointer accumulate in the draft and become visible to
// the store only when the outermost mutator call returns without panicking.
//
// Calling State outside an active mutator call panics with an
// ILLEGAL_STATE_ACCESS error: the draft is invalidated as soon as the root
// call commits or aborts, so retained accessors fail loudly instead of
// leaking stale drafts.
func (m *Mutator[S]) State() *S {
	if m.eng == nil {
		panic(&Error{
			Code:    ErrCodeIllegalStateAccess,
			Message: "commands are not bound to a facade",
		})
	}
	return m.eng.activeDraft()
}

// Invoke runs another mutator method of the same commands struct by name,
// against the same draft. Nested invocations never commit on their own; the
// enclosing root call commits or discards the combined writes as a unit.
//
// Mutator methods may equally call each other directly as plain Go methods;
// Invoke exists for name-driven dispatch (e.g. scripted scenarios). Panics
// with UNKNOWN_METHOD for undeclared names and with ILLEGAL_STATE_ACCESS
// when no mutation is active.
func (m *Mutator[S]) Invoke(method string, args ...any) {
	if m.eng == nil {
		panic(&Error{
			Code:    ErrCodeIllegalStateAccess,
			Message: "commands are not bound to a facade",
		})
	}
	m.eng.invokeNested(method, args)
}
