package tydux

import (
	"log/slog"
	"sync/atomic"

	"github.com/pburgmer/Tydux/observe"
	"github.com/pburgmer/Tydux/store"
)

// initAction is the method name used for the seeding dispatch. Bracketed so
// it can never collide with a reflected mutator method name.
const initAction = "@init"

// Option configures facade construction.
type Option[S any] func(*options[S])

type options[S any] struct {
	initial   *S
	initialFn func() S
	future    <-chan S
	argNames  map[string][]string
	ids       IDGenerator
}

// WithInitialState seeds the facade with a literal value, dispatched
// synchronously before New returns.
func WithInitialState[S any](s S) Option[S] {
	return func(o *options[S]) { o.initial = &s }
}

// WithInitialStateFunc seeds the facade from a producer invoked exactly
// once, synchronously, at construction.
func WithInitialStateFunc[S any](fn func() S) Option[S] {
	return func(o *options[S]) { o.initialFn = fn }
}

// WithFutureInitialState seeds the facade from a value received later on ch.
// The facade is usable immediately; until the value arrives its state
// reflects whatever the mount point already held, and
// HasBufferedStateChanges reports true for the pending window. A closed
// channel abandons the seeding.
func WithFutureInitialState[S any](ch <-chan S) Option[S] {
	return func(o *options[S]) { o.future = ch }
}

// WithArgNames declares a name-to-position mapping for one mutator method's
// arguments. Opt-in metadata: actions for that method carry a named payload
// in addition to the positional one, for recorders and tooling.
func WithArgNames[S any](method string, names ...string) Option[S] {
	return func(o *options[S]) {
		if o.argNames == nil {
			o.argNames = make(map[string][]string)
		}
		o.argNames[method] = names
	}
}

// WithIDGenerator overrides the commit-record id generator. Tests use
// FixedIDs or SequentialIDs for deterministic traces.
func WithIDGenerator[S any](g IDGenerator) Option[S] {
	return func(o *options[S]) { o.ids = g }
}

// Facade is the per-slice API: one commands struct, one mount point, one
// replay-latest change stream, one commit engine.
//
// All mutator dispatches for a facade must run cooperatively on one
// goroutine; the change stream and destroy notification are safe to consume
// from anywhere.
type Facade[S any, C Commands[S]] struct {
	id       string
	mp       *store.MountPoint
	commands C
	eng      *engine[S]

	subject  *observe.Subject[S]
	buffered atomic.Int64

	destroyed atomic.Bool

	// forwarding dedup: last sub-state handed to the deferred queue.
	lastSeen any
	seenOnce bool
}

// New constructs a facade over mp with the given id and commands struct.
//
// The commands struct is validated (embedded Mutator only, no return values
// on mutator methods) and bound to the facade's commit engine. The facade
// registers id in the process-wide registry, registers its reducer on mp,
// subscribes to committed changes, and seeds initial state per the options.
// For literal and producer seeding, initialization completes before New
// returns.
//
// An empty id gets a generated UUIDv7. Duplicate ids are a reported error.
func New[S any, C Commands[S]](mp *store.MountPoint, id string, commands C, opts ...Option[S]) (*Facade[S, C], error) {
	var o options[S]
	for _, opt := range opts {
		opt(&o)
	}
	if o.ids == nil {
		o.ids = UUIDv7Generator{}
	}
	if id == "" {
		id = UUIDv7Generator{}.Generate()
	}

	table, err := buildDispatchTable[S](id, commands)
	if err != nil {
		return nil, err
	}
	if err := registerFacade(id, commands); err != nil {
		return nil, err
	}

	f := &Facade[S, C]{
		id:       id,
		mp:       mp,
		commands: commands,
		subject:  observe.NewSubject[S](),
	}
	f.eng = &engine[S]{
		facadeID: id,
		mp:       mp,
		table:    table,
		argNames: o.argNames,
		ids:      o.ids,
		binding:  func() *Mutator[S] { return commands.mutator() },
	}
	commands.mutator().eng = f.eng

	if err := mp.AddReducer(f.reduce); err != nil {
		f.abortConstruction()
		return nil, err
	}
	if _, err := mp.Subscribe(f.onRootChange); err != nil {
		f.abortConstruction()
		return nil, err
	}
	mp.OnDestroy(f.teardown)

	switch {
	case o.future != nil:
		f.buffered.Add(1)
		go f.seedFromFuture(o.future)
	case o.initialFn != nil:
		if err := f.seed(o.initialFn()); err != nil {
			f.Destroy()
			return nil, err
		}
	case o.initial != nil:
		if err := f.seed(*o.initial); err != nil {
			f.Destroy()
			return nil, err
		}
	}

	slog.Info("facade created", "facade", id, "path", mp.Path())
	return f, nil
}

// reduce is the facade's reducer: destroyed facades ignore their actions
// silently, foreign actions pass through unchanged, owned actions replace
// the sub-state with the committed draft carried on the action.
func (f *Facade[S, C]) reduce(root store.State, a store.Action) store.State {
	if f.destroyed.Load() {
		return root
	}
	if !store.Owns(f.id, a) {
		return root
	}
	return f.mp.SetState(root, a.State)
}

// onRootChange runs synchronously after every committed root-state change.
// The facade's own sub-state is extracted and, when changed, handed to the
// deferred queue so subscribers observe it only after the current
// synchronous dispatch phase settles.
func (f *Facade[S, C]) onRootChange(root store.State) {
	sub, ok := f.mp.ExtractState(root)
	if !ok {
		return
	}
	if f.seenOnce && observe.Equal(f.lastSeen, sub) {
		return
	}
	f.lastSeen = sub
	f.seenOnce = true

	state := sub.(S)
	f.buffered.Add(1)
	f.mp.Defer(func() {
		f.buffered.Add(-1)
		if f.destroyed.Load() {
			return
		}
		f.subject.Next(state)
	})
}

func (f *Facade[S, C]) seed(initial S) error {
	return f.mp.Dispatch(store.Action{
		Type:  store.TypeFor(f.id, initAction),
		State: initial,
	})
}

func (f *Facade[S, C]) seedFromFuture(ch <-chan S) {
	defer f.buffered.Add(-1)
	initial, ok := <-ch
	if !ok || f.destroyed.Load() {
		return
	}
	if err := f.seed(initial); err != nil {
		slog.Warn("future initial state dropped", "facade", f.id, "error", err)
	}
}

func (f *Facade[S, C]) abortConstruction() {
	deregisterFacade(f.id)
	commands := f.commands
	commands.mutator().eng = nil
}

// teardown runs exactly once, when the mount point is destroyed (directly
// via Destroy or by parent cascade).
func (f *Facade[S, C]) teardown() {
	if !f.destroyed.CompareAndSwap(false, true) {
		return
	}
	f.subject.Complete()
	deregisterFacade(f.id)
	slog.Info("facade destroyed", "facade", f.id, "path", f.mp.Path())
}

// ID returns the facade's owner id.
func (f *Facade[S, C]) ID() string {
	return f.id
}

// MountPoint returns the mount point this facade owns.
func (f *Facade[S, C]) MountPoint() *store.MountPoint {
	return f.mp
}

// Commands returns the bound commands struct. Calling mutator methods on it
// directly runs them without the commit protocol; use Dispatch.
func (f *Facade[S, C]) Commands() C {
	return f.commands
}

// State returns the current committed sub-state, or the zero value when
// nothing has been committed yet.
func (f *Facade[S, C]) State() S {
	var zero S
	cur, ok := f.mp.GetState()
	if !ok {
		return zero
	}
	return cur.(S)
}

// Dispatch runs the named mutator method through the commit protocol: a
// draft is opened over the committed sub-state, the method mutates it in
// place via State(), and the draft is committed atomically when the method
// returns. A panicking method discards the draft and surfaces as a
// MUTATION_FAILED error; the committed state is untouched.
//
// Dispatching against a destroyed facade is a silent no-op.
func (f *Facade[S, C]) Dispatch(method string, args ...any) error {
	if f.destroyed.Load() {
		return nil
	}
	return f.eng.dispatch(method, args)
}

// HasBufferedStateChanges reports whether committed changes exist that have
// not yet been delivered on the change stream, or a future initial state is
// still pending.
func (f *Facade[S, C]) HasBufferedStateChanges() bool {
	return f.buffered.Load() > 0
}

// IsDestroyed reports whether the facade has been destroyed.
func (f *Facade[S, C]) IsDestroyed() bool {
	return f.destroyed.Load()
}

// ObserveDestroyed returns a channel closed exactly once, on destruction.
func (f *Facade[S, C]) ObserveDestroyed() <-chan struct{} {
	return f.mp.Destroyed()
}

// Destroy tears the facade down: the mount point is destroyed (freeing the
// path and cascading to children), subscriptions are removed, the change
// stream completes, and the id is deregistered. Idempotent. The last
// committed sub-state remains in the root tree.
func (f *Facade[S, C]) Destroy() {
	f.mp.Destroy()
}
