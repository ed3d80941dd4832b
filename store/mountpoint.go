package store

import (
	"errors"
	"fmt"
	"sync"
)

// ErrMountPointDestroyed is returned by operations against a destroyed
// mount point. Destroyed mount points never corrupt the root tree; they
// refuse or no-op.
var ErrMountPointDestroyed = errors.New("store: mount point destroyed")

// PathCollisionError reports an attempt to create a mount point for a path
// that is already live under the same root. Collisions are always rejected;
// there is no last-registration-wins behavior.
type PathCollisionError struct {
	Path string
}

func (e *PathCollisionError) Error() string {
	return fmt.Sprintf("store: mount point path %q is already live", e.Path)
}

// IsPathCollision reports whether err is a path collision, unwrapping as
// needed.
func IsPathCollision(err error) bool {
	var pc *PathCollisionError
	return errors.As(err, &pc)
}

// MountPoint addresses a named sub-tree of the store's root state.
//
// A mount point owns its dotted path exclusively while live. Child mount
// points created with CreateDeepMountPoint address strict descendants of
// the parent's path and are cascade-destroyed with the parent.
type MountPoint struct {
	store *Store
	path  string

	mu          sync.Mutex
	children    []*MountPoint
	destroyed   bool
	destroyedCh chan struct{}
	onDestroy   []func()
	unsubs      []func()
}

// CreateMountPoint claims path and returns a mount point addressing it.
// Returns a *PathCollisionError when the exact path is already live.
func (s *Store) CreateMountPoint(path string) (*MountPoint, error) {
	if path == "" {
		return nil, errors.New("store: mount point path must not be empty")
	}
	m := &MountPoint{
		store:       s,
		path:        path,
		destroyedCh: make(chan struct{}),
	}
	if err := s.claimPath(path, m); err != nil {
		return nil, err
	}
	return m, nil
}

// CreateDeepMountPoint claims "<parent>.<childPath>" and returns a child
// mount point owned by this one. The child is destroyed when the parent is.
func (m *MountPoint) CreateDeepMountPoint(childPath string) (*MountPoint, error) {
	if childPath == "" {
		return nil, errors.New("store: child mount point path must not be empty")
	}
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return nil, ErrMountPointDestroyed
	}
	m.mu.Unlock()

	child, err := m.store.CreateMountPoint(m.path + "." + childPath)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		child.Destroy()
		return nil, ErrMountPointDestroyed
	}
	m.children = append(m.children, child)
	m.mu.Unlock()
	return child, nil
}

// Path returns the dotted path this mount point addresses.
func (m *MountPoint) Path() string {
	return m.path
}

// Store returns the owning store.
func (m *MountPoint) Store() *Store {
	return m.store
}

// Clock returns the store's commit sequence clock.
func (m *MountPoint) Clock() *Clock {
	return m.store.Clock()
}

// GetState returns the current committed sub-state at this path. The second
// result is false when the path is not yet present or the mount point is
// destroyed.
func (m *MountPoint) GetState() (any, bool) {
	if m.IsDestroyed() {
		return nil, false
	}
	return Extract(m.store.GetState(), m.path)
}

// ExtractState is the pure projection of root at this mount point's path.
func (m *MountPoint) ExtractState(root State) (any, bool) {
	return Extract(root, m.path)
}

// SetState returns a new root with this mount point's sub-tree replaced by
// newSubState, sharing everything else with root.
func (m *MountPoint) SetState(root State, newSubState any) State {
	return WithValue(root, m.path, newSubState)
}

// AddReducer registers fn into the store's chain, gated so that it becomes
// an identity pass-through once this mount point is destroyed.
func (m *MountPoint) AddReducer(fn Reducer) error {
	if m.IsDestroyed() {
		return ErrMountPointDestroyed
	}
	m.store.AddReducer(func(root State, a Action) State {
		if m.IsDestroyed() {
			return root
		}
		return fn(root, a)
	})
	return nil
}

// Dispatch forwards an action into the store. Returns
// ErrMountPointDestroyed after destruction instead of dispatching.
func (m *MountPoint) Dispatch(a Action) error {
	if m.IsDestroyed() {
		return ErrMountPointDestroyed
	}
	m.store.Dispatch(a)
	return nil
}

// Defer schedules fn on the store's deferred queue.
func (m *MountPoint) Defer(fn func()) {
	m.store.Defer(fn)
}

// Subscribe registers fn to be invoked once per committed root-state
// change, after all reducers ran. The subscription is torn down
// automatically on destroy; the returned function tears it down early.
func (m *MountPoint) Subscribe(fn func(State)) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyed {
		return nil, ErrMountPointDestroyed
	}
	unsub := m.store.Subscribe(fn)
	m.unsubs = append(m.unsubs, unsub)
	return unsub, nil
}

// OnDestroy registers a single-fire callback invoked when this mount point
// is destroyed. Registering on an already destroyed mount point fires
// immediately.
func (m *MountPoint) OnDestroy(fn func()) {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		fn()
		return
	}
	m.onDestroy = append(m.onDestroy, fn)
	m.mu.Unlock()
}

// Destroyed returns a channel closed exactly once, when the mount point is
// destroyed.
func (m *MountPoint) Destroyed() <-chan struct{} {
	return m.destroyedCh
}

// IsDestroyed reports whether Destroy has run.
func (m *MountPoint) IsDestroyed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.destroyed
}

// Destroy tears the mount point down: children are destroyed first, store
// subscriptions are removed, the path is freed for reuse, the destroy
// notification fires once. Idempotent.
//
// The last committed sub-state stays in the root tree; the registered
// reducers become identity pass-throughs via the destroyed gate.
func (m *MountPoint) Destroy() {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return
	}
	m.destroyed = true
	children := m.children
	m.children = nil
	unsubs := m.unsubs
	m.unsubs = nil
	callbacks := m.onDestroy
	m.onDestroy = nil
	m.mu.Unlock()

	for _, c := range children {
		c.Destroy()
	}
	for _, unsub := range unsubs {
		unsub()
	}
	m.store.freePath(m.path)
	close(m.destroyedCh)
	for _, fn := range callbacks {
		fn()
	}
}
