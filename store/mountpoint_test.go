package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMountPoint_ClaimsPath(t *testing.T) {
	s := New()

	mp, err := s.CreateMountPoint("cart")
	require.NoError(t, err)
	assert.Equal(t, "cart", mp.Path())
	assert.Equal(t, []string{"cart"}, s.LivePaths())
}

func TestCreateMountPoint_RejectsCollision(t *testing.T) {
	s := New()

	_, err := s.CreateMountPoint("cart")
	require.NoError(t, err)

	_, err = s.CreateMountPoint("cart")
	require.Error(t, err)
	assert.True(t, IsPathCollision(err))

	var pc *PathCollisionError
	require.ErrorAs(t, err, &pc)
	assert.Equal(t, "cart", pc.Path)
}

func TestCreateMountPoint_PathReusableAfterDestroy(t *testing.T) {
	s := New()

	mp, err := s.CreateMountPoint("cart")
	require.NoError(t, err)
	mp.Destroy()

	_, err = s.CreateMountPoint("cart")
	assert.NoError(t, err)
}

func TestCreateMountPoint_EmptyPath(t *testing.T) {
	s := New()

	_, err := s.CreateMountPoint("")
	assert.Error(t, err)
}

func TestMountPoint_StateRoundTrip(t *testing.T) {
	s := New()
	mp, err := s.CreateMountPoint("counter")
	require.NoError(t, err)

	_, ok := mp.GetState()
	assert.False(t, ok, "no sub-state before first commit")

	err = mp.AddReducer(func(root State, a Action) State {
		if !Owns("counter", a) {
			return root
		}
		return mp.SetState(root, a.State)
	})
	require.NoError(t, err)

	require.NoError(t, mp.Dispatch(Action{Type: TypeFor("counter", "set"), State: 7}))

	v, ok := mp.GetState()
	require.True(t, ok)
	assert.Equal(t, 7, v)

	v, ok = mp.ExtractState(s.GetState())
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestCreateDeepMountPoint(t *testing.T) {
	s := New()
	parent, err := s.CreateMountPoint("a")
	require.NoError(t, err)

	child, err := parent.CreateDeepMountPoint("b")
	require.NoError(t, err)
	assert.Equal(t, "a.b", child.Path())
	assert.Equal(t, []string{"a", "a.b"}, s.LivePaths())

	_, err = parent.CreateDeepMountPoint("b")
	assert.True(t, IsPathCollision(err))
}

func TestCreateDeepMountPoint_DestroyedParent(t *testing.T) {
	s := New()
	parent, err := s.CreateMountPoint("a")
	require.NoError(t, err)
	parent.Destroy()

	_, err = parent.CreateDeepMountPoint("b")
	assert.ErrorIs(t, err, ErrMountPointDestroyed)
}

func TestDestroy_CascadesToChildren(t *testing.T) {
	s := New()
	parent, err := s.CreateMountPoint("a")
	require.NoError(t, err)
	child, err := parent.CreateDeepMountPoint("b")
	require.NoError(t, err)
	grandchild, err := child.CreateDeepMountPoint("c")
	require.NoError(t, err)

	var order []string
	grandchild.OnDestroy(func() { order = append(order, "a.b.c") })
	child.OnDestroy(func() { order = append(order, "a.b") })
	parent.OnDestroy(func() { order = append(order, "a") })

	parent.Destroy()

	assert.True(t, parent.IsDestroyed())
	assert.True(t, child.IsDestroyed())
	assert.True(t, grandchild.IsDestroyed())
	assert.Empty(t, s.LivePaths())
	// Children go down before the parent's own callbacks fire.
	assert.Equal(t, []string{"a.b.c", "a.b", "a"}, order)
}

func TestDestroy_IsIdempotent(t *testing.T) {
	s := New()
	mp, err := s.CreateMountPoint("a")
	require.NoError(t, err)

	fires := 0
	mp.OnDestroy(func() { fires++ })

	mp.Destroy()
	mp.Destroy()

	assert.Equal(t, 1, fires)
	select {
	case <-mp.Destroyed():
	default:
		t.Fatal("destroyed channel not closed")
	}
}

func TestOnDestroy_AfterDestroyFiresImmediately(t *testing.T) {
	s := New()
	mp, err := s.CreateMountPoint("a")
	require.NoError(t, err)
	mp.Destroy()

	fired := false
	mp.OnDestroy(func() { fired = true })
	assert.True(t, fired)
}

func TestDestroyedMountPoint_Operations(t *testing.T) {
	s := New()
	mp, err := s.CreateMountPoint("a")
	require.NoError(t, err)

	calls := 0
	require.NoError(t, mp.AddReducer(func(root State, a Action) State {
		calls++
		return mp.SetState(root, a.State)
	}))
	require.NoError(t, mp.Dispatch(Action{Type: "[a] set", State: 1}))
	require.Equal(t, 1, calls)

	mp.Destroy()

	assert.ErrorIs(t, mp.Dispatch(Action{Type: "[a] set", State: 2}), ErrMountPointDestroyed)
	assert.ErrorIs(t, mp.AddReducer(func(root State, a Action) State { return root }), ErrMountPointDestroyed)
	_, err = mp.Subscribe(func(State) {})
	assert.ErrorIs(t, err, ErrMountPointDestroyed)
	_, ok := mp.GetState()
	assert.False(t, ok)

	// The registered reducer is an identity pass-through now, even when the
	// action arrives via the store directly.
	s.Dispatch(Action{Type: "[a] set", State: 3})
	assert.Equal(t, 1, calls)

	// The last committed sub-state stays in the tree.
	v, ok := Extract(s.GetState(), "a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestDestroy_TearsDownSubscriptions(t *testing.T) {
	s := New()
	mp, err := s.CreateMountPoint("a")
	require.NoError(t, err)

	notified := 0
	_, err = mp.Subscribe(func(State) { notified++ })
	require.NoError(t, err)

	s.Dispatch(Action{Type: "[x] noop"})
	require.Equal(t, 1, notified)

	mp.Destroy()
	s.Dispatch(Action{Type: "[x] noop"})
	assert.Equal(t, 1, notified)
}
