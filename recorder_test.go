package tydux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pburgmer/Tydux/store"
)

func TestRecorder_CapturesCommitRecordsInOrder(t *testing.T) {
	ResetMutatorEvents()

	f := newCounterFacade(t, "rec-order")
	rec := NewRecorder()
	defer rec.Stop()

	require.NoError(t, f.Dispatch("increment"))
	require.NoError(t, f.Dispatch("incrementTwice"))
	require.NoError(t, f.Dispatch("decrement"))

	events := rec.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "[rec-order] increment", events[0].Action.Type)
	assert.Equal(t, "[rec-order] incrementTwice", events[1].Action.Type)
	assert.Equal(t, "[rec-order] decrement", events[2].Action.Type)
	assert.Equal(t, counterState{Count: 2}, events[2].State)
}

func TestRecorder_FiltersByFacadeID(t *testing.T) {
	ResetMutatorEvents()

	s := store.New()
	mpA, err := s.CreateMountPoint("rec-a")
	require.NoError(t, err)
	mpB, err := s.CreateMountPoint("rec-b")
	require.NoError(t, err)

	fa, err := New(mpA, "rec-facade-a", &counterCommands{})
	require.NoError(t, err)
	defer fa.Destroy()
	fb, err := New(mpB, "rec-facade-b", &counterCommands{})
	require.NoError(t, err)
	defer fb.Destroy()

	rec := NewRecorder("rec-facade-b")
	defer rec.Stop()

	require.NoError(t, fa.Dispatch("increment"))
	require.NoError(t, fb.Dispatch("increment"))

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "rec-facade-b", events[0].FacadeID)
}

func TestRecorder_NoRecordForAbortedMutation(t *testing.T) {
	ResetMutatorEvents()

	f := newCounterFacade(t, "rec-abort")
	rec := NewRecorder("rec-abort")
	defer rec.Stop()

	require.Error(t, f.Dispatch("incrementThenFail"))
	assert.Equal(t, 0, rec.Len())
}

func TestRecorder_StopAndClear(t *testing.T) {
	ResetMutatorEvents()

	f := newCounterFacade(t, "rec-stop")
	rec := NewRecorder("rec-stop")

	require.NoError(t, f.Dispatch("increment"))
	require.Equal(t, 1, rec.Len())

	rec.Clear()
	assert.Equal(t, 0, rec.Len())

	rec.Stop()
	require.NoError(t, f.Dispatch("increment"))
	assert.Equal(t, 0, rec.Len())
}

func TestMutatorEvents_ReplaysLatestRecord(t *testing.T) {
	ResetMutatorEvents()

	f := newCounterFacade(t, "rec-replay")
	require.NoError(t, f.Dispatch("increment"))

	var replayed []MutatorEvent
	sub := MutatorEvents().Subscribe(func(e MutatorEvent) {
		replayed = append(replayed, e)
	})
	defer sub.Unsubscribe()

	require.Len(t, replayed, 1)
	assert.Equal(t, "[rec-replay] increment", replayed[0].Action.Type)
}

func TestFacade_CustomCommitRecordIDs(t *testing.T) {
	ResetMutatorEvents()

	mp, err := store.New().CreateMountPoint("fixed-ids")
	require.NoError(t, err)
	f, err := New(mp, "rec-fixed", &counterCommands{},
		WithIDGenerator[counterState](NewFixedIDs("c1", "c2")),
	)
	require.NoError(t, err)
	defer f.Destroy()

	rec := NewRecorder("rec-fixed")
	defer rec.Stop()

	require.NoError(t, f.Dispatch("increment"))
	require.NoError(t, f.Dispatch("increment"))

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "c1", events[0].ID)
	assert.Equal(t, "c2", events[1].ID)
}
