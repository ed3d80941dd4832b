package tydux

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pburgmer/Tydux/store"
)

type extraFieldCommands struct {
	Mutator[counterState]
	Cache map[string]int
}

func (c *extraFieldCommands) Increment() { c.State().Count++ }

type returningCommands struct {
	Mutator[counterState]
}

func (c *returningCommands) Take() int { return c.State().Count }

type pointerEmbedCommands struct {
	*Mutator[counterState]
}

func (c *pointerEmbedCommands) Increment() { c.State().Count++ }

func TestNew_RejectsExtraFields(t *testing.T) {
	mp, err := store.New().CreateMountPoint("bad")
	require.NoError(t, err)

	_, err = New(mp, "bad-extra-field", &extraFieldCommands{})
	require.Error(t, err)
	assert.True(t, IsIllegalInstanceMember(err))

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Cache", fe.Member, "error names the offending member")
}

func TestNew_RejectsReturnValues(t *testing.T) {
	mp, err := store.New().CreateMountPoint("bad")
	require.NoError(t, err)

	_, err = New(mp, "bad-return", &returningCommands{})
	require.Error(t, err)
	assert.True(t, IsIllegalReturnType(err))

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Take", fe.Method, "error names the offending method")
}

func TestNew_RejectsPointerEmbeddedMutator(t *testing.T) {
	mp, err := store.New().CreateMountPoint("bad")
	require.NoError(t, err)

	_, err = New(mp, "bad-pointer-embed", &pointerEmbedCommands{})
	require.Error(t, err)
	assert.True(t, IsIllegalInstanceMember(err))
}

func TestNew_RejectsNilCommands(t *testing.T) {
	mp, err := store.New().CreateMountPoint("bad")
	require.NoError(t, err)

	_, err = New(mp, "bad-nil", (*counterCommands)(nil))
	require.Error(t, err)
	assert.True(t, IsIllegalInstanceMember(err))
}

func TestNew_FailedValidationRegistersNothing(t *testing.T) {
	mp, err := store.New().CreateMountPoint("bad")
	require.NoError(t, err)

	_, err = New(mp, "bad-unregistered", &returningCommands{})
	require.Error(t, err)
	assert.NotContains(t, RegisteredFacadeIDs(), "bad-unregistered")
}

func TestLowerFirst(t *testing.T) {
	assert.Equal(t, "increment", lowerFirst("Increment"))
	assert.Equal(t, "addItem", lowerFirst("AddItem"))
	assert.Equal(t, "x", lowerFirst("X"))
	assert.Equal(t, "", lowerFirst(""))
}

func TestDispatchTable_SkipsPromotedMethods(t *testing.T) {
	table, err := buildDispatchTable[counterState]("t", &counterCommands{})
	require.NoError(t, err)

	assert.Contains(t, table, "increment")
	assert.Contains(t, table, "decrement")
	assert.Contains(t, table, "incrementTwice")
	assert.NotContains(t, table, "state")
	assert.NotContains(t, table, "invoke")
}
