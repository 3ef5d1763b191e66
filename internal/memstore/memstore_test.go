package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/backlog/pkg/types"
)

func TestStore_StartsEmpty(t *testing.T) {
	s := New()
	got, err := s.Read()
	require.NoError(t, err)
	assert.True(t, types.NewDBState().Equal(got))
	assert.Zero(t, s.Writes())
}

func TestStore_WriteThenRead(t *testing.T) {
	s := New()
	state := types.NewDBState()
	state.LastItemID = 1
	state.Epics[1] = types.NewEpic("e", "d")

	require.NoError(t, s.Write(state))
	assert.Equal(t, 1, s.Writes())

	got, err := s.Read()
	require.NoError(t, err)
	assert.True(t, state.Equal(got))
	assert.True(t, state.Equal(s.LastWritten()))
}

func TestStore_NoAliasing(t *testing.T) {
	state := types.NewDBState()
	state.Epics[1] = types.NewEpic("e", "d")
	s := NewWithState(state)

	state.Epics[2] = types.NewEpic("mutated after construction", "")
	got, err := s.Read()
	require.NoError(t, err)
	assert.Len(t, got.Epics, 1)

	got.Epics[3] = types.NewEpic("mutated after read", "")
	assert.Len(t, s.LastWritten().Epics, 1)
}

func TestStore_InjectedFailures(t *testing.T) {
	s := New()

	s.FailRead = true
	_, err := s.Read()
	assert.ErrorIs(t, err, types.ErrStore)

	s.FailRead = false
	s.FailWrite = true
	err = s.Write(types.NewDBState())
	assert.ErrorIs(t, err, types.ErrStore)
	assert.Zero(t, s.Writes())
}
