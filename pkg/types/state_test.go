package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleState returns two epics: epic 1 owns stories 2 and 3, epic 4 owns none.
func sampleState() *DBState {
	s := NewDBState()
	s.LastItemID = 4
	s.Epics[1] = Epic{Name: "Epic1", Description: "desc", Status: StatusInProgress, Stories: []uint32{3, 2}}
	s.Epics[4] = NewEpic("Epic4", "")
	s.Stories[2] = NewStory("Story2", "desc")
	s.Stories[3] = Story{Name: "Story3", Status: StatusClosed}
	return s
}

func TestNewEntities(t *testing.T) {
	e := NewEpic("name", "desc")
	assert.Equal(t, StatusOpen, e.Status)
	assert.NotNil(t, e.Stories)
	assert.Empty(t, e.Stories)

	st := NewStory("name", "desc")
	assert.Equal(t, StatusOpen, st.Status)
}

func TestDBStateJSONShape(t *testing.T) {
	data, err := json.Marshal(sampleState())
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.EqualValues(t, 4, raw["last_item_id"])

	epics := raw["epics"].(map[string]any)
	assert.Contains(t, epics, "1")
	assert.Contains(t, epics, "4")
	epic1 := epics["1"].(map[string]any)
	assert.Equal(t, "InProgress", epic1["status"])
	assert.Equal(t, []any{float64(3), float64(2)}, epic1["stories"])

	// An epic with no stories serializes an empty list, not null.
	assert.Equal(t, []any{}, epics["4"].(map[string]any)["stories"])
}

func TestDBStateJSONRoundTrip(t *testing.T) {
	in := sampleState()
	data, err := json.Marshal(in)
	require.NoError(t, err)

	out := &DBState{}
	require.NoError(t, json.Unmarshal(data, out))
	out.Normalize()

	assert.True(t, in.Equal(out))
}

func TestDBStateClone(t *testing.T) {
	orig := sampleState()
	c := orig.Clone()
	require.True(t, orig.Equal(c))

	e := c.Epics[1]
	e.Stories[0] = 99
	c.Epics[1] = e
	delete(c.Stories, 2)
	c.LastItemID = 10

	assert.Equal(t, []uint32{3, 2}, orig.Epics[1].Stories)
	assert.Contains(t, orig.Stories, uint32(2))
	assert.EqualValues(t, 4, orig.LastItemID)
}

func TestDBStateEqualStoryOrderMatters(t *testing.T) {
	a := sampleState()
	b := sampleState()
	e := b.Epics[1]
	e.Stories = []uint32{2, 3}
	b.Epics[1] = e
	assert.False(t, a.Equal(b))
}

func TestDBStateNormalize(t *testing.T) {
	s := &DBState{Epics: map[uint32]Epic{1: {Name: "x"}}}
	s.Normalize()
	assert.NotNil(t, s.Stories)
	assert.NotNil(t, s.Epics[1].Stories)
}

func TestDBStateEpicIDsSorted(t *testing.T) {
	s := NewDBState()
	for _, id := range []uint32{10, 2, 7} {
		s.Epics[id] = NewEpic("", "")
	}
	assert.Equal(t, []uint32{2, 7, 10}, s.EpicIDs())
}

func TestDBStateCheck(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *DBState)
		wantErr bool
	}{
		{name: "consistent state passes", mutate: func(s *DBState) {}},
		{name: "empty state passes", mutate: func(s *DBState) { *s = *NewDBState() }},
		{
			name:    "epic lists missing story",
			mutate:  func(s *DBState) { delete(s.Stories, 2) },
			wantErr: true,
		},
		{
			name:    "orphan story",
			mutate:  func(s *DBState) { s.Stories[5] = NewStory("orphan", ""); s.LastItemID = 5 },
			wantErr: true,
		},
		{
			name: "story listed by two epics",
			mutate: func(s *DBState) {
				e := s.Epics[4]
				e.Stories = []uint32{2}
				s.Epics[4] = e
			},
			wantErr: true,
		},
		{
			name:    "counter below max id",
			mutate:  func(s *DBState) { s.LastItemID = 3 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleState()
			tt.mutate(s)
			err := s.Check()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrIntegrityViolation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
