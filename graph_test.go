package studyplan

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCreatesOneModulePerName(t *testing.T) {
	g, err := BuildRecords([]Record{
		{Name: "A", Prerequisites: []string{"B", "C"}},
		{Name: "B"},
		{Name: "C"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []string{"A", "B", "C"}, g.Modules())
	assert.Equal(t, []string{"B", "C"}, g.Prerequisites("A"))
	assert.Equal(t, []string{"A"}, g.Dependents("B"))
	assert.Equal(t, []string{"A"}, g.Dependents("C"))
	assert.Equal(t, 2, g.Pending("A"))
	assert.Equal(t, 0, g.Pending("B"))
}

func TestBuildPrerequisiteOnlyModulesExist(t *testing.T) {
	g, err := BuildRecords([]Record{{Name: "A", Prerequisites: []string{"X"}}})
	require.NoError(t, err)

	assert.True(t, g.Has("X"))
	assert.Equal(t, 0, g.Pending("X"))
	assert.Equal(t, []string{"A"}, g.Dependents("X"))
}

func TestBuildDuplicatePrerequisitesCountOnce(t *testing.T) {
	t.Run("within a record", func(t *testing.T) {
		g, err := BuildRecords([]Record{{Name: "A", Prerequisites: []string{"B", "B"}}})
		require.NoError(t, err)

		assert.Equal(t, 1, g.Pending("A"))
		assert.Equal(t, []string{"A"}, g.Dependents("B"))
	})

	t.Run("across records", func(t *testing.T) {
		g, err := BuildRecords([]Record{
			{Name: "A", Prerequisites: []string{"B"}},
			{Name: "A", Prerequisites: []string{"B", "C"}},
		})
		require.NoError(t, err)

		assert.Equal(t, 2, g.Pending("A"))
		assert.Equal(t, []string{"A"}, g.Dependents("B"))
	})
}

func TestBuildOrderOfFirstAppearanceDoesNotMatter(t *testing.T) {
	subjectFirst, err := BuildRecords([]Record{
		{Name: "B"},
		{Name: "A", Prerequisites: []string{"B"}},
	})
	require.NoError(t, err)

	prerequisiteFirst, err := BuildRecords([]Record{
		{Name: "A", Prerequisites: []string{"B"}},
		{Name: "B"},
	})
	require.NoError(t, err)

	for _, name := range []string{"A", "B"} {
		assert.Equal(t, subjectFirst.Pending(name), prerequisiteFirst.Pending(name), name)
		assert.Equal(t, subjectFirst.Dependents(name), prerequisiteFirst.Dependents(name), name)
		assert.Equal(t, subjectFirst.Prerequisites(name), prerequisiteFirst.Prerequisites(name), name)
	}
	assert.Equal(t, subjectFirst.Modules(), prerequisiteFirst.Modules())
}

func TestBuildKeepsSelfLoops(t *testing.T) {
	g, err := BuildRecords([]Record{{Name: "A", Prerequisites: []string{"A"}}})
	require.NoError(t, err)

	assert.Equal(t, 1, g.Pending("A"))
	assert.Equal(t, []string{"A"}, g.Dependents("A"))
}

func TestBuildMalformedRecord(t *testing.T) {
	tests := map[string]Record{
		"empty record":       {},
		"blank name":         {Name: "  ", Prerequisites: []string{"B"}, Line: 4},
		"empty prerequisite": {Name: "A", Prerequisites: []string{"B", ""}},
	}

	for name, rec := range tests {
		t.Run(name, func(t *testing.T) {
			g, err := BuildRecords([]Record{{Name: "X"}, rec})
			assert.Nil(t, g)
			require.ErrorIs(t, err, ErrMalformedRecord)

			var malformed *MalformedRecordError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, rec, malformed.Record)
		})
	}
}

func TestMalformedRecordErrorMentionsLine(t *testing.T) {
	err := &MalformedRecordError{Record: Record{Line: 7}}
	assert.Contains(t, err.Error(), "line 7")
}

type failingSource struct {
	records []Record
	err     error
}

func (s *failingSource) Next() (Record, error) {
	if len(s.records) == 0 {
		return Record{}, s.err
	}
	rec := s.records[0]
	s.records = s.records[1:]
	return rec, nil
}

func TestBuildPropagatesSourceErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := Build(&failingSource{records: []Record{{Name: "A"}}, err: boom})

	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestBuildEmptySource(t *testing.T) {
	g, err := BuildRecords(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Modules())
}

func TestGraphUnknownModule(t *testing.T) {
	g, err := BuildRecords([]Record{{Name: "A"}})
	require.NoError(t, err)

	assert.False(t, g.Has("Z"))
	assert.Nil(t, g.Prerequisites("Z"))
	assert.Nil(t, g.Dependents("Z"))
	assert.Equal(t, 0, g.Pending("Z"))
}
