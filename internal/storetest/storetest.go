// Package storetest holds the behavioural suite every studyplan.Store
// implementation must pass.
package storetest

import (
	"context"
	"testing"

	"github.com/meikuraledutech/studyplan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises the Store contract. newStore must return an empty store
// with its schema created.
func Run(t *testing.T, newStore func(t *testing.T) studyplan.Store) {
	t.Helper()

	tests := map[string]func(t *testing.T, s studyplan.Store){
		"save assigns id":                      testSaveAssignsID,
		"save keeps explicit id and replaces":  testSaveReplaces,
		"save rejects malformed records":       testSaveRejectsMalformed,
		"get missing catalogue":                testGetMissing,
		"list catalogues":                      testList,
		"delete catalogue drops schedule":      testDelete,
		"add prerequisite":                     testAddPrerequisite,
		"add prerequisite rejects cycle":       testAddPrerequisiteCycle,
		"add prerequisite to cyclic catalogue": testAddPrerequisiteCyclicCatalogue,
		"remove prerequisite":                  testRemovePrerequisite,
		"prerequisite ops need catalogue":      testPrerequisiteMissingCatalogue,
		"save and get schedule":                testSchedule,
		"schedule is invalidated by edits":     testScheduleInvalidated,
		"drop schema removes everything":       testDropSchema,
	}

	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			fn(t, newStore(t))
		})
	}
}

var curriculum = []studyplan.Record{
	{Name: "A", Prerequisites: []string{"B", "C"}},
	{Name: "B", Prerequisites: []string{"D"}},
	{Name: "C", Prerequisites: []string{"D"}},
	{Name: "D"},
}

func save(t *testing.T, s studyplan.Store, id string, records []studyplan.Record) *studyplan.Catalogue {
	t.Helper()
	c, err := s.SaveCatalogue(context.Background(), &studyplan.Catalogue{ID: id, Records: records})
	require.NoError(t, err)
	return c
}

func testSaveAssignsID(t *testing.T, s studyplan.Store) {
	c := save(t, s, "", curriculum)
	require.NotEmpty(t, c.ID)

	got, err := s.GetCatalogue(context.Background(), c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, curriculum, got.Records)
}

func testSaveReplaces(t *testing.T, s studyplan.Store) {
	ctx := context.Background()
	save(t, s, "cs", curriculum)
	save(t, s, "cs", []studyplan.Record{{Name: "X"}})

	got, err := s.GetCatalogue(ctx, "cs")
	require.NoError(t, err)
	assert.Equal(t, "cs", got.ID)
	assert.Equal(t, []studyplan.Record{{Name: "X"}}, got.Records)
}

func testSaveRejectsMalformed(t *testing.T, s studyplan.Store) {
	ctx := context.Background()
	_, err := s.SaveCatalogue(ctx, &studyplan.Catalogue{ID: "bad", Records: []studyplan.Record{{Prerequisites: []string{"A"}}}})
	require.ErrorIs(t, err, studyplan.ErrMalformedRecord)

	got, err := s.GetCatalogue(ctx, "bad")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testGetMissing(t *testing.T, s studyplan.Store) {
	got, err := s.GetCatalogue(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testList(t *testing.T, s studyplan.Store) {
	ctx := context.Background()
	ids, err := s.ListCatalogues(ctx)
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)

	save(t, s, "b", curriculum)
	save(t, s, "a", curriculum)

	ids, err = s.ListCatalogues(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func testDelete(t *testing.T, s studyplan.Store) {
	ctx := context.Background()
	save(t, s, "cs", curriculum)
	require.NoError(t, s.SaveSchedule(ctx, "cs", &studyplan.Schedule{Levels: []studyplan.Level{{Index: 1, Modules: []string{"D"}}}}))

	require.NoError(t, s.DeleteCatalogue(ctx, "cs"))
	require.NoError(t, s.DeleteCatalogue(ctx, "cs"))

	c, err := s.GetCatalogue(ctx, "cs")
	require.NoError(t, err)
	assert.Nil(t, c)

	sched, err := s.GetSchedule(ctx, "cs")
	require.NoError(t, err)
	assert.Nil(t, sched)
}

func testAddPrerequisite(t *testing.T, s studyplan.Store) {
	ctx := context.Background()
	save(t, s, "cs", curriculum)

	require.NoError(t, s.AddPrerequisite(ctx, "cs", "D", "E"))

	c, err := s.GetCatalogue(ctx, "cs")
	require.NoError(t, err)
	sched, err := c.Schedule()
	require.NoError(t, err)
	assert.Equal(t, 4, sched.Len())
	level, _ := sched.LevelOf("E")
	assert.Equal(t, 1, level)
}

func testAddPrerequisiteCycle(t *testing.T, s studyplan.Store) {
	ctx := context.Background()
	save(t, s, "cs", curriculum)

	err := s.AddPrerequisite(ctx, "cs", "D", "A")
	var cycle *studyplan.CycleDetectedError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"A", "B", "C", "D"}, cycle.Remaining)

	err = s.AddPrerequisite(ctx, "cs", "D", "D")
	require.ErrorIs(t, err, studyplan.ErrCycleDetected)

	c, err := s.GetCatalogue(ctx, "cs")
	require.NoError(t, err)
	assert.Equal(t, curriculum, c.Records)
}

func testAddPrerequisiteCyclicCatalogue(t *testing.T, s studyplan.Store) {
	ctx := context.Background()
	records := []studyplan.Record{
		{Name: "A", Prerequisites: []string{"B"}},
		{Name: "B", Prerequisites: []string{"A"}},
		{Name: "C"},
	}
	save(t, s, "cs", records)

	require.NoError(t, s.AddPrerequisite(ctx, "cs", "D", "C"))
	require.NoError(t, s.AddPrerequisite(ctx, "cs", "A", "C"))

	err := s.AddPrerequisite(ctx, "cs", "E", "B")
	var cycle *studyplan.CycleDetectedError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"A", "B", "E"}, cycle.Remaining)

	c, err := s.GetCatalogue(ctx, "cs")
	require.NoError(t, err)
	assert.Len(t, c.Records, len(records)+2)
}

func testRemovePrerequisite(t *testing.T, s studyplan.Store) {
	ctx := context.Background()
	save(t, s, "cs", []studyplan.Record{
		{Name: "A", Prerequisites: []string{"B"}},
		{Name: "B", Prerequisites: []string{"A"}},
	})

	require.NoError(t, s.RemovePrerequisite(ctx, "cs", "B", "A"))

	c, err := s.GetCatalogue(ctx, "cs")
	require.NoError(t, err)
	sched, err := c.Schedule()
	require.NoError(t, err)
	assert.Equal(t, "Semester 1: B\nSemester 2: A\n", sched.String())
}

func testPrerequisiteMissingCatalogue(t *testing.T, s studyplan.Store) {
	ctx := context.Background()
	require.ErrorIs(t, s.AddPrerequisite(ctx, "nope", "A", "B"), studyplan.ErrCatalogueNotFound)
	require.ErrorIs(t, s.RemovePrerequisite(ctx, "nope", "A", "B"), studyplan.ErrCatalogueNotFound)
	require.ErrorIs(t, s.SaveSchedule(ctx, "nope", &studyplan.Schedule{}), studyplan.ErrCatalogueNotFound)
}

func testSchedule(t *testing.T, s studyplan.Store) {
	ctx := context.Background()
	c := save(t, s, "cs", curriculum)

	sched, err := c.Schedule()
	require.NoError(t, err)
	require.NoError(t, s.SaveSchedule(ctx, "cs", sched))
	assert.False(t, sched.CreatedAt.IsZero())

	got, err := s.GetSchedule(ctx, "cs")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sched.Levels, got.Levels)
	assert.WithinDuration(t, sched.CreatedAt, got.CreatedAt, 0)
}

func testScheduleInvalidated(t *testing.T, s studyplan.Store) {
	ctx := context.Background()
	c := save(t, s, "cs", curriculum)
	sched, err := c.Schedule()
	require.NoError(t, err)
	require.NoError(t, s.SaveSchedule(ctx, "cs", sched))

	require.NoError(t, s.AddPrerequisite(ctx, "cs", "D", "E"))

	got, err := s.GetSchedule(ctx, "cs")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testDropSchema(t *testing.T, s studyplan.Store) {
	ctx := context.Background()
	save(t, s, "cs", curriculum)

	require.NoError(t, s.DropSchema(ctx))
	require.NoError(t, s.CreateSchema(ctx))

	ids, err := s.ListCatalogues(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
