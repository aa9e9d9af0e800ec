package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotcha-gamemaster/internal/model"
)

func TestCreateAndGet(t *testing.T) {
	r := New(0)

	gameID := r.Create()
	require.Len(t, gameID, 4)

	g, err := r.Get(gameID)
	require.NoError(t, err)
	assert.Equal(t, gameID, g.GameID)
	assert.Empty(t, g.Tasks)
	assert.Empty(t, g.Evaluations)
	assert.False(t, g.CreatedAt.IsZero())
	assert.Equal(t, 1, r.Len())
}

func TestGetNotFound(t *testing.T) {
	r := New(0)

	_, err := r.Get("does-not-exist")
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestAppendTask(t *testing.T) {
	r := New(0)
	gameID := r.Create()

	task := model.Task{Keyword: "cat", Situation: "a cat sleeping in a tree", GameID: gameID}
	require.NoError(t, r.AppendTask(gameID, task))

	g, err := r.Get(gameID)
	require.NoError(t, err)
	require.Len(t, g.Tasks, 1)
	assert.Equal(t, task, g.Tasks[0])
}

func TestAppendAfterDelete(t *testing.T) {
	r := New(0)
	gameID := r.Create()
	r.Delete(gameID)

	err := r.AppendTask(gameID, model.Task{Keyword: "cat", Situation: "x", GameID: gameID})
	assert.ErrorIs(t, err, ErrGameNotFound)

	err = r.AppendEvaluation(gameID, model.Evaluation{Score: 50, GameID: gameID})
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestDeleteIdempotent(t *testing.T) {
	r := New(0)
	gameID := r.Create()

	r.Delete(gameID)
	r.Delete(gameID) // second delete is not an error

	_, err := r.Get(gameID)
	assert.ErrorIs(t, err, ErrGameNotFound)
	assert.Equal(t, 0, r.Len())
}

func TestSnapshot(t *testing.T) {
	r := New(0)
	gameID := r.Create()

	_, err := r.Snapshot("nope")
	assert.ErrorIs(t, err, ErrGameNotFound)

	snap, err := r.Snapshot(gameID)
	require.NoError(t, err)
	assert.False(t, snap.HasTask)
	assert.Empty(t, snap.PriorKeywords)
	assert.Empty(t, snap.PriorScores)

	first := model.Task{Keyword: "dog", Situation: "s1", GameID: gameID}
	second := model.Task{Keyword: "moon", Situation: "s2", GameID: gameID}
	require.NoError(t, r.AppendTask(gameID, first))
	require.NoError(t, r.AppendTask(gameID, second))
	require.NoError(t, r.AppendEvaluation(gameID, model.Evaluation{Score: 40, Task: first, GameID: gameID}))
	require.NoError(t, r.AppendEvaluation(gameID, model.Evaluation{Score: 60, Task: second, GameID: gameID}))

	snap, err = r.Snapshot(gameID)
	require.NoError(t, err)
	assert.True(t, snap.HasTask)
	assert.Equal(t, second, snap.LatestTask)
	assert.Equal(t, []string{"dog", "moon"}, snap.PriorKeywords)
	assert.Equal(t, []int{40, 60}, snap.PriorScores)
}

func TestGetReturnsCopy(t *testing.T) {
	r := New(0)
	gameID := r.Create()
	require.NoError(t, r.AppendTask(gameID, model.Task{Keyword: "dog", Situation: "s", GameID: gameID}))

	g, err := r.Get(gameID)
	require.NoError(t, err)
	g.Tasks[0].Keyword = "mutated"
	g.Tasks = append(g.Tasks, model.Task{Keyword: "extra"})

	fresh, err := r.Get(gameID)
	require.NoError(t, err)
	require.Len(t, fresh.Tasks, 1)
	assert.Equal(t, "dog", fresh.Tasks[0].Keyword)
}

func TestCapacityEviction(t *testing.T) {
	r := New(2)

	clock := time.Unix(1000, 0)
	r.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	first := r.Create()
	second := r.Create()
	third := r.Create()

	assert.Equal(t, 2, r.Len())

	// Oldest game made room for the new one.
	_, err := r.Get(first)
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = r.Get(second)
	assert.NoError(t, err)
	_, err = r.Get(third)
	assert.NoError(t, err)
}

func TestSweepIdle(t *testing.T) {
	r := New(0)

	clock := time.Unix(1000, 0)
	r.now = func() time.Time { return clock }

	idle := r.Create()
	active := r.Create()

	// Only the active game sees activity inside the TTL window.
	clock = clock.Add(2 * time.Hour)
	require.NoError(t, r.AppendTask(active, model.Task{Keyword: "dog", Situation: "s", GameID: active}))

	removed := r.SweepIdle(time.Hour)
	assert.Equal(t, 1, removed)

	_, err := r.Get(idle)
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = r.Get(active)
	assert.NoError(t, err)
}

func TestSweepIdleDisabled(t *testing.T) {
	r := New(0)

	clock := time.Unix(1000, 0)
	r.now = func() time.Time { return clock }

	r.Create()
	clock = clock.Add(24 * time.Hour)

	assert.Equal(t, 0, r.SweepIdle(0))
	assert.Equal(t, 1, r.Len())
}
