// Package registry owns the gameID -> GameContext mapping.
// It is the only component that mutates game state; task generation and
// evaluation read snapshots and append results through it.
package registry

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gotcha-gamemaster/internal/model"
)

const (
	// Game identifiers are 4-digit numeric strings, 1000-9999.
	idMin   = 1000
	idSpace = 9000
)

// Registry manages all live game contexts behind a single lock.
// One mutex covers every map operation; the slow model calls happen
// elsewhere, never while this lock is held.
type Registry struct {
	mu       sync.RWMutex
	games    map[string]*model.GameContext
	maxGames int
	now      func() time.Time
}

// New creates an empty registry. maxGames bounds the number of live games;
// 0 means no bound beyond the identifier space.
func New(maxGames int) *Registry {
	if maxGames <= 0 || maxGames > idSpace {
		maxGames = idSpace
	}
	return &Registry{
		games:    make(map[string]*model.GameContext),
		maxGames: maxGames,
		now:      time.Now,
	}
}

// Create allocates a new empty game context and returns its identifier.
// Identifier generation and insertion happen under one lock acquisition,
// so no two live games can share an id even under concurrent callers.
// When the registry is full the game with the oldest activity is evicted,
// so Create never fails.
func (r *Registry) Create() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for len(r.games) >= r.maxGames {
		r.evictOldestLocked()
	}

	var gameID string
	for {
		gameID = fmt.Sprintf("%04d", idMin+rand.Intn(idSpace))
		if _, exists := r.games[gameID]; !exists {
			break
		}
	}

	now := r.now()
	r.games[gameID] = &model.GameContext{
		GameID:       gameID,
		CreatedAt:    now,
		LastActivity: now,
	}
	return gameID
}

// evictOldestLocked removes the game with the oldest LastActivity.
// Caller must hold the write lock.
func (r *Registry) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, g := range r.games {
		if oldestID == "" || g.LastActivity.Before(oldest) {
			oldestID = id
			oldest = g.LastActivity
		}
	}
	if oldestID != "" {
		delete(r.games, oldestID)
	}
}

// Get returns a copy of the game context.
// Returns ErrGameNotFound if the game does not exist.
func (r *Registry) Get(gameID string) (model.GameContext, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.games[gameID]
	if !ok {
		return model.GameContext{}, ErrGameNotFound
	}
	return g.Clone(), nil
}

// Exists reports whether the game is live.
func (r *Registry) Exists(gameID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.games[gameID]
	return ok
}

// Snapshot is the read-side state a generation or grading call needs,
// captured in one lock acquisition so the model call can run unlocked.
type Snapshot struct {
	PriorKeywords []string
	LatestTask    model.Task
	HasTask       bool
	PriorScores   []int
}

// Snapshot returns the prior keywords, latest task and prior scores of a
// game. Returns ErrGameNotFound if the game does not exist.
func (r *Registry) Snapshot(gameID string) (Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.games[gameID]
	if !ok {
		return Snapshot{}, ErrGameNotFound
	}

	snap := Snapshot{}
	if n := len(g.Tasks); n > 0 {
		snap.PriorKeywords = make([]string, 0, n)
		for _, t := range g.Tasks {
			snap.PriorKeywords = append(snap.PriorKeywords, t.Keyword)
		}
		snap.LatestTask = g.Tasks[n-1]
		snap.HasTask = true
	}
	if n := len(g.Evaluations); n > 0 {
		snap.PriorScores = make([]int, 0, n)
		for _, e := range g.Evaluations {
			snap.PriorScores = append(snap.PriorScores, e.Score)
		}
	}
	return snap, nil
}

// AppendTask atomically appends a task to the game's history.
// Returns ErrGameNotFound if the game was deleted while the task was being
// generated; the result is discarded in that case.
func (r *Registry) AppendTask(gameID string, task model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[gameID]
	if !ok {
		return ErrGameNotFound
	}
	g.Tasks = append(g.Tasks, task)
	g.LastActivity = r.now()
	return nil
}

// AppendEvaluation atomically appends an evaluation to the game's history.
// Returns ErrGameNotFound if the game was deleted concurrently.
func (r *Registry) AppendEvaluation(gameID string, eval model.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.games[gameID]
	if !ok {
		return ErrGameNotFound
	}
	g.Evaluations = append(g.Evaluations, eval)
	g.LastActivity = r.now()
	return nil
}

// Delete removes the game context. Deleting an absent id is not an error.
func (r *Registry) Delete(gameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, gameID)
}

// Len returns the number of live games.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// SweepIdle deletes games whose last activity is older than ttl and
// returns how many were removed. A ttl of 0 or less removes nothing.
func (r *Registry) SweepIdle(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-ttl)
	removed := 0
	for id, g := range r.games {
		if g.LastActivity.Before(cutoff) {
			delete(r.games, id)
			removed++
		}
	}
	return removed
}
