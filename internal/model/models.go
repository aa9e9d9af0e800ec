// Package model defines the data models for the drawing game master.
package model

import "time"

// Task is a hidden-keyword drawing prompt shown to the drawing player.
// The keyword is the answer; the situation is the poetic description the
// player draws from. Tasks are immutable once appended to a game.
type Task struct {
	Keyword   string `json:"keyword"`
	Situation string `json:"situation"`
	GameID    string `json:"game_id"`
}

// Evaluation is a graded judgment of a submitted drawing description
// against a Task. Score is always in [0,100]. When HasBreakdown is set,
// KeywordMatch (0-40), SituationMatch (0-40) and Creativity (0-20) sum to
// Score. Evaluations are immutable once appended to a game.
type Evaluation struct {
	Score          int    `json:"score"`
	KeywordMatch   int    `json:"keyword_match,omitempty"`
	SituationMatch int    `json:"situation_match,omitempty"`
	Creativity     int    `json:"creativity,omitempty"`
	HasBreakdown   bool   `json:"-"`
	Feedback       string `json:"feedback"`
	Task           Task   `json:"task"`
	GameID         string `json:"game_id"`
}

// GameContext is the per-game state: ordered task history, ordered
// evaluation history and bookkeeping timestamps. It is owned by the
// session registry; other components only ever see copies.
type GameContext struct {
	GameID       string
	Tasks        []Task
	Evaluations  []Evaluation
	CreatedAt    time.Time
	LastActivity time.Time
}

// Clone returns a deep copy of the context. Task and Evaluation values are
// immutable, so copying the slices is sufficient.
func (g *GameContext) Clone() GameContext {
	out := GameContext{
		GameID:       g.GameID,
		CreatedAt:    g.CreatedAt,
		LastActivity: g.LastActivity,
	}
	if len(g.Tasks) > 0 {
		out.Tasks = make([]Task, len(g.Tasks))
		copy(out.Tasks, g.Tasks)
	}
	if len(g.Evaluations) > 0 {
		out.Evaluations = make([]Evaluation, len(g.Evaluations))
		copy(out.Evaluations, g.Evaluations)
	}
	return out
}
