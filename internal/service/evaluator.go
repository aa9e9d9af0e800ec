package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"gotcha-gamemaster/internal/config"
	"gotcha-gamemaster/internal/gateway"
	"gotcha-gamemaster/internal/model"
	"gotcha-gamemaster/internal/registry"
)

// Evaluator grades free-text drawing descriptions against the game's most
// recent task, consistent with prior grading in the same game.
type Evaluator struct {
	registry    *registry.Registry
	gateway     gateway.Client
	persona     string
	temperature float32
	maxTokens   int
	logger      zerolog.Logger
}

// NewEvaluator creates a new Evaluator instance.
func NewEvaluator(reg *registry.Registry, gw gateway.Client, persona string, cfg config.GenerationConfig, logger zerolog.Logger) *Evaluator {
	return &Evaluator{
		registry:    reg,
		gateway:     gw,
		persona:     persona,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
		logger:      logger,
	}
}

// Evaluate grades a drawing description against the game's latest task and
// appends the result. It fails only for an unknown game or a game with no
// task yet; model failures are absorbed into the fixed fallback
// evaluation, which is appended exactly like a real one.
func (e *Evaluator) Evaluate(ctx context.Context, gameID, description string) (model.Evaluation, error) {
	snap, err := e.registry.Snapshot(gameID)
	if err != nil {
		return model.Evaluation{}, err
	}
	if !snap.HasTask {
		return model.Evaluation{}, ErrEmptyTaskHistory
	}

	// The anchor covers only evaluations appended before this call; the
	// snapshot was taken before the model call, so a racing evaluation
	// cannot leak into it.
	anchor, hasAnchor := meanScore(snap.PriorScores)

	eval, err := e.grade(ctx, gameID, snap.LatestTask, description, anchor, hasAnchor)
	if errors.Is(err, context.Canceled) {
		// The caller walked away; abandon the round without writing.
		return model.Evaluation{}, err
	}
	if err != nil {
		e.logger.Warn().
			Str("game_id", gameID).
			Str("op", "evaluate").
			Str("class", failureClass(err)).
			Err(err).
			Msg("evaluation failed, using fallback")
		eval = fallbackEvaluation(gameID, snap.LatestTask)
	}

	if err := e.registry.AppendEvaluation(gameID, eval); err != nil {
		return model.Evaluation{}, err
	}
	return eval, nil
}

// grade performs the gateway call and strict parse. All errors returned
// here are recoverable by construction.
func (e *Evaluator) grade(ctx context.Context, gameID string, task model.Task, description string, anchor float64, hasAnchor bool) (model.Evaluation, error) {
	resp, err := e.gateway.Complete(ctx, gateway.Request{
		SystemPrompt: evaluationSystemPrompt(e.persona, task.Keyword, task.Situation, anchor, hasAnchor),
		UserPrompt:   evaluationUserPrompt(description),
		Temperature:  e.temperature,
		MaxTokens:    e.maxTokens,
	})
	if err != nil {
		return model.Evaluation{}, err
	}

	payload, err := parseEvaluation(resp.Content)
	if err != nil {
		e.logger.Debug().
			Str("game_id", gameID).
			Str("raw", resp.Content).
			Msg("unparseable evaluation response")
		return model.Evaluation{}, err
	}

	eval := model.Evaluation{
		Score:    *payload.Score,
		Feedback: payload.Feedback,
		Task:     task,
		GameID:   gameID,
	}
	if payload.KeywordMatch != nil {
		eval.KeywordMatch = *payload.KeywordMatch
		eval.SituationMatch = *payload.SituationMatch
		eval.Creativity = *payload.Creativity
		eval.HasBreakdown = true
	}
	return eval, nil
}

// meanScore returns the arithmetic mean of prior scores; ok is false when
// there are none.
func meanScore(scores []int) (mean float64, ok bool) {
	if len(scores) == 0 {
		return 0, false
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores)), true
}
