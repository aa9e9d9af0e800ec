// Package service provides the game-master business logic: task
// generation, drawing evaluation and lifecycle commentary on top of the
// session registry and the language-model gateway.
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

// TaskGenerator produces non-duplicate drawing prompts and records them.
type TaskGenerator struct {
	registry    *registry.Registry
	gateway     gateway.Client
	temperature float32
	maxTokens   int
	logger      zerolog.Logger
}

// NewTaskGenerator creates a new TaskGenerator instance.
func NewTaskGenerator(reg *registry.Registry, gw gateway.Client, cfg config.GenerationConfig, logger zerolog.Logger) *TaskGenerator {
	return &TaskGenerator{
		registry:    reg,
		gateway:     gw,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
		logger:      logger,
	}
}

// GenerateTask produces a new drawing task for the game, avoiding keywords
// already used in it, and appends it to the game's history. Model failures
// of any kind are absorbed: the fixed fallback task is appended and
// returned instead, so a valid game id always yields a task.
func (g *TaskGenerator) GenerateTask(ctx context.Context, gameID string) (model.Task, error) {
	snap, err := g.registry.Snapshot(gameID)
	if err != nil {
		return model.Task{}, err
	}

	// The model call runs without any registry lock held.
	task, err := g.generate(ctx, gameID, snap.PriorKeywords)
	if errors.Is(err, context.Canceled) {
		// The caller walked away; abandon the round without writing.
		return model.Task{}, err
	}
	if err != nil {
		g.logger.Warn().
			Str("game_id", gameID).
			Str("op", "generate_task").
			Str("class", failureClass(err)).
			Err(err).
			Msg("task generation failed, using fallback")
		task = fallbackTask(gameID)
	}

	// The game may have ended while the model call was in flight.
	if err := g.registry.AppendTask(gameID, task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// generate performs the gateway call and strict parse. All errors returned
// here are recoverable by construction.
func (g *TaskGenerator) generate(ctx context.Context, gameID string, priorKeywords []string) (model.Task, error) {
	resp, err := g.gateway.Complete(ctx, gateway.Request{
		SystemPrompt: taskSystemPrompt(priorKeywords),
		UserPrompt:   taskUserPrompt,
		Temperature:  g.temperature,
		MaxTokens:    g.maxTokens,
	})
	if err != nil {
		return model.Task{}, err
	}

	payload, err := parseTask(resp.Content)
	if err != nil {
		g.logger.Debug().
			Str("game_id", gameID).
			Str("raw", resp.Content).
			Msg("unparseable generation response")
		return model.Task{}, err
	}

	return model.Task{
		Keyword:   payload.Keyword,
		Situation: payload.Situation,
		GameID:    gameID,
	}, nil
}
