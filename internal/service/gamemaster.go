package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"gotcha-gamemaster/internal/config"
	"gotcha-gamemaster/internal/gateway"
	"gotcha-gamemaster/internal/model"
	"gotcha-gamemaster/internal/registry"
)

// GameMaster is the upward-facing surface of the orchestrator. It owns the
// registry sweeper and composes task generation, evaluation and
// commentary. Construct exactly one per process and share it.
type GameMaster struct {
	registry   *registry.Registry
	tasks      *TaskGenerator
	evaluator  *Evaluator
	commentary *Commentator

	ttl           time.Duration
	sweepInterval time.Duration
	stop          chan struct{}
	done          chan struct{}

	logger zerolog.Logger
}

// NewGameMaster wires the orchestrator from its configuration and a
// gateway client.
func NewGameMaster(cfg *config.Config, gw gateway.Client, logger zerolog.Logger) *GameMaster {
	reg := registry.New(cfg.Registry.MaxGames)
	persona := cfg.Persona.Name
	sweep := cfg.Registry.SweepInterval
	if sweep <= 0 {
		sweep = 5 * time.Minute
	}
	return &GameMaster{
		registry:      reg,
		tasks:         NewTaskGenerator(reg, gw, cfg.Tasks, logger),
		evaluator:     NewEvaluator(reg, gw, persona, cfg.Evaluation, logger),
		commentary:    NewCommentator(reg, gw, persona, cfg.Commentary, logger),
		ttl:           cfg.Registry.TTL,
		sweepInterval: sweep,
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
		logger:        logger,
	}
}

// CreateGame allocates a new game and returns its identifier. Never fails.
func (m *GameMaster) CreateGame() string {
	gameID := m.registry.Create()
	m.logger.Info().Str("game_id", gameID).Msg("game created")
	return gameID
}

// GenerateTask produces and records a new drawing task for the game.
func (m *GameMaster) GenerateTask(ctx context.Context, gameID string) (model.Task, error) {
	return m.tasks.GenerateTask(ctx, gameID)
}

// Evaluate grades a drawing description against the game's latest task.
func (m *GameMaster) Evaluate(ctx context.Context, gameID, description string) (model.Evaluation, error) {
	return m.evaluator.Evaluate(ctx, gameID, description)
}

// EvaluateAndAdvance grades the description against the task that was live
// while the player drew, then generates the next round's task. The
// submission is never graded against a prompt the player could not have
// seen.
func (m *GameMaster) EvaluateAndAdvance(ctx context.Context, gameID, description string) (model.Evaluation, model.Task, error) {
	eval, err := m.evaluator.Evaluate(ctx, gameID, description)
	if err != nil {
		return model.Evaluation{}, model.Task{}, err
	}
	task, err := m.tasks.GenerateTask(ctx, gameID)
	if err != nil {
		// Only possible if the game was ended between the two halves.
		return model.Evaluation{}, model.Task{}, err
	}
	return eval, task, nil
}

// GetGame returns a copy of the game's full state.
func (m *GameMaster) GetGame(gameID string) (model.GameContext, error) {
	return m.registry.Get(gameID)
}

// EndGame removes the game's state. Idempotent.
func (m *GameMaster) EndGame(gameID string) {
	m.registry.Delete(gameID)
	m.logger.Info().Str("game_id", gameID).Msg("game ended")
}

// Commentator exposes the lifecycle commentary operations.
func (m *GameMaster) Commentator() *Commentator {
	return m.commentary
}

// StartSweeper begins periodic removal of idle games. A TTL of 0 disables
// sweeping; the goroutine still runs so Stop stays uniform.
func (m *GameMaster) StartSweeper() {
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(m.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if removed := m.registry.SweepIdle(m.ttl); removed > 0 {
					m.logger.Info().Int("removed", removed).Msg("swept idle games")
				}
			case <-m.stop:
				return
			}
		}
	}()
}

// Stop shuts down the sweeper and waits for it to exit.
func (m *GameMaster) Stop() {
	close(m.stop)
	<-m.done
}
