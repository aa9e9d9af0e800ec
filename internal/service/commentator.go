package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"gotcha-gamemaster/internal/config"
	"gotcha-gamemaster/internal/gateway"
	"gotcha-gamemaster/internal/registry"
)

// Fixed lines used when the model cannot produce commentary. One per
// message kind so a degraded game still reads coherently.
const (
	fallbackGameStart     = "자, 다들 모였네. 오늘도 내 눈을 속일 수 있을지 한번 보자."
	fallbackRoundStart    = "다음 라운드 시작이야. 붓 들어."
	fallbackGuessCorrect  = "흠, 맞췄네. 운이 좋았던 걸로 해두지."
	fallbackGuessWrong    = "그것도 못 맞추다니. 정답 보고 반성해."
	fallbackGameEndHost   = "결국 내가 이겼네. 다음엔 좀 더 분발해."
	fallbackGameEndPlayer = "이번엔 너희가 이겼다고 해두지. 방심하지 마."
)

// Commentator produces persona-flavored lifecycle messages: game start,
// round start, guess reactions and game end. It never writes to the
// registry and never fails for model-side reasons.
type Commentator struct {
	registry    *registry.Registry
	gateway     gateway.Client
	persona     string
	temperature float32
	maxTokens   int
	logger      zerolog.Logger
}

// NewCommentator creates a new Commentator instance.
func NewCommentator(reg *registry.Registry, gw gateway.Client, persona string, cfg config.GenerationConfig, logger zerolog.Logger) *Commentator {
	return &Commentator{
		registry:    reg,
		gateway:     gw,
		persona:     persona,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
		logger:      logger,
	}
}

// GameStartMessage greets the players of a newly created game.
func (c *Commentator) GameStartMessage(ctx context.Context, gameID string, players []string) (string, error) {
	return c.say(ctx, gameID, "game_start", gameStartUserPrompt(players), fallbackGameStart)
}

// RoundStartMessage announces a round and its drawing player.
func (c *Commentator) RoundStartMessage(ctx context.Context, gameID, drawingPlayer string, round, totalRounds int) (string, error) {
	return c.say(ctx, gameID, "round_start", roundStartUserPrompt(drawingPlayer, round, totalRounds), fallbackRoundStart)
}

// GuessReactionMessage reacts to a guess outcome.
func (c *Commentator) GuessReactionMessage(ctx context.Context, gameID string, correct bool, answer, guesser string) (string, error) {
	fallback := fallbackGuessWrong
	if correct {
		fallback = fallbackGuessCorrect
	}
	return c.say(ctx, gameID, "guess_reaction", guessReactionUserPrompt(correct, answer, guesser), fallback)
}

// GameEndMessage closes out a finished game.
func (c *Commentator) GameEndMessage(ctx context.Context, gameID string, hostWon bool) (string, error) {
	fallback := fallbackGameEndPlayer
	if hostWon {
		fallback = fallbackGameEndHost
	}
	return c.say(ctx, gameID, "game_end", gameEndUserPrompt(hostWon), fallback)
}

// say verifies the game exists, asks the model for a line and substitutes
// the fixed fallback on any model failure.
func (c *Commentator) say(ctx context.Context, gameID, op, userPrompt, fallback string) (string, error) {
	if !c.registry.Exists(gameID) {
		return "", fmt.Errorf("game %s: %w", gameID, registry.ErrGameNotFound)
	}

	resp, err := c.gateway.Complete(ctx, gateway.Request{
		SystemPrompt: commentarySystemPrompt(c.persona),
		UserPrompt:   userPrompt,
		Temperature:  c.temperature,
		MaxTokens:    c.maxTokens,
	})
	if errors.Is(err, context.Canceled) {
		return "", err
	}
	if err != nil {
		c.logger.Warn().
			Str("game_id", gameID).
			Str("op", op).
			Str("class", failureClass(err)).
			Err(err).
			Msg("commentary failed, using fallback")
		return fallback, nil
	}

	line := strings.TrimSpace(resp.Content)
	if line == "" {
		return fallback, nil
	}
	return line, nil
}
