package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gotcha-gamemaster/internal/config"
	"gotcha-gamemaster/internal/gateway"
	"gotcha-gamemaster/internal/model"
	"gotcha-gamemaster/internal/registry"
)

func newEvaluator(reg *registry.Registry, gw gateway.Client) *Evaluator {
	return NewEvaluator(reg, gw, "루루", config.GenerationConfig{Temperature: 0.4, MaxTokens: 300}, zerolog.Nop())
}

func seedTask(t *testing.T, reg *registry.Registry, gameID, keyword string) model.Task {
	t.Helper()
	task := model.Task{Keyword: keyword, Situation: "situation for " + keyword, GameID: gameID}
	require.NoError(t, reg.AppendTask(gameID, task))
	return task
}

func TestEvaluate(t *testing.T) {
	reg := registry.New(0)
	gameID := reg.Create()
	task := seedTask(t, reg, gameID, "cat")

	stub := &stubGateway{respond: fixedContent(`{"score": 72, "keyword_match": 32, "situation_match": 28, "creativity": 12, "feedback": "나쁘지 않네"}`)}
	ev := newEvaluator(reg, stub)

	eval, err := ev.Evaluate(context.Background(), gameID, "a sleeping cat on a branch")
	require.NoError(t, err)
	assert.Equal(t, 72, eval.Score)
	assert.True(t, eval.HasBreakdown)
	assert.Equal(t, 32, eval.KeywordMatch)
	assert.Equal(t, 28, eval.SituationMatch)
	assert.Equal(t, 12, eval.Creativity)
	assert.Equal(t, task, eval.Task)
	assert.Equal(t, gameID, eval.GameID)

	// The grading prompt carries the hidden answer and the submission.
	req := stub.lastRequest()
	assert.Contains(t, req.SystemPrompt, "cat")
	assert.Contains(t, req.UserPrompt, "a sleeping cat on a branch")

	g, err := reg.Get(gameID)
	require.NoError(t, err)
	require.Len(t, g.Evaluations, 1)
	assert.Equal(t, eval, g.Evaluations[0])
}

func TestEvaluateEmptyTaskHistory(t *testing.T) {
	reg := registry.New(0)
	gameID := reg.Create()

	stub := &stubGateway{respond: fixedContent(`{"score": 72, "feedback": "f"}`)}
	ev := newEvaluator(reg, stub)

	_, err := ev.Evaluate(context.Background(), gameID, "desc")
	assert.ErrorIs(t, err, ErrEmptyTaskHistory)

	// A precondition failure appends nothing and never reaches the model.
	assert.Equal(t, 0, stub.callCount())
	g, getErr := reg.Get(gameID)
	require.NoError(t, getErr)
	assert.Empty(t, g.Evaluations)
}

func TestEvaluateUnknownGame(t *testing.T) {
	reg := registry.New(0)
	ev := newEvaluator(reg, &stubGateway{respond: fixedContent(`{"score": 1, "feedback": "f"}`)})

	_, err := ev.Evaluate(context.Background(), "does-not-exist", "desc")
	assert.ErrorIs(t, err, registry.ErrGameNotFound)
}

func TestEvaluateFallback(t *testing.T) {
	tests := []struct {
		name    string
		respond func(gateway.Request) (gateway.Response, error)
	}{
		{"gateway timeout", alwaysFail(gateway.ErrTimeout)},
		{"gateway unavailable", alwaysFail(gateway.ErrUnavailable)},
		{"not json", fixedContent("시스템 점검 중입니다")},
		{"score out of range", fixedContent(`{"score": 120, "feedback": "f"}`)},
		{"breakdown sum mismatch", fixedContent(`{"score": 80, "keyword_match": 40, "situation_match": 30, "creativity": 5, "feedback": "f"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registry.New(0)
			gameID := reg.Create()
			task := seedTask(t, reg, gameID, "cat")

			ev := newEvaluator(reg, &stubGateway{respond: tt.respond})

			eval, err := ev.Evaluate(context.Background(), gameID, "anything")
			require.NoError(t, err)
			assert.Equal(t, fallbackScore, eval.Score)
			assert.False(t, eval.HasBreakdown)
			assert.NotEmpty(t, eval.Feedback)
			assert.Equal(t, task, eval.Task)

			g, getErr := reg.Get(gameID)
			require.NoError(t, getErr)
			require.Len(t, g.Evaluations, 1)
			assert.Equal(t, eval, g.Evaluations[0])
		})
	}
}

func TestEvaluateAnchorUsesPriorScoresOnly(t *testing.T) {
	reg := registry.New(0)
	gameID := reg.Create()
	seedTask(t, reg, gameID, "cat")

	stub := &stubGateway{respond: fixedContent(`{"score": 40, "feedback": "f"}`)}
	ev := newEvaluator(reg, stub)

	// First evaluation: no prior scores, so no anchor in the prompt.
	_, err := ev.Evaluate(context.Background(), gameID, "first")
	require.NoError(t, err)
	assert.NotContains(t, stub.requests[0].SystemPrompt, "평균 점수")

	// Second evaluation: anchor is the mean of the single prior score.
	stub.respond = fixedContent(`{"score": 60, "feedback": "f"}`)
	_, err = ev.Evaluate(context.Background(), gameID, "second")
	require.NoError(t, err)
	assert.Contains(t, stub.requests[1].SystemPrompt, "40.0")

	// Third evaluation: mean of 40 and 60, not including the pending one.
	_, err = ev.Evaluate(context.Background(), gameID, "third")
	require.NoError(t, err)
	assert.Contains(t, stub.requests[2].SystemPrompt, "50.0")
}

func TestEvaluateGradesAgainstLatestTask(t *testing.T) {
	reg := registry.New(0)
	gameID := reg.Create()
	seedTask(t, reg, gameID, "cat")
	latest := seedTask(t, reg, gameID, "moon")

	stub := &stubGateway{respond: fixedContent(`{"score": 55, "feedback": "f"}`)}
	ev := newEvaluator(reg, stub)

	eval, err := ev.Evaluate(context.Background(), gameID, "desc")
	require.NoError(t, err)
	assert.Equal(t, latest, eval.Task)
	assert.Contains(t, stub.lastRequest().SystemPrompt, "moon")
}

func TestMeanScore(t *testing.T) {
	_, ok := meanScore(nil)
	assert.False(t, ok)

	mean, ok := meanScore([]int{40, 60})
	assert.True(t, ok)
	assert.InDelta(t, 50.0, mean, 1e-9)

	mean, ok = meanScore([]int{35})
	assert.True(t, ok)
	assert.InDelta(t, 35.0, mean, 1e-9)
}
