package service

import (
	"errors"

	"gotcha-gamemaster/internal/gateway"
	"gotcha-gamemaster/internal/model"
	"gotcha-gamemaster/internal/registry"
)

// Fixed substitute payloads returned when the model fails or returns
// invalid data. They are appended to the game exactly like real results,
// so later rounds always have a current task to grade against.
const (
	fallbackKeyword   = "달"
	fallbackSituation = "밤이 깊어질 때, 하늘의 은밀한 친구가 창문 너머로 속삭이고 있어. " +
		"그 둥근 미소가 어둠 속에서 혼자 빛나고 있는데, 왜인지 모르게 마음이 차분해져. " +
		"그 장면, 나한테 다시 보여줄 수 있을까?"

	fallbackScore    = 35
	fallbackFeedback = "하... 평가 시스템에 오류가 생겼는데 그것도 모르고 그림만 그리고 있었나? 기본기부터 다시 해."
)

// fallbackTask builds the fixed substitute task for a game.
func fallbackTask(gameID string) model.Task {
	return model.Task{
		Keyword:   fallbackKeyword,
		Situation: fallbackSituation,
		GameID:    gameID,
	}
}

// fallbackEvaluation builds the fixed low substitute evaluation for a game,
// referencing the task it nominally judged.
func fallbackEvaluation(gameID string, task model.Task) model.Evaluation {
	return model.Evaluation{
		Score:    fallbackScore,
		Feedback: fallbackFeedback,
		Task:     task,
		GameID:   gameID,
	}
}

// recoverable reports whether a failure is absorbed by the fallback policy.
// Gateway timeouts, provider failures and malformed responses degrade the
// content of a result, never its availability. Unknown games and missing
// task history are caller errors and propagate.
func recoverable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, registry.ErrGameNotFound) || errors.Is(err, ErrEmptyTaskHistory) {
		return false
	}
	return true
}

// failureClass labels a recoverable failure for logs, keeping validation
// failures distinguishable from transport failures.
func failureClass(err error) string {
	switch {
	case errors.Is(err, gateway.ErrTimeout):
		return "timeout"
	case errors.Is(err, gateway.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	default:
		return "other"
	}
}
