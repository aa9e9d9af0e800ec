package service

import (
	"fmt"
	"strings"
)

// Prompt construction for the game-master persona. The model is asked for
// strict JSON; everything it returns still goes through parse.go before it
// is trusted.

const taskUserPrompt = "새로운 그림 주제를 시적으로 표현해줘."

// taskSystemPrompt instructs the model to invent a hidden keyword and a
// poetic description of it, avoiding keywords already used in this game.
func taskSystemPrompt(priorKeywords []string) string {
	var b strings.Builder
	b.WriteString(`너는 꿈과 환상을 다루는 신비로운 이야기꾼이야.
사용자에게 그림을 그리게 하고 싶은데, 직접적으로 말하지 말고 매우 추상적이고 시적으로 표현해줘.

규칙:
- 핵심 키워드(명사)를 정하되, 절대 그 단어를 직접 언급하지 마
- 감정적이고 모호한 표현 사용
- 마치 꿈에서 본 장면을 애매하게 묘사하는 느낌
- 해석의 여지가 많도록 추상적으로
`)
	if len(priorKeywords) > 0 {
		b.WriteString("\n이전에 사용한 키워드들: ")
		b.WriteString(strings.Join(priorKeywords, ", "))
		b.WriteString(" (이 키워드들은 피해줘)\n")
	}
	b.WriteString(`
출력은 반드시 아래 JSON 형식만, 다른 텍스트 없이:
{"keyword": "숨겨진 키워드", "situation": "시적이고 추상적인 묘사"}`)
	return b.String()
}

// evaluationSystemPrompt instructs the model to grade a drawing description
// against the hidden keyword. The anchor is the mean of prior scores in the
// same game and keeps grading stable across rounds; it is omitted for the
// first evaluation.
func evaluationSystemPrompt(persona, keyword, situation string, anchor float64, hasAnchor bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, `너는 %s, 미대 입시를 담당하는 깐깐하고 까칠한 평가관이야.
예술에 대한 기준이 높고, 직설적으로 말하는 스타일이야.

숨겨진 정답 키워드: %s
원본 시적 묘사: %s

평가 기준:
- 숨겨진 키워드를 제대로 파악했는가? (keyword_match, 0-40점)
- 시적 묘사의 본질을 이해했는가? (situation_match, 0-40점)
- 예술적 표현력과 창의성은? (creativity, 0-20점)
`, persona, keyword, situation)
	if hasAnchor {
		fmt.Fprintf(&b, "\n이전 평가들의 평균 점수: %.1f점 (일관성 있는 평가 기준 유지)\n", anchor)
	}
	b.WriteString(`
0-100점 사이로 평가하되, 웬만해서는 80점 이상 주지 마.
score는 반드시 세 항목 점수의 합이어야 해.

출력은 반드시 아래 JSON 형식만, 다른 텍스트 없이:
{"score": 총점, "keyword_match": 점수, "situation_match": 점수, "creativity": 점수, "feedback": "깐깐하고 직설적인 피드백 (한국어)"}`)
	return b.String()
}

// evaluationUserPrompt wraps the submitted drawing description.
func evaluationUserPrompt(description string) string {
	return fmt.Sprintf("사용자의 그림 설명: %q\n\n위 그림을 평가해줘.", description)
}

// commentarySystemPrompt is shared by all lifecycle messages.
func commentarySystemPrompt(persona string) string {
	return fmt.Sprintf(`너는 %s, 그림 맞추기 파티 게임의 진행자야.
짧고 생동감 있게, 캐릭터를 유지하면서 한국어로 말해. 두 문장 이내로.`, persona)
}

func gameStartUserPrompt(players []string) string {
	return fmt.Sprintf("새 게임이 시작됐어. 참가자: %s. 시작 인사를 해줘.", strings.Join(players, ", "))
}

func roundStartUserPrompt(drawingPlayer string, round, totalRounds int) string {
	return fmt.Sprintf("%d/%d 라운드가 시작됐어. 이번 그리는 사람은 %s야. 라운드 시작 멘트를 해줘.",
		round, totalRounds, drawingPlayer)
}

func guessReactionUserPrompt(correct bool, answer, guesser string) string {
	if correct {
		return fmt.Sprintf("%s가 정답 %q를 맞췄어! 반응해줘.", guesser, answer)
	}
	return fmt.Sprintf("정답은 %q였는데 아무도 못 맞췄어. 반응해줘.", answer)
}

func gameEndUserPrompt(hostWon bool) string {
	if hostWon {
		return "게임이 끝났고 진행자인 네가 이겼어. 마무리 멘트를 해줘."
	}
	return "게임이 끝났고 참가자들이 이겼어. 마무리 멘트를 해줘."
}
