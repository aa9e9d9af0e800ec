package service

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Strict parsing of model output. The gateway makes no structural
// guarantees, so every response is decoded against a declared schema with
// unknown fields rejected and numeric constraints checked. Any deviation
// is ErrMalformedResponse.

// taskPayload is the declared schema for a generation response.
type taskPayload struct {
	Keyword   string `json:"keyword"`
	Situation string `json:"situation"`
}

// evaluationPayload is the declared schema for a grading response. The
// three sub-scores are optional but all-or-none.
type evaluationPayload struct {
	Score          *int   `json:"score"`
	KeywordMatch   *int   `json:"keyword_match"`
	SituationMatch *int   `json:"situation_match"`
	Creativity     *int   `json:"creativity"`
	Feedback       string `json:"feedback"`
}

// stripCodeFence removes a surrounding markdown code fence, which chat
// models frequently wrap JSON in despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		// Drop the language tag line, e.g. ```json
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// decodeStrict decodes content into v, rejecting unknown fields and
// trailing data.
func decodeStrict(content string, v any) error {
	dec := json.NewDecoder(strings.NewReader(stripCodeFence(content)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON object", ErrMalformedResponse)
	}
	return nil
}

// parseTask parses a generation response into its two required fields.
func parseTask(content string) (taskPayload, error) {
	var p taskPayload
	if err := decodeStrict(content, &p); err != nil {
		return taskPayload{}, err
	}
	if strings.TrimSpace(p.Keyword) == "" {
		return taskPayload{}, fmt.Errorf("%w: missing keyword", ErrMalformedResponse)
	}
	if strings.TrimSpace(p.Situation) == "" {
		return taskPayload{}, fmt.Errorf("%w: missing situation", ErrMalformedResponse)
	}
	return p, nil
}

// parseEvaluation parses a grading response and checks its numeric
// constraints: score in [0,100], sub-scores (when present) individually in
// range and summing to score.
func parseEvaluation(content string) (evaluationPayload, error) {
	var p evaluationPayload
	if err := decodeStrict(content, &p); err != nil {
		return evaluationPayload{}, err
	}
	if p.Score == nil {
		return evaluationPayload{}, fmt.Errorf("%w: missing score", ErrMalformedResponse)
	}
	if *p.Score < 0 || *p.Score > 100 {
		return evaluationPayload{}, fmt.Errorf("%w: score %d out of range", ErrMalformedResponse, *p.Score)
	}
	if strings.TrimSpace(p.Feedback) == "" {
		return evaluationPayload{}, fmt.Errorf("%w: missing feedback", ErrMalformedResponse)
	}

	present := 0
	for _, s := range []*int{p.KeywordMatch, p.SituationMatch, p.Creativity} {
		if s != nil {
			present++
		}
	}
	switch present {
	case 0:
		return p, nil
	case 3:
		if *p.KeywordMatch < 0 || *p.KeywordMatch > 40 {
			return evaluationPayload{}, fmt.Errorf("%w: keyword_match %d out of range", ErrMalformedResponse, *p.KeywordMatch)
		}
		if *p.SituationMatch < 0 || *p.SituationMatch > 40 {
			return evaluationPayload{}, fmt.Errorf("%w: situation_match %d out of range", ErrMalformedResponse, *p.SituationMatch)
		}
		if *p.Creativity < 0 || *p.Creativity > 20 {
			return evaluationPayload{}, fmt.Errorf("%w: creativity %d out of range", ErrMalformedResponse, *p.Creativity)
		}
		if sum := *p.KeywordMatch + *p.SituationMatch + *p.Creativity; sum != *p.Score {
			return evaluationPayload{}, fmt.Errorf("%w: sub-scores sum %d != score %d", ErrMalformedResponse, sum, *p.Score)
		}
		return p, nil
	default:
		return evaluationPayload{}, fmt.Errorf("%w: incomplete sub-scores", ErrMalformedResponse)
	}
}
