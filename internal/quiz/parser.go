package quiz

import (
	"encoding/json"
	"errors"
	"strings"

	"studyflow/internal/models"
)

var errNoJSONObject = errors.New("no JSON object in response")

// ParseEvaluation decodes the model's grading response. Responses without
// usable JSON come back as a zero-score fallback carrying the raw text,
// never as an error.
func ParseEvaluation(raw string) models.Evaluation {
	trimmed := stripCodeFence(strings.TrimSpace(raw))

	var ev models.Evaluation
	if err := json.Unmarshal([]byte(trimmed), &ev); err == nil {
		return ev
	}

	// Models often wrap the object in prose; retry on the outermost braces.
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return fallbackEvaluation(errNoJSONObject, raw)
	}
	var inner models.Evaluation
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &inner); err != nil {
		return fallbackEvaluation(err, raw)
	}
	return inner
}

func fallbackEvaluation(err error, raw string) models.Evaluation {
	return models.Evaluation{
		Feedback:         "Could not parse evaluation",
		Error:            err.Error(),
		OriginalResponse: raw,
	}
}

func stripCodeFence(s string) string {
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
