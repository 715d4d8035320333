// Package quiz builds the prompts sent to the language model and decodes
// what comes back.
package quiz

import (
	"fmt"

	"studyflow/internal/util"
)

// QuestionType names the style of quiz the model is asked to produce.
type QuestionType string

const (
	MCQ        QuestionType = "MCQ"
	Subjective QuestionType = "Subjective"
)

func ValidQuestionType(t QuestionType) bool {
	return t == MCQ || t == Subjective
}

const defaultTextLimit = 20000

const mcqRequirements = `Requirements:
- Include exactly 4 options per question
- Mark exactly ONE correct answer with (Correct) for each question
- Format each question with Q1, Q2, etc.
- Use EXACTLY this format for MCQs:
  Q1) Question text?
  A) Option 1
  B) Option 2 (Correct)
  C) Option 3
  D) Option 4
- VERY IMPORTANT: Only mark ONE option as (Correct) per question`

const subjectiveRequirements = `Requirements:
- Provide detailed model answers
- Format each question with Q1, Q2, etc.

For subjective questions use:
Q1) Question text?
Model Answer: Detailed explanation...`

// BuildQuestionPrompt assembles the generation prompt. Source text is cut
// at limit runes.
func BuildQuestionPrompt(n int, qt QuestionType, text string, limit int) string {
	if limit <= 0 {
		limit = defaultTextLimit
	}
	req := mcqRequirements
	if qt == Subjective {
		req = subjectiveRequirements
	}
	return fmt.Sprintf("Generate %d %s questions from this text:\n%s\n\n%s", n, qt, util.TruncateRunes(text, limit), req)
}

const evaluationPromptTemplate = `Evaluate this student answer: %s
Against this model answer: %s

Provide:
1. Score (0-100)
2. Detailed feedback
3. Key missed points
4. Suggestions for improvement

Return as valid JSON with these keys: score, feedback, missed_points, suggestions`

func BuildEvaluationPrompt(studentAnswer, modelAnswer string) string {
	return fmt.Sprintf(evaluationPromptTemplate, studentAnswer, modelAnswer)
}

const searchPromptTemplate = `Provide a comprehensive, academic answer to: %s
Include key concepts, examples, and sources if available.`

func BuildSearchPrompt(query string) string {
	return fmt.Sprintf(searchPromptTemplate, query)
}
