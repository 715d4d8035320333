package providers

import (
	"context"
	"strings"
)

// MockProvider returns deterministic canned output per operation so the
// API can run without a real model key.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

const mockQuestions = `Q1) What is the main subject of the provided text?
A) An unrelated historical event
B) The central topic described in the text (Correct)
C) A fictional narrative
D) A statistical appendix

Q2) Which statement best matches the text?
A) It contradicts its own introduction
B) It lists only raw data
C) It explains the key concepts it introduces (Correct)
D) It contains no usable content

Q3) How should a reader verify a claim from the text?
A) Ignore the claim entirely
B) Re-read the relevant passage (Correct)
C) Assume the claim is false
D) Ask an unrelated source

Q4) What does deterministic mock output mean here?
A) Output changes on every call
B) Output depends on a remote model
C) The same input always yields this text (Correct)
D) Output is randomly sampled

Q5) Why would a deployment switch away from the mock provider?
A) To get semantically grounded questions (Correct)
B) To reduce determinism in tests
C) To disable question generation
D) To avoid JSON responses`

const mockEvaluation = `{"score": 85, "feedback": "Solid answer with minor gaps.", "missed_points": ["one supporting detail from the model answer"], "suggestions": "Add a concrete example."}`

const mockSearchAnswer = "Deterministic mock answer covering the key concepts of the query. Replace with a real provider for semantic quality."

func (m *MockProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	_ = ctx
	text := "Mock response."
	op := strings.ToLower(req.Operation)
	switch {
	case strings.Contains(op, "question"):
		text = mockQuestions
	case strings.Contains(op, "evaluate"):
		text = mockEvaluation
	case strings.Contains(op, "search"):
		text = mockSearchAnswer
	}
	return GenerateResponse{Text: text}, ProviderInfo{Name: "mock", Model: "mock-llm-v1", Key: "mock"}, nil
}
