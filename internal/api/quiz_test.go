package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"studyflow/internal/extract"
	"studyflow/internal/models"
	"studyflow/internal/providers"
)

type pdfUpload struct {
	filename string
	content  []byte
	fields   map[string]string
}

func doUpload(t *testing.T, s *Server, up pdfUpload) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if up.filename != "" {
		fw, err := mw.CreateFormFile("pdf", up.filename)
		require.NoError(t, err)
		_, err = fw.Write(up.content)
		require.NoError(t, err)
	}
	for k, v := range up.fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/process-pdf", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, req)
	return rr
}

func TestProcessPDF(t *testing.T) {
	var gotReq providers.GenerateRequest
	llm := &fakeLLM{generate: func(_ context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
		gotReq = req
		return providers.GenerateResponse{Text: "Q1) Sample question?"}, providers.ProviderInfo{Name: "fake"}, nil
	}}
	ex := &stubExtractor{res: extract.Result{Text: "alpha beta gamma", Pages: 3}}
	s := newTestServer(t, nil, llm, ex)

	rr := doUpload(t, s, pdfUpload{
		filename: "My Notes.pdf",
		content:  []byte("%PDF-1.4 fake content"),
		fields:   map[string]string{"page_range": "1-3", "num_questions": "4", "question_type": "MCQ"},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Questions string              `json:"questions"`
		Text      string              `json:"text"`
		Metadata  models.QuizMetadata `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	require.Equal(t, "Q1) Sample question?", body.Questions)
	require.Equal(t, "alpha beta gamma", body.Text)
	require.Equal(t, 3, body.Metadata.PagesProcessed)
	require.Equal(t, 3, body.Metadata.WordCount)
	require.Equal(t, "My_Notes.pdf", body.Metadata.Filename)

	require.Equal(t, "generate_questions", gotReq.Operation)
	require.Contains(t, gotReq.Prompt, "Generate 4 MCQ questions")
	require.Contains(t, gotReq.Prompt, "alpha beta gamma")
	require.Equal(t, extract.PageRange{Start: 1, End: 3}, ex.lastPR)
}

func TestProcessPDFDefaults(t *testing.T) {
	var gotReq providers.GenerateRequest
	llm := &fakeLLM{generate: func(_ context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
		gotReq = req
		return providers.GenerateResponse{Text: "ok"}, providers.ProviderInfo{Name: "fake"}, nil
	}}
	ex := &stubExtractor{res: extract.Result{Text: "text", Pages: 2}}
	s := newTestServer(t, nil, llm, ex)

	rr := doUpload(t, s, pdfUpload{filename: "doc.pdf", content: []byte("%PDF")})
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, gotReq.Prompt, "Generate 5 MCQ questions")
	require.Equal(t, extract.PageRange{All: true}, ex.lastPR)
}

func TestProcessPDFNoFile(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)
	rr := doUpload(t, s, pdfUpload{fields: map[string]string{"page_range": "all"}})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "No file uploaded", errBody(t, rr))
}

func TestProcessPDFNotMultipart(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)
	rr := doJSON(t, s, http.MethodPost, "/process-pdf", `{"pdf": "nope"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "No file uploaded", errBody(t, rr))
}

func TestProcessPDFWrongExtension(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)
	rr := doUpload(t, s, pdfUpload{filename: "notes.txt", content: []byte("text")})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "Only PDF files are allowed", errBody(t, rr))
}

func TestProcessPDFEmptyFile(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)
	rr := doUpload(t, s, pdfUpload{filename: "empty.pdf"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "Failed to save PDF file", errBody(t, rr))
}

func TestProcessPDFBadPageRange(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)
	for _, pr := range []string{"abc", "5-2", "0-3", "1-2-3"} {
		rr := doUpload(t, s, pdfUpload{
			filename: "doc.pdf",
			content:  []byte("%PDF"),
			fields:   map[string]string{"page_range": pr},
		})
		require.Equal(t, http.StatusBadRequest, rr.Code, "page_range %q", pr)
		require.Equal(t, "Invalid page range format. Use '1-5'", errBody(t, rr), "page_range %q", pr)
	}
}

func TestProcessPDFBadQuestionParams(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)
	cases := []map[string]string{
		{"num_questions": "abc"},
		{"num_questions": "0"},
		{"num_questions": "-3"},
		{"question_type": "Essay"},
	}
	for _, fields := range cases {
		rr := doUpload(t, s, pdfUpload{filename: "doc.pdf", content: []byte("%PDF"), fields: fields})
		require.Equal(t, http.StatusBadRequest, rr.Code, "fields %v", fields)
		require.Equal(t, "Invalid question parameters", errBody(t, rr), "fields %v", fields)
	}
}

func TestProcessPDFExtractFailure(t *testing.T) {
	ex := &stubExtractor{err: errors.New("open pdf: broken xref")}
	s := newTestServer(t, nil, nil, ex)
	rr := doUpload(t, s, pdfUpload{filename: "doc.pdf", content: []byte("%PDF")})
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "Failed to process PDF", errBody(t, rr))
}

func TestProcessPDFGenerateFailure(t *testing.T) {
	llm := &fakeLLM{generate: func(context.Context, providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
		return providers.GenerateResponse{}, providers.ProviderInfo{Name: "fake"}, errors.New("quota exceeded")
	}}
	s := newTestServer(t, nil, llm, nil)
	rr := doUpload(t, s, pdfUpload{filename: "doc.pdf", content: []byte("%PDF")})
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "Failed to process PDF", errBody(t, rr))
}

func TestProcessPDFUploadTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxUploadMB = 1
	s := NewServer(cfg, zerolog.Nop(), newFakeThreadStore(), &fakeLLM{}, &stubExtractor{})

	rr := doUpload(t, s, pdfUpload{filename: "big.pdf", content: bytes.Repeat([]byte("a"), 2<<20)})
	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	require.Equal(t, "Upload too large", errBody(t, rr))
}

func TestEvaluateAnswer(t *testing.T) {
	llm := &fakeLLM{generate: func(_ context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
		require.Equal(t, "evaluate_answer", req.Operation)
		require.Contains(t, req.Prompt, "Evaluate this student answer: photosynthesis stores энергия")
		return providers.GenerateResponse{Text: `{"score": 85, "feedback": "Solid", "missed_points": ["light reactions"], "suggestions": "expand"}`}, providers.ProviderInfo{Name: "fake"}, nil
	}}
	s := newTestServer(t, nil, llm, nil)

	rr := doJSON(t, s, http.MethodPost, "/evaluate-answer", `{"student_answer": "photosynthesis stores энергия", "model_answer": "plants convert light"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var ev models.Evaluation
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ev))
	require.Equal(t, float64(85), ev.Score)
	require.Equal(t, "Solid", ev.Feedback)
	require.Empty(t, ev.Error)
	require.False(t, ev.Timestamp.IsZero())
}

func TestEvaluateAnswerValidation(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)
	for _, body := range []string{`{}`, `{"student_answer": "a"}`, `{"model_answer": "m"}`, `{"student_answer": "", "model_answer": "m"}`, `bad`} {
		rr := doJSON(t, s, http.MethodPost, "/evaluate-answer", body)
		require.Equal(t, http.StatusBadRequest, rr.Code, "body %q", body)
		require.Equal(t, "Missing required fields", errBody(t, rr), "body %q", body)
	}
}

func TestEvaluateAnswerParseFallback(t *testing.T) {
	llm := &fakeLLM{generate: func(context.Context, providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
		return providers.GenerateResponse{Text: "I would grade this a solid B."}, providers.ProviderInfo{Name: "fake"}, nil
	}}
	s := newTestServer(t, nil, llm, nil)

	rr := doJSON(t, s, http.MethodPost, "/evaluate-answer", `{"student_answer": "a", "model_answer": "m"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var ev models.Evaluation
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ev))
	require.Zero(t, ev.Score)
	require.Equal(t, "Could not parse evaluation", ev.Feedback)
	require.NotEmpty(t, ev.Error)
	require.Equal(t, "I would grade this a solid B.", ev.OriginalResponse)
}

func TestEvaluateAnswerGenerateFailure(t *testing.T) {
	llm := &fakeLLM{generate: func(context.Context, providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
		return providers.GenerateResponse{}, providers.ProviderInfo{Name: "fake"}, errors.New("deadline exceeded")
	}}
	s := newTestServer(t, nil, llm, nil)

	rr := doJSON(t, s, http.MethodPost, "/evaluate-answer", `{"student_answer": "a", "model_answer": "m"}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "Evaluation failed", errBody(t, rr))
}

func TestWebSearch(t *testing.T) {
	llm := &fakeLLM{generate: func(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
		_, hasDeadline := ctx.Deadline()
		require.True(t, hasDeadline)
		require.Equal(t, "web_search", req.Operation)
		require.Contains(t, req.Prompt, "what is entropy")
		return providers.GenerateResponse{Text: "An academic answer."}, providers.ProviderInfo{Name: "fake"}, nil
	}}
	s := newTestServer(t, nil, llm, nil)

	rr := doJSON(t, s, http.MethodPost, "/web-search", `{"query": "  what is entropy  "}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"answer": "An academic answer.", "query": "what is entropy", "status": "success"}`, rr.Body.String())
}

func TestWebSearchValidation(t *testing.T) {
	s := newTestServer(t, nil, nil, nil)
	cases := []struct {
		body string
		want string
	}{
		{`{}`, "Empty query"},
		{`{"query": ""}`, "Empty query"},
		{`{"query": "   "}`, "Empty query"},
		{`not json`, "Empty query"},
		{`{"query": "ab"}`, "Query too short (min 3 chars)"},
	}
	for _, c := range cases {
		rr := doJSON(t, s, http.MethodPost, "/web-search", c.body)
		require.Equal(t, http.StatusBadRequest, rr.Code, "body %q", c.body)
		require.Equal(t, c.want, errBody(t, rr), "body %q", c.body)
	}
}

func TestWebSearchEmptyModelText(t *testing.T) {
	llm := &fakeLLM{generate: func(context.Context, providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
		return providers.GenerateResponse{Text: "  "}, providers.ProviderInfo{Name: "fake"}, nil
	}}
	s := newTestServer(t, nil, llm, nil)

	rr := doJSON(t, s, http.MethodPost, "/web-search", `{"query": "entropy"}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "Empty response from AI", errBody(t, rr))
}

func TestWebSearchGenerateFailure(t *testing.T) {
	llm := &fakeLLM{generate: func(context.Context, providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
		return providers.GenerateResponse{}, providers.ProviderInfo{Name: "fake"}, errors.New("unavailable")
	}}
	s := newTestServer(t, nil, llm, nil)

	rr := doJSON(t, s, http.MethodPost, "/web-search", `{"query": "entropy"}`)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "Search failed", errBody(t, rr))
}
