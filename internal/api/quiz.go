package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"studyflow/internal/extract"
	"studyflow/internal/models"
	"studyflow/internal/providers"
	"studyflow/internal/quiz"
	"studyflow/internal/util"
)

func (s *Server) handleProcessPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.cfg.MaxUploadMB)<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeErr(w, http.StatusRequestEntityTooLarge, "Upload too large")
			return
		}
		writeErr(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("pdf")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeErr(w, http.StatusBadRequest, "No selected file")
		return
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeErr(w, http.StatusBadRequest, "Only PDF files are allowed")
		return
	}

	pr, err := extract.ParsePageRange(formValueDefault(r, "page_range", "all"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "Invalid page range format. Use '1-5'")
		return
	}
	numQuestions, err := strconv.Atoi(formValueDefault(r, "num_questions", "5"))
	if err != nil || numQuestions < 1 {
		writeErr(w, http.StatusBadRequest, "Invalid question parameters")
		return
	}
	questionType := quiz.QuestionType(formValueDefault(r, "question_type", string(quiz.MCQ)))
	if !quiz.ValidQuestionType(questionType) {
		writeErr(w, http.StatusBadRequest, "Invalid question parameters")
		return
	}

	scratch, err := util.NewScratchFile("", "upload-*.pdf", file)
	if err != nil {
		s.log.Error().Err(err).Msg("save upload")
		writeErr(w, http.StatusInternalServerError, "Failed to process PDF")
		return
	}
	defer func() {
		if err := scratch.Remove(); err != nil {
			s.log.Warn().Err(err).Str("path", scratch.Path()).Msg("remove scratch file")
		}
	}()
	if scratch.Size() == 0 {
		writeErr(w, http.StatusBadRequest, "Failed to save PDF file")
		return
	}

	res, err := s.extractor.ExtractFile(scratch.Path(), pr)
	if err != nil {
		s.log.Error().Err(err).Str("filename", header.Filename).Msg("extract pdf")
		writeErr(w, http.StatusInternalServerError, "Failed to process PDF")
		return
	}

	prompt := quiz.BuildQuestionPrompt(numQuestions, questionType, res.Text, s.cfg.PromptTextLimit)
	resp, info, err := s.llm.Generate(r.Context(), providers.GenerateRequest{Operation: "generate_questions", Prompt: prompt})
	if err != nil {
		s.observeLLMFailure(info, "generate_questions", err)
		writeErr(w, http.StatusInternalServerError, "Failed to process PDF")
		return
	}

	writeJSON(w, http.StatusOK, models.QuizResult{
		Questions: resp.Text,
		Text:      util.TruncateRunes(res.Text, 1000),
		Metadata: models.QuizMetadata{
			PagesProcessed: res.Pages,
			WordCount:      len(strings.Fields(res.Text)),
			Filename:       util.SanitizeFilename(header.Filename),
		},
	})
}

func (s *Server) handleEvaluateAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentAnswer string `json:"student_answer" validate:"required"`
		ModelAnswer   string `json:"model_answer" validate:"required"`
	}
	if err := util.DecodeValidate(r.Body, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	prompt := quiz.BuildEvaluationPrompt(req.StudentAnswer, req.ModelAnswer)
	resp, info, err := s.llm.Generate(r.Context(), providers.GenerateRequest{Operation: "evaluate_answer", Prompt: prompt})
	if err != nil {
		s.observeLLMFailure(info, "evaluate_answer", err)
		writeErr(w, http.StatusInternalServerError, "Evaluation failed")
		return
	}

	ev := quiz.ParseEvaluation(resp.Text)
	ev.Timestamp = time.Now().UTC()
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleWebSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := util.Decode(r.Body, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "Empty query")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeErr(w, http.StatusBadRequest, "Empty query")
		return
	}
	if utf8.RuneCountInString(query) < 3 {
		writeErr(w, http.StatusBadRequest, "Query too short (min 3 chars)")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(s.cfg.SearchTimeoutSecs)*time.Second)
	defer cancel()

	resp, info, err := s.llm.Generate(ctx, providers.GenerateRequest{Operation: "web_search", Prompt: quiz.BuildSearchPrompt(query)})
	if err != nil {
		s.observeLLMFailure(info, "web_search", err)
		writeErr(w, http.StatusInternalServerError, "Search failed")
		return
	}
	if strings.TrimSpace(resp.Text) == "" {
		writeErr(w, http.StatusInternalServerError, "Empty response from AI")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"answer": resp.Text,
		"query":  query,
		"status": "success",
	})
}

func formValueDefault(r *http.Request, key, def string) string {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return def
	}
	return v
}
