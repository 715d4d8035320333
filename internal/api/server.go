package api

import (
	"context"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"studyflow/internal/config"
	"studyflow/internal/extract"
	"studyflow/internal/models"
	"studyflow/internal/providers"
)

// ThreadStore is the slice of the storage layer the handlers need.
type ThreadStore interface {
	List(ctx context.Context) ([]models.Thread, error)
	Create(ctx context.Context, t models.Thread) error
	Get(ctx context.Context, id string) (models.Thread, error)
	Delete(ctx context.Context, id string) error
	AppendMessage(ctx context.Context, threadID string, msg models.Message) error
	FindMessage(ctx context.Context, threadID, messageID string) (models.Message, error)
}

// TextExtractor produces plain text from a saved PDF upload.
type TextExtractor interface {
	ExtractFile(path string, pr extract.PageRange) (extract.Result, error)
}

type Server struct {
	cfg       config.Config
	log       zerolog.Logger
	threads   ThreadStore
	llm       providers.LLMProvider
	extractor TextExtractor
}

func NewServer(cfg config.Config, log zerolog.Logger, threads ThreadStore, llm providers.LLMProvider, extractor TextExtractor) *Server {
	return &Server{cfg: cfg, log: log, threads: threads, llm: llm, extractor: extractor}
}

func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()

	r.Use(handlers.CORS(
		handlers.AllowedOrigins([]string{s.cfg.AllowedOrigin}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	))
	r.Use(s.observe)
	r.Use(s.recoverPanics)

	// Preflight requests would otherwise 404.
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/process-pdf", s.handleProcessPDF).Methods(http.MethodPost)
	r.HandleFunc("/evaluate-answer", s.handleEvaluateAnswer).Methods(http.MethodPost)
	r.HandleFunc("/web-search", s.handleWebSearch).Methods(http.MethodPost)

	r.HandleFunc("/threads", s.handleListThreads).Methods(http.MethodGet)
	r.HandleFunc("/threads", s.handleCreateThread).Methods(http.MethodPost)
	r.HandleFunc("/threads/{id}", s.handleGetThread).Methods(http.MethodGet)
	r.HandleFunc("/threads/{id}", s.handleDeleteThread).Methods(http.MethodDelete)
	r.HandleFunc("/threads/{id}/messages", s.handleAddMessage).Methods(http.MethodPost)
	r.HandleFunc("/threads/{id}/messages/{mid}/report", s.handleReportMessage).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErr(w, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeErr(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
