package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"studyflow/internal/models"
	"studyflow/internal/storage"
	"studyflow/internal/util"
)

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := s.threads.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list threads")
		writeErr(w, http.StatusInternalServerError, "Failed to fetch threads")
		return
	}
	writeJSON(w, http.StatusOK, threads)
}

func (s *Server) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description" validate:"required"`
	}
	if err := util.DecodeValidate(r.Body, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "Missing title or description")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" {
		writeErr(w, http.StatusBadRequest, "Missing title or description")
		return
	}

	thread := models.Thread{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Messages:    make([]models.Message, 0),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.threads.Create(r.Context(), thread); err != nil {
		s.log.Error().Err(err).Msg("create thread")
		writeErr(w, http.StatusInternalServerError, "Failed to create thread")
		return
	}
	writeJSON(w, http.StatusCreated, thread)
}

func (s *Server) handleGetThread(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	thread, err := s.threads.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "Thread not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("thread_id", id).Msg("get thread")
		writeErr(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, thread)
}

func (s *Server) handleDeleteThread(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	err := s.threads.Delete(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "Thread not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("thread_id", id).Msg("delete thread")
		writeErr(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Thread deleted successfully"})
}

func (s *Server) handleAddMessage(w http.ResponseWriter, r *http.Request) {
	threadID := mux.Vars(r)["id"]
	var req struct {
		Text   string `json:"text" validate:"required"`
		Sender string `json:"sender" validate:"required"`
	}
	if err := util.DecodeValidate(r.Body, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "Missing text or sender")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	req.Sender = strings.TrimSpace(req.Sender)
	if req.Text == "" || req.Sender == "" {
		writeErr(w, http.StatusBadRequest, "Missing text or sender")
		return
	}

	msg := models.Message{
		ID:        uuid.NewString(),
		Text:      req.Text,
		Sender:    req.Sender,
		Timestamp: time.Now().UTC(),
	}
	err := s.threads.AppendMessage(r.Context(), threadID, msg)
	if errors.Is(err, storage.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "Thread not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("thread_id", threadID).Msg("append message")
		writeErr(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleReportMessage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	threadID, messageID := vars["id"], vars["mid"]
	_, err := s.threads.FindMessage(r.Context(), threadID, messageID)
	if errors.Is(err, storage.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "Thread not found")
		return
	}
	if errors.Is(err, storage.ErrMessageNotFound) {
		writeErr(w, http.StatusNotFound, "Message not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("thread_id", threadID).Str("message_id", messageID).Msg("report message")
		writeErr(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	// Reports only land in the log; nothing is persisted.
	s.log.Info().Str("thread_id", threadID).Str("message_id", messageID).Msg("message reported")
	writeJSON(w, http.StatusOK, map[string]string{"status": "Message reported"})
}
