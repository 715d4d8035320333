package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"studyflow/internal/metrics"
	"studyflow/internal/providers"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		metrics.InFlight.Inc()
		defer metrics.InFlight.Dec()

		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)

		// Label by route template to keep metric cardinality bounded.
		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		elapsed := time.Since(start)
		metrics.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(sr.status)).Inc()
		metrics.ReqDuration.WithLabelValues(route, r.Method).Observe(elapsed.Seconds())
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sr.status).
			Dur("duration", elapsed).
			Msg("request")
	})
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
				writeErr(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) observeLLMFailure(info providers.ProviderInfo, op string, err error) {
	class := providers.ClassifyError(err)
	metrics.LLMFailures.WithLabelValues(info.Name, string(class)).Inc()
	s.log.Error().Err(err).
		Str("provider", info.Name).
		Str("model", info.Model).
		Str("operation", op).
		Msg("llm generate failed")
}
