// File: internal/server/handlers.go
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xkilldash9x/formfill-cli/api/schemas"
	"github.com/xkilldash9x/formfill-cli/internal/orchestrator"
)

const serviceName = "formfill-cli"

// FillRunner abstracts the orchestrator for handler tests.
type FillRunner interface {
	Run(ctx context.Context, req schemas.FillFormRequest, sink orchestrator.ProgressSink) (*schemas.FillSummary, error)
}

// Handlers manages the HTTP request handling for the API.
type Handlers struct {
	log          *zap.Logger
	parser       schemas.FormParser
	runner       FillRunner
	version      string
	maxResponses int
}

// NewHandlers creates a Handlers instance.
func NewHandlers(logger *zap.Logger, parser schemas.FormParser, runner FillRunner, version string, maxResponses int) *Handlers {
	return &Handlers{
		log:          logger.Named("handlers"),
		parser:       parser,
		runner:       runner,
		version:      version,
		maxResponses: maxResponses,
	}
}

// RegisterRoutes sets up the routing table.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealth)
		r.Post("/parse-form", h.HandleParseForm)
		r.Post("/fill-form", h.HandleFillForm)
	})
}

// HandleHealth confirms liveness; consumers use it for endpoint discovery.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, schemas.HealthResponse{
		Status:  "ok",
		Service: serviceName,
		Version: h.version,
	})
}

// HandleParseForm parses a target form and returns its questions.
func (h *Handlers) HandleParseForm(w http.ResponseWriter, r *http.Request) {
	var req schemas.ParseFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	form, err := h.parser.Parse(r.Context(), req.FormURL)
	if err != nil {
		h.log.Warn("parse-form failed", zap.String("form_url", req.FormURL), zap.Error(err))
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondWithJSON(w, http.StatusOK, schemas.ParseFormResponse{
		FormID:    form.FormID,
		Title:     form.Title,
		Questions: form.Questions,
	})
}

// HandleFillForm validates the request synchronously, then streams fill
// progress as server-sent events. All post-validation failures travel on
// the stream, not the status code.
func (h *Handlers) HandleFillForm(w http.ResponseWriter, r *http.Request) {
	var req schemas.FillFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(h.maxResponses); err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.respondWithError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sink := newSSESink(r.Context(), w, flusher)

	if _, err := h.runner.Run(r.Context(), req, sink); err != nil {
		// Terminal events were already emitted on the stream; a closed
		// stream is the caller hanging up, which needs no response.
		if errors.Is(err, orchestrator.ErrNoQuestions) {
			h.log.Warn("fill-form found no questions", zap.String("form_url", req.FormURL))
		} else {
			h.log.Warn("fill-form run ended with error", zap.String("form_url", req.FormURL), zap.Error(err))
		}
	}
}

func (h *Handlers) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]string{"error": message})
}

func (h *Handlers) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error("failed to encode response", zap.Error(err))
	}
}
