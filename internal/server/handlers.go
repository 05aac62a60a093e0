package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/omniweb/omniweb/internal/topics"
	"github.com/omniweb/omniweb/providers/ai"
	"github.com/omniweb/omniweb/providers/observability"
)

// HeaderModel names the model whose output was accepted by /expand.
const HeaderModel = "X-Omniweb-Model"

const maxBodyBytes = 1 << 20

type validator interface {
	Validate() error
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Listing(r.Context()))
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	var req topics.RandomTopicRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	topic := s.topics.RandomTopic(r.Context(), req)
	writeJSON(w, http.StatusOK, topics.RandomTopicResponse{Topic: topic})
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	var req topics.ExpandRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	outcome := s.topics.Expand(r.Context(), req)
	if !outcome.Empty() {
		w.Header().Set(HeaderModel, outcome.Model)
	}
	writeJSON(w, http.StatusOK, outcome.Result())
}

// handleAnalyze streams plain text as it is generated. Failures, including
// a stream that cannot be started, are reported inline as "Error: <msg>"
// because the 200 status may already be on the wire.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req topics.AnalysisRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	controller := http.NewResponseController(w)

	stream, err := s.topics.Analyze(r.Context(), req)
	if err != nil {
		writeStreamError(w, r, err)
		return
	}

	for event, err := range stream.Iter() {
		if err != nil {
			writeStreamError(w, r, err)
			return
		}
		if event.Type != ai.StreamEventContent || event.Content == "" {
			continue
		}
		if _, err := io.WriteString(w, event.Content); err != nil {
			// client went away
			return
		}
		_ = controller.Flush()
	}
}

func (s *Server) handleAnalyzeStructured(w http.ResponseWriter, r *http.Request) {
	var req topics.AnalysisRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	result, err := s.topics.AnalyzeStructured(r.Context(), req)
	if err != nil {
		logError(r, "structured analysis failed", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.health == nil {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
		return
	}
	if err := s.health.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// decodeRequest reads a JSON body into dst and validates it. On failure it
// writes a 400 and returns false.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst validator) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid JSON body: %v", err)})
		return false
	}
	if err := dst.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeStreamError(w http.ResponseWriter, r *http.Request, err error) {
	logError(r, "analysis stream failed", err)
	_, _ = io.WriteString(w, "Error: "+err.Error())
}

func logError(r *http.Request, msg string, err error) {
	ctx := r.Context()
	if observer := observability.ObserverFromContext(ctx); observer != nil {
		observer.Error(ctx, msg, observability.Error(err))
	}
}
