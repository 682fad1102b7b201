package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/consultflow/consultflow/internal/flow"
	"github.com/consultflow/consultflow/internal/models"
)

// maxRequestBody bounds the chat request payload.
const maxRequestBody = 1 << 20 // 1 MiB

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("method not allowed"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("ok", nil))
}

// chatHandler runs one consultation turn. With stream=true the reply is
// newline-delimited JSON fragments; otherwise a single ChatResponse.
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("method not allowed"))
		return
	}

	var req models.ChatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		slog.Debug("Server.chatHandler: malformed request body", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		slog.Debug("Server.chatHandler: invalid request", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	if s.orchestrator == nil {
		slog.Error("Server.chatHandler: orchestrator not configured, rejecting request")
		writeJSONResponse(w, http.StatusInternalServerError, models.Error(models.ConfigErrorMessage(req.Language)))
		return
	}

	if req.Stream {
		s.streamChat(w, r, &req)
		return
	}

	resp, err := s.orchestrator.Complete(r.Context(), &req)
	if err != nil {
		writeJSONResponse(w, http.StatusInternalServerError, models.Error(flow.LocalizedErrorMessage(err, req.Language)))
		return
	}
	writeJSONResponse(w, http.StatusOK, resp)
}

// streamChat serves the NDJSON streaming variant. Errors after the first
// fragment are in-band {e} fragments; the HTTP status is already committed.
func (s *Server) streamChat(w http.ResponseWriter, r *http.Request, req *models.ChatRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		slog.Error("Server.streamChat: response writer does not support flushing")
		writeJSONResponse(w, http.StatusInternalServerError, models.Error(models.GenericFailureMessage(req.Language)))
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	emitter := &ndjsonEmitter{w: w, flusher: flusher}
	if err := s.orchestrator.CompleteStream(r.Context(), req, emitter); err != nil {
		// The orchestrator already emitted the in-band error fragment.
		slog.Error("Server.streamChat: stream turn failed", "error", err)
	}
}

// ndjsonEmitter writes stream fragments as newline-delimited JSON, flushing
// after each so fragments reach the client immediately.
type ndjsonEmitter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (e *ndjsonEmitter) emit(fragment interface{}) error {
	data, err := json.Marshal(fragment)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(append(data, '\n')); err != nil {
		return err
	}
	e.flusher.Flush()
	return nil
}

func (e *ndjsonEmitter) Chunk(text string) error {
	return e.emit(models.StreamChunk{C: text})
}

func (e *ndjsonEmitter) Error(message string) error {
	return e.emit(models.StreamError{E: message})
}

func (e *ndjsonEmitter) Done(done models.StreamDone) error {
	return e.emit(done)
}

// consultationsHandler lists archived consultations for the clinic team.
func (s *Server) consultationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONResponse(w, http.StatusMethodNotAllowed, models.Error("method not allowed"))
		return
	}
	if s.archive == nil {
		writeJSONResponse(w, http.StatusNotFound, models.Error("consultation archive not configured"))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	records, err := s.archive.ListConsultations(r.Context(), limit)
	if err != nil {
		slog.Error("Server.consultationsHandler: listing failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("failed to list consultations"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(records))
}
