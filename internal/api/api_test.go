package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/consultflow/consultflow/internal/flow"
	"github.com/consultflow/consultflow/internal/models"
	"github.com/consultflow/consultflow/internal/store"
)

type mockCompleter struct {
	resp   *models.ChatResponse
	err    error
	chunks []string
	done   models.StreamDone
}

func (m *mockCompleter) Complete(_ context.Context, _ *models.ChatRequest) (*models.ChatResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func (m *mockCompleter) CompleteStream(_ context.Context, req *models.ChatRequest, emit flow.StreamEmitter) error {
	if m.err != nil {
		if emitErr := emit.Error(flow.LocalizedErrorMessage(m.err, req.Language)); emitErr != nil {
			return emitErr
		}
		return m.err
	}
	for _, c := range m.chunks {
		if err := emit.Chunk(c); err != nil {
			return err
		}
	}
	return emit.Done(m.done)
}

func chatBody(t *testing.T, req models.ChatRequest) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	return bytes.NewReader(data)
}

func validRequest() models.ChatRequest {
	return models.ChatRequest{
		Messages: []models.ConversationTurn{{Role: models.RoleUser, Content: "hello"}},
		Language: models.LangEnglish,
	}
}

func TestHealthHandler(t *testing.T) {
	s := NewServer(&mockCompleter{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != string(models.APIStatusOK) {
		t.Errorf("Status = %q", resp.Status)
	}
}

func TestChatHandler_MalformedBody(t *testing.T) {
	s := NewServer(&mockCompleter{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader("{not json")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestChatHandler_ValidationError(t *testing.T) {
	s := NewServer(&mockCompleter{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat",
		chatBody(t, models.ChatRequest{Messages: nil})))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != models.ErrNoMessages.Error() {
		t.Errorf("Message = %q", resp.Message)
	}
}

func TestChatHandler_MethodNotAllowed(t *testing.T) {
	s := NewServer(&mockCompleter{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestChatHandler_NonStreaming(t *testing.T) {
	s := NewServer(&mockCompleter{resp: &models.ChatResponse{
		Message:            "Welcome",
		ShowResultsGallery: true,
	}})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", chatBody(t, validRequest())))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp models.ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Welcome" || !resp.ShowResultsGallery {
		t.Errorf("resp = %+v", resp)
	}
}

func TestChatHandler_CompletionError(t *testing.T) {
	s := NewServer(&mockCompleter{err: errors.New("upstream exploded")})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", chatBody(t, validRequest())))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != models.GenericFailureMessage(models.LangEnglish) {
		t.Errorf("Message = %q, want localized generic failure", resp.Message)
	}
	if strings.Contains(resp.Message, "exploded") {
		t.Error("internal error detail must not leak to the caller")
	}
}

func TestChatHandler_ConfigErrorMode(t *testing.T) {
	s := NewServer(nil)
	rec := httptest.NewRecorder()
	req := validRequest()
	req.Language = models.LangTurkish
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", chatBody(t, req)))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != models.ConfigErrorMessage(models.LangTurkish) {
		t.Errorf("Message = %q, want localized config error", resp.Message)
	}
}

func TestChatHandler_Streaming(t *testing.T) {
	s := NewServer(&mockCompleter{
		chunks: []string{"Hello", " world"},
		done:   models.StreamDone{D: true, R: true},
	})
	rec := httptest.NewRecorder()
	req := validRequest()
	req.Stream = true
	req.FormDataPresent = true
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", chatBody(t, req)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/x-ndjson" {
		t.Errorf("Content-Type = %q", ct)
	}

	var text strings.Builder
	var done *models.StreamDone
	scanner := bufio.NewScanner(rec.Body)
	for scanner.Scan() {
		line := scanner.Bytes()
		var chunk models.StreamChunk
		if err := json.Unmarshal(line, &chunk); err == nil && chunk.C != "" {
			text.WriteString(chunk.C)
			continue
		}
		var d models.StreamDone
		if err := json.Unmarshal(line, &d); err == nil && d.D {
			done = &d
		}
	}
	if text.String() != "Hello world" {
		t.Errorf("reconstructed text = %q", text.String())
	}
	if done == nil || !done.R {
		t.Errorf("terminal fragment = %+v, want d=true r=true", done)
	}
}

func TestChatHandler_StreamingError(t *testing.T) {
	s := NewServer(&mockCompleter{err: context.DeadlineExceeded})
	rec := httptest.NewRecorder()
	req := validRequest()
	req.Stream = true
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", chatBody(t, req)))

	// Status is committed before the failure; the error travels in-band.
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	var errFrag models.StreamError
	if err := json.Unmarshal(bytes.TrimSpace(rec.Body.Bytes()), &errFrag); err != nil {
		t.Fatalf("failed to decode error fragment: %v", err)
	}
	if errFrag.E != models.TimeoutRetryMessage(models.LangEnglish) {
		t.Errorf("error fragment = %q, want localized retry message", errFrag.E)
	}
}

func TestConsultationsHandler(t *testing.T) {
	archive := store.NewInMemoryStore()
	rec1 := models.ConsultationRecord{ID: "c_1", Language: models.LangEnglish, FormJSON: "{}", ReceivedAt: time.Now().UTC()}
	if err := archive.SaveConsultation(context.Background(), rec1); err != nil {
		t.Fatalf("failed to seed archive: %v", err)
	}

	s := NewServer(&mockCompleter{}, WithArchive(archive))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/consultations?limit=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	records, ok := resp.Result.([]interface{})
	if !ok || len(records) != 1 {
		t.Errorf("Result = %+v, want one record", resp.Result)
	}
}

func TestConsultationsHandler_BadLimit(t *testing.T) {
	s := NewServer(&mockCompleter{}, WithArchive(store.NewInMemoryStore()))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/consultations?limit=nope", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestConsultationsHandler_NoArchive(t *testing.T) {
	s := NewServer(&mockCompleter{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/consultations", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
