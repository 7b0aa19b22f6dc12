package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/resume-rag/internal/config"
	"github.com/kirillkom/resume-rag/internal/core/domain"
)

type qaFake struct {
	answer   *domain.Answer
	err      error
	question string
}

func (f *qaFake) Initialize(context.Context, domain.ResumeSource) error { return nil }

func (f *qaFake) Search(_ context.Context, query string) (*domain.Answer, error) {
	f.question = query
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

type adminFake struct {
	stats       domain.EngineStats
	reloadErr   error
	reloads     int
	invalidated int
}

func (f *adminFake) Reload(context.Context) error {
	f.reloads++
	if f.reloadErr != nil {
		return f.reloadErr
	}
	f.stats.Initialized = true
	return nil
}

func (f *adminFake) InvalidateCache(context.Context) error {
	f.invalidated++
	return nil
}

func (f *adminFake) Stats() domain.EngineStats { return f.stats }

func newTestHandler(cfg config.Config, qa *qaFake, admin *adminFake) http.Handler {
	return NewRouter(cfg, qa, admin).Handler()
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestAskReturnsAnswerJSON(t *testing.T) {
	qa := &qaFake{answer: &domain.Answer{
		Text:       "Key skills by area are backend: Go.",
		Citations:  []string{"Skills_0"},
		Confidence: 0.95,
	}}
	handler := newTestHandler(config.Config{}, qa, &adminFake{})

	res := postJSON(t, handler, "/v1/resume/ask", map[string]string{"question": "What are your skills?"})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	var got struct {
		Answer     string   `json:"answer"`
		Citations  []string `json:"citations"`
		Confidence float32  `json:"confidence"`
	}
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Answer != qa.answer.Text || len(got.Citations) != 1 || got.Confidence != 0.95 {
		t.Fatalf("unexpected response: %+v", got)
	}
	if qa.question != "What are your skills?" {
		t.Fatalf("question not forwarded: %q", qa.question)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestAskRejectsBlankQuestion(t *testing.T) {
	handler := newTestHandler(config.Config{}, &qaFake{}, &adminFake{})

	res := postJSON(t, handler, "/v1/resume/ask", map[string]string{"question": "   "})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestAskRejectsWrongMethod(t *testing.T) {
	handler := newTestHandler(config.Config{}, &qaFake{}, &adminFake{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/resume/ask", nil))
	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}

func TestReadyzReflectsInitialization(t *testing.T) {
	admin := &adminFake{}
	handler := newTestHandler(config.Config{}, &qaFake{}, admin)

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before initialize, got %d", res.Code)
	}

	admin.stats = domain.EngineStats{Initialized: true, Chunks: 9}
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if res.Code != http.StatusOK || !strings.Contains(res.Body.String(), `"chunks":9`) {
		t.Fatalf("expected ready stats, got %d: %s", res.Code, res.Body.String())
	}
}

func TestReloadAndInvalidateCache(t *testing.T) {
	admin := &adminFake{}
	handler := newTestHandler(config.Config{}, &qaFake{}, admin)

	res := postJSON(t, handler, "/v1/resume/reload", map[string]string{})
	if res.Code != http.StatusOK || admin.reloads != 1 {
		t.Fatalf("expected reload 200, got %d after %d reloads", res.Code, admin.reloads)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodDelete, "/v1/resume/cache", nil))
	if res.Code != http.StatusNoContent || admin.invalidated != 1 {
		t.Fatalf("expected 204, got %d", res.Code)
	}
}
