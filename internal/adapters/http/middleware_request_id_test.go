package httpadapter

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/resume-rag/internal/config"
)

func TestRequestIDEchoesWellFormedClientID(t *testing.T) {
	handler := newTestHandler(config.Config{}, &qaFake{}, &adminFake{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "trace-42.a_b")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if got := res.Header().Get(requestIDHeader); got != "trace-42.a_b" {
		t.Fatalf("expected client request id to be echoed, got %q", got)
	}
}

func TestRequestIDReplacesMalformedClientID(t *testing.T) {
	handler := newTestHandler(config.Config{}, &qaFake{}, &adminFake{})
	for _, bad := range []string{"line\nbreak", "has space", strings.Repeat("x", maxRequestIDLen+1)} {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(requestIDHeader, bad)
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)

		got := res.Header().Get(requestIDHeader)
		if got == bad || len(got) != 36 {
			t.Fatalf("expected a generated uuid for %q, got %q", bad, got)
		}
	}
}
