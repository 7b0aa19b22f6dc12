package ollama

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kirillkom/resume-rag/internal/infrastructure/resilience"
)

// HTTPStatusError is a non-2xx reply from the Ollama API.
type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "ollama status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("ollama %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("ollama %s status: %s: %s", e.Operation, e.Status, strings.TrimSpace(e.Body))
}

var classifyOllamaError = resilience.NewClassifier(func(err error) (resilience.ErrorClassification, bool) {
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		return resilience.ErrorClassification{}, false
	}
	if isRetryableHTTPStatus(statusErr.StatusCode) {
		return resilience.Transient, true
	}
	// 4xx means a bad request or a missing model; the breaker should not trip on it.
	return resilience.Ignored, true
})

func isRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
