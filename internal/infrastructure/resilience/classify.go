package resilience

import (
	"context"
	"errors"
	"net"

	"github.com/kirillkom/resume-rag/internal/core/domain"
)

type ErrorClassification struct {
	Retryable     bool
	RecordFailure bool
}

type ErrorClassifier func(err error) ErrorClassification

var (
	// Transient failures are retried and count against the breaker.
	Transient = ErrorClassification{Retryable: true, RecordFailure: true}
	// Permanent failures count against the breaker but are not retried.
	Permanent = ErrorClassification{Retryable: false, RecordFailure: true}
	// Ignored covers cancellation and caller mistakes.
	Ignored = ErrorClassification{}
)

// Rules recognizes transport-specific errors. ok=false defers to the
// shared defaults.
type Rules func(err error) (class ErrorClassification, ok bool)

// NewClassifier wraps transport rules with the shared cases. Cancellation is
// ignored; attempt timeouts, an open circuit and net.Error are transient;
// anything else is permanent.
func NewClassifier(rules Rules) ErrorClassifier {
	return func(err error) ErrorClassification {
		switch {
		case err == nil:
			return Ignored
		case errors.Is(err, ErrAttemptTimeout):
			return Transient
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return Ignored
		case IsCircuitOpen(err):
			return Transient
		}
		if rules != nil {
			if class, ok := rules(err); ok {
				return class
			}
		}
		var netErr net.Error
		if errors.As(err, &netErr) {
			return Transient
		}
		return Permanent
	}
}

// WrapTemporary tags err as domain.ErrTemporary when the classifier would
// retry it, so callers can answer 503 instead of 500.
func WrapTemporary(operation string, err error, classifier ErrorClassifier) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	if classifier(err).Retryable {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}

func defaultClassifier(err error) ErrorClassification {
	return NewClassifier(nil)(err)
}
