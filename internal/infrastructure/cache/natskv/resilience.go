package natskv

import (
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/resume-rag/internal/infrastructure/resilience"
)

var classifyNATSError = resilience.NewClassifier(func(err error) (resilience.ErrorClassification, bool) {
	switch {
	case errors.Is(err, nats.ErrNoServers),
		errors.Is(err, nats.ErrTimeout),
		errors.Is(err, nats.ErrConnectionClosed),
		errors.Is(err, nats.ErrDisconnected),
		errors.Is(err, nats.ErrNoResponders):
		return resilience.Transient, true
	}
	return resilience.ErrorClassification{}, false
})
