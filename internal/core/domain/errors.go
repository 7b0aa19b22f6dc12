package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentParse     = errors.New("document parse error")
	ErrEmbeddingProvider = errors.New("embedding provider error")
	ErrCacheCorrupt      = errors.New("cache entry corrupt")
	ErrNotInitialized    = errors.New("engine not initialized")
	ErrInvalidInput      = errors.New("invalid input")
	ErrTemporary         = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
