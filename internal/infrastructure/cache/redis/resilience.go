package redis

import (
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kirillkom/resume-rag/internal/infrastructure/resilience"
)

var classifyRedisError = resilience.NewClassifier(func(err error) (resilience.ErrorClassification, bool) {
	if errors.Is(err, goredis.ErrClosed) || errors.Is(err, goredis.ErrPoolTimeout) {
		return resilience.Transient, true
	}
	return resilience.ErrorClassification{}, false
})
