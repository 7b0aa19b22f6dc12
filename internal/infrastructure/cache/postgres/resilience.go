package postgres

import (
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kirillkom/resume-rag/internal/infrastructure/resilience"
)

var classifyPostgresError = resilience.NewClassifier(func(err error) (resilience.ErrorClassification, bool) {
	if errors.Is(err, driver.ErrBadConn) {
		return resilience.Transient, true
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return resilience.ErrorClassification{}, false
	}
	// Class 08 is connection exceptions, 40001/40P01 are serialization and deadlock.
	if strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == "40001" || pgErr.Code == "40P01" {
		return resilience.Transient, true
	}
	return resilience.Ignored, true
})
