// Package dberr maps storage failures into apperr codes.
package dberr

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
)

// Map classifies err for op. Errors that already carry a code pass through.
func Map(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.New(apperr.CodeNotFound, op, "record not found", err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Wrap(apperr.CodeConflict, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.CodeUpstream, op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505":
			return apperr.Wrap(apperr.CodeConflict, op, err) // unique_violation
		case "23503":
			return apperr.Wrap(apperr.CodeNotFound, op, err) // foreign_key_violation
		case "23514", "22P02":
			return apperr.Wrap(apperr.CodeValidation, op, err) // check_violation, invalid_text_representation
		case "40001", "40P01", "55P03":
			return apperr.Wrap(apperr.CodeUpstream, op, err) // serialization/deadlock/lock_not_available
		}
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint failed"),
		strings.Contains(msg, "already exists"):
		return apperr.Wrap(apperr.CodeConflict, op, err)
	default:
		return apperr.Wrap(apperr.CodeUpstream, op, err)
	}
}

// NotFound reports whether err is a missing record, classified or not.
func NotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || apperr.IsCode(err, apperr.CodeNotFound)
}
