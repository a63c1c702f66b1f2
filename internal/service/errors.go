package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error taxonomy surfaced to the HTTP layer. Services wrap these with
// fmt.Errorf("%w: reason", ...) so handlers can map them with errors.Is.
var (
	ErrValidation   = errors.New("validation")    // 400
	ErrInvalidState = errors.New("invalid state") // 400
	ErrUnauthorized = errors.New("unauthorized")  // 401
	ErrForbidden    = errors.New("forbidden")     // 403
	ErrNotFound     = errors.New("not found")     // 404
	ErrConflict     = errors.New("conflict")      // 409
)

// notFound translates gorm's record-not-found into the taxonomy, leaving other
// persistence failures to propagate as internal errors.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}
