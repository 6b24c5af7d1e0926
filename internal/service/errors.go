package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/inventory-api/internal/repository"
	"github.com/inventory-api/internal/validation"
)

// Errors returned by the services. Callers match them with errors.Is.
var (
	ErrNotFound          = errors.New("article not found")
	ErrConflict          = errors.New("an article with this name already exists")
	ErrInsufficientStock = errors.New("cannot subtract more than the current amount")
)

// ValidationError reports every rule a request broke
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details(), "; ")
}

// Details returns one message per violation
func (e *ValidationError) Details() []string {
	return validation.Messages(e.Fields)
}

// newValidationError returns nil when there is nothing to report
func newValidationError(fields []validation.FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// translateRepoError maps store errors onto the service taxonomy
func translateRepoError(err error, id int64) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w with id %d", ErrNotFound, id)
	case errors.Is(err, repository.ErrDuplicateName):
		return ErrConflict
	case errors.Is(err, repository.ErrInsufficientStock):
		return ErrInsufficientStock
	default:
		return err
	}
}
