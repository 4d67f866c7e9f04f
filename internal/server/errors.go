package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/experience-validator/internal/db"
	"github.com/jonathan/experience-validator/internal/ingestion"
)

var (
	// ErrNoExtractions is returned when a document is validated before extraction
	ErrNoExtractions = errors.New("document has no extracted experience; run extraction first")
	// ErrEmptyText is returned when a document has no recognized text to extract from
	ErrEmptyText = errors.New("document has no recognized text")
	// ErrNoExperience is returned when extraction ran but found nothing
	ErrNoExperience = errors.New("no experience found in document")
)

// ErrNotFound indicates a missing entity
type ErrNotFound struct {
	Entity string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrConflict indicates a uniqueness violation
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var notFound *ErrNotFound
	var invalid *ErrValidation
	var conflict *ErrConflict
	var fields validator.ValidationErrors
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &invalid), errors.As(err, &fields), errors.Is(err, ErrNoExtractions):
		return http.StatusBadRequest
	case errors.As(err, &conflict), errors.Is(err, db.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyText), errors.Is(err, ErrNoExperience):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ingestion.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ingestion.ErrUnsupportedType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage hides internal error text from clients.
func errorMessage(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}
