package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/experience-validator/internal/db"
	"github.com/jonathan/experience-validator/internal/ingestion"
	"github.com/jonathan/experience-validator/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	validationErr := (&types.CreateCourseRequest{}).Validate()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "not found", err: &ErrNotFound{Entity: "Course"}, want: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("lookup: %w", &ErrNotFound{Entity: "Document"}), want: http.StatusNotFound},
		{name: "validation", err: &ErrValidation{Field: "id", Message: "Invalid"}, want: http.StatusBadRequest},
		{name: "validator errors", err: validationErr, want: http.StatusBadRequest},
		{name: "no extractions", err: ErrNoExtractions, want: http.StatusBadRequest},
		{name: "conflict", err: &ErrConflict{Message: "taken"}, want: http.StatusConflict},
		{name: "duplicate", err: fmt.Errorf("create: %w", db.ErrDuplicate), want: http.StatusConflict},
		{name: "empty text", err: ErrEmptyText, want: http.StatusUnprocessableEntity},
		{name: "no experience", err: ErrNoExperience, want: http.StatusUnprocessableEntity},
		{name: "too large", err: &ingestion.LoadError{Message: "big", Cause: ingestion.ErrTooLarge}, want: http.StatusRequestEntityTooLarge},
		{name: "unsupported type", err: fmt.Errorf("%w: .doc", ingestion.ErrUnsupportedType), want: http.StatusBadRequest},
		{name: "other", err: errors.New("connection reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessage_HidesInternalErrors(t *testing.T) {
	assert.Equal(t, "Internal server error", errorMessage(errors.New("password=hunter2")))
	assert.Equal(t, "Course not found", errorMessage(&ErrNotFound{Entity: "Course"}))
}

func TestErrValidation_Error(t *testing.T) {
	assert.Equal(t, "validation error: id - Invalid course ID", (&ErrValidation{Field: "id", Message: "Invalid course ID"}).Error())
	assert.Equal(t, "validation error: Invalid request body", (&ErrValidation{Message: "Invalid request body"}).Error())
}
