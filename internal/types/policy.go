package types

import (
	"github.com/go-playground/validator/v10"
)

// CoursePolicy is the eligibility rule set a course defines
type CoursePolicy struct {
	MinimumMonths     int      `json:"minimum_months"`
	AcceptedPositions []string `json:"accepted_positions"`
}

// CreateCourseRequest represents the request to register a course in the catalog.
type CreateCourseRequest struct {
	Name              string   `json:"name" validate:"required,min=1,max=255"`
	Code              string   `json:"code" validate:"required,min=1,max=50"`
	Description       *string  `json:"description,omitempty"`
	MinimumMonths     *int     `json:"minimum_months,omitempty" validate:"omitempty,gte=1"`
	AcceptedPositions []string `json:"accepted_positions" validate:"dive,required"`
	IsActive          *bool    `json:"is_active,omitempty"`
}

// UpdateCourseRequest represents a partial course update. Nil fields are left unchanged.
type UpdateCourseRequest struct {
	Name              *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Code              *string  `json:"code,omitempty" validate:"omitempty,min=1,max=50"`
	Description       *string  `json:"description,omitempty"`
	MinimumMonths     *int     `json:"minimum_months,omitempty" validate:"omitempty,gte=1"`
	AcceptedPositions []string `json:"accepted_positions,omitempty" validate:"omitempty,dive,required"`
	IsActive          *bool    `json:"is_active,omitempty"`
}

// DefaultMinimumMonths is applied when a course is created without minimum_months.
const DefaultMinimumMonths = 12

// Validate validates the CreateCourseRequest using the validator.
func (r *CreateCourseRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateCourseRequest using the validator.
func (r *UpdateCourseRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
