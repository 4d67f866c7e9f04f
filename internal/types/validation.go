package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Status is the terminal outcome of an eligibility evaluation.
type Status string

const (
	// StatusApproved means the experience satisfies the course policy.
	StatusApproved Status = "approved"
	// StatusRejected means the experience is insufficient.
	StatusRejected Status = "rejected"
	// StatusManualReview means a human must decide.
	StatusManualReview Status = "manual_review"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusManualReview:
		return true
	}
	return false
}

// PositionMatch is the best accepted title for a position and its similarity in [0,1].
type PositionMatch struct {
	MatchedPosition string  `json:"matched_position"`
	Similarity      float64 `json:"similarity"`
}

// DateRange holds the raw date tokens of a record.
type DateRange struct {
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// ValidationDetails is the auditable explanation attached to every ValidationResult.
type ValidationDetails struct {
	PositionFound     *string   `json:"position_found"`
	AcceptedPositions []string  `json:"accepted_positions"`
	Company           *string   `json:"company"`
	Dates             DateRange `json:"dates"`
	SimilarityScore   *float64  `json:"similarity_score,omitempty"`
	Reason            string    `json:"reason"`
}

// ValidationResult is the outcome of evaluating one record against one policy.
type ValidationResult struct {
	Status         Status            `json:"status"`
	RequiredMonths int               `json:"required_months"`
	FoundMonths    int               `json:"found_months"`
	PositionMatch  *string           `json:"position_match"`
	Details        ValidationDetails `json:"details"`
}

// ConsolidatedResult is the aggregate decision over several records.
type ConsolidatedResult struct {
	Status                  Status             `json:"status"`
	TotalMonths             int                `json:"total_months"`
	RequiredMonths          int                `json:"required_months"`
	ApprovedExperienceCount int                `json:"approved_experience_count"`
	TotalExperienceCount    int                `json:"total_experience_count"`
	IndividualValidations   []ValidationResult `json:"individual_validations"`
	Reason                  string             `json:"reason"`
}

// Validation modes accepted by CreateValidationRequest.
const (
	ModeFirst = "first"
	ModeAll   = "all"
)

// CreateValidationRequest asks for a document to be evaluated against a course.
type CreateValidationRequest struct {
	DocumentID uuid.UUID `json:"document_id" validate:"required"`
	CourseID   uuid.UUID `json:"course_id" validate:"required"`
	Mode       string    `json:"mode,omitempty" validate:"omitempty,oneof=first all"`
}

// BatchValidationRequest evaluates one document against several courses.
type BatchValidationRequest struct {
	DocumentID uuid.UUID   `json:"document_id" validate:"required"`
	CourseIDs  []uuid.UUID `json:"course_ids" validate:"required,min=1,max=50,dive,required"`
	Mode       string      `json:"mode,omitempty" validate:"omitempty,oneof=first all"`
}

// Validate validates the CreateValidationRequest using the validator.
func (r *CreateValidationRequest) Validate() error {
	return validator.New().Struct(r)
}

// EffectiveMode returns the requested mode, defaulting to ModeAll.
func (r *CreateValidationRequest) EffectiveMode() string {
	if r.Mode == "" {
		return ModeAll
	}
	return r.Mode
}

// Validate validates the BatchValidationRequest using the validator.
func (r *BatchValidationRequest) Validate() error {
	return validator.New().Struct(r)
}
