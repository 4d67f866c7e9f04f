package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/experience-validator/internal/types"
)

// Course is a catalog entry together with its eligibility policy
type Course struct {
	ID                uuid.UUID   `json:"id"`
	Name              string      `json:"name"`
	Code              string      `json:"code"`
	Description       *string     `json:"description,omitempty"`
	MinimumMonths     int         `json:"minimum_months"`
	AcceptedPositions StringArray `json:"accepted_positions"`
	IsActive          bool        `json:"is_active"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// Policy returns the policy handed to the eligibility engine.
func (c *Course) Policy() types.CoursePolicy {
	accepted := make([]string, len(c.AcceptedPositions))
	copy(accepted, c.AcceptedPositions)
	return types.CoursePolicy{
		MinimumMonths:     c.MinimumMonths,
		AcceptedPositions: accepted,
	}
}

// ListCoursesOptions filters ListCourses
type ListCoursesOptions struct {
	Skip       int
	Limit      int
	ActiveOnly bool
}

// DefaultListLimit is used when a list call passes a non-positive limit.
const DefaultListLimit = 100

// Document is a registered document and its recognized text
type Document struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	FileType  string    `json:"file_type"`
	OCRText   string    `json:"ocr_text,omitempty"`
	TextHash  string    `json:"text_hash"`
	Processed bool      `json:"processed"`
	CreatedAt time.Time `json:"created_at"`
}

// Extraction is one persisted experience record of a document
type Extraction struct {
	ID           uuid.UUID       `json:"id"`
	DocumentID   uuid.UUID       `json:"document_id"`
	Ordinal      int             `json:"ordinal"`
	CompanyName  *string         `json:"company_name,omitempty"`
	Position     *string         `json:"position,omitempty"`
	StartDate    *string         `json:"start_date,omitempty"`
	EndDate      *string         `json:"end_date,omitempty"`
	MonthsWorked *int            `json:"months_worked,omitempty"`
	RawData      json.RawMessage `json:"raw_data,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Record converts the row back into the engine's record type.
func (e *Extraction) Record() types.ExperienceRecord {
	return types.ExperienceRecord{
		CompanyName:  e.CompanyName,
		Position:     e.Position,
		StartDate:    e.StartDate,
		EndDate:      e.EndDate,
		MonthsWorked: e.MonthsWorked,
	}
}

// Records converts extraction rows in order.
func Records(extractions []Extraction) []types.ExperienceRecord {
	out := make([]types.ExperienceRecord, len(extractions))
	for i := range extractions {
		out[i] = extractions[i].Record()
	}
	return out
}

// Validation is a persisted eligibility decision
type Validation struct {
	ID             uuid.UUID       `json:"id"`
	DocumentID     uuid.UUID       `json:"document_id"`
	CourseID       uuid.UUID       `json:"course_id"`
	Mode           string          `json:"mode"`
	Status         types.Status    `json:"status"`
	RequiredMonths int             `json:"required_months"`
	FoundMonths    int             `json:"found_months"`
	PositionMatch  *string         `json:"position_match,omitempty"`
	Details        json.RawMessage `json:"details"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CourseStats counts validations of one course by status
type CourseStats struct {
	CourseID     uuid.UUID `json:"course_id"`
	Total        int       `json:"total"`
	Approved     int       `json:"approved"`
	Rejected     int       `json:"rejected"`
	ManualReview int       `json:"manual_review"`
}

// StringArray handles JSONB string arrays
type StringArray []string

// Scan implements the Scanner interface for StringArray
func (a *StringArray) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = []string{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("cannot scan %T into StringArray", src)
	}
}

// Value implements the Valuer interface for StringArray
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}
