// Package reports aggregates stored documents and validations into reports and spreadsheets.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/experience-validator/internal/db"
	"github.com/jonathan/experience-validator/internal/logging"
	"github.com/jonathan/experience-validator/internal/types"
)

// Store is the read side of storage that reports need. *db.DB implements it.
type Store interface {
	GetDocument(ctx context.Context, id uuid.UUID) (*db.Document, error)
	ListExtractions(ctx context.Context, documentID uuid.UUID) ([]db.Extraction, error)
	GetValidation(ctx context.Context, id uuid.UUID) (*db.Validation, error)
	ListValidationsByDocument(ctx context.Context, documentID uuid.UUID) ([]db.Validation, error)
	ListValidationsByCourse(ctx context.Context, courseID uuid.UUID) ([]db.Validation, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*db.Course, error)
	GetCourseStats(ctx context.Context, courseID uuid.UUID) (*db.CourseStats, error)
}

// Service builds reports from a Store. Lookups of missing entities return (nil, nil).
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a report service
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logging.OrNop(logger), now: time.Now}
}

// DocumentInfo identifies a document in a report
type DocumentInfo struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	FileType  string    `json:"file_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CourseInfo identifies a course in a report
type CourseInfo struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Code              string    `json:"code"`
	MinimumMonths     int       `json:"minimum_months"`
	AcceptedPositions []string  `json:"accepted_positions,omitempty"`
}

// ValidationEntry is a stored validation annotated with its course name
type ValidationEntry struct {
	db.Validation
	CourseName *string `json:"course_name"`
}

// DocumentSummary counts what a document produced
type DocumentSummary struct {
	TotalExperiences        int       `json:"total_experiences"`
	TotalMonthsWorked       int       `json:"total_months_worked"`
	TotalValidations        int       `json:"total_validations"`
	ApprovedValidations     int       `json:"approved_validations"`
	RejectedValidations     int       `json:"rejected_validations"`
	ManualReviewValidations int       `json:"manual_review_validations"`
	GeneratedAt             time.Time `json:"generated_at"`
}

// DocumentReport is the full report of one document
type DocumentReport struct {
	Document    DocumentInfo      `json:"document"`
	Extractions []db.Extraction   `json:"extractions"`
	Validations []ValidationEntry `json:"validations"`
	Summary     DocumentSummary   `json:"summary"`
}

// ExperienceInfo is the first extraction of the validated document
type ExperienceInfo struct {
	CompanyName  *string `json:"company_name"`
	Position     *string `json:"position"`
	MonthsWorked *int    `json:"months_worked"`
}

// ValidationOutcome is the stored decision of a validation
type ValidationOutcome struct {
	RequiredMonths int             `json:"required_months"`
	FoundMonths    int             `json:"found_months"`
	PositionMatch  *string         `json:"position_match"`
	Details        json.RawMessage `json:"details"`
}

// ValidationSummary describes one validation together with its document and course
type ValidationSummary struct {
	ValidationID uuid.UUID         `json:"validation_id"`
	Status       types.Status      `json:"status"`
	Mode         string            `json:"mode"`
	Document     DocumentInfo      `json:"document"`
	Course       CourseInfo        `json:"course"`
	Experience   ExperienceInfo    `json:"experience"`
	Result       ValidationOutcome `json:"validation_result"`
	ValidatedAt  time.Time         `json:"validated_at"`
}

// ValidationCounts counts a course's validations by status
type ValidationCounts struct {
	Total        int     `json:"total"`
	Approved     int     `json:"approved"`
	Rejected     int     `json:"rejected"`
	ManualReview int     `json:"manual_review"`
	ApprovalRate float64 `json:"approval_rate"`
}

// CourseStatistics aggregates the validations of one course
type CourseStatistics struct {
	Course      CourseInfo       `json:"course"`
	Validations ValidationCounts `json:"validations"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// DocumentReport builds the report of a document.
func (s *Service) DocumentReport(ctx context.Context, documentID uuid.UUID) (*DocumentReport, error) {
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil {
		return nil, nil
	}

	extractions, err := s.store.ListExtractions(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load extractions: %w", err)
	}
	validations, err := s.store.ListValidationsByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load validations: %w", err)
	}

	report := &DocumentReport{
		Document:    documentInfo(doc),
		Extractions: extractions,
		Validations: make([]ValidationEntry, 0, len(validations)),
		Summary: DocumentSummary{
			TotalExperiences: len(extractions),
			TotalValidations: len(validations),
			GeneratedAt:      s.now().UTC(),
		},
	}
	if report.Extractions == nil {
		report.Extractions = []db.Extraction{}
	}
	for i := range extractions {
		if extractions[i].MonthsWorked != nil {
			report.Summary.TotalMonthsWorked += *extractions[i].MonthsWorked
		}
	}

	names := make(map[uuid.UUID]*string)
	for _, v := range validations {
		name, ok := names[v.CourseID]
		if !ok {
			course, err := s.store.GetCourse(ctx, v.CourseID)
			if err != nil {
				return nil, fmt.Errorf("failed to load course: %w", err)
			}
			if course != nil {
				name = &course.Name
			}
			names[v.CourseID] = name
		}
		report.Validations = append(report.Validations, ValidationEntry{Validation: v, CourseName: name})

		switch v.Status {
		case types.StatusApproved:
			report.Summary.ApprovedValidations++
		case types.StatusRejected:
			report.Summary.RejectedValidations++
		case types.StatusManualReview:
			report.Summary.ManualReviewValidations++
		}
	}

	s.logger.Debug("document report built",
		zap.String(logging.FieldDocumentID, documentID.String()),
		zap.Int(logging.FieldRecords, len(extractions)))
	return report, nil
}

// ValidationSummary builds the summary of a validation.
func (s *Service) ValidationSummary(ctx context.Context, validationID uuid.UUID) (*ValidationSummary, error) {
	v, err := s.store.GetValidation(ctx, validationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load validation: %w", err)
	}
	if v == nil {
		return nil, nil
	}

	summary := &ValidationSummary{
		ValidationID: v.ID,
		Status:       v.Status,
		Mode:         v.Mode,
		Document:     DocumentInfo{ID: v.DocumentID},
		Course:       CourseInfo{ID: v.CourseID},
		Result: ValidationOutcome{
			RequiredMonths: v.RequiredMonths,
			FoundMonths:    v.FoundMonths,
			PositionMatch:  v.PositionMatch,
			Details:        v.Details,
		},
		ValidatedAt: v.CreatedAt,
	}

	doc, err := s.store.GetDocument(ctx, v.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc != nil {
		summary.Document = documentInfo(doc)
	}

	course, err := s.store.GetCourse(ctx, v.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if course != nil {
		summary.Course = courseInfo(course, true)
	}

	extractions, err := s.store.ListExtractions(ctx, v.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load extractions: %w", err)
	}
	if len(extractions) > 0 {
		first := extractions[0]
		summary.Experience = ExperienceInfo{
			CompanyName:  first.CompanyName,
			Position:     first.Position,
			MonthsWorked: first.MonthsWorked,
		}
	}
	return summary, nil
}

// CourseStatistics counts the validations stored for a course.
func (s *Service) CourseStatistics(ctx context.Context, courseID uuid.UUID) (*CourseStatistics, error) {
	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	if course == nil {
		return nil, nil
	}

	stats, err := s.store.GetCourseStats(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load course stats: %w", err)
	}
	if stats == nil {
		stats = &db.CourseStats{CourseID: courseID}
	}

	return &CourseStatistics{
		Course:      courseInfo(course, false),
		Validations: countsFromStats(stats),
		GeneratedAt: s.now().UTC(),
	}, nil
}

func countsFromStats(stats *db.CourseStats) ValidationCounts {
	return ValidationCounts{
		Total:        stats.Total,
		Approved:     stats.Approved,
		Rejected:     stats.Rejected,
		ManualReview: stats.ManualReview,
		ApprovalRate: ApprovalRate(stats.Approved, stats.Total),
	}
}

// ApprovalRate is approved/total as a percentage, 0 when total is 0.
func ApprovalRate(approved, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(approved) / float64(total) * 100
}

func documentInfo(doc *db.Document) DocumentInfo {
	return DocumentInfo{
		ID:        doc.ID,
		Filename:  doc.Filename,
		FileType:  doc.FileType,
		CreatedAt: doc.CreatedAt,
	}
}

func courseInfo(course *db.Course, withPositions bool) CourseInfo {
	info := CourseInfo{
		ID:            course.ID,
		Name:          course.Name,
		Code:          course.Code,
		MinimumMonths: course.MinimumMonths,
	}
	if withPositions {
		info.AcceptedPositions = course.Policy().AcceptedPositions
	}
	return info
}
