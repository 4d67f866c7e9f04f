package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/experience-validator/internal/db"
	"github.com/jonathan/experience-validator/internal/eligibility"
	"github.com/jonathan/experience-validator/internal/logging"
	"github.com/jonathan/experience-validator/internal/types"
)

// ---------------------------------------------------------------------
// Validation Handlers
// ---------------------------------------------------------------------

func (s *Server) handleCreateValidation(w http.ResponseWriter, r *http.Request) {
	var req types.CreateValidationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}

	doc, records, err := s.loadRecords(r.Context(), req.DocumentID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	v, err := s.validateCourse(r.Context(), doc, records, req.CourseID, req.EffectiveMode())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, v)
}

// handleBatchValidation evaluates one document against several courses concurrently.
func (s *Server) handleBatchValidation(w http.ResponseWriter, r *http.Request) {
	var req types.BatchValidationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}
	mode := (&types.CreateValidationRequest{Mode: req.Mode}).EffectiveMode()

	doc, records, err := s.loadRecords(r.Context(), req.DocumentID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	results := make([]*db.Validation, len(req.CourseIDs))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(s.workers)
	for i, courseID := range req.CourseIDs {
		g.Go(func() error {
			v, err := s.validateCourse(ctx, doc, records, courseID, mode)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"document_id": doc.ID,
		"validations": results,
		"count":       len(results),
	})
}

func (s *Server) handleGetValidation(w http.ResponseWriter, r *http.Request) {
	validationID, err := pathID(r, "validation")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	v, err := s.store.GetValidation(r.Context(), validationID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if v == nil {
		s.fail(w, r, &ErrNotFound{Entity: "Validation"})
		return
	}

	s.jsonResponse(w, http.StatusOK, v)
}

func (s *Server) handleListDocumentValidations(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDocument(w, r)
	if !ok {
		return
	}

	validations, err := s.store.ListValidationsByDocument(r.Context(), doc.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.validationList(w, validations)
}

func (s *Server) handleListCourseValidations(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "course")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	course, err := s.store.GetCourse(r.Context(), courseID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if course == nil {
		s.fail(w, r, &ErrNotFound{Entity: "Course"})
		return
	}

	validations, err := s.store.ListValidationsByCourse(r.Context(), courseID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.validationList(w, validations)
}

func (s *Server) validationList(w http.ResponseWriter, validations []db.Validation) {
	if validations == nil {
		validations = []db.Validation{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"validations": validations,
		"count":       len(validations),
	})
}

// loadRecords returns a document and its extracted records in order.
func (s *Server) loadRecords(ctx context.Context, documentID uuid.UUID) (*db.Document, []types.ExperienceRecord, error) {
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, &ErrNotFound{Entity: "Document"}
	}

	extractions, err := s.store.ListExtractions(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	if len(extractions) == 0 {
		return nil, nil, ErrNoExtractions
	}
	return doc, db.Records(extractions), nil
}

// validateCourse evaluates records against a course's policy and persists the decision.
// ModeFirst evaluates only the first record; ModeAll consolidates every record.
func (s *Server) validateCourse(ctx context.Context, doc *db.Document, records []types.ExperienceRecord, courseID uuid.UUID, mode string) (*db.Validation, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveEvaluateLatency(time.Since(start)) }()

	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, &ErrNotFound{Entity: "Course"}
	}

	v, err := decide(records, course.Policy(), mode)
	if err != nil {
		return nil, err
	}
	v.DocumentID = doc.ID
	v.CourseID = course.ID

	stored, err := s.store.CreateValidation(ctx, v)
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementDecision(string(stored.Status), mode)
	logging.WithFields(s.logger,
		zap.String(logging.FieldDocumentID, doc.ID.String()),
		zap.String(logging.FieldCourseID, course.ID.String()),
		zap.String(logging.FieldMode, mode),
	).Info("validation completed", zap.String(logging.FieldStatus, string(stored.Status)))
	return stored, nil
}

// decide runs the engine in the given mode and shapes the result for storage.
func decide(records []types.ExperienceRecord, policy types.CoursePolicy, mode string) (*db.Validation, error) {
	v := &db.Validation{Mode: mode}

	var details any
	switch mode {
	case types.ModeFirst:
		result := eligibility.Evaluate(records[0], policy)
		v.Status = result.Status
		v.RequiredMonths = result.RequiredMonths
		v.FoundMonths = result.FoundMonths
		v.PositionMatch = result.PositionMatch
		details = result.Details
	case types.ModeAll:
		result := eligibility.EvaluateAll(records, policy)
		v.Status = result.Status
		v.RequiredMonths = result.RequiredMonths
		v.FoundMonths = result.TotalMonths
		v.PositionMatch = consolidatedMatch(result)
		details = result
	default:
		return nil, &ErrValidation{Field: "mode", Message: fmt.Sprintf("unknown mode %q", mode)}
	}

	data, err := json.Marshal(details)
	if err != nil {
		return nil, fmt.Errorf("failed to encode validation details: %w", err)
	}
	v.Details = data
	return v, nil
}

// consolidatedMatch picks the position match of the first approved record, falling
// back to the first record that matched at all.
func consolidatedMatch(result types.ConsolidatedResult) *string {
	var fallback *string
	for _, v := range result.IndividualValidations {
		if v.PositionMatch == nil {
			continue
		}
		if v.Status == types.StatusApproved {
			return v.PositionMatch
		}
		if fallback == nil {
			fallback = v.PositionMatch
		}
	}
	return fallback
}
