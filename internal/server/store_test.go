package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/experience-validator/internal/db"
	"github.com/jonathan/experience-validator/internal/ingestion"
	"github.com/jonathan/experience-validator/internal/types"
)

// memoryStore is an in-memory Store for handler tests.
type memoryStore struct {
	mu          sync.Mutex
	courses     map[uuid.UUID]*db.Course
	documents   map[uuid.UUID]*db.Document
	extractions map[uuid.UUID][]db.Extraction
	validations []db.Validation
	pingErr     error
	clock       time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		courses:     map[uuid.UUID]*db.Course{},
		documents:   map[uuid.UUID]*db.Document{},
		extractions: map[uuid.UUID][]db.Extraction{},
		clock:       time.Date(2024, 6, 20, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memoryStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memoryStore) Ping(context.Context) error { return m.pingErr }

func (m *memoryStore) CreateCourse(_ context.Context, req *types.CreateCourseRequest) (*db.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.courses {
		if strings.EqualFold(c.Code, req.Code) || c.Name == req.Name {
			return nil, fmt.Errorf("course code or name already registered: %w", db.ErrDuplicate)
		}
	}
	c := &db.Course{
		ID:                uuid.New(),
		Name:              req.Name,
		Code:              req.Code,
		Description:       req.Description,
		MinimumMonths:     types.DefaultMinimumMonths,
		AcceptedPositions: db.StringArray(append([]string{}, req.AcceptedPositions...)),
		IsActive:          true,
		CreatedAt:         m.tick(),
	}
	if req.MinimumMonths != nil {
		c.MinimumMonths = *req.MinimumMonths
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	c.UpdatedAt = c.CreatedAt
	m.courses[c.ID] = c
	out := *c
	return &out, nil
}

func (m *memoryStore) GetCourse(_ context.Context, id uuid.UUID) (*db.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (m *memoryStore) ListCourses(_ context.Context, opts db.ListCoursesOptions) ([]db.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Course
	for _, c := range m.courses {
		if opts.ActiveOnly && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if opts.Skip >= len(out) {
		return nil, nil
	}
	out = out[opts.Skip:]
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *memoryStore) UpdateCourse(_ context.Context, id uuid.UUID, req *types.UpdateCourseRequest) (*db.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return nil, nil
	}
	if req.Code != nil {
		for otherID, other := range m.courses {
			if otherID != id && strings.EqualFold(other.Code, *req.Code) {
				return nil, fmt.Errorf("course code or name already registered: %w", db.ErrDuplicate)
			}
		}
		c.Code = *req.Code
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = req.Description
	}
	if req.MinimumMonths != nil {
		c.MinimumMonths = *req.MinimumMonths
	}
	if req.AcceptedPositions != nil {
		c.AcceptedPositions = db.StringArray(req.AcceptedPositions)
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	c.UpdatedAt = m.tick()
	out := *c
	return &out, nil
}

func (m *memoryStore) DeleteCourse(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[id]; !ok {
		return false, nil
	}
	delete(m.courses, id)
	return true, nil
}

func (m *memoryStore) CreateDocument(_ context.Context, filename, fileType, text string) (*db.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := &db.Document{
		ID:        uuid.New(),
		Filename:  filename,
		FileType:  fileType,
		OCRText:   text,
		TextHash:  ingestion.ComputeHash(text),
		CreatedAt: m.tick(),
	}
	m.documents[d.ID] = d
	out := *d
	return &out, nil
}

func (m *memoryStore) GetDocument(_ context.Context, id uuid.UUID) (*db.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.documents[id]
	if !ok {
		return nil, nil
	}
	out := *d
	return &out, nil
}

func (m *memoryStore) ListDocuments(_ context.Context, skip, limit int) ([]db.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Document
	for _, d := range m.documents {
		doc := *d
		doc.OCRText = ""
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if skip >= len(out) {
		return nil, nil
	}
	out = out[skip:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryStore) DeleteDocument(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[id]; !ok {
		return false, nil
	}
	delete(m.documents, id)
	delete(m.extractions, id)
	return true, nil
}

func (m *memoryStore) ReplaceExtractions(_ context.Context, documentID uuid.UUID, records []types.ExperienceRecord) ([]db.Extraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.documents[documentID]
	if !ok {
		return nil, errors.New("document does not exist")
	}
	out := make([]db.Extraction, 0, len(records))
	for i, rec := range records {
		raw, _ := json.Marshal(rec)
		out = append(out, db.Extraction{
			ID:           uuid.New(),
			DocumentID:   documentID,
			Ordinal:      i + 1,
			CompanyName:  rec.CompanyName,
			Position:     rec.Position,
			StartDate:    rec.StartDate,
			EndDate:      rec.EndDate,
			MonthsWorked: rec.MonthsWorked,
			RawData:      raw,
			CreatedAt:    m.tick(),
		})
	}
	m.extractions[documentID] = out
	d.Processed = true
	return append([]db.Extraction{}, out...), nil
}

func (m *memoryStore) ListExtractions(_ context.Context, documentID uuid.UUID) ([]db.Extraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]db.Extraction{}, m.extractions[documentID]...), nil
}

func (m *memoryStore) CreateValidation(_ context.Context, v *db.Validation) (*db.Validation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *v
	stored.ID = uuid.New()
	stored.CreatedAt = m.tick()
	m.validations = append(m.validations, stored)
	return &stored, nil
}

func (m *memoryStore) GetValidation(_ context.Context, id uuid.UUID) (*db.Validation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.validations {
		if m.validations[i].ID == id {
			out := m.validations[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) filterValidations(keep func(db.Validation) bool) []db.Validation {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Validation
	for _, v := range m.validations {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (m *memoryStore) ListValidationsByDocument(_ context.Context, documentID uuid.UUID) ([]db.Validation, error) {
	return m.filterValidations(func(v db.Validation) bool { return v.DocumentID == documentID }), nil
}

func (m *memoryStore) ListValidationsByCourse(_ context.Context, courseID uuid.UUID) ([]db.Validation, error) {
	return m.filterValidations(func(v db.Validation) bool { return v.CourseID == courseID }), nil
}

func (m *memoryStore) GetCourseStats(_ context.Context, courseID uuid.UUID) (*db.CourseStats, error) {
	stats := &db.CourseStats{CourseID: courseID}
	for _, v := range m.filterValidations(func(v db.Validation) bool { return v.CourseID == courseID }) {
		stats.Total++
		switch v.Status {
		case types.StatusApproved:
			stats.Approved++
		case types.StatusRejected:
			stats.Rejected++
		case types.StatusManualReview:
			stats.ManualReview++
		}
	}
	return stats, nil
}

// mustCourse seeds a course directly in the store.
func (m *memoryStore) mustCourse(t *testing.T, code string, minimum int, positions ...string) *db.Course {
	t.Helper()
	c, err := m.CreateCourse(context.Background(), &types.CreateCourseRequest{
		Name:              "Course " + code,
		Code:              code,
		MinimumMonths:     &minimum,
		AcceptedPositions: positions,
	})
	require.NoError(t, err)
	return c
}

// mustDocument seeds a text document directly in the store.
func (m *memoryStore) mustDocument(t *testing.T, text string) *db.Document {
	t.Helper()
	d, err := m.CreateDocument(context.Background(), "ctps.txt", types.FileTypeText, text)
	require.NoError(t, err)
	return d
}

var _ Store = (*memoryStore)(nil)
var _ Store = (*db.DB)(nil)
