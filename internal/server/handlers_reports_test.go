package server

import (
	"bytes"
	"net/http"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/experience-validator/internal/db"
	"github.com/jonathan/experience-validator/internal/reports"
	"github.com/jonathan/experience-validator/internal/types"
)

// validatedDocument extracts the labour card and validates it against one course.
func validatedDocument(t *testing.T, s *Server, store *memoryStore) (*db.Document, *db.Course, *db.Validation) {
	t.Helper()
	doc := extractedDocument(t, s, store)
	course := store.mustCourse(t, "ADM", 12, "Auxiliar Administrativo")
	w := do(t, s, http.MethodPost, "/validations", map[string]any{"document_id": doc.ID, "course_id": course.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	v := decodeBody[db.Validation](t, w)
	return doc, course, &v
}

func TestHandleDocumentReport(t *testing.T) {
	server, store := setupTestServer(t)
	doc, course, _ := validatedDocument(t, server, store)

	w := do(t, server, http.MethodGet, "/reports/documents/"+doc.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	report := decodeBody[reports.DocumentReport](t, w)
	assert.Equal(t, doc.ID, report.Document.ID)
	assert.Len(t, report.Extractions, 2)
	require.Len(t, report.Validations, 1)
	require.NotNil(t, report.Validations[0].CourseName)
	assert.Equal(t, course.Name, *report.Validations[0].CourseName)
	assert.Equal(t, 2, report.Summary.TotalExperiences)
	assert.Equal(t, 45, report.Summary.TotalMonthsWorked)
	assert.Equal(t, 1, report.Summary.ApprovedValidations)

	w = do(t, server, http.MethodGet, "/reports/documents/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleValidationSummary(t *testing.T) {
	server, store := setupTestServer(t)
	doc, course, v := validatedDocument(t, server, store)

	w := do(t, server, http.MethodGet, "/reports/validations/"+v.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	summary := decodeBody[reports.ValidationSummary](t, w)
	assert.Equal(t, v.ID, summary.ValidationID)
	assert.Equal(t, types.StatusApproved, summary.Status)
	assert.Equal(t, doc.ID, summary.Document.ID)
	assert.Equal(t, course.Code, summary.Course.Code)
	assert.Equal(t, 12, summary.Result.RequiredMonths)
	assert.NotEmpty(t, summary.Result.Details)

	w = do(t, server, http.MethodGet, "/reports/validations/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, server, http.MethodGet, "/reports/validations/nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCourseStatistics(t *testing.T) {
	server, store := setupTestServer(t)
	_, course, _ := validatedDocument(t, server, store)

	w := do(t, server, http.MethodGet, "/reports/courses/"+course.ID.String()+"/statistics", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stats := decodeBody[reports.CourseStatistics](t, w)
	assert.Equal(t, course.ID, stats.Course.ID)
	assert.Equal(t, 1, stats.Validations.Total)
	assert.Equal(t, 1, stats.Validations.Approved)
	assert.InDelta(t, 100.0, stats.Validations.ApprovalRate, 1e-9)

	w = do(t, server, http.MethodGet, "/reports/courses/"+uuid.New().String()+"/statistics", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleCourseExport(t *testing.T) {
	server, store := setupTestServer(t)
	_, course, v := validatedDocument(t, server, store)

	w := do(t, server, http.MethodGet, "/reports/courses/"+course.ID.String()+"/export.xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "course-"+course.ID.String()+".xlsx")
	assert.Equal(t, strconv.Itoa(w.Body.Len()), w.Header().Get("Content-Length"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(reports.SheetValidations)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, v.ID.String(), rows[1][0])
	assert.Equal(t, string(types.StatusApproved), rows[1][3])

	w = do(t, server, http.MethodGet, "/reports/courses/"+uuid.New().String()+"/export.xlsx", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
