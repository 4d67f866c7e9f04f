package server

import (
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/jonathan/experience-validator/internal/logging"
)

// ---------------------------------------------------------------------
// Report Handlers
// ---------------------------------------------------------------------

func (s *Server) handleDocumentReport(w http.ResponseWriter, r *http.Request) {
	documentID, err := pathID(r, "document")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	report, err := s.reports.DocumentReport(r.Context(), documentID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if report == nil {
		s.fail(w, r, &ErrNotFound{Entity: "Document"})
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}

func (s *Server) handleValidationSummary(w http.ResponseWriter, r *http.Request) {
	validationID, err := pathID(r, "validation")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	summary, err := s.reports.ValidationSummary(r.Context(), validationID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if summary == nil {
		s.fail(w, r, &ErrNotFound{Entity: "Validation"})
		return
	}

	s.jsonResponse(w, http.StatusOK, summary)
}

func (s *Server) handleCourseStatistics(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "course")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	stats, err := s.reports.CourseStatistics(r.Context(), courseID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if stats == nil {
		s.fail(w, r, &ErrNotFound{Entity: "Course"})
		return
	}

	s.jsonResponse(w, http.StatusOK, stats)
}

func (s *Server) handleCourseExport(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "course")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	data, err := s.reports.ExportCourseXLSX(r.Context(), courseID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if data == nil {
		s.fail(w, r, &ErrNotFound{Entity: "Course"})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="course-%s.xlsx"`, courseID))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write export",
			zap.String(logging.FieldCourseID, courseID.String()), zap.Error(err))
	}
}
