package server

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/jonathan/experience-validator/internal/db"
	"github.com/jonathan/experience-validator/internal/logging"
	"github.com/jonathan/experience-validator/internal/types"
)

// ---------------------------------------------------------------------
// Course Handlers
// ---------------------------------------------------------------------

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req types.CreateCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}

	course, err := s.store.CreateCourse(r.Context(), &req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Info("course created",
		zap.String(logging.FieldCourseID, course.ID.String()),
		zap.String("code", course.Code))
	s.jsonResponse(w, http.StatusCreated, course)
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := pagination(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active_only"))

	courses, err := s.store.ListCourses(r.Context(), db.ListCoursesOptions{
		Skip:       skip,
		Limit:      limit,
		ActiveOnly: activeOnly,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if courses == nil {
		courses = []db.Course{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"courses": courses,
		"count":   len(courses),
	})
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
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

	s.jsonResponse(w, http.StatusOK, course)
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "course")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req types.UpdateCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}

	course, err := s.store.UpdateCourse(r.Context(), courseID, &req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if course == nil {
		s.fail(w, r, &ErrNotFound{Entity: "Course"})
		return
	}

	s.jsonResponse(w, http.StatusOK, course)
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := pathID(r, "course")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	deleted, err := s.store.DeleteCourse(r.Context(), courseID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !deleted {
		s.fail(w, r, &ErrNotFound{Entity: "Course"})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// pagination reads the skip and limit query parameters
func pagination(r *http.Request) (skip, limit int, err error) {
	q := r.URL.Query()
	if v := q.Get("skip"); v != "" {
		skip, err = strconv.Atoi(v)
		if err != nil || skip < 0 {
			return 0, 0, &ErrValidation{Field: "skip", Message: "must be a non-negative integer"}
		}
	}
	limit = db.DefaultListLimit
	if v := q.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 1000 {
			return 0, 0, &ErrValidation{Field: "limit", Message: "must be between 1 and 1000"}
		}
	}
	return skip, limit, nil
}
