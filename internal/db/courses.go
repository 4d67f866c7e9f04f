package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jonathan/experience-validator/internal/logging"
	"github.com/jonathan/experience-validator/internal/types"
)

const courseColumns = `id, name, code, description, minimum_months, accepted_positions, is_active, created_at, updated_at`

func scanCourse(row pgx.Row) (*Course, error) {
	var c Course
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.MinimumMonths,
		&c.AcceptedPositions, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCourse inserts a course. A duplicate name or code returns ErrDuplicate.
func (db *DB) CreateCourse(ctx context.Context, req *types.CreateCourseRequest) (*Course, error) {
	minimum := types.DefaultMinimumMonths
	if req.MinimumMonths != nil {
		minimum = *req.MinimumMonths
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	c, err := scanCourse(db.pool.QueryRow(ctx,
		`INSERT INTO courses (name, code, description, minimum_months, accepted_positions, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+courseColumns,
		strings.TrimSpace(req.Name), strings.TrimSpace(req.Code), nullIfEmpty(req.Description),
		minimum, StringArray(req.AcceptedPositions), active,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("course code or name already registered: %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	logging.WithFields(db.logger, zap.String(logging.FieldCourseID, c.ID.String())).
		Debug("created course", zap.String("code", c.Code))
	return c, nil
}

// GetCourse retrieves a course by ID. Returns (nil, nil) when it does not exist.
func (db *DB) GetCourse(ctx context.Context, id uuid.UUID) (*Course, error) {
	c, err := scanCourse(db.pool.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return c, nil
}

// GetCourseByCode retrieves a course by its code. Returns (nil, nil) when it does not exist.
func (db *DB) GetCourseByCode(ctx context.Context, code string) (*Course, error) {
	c, err := scanCourse(db.pool.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE code = $1`, strings.TrimSpace(code)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course by code: %w", err)
	}
	return c, nil
}

// ListCourses returns courses ordered by code
func (db *DB) ListCourses(ctx context.Context, opts ListCoursesOptions) ([]Course, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	skip := max(opts.Skip, 0)

	rows, err := db.pool.Query(ctx,
		`SELECT `+courseColumns+` FROM courses
		 WHERE ($1::boolean = FALSE OR is_active)
		 ORDER BY code
		 OFFSET $2 LIMIT $3`,
		opts.ActiveOnly, skip, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	courses := []Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// CountCourses returns the number of catalog entries
func (db *DB) CountCourses(ctx context.Context) (int, error) {
	var n int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return n, nil
}

// UpdateCourse applies the non-nil fields of req. Returns (nil, nil) when the course does not exist.
func (db *DB) UpdateCourse(ctx context.Context, id uuid.UUID, req *types.UpdateCourseRequest) (*Course, error) {
	var accepted *StringArray
	if req.AcceptedPositions != nil {
		a := StringArray(req.AcceptedPositions)
		accepted = &a
	}

	c, err := scanCourse(db.pool.QueryRow(ctx,
		`UPDATE courses SET
		     name               = COALESCE($2, name),
		     code               = COALESCE($3, code),
		     description        = COALESCE($4, description),
		     minimum_months     = COALESCE($5, minimum_months),
		     accepted_positions = COALESCE($6, accepted_positions),
		     is_active          = COALESCE($7, is_active),
		     updated_at         = NOW()
		 WHERE id = $1
		 RETURNING `+courseColumns,
		id, req.Name, req.Code, req.Description, req.MinimumMonths, accepted, req.IsActive,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("course code or name already registered: %w", ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	return c, nil
}

// DeleteCourse removes a course and its validations. It reports whether a row was deleted.
func (db *DB) DeleteCourse(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete course: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
