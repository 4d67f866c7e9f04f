package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const validationColumns = `id, document_id, course_id, mode, status, required_months, found_months, position_match, details, created_at`

func scanValidation(row pgx.Row) (*Validation, error) {
	var v Validation
	var details []byte
	if err := row.Scan(&v.ID, &v.DocumentID, &v.CourseID, &v.Mode, &v.Status,
		&v.RequiredMonths, &v.FoundMonths, &v.PositionMatch, &details, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.Details = details
	return &v, nil
}

// CreateValidation persists a decision; ID and CreatedAt are assigned by the database.
func (db *DB) CreateValidation(ctx context.Context, v *Validation) (*Validation, error) {
	details := []byte(v.Details)
	if len(details) == 0 {
		details = []byte("{}")
	}
	out, err := scanValidation(db.pool.QueryRow(ctx,
		`INSERT INTO validations (document_id, course_id, mode, status, required_months, found_months, position_match, details)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+validationColumns,
		v.DocumentID, v.CourseID, v.Mode, string(v.Status), v.RequiredMonths, v.FoundMonths, v.PositionMatch, details,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create validation: %w", err)
	}
	return out, nil
}

// GetValidation retrieves a validation by ID. Returns (nil, nil) when it does not exist.
func (db *DB) GetValidation(ctx context.Context, id uuid.UUID) (*Validation, error) {
	v, err := scanValidation(db.pool.QueryRow(ctx,
		`SELECT `+validationColumns+` FROM validations WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get validation: %w", err)
	}
	return v, nil
}

// ListValidationsByDocument returns a document's validations oldest first
func (db *DB) ListValidationsByDocument(ctx context.Context, documentID uuid.UUID) ([]Validation, error) {
	return db.listValidations(ctx,
		`SELECT `+validationColumns+` FROM validations WHERE document_id = $1 ORDER BY created_at, id`, documentID)
}

// ListValidationsByCourse returns a course's validations oldest first
func (db *DB) ListValidationsByCourse(ctx context.Context, courseID uuid.UUID) ([]Validation, error) {
	return db.listValidations(ctx,
		`SELECT `+validationColumns+` FROM validations WHERE course_id = $1 ORDER BY created_at, id`, courseID)
}

func (db *DB) listValidations(ctx context.Context, query string, id uuid.UUID) ([]Validation, error) {
	rows, err := db.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list validations: %w", err)
	}
	defer rows.Close()

	out := []Validation{}
	for rows.Next() {
		v, err := scanValidation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan validation: %w", err)
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// GetCourseStats counts a course's validations by status
func (db *DB) GetCourseStats(ctx context.Context, courseID uuid.UUID) (*CourseStats, error) {
	stats := CourseStats{CourseID: courseID}
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status = 'approved'),
		        COUNT(*) FILTER (WHERE status = 'rejected'),
		        COUNT(*) FILTER (WHERE status = 'manual_review')
		 FROM validations WHERE course_id = $1`,
		courseID,
	).Scan(&stats.Total, &stats.Approved, &stats.Rejected, &stats.ManualReview)
	if err != nil {
		return nil, fmt.Errorf("failed to get course stats: %w", err)
	}
	return &stats, nil
}
