package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jonathan/experience-validator/internal/ingestion"
	"github.com/jonathan/experience-validator/internal/logging"
	"github.com/jonathan/experience-validator/internal/types"
)

const documentColumns = `id, filename, file_type, ocr_text, text_hash, processed, created_at`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	if err := row.Scan(&d.ID, &d.Filename, &d.FileType, &d.OCRText, &d.TextHash, &d.Processed, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateDocument registers a document with its already-normalized recognized text
func (db *DB) CreateDocument(ctx context.Context, filename, fileType, text string) (*Document, error) {
	d, err := scanDocument(db.pool.QueryRow(ctx,
		`INSERT INTO documents (filename, file_type, ocr_text, text_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+documentColumns,
		filename, fileType, text, ingestion.ComputeHash(text),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return d, nil
}

// GetDocument retrieves a document by ID. Returns (nil, nil) when it does not exist.
func (db *DB) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	d, err := scanDocument(db.pool.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return d, nil
}

// ListDocuments returns documents newest first, without their text
func (db *DB) ListDocuments(ctx context.Context, skip, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, filename, file_type, '' AS ocr_text, text_hash, processed, created_at
		 FROM documents ORDER BY created_at DESC OFFSET $1 LIMIT $2`,
		max(skip, 0), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// DeleteDocument removes a document with its extractions and validations
func (db *DB) DeleteDocument(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ReplaceExtractions stores the records of a document in order, replacing earlier ones,
// and marks the document processed.
func (db *DB) ReplaceExtractions(ctx context.Context, documentID uuid.UUID, records []types.ExperienceRecord) ([]Extraction, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && rErr != pgx.ErrTxClosed {
			db.logger.Warn("rollback failed", zap.Error(rErr))
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM extractions WHERE document_id = $1`, documentID); err != nil {
		return nil, fmt.Errorf("failed to clear extractions: %w", err)
	}

	out := make([]Extraction, 0, len(records))
	for i, rec := range records {
		raw, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal record: %w", err)
		}
		e, err := scanExtraction(tx.QueryRow(ctx,
			`INSERT INTO extractions (document_id, ordinal, company_name, position, start_date, end_date, months_worked, raw_data)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING `+extractionColumns,
			documentID, i+1, rec.CompanyName, rec.Position, rec.StartDate, rec.EndDate, rec.MonthsWorked, raw,
		))
		if err != nil {
			return nil, fmt.Errorf("failed to insert extraction %d: %w", i+1, err)
		}
		out = append(out, *e)
	}

	if _, err := tx.Exec(ctx, `UPDATE documents SET processed = TRUE WHERE id = $1`, documentID); err != nil {
		return nil, fmt.Errorf("failed to mark document processed: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit extractions: %w", err)
	}

	logging.WithFields(db.logger,
		zap.String(logging.FieldDocumentID, documentID.String()),
		zap.Int(logging.FieldRecords, len(out)),
	).Debug("stored extractions")
	return out, nil
}

const extractionColumns = `id, document_id, ordinal, company_name, position, start_date, end_date, months_worked, raw_data, created_at`

func scanExtraction(row pgx.Row) (*Extraction, error) {
	var e Extraction
	var raw []byte
	if err := row.Scan(&e.ID, &e.DocumentID, &e.Ordinal, &e.CompanyName, &e.Position,
		&e.StartDate, &e.EndDate, &e.MonthsWorked, &raw, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.RawData = raw
	return &e, nil
}

// ListExtractions returns a document's extractions in document order
func (db *DB) ListExtractions(ctx context.Context, documentID uuid.UUID) ([]Extraction, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+extractionColumns+` FROM extractions WHERE document_id = $1 ORDER BY ordinal`,
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list extractions: %w", err)
	}
	defer rows.Close()

	out := []Extraction{}
	for rows.Next() {
		e, err := scanExtraction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan extraction: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}
