package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/jonathan/experience-validator/internal/logging"
	"github.com/jonathan/experience-validator/internal/types"
)

// Sheet names used in exported workbooks.
const (
	SheetValidations = "Validations"
	SheetSummary     = "Summary"
	SheetResults     = "Results"
	SheetExperiences = "Experiences"
)

const reasonWidth = 140

// BatchRow is the consolidated outcome of one file in a batch run
type BatchRow struct {
	Source string                   `json:"source"`
	Result types.ConsolidatedResult `json:"result"`
}

// sheetWriter writes rows to one sheet, starting at row 1.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func newSheet(f *excelize.File, sheet string, headers []string) (*sheetWriter, error) {
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	w := &sheetWriter{f: f, sheet: sheet, row: 1}
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := w.write(values...); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *sheetWriter) write(values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		return err
	}
	w.row++
	return nil
}

// newWorkbook returns a file whose default sheet is renamed to first.
func newWorkbook(first string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), first); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func finish(f *excelize.File) ([]byte, error) {
	defer func() { _ = f.Close() }()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportCourseXLSX returns a workbook (as bytes) listing every validation of a course,
// plus a summary sheet. It returns (nil, nil) when the course does not exist.
func (s *Service) ExportCourseXLSX(ctx context.Context, courseID uuid.UUID) ([]byte, error) {
	start := time.Now()

	stats, err := s.CourseStatistics(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, nil
	}
	validations, err := s.store.ListValidationsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("query validations: %w", err)
	}

	f, err := newWorkbook(SheetValidations)
	if err != nil {
		return nil, err
	}

	w, err := newSheet(f, SheetValidations, []string{
		"Validation ID", "Document", "Mode", "Status", "Required Months",
		"Found Months", "Position Match", "Reason", "Validated At",
	})
	if err != nil {
		return nil, err
	}

	filenames := make(map[uuid.UUID]string)
	for _, v := range validations {
		name, ok := filenames[v.DocumentID]
		if !ok {
			doc, err := s.store.GetDocument(ctx, v.DocumentID)
			if err == nil && doc != nil {
				name = doc.Filename
			}
			filenames[v.DocumentID] = name
		}
		err := w.write(
			v.ID.String(), name, v.Mode, string(v.Status), v.RequiredMonths,
			v.FoundMonths, types.StringValue(v.PositionMatch),
			logging.Truncate(detailsReason(v.Details), reasonWidth),
			v.CreatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(SheetValidations, "A", "A", 38)
	_ = f.SetColWidth(SheetValidations, "B", "B", 28)
	_ = f.SetColWidth(SheetValidations, "G", "G", 28)
	_ = f.SetColWidth(SheetValidations, "H", "H", 60)
	_ = f.SetColWidth(SheetValidations, "I", "I", 22)

	sw, err := newSheet(f, SheetSummary, []string{"Field", "Value"})
	if err != nil {
		return nil, err
	}
	rows := [][]any{
		{"Course", stats.Course.Name},
		{"Code", stats.Course.Code},
		{"Minimum Months", stats.Course.MinimumMonths},
		{"Total", stats.Validations.Total},
		{"Approved", stats.Validations.Approved},
		{"Rejected", stats.Validations.Rejected},
		{"Manual Review", stats.Validations.ManualReview},
		{"Approval Rate (%)", stats.Validations.ApprovalRate},
		{"Generated At", stats.GeneratedAt.Format(time.RFC3339)},
	}
	for _, r := range rows {
		if err := sw.write(r...); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(SheetSummary, "A", "B", 24)

	out, err := finish(f)
	if err != nil {
		return nil, err
	}
	s.logger.Info("export.xlsx.ok",
		zap.String(logging.FieldCourseID, courseID.String()),
		zap.Int("rows", len(validations)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return out, nil
}

// ExportBatchXLSX writes the outcome of a batch run: one row per source on the results
// sheet and one row per evaluated record on the experiences sheet.
func ExportBatchXLSX(rows []BatchRow) ([]byte, error) {
	f, err := newWorkbook(SheetResults)
	if err != nil {
		return nil, err
	}

	results, err := newSheet(f, SheetResults, []string{
		"Source", "Status", "Total Months", "Required Months",
		"Approved Experiences", "Total Experiences", "Reason",
	})
	if err != nil {
		return nil, err
	}
	experiences, err := newSheet(f, SheetExperiences, []string{
		"Source", "#", "Company", "Position", "Start Date", "End Date",
		"Months", "Status", "Position Match", "Similarity", "Reason",
	})
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		res := r.Result
		err := results.write(r.Source, string(res.Status), res.TotalMonths, res.RequiredMonths,
			res.ApprovedExperienceCount, res.TotalExperienceCount, logging.Truncate(res.Reason, reasonWidth))
		if err != nil {
			return nil, err
		}
		for i, v := range res.IndividualValidations {
			var similarity any = ""
			if v.Details.SimilarityScore != nil {
				similarity = *v.Details.SimilarityScore
			}
			err := experiences.write(r.Source, i+1,
				types.StringValue(v.Details.Company),
				types.StringValue(v.Details.PositionFound),
				types.StringValue(v.Details.Dates.Start),
				types.StringValue(v.Details.Dates.End),
				v.FoundMonths, string(v.Status),
				types.StringValue(v.PositionMatch), similarity,
				logging.Truncate(v.Details.Reason, reasonWidth),
			)
			if err != nil {
				return nil, err
			}
		}
	}
	_ = f.SetColWidth(SheetResults, "A", "A", 40)
	_ = f.SetColWidth(SheetResults, "G", "G", 60)
	_ = f.SetColWidth(SheetExperiences, "A", "A", 40)
	_ = f.SetColWidth(SheetExperiences, "C", "D", 28)
	_ = f.SetColWidth(SheetExperiences, "K", "K", 60)

	return finish(f)
}

// detailsReason pulls the reason out of stored details. Both single-record and
// consolidated details carry it at the top level.
func detailsReason(details json.RawMessage) string {
	if len(details) == 0 {
		return ""
	}
	var d struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(details, &d); err != nil {
		return ""
	}
	return d.Reason
}
