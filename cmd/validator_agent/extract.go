package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/experience-validator/internal/extraction"
	"github.com/jonathan/experience-validator/internal/ingestion"
	"github.com/jonathan/experience-validator/internal/logging"
	"github.com/jonathan/experience-validator/internal/observability"
	"github.com/jonathan/experience-validator/internal/schemas"
	"github.com/jonathan/experience-validator/internal/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract experience records from recognized text",
	Long:  "Reads a plain text or hOCR file produced by OCR, splits it into blocks and writes the experience records found as JSON.",
	RunE:  runExtract,
}

var (
	extractInput   string
	extractOutput  string
	extractNow     string
	extractVerbose bool
)

func init() {
	extractCmd.Flags().StringVarP(&extractInput, "in", "i", "", "Path to a .txt, .hocr or .html file (required)")
	extractCmd.Flags().StringVarP(&extractOutput, "out", "o", "", "Path to output records JSON file (stdout when empty)")
	extractCmd.Flags().StringVar(&extractNow, "now", "", "Reference date YYYY-MM-DD for experiences without an end date")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print the records found")

	if err := extractCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(extractCmd)
}

// extractFile loads one recognized-text file and segments it.
func extractFile(path string, now time.Time, maxBytes int64) ([]types.ExperienceRecord, *ingestion.Metadata, error) {
	text, meta, err := ingestion.LoadFile(path, maxBytes)
	if err != nil {
		return nil, nil, err
	}
	segmenter := extraction.NewSegmenter()
	segmenter.Now = func() time.Time { return now }
	return segmenter.Segment(text), meta, nil
}

func runExtract(cmd *cobra.Command, _ []string) error {
	now, err := parseNow(extractNow)
	if err != nil {
		return err
	}

	records, meta, err := extractFile(extractInput, now, appConfig.MaxTextBytes)
	if err != nil {
		return fmt.Errorf("failed to load text: %w", err)
	}
	logger.Info("experience extracted",
		zap.String("file", meta.Filename),
		zap.String("hash", meta.Hash),
		zap.Int("lines", meta.Lines),
		zap.Int(logging.FieldRecords, len(records)))

	// Generated output should always satisfy the records schema (non-fatal)
	if data, err := json.Marshal(records); err == nil {
		if err := schemas.ValidateRecords(data); err != nil {
			var validationErr *schemas.ValidationError
			if errors.As(err, &validationErr) {
				logger.Warn("extracted records do not validate against schema", zap.Error(err))
			}
		}
	}

	if extractVerbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintRecords(records)
	}
	return writeJSON(cmd.OutOrStdout(), extractOutput, records)
}
