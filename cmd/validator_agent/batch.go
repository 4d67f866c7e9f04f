package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/experience-validator/internal/eligibility"
	"github.com/jonathan/experience-validator/internal/ingestion"
	"github.com/jonathan/experience-validator/internal/logging"
	"github.com/jonathan/experience-validator/internal/observability"
	"github.com/jonathan/experience-validator/internal/reports"
	"github.com/jonathan/experience-validator/internal/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Extract and validate every text file in a directory",
	Long: "Runs extraction and consolidated validation for each .txt, .hocr and .html file in a directory, " +
		"writing the results as JSON and optionally as an XLSX workbook.",
	RunE: runBatch,
}

var (
	batchDir     string
	batchPolicy  string
	batchWorkers int
	batchOutput  string
	batchXLSX    string
	batchNow     string
)

func init() {
	batchCmd.Flags().StringVarP(&batchDir, "dir", "d", "", "Directory of recognized-text files (required)")
	batchCmd.Flags().StringVarP(&batchPolicy, "policy", "p", "", "Path to course policy JSON file (defaults to default_policy from the config)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Files processed concurrently (defaults to workers from the config)")
	batchCmd.Flags().StringVarP(&batchOutput, "out", "o", "", "Path to output results JSON file (stdout when empty)")
	batchCmd.Flags().StringVar(&batchXLSX, "xlsx", "", "Also write the results to this XLSX file")
	batchCmd.Flags().StringVar(&batchNow, "now", "", "Reference date YYYY-MM-DD for experiences without an end date")

	if err := batchCmd.MarkFlagRequired("dir"); err != nil {
		panic(fmt.Sprintf("failed to mark dir flag as required: %v", err))
	}

	rootCmd.AddCommand(batchCmd)
}

// batchOptions configures processDirectory.
type batchOptions struct {
	Policy   types.CoursePolicy
	Workers  int
	Now      time.Time
	MaxBytes int64
}

// batchFiles lists the files of dir that carry recognized text, sorted by name.
func batchFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ft, err := ingestion.FileTypeFor(e.Name())
		if err != nil || !ingestion.HasRecognizedText(ft) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// processDirectory evaluates every file of dir concurrently. Files that cannot be
// loaded are logged and left out; rows keep the sorted file order.
func processDirectory(ctx context.Context, dir string, opts batchOptions, log *zap.Logger) ([]reports.BatchRow, error) {
	log = logging.OrNop(log)
	files, err := batchFiles(dir)
	if err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	rows := make([]*reports.BatchRow, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, _, err := extractFile(path, opts.Now, opts.MaxBytes)
			if err != nil {
				log.Warn("skipping file", zap.String("file", path), zap.Error(err))
				return nil
			}
			rows[i] = &reports.BatchRow{
				Source: filepath.Base(path),
				Result: eligibility.EvaluateAll(records, opts.Policy),
			}
			log.Debug("file evaluated",
				zap.String("file", path),
				zap.Int(logging.FieldRecords, len(records)),
				zap.String(logging.FieldStatus, string(rows[i].Result.Status)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]reports.BatchRow, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func runBatch(cmd *cobra.Command, _ []string) error {
	policyPath := batchPolicy
	if policyPath == "" {
		policyPath = appConfig.DefaultPolicy
	}
	policy, err := loadPolicy(policyPath)
	if err != nil {
		return err
	}
	now, err := parseNow(batchNow)
	if err != nil {
		return err
	}
	workers := batchWorkers
	if workers <= 0 {
		workers = appConfig.Workers
	}

	start := time.Now()
	rows, err := processDirectory(cmd.Context(), batchDir, batchOptions{
		Policy:   policy,
		Workers:  workers,
		Now:      now,
		MaxBytes: appConfig.MaxTextBytes,
	}, logger)
	if err != nil {
		return err
	}
	logger.Info("batch completed",
		zap.String("dir", batchDir),
		zap.Int("files", len(rows)),
		zap.Duration("duration", time.Since(start)))

	if batchXLSX != "" {
		data, err := reports.ExportBatchXLSX(rows)
		if err != nil {
			return fmt.Errorf("failed to build workbook: %w", err)
		}
		if err := writeFile(batchXLSX, data); err != nil {
			return err
		}
	}

	statuses := make(map[string]types.Status, len(rows))
	for _, r := range rows {
		statuses[r.Source] = r.Result.Status
	}
	observability.NewPrinter(cmd.ErrOrStderr()).PrintBatchSummary(statuses)

	return writeJSON(cmd.OutOrStdout(), batchOutput, rows)
}
