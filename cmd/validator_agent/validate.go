package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/experience-validator/internal/eligibility"
	"github.com/jonathan/experience-validator/internal/logging"
	"github.com/jonathan/experience-validator/internal/observability"
	"github.com/jonathan/experience-validator/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Evaluate experience records against a course policy",
	Long: "Validates a records file and a policy file against their schemas, then decides eligibility. " +
		"Mode 'all' consolidates every record; mode 'single' evaluates only the first one.",
	RunE: runValidate,
}

var (
	validateRecords string
	validatePolicy  string
	validateMode    string
	validateOutput  string
	validateVerbose bool
)

// CLI modes. "single" is the CLI spelling of types.ModeFirst.
const (
	cliModeAll    = "all"
	cliModeSingle = "single"
)

func init() {
	validateCmd.Flags().StringVarP(&validateRecords, "records", "r", "", "Path to experience records JSON file (required)")
	validateCmd.Flags().StringVarP(&validatePolicy, "policy", "p", "", "Path to course policy JSON file (defaults to default_policy from the config)")
	validateCmd.Flags().StringVarP(&validateMode, "mode", "m", cliModeAll, "Evaluation mode: all or single")
	validateCmd.Flags().StringVarP(&validateOutput, "out", "o", "", "Path to output result JSON file (stdout when empty)")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Print a readable decision summary")

	if err := validateCmd.MarkFlagRequired("records"); err != nil {
		panic(fmt.Sprintf("failed to mark records flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

// decision is the outcome of evaluate: exactly one of Single and All is set.
type decision struct {
	Single *types.ValidationResult
	All    *types.ConsolidatedResult
}

func (d decision) status() types.Status {
	if d.All != nil {
		return d.All.Status
	}
	return d.Single.Status
}

func (d decision) value() any {
	if d.All != nil {
		return d.All
	}
	return d.Single
}

func (d decision) print(w io.Writer) {
	p := observability.NewPrinter(w)
	if d.All != nil {
		p.PrintConsolidated(d.All)
		return
	}
	p.PrintValidation(d.Single)
}

// evaluate runs the eligibility engine in the requested CLI mode.
func evaluate(records []types.ExperienceRecord, policy types.CoursePolicy, mode string) (decision, error) {
	switch mode {
	case cliModeAll, types.ModeAll:
		result := eligibility.EvaluateAll(records, policy)
		return decision{All: &result}, nil
	case cliModeSingle, types.ModeFirst:
		if len(records) == 0 {
			return decision{}, errors.New("no experience records to evaluate")
		}
		result := eligibility.Evaluate(records[0], policy)
		return decision{Single: &result}, nil
	}
	return decision{}, fmt.Errorf("unknown mode %q (expected all or single)", mode)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	policyPath := validatePolicy
	if policyPath == "" {
		policyPath = appConfig.DefaultPolicy
	}
	policy, err := loadPolicy(policyPath)
	if err != nil {
		return err
	}
	records, err := loadRecords(validateRecords)
	if err != nil {
		return err
	}

	d, err := evaluate(records, policy, validateMode)
	if err != nil {
		return err
	}
	logger.Info("validation completed",
		zap.String(logging.FieldMode, validateMode),
		zap.Int(logging.FieldRecords, len(records)),
		zap.String(logging.FieldStatus, string(d.status())))

	if validateVerbose {
		d.print(cmd.ErrOrStderr())
	}
	return writeJSON(cmd.OutOrStdout(), validateOutput, d.value())
}
