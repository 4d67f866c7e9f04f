// Package eligibility decides whether extracted experience satisfies a course policy.
//
// Evaluation is a small state machine: named guards are checked in a fixed order
// and the first that holds determines the status. Manual review is the fallback.
package eligibility

import (
	"fmt"

	"github.com/jonathan/experience-validator/internal/matching"
	"github.com/jonathan/experience-validator/internal/types"
)

// SimilarityThreshold is the minimum position similarity for approval.
const SimilarityThreshold = 0.70

// Decision reasons.
const (
	ReasonApproved        = "meets all requirements"
	ReasonUnknownDuration = "duration could not be determined"
	ReasonPositionReview  = "position does not exactly match accepted list"
	ReasonNoExperience    = "no experience found"
)

// facts are the inputs every guard may inspect.
type facts struct {
	known     bool
	months    int
	required  int
	meetsTime bool
	match     *types.PositionMatch
}

func (f facts) positionAccepted() bool {
	return f.match != nil && f.match.Similarity >= SimilarityThreshold
}

// guard is one transition of the decision procedure.
type guard struct {
	name   string
	holds  func(f facts) bool
	status types.Status
	reason func(f facts) string
}

// guards run in this order. The first that holds decides.
var guards = []guard{
	{
		name:   "duration_unknown",
		holds:  func(f facts) bool { return !f.known },
		status: types.StatusManualReview,
		reason: func(facts) string { return ReasonUnknownDuration },
	},
	{
		name:   "approved",
		holds:  func(f facts) bool { return f.meetsTime && f.positionAccepted() },
		status: types.StatusApproved,
		reason: func(facts) string { return ReasonApproved },
	},
	{
		name:   "insufficient_time",
		holds:  func(f facts) bool { return !f.meetsTime },
		status: types.StatusRejected,
		reason: func(f facts) string { return insufficientTime(f.required, f.months) },
	},
	{
		name:   "position_review",
		holds:  func(facts) bool { return true },
		status: types.StatusManualReview,
		reason: func(facts) string { return ReasonPositionReview },
	},
}

// Evaluate decides a single record against a policy. It is pure and never fails.
func Evaluate(record types.ExperienceRecord, policy types.CoursePolicy) types.ValidationResult {
	result := types.ValidationResult{
		Status:         types.StatusManualReview,
		RequiredMonths: policy.MinimumMonths,
		FoundMonths:    record.Months(),
		Details: types.ValidationDetails{
			PositionFound:     record.Position,
			AcceptedPositions: acceptedCopy(policy.AcceptedPositions),
			Company:           record.CompanyName,
			Dates:             types.DateRange{Start: record.StartDate, End: record.EndDate},
		},
	}

	f := facts{required: policy.MinimumMonths}
	if record.MonthsWorked != nil && *record.MonthsWorked > 0 {
		f.known = true
		f.months = *record.MonthsWorked
		f.meetsTime = f.months >= f.required
		f.match = matching.MatchPosition(record.Position, policy.AcceptedPositions)
	}
	if f.match != nil {
		matched := f.match.MatchedPosition
		score := f.match.Similarity
		result.PositionMatch = &matched
		result.Details.SimilarityScore = &score
	}

	for _, g := range guards {
		if g.holds(f) {
			result.Status = g.status
			result.Details.Reason = g.reason(f)
			break
		}
	}
	return result
}

func insufficientTime(required, found int) string {
	return fmt.Sprintf("insufficient experience time: required %d months, found %d months", required, found)
}

func acceptedCopy(accepted []string) []string {
	out := make([]string, len(accepted))
	copy(out, accepted)
	return out
}
