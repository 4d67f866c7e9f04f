package eligibility

import (
	"fmt"

	"github.com/jonathan/experience-validator/internal/types"
)

// ReviewFraction of the required months puts a consolidated result into manual review.
const ReviewFraction = 0.8

// EvaluateAll evaluates every record and consolidates them into one decision.
//
// Months are summed over approved records. When none is approved the sum covers every
// record with a known duration, so near-misses reach manual review instead of rejection;
// approval still requires at least one approved record.
func EvaluateAll(records []types.ExperienceRecord, policy types.CoursePolicy) types.ConsolidatedResult {
	result := types.ConsolidatedResult{
		Status:                types.StatusRejected,
		RequiredMonths:        policy.MinimumMonths,
		TotalExperienceCount:  len(records),
		IndividualValidations: make([]types.ValidationResult, 0, len(records)),
	}
	if len(records) == 0 {
		result.Reason = ReasonNoExperience
		return result
	}

	approvedMonths, knownMonths := 0, 0
	for _, rec := range records {
		v := Evaluate(rec, policy)
		result.IndividualValidations = append(result.IndividualValidations, v)
		if v.Status == types.StatusApproved {
			result.ApprovedExperienceCount++
			approvedMonths += v.FoundMonths
		}
		if v.FoundMonths > 0 {
			knownMonths += v.FoundMonths
		}
	}

	result.TotalMonths = approvedMonths
	if result.ApprovedExperienceCount == 0 {
		result.TotalMonths = knownMonths
	}

	required := policy.MinimumMonths
	switch {
	case result.TotalMonths >= required && result.ApprovedExperienceCount > 0:
		result.Status = types.StatusApproved
		result.Reason = ReasonApproved
	case float64(result.TotalMonths) >= ReviewFraction*float64(required):
		result.Status = types.StatusManualReview
		result.Reason = fmt.Sprintf("total experience of %d months reaches %.0f%% of the required %d months",
			result.TotalMonths, ReviewFraction*100, required)
	default:
		result.Reason = insufficientTime(required, result.TotalMonths)
	}
	return result
}
