package judge

import "github.com/ascend-fitness/backend/internal/models"

// TrustFlag is the outcome of one anti-cheat heuristic. Flags compose by
// severity: each check may only downgrade trust, never upgrade it.
type TrustFlag int

const (
	FlagNone TrustFlag = iota
	// FlagPending downgrades verification to pending without touching
	// the verdict status.
	FlagPending
	// FlagSuspicious routes the verdict to FLAGGED. Reward still flows
	// through the multiplier table.
	FlagSuspicious
	// FlagRejected denies the submission outright, zero reward.
	FlagRejected
)

// MostSevere returns the stronger of two flags.
func MostSevere(a, b TrustFlag) TrustFlag {
	if b > a {
		return b
	}
	return a
}

// MissingRequiredProof reports whether the plan mandates proof that the
// submission does not carry. Checked before any scoring: unambiguous
// policy, and it saves evaluation cost.
func MissingRequiredProof(plan *models.WorkoutPlan, sub *models.Submission) bool {
	return plan.RequiresProof && sub.ProofMediaURL == ""
}

// TimeAnomaly reports whether the workout finished implausibly fast
// relative to the plan's estimate. The estimate is heuristic, not
// authoritative, so this flags for review rather than rejecting.
// Sub-minute completions round up to 1 minute before they get here, so
// the ratio check covers them too.
func TimeAnomaly(actualMin, estimatedMin int, ratio float64) bool {
	if estimatedMin <= 0 {
		return false
	}
	return float64(actualMin) < ratio*float64(estimatedMin)
}

// ReportPressure reports whether the submitting user carries enough live
// reports that trust should drop. An external signal; the threshold is a
// tunable policy value in Config.
func ReportPressure(reportCount, threshold int) bool {
	return reportCount > threshold
}
