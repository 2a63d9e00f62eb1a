package judge

import (
	"math"
	"strings"

	"github.com/ascend-fitness/backend/internal/models"
)

// Scoring functions are pure and deterministic: same submission, plan,
// and analysis always produce the same scores.

// RPEAlignment measures how closely reported exertion matched the target.
// 1.0 at an exact match, falling off linearly across the 1-10 scale.
func RPEAlignment(actual, target int) float64 {
	alignment := 1.0 - math.Abs(float64(actual-target))/9.0
	return clamp01(alignment)
}

// CompletionRatio is the fraction of exercises not skipped.
func CompletionRatio(results []models.ExerciseResult) float64 {
	if len(results) == 0 {
		return 0
	}
	done := 0
	for _, r := range results {
		if !r.Skipped {
			done++
		}
	}
	return float64(done) / float64(len(results))
}

// EffortScore blends completion and RPE alignment.
//
// Formula: completion_ratio * 0.60 + rpe_alignment * 0.40
func EffortScore(sub *models.Submission, plan *models.WorkoutPlan) float64 {
	completion := CompletionRatio(sub.Exercises)
	alignment := RPEAlignment(sub.RPE, plan.TargetRPE)
	return completion*0.60 + alignment*0.40
}

// IntegrityScore blends form-analysis sub-scores when CV evidence exists.
// Without it, integrity is the moderate baseline so proof-exempt quests
// are not unfairly penalized.
//
// Video (consistency present): form 0.35 + technique 0.30 + ROM 0.20 + consistency 0.15
// Photo: form 0.50 + technique 0.50
func IntegrityScore(analysis *models.FormAnalysis, baseline float64) float64 {
	if analysis == nil {
		return clamp01(baseline)
	}

	if analysis.ConsistencyScore != nil {
		return clamp01(analysis.FormScore*0.35 +
			analysis.TechniqueScore*0.30 +
			analysis.RangeOfMotion*0.20 +
			*analysis.ConsistencyScore*0.15)
	}

	return clamp01(analysis.FormScore*0.50 + analysis.TechniqueScore*0.50)
}

// SafetyScore starts at 1.0 and subtracts a fixed penalty per detected
// safety issue, from CV findings and user-reported anomalies. Floor 0.
func SafetyScore(analysis *models.FormAnalysis, anomalies string, issuePenalty float64) float64 {
	issues := 0
	if analysis != nil {
		issues += len(analysis.SafetyIssues)
	}
	if strings.TrimSpace(anomalies) != "" {
		issues++
	}
	return clamp01(1.0 - issuePenalty*float64(issues))
}

// OverallScore is the unweighted mean of the three sub-scores. It drives
// the display grade and the XP multiplier, never XP directly.
func OverallScore(integrity, effort, safety float64) float64 {
	return (integrity + effort + safety) / 3.0
}

// Grade maps an overall score to a display band.
func Grade(overall float64) string {
	switch {
	case overall >= 0.90:
		return "S"
	case overall >= 0.80:
		return "A"
	case overall >= 0.70:
		return "B"
	case overall >= 0.60:
		return "C"
	default:
		return "D"
	}
}

// XPMultiplier maps an overall score to the reward multiplier.
func XPMultiplier(overall float64) float64 {
	switch {
	case overall >= 0.90:
		return 1.5
	case overall >= 0.80:
		return 1.3
	case overall >= 0.70:
		return 1.1
	case overall >= 0.60:
		return 1.0
	case overall >= 0.50:
		return 0.9
	default:
		return 0.8
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
