package judge

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/ascend-fitness/backend/internal/models"
	"github.com/ascend-fitness/backend/internal/vision"
)

// Config holds the evaluation policy knobs. Passed explicitly so behavior
// is reproducible in tests — no ambient global state.
type Config struct {
	// MaxMultiplier caps final_xp at base_xp * MaxMultiplier.
	MaxMultiplier float64
	// BaselineIntegrity is the integrity score used when no CV evidence
	// is available.
	BaselineIntegrity float64
	// SafetyIssuePenalty is subtracted from the safety score per issue.
	SafetyIssuePenalty float64
	// TimeAnomalyRatio: durations under ratio * estimate are suspicious.
	TimeAnomalyRatio float64
	// ReportPressureThreshold: live reports above this downgrade trust.
	ReportPressureThreshold int
	// StatGainFraction scales plan stat gains into awarded stat deltas
	// before the effort scaling.
	StatGainFraction float64
}

func DefaultConfig() Config {
	return Config{
		MaxMultiplier:           1.5,
		BaselineIntegrity:       0.75,
		SafetyIssuePenalty:      0.15,
		TimeAnomalyRatio:        0.3,
		ReportPressureThreshold: 3,
		StatGainFraction:        0.5,
	}
}

// Judge turns a quest submission into a verdict: scores, trust flags,
// multiplier, and final XP.
type Judge struct {
	cfg      Config
	analyzer vision.Analyzer
}

// New builds a Judge. analyzer may be nil — evaluation then runs without
// CV evidence and integrity falls back to the baseline.
func New(cfg Config, analyzer vision.Analyzer) *Judge {
	return &Judge{cfg: cfg, analyzer: analyzer}
}

// Evaluate judges one submission against its quest. It never panics on
// well-formed input; malformed input fails fast with a ValidationError
// before any scoring. A proof-gated rejection returns the rejected
// verdict together with ErrProofRequired so the caller can leave the
// quest eligible for resubmission.
func (j *Judge) Evaluate(ctx context.Context, quest *models.Quest, sub *models.Submission, reportCount int) (*models.Verdict, error) {
	if err := validateSubmission(quest, sub); err != nil {
		return nil, err
	}

	// Required-proof gate runs before any scoring.
	if MissingRequiredProof(&quest.Plan, sub) {
		return &models.Verdict{
			QuestID:            quest.ID,
			Status:             models.VerdictRejected,
			VerificationStatus: models.VerificationRejected,
			Reason:             fmt.Sprintf("quest requires %s proof but none was provided", quest.Plan.ProofType),
			CreatedAt:          time.Now().UTC(),
		}, models.ErrProofRequired
	}

	analysis := j.analyzeProof(ctx, sub)

	integrity := IntegrityScore(analysis, j.cfg.BaselineIntegrity)
	effort := EffortScore(sub, &quest.Plan)
	safety := SafetyScore(analysis, sub.Anomalies, j.cfg.SafetyIssuePenalty)
	overall := OverallScore(integrity, effort, safety)

	flag := FlagNone
	reason := ""
	if TimeAnomaly(sub.DurationMin, quest.Plan.EstimatedDurationMin, j.cfg.TimeAnomalyRatio) {
		flag = MostSevere(flag, FlagSuspicious)
		reason = fmt.Sprintf("duration %dm is implausibly short for an estimated %dm workout",
			sub.DurationMin, quest.Plan.EstimatedDurationMin)
	}
	if ReportPressure(reportCount, j.cfg.ReportPressureThreshold) {
		flag = MostSevere(flag, FlagPending)
	}

	status := models.VerdictApproved
	verification := models.VerificationAutoApproved
	switch flag {
	case FlagSuspicious:
		status = models.VerdictFlagged
		verification = models.VerificationPending
	case FlagPending:
		verification = models.VerificationPending
	case FlagRejected:
		status = models.VerdictRejected
		verification = models.VerificationRejected
	}

	multiplier := XPMultiplier(overall)
	finalXP := 0
	if status != models.VerdictRejected {
		finalXP = j.finalXP(quest.Plan.BaseXP, multiplier)
	}

	return &models.Verdict{
		QuestID:            quest.ID,
		Status:             status,
		IntegrityScore:     integrity,
		EffortScore:        effort,
		SafetyScore:        safety,
		OverallScore:       overall,
		Grade:              Grade(overall),
		XPMultiplier:       multiplier,
		FinalXP:            finalXP,
		VerificationStatus: verification,
		StatDeltas:         j.statDeltas(quest.Plan.StatGain, effort),
		Reason:             reason,
		CreatedAt:          time.Now().UTC(),
	}, nil
}

// analyzeProof fetches CV evidence when proof media and an analyzer are
// available. Analyzer failure is not an error — it means no evidence.
func (j *Judge) analyzeProof(ctx context.Context, sub *models.Submission) *models.FormAnalysis {
	if sub.ProofMediaURL == "" || j.analyzer == nil {
		return nil
	}
	analysis, err := j.analyzer.Analyze(ctx, sub.ProofMediaURL, sub.ProofType)
	if err != nil {
		log.Printf("[judge] form analysis unavailable, scoring without CV evidence: %v", err)
		return nil
	}
	return analysis
}

// finalXP applies the multiplier, rounds, and enforces the policy ceiling.
func (j *Judge) finalXP(baseXP int, multiplier float64) int {
	xp := int(math.Round(float64(baseXP) * multiplier))
	ceiling := int(math.Round(float64(baseXP) * j.cfg.MaxMultiplier))
	if xp > ceiling {
		xp = ceiling
	}
	if xp < 0 {
		xp = 0
	}
	return xp
}

// statDeltas awards a fraction of plan stat gains scaled by effort, so
// partial effort earns proportional stats instead of all-or-nothing.
func (j *Judge) statDeltas(gain models.StatBlock, effort float64) models.StatBlock {
	scale := j.cfg.StatGainFraction * effort
	return models.StatBlock{
		Strength: int(math.Round(float64(gain.Strength) * scale)),
		Agility:  int(math.Round(float64(gain.Agility) * scale)),
		Stamina:  int(math.Round(float64(gain.Stamina) * scale)),
	}
}

func validateSubmission(quest *models.Quest, sub *models.Submission) error {
	var errs []string

	if quest == nil || quest.ID == "" {
		errs = append(errs, "missing quest")
	} else if quest.Plan.BaseXP <= 0 {
		// base_xp is never silently defaulted.
		errs = append(errs, "quest plan has no base_xp")
	}

	if sub == nil {
		errs = append(errs, "missing submission")
		return &models.ValidationError{Errors: errs}
	}

	if sub.DurationMin < 1 {
		errs = append(errs, "duration_min must be at least 1")
	}
	if sub.RPE < 1 || sub.RPE > 10 {
		errs = append(errs, fmt.Sprintf("rpe %d outside range [1, 10]", sub.RPE))
	}
	if len(sub.Exercises) == 0 {
		errs = append(errs, "exercise results are required")
	}
	if sub.ProofMediaURL != "" && sub.ProofType != models.ProofPhoto && sub.ProofType != models.ProofVideo {
		errs = append(errs, fmt.Sprintf("invalid proof_type %q", sub.ProofType))
	}

	if len(errs) > 0 {
		return &models.ValidationError{Errors: errs}
	}
	return nil
}
