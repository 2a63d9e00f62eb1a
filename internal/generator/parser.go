package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ascend-fitness/backend/internal/models"
)

// ParsePlan extracts and validates a WorkoutPlan from raw LLM output.
func ParsePlan(responseBody string) (*models.WorkoutPlan, error) {
	cleaned := stripCodeFences(responseBody)

	var plan models.WorkoutPlan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validatePlan(&plan); err != nil {
		return nil, err
	}

	return &plan, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

var validProofTypes = map[string]bool{
	models.ProofNone:  true,
	models.ProofPhoto: true,
	models.ProofVideo: true,
}

func validatePlan(plan *models.WorkoutPlan) error {
	var errs []string

	if plan.Title == "" {
		errs = append(errs, "empty title")
	}

	if len(plan.Exercises) < 3 || len(plan.Exercises) > 8 {
		errs = append(errs, fmt.Sprintf("exercise count %d outside range [3, 8]", len(plan.Exercises)))
	}
	for i, ex := range plan.Exercises {
		if ex.Name == "" {
			errs = append(errs, fmt.Sprintf("exercise %d: empty name", i+1))
		}
		if ex.Sets <= 0 || ex.Reps <= 0 {
			errs = append(errs, fmt.Sprintf("exercise %d: sets and reps must be positive", i+1))
		}
	}

	if plan.BaseXP < 100 || plan.BaseXP > 2000 {
		errs = append(errs, fmt.Sprintf("base_xp %d outside range [100, 2000]", plan.BaseXP))
	}

	if plan.TargetRPE < 1 || plan.TargetRPE > 10 {
		errs = append(errs, fmt.Sprintf("target_rpe %d outside range [1, 10]", plan.TargetRPE))
	}

	if plan.EstimatedDurationMin < 5 || plan.EstimatedDurationMin > 120 {
		errs = append(errs, fmt.Sprintf("estimated_duration_min %d outside range [5, 120]", plan.EstimatedDurationMin))
	}

	if !validProofTypes[plan.ProofType] {
		errs = append(errs, fmt.Sprintf("invalid proof_type %q", plan.ProofType))
	}
	if plan.RequiresProof && plan.ProofType == models.ProofNone {
		errs = append(errs, "requires_proof set but proof_type is none")
	}

	if len(errs) > 0 {
		return &models.ValidationError{Errors: errs}
	}

	return nil
}
