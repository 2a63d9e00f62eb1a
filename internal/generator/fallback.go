package generator

import "github.com/ascend-fitness/backend/internal/models"

// fallbackPlans is the deterministic template table keyed by rank. Used
// whenever the upstream generator is unavailable or returns garbage, so
// quest assignment never blocks on the LLM.
var fallbackPlans = map[string]models.WorkoutPlan{
	"E": {
		Title: "Awakening Circuit",
		Exercises: []models.Exercise{
			{Name: "Push-ups", Sets: 2, Reps: 8},
			{Name: "Bodyweight Squats", Sets: 2, Reps: 12},
			{Name: "Plank Hold", Sets: 2, Reps: 20},
		},
		BaseXP:               150,
		RequiresProof:        false,
		ProofType:            models.ProofNone,
		EstimatedDurationMin: 20,
		TargetRPE:            4,
		StatGain:             models.StatBlock{Strength: 1, Agility: 1, Stamina: 1},
	},
	"D": {
		Title: "Iron Path Basics",
		Exercises: []models.Exercise{
			{Name: "Push-ups", Sets: 3, Reps: 10},
			{Name: "Bodyweight Squats", Sets: 3, Reps: 15},
			{Name: "Lunges", Sets: 3, Reps: 10},
			{Name: "Mountain Climbers", Sets: 3, Reps: 20},
		},
		BaseXP:               300,
		RequiresProof:        false,
		ProofType:            models.ProofNone,
		EstimatedDurationMin: 25,
		TargetRPE:            5,
		StatGain:             models.StatBlock{Strength: 2, Agility: 1, Stamina: 2},
	},
	"C": {
		Title: "Gate Breaker Conditioning",
		Exercises: []models.Exercise{
			{Name: "Push-ups", Sets: 4, Reps: 12},
			{Name: "Jump Squats", Sets: 3, Reps: 12},
			{Name: "Burpees", Sets: 3, Reps: 10},
			{Name: "Plank Hold", Sets: 3, Reps: 45},
			{Name: "Lunges", Sets: 3, Reps: 12},
		},
		BaseXP:               500,
		RequiresProof:        true,
		ProofType:            models.ProofPhoto,
		EstimatedDurationMin: 35,
		TargetRPE:            6,
		StatGain:             models.StatBlock{Strength: 3, Agility: 2, Stamina: 3},
	},
	"B": {
		Title: "Shadow Vanguard Session",
		Exercises: []models.Exercise{
			{Name: "Pike Push-ups", Sets: 4, Reps: 10},
			{Name: "Pistol Squat Progressions", Sets: 3, Reps: 6},
			{Name: "Burpees", Sets: 4, Reps: 12},
			{Name: "Hollow Body Hold", Sets: 3, Reps: 40},
			{Name: "Broad Jumps", Sets: 3, Reps: 8},
		},
		BaseXP:               750,
		RequiresProof:        true,
		ProofType:            models.ProofPhoto,
		EstimatedDurationMin: 45,
		TargetRPE:            7,
		StatGain:             models.StatBlock{Strength: 4, Agility: 3, Stamina: 4},
	},
	"A": {
		Title: "Monarch Trial Circuit",
		Exercises: []models.Exercise{
			{Name: "Archer Push-ups", Sets: 4, Reps: 8},
			{Name: "Jump Lunges", Sets: 4, Reps: 12},
			{Name: "Burpee Broad Jumps", Sets: 4, Reps: 10},
			{Name: "V-ups", Sets: 4, Reps: 15},
			{Name: "Wall Handstand Hold", Sets: 3, Reps: 30},
			{Name: "Sprint Intervals", Sets: 6, Reps: 1},
		},
		BaseXP:               1100,
		RequiresProof:        true,
		ProofType:            models.ProofVideo,
		EstimatedDurationMin: 55,
		TargetRPE:            8,
		StatGain:             models.StatBlock{Strength: 5, Agility: 5, Stamina: 5},
	},
	"S": {
		Title: "Sovereign Gauntlet",
		Exercises: []models.Exercise{
			{Name: "One-arm Push-up Progressions", Sets: 5, Reps: 5},
			{Name: "Pistol Squats", Sets: 4, Reps: 8},
			{Name: "Burpee Pull-ups", Sets: 5, Reps: 8},
			{Name: "Dragon Flags", Sets: 4, Reps: 6},
			{Name: "Handstand Push-up Progressions", Sets: 4, Reps: 5},
			{Name: "Hill Sprints", Sets: 8, Reps: 1},
		},
		BaseXP:               1600,
		RequiresProof:        true,
		ProofType:            models.ProofVideo,
		EstimatedDurationMin: 65,
		TargetRPE:            9,
		StatGain:             models.StatBlock{Strength: 7, Agility: 6, Stamina: 7},
	},
}

// classStatBias shifts a fallback plan's stat gains toward the class
// identity without changing its exercise content.
var classStatBias = map[string]models.StatBlock{
	"striker":  {Strength: 1},
	"tank":     {Strength: 2, Stamina: -1},
	"assassin": {Agility: 2, Strength: -1},
	"ranger":   {Stamina: 2, Strength: -1},
}

// FallbackPlan returns the deterministic template for a rank. Unknown
// ranks get the E-rank plan.
func FallbackPlan(rank, class string) *models.WorkoutPlan {
	plan, ok := fallbackPlans[rank]
	if !ok {
		plan = fallbackPlans["E"]
	}

	if bias, ok := classStatBias[class]; ok {
		plan.StatGain.Strength = clampStat(plan.StatGain.Strength + bias.Strength)
		plan.StatGain.Agility = clampStat(plan.StatGain.Agility + bias.Agility)
		plan.StatGain.Stamina = clampStat(plan.StatGain.Stamina + bias.Stamina)
	}

	// Copy the exercise slice so callers can't mutate the template.
	exercises := make([]models.Exercise, len(plan.Exercises))
	copy(exercises, plan.Exercises)
	plan.Exercises = exercises

	return &plan
}

func clampStat(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
