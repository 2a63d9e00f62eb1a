package generator

import (
	"fmt"
	"strings"
)

// rankGuidance tunes plan intensity per difficulty rank.
var rankGuidance = map[string]string{
	"E": "Beginner-friendly. Bodyweight only, low volume, target RPE 4-5, 15-25 minutes.",
	"D": "Light conditioning. Bodyweight plus light resistance, target RPE 5-6, 20-30 minutes.",
	"C": "Moderate training. Mixed strength and cardio blocks, target RPE 6-7, 30-40 minutes.",
	"B": "Demanding sessions. Compound movements, supersets allowed, target RPE 7, 35-50 minutes.",
	"A": "Advanced training. High volume, short rests, target RPE 7-8, 45-60 minutes.",
	"S": "Elite workload. Maximal intensity circuits, target RPE 8-9, 50-70 minutes.",
}

var classFocus = map[string]string{
	"striker":  "explosive lower-body and core work",
	"tank":     "heavy compound strength movements",
	"assassin": "agility drills, plyometrics, and speed work",
	"ranger":   "endurance blocks and sustained cardio",
}

func PlanSystemPrompt() string {
	return `You are a certified strength and conditioning coach generating structured workout quests for a gamified fitness app.

Respond with a single JSON object and nothing else. Schema:

{
  "title": "short evocative quest title",
  "exercises": [{"name": "...", "sets": <int>, "reps": <int>}],
  "base_xp": <int 100-2000>,
  "requires_proof": <bool>,
  "proof_type": "none" | "photo" | "video",
  "estimated_duration_min": <int>,
  "target_rpe": <int 1-10>,
  "stat_gain": {"strength": <int>, "agility": <int>, "stamina": <int>}
}

RULES:
- 3 to 8 exercises, all with positive sets and reps.
- base_xp scales with the requested rank, never outside 100-2000.
- requires_proof true implies proof_type photo or video.
- estimated_duration_min must be realistic for the exercise volume.
- Every workout must be safe to perform without a spotter.`
}

func BuildPlanUserPrompt(uc UserContext) string {
	var b strings.Builder

	guidance, ok := rankGuidance[uc.Rank]
	if !ok {
		guidance = rankGuidance["E"]
	}

	fmt.Fprintf(&b, "Generate one workout quest for a rank %s hunter at level %d.\n", uc.Rank, uc.Level)
	fmt.Fprintf(&b, "INTENSITY: %s\n", guidance)

	if focus, ok := classFocus[strings.ToLower(uc.Class)]; ok {
		fmt.Fprintf(&b, "CLASS BIAS: emphasize %s.\n", focus)
	}
	if uc.FocusArea != "" {
		fmt.Fprintf(&b, "USER REQUEST: focus on %s today.\n", uc.FocusArea)
	}

	b.WriteString("Return only the JSON object — no markdown, no commentary.")
	return b.String()
}
