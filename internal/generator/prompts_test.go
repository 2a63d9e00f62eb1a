package generator

import (
	"strings"
	"testing"
)

func TestPlanSystemPrompt(t *testing.T) {
	prompt := PlanSystemPrompt()

	required := []string{"JSON", "base_xp", "proof_type", "target_rpe", "stat_gain", "RULES"}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("system prompt missing keyword %q", keyword)
		}
	}
}

func TestBuildPlanUserPrompt(t *testing.T) {
	prompt := BuildPlanUserPrompt(UserContext{
		Rank:      "B",
		Level:     40,
		Class:     "assassin",
		FocusArea: "core strength",
	})

	required := []string{"rank B", "level 40", "agility drills", "core strength"}
	for _, keyword := range required {
		if !strings.Contains(prompt, keyword) {
			t.Errorf("user prompt missing %q:\n%s", keyword, prompt)
		}
	}
}

func TestBuildPlanUserPrompt_UnknownRankFallsBack(t *testing.T) {
	prompt := BuildPlanUserPrompt(UserContext{Rank: "Z", Level: 1})

	if !strings.Contains(prompt, rankGuidance["E"]) {
		t.Error("unknown rank should use beginner guidance")
	}
}

func TestAllRanksHaveGuidance(t *testing.T) {
	for _, rank := range []string{"E", "D", "C", "B", "A", "S"} {
		if rankGuidance[rank] == "" {
			t.Errorf("rank %q has no intensity guidance", rank)
		}
	}
}
