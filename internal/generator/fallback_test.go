package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/ascend-fitness/backend/internal/models"
)

func TestFallbackPlan_AllRanksValid(t *testing.T) {
	for _, rank := range []string{"E", "D", "C", "B", "A", "S"} {
		plan := FallbackPlan(rank, "striker")
		if err := validatePlan(plan); err != nil {
			t.Errorf("rank %s fallback plan invalid: %v", rank, err)
		}
	}
}

func TestFallbackPlan_UnknownRankGetsStarter(t *testing.T) {
	plan := FallbackPlan("Z", "striker")
	if plan.Title != fallbackPlans["E"].Title {
		t.Errorf("unknown rank got %q, want the E-rank plan", plan.Title)
	}
}

func TestFallbackPlan_DifficultyScalesWithRank(t *testing.T) {
	prev := 0
	for _, rank := range []string{"E", "D", "C", "B", "A", "S"} {
		plan := FallbackPlan(rank, "")
		if plan.BaseXP <= prev {
			t.Errorf("rank %s base_xp %d not above previous %d", rank, plan.BaseXP, prev)
		}
		prev = plan.BaseXP
	}
}

func TestFallbackPlan_ClassBias(t *testing.T) {
	base := FallbackPlan("C", "")
	assassin := FallbackPlan("C", "assassin")

	if assassin.StatGain.Agility != base.StatGain.Agility+2 {
		t.Errorf("assassin agility = %d, want %d", assassin.StatGain.Agility, base.StatGain.Agility+2)
	}
	if assassin.StatGain.Strength != base.StatGain.Strength-1 {
		t.Errorf("assassin strength = %d, want %d", assassin.StatGain.Strength, base.StatGain.Strength-1)
	}
}

func TestFallbackPlan_BiasNeverGoesNegative(t *testing.T) {
	// E-rank has 1 strength; tank's -1 stamina and assassin's -1 strength
	// must clamp at zero when the base stat is small.
	plan := FallbackPlan("E", "assassin")
	if plan.StatGain.Strength < 0 || plan.StatGain.Agility < 0 || plan.StatGain.Stamina < 0 {
		t.Errorf("negative stat gain: %+v", plan.StatGain)
	}
}

func TestFallbackPlan_TemplateNotAliased(t *testing.T) {
	a := FallbackPlan("D", "striker")
	a.Exercises[0].Name = "mutated"

	b := FallbackPlan("D", "striker")
	if b.Exercises[0].Name == "mutated" {
		t.Error("fallback templates share exercise slices across calls")
	}
}

// ── Generator wiring ────────────────────────────────────

type failingClient struct{}

func (f *failingClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	return nil, errors.New("upstream unavailable")
}

type garbageClient struct{}

func (g *garbageClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	return &LLMResponse{Content: "sorry, I can't produce JSON today"}, nil
}

func TestGeneratePlan_MockClient(t *testing.T) {
	g := NewGeneratorWithClient(NewMockClient(), "mock")

	plan, err := g.GeneratePlan(context.Background(), UserContext{Rank: "D", Level: 12, Class: "tank"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validatePlan(plan); err != nil {
		t.Errorf("mock plan invalid: %v", err)
	}
}

func TestGeneratePlan_UpstreamFailureWrapped(t *testing.T) {
	g := NewGeneratorWithClient(&failingClient{}, "test")

	_, err := g.GeneratePlan(context.Background(), UserContext{Rank: "E"})
	var gf *models.GenerationFailure
	if !errors.As(err, &gf) {
		t.Fatalf("expected GenerationFailure, got: %v", err)
	}
}

func TestGeneratePlanOrFallback_NeverFails(t *testing.T) {
	g := NewGeneratorWithClient(&garbageClient{}, "test")

	plan := g.GeneratePlanOrFallback(context.Background(), UserContext{Rank: "B", Class: "ranger"})
	if plan == nil {
		t.Fatal("expected a plan")
	}
	if plan.Title != fallbackPlans["B"].Title {
		t.Errorf("expected the B-rank template, got %q", plan.Title)
	}
}
