package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/ascend-fitness/backend/internal/models"
)

// LLMClient is the interface all generator backends satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// UserContext carries everything the generator needs to tailor a plan.
type UserContext struct {
	Rank      string
	Level     int
	Class     string
	FocusArea string
}

// Generator produces workout plans from an LLM backend. On any failure it
// reports a GenerationFailure; callers substitute a deterministic fallback
// plan rather than blocking quest assignment.
type Generator struct {
	llm   LLMClient
	model string
}

func NewGenerator() *Generator {
	var llm LLMClient
	model := "mock"

	if os.Getenv("MOCK_GENERATOR") == "true" {
		llm = NewMockClient()
		log.Println("[generator] using mock data")
	} else {
		model = os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-sonnet-4-5-20250929"
		}
		llm = NewAPIClient(model)
		log.Println("[generator] using Anthropic API:", model)
	}

	return &Generator{llm: llm, model: model}
}

// NewGeneratorWithClient is used by tests and custom wiring.
func NewGeneratorWithClient(llm LLMClient, model string) *Generator {
	return &Generator{llm: llm, model: model}
}

func (g *Generator) ModelName() string {
	return g.model
}

// GeneratePlan asks the LLM for a workout plan matching the user context.
func (g *Generator) GeneratePlan(ctx context.Context, uc UserContext) (*models.WorkoutPlan, error) {
	systemPrompt := PlanSystemPrompt()
	userPrompt := BuildPlanUserPrompt(uc)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, &models.GenerationFailure{Err: fmt.Errorf("generate plan: %w", err)}
	}

	plan, err := ParsePlan(resp.Content)
	if err != nil {
		return nil, &models.GenerationFailure{Err: fmt.Errorf("parse plan: %w", err)}
	}

	return plan, nil
}

// GeneratePlanOrFallback never fails: any generation error is logged and
// replaced with the deterministic template for the user's rank and class.
func (g *Generator) GeneratePlanOrFallback(ctx context.Context, uc UserContext) *models.WorkoutPlan {
	plan, err := g.GeneratePlan(ctx, uc)
	if err != nil {
		log.Printf("[generator] falling back to template plan for rank %s: %v", uc.Rank, err)
		return FallbackPlan(uc.Rank, uc.Class)
	}
	return plan
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   4096,
		Temperature: param.NewOpt(0.7),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("[generator] retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("[generator] Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	return &LLMResponse{
		Content:      buildMockPlanJSON(),
		PromptTokens: 800,
		OutputTokens: 600,
	}, nil
}

func buildMockPlanJSON() string {
	return `{
  "title": "[Mock] Foundation Strength Circuit",
  "exercises": [
    {"name": "Push-ups", "sets": 3, "reps": 12},
    {"name": "Bodyweight Squats", "sets": 3, "reps": 15},
    {"name": "Plank Hold", "sets": 3, "reps": 30},
    {"name": "Lunges", "sets": 3, "reps": 10}
  ],
  "base_xp": 400,
  "requires_proof": false,
  "proof_type": "none",
  "estimated_duration_min": 30,
  "target_rpe": 6,
  "stat_gain": {"strength": 3, "agility": 1, "stamina": 2}
}`
}
