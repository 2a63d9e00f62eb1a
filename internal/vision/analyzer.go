package vision

import (
	"context"
	"errors"
	"hash/fnv"

	"github.com/ascend-fitness/backend/internal/models"
)

// Analyzer scores proof media for exercise form quality. A real
// computer-vision model can be substituted without touching scoring
// logic — the judge only sees FormAnalysis.
type Analyzer interface {
	Analyze(ctx context.Context, mediaURL, mediaType string) (*models.FormAnalysis, error)
}

// ErrUnavailable signals that no analyzer is reachable. The judge treats
// it as "no CV evidence" and falls back to the baseline integrity score.
var ErrUnavailable = errors.New("form analyzer unavailable")

// ── MockAnalyzer — Local Development ─────────────────────

// MockAnalyzer returns deterministic scores derived from the media URL so
// repeated analysis of the same proof yields the same result.
type MockAnalyzer struct{}

func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{}
}

func (m *MockAnalyzer) Analyze(ctx context.Context, mediaURL, mediaType string) (*models.FormAnalysis, error) {
	if mediaURL == "" {
		return nil, ErrUnavailable
	}

	seed := hashFraction(mediaURL)

	analysis := &models.FormAnalysis{
		FormScore:      0.70 + 0.25*seed,
		TechniqueScore: 0.65 + 0.30*seed,
		RangeOfMotion:  0.60 + 0.35*seed,
		SafetyIssues:   []string{},
		Confidence:     0.80,
	}

	if mediaType == models.ProofVideo {
		consistency := 0.70 + 0.25*seed
		analysis.ConsistencyScore = &consistency
	}

	return analysis, nil
}

// hashFraction maps a string to a stable value in [0,1).
func hashFraction(s string) float64 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return float64(h.Sum32()%1000) / 1000.0
}
