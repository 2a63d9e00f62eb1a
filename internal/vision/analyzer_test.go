package vision

import (
	"context"
	"errors"
	"testing"

	"github.com/ascend-fitness/backend/internal/models"
)

func TestMockAnalyzer_Deterministic(t *testing.T) {
	m := NewMockAnalyzer()

	a, err := m.Analyze(context.Background(), "https://cdn.example.com/proof/clip-17.mp4", models.ProofVideo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := m.Analyze(context.Background(), "https://cdn.example.com/proof/clip-17.mp4", models.ProofVideo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.FormScore != b.FormScore || a.TechniqueScore != b.TechniqueScore {
		t.Errorf("same URL produced different scores: %+v vs %+v", a, b)
	}
}

func TestMockAnalyzer_ScoresInRange(t *testing.T) {
	m := NewMockAnalyzer()

	urls := []string{
		"https://cdn.example.com/a.jpg",
		"https://cdn.example.com/b.jpg",
		"https://cdn.example.com/c.mp4",
	}

	for _, url := range urls {
		analysis, err := m.Analyze(context.Background(), url, models.ProofPhoto)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for name, score := range map[string]float64{
			"form":      analysis.FormScore,
			"technique": analysis.TechniqueScore,
			"rom":       analysis.RangeOfMotion,
		} {
			if score < 0 || score > 1 {
				t.Errorf("%s: %s score %f outside [0,1]", url, name, score)
			}
		}
	}
}

func TestMockAnalyzer_ConsistencyOnlyForVideo(t *testing.T) {
	m := NewMockAnalyzer()

	photo, err := m.Analyze(context.Background(), "https://cdn.example.com/p.jpg", models.ProofPhoto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if photo.ConsistencyScore != nil {
		t.Error("photo analysis should not carry a consistency score")
	}

	video, err := m.Analyze(context.Background(), "https://cdn.example.com/v.mp4", models.ProofVideo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if video.ConsistencyScore == nil {
		t.Error("video analysis should carry a consistency score")
	}
}

func TestMockAnalyzer_EmptyURL(t *testing.T) {
	m := NewMockAnalyzer()

	_, err := m.Analyze(context.Background(), "", models.ProofPhoto)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got: %v", err)
	}
}
