package progression

import (
	"errors"
	"fmt"
	"log"

	"github.com/ascend-fitness/backend/internal/models"
)

// ProgressStore is the persistence surface the service needs. Satisfied
// by *Store; tests substitute an in-memory fake.
type ProgressStore interface {
	GetOrCreateProgress(userID int64) (*models.UserProgress, error)
	UpdateProgress(p *models.UserProgress) error
	IncrementReportCount(userID int64) error
	LogXPEvent(userID int64, eventType string, xpAmount int, metadata map[string]interface{}) error
}

// applyRetries bounds the optimistic-concurrency retry loop.
const applyRetries = 5

type Service struct {
	store  ProgressStore
	engine *Engine
}

func NewService(store ProgressStore, engine *Engine) *Service {
	return &Service{store: store, engine: engine}
}

func (s *Service) Engine() *Engine {
	return s.engine
}

// ApplyXP adds xpDelta (and any stat deltas) to the user's progress
// under a read-modify-write loop. Concurrent awards to the same user
// serialize through the store's version check so no update is lost.
func (s *Service) ApplyXP(userID int64, xpDelta int, stats models.StatBlock, eventType string, metadata map[string]interface{}) (*models.ProgressResult, *models.UserProgress, error) {
	var lastErr error
	for attempt := 0; attempt < applyRetries; attempt++ {
		p, err := s.store.GetOrCreateProgress(userID)
		if err != nil {
			return nil, nil, fmt.Errorf("get progress: %w", err)
		}

		result := s.engine.ApplyXP(p, int64(xpDelta))
		s.engine.ApplyStats(p, stats)

		if err := s.store.UpdateProgress(p); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				lastErr = err
				continue
			}
			return nil, nil, err
		}

		if err := s.store.LogXPEvent(userID, eventType, xpDelta, metadata); err != nil {
			log.Printf("[progression] failed to log xp event for user %d: %v", userID, err)
		}

		return &result, p, nil
	}
	return nil, nil, fmt.Errorf("apply xp: retries exhausted: %w", lastErr)
}

// GetProgress returns the user's current progression state.
func (s *Service) GetProgress(userID int64) (*models.ProgressResponse, error) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}

	return &models.ProgressResponse{
		TotalXP:     p.TotalXP,
		CurrentXP:   p.CurrentXP,
		Level:       p.Level,
		Rank:        p.Rank,
		Class:       p.Class,
		Strength:    p.Strength,
		Agility:     p.Agility,
		Stamina:     p.Stamina,
		NextLevelXP: s.engine.Curve().NextLevelXP(p.Level),
	}, nil
}

var validClasses = map[string]bool{
	"striker": true, "tank": true, "assassin": true, "ranger": true,
}

// ChangeClass swaps the user's class at the cost of half their total XP.
func (s *Service) ChangeClass(userID int64, class string) (*models.ProgressResult, *models.UserProgress, error) {
	if !validClasses[class] {
		return nil, nil, fmt.Errorf("class must be striker, tank, assassin, or ranger")
	}

	var lastErr error
	for attempt := 0; attempt < applyRetries; attempt++ {
		p, err := s.store.GetOrCreateProgress(userID)
		if err != nil {
			return nil, nil, err
		}
		if p.Class == class {
			return nil, nil, fmt.Errorf("already class %s", class)
		}

		halved := p.TotalXP / 2
		result := s.engine.ChangeClass(p, class)

		if err := s.store.UpdateProgress(p); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				lastErr = err
				continue
			}
			return nil, nil, err
		}

		s.store.LogXPEvent(userID, "class_change", 0, map[string]interface{}{
			"new_class":    class,
			"remaining_xp": halved,
		})
		return &result, p, nil
	}
	return nil, nil, fmt.Errorf("change class: retries exhausted: %w", lastErr)
}

// Reset zeroes the user's progression back to a fresh record.
func (s *Service) Reset(userID int64) error {
	var lastErr error
	for attempt := 0; attempt < applyRetries; attempt++ {
		p, err := s.store.GetOrCreateProgress(userID)
		if err != nil {
			return err
		}

		s.engine.Reset(p)

		if err := s.store.UpdateProgress(p); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				lastErr = err
				continue
			}
			return err
		}

		s.store.LogXPEvent(userID, "progress_reset", 0, nil)
		return nil
	}
	return fmt.Errorf("reset: retries exhausted: %w", lastErr)
}

// RecordReport bumps the live report counter that feeds the judge's
// report-pressure heuristic. No moderation workflow beyond recording.
func (s *Service) RecordReport(userID int64) error {
	if _, err := s.store.GetOrCreateProgress(userID); err != nil {
		return err
	}
	return s.store.IncrementReportCount(userID)
}

// ReportCount exposes the live report signal for the judge.
func (s *Service) ReportCount(userID int64) (int, error) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return 0, err
	}
	return p.ReportCount, nil
}
