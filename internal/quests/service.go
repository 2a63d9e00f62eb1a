package quests

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"github.com/ascend-fitness/backend/internal/generator"
	"github.com/ascend-fitness/backend/internal/models"
	"github.com/google/uuid"
)

// QuestStore is the persistence surface the lifecycle needs. Satisfied by
// *Store; tests substitute an in-memory fake.
type QuestStore interface {
	CreateQuest(q *models.Quest) error
	GetQuest(id string) (*models.Quest, error)
	ListQuests(userID int64, limit int) ([]models.Quest, error)
	TransitionStatus(id, from, to string) error
	MarkExpired() (int64, error)
	AppendVerdict(v *models.Verdict) error
}

// Evaluator is the judge's contract.
type Evaluator interface {
	Evaluate(ctx context.Context, quest *models.Quest, sub *models.Submission, reportCount int) (*models.Verdict, error)
}

// Planner produces workout plans; generation failures are absorbed by a
// deterministic fallback inside the planner.
type Planner interface {
	GeneratePlanOrFallback(ctx context.Context, uc generator.UserContext) *models.WorkoutPlan
}

// Progression is the slice of the progression service the lifecycle uses.
type Progression interface {
	ApplyXP(userID int64, xpDelta int, stats models.StatBlock, eventType string, metadata map[string]interface{}) (*models.ProgressResult, *models.UserProgress, error)
	GetProgress(userID int64) (*models.ProgressResponse, error)
	ReportCount(userID int64) (int, error)
	RecordReport(userID int64) error
}

// Config holds lifecycle policy knobs.
type Config struct {
	// AbortXPFraction is the partial reward for a user-initiated abort.
	AbortXPFraction float64
	// QuestTTL is how long an assigned quest stays eligible.
	QuestTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		AbortXPFraction: 0.20,
		QuestTTL:        24 * time.Hour,
	}
}

type Service struct {
	cfg     Config
	store   QuestStore
	judge   Evaluator
	planner Planner
	prog    Progression
}

func NewService(cfg Config, store QuestStore, judge Evaluator, planner Planner, prog Progression) *Service {
	return &Service{cfg: cfg, store: store, judge: judge, planner: planner, prog: prog}
}

// ── Assignment ──────────────────────────────────────────

// AssignQuest generates a plan for the user's current rank and class and
// records it as an active quest. Upstream generation failure never blocks
// assignment — the planner substitutes the template plan.
func (s *Service) AssignQuest(ctx context.Context, userID int64, req models.AssignQuestRequest) (*models.Quest, error) {
	progress, err := s.prog.GetProgress(userID)
	if err != nil {
		return nil, err
	}

	class := req.Class
	if class == "" {
		class = progress.Class
	}

	plan := s.planner.GeneratePlanOrFallback(ctx, generator.UserContext{
		Rank:      progress.Rank,
		Level:     progress.Level,
		Class:     class,
		FocusArea: req.FocusArea,
	})

	now := time.Now().UTC()
	quest := &models.Quest{
		ID:        uuid.NewString(),
		UserID:    userID,
		Rank:      progress.Rank,
		Plan:      *plan,
		Status:    models.QuestStatusActive,
		ExpiresAt: now.Add(s.cfg.QuestTTL),
		CreatedAt: now,
	}

	if err := s.store.CreateQuest(quest); err != nil {
		return nil, err
	}
	return quest, nil
}

// ── Submission ──────────────────────────────────────────

// Submit evaluates the user's report and drives the quest to its
// terminal state. The status compare-and-swap guarantees at-most-once
// completion; the progression update happens exactly once per verdict,
// and a failed progression apply rolls the transition back.
func (s *Service) Submit(ctx context.Context, userID int64, questID string, req models.SubmitQuestRequest) (*models.SubmitQuestResponse, error) {
	quest, err := s.store.GetQuest(questID)
	if err != nil {
		return nil, err
	}
	if quest.UserID != userID {
		return nil, models.ErrQuestNotFound
	}
	if quest.Status != models.QuestStatusActive {
		return nil, models.ErrConcurrentTransition
	}

	sub := &models.Submission{
		QuestID:       questID,
		DurationMin:   req.DurationMin,
		RPE:           req.RPE,
		Exercises:     req.Exercises,
		ProofMediaURL: req.ProofMediaURL,
		ProofType:     req.ProofType,
		Anomalies:     req.Anomalies,
		Public:        req.Public,
	}

	reportCount, err := s.prog.ReportCount(userID)
	if err != nil {
		log.Printf("[quests] failed to read report count for user %d: %v", userID, err)
		reportCount = 0
	}

	verdict, err := s.judge.Evaluate(ctx, quest, sub, reportCount)
	if errors.Is(err, models.ErrProofRequired) {
		// No evaluation happened: the quest is not burned and stays
		// eligible for resubmission with proof attached.
		return &models.SubmitQuestResponse{
			Verdict:     verdict,
			QuestStatus: models.QuestStatusActive,
		}, models.ErrProofRequired
	}
	if err != nil {
		return nil, err
	}

	newStatus := questStatusForVerdict(verdict.Status)
	if err := s.store.TransitionStatus(questID, models.QuestStatusActive, newStatus); err != nil {
		return nil, err
	}

	if err := s.store.AppendVerdict(verdict); err != nil {
		log.Printf("[quests] failed to append verdict for quest %s: %v", questID, err)
	}

	resp := &models.SubmitQuestResponse{
		Verdict:     verdict,
		QuestStatus: newStatus,
	}

	if verdict.FinalXP > 0 {
		result, _, err := s.prog.ApplyXP(userID, verdict.FinalXP, verdict.StatDeltas, "quest_submit", map[string]interface{}{
			"quest_id":      questID,
			"grade":         verdict.Grade,
			"xp_multiplier": verdict.XPMultiplier,
		})
		if err != nil {
			// Roll the transition back so quest state and progression
			// commit together or not at all.
			if revertErr := s.store.TransitionStatus(questID, newStatus, models.QuestStatusActive); revertErr != nil {
				log.Printf("[quests] failed to revert quest %s after progression error: %v", questID, revertErr)
			}
			return nil, err
		}
		resp.LeveledUp = result.LeveledUp
		resp.NewLevel = result.NewLevel
		resp.RankedUp = result.RankedUp
		resp.NewRank = result.NewRank
	}

	return resp, nil
}

// questStatusForVerdict maps an evaluation outcome to the quest's
// terminal state.
func questStatusForVerdict(verdictStatus string) string {
	switch verdictStatus {
	case models.VerdictApproved, models.VerdictFlagged:
		return models.QuestStatusCompleted
	case models.VerdictPendingVerification:
		return models.QuestStatusPendingVerification
	default:
		return models.QuestStatusFailed
	}
}

// ── Abort ───────────────────────────────────────────────

// Abort is the user's early exit: the quest completes with a fixed
// partial reward, no scoring and no anti-cheat. Distinct from failure —
// it must never be reported as a rejection.
func (s *Service) Abort(ctx context.Context, userID int64, questID string) (*models.AbortQuestResponse, error) {
	quest, err := s.store.GetQuest(questID)
	if err != nil {
		return nil, err
	}
	if quest.UserID != userID {
		return nil, models.ErrQuestNotFound
	}
	if quest.Status != models.QuestStatusActive {
		return nil, models.ErrConcurrentTransition
	}

	xp := int(math.Round(s.cfg.AbortXPFraction * float64(quest.Plan.BaseXP)))

	if err := s.store.TransitionStatus(questID, models.QuestStatusActive, models.QuestStatusCompleted); err != nil {
		return nil, err
	}

	resp := &models.AbortQuestResponse{XPAwarded: xp}

	if xp > 0 {
		result, _, err := s.prog.ApplyXP(userID, xp, models.StatBlock{}, "quest_abort", map[string]interface{}{
			"quest_id": questID,
		})
		if err != nil {
			if revertErr := s.store.TransitionStatus(questID, models.QuestStatusCompleted, models.QuestStatusActive); revertErr != nil {
				log.Printf("[quests] failed to revert quest %s after progression error: %v", questID, revertErr)
			}
			return nil, err
		}
		resp.LeveledUp = result.LeveledUp
		resp.NewLevel = result.NewLevel
		resp.RankedUp = result.RankedUp
		resp.NewRank = result.NewRank
	}

	return resp, nil
}

// ── Reads / Reports / Sweep ─────────────────────────────

func (s *Service) GetQuest(userID int64, questID string) (*models.Quest, error) {
	quest, err := s.store.GetQuest(questID)
	if err != nil {
		return nil, err
	}
	if quest.UserID != userID {
		return nil, models.ErrQuestNotFound
	}
	return quest, nil
}

func (s *Service) ListQuests(userID int64, limit int) ([]models.Quest, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.ListQuests(userID, limit)
}

// ReportQuest records a report against the quest owner's trust signal.
func (s *Service) ReportQuest(reporterID int64, questID string) error {
	quest, err := s.store.GetQuest(questID)
	if err != nil {
		return err
	}
	if quest.UserID == reporterID {
		return errors.New("cannot report your own quest")
	}
	return s.prog.RecordReport(quest.UserID)
}

// ExpireOverdue fails active quests past their expiry with zero XP.
func (s *Service) ExpireOverdue() (int64, error) {
	return s.store.MarkExpired()
}
