package quests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ascend-fitness/backend/internal/generator"
	"github.com/ascend-fitness/backend/internal/models"
)

// ── In-memory fakes ─────────────────────────────────────

type fakeStore struct {
	quests   map[string]*models.Quest
	verdicts []*models.Verdict
}

func newFakeStore() *fakeStore {
	return &fakeStore{quests: make(map[string]*models.Quest)}
}

func (s *fakeStore) CreateQuest(q *models.Quest) error {
	cp := *q
	s.quests[q.ID] = &cp
	return nil
}

func (s *fakeStore) GetQuest(id string) (*models.Quest, error) {
	q, ok := s.quests[id]
	if !ok {
		return nil, models.ErrQuestNotFound
	}
	cp := *q
	return &cp, nil
}

func (s *fakeStore) ListQuests(userID int64, limit int) ([]models.Quest, error) {
	out := []models.Quest{}
	for _, q := range s.quests {
		if q.UserID == userID && len(out) < limit {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (s *fakeStore) TransitionStatus(id, from, to string) error {
	q, ok := s.quests[id]
	if !ok {
		return models.ErrQuestNotFound
	}
	if q.Status != from {
		return models.ErrConcurrentTransition
	}
	q.Status = to
	return nil
}

func (s *fakeStore) MarkExpired() (int64, error) {
	var n int64
	now := time.Now()
	for _, q := range s.quests {
		if q.Status == models.QuestStatusActive && q.ExpiresAt.Before(now) {
			q.Status = models.QuestStatusFailed
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) AppendVerdict(v *models.Verdict) error {
	s.verdicts = append(s.verdicts, v)
	return nil
}

type fakeJudge struct {
	verdict *models.Verdict
	err     error
}

func (j *fakeJudge) Evaluate(ctx context.Context, quest *models.Quest, sub *models.Submission, reportCount int) (*models.Verdict, error) {
	return j.verdict, j.err
}

type fakePlanner struct {
	plan *models.WorkoutPlan
}

func (p *fakePlanner) GeneratePlanOrFallback(ctx context.Context, uc generator.UserContext) *models.WorkoutPlan {
	if p.plan != nil {
		return p.plan
	}
	return generator.FallbackPlan(uc.Rank, uc.Class)
}

type fakeProgression struct {
	applied     []int
	applyErr    error
	reports     map[int64]int
	result      models.ProgressResult
	progress    models.ProgressResponse
	reportCalls []int64
}

func newFakeProgression() *fakeProgression {
	return &fakeProgression{
		reports:  make(map[int64]int),
		progress: models.ProgressResponse{Level: 5, Rank: models.RankE, Class: "striker"},
	}
}

func (p *fakeProgression) ApplyXP(userID int64, xpDelta int, stats models.StatBlock, eventType string, metadata map[string]interface{}) (*models.ProgressResult, *models.UserProgress, error) {
	if p.applyErr != nil {
		return nil, nil, p.applyErr
	}
	p.applied = append(p.applied, xpDelta)
	r := p.result
	return &r, &models.UserProgress{UserID: userID}, nil
}

func (p *fakeProgression) GetProgress(userID int64) (*models.ProgressResponse, error) {
	r := p.progress
	return &r, nil
}

func (p *fakeProgression) ReportCount(userID int64) (int, error) {
	return p.reports[userID], nil
}

func (p *fakeProgression) RecordReport(userID int64) error {
	p.reports[userID]++
	p.reportCalls = append(p.reportCalls, userID)
	return nil
}

func newTestService(store *fakeStore, judge *fakeJudge, prog *fakeProgression) *Service {
	return NewService(DefaultConfig(), store, judge, &fakePlanner{}, prog)
}

func seedActiveQuest(store *fakeStore, userID int64, baseXP int) *models.Quest {
	quest := &models.Quest{
		ID:     "quest-1",
		UserID: userID,
		Rank:   models.RankE,
		Status: models.QuestStatusActive,
		Plan: models.WorkoutPlan{
			Title:                "Awakening Circuit",
			Exercises:            []models.Exercise{{Name: "Push-ups", Sets: 3, Reps: 10}},
			BaseXP:               baseXP,
			EstimatedDurationMin: 20,
			TargetRPE:            5,
		},
		ExpiresAt: time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	}
	store.CreateQuest(quest)
	return quest
}

func submitRequest() models.SubmitQuestRequest {
	return models.SubmitQuestRequest{
		DurationMin: 22,
		RPE:         5,
		Exercises:   []models.ExerciseResult{{Name: "Push-ups", SetsDone: 3, RepsDone: 10}},
	}
}

// ── Assignment ──────────────────────────────────────────

func TestAssignQuest(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeJudge{}, newFakeProgression())

	quest, err := svc.AssignQuest(context.Background(), 1, models.AssignQuestRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if quest.ID == "" {
		t.Error("expected a generated quest ID")
	}
	if quest.Status != models.QuestStatusActive {
		t.Errorf("status = %q, want active", quest.Status)
	}
	if quest.Rank != models.RankE {
		t.Errorf("rank = %q, want user's rank E", quest.Rank)
	}
	if quest.Plan.BaseXP <= 0 {
		t.Errorf("plan base_xp = %d, want positive", quest.Plan.BaseXP)
	}
	if !quest.ExpiresAt.After(quest.CreatedAt) {
		t.Error("expiry must be after creation")
	}

	if _, err := store.GetQuest(quest.ID); err != nil {
		t.Errorf("quest not persisted: %v", err)
	}
}

// ── Submission ──────────────────────────────────────────

func TestSubmit_ApprovedCompletesAndAwardsXP(t *testing.T) {
	store := newFakeStore()
	prog := newFakeProgression()
	prog.result = models.ProgressResult{LeveledUp: true, NewLevel: 6, NewRank: models.RankE}
	judge := &fakeJudge{verdict: &models.Verdict{
		QuestID: "quest-1",
		Status:  models.VerdictApproved,
		FinalXP: 450,
		Grade:   "A",
	}}
	svc := newTestService(store, judge, prog)
	seedActiveQuest(store, 1, 300)

	resp, err := svc.Submit(context.Background(), 1, "quest-1", submitRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.QuestStatus != models.QuestStatusCompleted {
		t.Errorf("quest status = %q, want completed", resp.QuestStatus)
	}
	if !resp.LeveledUp || resp.NewLevel != 6 {
		t.Errorf("expected level-up to 6, got %+v", resp)
	}
	if len(prog.applied) != 1 || prog.applied[0] != 450 {
		t.Errorf("applied XP = %v, want [450]", prog.applied)
	}
	if len(store.verdicts) != 1 {
		t.Errorf("expected 1 recorded verdict, got %d", len(store.verdicts))
	}

	stored, _ := store.GetQuest("quest-1")
	if stored.Status != models.QuestStatusCompleted {
		t.Errorf("stored status = %q, want completed", stored.Status)
	}
}

func TestSubmit_DoubleSubmitConflicts(t *testing.T) {
	store := newFakeStore()
	judge := &fakeJudge{verdict: &models.Verdict{Status: models.VerdictApproved, FinalXP: 100}}
	prog := newFakeProgression()
	svc := newTestService(store, judge, prog)
	seedActiveQuest(store, 1, 300)

	if _, err := svc.Submit(context.Background(), 1, "quest-1", submitRequest()); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}

	_, err := svc.Submit(context.Background(), 1, "quest-1", submitRequest())
	if !errors.Is(err, models.ErrConcurrentTransition) {
		t.Fatalf("expected ErrConcurrentTransition, got: %v", err)
	}

	// XP was applied exactly once.
	if len(prog.applied) != 1 {
		t.Errorf("applied XP %d times, want exactly once", len(prog.applied))
	}
}

func TestSubmit_ProofRequiredLeavesQuestActive(t *testing.T) {
	store := newFakeStore()
	judge := &fakeJudge{
		verdict: &models.Verdict{Status: models.VerdictRejected},
		err:     models.ErrProofRequired,
	}
	prog := newFakeProgression()
	svc := newTestService(store, judge, prog)
	seedActiveQuest(store, 1, 300)

	resp, err := svc.Submit(context.Background(), 1, "quest-1", submitRequest())
	if !errors.Is(err, models.ErrProofRequired) {
		t.Fatalf("expected ErrProofRequired, got: %v", err)
	}
	if resp == nil || resp.QuestStatus != models.QuestStatusActive {
		t.Fatalf("expected quest to stay active, got %+v", resp)
	}

	stored, _ := store.GetQuest("quest-1")
	if stored.Status != models.QuestStatusActive {
		t.Errorf("stored status = %q, want active for resubmission", stored.Status)
	}
	if len(prog.applied) != 0 {
		t.Errorf("no XP should flow on a proof gate, applied %v", prog.applied)
	}
}

func TestSubmit_RejectedFailsQuestWithoutXP(t *testing.T) {
	store := newFakeStore()
	judge := &fakeJudge{verdict: &models.Verdict{Status: models.VerdictRejected, FinalXP: 0}}
	prog := newFakeProgression()
	svc := newTestService(store, judge, prog)
	seedActiveQuest(store, 1, 300)

	resp, err := svc.Submit(context.Background(), 1, "quest-1", submitRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.QuestStatus != models.QuestStatusFailed {
		t.Errorf("quest status = %q, want failed", resp.QuestStatus)
	}
	if len(prog.applied) != 0 {
		t.Errorf("rejected submission must not award XP, applied %v", prog.applied)
	}
}

func TestSubmit_PendingVerificationStatus(t *testing.T) {
	store := newFakeStore()
	judge := &fakeJudge{verdict: &models.Verdict{Status: models.VerdictPendingVerification, FinalXP: 0}}
	svc := newTestService(store, judge, newFakeProgression())
	seedActiveQuest(store, 1, 300)

	resp, err := svc.Submit(context.Background(), 1, "quest-1", submitRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.QuestStatus != models.QuestStatusPendingVerification {
		t.Errorf("quest status = %q, want pending_verification", resp.QuestStatus)
	}
}

func TestSubmit_ProgressionFailureRevertsTransition(t *testing.T) {
	store := newFakeStore()
	judge := &fakeJudge{verdict: &models.Verdict{Status: models.VerdictApproved, FinalXP: 200}}
	prog := newFakeProgression()
	prog.applyErr = errors.New("version conflict persisted")
	svc := newTestService(store, judge, prog)
	seedActiveQuest(store, 1, 300)

	_, err := svc.Submit(context.Background(), 1, "quest-1", submitRequest())
	if err == nil {
		t.Fatal("expected progression error to surface")
	}

	stored, _ := store.GetQuest("quest-1")
	if stored.Status != models.QuestStatusActive {
		t.Errorf("stored status = %q, want active after revert", stored.Status)
	}
}

func TestSubmit_WrongOwner(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeJudge{}, newFakeProgression())
	seedActiveQuest(store, 1, 300)

	_, err := svc.Submit(context.Background(), 2, "quest-1", submitRequest())
	if !errors.Is(err, models.ErrQuestNotFound) {
		t.Fatalf("expected ErrQuestNotFound for foreign quest, got: %v", err)
	}
}

// ── Abort ───────────────────────────────────────────────

func TestAbort_PartialReward(t *testing.T) {
	store := newFakeStore()
	prog := newFakeProgression()
	svc := newTestService(store, &fakeJudge{}, prog)
	seedActiveQuest(store, 1, 750)

	resp, err := svc.Abort(context.Background(), 1, "quest-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// round(0.20 * 750) = 150
	if resp.XPAwarded != 150 {
		t.Errorf("xp_awarded = %d, want 150", resp.XPAwarded)
	}
	if len(prog.applied) != 1 || prog.applied[0] != 150 {
		t.Errorf("applied XP = %v, want [150]", prog.applied)
	}

	// Abort completes the quest; it is not a failure.
	stored, _ := store.GetQuest("quest-1")
	if stored.Status != models.QuestStatusCompleted {
		t.Errorf("stored status = %q, want completed", stored.Status)
	}
}

func TestAbort_TerminalQuestConflicts(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeJudge{}, newFakeProgression())
	quest := seedActiveQuest(store, 1, 300)
	store.quests[quest.ID].Status = models.QuestStatusCompleted

	_, err := svc.Abort(context.Background(), 1, "quest-1")
	if !errors.Is(err, models.ErrConcurrentTransition) {
		t.Fatalf("expected ErrConcurrentTransition, got: %v", err)
	}
}

// ── Reports / Sweep ─────────────────────────────────────

func TestReportQuest(t *testing.T) {
	store := newFakeStore()
	prog := newFakeProgression()
	svc := newTestService(store, &fakeJudge{}, prog)
	seedActiveQuest(store, 1, 300)

	if err := svc.ReportQuest(2, "quest-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prog.reports[1] != 1 {
		t.Errorf("report count for owner = %d, want 1", prog.reports[1])
	}
}

func TestReportQuest_SelfReportRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeJudge{}, newFakeProgression())
	seedActiveQuest(store, 1, 300)

	if err := svc.ReportQuest(1, "quest-1"); err == nil {
		t.Fatal("expected self-report to be rejected")
	}
}

func TestExpireOverdue(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeJudge{}, newFakeProgression())
	quest := seedActiveQuest(store, 1, 300)
	store.quests[quest.ID].ExpiresAt = time.Now().Add(-time.Hour)

	n, err := svc.ExpireOverdue()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expired %d quests, want 1", n)
	}

	stored, _ := store.GetQuest(quest.ID)
	if stored.Status != models.QuestStatusFailed {
		t.Errorf("stored status = %q, want failed", stored.Status)
	}
}
