package quests

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ascend-fitness/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Quest CRUD ──────────────────────────────────────────

func (s *Store) CreateQuest(q *models.Quest) error {
	planJSON, err := json.Marshal(q.Plan)
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO quests (id, user_id, rank, plan, status, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		q.ID, q.UserID, q.Rank, planJSON, q.Status, q.ExpiresAt, q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quest: %w", err)
	}
	return nil
}

func (s *Store) GetQuest(id string) (*models.Quest, error) {
	var q models.Quest
	var planJSON []byte
	err := s.db.QueryRow(
		`SELECT id, user_id, rank, plan, status, expires_at, created_at
		 FROM quests WHERE id = $1`,
		id,
	).Scan(&q.ID, &q.UserID, &q.Rank, &planJSON, &q.Status, &q.ExpiresAt, &q.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrQuestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get quest: %w", err)
	}

	if err := json.Unmarshal(planJSON, &q.Plan); err != nil {
		return nil, fmt.Errorf("unmarshal plan: %w", err)
	}
	return &q, nil
}

func (s *Store) ListQuests(userID int64, limit int) ([]models.Quest, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, rank, plan, status, expires_at, created_at
		 FROM quests WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list quests: %w", err)
	}
	defer rows.Close()

	var quests []models.Quest
	for rows.Next() {
		var q models.Quest
		var planJSON []byte
		if err := rows.Scan(&q.ID, &q.UserID, &q.Rank, &planJSON, &q.Status, &q.ExpiresAt, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quest: %w", err)
		}
		if err := json.Unmarshal(planJSON, &q.Plan); err != nil {
			return nil, fmt.Errorf("unmarshal plan: %w", err)
		}
		quests = append(quests, q)
	}
	if quests == nil {
		quests = []models.Quest{}
	}
	return quests, rows.Err()
}

// ── State Transitions ───────────────────────────────────

// TransitionStatus moves a quest from one status to another with a
// compare-and-swap on the current status. Two concurrent submits for the
// same quest cannot both succeed: the loser sees zero rows updated and
// gets ErrConcurrentTransition.
func (s *Store) TransitionStatus(id, from, to string) error {
	result, err := s.db.Exec(
		`UPDATE quests SET status = $3 WHERE id = $1 AND status = $2`,
		id, from, to,
	)
	if err != nil {
		return fmt.Errorf("transition quest: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		var exists bool
		if err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM quests WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("check quest: %w", err)
		}
		if !exists {
			return models.ErrQuestNotFound
		}
		return models.ErrConcurrentTransition
	}
	return nil
}

// MarkExpired fails all active quests past their expiry. Run by the
// sweep job; awards no XP.
func (s *Store) MarkExpired() (int64, error) {
	result, err := s.db.Exec(
		`UPDATE quests SET status = $1
		 WHERE status = $2 AND expires_at < NOW()`,
		models.QuestStatusFailed, models.QuestStatusActive,
	)
	if err != nil {
		return 0, fmt.Errorf("mark expired: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

// ── Verdict Log ─────────────────────────────────────────

// AppendVerdict records an immutable evaluation outcome.
func (s *Store) AppendVerdict(v *models.Verdict) error {
	statsJSON, err := json.Marshal(v.StatDeltas)
	if err != nil {
		return fmt.Errorf("marshal stat deltas: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO verdicts (quest_id, status, integrity_score, effort_score, safety_score,
		                       overall_score, grade, xp_multiplier, final_xp,
		                       verification_status, stat_deltas, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		v.QuestID, v.Status, v.IntegrityScore, v.EffortScore, v.SafetyScore,
		v.OverallScore, v.Grade, v.XPMultiplier, v.FinalXP,
		v.VerificationStatus, statsJSON, v.Reason, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert verdict: %w", err)
	}
	return nil
}
