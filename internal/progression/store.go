package progression

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ascend-fitness/backend/internal/models"
)

// ErrVersionConflict means another writer updated the progress row since
// it was read. Callers re-read and retry.
var ErrVersionConflict = errors.New("progress row version conflict")

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Progress CRUD ───────────────────────────────────────

func (s *Store) GetOrCreateProgress(userID int64) (*models.UserProgress, error) {
	_, err := s.db.Exec(
		`INSERT INTO user_progress (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	var p models.UserProgress
	err = s.db.QueryRow(
		`SELECT user_id, total_xp, current_xp, level, rank, class,
		        strength, agility, stamina, report_count, version,
		        created_at, updated_at
		 FROM user_progress WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.TotalXP, &p.CurrentXP, &p.Level, &p.Rank, &p.Class,
		&p.Strength, &p.Agility, &p.Stamina, &p.ReportCount, &p.Version,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return &p, nil
}

// UpdateProgress writes the record back under an optimistic version
// check. Concurrent read-modify-write cycles on the same user serialize
// through this: a stale writer gets ErrVersionConflict and retries.
func (s *Store) UpdateProgress(p *models.UserProgress) error {
	result, err := s.db.Exec(
		`UPDATE user_progress SET
		    total_xp = $3, current_xp = $4, level = $5, rank = $6, class = $7,
		    strength = $8, agility = $9, stamina = $10,
		    version = version + 1, updated_at = NOW()
		 WHERE user_id = $1 AND version = $2`,
		p.UserID, p.Version,
		p.TotalXP, p.CurrentXP, p.Level, p.Rank, p.Class,
		p.Strength, p.Agility, p.Stamina,
	)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrVersionConflict
	}
	p.Version++
	return nil
}

func (s *Store) IncrementReportCount(userID int64) error {
	_, err := s.db.Exec(
		`UPDATE user_progress SET report_count = report_count + 1, updated_at = NOW()
		 WHERE user_id = $1`,
		userID,
	)
	return err
}

// ── XP Event Log ────────────────────────────────────────

func (s *Store) LogXPEvent(userID int64, eventType string, xpAmount int, metadata map[string]interface{}) error {
	var metaJSON *string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			encoded := string(b)
			metaJSON = &encoded
		}
	}
	_, err := s.db.Exec(
		`INSERT INTO xp_events (user_id, event_type, xp_amount, metadata)
		 VALUES ($1, $2, $3, $4)`,
		userID, eventType, xpAmount, metaJSON,
	)
	return err
}
