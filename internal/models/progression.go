package models

import "time"

// UserProgress is the persistent per-user progression record. It is
// mutated only through the progression engine, an explicit class change,
// or an explicit reset.
type UserProgress struct {
	UserID      int64     `json:"user_id"`
	TotalXP     int64     `json:"total_xp"`
	CurrentXP   int64     `json:"current_xp"`
	Level       int       `json:"level"`
	Rank        string    `json:"rank"`
	Class       string    `json:"class"`
	Strength    int       `json:"strength"`
	Agility     int       `json:"agility"`
	Stamina     int       `json:"stamina"`
	ReportCount int       `json:"report_count"`
	Version     int64     `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProgressResult describes the cascade produced by one XP application.
// Multi-level jumps report only the final level and rank.
type ProgressResult struct {
	LeveledUp bool   `json:"leveled_up"`
	NewLevel  int    `json:"new_level"`
	RankedUp  bool   `json:"ranked_up"`
	NewRank   string `json:"new_rank"`
}

type XPEvent struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	EventType string    `json:"event_type"`
	XPAmount  int       `json:"xp_amount"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ProgressResponse struct {
	TotalXP     int64  `json:"total_xp"`
	CurrentXP   int64  `json:"current_xp"`
	Level       int    `json:"level"`
	Rank        string `json:"rank"`
	Class       string `json:"class"`
	Strength    int    `json:"strength"`
	Agility     int    `json:"agility"`
	Stamina     int    `json:"stamina"`
	NextLevelXP int64  `json:"next_level_xp"`
}

type ChangeClassRequest struct {
	Class string `json:"class"`
}
