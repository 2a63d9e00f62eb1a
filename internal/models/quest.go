package models

import "time"

// ── Quest Status ──────────────────────────────────────────

const (
	QuestStatusActive              = "active"
	QuestStatusCompleted           = "completed"
	QuestStatusFailed              = "failed"
	QuestStatusSkipped             = "skipped"
	QuestStatusPendingVerification = "pending_verification"
)

// TerminalQuestStatuses are statuses a quest can never leave.
var TerminalQuestStatuses = map[string]bool{
	QuestStatusCompleted:           true,
	QuestStatusFailed:              true,
	QuestStatusSkipped:             true,
	QuestStatusPendingVerification: true,
}

// ── Ranks ─────────────────────────────────────────────────

const (
	RankE = "E"
	RankD = "D"
	RankC = "C"
	RankB = "B"
	RankA = "A"
	RankS = "S"
)

// RankOrder maps ranks to their position in the E..S ladder.
var RankOrder = map[string]int{
	RankE: 0,
	RankD: 1,
	RankC: 2,
	RankB: 3,
	RankA: 4,
	RankS: 5,
}

// ── Proof Types ───────────────────────────────────────────

const (
	ProofNone  = "none"
	ProofPhoto = "photo"
	ProofVideo = "video"
)

// ── Core Quest Structs ────────────────────────────────────

type Quest struct {
	ID        string      `json:"id"`
	UserID    int64       `json:"user_id"`
	Rank      string      `json:"rank"`
	Plan      WorkoutPlan `json:"plan"`
	Status    string      `json:"status"`
	ExpiresAt time.Time   `json:"expires_at"`
	CreatedAt time.Time   `json:"created_at"`
}

type WorkoutPlan struct {
	Title                string     `json:"title"`
	Exercises            []Exercise `json:"exercises"`
	BaseXP               int        `json:"base_xp"`
	RequiresProof        bool       `json:"requires_proof"`
	ProofType            string     `json:"proof_type"`
	EstimatedDurationMin int        `json:"estimated_duration_min"`
	TargetRPE            int        `json:"target_rpe"`
	StatGain             StatBlock  `json:"stat_gain"`
}

type Exercise struct {
	Name string `json:"name"`
	Sets int    `json:"sets"`
	Reps int    `json:"reps"`
}

// StatBlock holds the three trainable stats.
type StatBlock struct {
	Strength int `json:"strength"`
	Agility  int `json:"agility"`
	Stamina  int `json:"stamina"`
}

// ── Submission ────────────────────────────────────────────

type Submission struct {
	QuestID       string           `json:"quest_id"`
	DurationMin   int              `json:"duration_min"`
	RPE           int              `json:"rpe"`
	Exercises     []ExerciseResult `json:"exercises"`
	ProofMediaURL string           `json:"proof_media_url,omitempty"`
	ProofType     string           `json:"proof_type,omitempty"`
	Anomalies     string           `json:"anomalies,omitempty"`
	Public        bool             `json:"public"`
}

type ExerciseResult struct {
	Name     string `json:"name"`
	SetsDone int    `json:"sets_done"`
	RepsDone int    `json:"reps_done"`
	Skipped  bool   `json:"skipped"`
}

// ── Verdict ───────────────────────────────────────────────

const (
	VerdictApproved            = "APPROVED"
	VerdictRejected            = "REJECTED"
	VerdictFlagged             = "FLAGGED"
	VerdictPendingVerification = "PENDING_VERIFICATION"
)

const (
	VerificationAutoApproved = "auto_approved"
	VerificationPending      = "pending"
	VerificationVerified     = "verified"
	VerificationRejected     = "rejected"
)

// Verdict is the immutable outcome of evaluating one submission.
type Verdict struct {
	QuestID            string    `json:"quest_id"`
	Status             string    `json:"status"`
	IntegrityScore     float64   `json:"integrity_score"`
	EffortScore        float64   `json:"effort_score"`
	SafetyScore        float64   `json:"safety_score"`
	OverallScore       float64   `json:"overall_score"`
	Grade              string    `json:"grade"`
	XPMultiplier       float64   `json:"xp_multiplier"`
	FinalXP            int       `json:"final_xp"`
	VerificationStatus string    `json:"verification_status"`
	StatDeltas         StatBlock `json:"stat_deltas"`
	Reason             string    `json:"reason,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// ── Form Analysis (CV collaborator output) ────────────────

type FormAnalysis struct {
	FormScore        float64  `json:"form_score"`
	TechniqueScore   float64  `json:"technique_score"`
	RangeOfMotion    float64  `json:"range_of_motion"`
	ConsistencyScore *float64 `json:"consistency_score,omitempty"`
	SafetyIssues     []string `json:"safety_issues"`
	Confidence       float64  `json:"confidence"`
}

// ── Request / Response Types ──────────────────────────────

type AssignQuestRequest struct {
	Class     string `json:"class,omitempty"`
	FocusArea string `json:"focus_area,omitempty"`
}

type SubmitQuestRequest struct {
	DurationMin   int              `json:"duration_min"`
	RPE           int              `json:"rpe"`
	Exercises     []ExerciseResult `json:"exercises"`
	ProofMediaURL string           `json:"proof_media_url,omitempty"`
	ProofType     string           `json:"proof_type,omitempty"`
	Anomalies     string           `json:"anomalies,omitempty"`
	Public        bool             `json:"public"`
}

type SubmitQuestResponse struct {
	Verdict     *Verdict `json:"verdict"`
	QuestStatus string   `json:"quest_status"`
	LeveledUp   bool     `json:"leveled_up"`
	NewLevel    int      `json:"new_level"`
	RankedUp    bool     `json:"ranked_up"`
	NewRank     string   `json:"new_rank"`
}

type AbortQuestResponse struct {
	XPAwarded int    `json:"xp_awarded"`
	LeveledUp bool   `json:"leveled_up"`
	NewLevel  int    `json:"new_level"`
	RankedUp  bool   `json:"ranked_up"`
	NewRank   string `json:"new_rank"`
}

type QuestListResponse struct {
	Quests []Quest `json:"quests"`
}
