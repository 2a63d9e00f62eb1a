package database

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "ascend_user")
	password := getEnv("DB_PASSWORD", "ascend_password")
	dbname := getEnv("DB_NAME", "ascend_fitness")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		username VARCHAR(50) UNIQUE,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS quests (
		id          UUID PRIMARY KEY,
		user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		rank        VARCHAR(1) NOT NULL,
		plan        JSONB NOT NULL,
		status      VARCHAR(30) NOT NULL DEFAULT 'active',
		expires_at  TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_quests_user ON quests(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_quests_status ON quests(status, expires_at);

	CREATE TABLE IF NOT EXISTS verdicts (
		id                  BIGSERIAL PRIMARY KEY,
		quest_id            UUID NOT NULL REFERENCES quests(id) ON DELETE CASCADE,
		status              VARCHAR(30) NOT NULL,
		integrity_score     DECIMAL(4,3) NOT NULL DEFAULT 0,
		effort_score        DECIMAL(4,3) NOT NULL DEFAULT 0,
		safety_score        DECIMAL(4,3) NOT NULL DEFAULT 0,
		overall_score       DECIMAL(4,3) NOT NULL DEFAULT 0,
		grade               VARCHAR(1),
		xp_multiplier       DECIMAL(3,2) NOT NULL DEFAULT 0,
		final_xp            INT NOT NULL DEFAULT 0,
		verification_status VARCHAR(20) NOT NULL,
		stat_deltas         JSONB,
		reason              TEXT,
		created_at          TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_verdicts_quest ON verdicts(quest_id);

	CREATE TABLE IF NOT EXISTS user_progress (
		user_id      BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		total_xp     BIGINT NOT NULL DEFAULT 0,
		current_xp   BIGINT NOT NULL DEFAULT 0,
		level        INT NOT NULL DEFAULT 1,
		rank         VARCHAR(1) NOT NULL DEFAULT 'E',
		class        VARCHAR(20) NOT NULL DEFAULT 'striker',
		strength     INT NOT NULL DEFAULT 0,
		agility      INT NOT NULL DEFAULT 0,
		stamina      INT NOT NULL DEFAULT 0,
		report_count INT NOT NULL DEFAULT 0,
		version      BIGINT NOT NULL DEFAULT 0,
		created_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS xp_events (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		event_type  VARCHAR(50) NOT NULL,
		xp_amount   INT NOT NULL,
		metadata    JSONB,
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_xp_events_user ON xp_events(user_id, created_at);
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// generateUsernameBase creates a lowercase alphanumeric base from a user's name.
func generateUsernameBase(name string) string {
	var result []byte
	for _, c := range strings.ToLower(name) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			result = append(result, byte(c))
		}
	}
	if len(result) == 0 {
		return "hunter"
	}
	if len(result) > 12 {
		result = result[:12]
	}
	return string(result)
}

// rng is a seeded random source for username generation.
var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateUsername creates a unique username from a name by appending random digits.
// It tries up to 10 times to find a unique one. Caller should handle the unique constraint.
func GenerateUsername(name string) string {
	base := generateUsernameBase(name)
	return fmt.Sprintf("%s%04d", base, rng.Intn(10000))
}
