package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ensureSchema creates the tables on first boot. Statements are idempotent so
// the service can restart against an already provisioned database.
func ensureSchema(ctx context.Context, db *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id            TEXT PRIMARY KEY,
			user_email         TEXT NOT NULL UNIQUE,
			user_password      TEXT,
			user_provider      TEXT,
			user_provider_id   TEXT,
			user_created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			user_last_login_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			session_token TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
		`CREATE TABLE IF NOT EXISTS health_profiles (
			user_id     TEXT PRIMARY KEY REFERENCES users(user_id) ON DELETE CASCADE,
			birthday    DATE NOT NULL,
			user_gender TEXT NOT NULL,
			height_ft   DOUBLE PRECISION NOT NULL,
			weight_lbs  DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS daily_records (
			user_id        TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			record_date    DATE NOT NULL,
			water_oz       DOUBLE PRECISION NOT NULL DEFAULT 0,
			sleep_hours    DOUBLE PRECISION NOT NULL DEFAULT 0,
			exercise_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
			journal        TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (user_id, record_date)
		)`,
		`CREATE TABLE IF NOT EXISTS user_locations (
			user_id    TEXT PRIMARY KEY REFERENCES users(user_id) ON DELETE CASCADE,
			latitude   NUMERIC(9,6) NOT NULL,
			longitude  NUMERIC(9,6) NOT NULL,
			label      TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS recommended_ranges (
			age_bucket TEXT NOT NULL,
			gender_key TEXT NOT NULL,
			category   TEXT NOT NULL,
			low_val    DOUBLE PRECISION NOT NULL,
			high_val   DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (age_bucket, gender_key, category)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
