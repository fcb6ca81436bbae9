package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// User is an account row. Traditional users carry a bcrypt hash; OAuth users
// carry provider identifiers instead and a NULL password.
type User struct {
	UserID          string             `json:"user_id"`
	UserEmail       string             `json:"email"`
	UserPassword    pgtype.Text        `json:"-"`
	UserProvider    pgtype.Text        `json:"provider,omitempty"`
	UserProviderID  pgtype.Text        `json:"-"`
	UserCreatedAt   pgtype.Timestamptz `json:"created_at"`
	UserLastLoginAt pgtype.Timestamptz `json:"last_login_at"`
}

// Session maps a minted access token to a user id. The table is truncated at
// process startup, so every restart invalidates all outstanding tokens.
type Session struct {
	SessionToken string             `json:"-"`
	UserID       string             `json:"user_id"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

// HealthProfile holds the static per-user data the score calculator and the
// advice prompt need. One row per user, upserted by /set_user_data.
type HealthProfile struct {
	UserID     string      `json:"user_id"`
	Birthday   pgtype.Date `json:"birthday"`
	UserGender string      `json:"gender"`
	HeightFt   float64     `json:"height"`
	WeightLbs  float64     `json:"weight"`
}

// DailyRecord is one user's metrics for one calendar day. Created empty on
// signup (for that day) or lazily by the first /update_* call; individual
// fields are overwritten in place and rows are never deleted.
type DailyRecord struct {
	UserID        string      `json:"user_id"`
	RecordDate    pgtype.Date `json:"date"`
	WaterOz       float64     `json:"water"`
	SleepHours    float64     `json:"sleep"`
	ExerciseHours float64     `json:"exercise"`
	Journal       string      `json:"journal"`
}

// UserLocation is the last location the client reported, used only to label
// the advice prompt. Latitude/longitude are stored as NUMERIC.
type UserLocation struct {
	UserID    string             `json:"user_id"`
	Latitude  pgtype.Numeric     `json:"latitude"`
	Longitude pgtype.Numeric     `json:"longitude"`
	Label     pgtype.Text        `json:"label,omitempty"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

// RecommendedRange is one row of the static reference table: the target
// [low, high] for a (age bucket, gender key, category) triple.
type RecommendedRange struct {
	AgeBucket string  `json:"age_bucket"`
	GenderKey string  `json:"gender_key"`
	Category  string  `json:"category"`
	LowVal    float64 `json:"low"`
	HighVal   float64 `json:"high"`
}
