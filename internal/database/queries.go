package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Queries bundles all SQL the application runs against the pool.
type Queries struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Queries {
	return &Queries{db: db}
}

func wrapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

/* =================================================================================
									USERS
=================================================================================*/

type CreateUserParams struct {
	UserID       string
	UserEmail    string
	UserPassword pgtype.Text
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO users (user_id, user_email, user_password, user_created_at)
		VALUES ($1, $2, $3, now())
		RETURNING user_id, user_email, user_password, user_provider, user_provider_id, user_created_at, user_last_login_at`,
		arg.UserID, arg.UserEmail, arg.UserPassword)
	var u User
	err := row.Scan(&u.UserID, &u.UserEmail, &u.UserPassword, &u.UserProvider, &u.UserProviderID, &u.UserCreatedAt, &u.UserLastLoginAt)
	return u, err
}

type UpsertOAuthUserParams struct {
	UserID         string
	UserEmail      string
	UserProvider   pgtype.Text
	UserProviderID pgtype.Text
}

// UpsertOAuthUser links an OAuth identity to an account, creating the account
// on first sign-in. Matching is by email so a traditional account can later
// sign in with Google.
func (q *Queries) UpsertOAuthUser(ctx context.Context, arg UpsertOAuthUserParams) (User, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO users (user_id, user_email, user_provider, user_provider_id, user_created_at, user_last_login_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (user_email) DO UPDATE
		SET user_provider = EXCLUDED.user_provider,
		    user_provider_id = EXCLUDED.user_provider_id,
		    user_last_login_at = now()
		RETURNING user_id, user_email, user_password, user_provider, user_provider_id, user_created_at, user_last_login_at`,
		arg.UserID, arg.UserEmail, arg.UserProvider, arg.UserProviderID)
	var u User
	err := row.Scan(&u.UserID, &u.UserEmail, &u.UserPassword, &u.UserProvider, &u.UserProviderID, &u.UserCreatedAt, &u.UserLastLoginAt)
	return u, err
}

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, `
		SELECT user_id, user_email, user_password, user_provider, user_provider_id, user_created_at, user_last_login_at
		FROM users WHERE user_email = $1`, email)
	var u User
	err := row.Scan(&u.UserID, &u.UserEmail, &u.UserPassword, &u.UserProvider, &u.UserProviderID, &u.UserCreatedAt, &u.UserLastLoginAt)
	return u, wrapNoRows(err)
}

func (q *Queries) GetUserByID(ctx context.Context, userID string) (User, error) {
	row := q.db.QueryRow(ctx, `
		SELECT user_id, user_email, user_password, user_provider, user_provider_id, user_created_at, user_last_login_at
		FROM users WHERE user_id = $1`, userID)
	var u User
	err := row.Scan(&u.UserID, &u.UserEmail, &u.UserPassword, &u.UserProvider, &u.UserProviderID, &u.UserCreatedAt, &u.UserLastLoginAt)
	return u, wrapNoRows(err)
}

func (q *Queries) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE user_email = $1)`, email).Scan(&exists)
	return exists, err
}

func (q *Queries) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := q.db.Exec(ctx, `UPDATE users SET user_last_login_at = now() WHERE user_id = $1`, userID)
	return err
}

func (q *Queries) UpdateUserPassword(ctx context.Context, userID string, hash pgtype.Text) error {
	_, err := q.db.Exec(ctx, `UPDATE users SET user_password = $2 WHERE user_id = $1`, userID, hash)
	return err
}

/* =================================================================================
									SESSIONS
=================================================================================*/

func (q *Queries) CreateSession(ctx context.Context, token, userID string) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO sessions (session_token, user_id, created_at) VALUES ($1, $2, now())`,
		token, userID)
	return err
}

// GetSessionUser resolves an access token to its user id.
func (q *Queries) GetSessionUser(ctx context.Context, token string) (string, error) {
	var userID string
	err := q.db.QueryRow(ctx, `SELECT user_id FROM sessions WHERE session_token = $1`, token).Scan(&userID)
	return userID, wrapNoRows(err)
}

func (q *Queries) DeleteSession(ctx context.Context, token string) error {
	_, err := q.db.Exec(ctx, `DELETE FROM sessions WHERE session_token = $1`, token)
	return err
}

func (q *Queries) DeleteUserSessions(ctx context.Context, userID string) error {
	_, err := q.db.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}

// DeleteAllSessions clears the session store. Runs once at startup so a
// restart invalidates every previously minted token.
func (q *Queries) DeleteAllSessions(ctx context.Context) error {
	_, err := q.db.Exec(ctx, `TRUNCATE sessions`)
	return err
}

/* =================================================================================
								HEALTH PROFILES
=================================================================================*/

type UpsertHealthProfileParams struct {
	UserID     string
	Birthday   pgtype.Date
	UserGender string
	HeightFt   float64
	WeightLbs  float64
}

func (q *Queries) UpsertHealthProfile(ctx context.Context, arg UpsertHealthProfileParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO health_profiles (user_id, birthday, user_gender, height_ft, weight_lbs)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET birthday = EXCLUDED.birthday,
		    user_gender = EXCLUDED.user_gender,
		    height_ft = EXCLUDED.height_ft,
		    weight_lbs = EXCLUDED.weight_lbs`,
		arg.UserID, arg.Birthday, arg.UserGender, arg.HeightFt, arg.WeightLbs)
	return err
}

func (q *Queries) GetHealthProfile(ctx context.Context, userID string) (HealthProfile, error) {
	row := q.db.QueryRow(ctx, `
		SELECT user_id, birthday, user_gender, height_ft, weight_lbs
		FROM health_profiles WHERE user_id = $1`, userID)
	var p HealthProfile
	err := row.Scan(&p.UserID, &p.Birthday, &p.UserGender, &p.HeightFt, &p.WeightLbs)
	return p, wrapNoRows(err)
}

/* =================================================================================
								DAILY RECORDS
=================================================================================*/

// EnsureDailyRecord creates an empty record for the day if none exists.
// Signup calls this for the signup day.
func (q *Queries) EnsureDailyRecord(ctx context.Context, userID string, date time.Time) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO daily_records (user_id, record_date) VALUES ($1, $2)
		ON CONFLICT (user_id, record_date) DO NOTHING`,
		userID, pgtype.Date{Time: date, Valid: true})
	return err
}

// The per-field upserts below are each a single atomic statement, so two
// concurrent updates to the same day resolve last-write-wins per field.

func (q *Queries) UpsertDailyWater(ctx context.Context, userID string, date time.Time, oz float64) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO daily_records (user_id, record_date, water_oz) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, record_date) DO UPDATE SET water_oz = EXCLUDED.water_oz`,
		userID, pgtype.Date{Time: date, Valid: true}, oz)
	return err
}

func (q *Queries) UpsertDailySleep(ctx context.Context, userID string, date time.Time, hours float64) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO daily_records (user_id, record_date, sleep_hours) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, record_date) DO UPDATE SET sleep_hours = EXCLUDED.sleep_hours`,
		userID, pgtype.Date{Time: date, Valid: true}, hours)
	return err
}

func (q *Queries) UpsertDailyExercise(ctx context.Context, userID string, date time.Time, hours float64) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO daily_records (user_id, record_date, exercise_hours) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, record_date) DO UPDATE SET exercise_hours = EXCLUDED.exercise_hours`,
		userID, pgtype.Date{Time: date, Valid: true}, hours)
	return err
}

func (q *Queries) UpsertDailyJournal(ctx context.Context, userID string, date time.Time, journal string) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO daily_records (user_id, record_date, journal) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, record_date) DO UPDATE SET journal = EXCLUDED.journal`,
		userID, pgtype.Date{Time: date, Valid: true}, journal)
	return err
}

func (q *Queries) GetDailyRecord(ctx context.Context, userID string, date time.Time) (DailyRecord, error) {
	row := q.db.QueryRow(ctx, `
		SELECT user_id, record_date, water_oz, sleep_hours, exercise_hours, journal
		FROM daily_records WHERE user_id = $1 AND record_date = $2`,
		userID, pgtype.Date{Time: date, Valid: true})
	var r DailyRecord
	err := row.Scan(&r.UserID, &r.RecordDate, &r.WaterOz, &r.SleepHours, &r.ExerciseHours, &r.Journal)
	return r, wrapNoRows(err)
}

type GetDailyRecordsRangeParams struct {
	UserID    string
	StartDate time.Time
	EndDate   time.Time
}

// GetDailyRecordsRange returns the records between start and end inclusive.
// Days with no record are simply absent from the result.
func (q *Queries) GetDailyRecordsRange(ctx context.Context, arg GetDailyRecordsRangeParams) ([]DailyRecord, error) {
	rows, err := q.db.Query(ctx, `
		SELECT user_id, record_date, water_oz, sleep_hours, exercise_hours, journal
		FROM daily_records
		WHERE user_id = $1 AND record_date BETWEEN $2 AND $3
		ORDER BY record_date`,
		arg.UserID,
		pgtype.Date{Time: arg.StartDate, Valid: true},
		pgtype.Date{Time: arg.EndDate, Valid: true})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailyRecord
	for rows.Next() {
		var r DailyRecord
		if err := rows.Scan(&r.UserID, &r.RecordDate, &r.WaterOz, &r.SleepHours, &r.ExerciseHours, &r.Journal); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

/* =================================================================================
								LOCATIONS
=================================================================================*/

type UpsertUserLocationParams struct {
	UserID    string
	Latitude  pgtype.Numeric
	Longitude pgtype.Numeric
	Label     pgtype.Text
}

func (q *Queries) UpsertUserLocation(ctx context.Context, arg UpsertUserLocationParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO user_locations (user_id, latitude, longitude, label, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO UPDATE
		SET latitude = EXCLUDED.latitude,
		    longitude = EXCLUDED.longitude,
		    label = EXCLUDED.label,
		    updated_at = now()`,
		arg.UserID, arg.Latitude, arg.Longitude, arg.Label)
	return err
}

func (q *Queries) GetUserLocation(ctx context.Context, userID string) (UserLocation, error) {
	row := q.db.QueryRow(ctx, `
		SELECT user_id, latitude, longitude, label, updated_at
		FROM user_locations WHERE user_id = $1`, userID)
	var l UserLocation
	err := row.Scan(&l.UserID, &l.Latitude, &l.Longitude, &l.Label, &l.UpdatedAt)
	return l, wrapNoRows(err)
}

/* =================================================================================
							RECOMMENDATION TABLE
=================================================================================*/

func (q *Queries) ListRecommendedRanges(ctx context.Context) ([]RecommendedRange, error) {
	rows, err := q.db.Query(ctx, `
		SELECT age_bucket, gender_key, category, low_val, high_val FROM recommended_ranges`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecommendedRange
	for rows.Next() {
		var r RecommendedRange
		if err := rows.Scan(&r.AgeBucket, &r.GenderKey, &r.Category, &r.LowVal, &r.HighVal); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *Queries) CountRecommendedRanges(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM recommended_ranges`).Scan(&n)
	return n, err
}

func (q *Queries) InsertRecommendedRange(ctx context.Context, r RecommendedRange) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO recommended_ranges (age_bucket, gender_key, category, low_val, high_val)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (age_bucket, gender_key, category) DO NOTHING`,
		r.AgeBucket, r.GenderKey, r.Category, r.LowVal, r.HighVal)
	return err
}
