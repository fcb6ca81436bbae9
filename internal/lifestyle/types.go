// Package lifestyle holds the deterministic core of the wellness service:
// the recommendation resolver, the 14-day lifestyle score calculator and the
// advice prompt builder. Everything here is pure over its inputs; the only
// I/O happens through the RecordStore interface so the math is testable
// without a database or wall clock.
package lifestyle

import (
	"context"
	"errors"
	"time"
)

// Gender values as the clients send them.
type Gender string

const (
	GenderMale      Gender = "Male"
	GenderFemale    Gender = "Female"
	GenderNonBinary Gender = "Non-Binary"
)

// Valid reports whether g is one of the three recognized values. Handlers
// reject anything else; the resolver itself is more forgiving (see GenderKey).
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonBinary:
		return true
	}
	return false
}

// Category is one of the three tracked metrics.
type Category string

const (
	CategoryWater    Category = "water"
	CategorySleep    Category = "sleep"
	CategoryExercise Category = "exercise"
)

// AgeBucket partitions ages for the recommendation table.
type AgeBucket string

const (
	BucketChild      AgeBucket = "child"
	BucketTeen       AgeBucket = "teen"
	BucketYoungAdult AgeBucket = "youngadult"
	BucketAdult      AgeBucket = "adult"
	BucketElderly    AgeBucket = "elderly"
)

// Range is a recommended [low, high] daily target.
type Range struct {
	Low  float64
	High float64
}

// Midpoint is the target the score compares observed averages against.
func (r Range) Midpoint() float64 {
	return (r.Low + r.High) / 2
}

// ReferenceTable is the static recommendation data, keyed bucket → gender
// key → category.
type ReferenceTable map[AgeBucket]map[string]map[Category]Range

// UserProfile is the static user data scoring and prompting need.
type UserProfile struct {
	Birthday   time.Time
	Gender     Gender
	HeightFeet float64
	WeightLbs  float64
}

// DailyRecord is one day of metrics. Fields default to zero/empty when the
// user never set them.
type DailyRecord struct {
	Date          time.Time
	WaterOz       float64
	SleepHours    float64
	ExerciseHours float64
	Journal       string
}

// RecordStore is the read side of the health record store. Implementations
// return (nil, nil) when the profile or record simply does not exist.
type RecordStore interface {
	Profile(ctx context.Context, uid string) (*UserProfile, error)
	Record(ctx context.Context, uid string, date time.Time) (*DailyRecord, error)
}

var (
	// ErrInvalidInput marks caller mistakes: bad age, unknown category,
	// or a reference table with no entry for the lookup.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProfileMissing means the user has not set up their profile yet.
	ErrProfileMissing = errors.New("profile missing")
)

// Age returns full years between birthday and now, the way a person states
// their age.
func Age(birthday, now time.Time) int {
	years := now.Year() - birthday.Year()
	anniversary := birthday.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
