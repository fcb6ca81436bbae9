package lifestyle

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Scoring weights: sleep dominates, water matters, exercise nudges.
const (
	WeightSleep    = 0.50
	WeightWater    = 0.35
	WeightExercise = 0.15

	// ScoreFloor is both the empty-data score and the bottom of the
	// displayed range: the raw [0,1] sum is rescaled into [0.15, 1.0] so a
	// user never sees a literal zero.
	ScoreFloor = 0.15

	// WindowDays is the rolling window the score aggregates over.
	WindowDays = 14
)

// ComputeScore aggregates the user's last 14 calendar days (ending at now,
// inclusive) into a lifestyle score in [0.15, 1.0].
//
// Days with no record are skipped, not counted as zero. With no recorded
// days at all the score is exactly the floor. The result is a pure function
// of the profile and the multiset of available records; now is explicit so
// callers control the clock.
func ComputeScore(ctx context.Context, store RecordStore, table ReferenceTable, uid string, now time.Time) (float64, error) {
	profile, err := store.Profile(ctx, uid)
	if err != nil {
		return 0, fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil {
		return 0, ErrProfileMissing
	}

	var sumWater, sumSleep, sumExercise float64
	var days int
	for i := 0; i < WindowDays; i++ {
		day := now.AddDate(0, 0, -i)
		rec, err := store.Record(ctx, uid, day)
		if err != nil {
			return 0, fmt.Errorf("fetch record %s: %w", day.Format("2006-01-02"), err)
		}
		if rec == nil {
			continue
		}
		sumWater += rec.WaterOz
		sumSleep += rec.SleepHours
		sumExercise += rec.ExerciseHours
		days++
	}

	if days == 0 {
		return ScoreFloor, nil
	}

	age := Age(profile.Birthday, now)
	waterScore := categoryScore(sumWater/float64(days), midpointOrZero(table, age, profile.Gender, CategoryWater))
	sleepScore := categoryScore(sumSleep/float64(days), midpointOrZero(table, age, profile.Gender, CategorySleep))
	exerciseScore := categoryScore(sumExercise/float64(days), midpointOrZero(table, age, profile.Gender, CategoryExercise))

	raw := WeightSleep*sleepScore + WeightWater*waterScore + WeightExercise*exerciseScore
	score := math.Min(ScoreFloor+(1-ScoreFloor)*raw, 1.0)

	// Anything non-finite that slipped through collapses to the floor
	// instead of propagating NaN to clients.
	if !isFinite(score) {
		return ScoreFloor, nil
	}
	return score, nil
}

// categoryScore is observed/target capped at 1. A zero or invalid target
// scores the category 0 rather than dividing by zero.
func categoryScore(observed, target float64) float64 {
	if target <= 0 || !isFinite(observed) {
		return 0
	}
	return math.Min(observed/target, 1.0)
}

// midpointOrZero swallows resolver failures: a gap in the reference table
// zeroes that category instead of failing the whole score.
func midpointOrZero(table ReferenceTable, age int, gender Gender, category Category) float64 {
	r, err := Resolve(table, age, gender, category)
	if err != nil {
		return 0
	}
	return r.Midpoint()
}
