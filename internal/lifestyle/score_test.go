package lifestyle

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

// fakeStore serves records keyed by ISO date. Order of insertion is
// irrelevant to the calculator.
type fakeStore struct {
	profile *UserProfile
	records map[string]*DailyRecord
	err     error
}

func (f *fakeStore) Profile(ctx context.Context, uid string) (*UserProfile, error) {
	return f.profile, f.err
}

func (f *fakeStore) Record(ctx context.Context, uid string, date time.Time) (*DailyRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records[date.Format("2006-01-02")], nil
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func adultProfile() *UserProfile {
	// 40 years old at testNow.
	return &UserProfile{
		Birthday:   time.Date(1985, 3, 1, 0, 0, 0, 0, time.UTC),
		Gender:     GenderMale,
		HeightFeet: 5.9,
		WeightLbs:  170,
	}
}

func TestComputeScoreNoRecordsReturnsFloor(t *testing.T) {
	store := &fakeStore{profile: adultProfile(), records: map[string]*DailyRecord{}}

	score, err := ComputeScore(context.Background(), store, testTable(), "u1", testNow)
	if err != nil {
		t.Fatalf("ComputeScore: %v", err)
	}
	if score != ScoreFloor {
		t.Errorf("score = %v, want exactly %v", score, ScoreFloor)
	}
}

func TestComputeScoreMissingProfile(t *testing.T) {
	store := &fakeStore{profile: nil, records: map[string]*DailyRecord{}}

	_, err := ComputeScore(context.Background(), store, testTable(), "u1", testNow)
	if !errors.Is(err, ErrProfileMissing) {
		t.Errorf("got %v, want ErrProfileMissing", err)
	}
}

func TestComputeScorePerfectFortnight(t *testing.T) {
	// Every day of the window at exactly the recommended midpoints
	// (water 120 oz, sleep 8 h, exercise 1 h) must score exactly 1.0.
	records := map[string]*DailyRecord{}
	for i := 0; i < WindowDays; i++ {
		day := testNow.AddDate(0, 0, -i)
		records[day.Format("2006-01-02")] = &DailyRecord{
			Date: day, WaterOz: 120, SleepHours: 8, ExerciseHours: 1,
		}
	}
	store := &fakeStore{profile: adultProfile(), records: records}

	score, err := ComputeScore(context.Background(), store, testTable(), "u1", testNow)
	if err != nil {
		t.Fatalf("ComputeScore: %v", err)
	}
	if math.Abs(score-1.0) > 1e-12 {
		t.Errorf("score = %v, want 1.0", score)
	}
}

func TestComputeScoreSkipsMissingDays(t *testing.T) {
	// One perfect day in the window; the other 13 days are absent and must
	// not drag the averages down.
	day := testNow.AddDate(0, 0, -3)
	store := &fakeStore{
		profile: adultProfile(),
		records: map[string]*DailyRecord{
			day.Format("2006-01-02"): {Date: day, WaterOz: 120, SleepHours: 8, ExerciseHours: 1},
		},
	}

	score, err := ComputeScore(context.Background(), store, testTable(), "u1", testNow)
	if err != nil {
		t.Fatalf("ComputeScore: %v", err)
	}
	if math.Abs(score-1.0) > 1e-12 {
		t.Errorf("score = %v, want 1.0 (missing days skipped, not zeroed)", score)
	}
}

func TestComputeScoreIgnoresRecordsOutsideWindow(t *testing.T) {
	// A record 20 days back is outside the 14-day window; only the weak
	// recent day should count.
	old := testNow.AddDate(0, 0, -20)
	recent := testNow.AddDate(0, 0, -1)
	store := &fakeStore{
		profile: adultProfile(),
		records: map[string]*DailyRecord{
			old.Format("2006-01-02"):    {Date: old, WaterOz: 120, SleepHours: 8, ExerciseHours: 1},
			recent.Format("2006-01-02"): {Date: recent, WaterOz: 60, SleepHours: 4, ExerciseHours: 0.5},
		},
	}

	score, err := ComputeScore(context.Background(), store, testTable(), "u1", testNow)
	if err != nil {
		t.Fatalf("ComputeScore: %v", err)
	}
	// water 60/120=0.5, sleep 4/8=0.5, exercise 0.5/1=0.5 → raw 0.5
	want := ScoreFloor + (1-ScoreFloor)*0.5
	if math.Abs(score-want) > 1e-12 {
		t.Errorf("score = %v, want %v", score, want)
	}
}

func TestComputeScoreCapsOverachievement(t *testing.T) {
	// Double the recommendation in every category still scores 1.0; each
	// ratio is capped before weighting.
	records := map[string]*DailyRecord{}
	for i := 0; i < WindowDays; i++ {
		day := testNow.AddDate(0, 0, -i)
		records[day.Format("2006-01-02")] = &DailyRecord{
			Date: day, WaterOz: 240, SleepHours: 16, ExerciseHours: 2,
		}
	}
	store := &fakeStore{profile: adultProfile(), records: records}

	score, err := ComputeScore(context.Background(), store, testTable(), "u1", testNow)
	if err != nil {
		t.Fatalf("ComputeScore: %v", err)
	}
	if math.Abs(score-1.0) > 1e-12 {
		t.Errorf("score = %v, want 1.0", score)
	}
}

func TestComputeScoreZeroMidpointGuard(t *testing.T) {
	// A degenerate reference range with midpoint 0 zeroes that category
	// instead of producing NaN or Inf.
	table := testTable()
	for _, b := range []AgeBucket{BucketChild, BucketTeen, BucketYoungAdult, BucketAdult, BucketElderly} {
		for _, g := range []string{"male", "female", "non-binary"} {
			table[b][g][CategoryWater] = Range{Low: 0, High: 0}
		}
	}
	day := testNow
	store := &fakeStore{
		profile: adultProfile(),
		records: map[string]*DailyRecord{
			day.Format("2006-01-02"): {Date: day, WaterOz: 64, SleepHours: 8, ExerciseHours: 1},
		},
	}

	score, err := ComputeScore(context.Background(), store, table, "u1", testNow)
	if err != nil {
		t.Fatalf("ComputeScore: %v", err)
	}
	// raw = 0.5*1 + 0.35*0 + 0.15*1 = 0.65
	want := ScoreFloor + (1-ScoreFloor)*0.65
	if math.Abs(score-want) > 1e-12 {
		t.Errorf("score = %v, want %v", score, want)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		t.Fatalf("score must stay finite, got %v", score)
	}
}

func TestComputeScoreAlwaysInDisplayRange(t *testing.T) {
	inputs := []DailyRecord{
		{WaterOz: 0, SleepHours: 0, ExerciseHours: 0},
		{WaterOz: 1, SleepHours: 0.1, ExerciseHours: 0},
		{WaterOz: 64, SleepHours: 6, ExerciseHours: 0.25},
		{WaterOz: 500, SleepHours: 24, ExerciseHours: 10},
	}
	for _, in := range inputs {
		records := map[string]*DailyRecord{}
		for i := 0; i < 5; i++ {
			day := testNow.AddDate(0, 0, -i)
			rec := in
			rec.Date = day
			records[day.Format("2006-01-02")] = &rec
		}
		store := &fakeStore{profile: adultProfile(), records: records}

		score, err := ComputeScore(context.Background(), store, testTable(), "u1", testNow)
		if err != nil {
			t.Fatalf("ComputeScore(%+v): %v", in, err)
		}
		if score < ScoreFloor || score > 1.0 {
			t.Errorf("score %v for %+v outside [%v, 1.0]", score, in, ScoreFloor)
		}
	}
}

func TestComputeScoreOrderInvariant(t *testing.T) {
	// The calculator walks days deterministically, so any storage order of
	// the same records yields the same score. Build the same multiset twice
	// with different insertion orders.
	build := func(days []int) *fakeStore {
		records := map[string]*DailyRecord{}
		for _, i := range days {
			day := testNow.AddDate(0, 0, -i)
			records[day.Format("2006-01-02")] = &DailyRecord{
				Date: day, WaterOz: float64(40 + 10*i), SleepHours: float64(5 + i%4), ExerciseHours: 0.5,
			}
		}
		return &fakeStore{profile: adultProfile(), records: records}
	}

	a, err := ComputeScore(context.Background(), build([]int{0, 2, 5, 9, 13}), testTable(), "u1", testNow)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ComputeScore(context.Background(), build([]int{13, 5, 0, 9, 2}), testTable(), "u1", testNow)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("score depends on record order: %v vs %v", a, b)
	}
}

func TestComputeScoreIdempotent(t *testing.T) {
	store := &fakeStore{
		profile: adultProfile(),
		records: map[string]*DailyRecord{
			testNow.Format("2006-01-02"): {Date: testNow, WaterOz: 64, SleepHours: 7, ExerciseHours: 0.5},
		},
	}
	first, err := ComputeScore(context.Background(), store, testTable(), "u1", testNow)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		again, err := ComputeScore(context.Background(), store, testTable(), "u1", testNow)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("recomputation %d changed the score: %v vs %v", i, again, first)
		}
	}
}
