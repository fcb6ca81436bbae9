package lifestyle

import (
	"strings"
	"testing"
	"time"
)

func TestBuildPromptContent(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	record := DailyRecord{
		Date: now, WaterOz: 64, SleepHours: 8, ExerciseHours: 1,
		Journal: "felt good",
	}
	profile := UserProfile{
		Birthday:   time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		Gender:     GenderMale,
		HeightFeet: 5.9,
		WeightLbs:  160,
	}
	targets := Midpoints{WaterOz: 120, SleepHours: 8, ExerciseHours: 1}

	prompt := BuildPrompt(record, profile, 0.87, targets, "Austin, TX", now)

	for _, want := range []string{
		"Age: 25 years",
		"Gender: Male",
		"Height: 5.9 feet",
		"Weight: 160.0 lbs",
		"Water intake: 64.0 oz (recommended 120.0 oz per day)",
		"Sleep: 8.0 hours (recommended 8.0 hours per day)",
		"Exercise: 1.0 hours (recommended 1.0 hours per day)",
		`Journal entry: "felt good"`,
		"CURRENT LIFESTYLE SCORE: 0.87",
		"LOCATION: Austin, TX",
		"morning",
		"exactly 15 numbered recommendations",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q\n---\n%s", want, prompt)
		}
	}
}

func TestBuildPromptUnknownLocation(t *testing.T) {
	now := time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC)
	prompt := BuildPrompt(DailyRecord{}, UserProfile{Birthday: now.AddDate(-30, 0, 0), Gender: GenderFemale}, 0.15, Midpoints{}, "  ", now)

	if !strings.Contains(prompt, "LOCATION: unknown") {
		t.Error("blank location should render as unknown")
	}
	if !strings.Contains(prompt, "night") {
		t.Error("23:00 should be labeled night")
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		birthday time.Time
		want     int
	}{
		{time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), 25},
		{time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC), 25}, // birthday today
		{time.Date(2000, 6, 16, 0, 0, 0, 0, time.UTC), 24}, // birthday tomorrow
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 0},   // future birthday clamps to 0
	}
	for _, tc := range cases {
		if got := Age(tc.birthday, now); got != tc.want {
			t.Errorf("Age(%s) = %d, want %d", tc.birthday.Format("2006-01-02"), got, tc.want)
		}
	}
}
