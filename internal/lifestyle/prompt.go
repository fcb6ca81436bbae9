package lifestyle

import (
	"fmt"
	"strings"
	"time"
)

// Midpoints carries the three resolved daily targets the prompt cites.
type Midpoints struct {
	WaterOz       float64
	SleepHours    float64
	ExerciseHours float64
}

// advicePromptTemplate is the fixed instruction sent to the text-generation
// service. The "exactly 15 recommendations" distribution rule is delegated
// to the model; only the prompt text is this package's contract.
const advicePromptTemplate = `You are a personal wellness coach. Based on the data below, write health advice for this user.

USER PROFILE:
- Age: %d years
- Gender: %s
- Height: %.1f feet
- Weight: %.1f lbs

TODAY (%s, %s):
- Water intake: %.1f oz (recommended %.1f oz per day)
- Sleep: %.1f hours (recommended %.1f hours per day)
- Exercise: %.1f hours (recommended %.1f hours per day)
- Journal entry: %q

CURRENT LIFESTYLE SCORE: %.2f on a 0.15-1.00 scale, computed from the last 14 days weighted 50%% sleep, 35%% water, 15%% exercise.

LOCATION: %s

Write exactly 15 numbered recommendations. Distribute them across sleep, water and exercise in proportion to (a) each category's scoring weight and (b) how far today's amount falls short of the recommended amount. Reference the journal entry where it is relevant. Keep each recommendation to one or two sentences, practical and specific to this user.`

// BuildPrompt assembles the advice prompt. Pure string formatting; the
// Gemini call happens elsewhere.
func BuildPrompt(record DailyRecord, profile UserProfile, score float64, targets Midpoints, location string, now time.Time) string {
	if strings.TrimSpace(location) == "" {
		location = "unknown"
	}
	return fmt.Sprintf(advicePromptTemplate,
		Age(profile.Birthday, now),
		string(profile.Gender),
		profile.HeightFeet,
		profile.WeightLbs,
		now.Format("Monday, January 2"),
		timeOfDay(now),
		record.WaterOz, targets.WaterOz,
		record.SleepHours, targets.SleepHours,
		record.ExerciseHours, targets.ExerciseHours,
		record.Journal,
		score,
		location,
	)
}

// timeOfDay buckets the hour into a label the model can reason about.
func timeOfDay(now time.Time) string {
	switch h := now.Hour(); {
	case h < 5:
		return "late night"
	case h < 12:
		return "morning"
	case h < 17:
		return "afternoon"
	case h < 21:
		return "evening"
	default:
		return "night"
	}
}
