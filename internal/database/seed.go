package database

import (
	"context"
	"log"
)

// referenceRanges is the static recommendation table: daily targets per age
// bucket, gender key and category. Water is in ounces, sleep and exercise in
// hours. Read-only after seeding.
var referenceRanges = []RecommendedRange{
	// child (<= 12)
	{"child", "male", "water", 40, 60},
	{"child", "male", "sleep", 9, 12},
	{"child", "male", "exercise", 1, 2},
	{"child", "female", "water", 40, 60},
	{"child", "female", "sleep", 9, 12},
	{"child", "female", "exercise", 1, 2},
	{"child", "non-binary", "water", 40, 60},
	{"child", "non-binary", "sleep", 9, 12},
	{"child", "non-binary", "exercise", 1, 2},

	// teen (13-17)
	{"teen", "male", "water", 75, 105},
	{"teen", "male", "sleep", 8, 10},
	{"teen", "male", "exercise", 1, 1.5},
	{"teen", "female", "water", 60, 80},
	{"teen", "female", "sleep", 8, 10},
	{"teen", "female", "exercise", 1, 1.5},
	{"teen", "non-binary", "water", 65, 95},
	{"teen", "non-binary", "sleep", 8, 10},
	{"teen", "non-binary", "exercise", 1, 1.5},

	// youngadult (18-29)
	{"youngadult", "male", "water", 100, 135},
	{"youngadult", "male", "sleep", 7, 9},
	{"youngadult", "male", "exercise", 0.75, 1.5},
	{"youngadult", "female", "water", 70, 95},
	{"youngadult", "female", "sleep", 7, 9},
	{"youngadult", "female", "exercise", 0.75, 1.5},
	{"youngadult", "non-binary", "water", 85, 115},
	{"youngadult", "non-binary", "sleep", 7, 9},
	{"youngadult", "non-binary", "exercise", 0.75, 1.5},

	// adult (30-64)
	{"adult", "male", "water", 100, 135},
	{"adult", "male", "sleep", 7, 9},
	{"adult", "male", "exercise", 0.5, 1},
	{"adult", "female", "water", 70, 95},
	{"adult", "female", "sleep", 7, 9},
	{"adult", "female", "exercise", 0.5, 1},
	{"adult", "non-binary", "water", 85, 115},
	{"adult", "non-binary", "sleep", 7, 9},
	{"adult", "non-binary", "exercise", 0.5, 1},

	// elderly (65+)
	{"elderly", "male", "water", 90, 120},
	{"elderly", "male", "sleep", 7, 8},
	{"elderly", "male", "exercise", 0.5, 0.75},
	{"elderly", "female", "water", 65, 90},
	{"elderly", "female", "sleep", 7, 8},
	{"elderly", "female", "exercise", 0.5, 0.75},
	{"elderly", "non-binary", "water", 75, 105},
	{"elderly", "non-binary", "sleep", 7, 8},
	{"elderly", "non-binary", "exercise", 0.5, 0.75},
}

// seedRecommendedRanges fills the reference table on first boot. Existing
// rows win, so operators can tune targets in place without being overwritten.
func seedRecommendedRanges(ctx context.Context, q *Queries) error {
	n, err := q.CountRecommendedRanges(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, r := range referenceRanges {
		if err := q.InsertRecommendedRange(ctx, r); err != nil {
			return err
		}
	}
	log.Printf("Seeded recommendation table with %d ranges", len(referenceRanges))
	return nil
}
