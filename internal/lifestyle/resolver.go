package lifestyle

import (
	"fmt"
	"math"
)

// BucketForAge maps an age in years to its bucket. Boundaries are inclusive
// at each threshold: 12 is still child, 17 still teen, 29 still youngadult,
// 64 still adult.
func BucketForAge(age int) AgeBucket {
	switch {
	case age <= 12:
		return BucketChild
	case age <= 17:
		return BucketTeen
	case age <= 29:
		return BucketYoungAdult
	case age <= 64:
		return BucketAdult
	default:
		return BucketElderly
	}
}

// GenderKey maps a profile gender to its reference table key. Unrecognized
// values fall back to "male" — a long-standing client compatibility quirk,
// flagged for product review; do not "fix" without coordinating a data
// migration.
func GenderKey(g Gender) string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	case GenderNonBinary:
		return "non-binary"
	default:
		return "male"
	}
}

// Resolve looks up the recommended range for an age, gender and category in
// the supplied reference table. Pure; no side effects.
func Resolve(table ReferenceTable, age int, gender Gender, category Category) (Range, error) {
	if age < 0 {
		return Range{}, fmt.Errorf("%w: age %d", ErrInvalidInput, age)
	}
	switch category {
	case CategoryWater, CategorySleep, CategoryExercise:
	default:
		return Range{}, fmt.Errorf("%w: category %q", ErrInvalidInput, category)
	}

	bucket := BucketForAge(age)
	byGender, ok := table[bucket]
	if !ok {
		return Range{}, fmt.Errorf("%w: no reference data for bucket %q", ErrInvalidInput, bucket)
	}
	byCategory, ok := byGender[GenderKey(gender)]
	if !ok {
		return Range{}, fmt.Errorf("%w: no reference data for gender %q", ErrInvalidInput, GenderKey(gender))
	}
	r, ok := byCategory[category]
	if !ok {
		return Range{}, fmt.Errorf("%w: no reference data for category %q", ErrInvalidInput, category)
	}
	if !isFinite(r.Low) || !isFinite(r.High) {
		return Range{}, fmt.Errorf("%w: non-finite reference range", ErrInvalidInput)
	}
	return r, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
