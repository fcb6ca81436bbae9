package lifestyle

import (
	"errors"
	"testing"
)

func testTable() ReferenceTable {
	ranges := map[Category]Range{
		CategoryWater:    {Low: 100, High: 140}, // midpoint 120
		CategorySleep:    {Low: 7, High: 9},     // midpoint 8
		CategoryExercise: {Low: 0.5, High: 1.5}, // midpoint 1
	}
	table := ReferenceTable{}
	for _, b := range []AgeBucket{BucketChild, BucketTeen, BucketYoungAdult, BucketAdult, BucketElderly} {
		table[b] = map[string]map[Category]Range{
			"male":       ranges,
			"female":     ranges,
			"non-binary": ranges,
		}
	}
	return table
}

func TestBucketForAgeBoundaries(t *testing.T) {
	cases := []struct {
		age  int
		want AgeBucket
	}{
		{0, BucketChild},
		{11, BucketChild},
		{12, BucketChild}, // inclusive threshold: 12 is still a child
		{13, BucketTeen},
		{17, BucketTeen},
		{18, BucketYoungAdult},
		{29, BucketYoungAdult},
		{30, BucketAdult},
		{64, BucketAdult},
		{65, BucketElderly},
		{99, BucketElderly},
	}
	for _, tc := range cases {
		if got := BucketForAge(tc.age); got != tc.want {
			t.Errorf("BucketForAge(%d) = %q, want %q", tc.age, got, tc.want)
		}
	}
}

func TestGenderKeyDefaultsToMale(t *testing.T) {
	cases := map[Gender]string{
		GenderMale:      "male",
		GenderFemale:    "female",
		GenderNonBinary: "non-binary",
		Gender("Other"): "male",
		Gender(""):      "male",
	}
	for g, want := range cases {
		if got := GenderKey(g); got != want {
			t.Errorf("GenderKey(%q) = %q, want %q", g, got, want)
		}
	}
}

func TestResolve(t *testing.T) {
	table := testTable()

	r, err := Resolve(table, 25, GenderFemale, CategorySleep)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Low != 7 || r.High != 9 {
		t.Errorf("got range %+v, want [7,9]", r)
	}
	if r.Midpoint() != 8 {
		t.Errorf("Midpoint() = %v, want 8", r.Midpoint())
	}
}

func TestResolveInvalidInput(t *testing.T) {
	table := testTable()

	if _, err := Resolve(table, -1, GenderMale, CategoryWater); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative age: got %v, want ErrInvalidInput", err)
	}
	if _, err := Resolve(table, 25, GenderMale, Category("steps")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown category: got %v, want ErrInvalidInput", err)
	}
	if _, err := Resolve(ReferenceTable{}, 25, GenderMale, CategoryWater); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty table: got %v, want ErrInvalidInput", err)
	}
}

func TestResolveUnknownGenderUsesMaleRow(t *testing.T) {
	table := testTable()
	table[BucketAdult]["male"] = map[Category]Range{CategoryWater: {Low: 1, High: 3}}

	r, err := Resolve(table, 40, Gender("Other"), CategoryWater)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Low != 1 || r.High != 3 {
		t.Errorf("unknown gender should hit the male row, got %+v", r)
	}
}
