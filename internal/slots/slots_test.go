package slots

import (
	"errors"
	"testing"
)

func TestMergeIdempotentOnEmptyExtraction(t *testing.T) {
	min, max := 1000.0, 1500.0
	current := MoveSlots{
		Origin:      "New York",
		Destination: "Vegas",
		MoveSize:    "2-bedroom",
		MoveDate:    "2026-03-31",
		Services:    []string{"packing"},
		CostMin:     &min,
		CostMax:     &max,
	}

	updated, invalidated, err := Merge(current, Extracted{}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if invalidated {
		t.Fatal("empty extraction must not invalidate the estimate")
	}
	if updated.Origin != current.Origin || updated.Destination != current.Destination ||
		updated.MoveSize != current.MoveSize || updated.MoveDate != current.MoveDate {
		t.Fatalf("empty extraction changed slots: %+v", updated)
	}
	if !updated.HasEstimate() {
		t.Fatal("estimate must survive an empty merge")
	}
}

func TestMergeNeverErasesFields(t *testing.T) {
	current := MoveSlots{Origin: "Boston", Destination: "Miami"}
	updated, _, err := Merge(current, Extracted{MoveSize: "studio"}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Origin != "Boston" || updated.Destination != "Miami" {
		t.Fatal("previously set fields were cleared by a partial turn")
	}
	if updated.MoveSize != "studio" {
		t.Fatalf("MoveSize = %q, want studio", updated.MoveSize)
	}
}

func TestMergeInvalidatesEstimateOnDrivingFieldChange(t *testing.T) {
	min, max := 1000.0, 1500.0
	base := MoveSlots{
		Origin:      "New York",
		Destination: "Vegas",
		MoveSize:    "2-bedroom",
		MoveDate:    "2026-03-31",
		CostMin:     &min,
		CostMax:     &max,
	}

	cases := []struct {
		name string
		ex   Extracted
	}{
		{name: "origin", ex: Extracted{Origin: "Chicago"}},
		{name: "destination", ex: Extracted{Destination: "Houston"}},
		{name: "size", ex: Extracted{MoveSize: "3 bedroom"}},
		{name: "date", ex: Extracted{MoveDate: "2026-05-01"}},
		{name: "services alone", ex: Extracted{Services: []string{"storage"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			updated, invalidated, err := Merge(base, tc.ex, testNow)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !invalidated {
				t.Fatal("estimate-driving change must report invalidation")
			}
			if updated.HasEstimate() {
				t.Fatal("stale cost range must be cleared")
			}
		})
	}
}

func TestMergeSameValueDoesNotInvalidate(t *testing.T) {
	min, max := 1000.0, 1500.0
	base := MoveSlots{
		Origin:  "New York",
		CostMin: &min,
		CostMax: &max,
	}
	// Case-insensitive comparison: "new york" is not a change.
	updated, invalidated, err := Merge(base, Extracted{Origin: "new york"}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if invalidated {
		t.Fatal("re-stating the same origin must not invalidate the estimate")
	}
	if !updated.HasEstimate() {
		t.Fatal("estimate must survive")
	}
}

func TestMergeRejectsBadDateKeepsRest(t *testing.T) {
	current := MoveSlots{MoveDate: "2026-03-31"}
	updated, _, err := Merge(current, Extracted{Origin: "Chicago", MoveDate: "2020-01-01"}, testNow)
	if !errors.Is(err, ErrDateInPast) {
		t.Fatalf("error = %v, want ErrDateInPast", err)
	}
	if updated.MoveDate != "2026-03-31" {
		t.Fatalf("rejected date must leave the field unchanged, got %q", updated.MoveDate)
	}
	if updated.Origin != "Chicago" {
		t.Fatal("other fields must still merge when the date is rejected")
	}
}

func TestMergeServicesSetUnion(t *testing.T) {
	current := MoveSlots{Services: []string{"packing"}}
	updated, _, err := Merge(current, Extracted{Services: []string{"Packing", "storage", "piano"}}, testNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Services) != 2 || updated.Services[0] != "packing" || updated.Services[1] != "storage" {
		t.Fatalf("Services = %v, want [packing storage]", updated.Services)
	}
}

func TestMissingForEstimate(t *testing.T) {
	s := MoveSlots{Origin: "Boston", MoveSize: "studio"}
	missing := s.MissingForEstimate()
	if len(missing) != 2 || missing[0] != FieldDestination || missing[1] != FieldMoveDate {
		t.Fatalf("MissingForEstimate = %v", missing)
	}
	if s.RequiredForEstimate() {
		t.Fatal("RequiredForEstimate should be false with missing fields")
	}
}
