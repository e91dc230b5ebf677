package testhelper

import "testing"

func TestDiffReportsNothingForEqualValues(t *testing.T) {
	type point struct{ X, Y int }
	if got := Diff(point{1, 2}, point{1, 2}); got != "" {
		t.Fatalf("expected no diff, got %q", got)
	}
}

func TestDiffReportsFieldMismatch(t *testing.T) {
	type point struct{ X, Y int }
	got := Diff(point{1, 2}, point{1, 3})
	if got == "" {
		t.Fatal("expected a non-empty diff for mismatched values")
	}
}
