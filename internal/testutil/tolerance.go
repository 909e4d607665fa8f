package testutil

import (
	"math"
	"testing"
)

// RequireRelativeError fails t if got deviates from want by more than rel
// (e.g. 0.03 for 3%).
func RequireRelativeError(t *testing.T, got, want, rel float64) {
	t.Helper()
	if want == 0 {
		t.Fatalf("relative error undefined for want = 0 (got %v)", got)
	}
	if err := math.Abs(got-want) / math.Abs(want); err > rel || math.IsNaN(err) {
		t.Fatalf("got %v, want %v (relative error %.4f > %.4f)", got, want, err, rel)
	}
}

// RequireWithinCents fails t if got and want are more than cents apart
// on the pitch scale.
func RequireWithinCents(t *testing.T, got, want, cents float64) {
	t.Helper()
	if got <= 0 || want <= 0 {
		t.Fatalf("cents undefined: got %v, want %v", got, want)
	}
	if d := math.Abs(1200 * math.Log2(got/want)); d > cents || math.IsNaN(d) {
		t.Fatalf("got %v Hz, want %v Hz (%.2f cents apart > %.2f)", got, want, d, cents)
	}
}
