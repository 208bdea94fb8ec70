package stereo

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

// TestCorrelationInvariantHolds exercises SPEC_FULL.md invariant (1): for
// every finite (L,R) window, correlation stays within [-1,+1] regardless
// of amplitude or sample count.
func TestCorrelationInvariantHolds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(8, 4096).Draw(t, "n")
		l := make([]float32, n)
		r := make([]float32, n)
		for i := range l {
			l[i] = float32(rapid.Float64Range(-1, 1).Draw(t, "l"))
			r[i] = float32(rapid.Float64Range(-1, 1).Draw(t, "r"))
		}

		a := New()
		snap := a.Process(l, r, time.Now())

		if snap.Correlation < -1.0000001 || snap.Correlation > 1.0000001 {
			t.Fatalf("correlation out of range: %v", snap.Correlation)
		}
		if snap.Width < -0.0000001 || snap.Width > 1.0000001 {
			t.Fatalf("width out of range: %v", snap.Width)
		}
		if snap.BalanceDB < -12.0000001 || snap.BalanceDB > 12.0000001 {
			t.Fatalf("balance out of clamp range: %v", snap.BalanceDB)
		}
	})
}
