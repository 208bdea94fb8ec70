package truepeak

import (
	"math"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// TestDCSignalExactForAnyAmplitude exercises SPEC_FULL.md invariant (7):
// the 4x-Hermite True Peak of a pure DC signal at amplitude A equals
// 20*log10(A + floorEpsilon), for any amplitude in [1e-6, 1].
func TestDCSignalExactForAnyAmplitude(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		amplitude := rapid.Float64Range(1e-6, 1.0).Draw(t, "amplitude")
		n := rapid.IntRange(4, 64).Draw(t, "n")

		samples := make([]float32, n)
		for i := range samples {
			samples[i] = float32(amplitude)
		}

		got := toDBTP(maxAbsOversampled(samples))
		want := 20.0 * math.Log10(amplitude+floorEpsilon)

		if math.Abs(got-want) > 1e-4 {
			t.Fatalf("DC True Peak = %.9f, want %.9f (amplitude=%v)", got, want, amplitude)
		}
	})
}

// TestCumulativeMaxNeverDecreases exercises invariant (3): tp_max_cumulative
// is monotone non-decreasing across any sequence of updates until reset.
func TestCumulativeMaxNeverDecreases(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := New()
		now := time.Unix(0, 0)
		prev := math.Inf(-1)

		steps := rapid.IntRange(1, 20).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			amp := rapid.Float64Range(0, 1).Draw(t, "amp")
			block := make([]float32, 16)
			for j := range block {
				block[j] = float32(amp)
			}
			now = now.Add(10 * time.Millisecond)
			m.Update(block, block, now)

			cur := m.L.CumulativeMaxDB()
			if cur < prev-1e-9 {
				t.Fatalf("cumulative max decreased: %v -> %v", prev, cur)
			}
			prev = cur
		}
	})
}
