package truepeak

import (
	"math"
	"testing"
	"time"
)

func TestDCSignalExact(t *testing.T) {
	const amplitude = 0.5
	samples := make([]float32, 16)
	for i := range samples {
		samples[i] = amplitude
	}

	got := toDBTP(maxAbsOversampled(samples))
	want := 20.0 * math.Log10(amplitude)

	if math.Abs(got-want) > 1e-6 {
		t.Errorf("DC True Peak = %.9f, want %.9f", got, want)
	}
}

func TestFallsBackToSamplePeakBelowFourSamples(t *testing.T) {
	samples := []float32{0.1, -0.9, 0.2}
	got := maxAbsOversampled(samples)
	// the samples are float32, so the peak is float32(0.9), not 0.9
	want := float64(float32(0.9))
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("sample-peak fallback = %.9f, want %.9f", got, want)
	}
}

func TestPeakHoldDecaysAfterThreeSeconds(t *testing.T) {
	m := New()
	now := time.Now()

	loud := make([]float32, 16)
	for i := range loud {
		loud[i] = 0.9
	}
	m.Update(loud, loud, now)
	if m.L.HoldDB() < m.L.CurrentDB()-1e-9 {
		t.Fatalf("hold (%v) below current (%v)", m.L.HoldDB(), m.L.CurrentDB())
	}

	quiet := make([]float32, 16)
	for i := range quiet {
		quiet[i] = 0.1
	}

	// Before 3s: hold stays at or above current and has not decayed.
	m.Update(quiet, quiet, now.Add(1*time.Second))
	if m.L.HoldDB() < m.L.CurrentDB()-1e-9 {
		t.Errorf("hold (%v) below current (%v)", m.L.HoldDB(), m.L.CurrentDB())
	}
	if m.L.HoldDB() <= toDBTP(0.1)+0.01 {
		t.Errorf("hold decayed too early: %v", m.L.HoldDB())
	}

	// After 3s: hold decays to the smoothed current level (about -9.3
	// dBTP here, since the smoother is still falling toward -20 dBTP).
	m.Update(quiet, quiet, now.Add(3100*time.Millisecond))
	if math.Abs(m.L.HoldDB()-m.L.CurrentDB()) > 1e-9 {
		t.Errorf("hold did not decay to current after 3s: hold %v, current %v", m.L.HoldDB(), m.L.CurrentDB())
	}
}

func TestCumulativeMaxMonotoneUntilReset(t *testing.T) {
	m := New()
	now := time.Now()

	loud := []float32{0.8, 0.8, 0.8, 0.8}
	quiet := []float32{0.1, 0.1, 0.1, 0.1}

	m.Update(loud, loud, now)
	peakAfterLoud := m.L.CumulativeMaxDB()

	m.Update(quiet, quiet, now.Add(10*time.Millisecond))
	if m.L.CumulativeMaxDB() < peakAfterLoud-1e-9 {
		t.Errorf("cumulative max decreased: %v -> %v", peakAfterLoud, m.L.CumulativeMaxDB())
	}

	m.Reset()
	if !math.IsInf(m.L.CumulativeMaxDB(), -1) {
		t.Errorf("cumulative max after reset = %v, want -Inf", m.L.CumulativeMaxDB())
	}
}
