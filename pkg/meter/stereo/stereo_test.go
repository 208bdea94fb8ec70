package stereo

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func monoWindow(n int, amp float32) ([]float32, []float32) {
	l := make([]float32, n)
	r := make([]float32, n)
	for i := 0; i < n; i++ {
		v := amp * float32(math.Sin(float64(i)*0.1))
		l[i] = v
		r[i] = v
	}
	return l, r
}

func TestMonoWindowCorrelationIsOne(t *testing.T) {
	a := New()
	l, r := monoWindow(2048, 0.5)
	snap := a.Process(l, r, time.Now())

	assert.InDelta(t, 1.0, snap.Correlation, 1e-6)
}

func TestAntiPhaseCorrelationIsMinusOne(t *testing.T) {
	a := New()
	l, r := monoWindow(2048, 0.5)
	for i := range r {
		r[i] = -l[i]
	}
	snap := a.Process(l, r, time.Now())

	assert.InDelta(t, -1.0, snap.Correlation, 1e-6)
}

func TestAntiPhaseCollapsesMidRaisesSide(t *testing.T) {
	a := New()
	l, r := monoWindow(2048, 0.5)
	for i := range r {
		r[i] = -l[i]
	}
	var snap Snapshot
	for i := 0; i < 200; i++ {
		snap = a.Process(l, r, time.Now())
	}

	assert.LessOrEqual(t, snap.MidDB, snap.SideDB, "expected mid to collapse below side in anti-phase signal")
}

func TestCorrelationStaysInRange(t *testing.T) {
	a := New()
	l := make([]float32, 4096)
	r := make([]float32, 4096)
	for i := range l {
		l[i] = float32(math.Sin(float64(i)*0.37)) * 0.9
		r[i] = float32(math.Sin(float64(i)*0.41+1.3)) * 0.6
	}
	snap := a.Process(l, r, time.Now())

	assert.GreaterOrEqual(t, snap.Correlation, -1.0)
	assert.LessOrEqual(t, snap.Correlation, 1.0)
}
