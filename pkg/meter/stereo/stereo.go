// Package stereo implements one-pass-per-window stereo field analysis:
// correlation, L/R balance, Mid/Side width, Mid/Side levels, and
// principal-axis rotation.
package stereo

import (
	"math"
	"time"
)

const (
	epsilon = 1e-12

	widthSmoothAlpha = 0.15
	levelSmoothAlpha = 0.15
	rotationAlpha    = 0.04
	rotationDeadZone = 0.05

	widthHoldSeconds = 3.0
	rotationHistLen  = 25

	levelFloorDB = -60.0
)

// Analyzer holds the smoothed state that persists across ticks.
type Analyzer struct {
	width      float64
	widthHold  float64
	widthHeld  time.Time

	midDB  float64
	sideDB float64

	rotation     float64
	rotationHist []float64
}

// New creates a stereo analyzer with neutral initial state.
func New() *Analyzer {
	return &Analyzer{
		widthHold:    0,
		midDB:        levelFloorDB,
		sideDB:       levelFloorDB,
		rotationHist: make([]float64, 0, rotationHistLen),
	}
}

// Snapshot is the set of per-tick stereo-field readings.
type Snapshot struct {
	Correlation float64 // [-1, +1]
	BalanceDB   float64 // clamped [-12, +12], + means L louder
	Width       float64 // smoothed [0,1]
	WidthHold   float64 // 3s peak-hold of Width
	MidDB       float64 // smoothed, floored at -60
	SideDB      float64 // smoothed, floored at -60
	Rotation    float64 // smoothed, [-1, +1], dead-zoned near 0
	History     []float64
}

// Process runs one analysis pass over the window and returns the
// resulting snapshot. now is used to drive the width peak-hold timer.
func (a *Analyzer) Process(left, right []float32, now time.Time) Snapshot {
	n := len(left)
	if n == 0 || len(right) != n {
		return a.snapshot()
	}

	var sumM2, sumS2, sumL2, sumR2, sumLR float64
	for i := 0; i < n; i++ {
		l := float64(left[i])
		r := float64(right[i])
		m := (l + r) / 2
		s := (r - l) / 2

		sumM2 += m * m
		sumS2 += s * s
		sumL2 += l * l
		sumR2 += r * r
		sumLR += l * r
	}
	if s := sumL2 + sumR2 + sumLR; math.IsNaN(s) || math.IsInf(s, 0) {
		return a.snapshot()
	}

	rmsL :=math.Sqrt(sumL2 / float64(n))
	rmsR := math.Sqrt(sumR2 / float64(n))
	rmsM := math.Sqrt(sumM2 / float64(n))
	rmsS := math.Sqrt(sumS2 / float64(n))

	correlation := sumLR / math.Sqrt(sumL2*sumR2+epsilon)
	correlation = clamp(correlation, -1, 1)

	balance := 20 * math.Log10((rmsL+epsilon)/(rmsR+epsilon))
	balance = clamp(balance, -12, 12)

	rawWidth := rmsS / (rmsM + rmsS + epsilon)
	a.width = smooth(a.width, rawWidth, widthSmoothAlpha)
	if a.width > a.widthHold {
		a.widthHold = a.width
		a.widthHeld = now
	} else if !a.widthHeld.IsZero() && now.Sub(a.widthHeld) > widthHoldSeconds*time.Second {
		a.widthHold = a.width
	}

	a.midDB = smooth(a.midDB, floorDB(rmsM), levelSmoothAlpha)
	a.sideDB = smooth(a.sideDB, floorDB(rmsS), levelSmoothAlpha)

	rawRotation := 0.5 * math.Atan2(2*sumLR, sumL2-sumR2)
	rawRotation = clamp(rawRotation/(math.Pi/4), -1, 1)
	if math.Abs(rawRotation) < rotationDeadZone {
		rawRotation = 0
	}
	a.rotation = smooth(a.rotation, rawRotation, rotationAlpha)
	a.pushRotationHistory(a.rotation)

	return Snapshot{
		Correlation: correlation,
		BalanceDB:   balance,
		Width:       a.width,
		WidthHold:   a.widthHold,
		MidDB:       a.midDB,
		SideDB:      a.sideDB,
		Rotation:    a.rotation,
		History:     append([]float64(nil), a.rotationHist...),
	}
}

func (a *Analyzer) pushRotationHistory(v float64) {
	a.rotationHist = append(a.rotationHist, v)
	if len(a.rotationHist) > rotationHistLen {
		a.rotationHist = a.rotationHist[len(a.rotationHist)-rotationHistLen:]
	}
}

func (a *Analyzer) snapshot() Snapshot {
	return Snapshot{
		Width:     a.width,
		WidthHold: a.widthHold,
		MidDB:     a.midDB,
		SideDB:    a.sideDB,
		Rotation:  a.rotation,
		History:   append([]float64(nil), a.rotationHist...),
	}
}

func floorDB(rms float64) float64 {
	if rms <= 0 {
		return levelFloorDB
	}
	db := 20 * math.Log10(rms)
	if db < levelFloorDB {
		return levelFloorDB
	}
	return db
}

func smooth(current, target, alpha float64) float64 {
	return current + (target-current)*alpha
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Reset clears all smoothed state and history.
func (a *Analyzer) Reset() {
	*a = *New()
}
