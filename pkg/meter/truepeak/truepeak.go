// Package truepeak implements 4x oversampled Hermite-interpolated True
// Peak metering per AES17, including the non-standard coefficient form
// that must be preserved bit-for-bit.
package truepeak

import (
	"math"
	"time"
)

const (
	holdSeconds   = 3.0
	smoothAlpha   = 0.25
	floorEpsilon  = 1e-9
)

// ChannelState is the peak-hold and cumulative-max state for one channel.
type ChannelState struct {
	smoothDB   float64
	holdDB     float64
	holdAt     time.Time
	cumMaxDB   float64
	haveCumMax bool
}

// Meter tracks True Peak for both channels of a stereo stream.
type Meter struct {
	L, R ChannelState
}

// New creates a True Peak meter with both channels at -inf.
func New() *Meter {
	return &Meter{
		L: ChannelState{smoothDB: math.Inf(-1), holdDB: math.Inf(-1)},
		R: ChannelState{smoothDB: math.Inf(-1), holdDB: math.Inf(-1)},
	}
}

// hermite evaluates the 4-point, 3rd-order Hermite interpolant at
// fractional position t between p1 and p2, using the source's
// non-standard coefficient set for b (sign-flipped relative to textbook
// Catmull-Rom/C1-Hermite). This must not be "corrected": the sign flip
// is load-bearing for matching the reference True-Peak readings this
// meter is checked against.
func hermite(p0, p1, p2, p3, t float64) float64 {
	a := -0.5*p0 + 1.5*p1 - 1.5*p2 + 0.5*p3
	b := -p0 + 2.5*p1 - 2*p2 + 0.5*p3
	c := -0.5*p0 + 0.5*p2
	d := p1
	return ((a*t+b)*t+c)*t + d
}

// maxAbsOversampled returns the peak absolute value over the window,
// 4x oversampled via Hermite interpolation between each pair of
// samples. Falls back to the sample peak when fewer than 4 samples are
// available.
func maxAbsOversampled(samples []float32) float64 {
	if len(samples) < 4 {
		max := 0.0
		for _, s := range samples {
			if a := math.Abs(float64(s)); a > max {
				max = a
			}
		}
		return max
	}

	max := 0.0
	for i := 1; i <= len(samples)-3; i++ {
		p0 := float64(samples[i-1])
		p1 := float64(samples[i])
		p2 := float64(samples[i+1])
		p3 := float64(samples[i+2])

		if a := math.Abs(p1); a > max {
			max = a
		}
		for _, t := range [3]float64{0.25, 0.5, 0.75} {
			if a := math.Abs(hermite(p0, p1, p2, p3, t)); a > max {
				max = a
			}
		}
	}
	return max
}

func toDBTP(maxAbs float64) float64 {
	return 20.0 * math.Log10(maxAbs+floorEpsilon)
}

// Update processes one render-tick window for both channels. The render
// loop owns True-Peak ballistics per the concurrency model: MeasureLoop
// only reads the resulting per-channel hold values.
func (m *Meter) Update(left, right []float32, now time.Time) {
	updateChannel(&m.L, left, now)
	updateChannel(&m.R, right, now)
}

func updateChannel(c *ChannelState, samples []float32, now time.Time) {
	dbtp := toDBTP(maxAbsOversampled(samples))

	if math.IsNaN(dbtp) || math.IsInf(dbtp, 1) {
		return
	}

	if math.IsInf(c.smoothDB, -1) {
		// first finite reading since New()/Reset(): seed the smoother
		// directly rather than blending against -Inf, which would
		// otherwise poison every subsequent tick to -Inf forever.
		c.smoothDB = dbtp
	} else {
		c.smoothDB = c.smoothDB*(1-smoothAlpha) + dbtp*smoothAlpha
	}

	if c.smoothDB > c.holdDB {
		c.holdDB = c.smoothDB
		c.holdAt = now
	} else if !c.holdAt.IsZero() && now.Sub(c.holdAt) > holdSeconds*time.Second {
		c.holdDB = c.smoothDB
	}

	if !c.haveCumMax || c.smoothDB > c.cumMaxDB {
		c.cumMaxDB = c.smoothDB
		c.haveCumMax = true
	}
}

// CurrentDB returns the per-tick smoothed True Peak in dBTP.
func (c ChannelState) CurrentDB() float64 { return c.smoothDB }

// HoldDB returns the 3s peak-hold value.
func (c ChannelState) HoldDB() float64 { return c.holdDB }

// CumulativeMaxDB returns the monotone-until-reset cumulative maximum.
func (c ChannelState) CumulativeMaxDB() float64 {
	if !c.haveCumMax {
		return math.Inf(-1)
	}
	return c.cumMaxDB
}

// Reset clears all peak-hold and cumulative-max state for both channels.
func (m *Meter) Reset() {
	*m = *New()
}
