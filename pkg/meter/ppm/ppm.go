// Package ppm implements Nordic Type I PPM ballistics per IEC 60268-10:
// an asymmetric single-pole envelope (fast integration, slow release)
// with dBFS and dBu readouts and a shared 3s peak-hold discipline.
package ppm

import (
	"math"
	"time"
)

const (
	// integrationTime is the Nordic Type I attack time constant of the
	// one-pole envelope (5ms; within 1dB of a steady tone after ~11ms).
	integrationTime = 0.005

	// releaseTau is derived from the Nordic Type I return-time spec of
	// 1.5s per 20dB: for an exponential decay exp(-t/tau), a 20dB drop
	// (factor of 0.1 in level) at t=1.5s gives tau = 1.5/-ln(0.1).
	releaseTau = 1.5 / 2.302585092994046

	holdSeconds = 3.0

	// SilenceFloorDBFS is the level below which the display shows the
	// silence sentinel rather than a numeric reading.
	SilenceFloorDBFS = -59.0

	// DBuAlignmentOffset is the chosen resolution of the ambiguous
	// dBu-offset design note: this implementation uses
	// 0 dBu = -18 dBFS peak, i.e. dBu = dBFS + 18, with no additional
	// +4 formatting term. The alternative reading in the source
	// (dBFS + 22, implying a second alignment point at +4 dBu = 0 dBFS)
	// was rejected as requiring an undocumented second reference; this
	// constant is the single source of truth for the conversion.
	DBuAlignmentOffset = 18.0
)

// ChannelState is the ballistic envelope and peak-hold state for one
// channel.
type ChannelState struct {
	envelope float64 // linear, 0..~1
	holdDB   float64
	holdAt   time.Time
}

// Meter tracks Nordic PPM ballistics for both channels of a stereo
// stream.
type Meter struct {
	L, R ChannelState

	attackCoef  float64
	releaseCoef float64
}

// New creates a PPM meter. dt is the cadence the meter is updated at
// (one render tick, 60 Hz by default).
func New(dt time.Duration) *Meter {
	m := &Meter{
		L: ChannelState{holdDB: math.Inf(-1)},
		R: ChannelState{holdDB: math.Inf(-1)},
	}
	m.SetCadence(dt)
	return m
}

// SetCadence recomputes the one-pole coefficients for a new tick
// interval.
func (m *Meter) SetCadence(dt time.Duration) {
	seconds := dt.Seconds()
	m.attackCoef = 1.0 - math.Exp(-seconds/integrationTime)
	m.releaseCoef = 1.0 - math.Exp(-seconds/releaseTau)
}

// Update processes one tick's window for both channels.
func (m *Meter) Update(left, right []float32, now time.Time) {
	updateChannel(&m.L, left, m.attackCoef, m.releaseCoef, now)
	updateChannel(&m.R, right, m.attackCoef, m.releaseCoef, now)
}

func peakAbs(samples []float32) float64 {
	max := 0.0
	for _, s := range samples {
		if a := math.Abs(float64(s)); a > max {
			max = a
		}
	}
	return max
}

func updateChannel(c *ChannelState, samples []float32, attackCoef, releaseCoef float64, now time.Time) {
	target := peakAbs(samples)
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return
	}

	if target > c.envelope {
		c.envelope += (target - c.envelope) * attackCoef
	} else {
		c.envelope += (target - c.envelope) * releaseCoef
	}

	currentDB := dbfsOf(c.envelope)

	if currentDB > c.holdDB {
		c.holdDB = currentDB
		c.holdAt = now
	} else if !c.holdAt.IsZero() && now.Sub(c.holdAt) > holdSeconds*time.Second {
		c.holdDB = currentDB
	}
}

func dbfsOf(linear float64) float64 {
	if linear <= 0 {
		return math.Inf(-1)
	}
	return 20.0 * math.Log10(linear)
}

// CurrentDBFS returns the ballistic envelope level in dBFS.
func (c ChannelState) CurrentDBFS() float64 { return dbfsOf(c.envelope) }

// HoldDBFS returns the 3s peak-hold value in dBFS.
func (c ChannelState) HoldDBFS() float64 { return c.holdDB }

// CurrentDBu returns the current level in dBu using DBuAlignmentOffset.
func (c ChannelState) CurrentDBu() float64 { return c.CurrentDBFS() + DBuAlignmentOffset }

// IsSilent reports whether the current level is below the silence
// floor, per the display-sentinel rule in §6/§8.
func (c ChannelState) IsSilent() bool { return c.CurrentDBFS() <= SilenceFloorDBFS }

// Reset clears ballistic and hold state for both channels.
func (m *Meter) Reset() {
	m.L = ChannelState{holdDB: math.Inf(-1)}
	m.R = ChannelState{holdDB: math.Inf(-1)}
}
