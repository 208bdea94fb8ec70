package generator

import (
	"math"

	"github.com/wavefield/stereometer/pkg/dsp/buffer"
)

const sweepLookAheadMS = 200.0

// sweepVoice generates an AES17 exponential (log) sweep from LoHz to
// HiHz over SweepDurationS, looping continuously. Samples are
// pre-rendered 200ms ahead into a WriteAheadBuffer so the sweep's
// loop-restart edge is scheduled ahead of the render tick rather than
// computed exactly at the consumption instant, reusing the teacher's
// write-ahead buffer discipline for non-audio-input scheduling.
type sweepVoice struct {
	sampleRate float64
	loHz, hiHz float64
	durationS  float64
	level      float64

	phase    float64
	elapsedS float64

	ahead *buffer.WriteAheadBuffer
}

func newSweepVoice(sampleRate, loHz, hiHz, durationS, levelDBFS float64) *sweepVoice {
	v := &sweepVoice{
		sampleRate: sampleRate,
		loHz:       loHz,
		hiHz:       hiHz,
		durationS:  durationS,
		level:      dbToLinear(levelDBFS),
		ahead:      buffer.NewWriteAheadBufferWithLatency(sampleRate, 1, sweepLookAheadMS),
	}
	v.fill()
	return v
}

// instantaneousFreq returns the exponential sweep frequency at
// position t (seconds) into the cycle.
func (v *sweepVoice) instantaneousFreq(t float64) float64 {
	if v.loHz <= 0 || v.hiHz <= 0 || v.durationS <= 0 {
		return v.loHz
	}
	frac := t / v.durationS
	ratio := v.hiHz / v.loHz
	return v.loHz * math.Pow(ratio, frac)
}

// fill tops up the look-ahead buffer with freshly-rendered samples.
func (v *sweepVoice) fill() {
	util := v.ahead.GetBufferUtilization()
	if util > 0.5 {
		return
	}
	n := 256
	chunk := make([]float32, n)
	for i := 0; i < n; i++ {
		freq := v.instantaneousFreq(v.elapsedS)
		v.phase += freq / v.sampleRate
		if v.phase >= 1.0 {
			v.phase -= math.Floor(v.phase)
		}
		chunk[i] = float32(math.Sin(2.0*math.Pi*v.phase) * v.level)

		v.elapsedS += 1.0 / v.sampleRate
		if v.elapsedS >= v.durationS {
			v.elapsedS -= v.durationS
		}
	}
	v.ahead.Write(chunk)
}

func (v *sweepVoice) next() float64 {
	v.fill()
	out := make([]float32, 1)
	v.ahead.Read(out)
	return float64(out[0])
}
