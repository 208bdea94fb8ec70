package generator

import (
	"math"

	"github.com/wavefield/stereometer/pkg/dsp/oscillator"
)

// lissajousVoice drives the vectorscope with an L/R pair related by a
// frequency ratio and phase offset. For a 1:1 ratio, the right channel
// is computed from the same phase accumulator as the left, offset by
// a fixed constant, so the two can never drift apart from independent
// floating-point phase-increment rounding. Any other ratio needs two
// independently-scheduled oscillators, since their phases only
// coincide periodically rather than staying in a fixed relationship.
type lissajousVoice struct {
	unityRatio bool

	sampleRate  float64
	phase       float64
	phaseInc    float64
	phaseOffset float64
	level       float64

	left  *oscillator.Oscillator
	right *oscillator.Oscillator
}

func newLissajousVoice(sampleRate, freqHz, levelDBFS, phaseDeg float64, ratioNum, ratioDen int) *lissajousVoice {
	v := &lissajousVoice{
		level:       dbToLinear(levelDBFS),
		phaseOffset: phaseDeg / 360.0,
	}

	if ratioNum == ratioDen || ratioDen == 0 {
		v.unityRatio = true
		v.sampleRate = sampleRate
		v.phaseInc = freqHz / sampleRate
		return v
	}

	v.unityRatio = false
	v.left = oscillator.New(sampleRate)
	v.left.SetFrequency(freqHz * float64(ratioNum))
	v.right = oscillator.New(sampleRate)
	v.right.SetFrequency(freqHz * float64(ratioDen))
	v.right.SetPhase(v.phaseOffset)
	return v
}

func (v *lissajousVoice) next() (float64, float64) {
	if v.unityRatio {
		left := math.Sin(2.0 * math.Pi * v.phase)
		right := math.Sin(2.0 * math.Pi * (v.phase + v.phaseOffset))

		v.phase += v.phaseInc
		if v.phase >= 1.0 {
			v.phase -= math.Floor(v.phase)
		}

		return left * v.level, right * v.level
	}
	left := v.left.Sine()
	right := v.right.Sine()
	return float64(left) * v.level, float64(right) * v.level
}
