package generator

import "github.com/wavefield/stereometer/pkg/dsp/oscillator"

// sineVoice wraps a single sine oscillator at a fixed frequency and
// level, used directly by PresetSine and as the carrier for
// PresetVectorText.
type sineVoice struct {
	osc   *oscillator.Oscillator
	level float64
}

func newSineVoice(sampleRate, freqHz, levelDBFS float64) *sineVoice {
	osc := oscillator.New(sampleRate)
	osc.SetFrequency(freqHz)
	return &sineVoice{osc: osc, level: dbToLinear(levelDBFS)}
}

func (v *sineVoice) next() float64 {
	return float64(v.osc.Sine()) * v.level
}
