package generator

import (
	"math/rand"
	"time"

	"github.com/wavefield/stereometer/pkg/dsp/filter"
)

const noiseBufferSeconds = 10.0
const noiseCrossfadeMS = 50.0
const lowShelfFreq = 1000.0
const lowShelfGainDB = -3.0
const brownLowpassFreq = 200.0
const brownLowpassQ = 0.7071

// noiseLoop is a pre-generated, seamlessly-looping noise buffer for one
// channel.
type noiseLoop struct {
	buf []float32
	pos int
}

// newNoiseLoop builds a 10s unique-random buffer shaped for the given
// preset type, with the last 50ms crossfaded into the first 50ms for
// seamless looping. The shaping topology (shelf + LP/HP cascade) is
// intentionally not spectrally exact pink/brown noise; it mirrors the
// production topology rather than a Voss-McCartney or leaky-integrator
// approach.
func newNoiseLoop(sampleRate float64, kind PresetType, loHz, hiHz float64) *noiseLoop {
	n := int(noiseBufferSeconds * sampleRate)
	buf := make([]float32, n)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for i := range buf {
		buf[i] = float32(rng.Float64()*2 - 1)
	}

	switch kind {
	case PresetPink:
		hp := filter.NewBiquad(1)
		hp.SetHighpass(sampleRate, loHz, 0.7071)
		hp.Process(buf, 0)

		lp := filter.NewBiquad(1)
		lp.SetLowpass(sampleRate, hiHz, 0.7071)
		lp.Process(buf, 0)

		shelf := filter.NewBiquad(1)
		shelf.SetLowShelf(sampleRate, lowShelfFreq, 0.7071, lowShelfGainDB)
		shelf.Process(buf, 0)

	case PresetBrown:
		lp := filter.NewBiquad(1)
		lp.SetLowpass(sampleRate, brownLowpassFreq, brownLowpassQ)
		lp.Process(buf, 0)

		hp := filter.NewBiquad(1)
		hp.SetHighpass(sampleRate, loHz, 0.7071)
		hp.Process(buf, 0)

		bandLP := filter.NewBiquad(1)
		bandLP.SetLowpass(sampleRate, hiHz, 0.7071)
		bandLP.Process(buf, 0)

	case PresetWhite:
		// emitted flat, no shaping

	default:
		// not a noise preset; leave unshaped
	}

	buf = crossfadeLoop(buf, int(noiseCrossfadeMS*sampleRate/1000.0))

	return &noiseLoop{buf: buf}
}

// crossfadeLoop blends the last n samples into the first n samples and
// returns buf without those last n samples, so playback wraps from the
// sample just before the tail into the blended head without a seam.
func crossfadeLoop(buf []float32, n int) []float32 {
	if n <= 0 || n*2 > len(buf) {
		return buf
	}
	tailStart := len(buf) - n
	for i := 0; i < n; i++ {
		frac := float32(i) / float32(n)
		head := buf[i]
		tail := buf[tailStart+i]
		buf[i] = tail*(1-frac) + head*frac
	}
	return buf[:tailStart]
}

// next fills output with the next len(output) samples, wrapping.
func (nl *noiseLoop) next(output []float32) {
	for i := range output {
		output[i] = nl.buf[nl.pos]
		nl.pos++
		if nl.pos >= len(nl.buf) {
			nl.pos = 0
		}
	}
}
