// Package lufs implements momentary, short-term, integrated, and LRA
// loudness measurement per ITU-R BS.1770-4 / EBU R128, ground on the
// K-weighting + two-stage gating scheme.
package lufs

import (
	"math"
	"sort"

	"github.com/wavefield/stereometer/pkg/meter/kweight"
)

// tick is the measurement-loop cadence block energies accumulate at
// (20 Hz → 50 ms), matching MeasureLoop.
const tick = 0.05

const (
	momentaryEntries = 8  // 8 * 50ms = 400ms
	shortTermEntries = 60 // 60 * 50ms = 3000ms

	absoluteGateLUFS   = -70.0
	integratedRelGateLU = -10.0
	lraRelGateLU        = -20.0
)

// Meter accumulates K-weighted block energy and derives momentary,
// short-term, integrated, and LRA loudness.
type Meter struct {
	kwL, kwR *kweight.Filter

	momentary ring
	shortTerm ring

	integratedBlocks []float64 // momentary-block loudness, LUFS, since reset
	lraBlocks        []float64 // short-term-block loudness, LUFS, since reset

	ticksSinceReset int
}

// ring is a fixed-capacity moving window of linear block energies.
type ring struct {
	buf   []float64
	pos   int
	count int
}

func newRing(n int) ring { return ring{buf: make([]float64, n)} }

func (r *ring) push(e float64) {
	r.buf[r.pos] = e
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

func (r *ring) full() bool { return r.count == len(r.buf) }

func (r *ring) meanEnergy() float64 {
	if r.count == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < r.count; i++ {
		sum += r.buf[i]
	}
	return sum / float64(r.count)
}

// New creates a LUFS meter for a stereo stream at sampleRate.
func New(sampleRate float64) *Meter {
	return &Meter{
		kwL:       kweight.New(sampleRate),
		kwR:       kweight.New(sampleRate),
		momentary: newRing(momentaryEntries),
		shortTerm: newRing(shortTermEntries),
	}
}

// Process consumes one window's worth of raw (not yet K-weighted) L/R
// samples, called once per MeasureLoop tick (one call per sample
// window, per the component contract).
func (m *Meter) Process(left, right []float32) {
	n := len(left)
	if n == 0 || len(right) != n {
		return
	}

	var sumL, sumR float64
	for i := 0; i < n; i++ {
		fl := m.kwL.Process(float64(left[i]))
		fr := m.kwR.Process(float64(right[i]))
		sumL += fl * fl
		sumR += fr * fr
	}
	energy := sumL/float64(n) + sumR/float64(n)
	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		energy = 0
	}

	m.momentary.push(energy)
	m.shortTerm.push(energy)
	m.ticksSinceReset++

	if m.momentary.full() {
		if loud := loudnessFromEnergy(m.momentary.meanEnergy()); !math.IsInf(loud, -1) {
			m.integratedBlocks = append(m.integratedBlocks, loud)
		}
	}
	if m.shortTerm.full() {
		if loud := loudnessFromEnergy(m.shortTerm.meanEnergy()); !math.IsInf(loud, -1) {
			m.lraBlocks = append(m.lraBlocks, loud)
		}
	}
}

func loudnessFromEnergy(e float64) float64 {
	if e <= 0 {
		return math.Inf(-1)
	}
	return -0.691 + 10.0*math.Log10(e)
}

// GetMomentaryLUFS returns the 400ms momentary loudness.
func (m *Meter) GetMomentaryLUFS() float64 {
	return loudnessFromEnergy(m.momentary.meanEnergy())
}

// GetShortTermLUFS returns the 3s short-term loudness.
func (m *Meter) GetShortTermLUFS() float64 {
	return loudnessFromEnergy(m.shortTerm.meanEnergy())
}

// GetIntegratedLUFS applies the BS.1770-4 two-stage gate (absolute −70
// LUFS, relative −10 LU below the mean of the blocks that pass the
// absolute gate) over all momentary-block loudness values seen since
// reset.
func (m *Meter) GetIntegratedLUFS() float64 {
	return gatedMean(m.integratedBlocks, absoluteGateLUFS, integratedRelGateLU)
}

func gatedMean(blocks []float64, absGate, relGateLU float64) float64 {
	if len(blocks) == 0 {
		return math.Inf(-1)
	}

	sum, n := 0.0, 0
	for _, b := range blocks {
		if b >= absGate {
			sum += math.Pow(10.0, b/10.0)
			n++
		}
	}
	if n == 0 {
		return math.Inf(-1)
	}

	relThresh := 10.0*math.Log10(sum/float64(n)) + relGateLU
	sum, n = 0.0, 0
	for _, b := range blocks {
		if b >= absGate && b >= relThresh {
			sum += math.Pow(10.0, b/10.0)
			n++
		}
	}
	if n == 0 {
		return math.Inf(-1)
	}

	return 10.0 * math.Log10(sum/float64(n))
}

// GetLoudnessRange computes LRA from the short-term stream: absolute
// gate at −70 LUFS, relative gate at (gated mean − 20 LU), then
// `p95 − p10` of the surviving distribution.
func (m *Meter) GetLoudnessRange() float64 {
	if len(m.lraBlocks) == 0 {
		return 0
	}

	gated := make([]float64, 0, len(m.lraBlocks))
	for _, b := range m.lraBlocks {
		if b >= absoluteGateLUFS {
			gated = append(gated, b)
		}
	}
	if len(gated) == 0 {
		return 0
	}

	power := 0.0
	for _, b := range gated {
		power += math.Pow(10.0, b/10.0)
	}
	mean := 10.0 * math.Log10(power/float64(len(gated)))
	relThresh := mean + lraRelGateLU

	survivors := make([]float64, 0, len(gated))
	for _, b := range gated {
		if b >= relThresh {
			survivors = append(survivors, b)
		}
	}
	if len(survivors) < 2 {
		return 0
	}

	sort.Float64s(survivors)
	idx10 := int(float64(len(survivors)) * 0.10)
	idx95 := int(float64(len(survivors)) * 0.95)
	if idx95 >= len(survivors) {
		idx95 = len(survivors) - 1
	}

	return survivors[idx95] - survivors[idx10]
}

// SecondsSinceReset reports elapsed measurement time, used by the
// display-delay gating in MeasureLoop.
func (m *Meter) SecondsSinceReset() float64 {
	return float64(m.ticksSinceReset) * tick
}

// Reset clears block rings, accumulators, and filter history. Called on
// user reset and on target-LUFS change.
func (m *Meter) Reset() {
	m.kwL.Reset()
	m.kwR.Reset()
	m.momentary = newRing(momentaryEntries)
	m.shortTerm = newRing(shortTermEntries)
	m.integratedBlocks = m.integratedBlocks[:0]
	m.lraBlocks = m.lraBlocks[:0]
	m.ticksSinceReset = 0
}
