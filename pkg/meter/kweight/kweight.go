// Package kweight implements the ITU-R BS.1770-4 K-weighting pre-filter
// chain used ahead of LUFS block-energy accumulation.
package kweight

import "math"

// Biquad is a Direct Form I biquad section with double-precision
// accumulation, as BS.1770-4 requires.
type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	x1, x2     float64
	y1, y2     float64
}

// Process filters one sample.
func (b *Biquad) Process(input float64) float64 {
	output := b.b0*input + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2

	b.x2 = b.x1
	b.x1 = input
	b.y2 = b.y1
	b.y1 = output

	return output
}

// Reset clears the filter's history.
func (b *Biquad) Reset() {
	b.x1, b.x2, b.y1, b.y2 = 0, 0, 0, 0
}

// preFilter builds the BS.1770-4 high-shelf pre-filter (+4 dB @ ~1.5 kHz).
func preFilter(sampleRate float64) Biquad {
	const (
		f0 = 1681.974450955533
		G  = 3.999843853973347
		Q  = 0.7071752369554196
	)
	K := math.Tan(math.Pi * f0 / sampleRate)
	Vh := math.Pow(10.0, G/20.0)
	Vb := math.Pow(Vh, 0.4996667741545416)

	a0 := 1.0 + K/Q + K*K

	return Biquad{
		b0: (Vh + Vb*K/Q + K*K) / a0,
		b1: 2.0 * (K*K - Vh) / a0,
		b2: (Vh - Vb*K/Q + K*K) / a0,
		a1: 2.0 * (K*K - 1.0) / a0,
		a2: (1.0 - K/Q + K*K) / a0,
	}
}

// rlbHighPass builds the BS.1770-4 RLB high-pass (~60 Hz), referred to in
// the standard's reference implementation as the "high shelf" stage.
func rlbHighPass(sampleRate float64) Biquad {
	const (
		f0 = 38.13547087602444
		Q  = 0.5003270373238773
	)
	K := math.Tan(math.Pi * f0 / sampleRate)
	a0 := 1.0 + K/Q + K*K

	return Biquad{
		b0: 1.0,
		b1: -2.0,
		b2: 1.0,
		a1: 2.0 * (K*K - 1.0) / a0,
		a2: (1.0 - K/Q + K*K) / a0,
	}
}

// Filter is the two-stage K-weighting chain for a single channel:
// pre-filter in series with the RLB high-pass.
type Filter struct {
	pre Biquad
	rlb Biquad
}

// New builds a K-weighting filter for one channel at sampleRate.
func New(sampleRate float64) *Filter {
	return &Filter{
		pre: preFilter(sampleRate),
		rlb: rlbHighPass(sampleRate),
	}
}

// Process runs one sample through both stages in series.
func (f *Filter) Process(x float64) float64 {
	return f.rlb.Process(f.pre.Process(x))
}

// Reset clears both stages' filter history.
func (f *Filter) Reset() {
	f.pre.Reset()
	f.rlb.Reset()
}
