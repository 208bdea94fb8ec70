package lufs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sineBlock(sampleRate, freq, amplitude float64, n int, phase *float64) []float32 {
	out := make([]float32, n)
	step := 2 * math.Pi * freq / sampleRate
	for i := 0; i < n; i++ {
		out[i] = float32(amplitude * math.Sin(*phase))
		*phase += step
	}
	return out
}

func TestMeterConvergesNear18dBFSSine(t *testing.T) {
	const sampleRate = 48000.0
	m := New(sampleRate)

	amplitude := math.Pow(10, -18.0/20.0)
	phase := 0.0
	windowN := 4096

	// 1s worth of ticks at 50ms cadence on a 1kHz stereo-correlated sine.
	for i := 0; i < 20; i++ {
		block := sineBlock(sampleRate, 1000, amplitude, windowN, &phase)
		m.Process(block, block)
	}

	got := m.GetMomentaryLUFS()
	assert.False(t, math.IsInf(got, -1), "momentary LUFS is -Inf after 1s of signal")
	assert.InDelta(t, -18.0, got, 1.0, "momentary LUFS should converge near -18.0")
}

func TestIntegratedUndefinedBeforeEnoughBlocks(t *testing.T) {
	m := New(48000.0)
	assert.True(t, math.IsInf(m.GetIntegratedLUFS(), -1), "integrated LUFS before any blocks should be -Inf")
}

func TestResetClearsState(t *testing.T) {
	m := New(48000.0)
	phase := 0.0
	block := sineBlock(48000.0, 1000, 0.5, 4096, &phase)
	for i := 0; i < 10; i++ {
		m.Process(block, block)
	}
	m.Reset()

	assert.True(t, math.IsInf(m.GetMomentaryLUFS(), -1), "momentary LUFS after reset should be -Inf")
	assert.True(t, math.IsInf(m.GetIntegratedLUFS(), -1), "integrated LUFS after reset should be -Inf")
}

func TestSilenceStaysAtNegativeInfinity(t *testing.T) {
	m := New(48000.0)
	silence := make([]float32, 4096)
	for i := 0; i < 20; i++ {
		m.Process(silence, silence)
	}
	assert.True(t, math.IsInf(m.GetMomentaryLUFS(), -1), "momentary LUFS on silence should be -Inf")
}
