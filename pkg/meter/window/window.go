// Package window implements the SampleWindow: the lock-free boundary
// between the real-time audio thread and the control-plane scheduler.
package window

import (
	"sync/atomic"
)

// Size is the window length N in frames (≈85 ms at 48 kHz).
const Size = 4096

// SampleWindow holds the most recent Size L/R frames. A single producer
// (capture or generator, running on the audio thread) calls Write once
// per render tick; any number of readers call Snapshot to get an
// atomically-consistent copy. Readers never observe a half-updated
// window: Write publishes both channels behind one generation counter,
// adapted from the CAS write-ahead discipline in the teacher's buffer
// package but simplified to a seqlock since metering only ever needs the
// latest snapshot, not a queued stream.
type SampleWindow struct {
	gen atomic.Uint64 // odd while a write is in progress

	bufL [2][Size]float32
	bufR [2][Size]float32

	sampleRate float64
}

// New creates a SampleWindow for the given sample rate (informational;
// it does not change N).
func New(sampleRate float64) *SampleWindow {
	return &SampleWindow{sampleRate: sampleRate}
}

// SampleRate returns the configured sample rate.
func (w *SampleWindow) SampleRate() float64 { return w.sampleRate }

// Write publishes a new L/R snapshot. Slices shorter than Size shift
// the window and become its newest frames; longer ones are truncated
// to the most recent Size samples.
func (w *SampleWindow) Write(left, right []float32) {
	g := w.gen.Add(1) // now odd: write in progress
	// fill the slot Snapshot reads once gen is even again, starting
	// from the previously published window.
	slot := (g/2 + 1) % 2
	w.bufL[slot] = w.bufL[1-slot]
	w.bufR[slot] = w.bufR[1-slot]

	fillLatest(w.bufL[slot][:], left)
	fillLatest(w.bufR[slot][:], right)

	w.gen.Add(1) // now even: write complete
}

func fillLatest(dst []float32, src []float32) {
	if len(src) >= len(dst) {
		copy(dst, src[len(src)-len(dst):])
		return
	}
	shift := len(dst) - len(src)
	copy(dst, dst[len(src):]) // shift older frames left to make room
	copy(dst[shift:], src)
}

// Snapshot copies the current window into outL/outR, which must each
// have length Size. It retries if it observes a write in progress,
// matching the "no meter reads a half-updated window" invariant.
func (w *SampleWindow) Snapshot(outL, outR []float32) {
	for {
		g1 := w.gen.Load()
		if g1%2 != 0 {
			continue // write in progress
		}
		slot := (g1 / 2) % 2
		copy(outL, w.bufL[slot][:])
		copy(outR, w.bufR[slot][:])
		if w.gen.Load() == g1 {
			return
		}
	}
}

// Reset zeroes both buffer slots.
func (w *SampleWindow) Reset() {
	w.bufL = [2][Size]float32{}
	w.bufR = [2][Size]float32{}
	w.gen.Store(0)
}
