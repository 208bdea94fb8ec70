package source

import "context"

// FakeCapture is an in-module Capture test double that plays back a
// fixed buffer on loop; it stands in for the OS-level audio backend
// that this module deliberately does not ship (see SPEC_FULL.md §6).
type FakeCapture struct {
	left, right []float32
	pos         int
	running     bool

	channels   int
	sampleRate float64

	startErr error
}

// NewFakeCapture creates a FakeCapture that loops the given stereo
// buffer.
func NewFakeCapture(left, right []float32, sampleRate float64) *FakeCapture {
	return &FakeCapture{left: left, right: right, channels: 2, sampleRate: sampleRate}
}

// SetStartError forces the next Start call to fail, for exercising the
// "capture denied" error path.
func (f *FakeCapture) SetStartError(err error) { f.startErr = err }

func (f *FakeCapture) Start(ctx context.Context) error {
	if f.startErr != nil {
		err := f.startErr
		f.startErr = nil
		return err
	}
	f.running = true
	f.pos = 0
	return nil
}

func (f *FakeCapture) Stop() { f.running = false }

func (f *FakeCapture) Info() CaptureInfo {
	return CaptureInfo{Channels: f.channels, SampleRate: f.sampleRate, DeviceName: "fake"}
}

func (f *FakeCapture) Read(left, right []float32) int {
	if !f.running || len(f.left) == 0 {
		for i := range left {
			left[i] = 0
			right[i] = 0
		}
		return 0
	}
	for i := range left {
		left[i] = f.left[f.pos]
		right[i] = f.right[f.pos]
		f.pos++
		if f.pos >= len(f.left) {
			f.pos = 0
		}
	}
	return len(left)
}
