// Package source implements SourceController: a fixed routing graph
// (source -> trim -> analysis-bus and monitor-gain -> output) that
// unifies live capture, the signal generator, and remote ingest behind
// one switch, following the "selected vs active" separation and
// synchronous-teardown discipline of spec section 4.7.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/wavefield/stereometer/internal/applog"
)

// Mode is the sum type of input sources. At most one is active.
type Mode int

const (
	ModeNone Mode = iota
	ModeCaptureA
	ModeCaptureB
	ModeGenerator
	ModeRemote
)

func (m Mode) String() string {
	switch m {
	case ModeCaptureA:
		return "capture-a"
	case ModeCaptureB:
		return "capture-b"
	case ModeGenerator:
		return "generator"
	case ModeRemote:
		return "remote"
	default:
		return "none"
	}
}

// CaptureInfo describes a successfully-started capture.
type CaptureInfo struct {
	Channels   int
	SampleRate float64
	DeviceName string
}

// Capture is the interface any live-audio input implements; the
// concrete OS-level audio backend is out of scope for this module (see
// FakeCapture for the in-module test double).
type Capture interface {
	Start(ctx context.Context) error
	Stop()
	Info() CaptureInfo
	// Read copies up to len(left) frames into left/right, returning the
	// number of frames actually written.
	Read(left, right []float32) int
}

// CaptureError is returned by Controller.Switch when a capture mode has
// no device configured or its Capture.Start fails; it is always
// recoverable — the controller falls back to ModeNone and leaves the UI
// to react.
type CaptureError struct {
	Mode Mode
	Err  error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture %s: %v", e.Mode, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

var errUnknownMode = errors.New("source: unknown mode")

// Controller owns the fixed routing graph. Trim is stored per mode in
// decibels; monitor gain is a 0-1 linear level, independently
// mute-able per mode. The controller does not itself mix audio — it
// exposes the active source's frames to the caller (the scheduler),
// which applies trim and feeds the analysis bus and SampleWindow.
type Controller struct {
	active   Mode
	selected Mode

	captureA Capture
	captureB Capture

	trimDB       map[Mode]float64
	monitorLevel map[Mode]float64
	muted        map[Mode]bool

	info CaptureInfo

	log *applog.Logger
}

// New creates a Controller with no active source. captureA/captureB
// may be nil if that variant isn't wired up (e.g. in the demonstration
// CLI host).
func New(captureA, captureB Capture, log *applog.Logger) *Controller {
	return &Controller{
		captureA:     captureA,
		captureB:     captureB,
		trimDB:       make(map[Mode]float64),
		monitorLevel: make(map[Mode]float64),
		muted:        make(map[Mode]bool),
		log:          log,
	}
}

// Trim returns the persisted trim, in dB, for a mode.
func (c *Controller) Trim(m Mode) float64 { return c.trimDB[m] }

// SetTrim sets the trim, in dB, for a mode.
func (c *Controller) SetTrim(m Mode, db float64) { c.trimDB[m] = db }

// MonitorLevel returns the 0-1 linear monitor level for a mode.
func (c *Controller) MonitorLevel(m Mode) float64 {
	if c.muted[m] {
		return 0
	}
	return c.monitorLevel[m]
}

// SetMonitorLevel sets the 0-1 linear monitor level for a mode.
func (c *Controller) SetMonitorLevel(m Mode, level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	c.monitorLevel[m] = level
}

// SetMuted mutes or unmutes a mode's monitor send without touching its
// stored level.
func (c *Controller) SetMuted(m Mode, muted bool) { c.muted[m] = muted }

// Active returns the currently-active source mode.
func (c *Controller) Active() Mode { return c.active }

// Selected returns the mode most recently requested through Switch.
// It is set before the switch is attempted, so after a failed capture
// start it differs from Active (which falls back to ModeNone).
func (c *Controller) Selected() Mode { return c.selected }

// Info returns descriptive fields for the active capture, if any.
func (c *Controller) Info() CaptureInfo { return c.info }

// Switch implements the switch semantics of spec section 4.7: a no-op
// if the new mode equals the active mode; otherwise tear down the
// outgoing capture synchronously (preserving the user-gesture context
// a live capture needs), then bring up the new source.
func (c *Controller) Switch(ctx context.Context, m Mode) error {
	c.selected = m
	if m == c.active {
		return nil
	}

	c.teardown(c.active)

	switch m {
	case ModeNone:
		c.active = ModeNone
		c.info = CaptureInfo{}
		return nil

	case ModeCaptureA:
		return c.startCapture(ctx, ModeCaptureA, c.captureA)

	case ModeCaptureB:
		return c.startCapture(ctx, ModeCaptureB, c.captureB)

	case ModeGenerator, ModeRemote:
		c.active = m
		return nil

	default:
		return errUnknownMode
	}
}

func (c *Controller) startCapture(ctx context.Context, m Mode, cap Capture) error {
	if cap == nil {
		c.active = ModeNone
		return &CaptureError{Mode: m, Err: errors.New("no capture device configured")}
	}
	if err := cap.Start(ctx); err != nil {
		c.active = ModeNone
		if c.log != nil {
			c.log.Warn("capture %s failed to start: %v", m, err)
		}
		return &CaptureError{Mode: m, Err: err}
	}
	c.active = m
	c.info = cap.Info()
	return nil
}

// teardown stops whichever capture is currently active; it is a no-op
// for generator/remote/none.
func (c *Controller) teardown(m Mode) {
	switch m {
	case ModeCaptureA:
		if c.captureA != nil {
			c.captureA.Stop()
		}
	case ModeCaptureB:
		if c.captureB != nil {
			c.captureB.Stop()
		}
	}
}

// ReadActive reads the next frames from whichever capture is active
// into left/right, returning the frame count. It returns 0 for
// non-capture modes (generator/remote frames are produced elsewhere
// in the pipeline).
func (c *Controller) ReadActive(left, right []float32) int {
	switch c.active {
	case ModeCaptureA:
		if c.captureA != nil {
			return c.captureA.Read(left, right)
		}
	case ModeCaptureB:
		if c.captureB != nil {
			return c.captureB.Read(left, right)
		}
	}
	return 0
}
