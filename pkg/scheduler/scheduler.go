// Package scheduler implements the dual-rate core: a 20Hz MeasureLoop
// (integrator advancement, R128 gating, display-delay logic) and a
// 60Hz RenderState (ballistics, peak-hold, visual blanking), both
// driven off one shared SampleWindow on a single goroutine, per the
// "single-threaded cooperative control plane" concurrency model.
package scheduler

import (
	"context"
	"math"
	"time"

	"github.com/wavefield/stereometer/internal/applog"
	"github.com/wavefield/stereometer/internal/diag"
	"github.com/wavefield/stereometer/pkg/appstate"
	"github.com/wavefield/stereometer/pkg/generator"
	"github.com/wavefield/stereometer/pkg/guard"
	"github.com/wavefield/stereometer/pkg/meter/lufs"
	"github.com/wavefield/stereometer/pkg/meter/ppm"
	"github.com/wavefield/stereometer/pkg/meter/stereo"
	"github.com/wavefield/stereometer/pkg/meter/truepeak"
	"github.com/wavefield/stereometer/pkg/meter/window"
	"github.com/wavefield/stereometer/pkg/meterstate"
	"github.com/wavefield/stereometer/pkg/remote"
	"github.com/wavefield/stereometer/pkg/source"
)

const measureInterval = 50 * time.Millisecond
const renderInterval = time.Second / 60

// display-delay gates of §4.8: seconds since reset before a metric is
// considered gated-in and safe to show.
const (
	momentaryGateS  = 1.0
	shortTermGateS  = 10.0
	integratedGateS = 30.0
)

const longFrameThreshold = 80 * time.Millisecond
const peakOverLatchHoldMS = 500 * time.Millisecond

const goniometerDisplayPoints = 128

// Scheduler owns every long-lived metering/routing component and runs
// the dual-rate loop.
type Scheduler struct {
	sampleRate   float64
	chunkSamples int

	state    *appstate.Store
	guardian *guard.TransitionGuard
	src      *source.Controller
	gen      *generator.Generator
	win      *window.SampleWindow

	lufsMeter *lufs.Meter
	tpMeter   *truepeak.Meter
	ppmMeter  *ppm.Meter
	stereoA   *stereo.Analyzer

	ingest *remote.Ingest

	log  *applog.Logger
	prof *diag.TickProfiler

	resetAt      time.Time
	cumulativeTP float64

	radar []meterstate.RadarEntry

	peakOver      bool
	peakOverSince time.Time

	lastRenderAt time.Time

	// snapL/snapR hold the current window snapshot; on a "long frame"
	// (inter-tick delta > 80ms) renderTick skips refreshing them and
	// analyzes the stale snapshot instead of freshly captured audio,
	// per the glitch-protection rule in §4.9.
	snapL, snapR []float32

	chunkL, chunkR []float32

	published Snapshot
}

// Snapshot wraps meterstate.Snapshot behind a mutex-free value copy;
// Scheduler.Snapshot returns the latest published state.
type Snapshot struct {
	value meterstate.Snapshot
}

// New creates a Scheduler for a stereo stream at sampleRate, wiring
// the long-lived meter engines, the source controller, the generator,
// and the shared sample window. guardian is shared with the Generator
// passed in, since preset switches and the EBU pulse both trigger it.
func New(sampleRate float64, guardian *guard.TransitionGuard, state *appstate.Store, src *source.Controller, gen *generator.Generator, log *applog.Logger) *Scheduler {
	chunk := int(sampleRate / 60.0)
	s := &Scheduler{
		sampleRate:   sampleRate,
		chunkSamples: chunk,
		state:        state,
		guardian:     guardian,
		src:          src,
		gen:          gen,
		win:          window.New(sampleRate),
		lufsMeter:    lufs.New(sampleRate),
		tpMeter:      truepeak.New(),
		ppmMeter:     ppm.New(renderInterval),
		stereoA:      stereo.New(),
		ingest:       remote.NewIngest(),
		log:          log,
		prof:         diag.NewTickProfiler(64),
		snapL:        make([]float32, window.Size),
		snapR:        make([]float32, window.Size),
		chunkL:       make([]float32, chunk),
		chunkR:       make([]float32, chunk),
	}

	state.Subscribe(appstate.KeyTargetLUFS, func(float64) { s.ResetMeters() })
	state.Subscribe(appstate.KeyTruePeakLimitDBTP, func(float64) { s.peakOver = false })

	return s
}

// Guard exposes the TransitionGuard so the generator can be
// constructed sharing the same instance.
func (s *Scheduler) Guard() *guard.TransitionGuard { return s.guardian }

// Ingest exposes the RemoteIngest state machine for broker wiring.
func (s *Scheduler) Ingest() *remote.Ingest { return s.ingest }

// ResetMeters clears all long-lived meter state and the elapsed-time
// clock, per "reset on explicit user reset or target change."
func (s *Scheduler) ResetMeters() {
	s.lufsMeter.Reset()
	s.tpMeter.Reset()
	s.ppmMeter.Reset()
	s.stereoA.Reset()
	s.cumulativeTP = math.Inf(-1)
	s.radar = s.radar[:0]
	s.resetAt = time.Now()
}

// Run drives MeasureLoop and RenderState off two tickers on one
// goroutine until ctx is cancelled. Each tick is wrapped with a
// recover so a panic in one pass never takes down the loop, matching
// "no error is allowed to terminate either loop."
func (s *Scheduler) Run(ctx context.Context) {
	s.resetAt = time.Now()
	s.lastRenderAt = s.resetAt

	measureTicker := time.NewTicker(measureInterval)
	renderTicker := time.NewTicker(renderInterval)
	defer measureTicker.Stop()
	defer renderTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-measureTicker.C:
			s.safeTick("measure", func() { s.measureTick(now) })
		case now := <-renderTicker.C:
			s.safeTick("render", func() { s.renderTick(now) })
		}
	}
}

func (s *Scheduler) safeTick(name string, fn func()) {
	stop := s.prof.Start(name)
	defer stop()
	defer func() {
		if r := recover(); r != nil && s.log != nil {
			s.log.Error("%s tick panicked: %v", name, r)
		}
	}()
	fn()
}

// Snapshot returns a copy of the most recently published MeterState.
func (s *Scheduler) Snapshot() meterstate.Snapshot {
	return s.published.value
}
