package generator

import (
	"time"

	"github.com/wavefield/stereometer/pkg/guard"
)

const switchRampMS = 20.0
const monitorRampMS = 10.0

// pulseCycleS is the period of the EBU stereo-ID identification pulse:
// a left-channel mute lasting pulseMuteS out of every pulseCycleS,
// independent of and layered on top of whichever preset is active.
const pulseCycleS = 3.0
const pulseMuteS = 0.25

// voice is anything that can produce one (left, right) sample pair.
type voice interface {
	nextStereo() (float64, float64)
}

// monoVoice adapts a single-sample generator (sine, sweep, noise) into
// a voice by applying Routing across the stereo field.
type monoVoice struct {
	source  func() float64
	routing Routing

	// for StereoUncorrelated, a second independent source is needed.
	sourceR func() float64
}

func (m *monoVoice) nextStereo() (float64, float64) {
	switch m.routing {
	case RoutingMono, RoutingStereo:
		s := m.source()
		return s, s
	case RoutingStereoUncorrelated:
		return m.source(), m.sourceR()
	case RoutingLeftOnly:
		return m.source(), 0
	case RoutingRightOnly:
		return 0, m.source()
	case RoutingAntiPhase:
		s := m.source()
		return s, -s
	default:
		s := m.source()
		return s, s
	}
}

// stereoVoice wraps a generator that produces its own (left, right)
// pair natively (GLITS, Lissajous) and is not subject to Routing.
type stereoVoice struct {
	source func() (float64, float64)
}

func (s *stereoVoice) nextStereo() (float64, float64) {
	return s.source()
}

// Generator is the SignalGenerator: it renders one active Preset into
// interleaved-ready left/right sample slices, gain-ramping across
// preset switches and driving the EBU stereo-ID pulse.
type Generator struct {
	sampleRate float64

	active  voice
	preset  Preset
	monitor *gainRamp

	collapse *gainRamp

	guard *guard.TransitionGuard

	pulsePos   float64
	pulseRamp  *gainRamp
	pulseMuted bool
}

// New creates a Generator with no active preset (silence) at the
// given sample rate.
func New(sampleRate float64, g *guard.TransitionGuard) *Generator {
	return &Generator{
		sampleRate: sampleRate,
		monitor:    newGainRamp(1.0),
		collapse:   newGainRamp(1.0),
		guard:      g,
		pulseRamp:  newGainRamp(1.0),
	}
}

// SetMonitorGainDB ramps the monitor send gain to the given level over
// monitorRampMS, independent of preset switching.
func (g *Generator) SetMonitorGainDB(db float64) {
	g.monitor.rampTo(dbToLinear(db), millisToSamples(monitorRampMS, g.sampleRate))
}

// SwitchPreset replaces the active preset at once: the new voice is
// constructed and installed, the collapse gain is reset to zero, and
// the new voice is ramped in over switchRampMS. The outgoing voice is
// not faded out; it stops at the switch instant. Monitor send gain is
// untouched by the switch so operators don't hear a level jump that
// isn't part of the signal itself. now is passed through to the
// TransitionGuard so downstream widgets blank across the switch.
func (g *Generator) SwitchPreset(p Preset, now time.Time) {
	g.collapse.rampTo(0.0, millisToSamples(switchRampMS, g.sampleRate))
	g.active = g.buildVoice(p)
	g.preset = p
	g.collapse.current = 0.0
	g.collapse.rampTo(1.0, millisToSamples(switchRampMS, g.sampleRate))
	if g.guard != nil {
		g.guard.Trigger(now)
	}
}

func (g *Generator) buildVoice(p Preset) voice {
	switch p.Type {
	case PresetSine:
		sv := newSineVoice(g.sampleRate, p.FreqHz, p.LevelDBFS)
		return &monoVoice{source: sv.next, routing: p.Routing}

	case PresetWhite, PresetPink, PresetBrown:
		level := dbToLinear(p.LevelDBFS)
		loopL := newNoiseLoop(g.sampleRate, p.Type, p.LoHz, p.HiHz)
		frameL := make([]float32, 1)
		sourceL := func() float64 {
			loopL.next(frameL)
			return float64(frameL[0]) * level
		}
		if p.Routing == RoutingStereoUncorrelated {
			loopR := newNoiseLoop(g.sampleRate, p.Type, p.LoHz, p.HiHz)
			frameR := make([]float32, 1)
			sourceR := func() float64 {
				loopR.next(frameR)
				return float64(frameR[0]) * level
			}
			return &monoVoice{source: sourceL, sourceR: sourceR, routing: p.Routing}
		}
		return &monoVoice{source: sourceL, routing: p.Routing}

	case PresetSweep:
		sw := newSweepVoice(g.sampleRate, p.LoHz, p.HiHz, p.SweepDurationS, p.LevelDBFS)
		return &monoVoice{source: sw.next, routing: p.Routing}

	case PresetGLITS:
		gv := newGlitsVoice(g.sampleRate, p.LevelDBFS)
		return &stereoVoice{source: gv.next}

	case PresetLissajous:
		lv := newLissajousVoice(g.sampleRate, p.FreqHz, p.LevelDBFS, p.PhaseDeg, p.RatioNum, p.RatioDen)
		return &stereoVoice{source: lv.next}

	case PresetVectorText:
		sv := newSineVoice(g.sampleRate, p.FreqHz, p.LevelDBFS)
		return &monoVoice{source: sv.next, routing: RoutingStereo}

	default:
		return &monoVoice{source: func() float64 { return 0 }, routing: RoutingStereo}
	}
}

// Render fills left and right (equal length) with the next nFrames
// samples of the active preset, applying the collapse/expand ramp,
// the EBU stereo-ID pulse (when active), and the monitor send gain.
// now timestamps any TransitionGuard triggers caused by pulse edges
// crossed during this call.
func (g *Generator) Render(left, right []float32, now time.Time) {
	pulsed := g.preset.pulsed()
	for i := range left {
		var l, r float64
		if g.active != nil {
			l, r = g.active.nextStereo()
		}

		c := g.collapse.next()
		l *= c
		r *= c

		if pulsed {
			l *= g.pulseGain(now)
		} else {
			if g.pulseMuted {
				// a non-pulsed preset became active; ramp L back to unity.
				g.pulseMuted = false
				g.pulseRamp.rampTo(1.0, millisToSamples(2.0, g.sampleRate))
			}
			l *= g.pulseRamp.next()
		}

		m := g.monitor.next()
		left[i] = float32(l * m)
		right[i] = float32(r * m)
	}
}

// pulseGain advances the EBU stereo-ID pulse clock by one sample and
// returns the current left-channel pulse gain: muted for pulseMuteS
// out of every pulseCycleS, with a 2ms ramp at each transition. Each
// toggle triggers the TransitionGuard.
func (g *Generator) pulseGain(now time.Time) float64 {
	shouldMute := g.pulsePos < pulseMuteS
	if shouldMute != g.pulseMuted {
		g.pulseMuted = shouldMute
		steps := millisToSamples(2.0, g.sampleRate)
		if shouldMute {
			g.pulseRamp.rampTo(0.0, steps)
		} else {
			g.pulseRamp.rampTo(1.0, steps)
		}
		if g.guard != nil {
			g.guard.Trigger(now)
		}
	}

	gain := g.pulseRamp.next()

	g.pulsePos += 1.0 / g.sampleRate
	if g.pulsePos >= pulseCycleS {
		g.pulsePos -= pulseCycleS
	}

	return gain
}

// ActivePreset returns the currently-selected preset.
func (g *Generator) ActivePreset() Preset {
	return g.preset
}
