package generator

import "math"

// gainRamp is a linear gain ramp used for click-free mutes and preset
// switches, adapted from the LinearSmoothing branch of the teacher's
// parameter smoother: a fixed per-sample step computed from a duration
// rather than an arbitrary externally-set rate.
type gainRamp struct {
	current float64
	target  float64
	step    float64
}

func newGainRamp(initial float64) *gainRamp {
	return &gainRamp{current: initial, target: initial}
}

// rampTo schedules a ramp to target over durationSamples samples.
func (g *gainRamp) rampTo(target float64, durationSamples int) {
	if durationSamples <= 0 {
		g.current = target
		g.target = target
		g.step = 0
		return
	}
	g.target = target
	g.step = (target - g.current) / float64(durationSamples)
}

// next advances the ramp by one sample and returns the new value.
func (g *gainRamp) next() float64 {
	if g.current == g.target {
		return g.current
	}
	g.current += g.step
	if (g.step > 0 && g.current >= g.target) || (g.step < 0 && g.current <= g.target) {
		g.current = g.target
	}
	return g.current
}

func (g *gainRamp) value() float64 { return g.current }

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

func millisToSamples(ms float64, sampleRate float64) int {
	return int(ms * sampleRate / 1000.0)
}
