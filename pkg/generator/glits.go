package generator

const glitsCycleS = 4.0
const glitsRampMS = 2.0

// glitsVoice generates the EBU 3304 GLITS identification tone: a 1kHz
// line-up tone with a left-channel mute in [0,250)ms and two
// right-channel mutes in [500,750)ms and [1000,1250)ms of every 4s
// cycle, with 2ms linear ramps in and out of each mute to avoid
// clicks.
type glitsVoice struct {
	tone      *sineVoice
	sampleRate float64
	cyclePos  float64

	leftRamp  *gainRamp
	rightRamp *gainRamp

	leftMuted  bool
	rightMuted bool
}

func newGlitsVoice(sampleRate, levelDBFS float64) *glitsVoice {
	return &glitsVoice{
		tone:       newSineVoice(sampleRate, 1000.0, levelDBFS),
		sampleRate: sampleRate,
		leftRamp:   newGainRamp(1.0),
		rightRamp:  newGainRamp(1.0),
	}
}

func (v *glitsVoice) rampSamples() int {
	return millisToSamples(glitsRampMS, v.sampleRate)
}

// next returns the (left, right) sample pair for the current instant
// and advances the cycle clock by one sample.
func (v *glitsVoice) next() (float64, float64) {
	tone := v.tone.next()

	ms := v.cyclePos * 1000.0
	leftShouldMute := ms >= 0 && ms < 250
	rightShouldMute := (ms >= 500 && ms < 750) || (ms >= 1000 && ms < 1250)

	if leftShouldMute != v.leftMuted {
		v.leftMuted = leftShouldMute
		if leftShouldMute {
			v.leftRamp.rampTo(0.0, v.rampSamples())
		} else {
			v.leftRamp.rampTo(1.0, v.rampSamples())
		}
	}
	if rightShouldMute != v.rightMuted {
		v.rightMuted = rightShouldMute
		if rightShouldMute {
			v.rightRamp.rampTo(0.0, v.rampSamples())
		} else {
			v.rightRamp.rampTo(1.0, v.rampSamples())
		}
	}

	left := tone * v.leftRamp.next()
	right := tone * v.rightRamp.next()

	v.cyclePos += 1.0 / v.sampleRate
	if v.cyclePos >= glitsCycleS {
		v.cyclePos -= glitsCycleS
	}

	return left, right
}
