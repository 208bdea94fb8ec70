// Package generator implements SignalGenerator: deterministic test
// signals with schedule-ahead automation, replacing the dynamic
// "data-" attribute records of the original source with a typed,
// exhaustively-dispatched preset record.
package generator

// PresetType identifies one of the generator's signal types.
type PresetType int

const (
	PresetSine PresetType = iota
	PresetPink
	PresetWhite
	PresetBrown
	PresetSweep
	PresetGLITS
	PresetLissajous
	// PresetVectorText is the EBU stereo-ID pulse: a sine at FreqHz with a
	// periodic L-channel mute, driving TransitionGuard and the operator
	// vectorscope identification display.
	PresetVectorText
)

func (p PresetType) String() string {
	switch p {
	case PresetSine:
		return "sine"
	case PresetPink:
		return "pink"
	case PresetWhite:
		return "white"
	case PresetBrown:
		return "brown"
	case PresetSweep:
		return "sweep"
	case PresetGLITS:
		return "glits"
	case PresetLissajous:
		return "lissajous"
	case PresetVectorText:
		return "vectortext"
	default:
		return "unknown"
	}
}

// Routing selects how a generated mono or dual-oscillator signal is
// placed across the stereo field.
type Routing int

const (
	RoutingStereo Routing = iota
	RoutingStereoUncorrelated
	RoutingMono
	RoutingLeftOnly
	RoutingRightOnly
	RoutingAntiPhase
)

// Preset is the typed, exhaustive-dispatch record of all parameters any
// generator type may need; unused fields for a given Type are ignored.
type Preset struct {
	Type PresetType

	FreqHz    float64
	LevelDBFS float64

	LoHz, HiHz float64

	Routing Routing

	PhaseDeg float64

	// RatioNum:RatioDen is the Lissajous frequency ratio.
	RatioNum, RatioDen int

	SweepDurationS float64

	// Pulsed marks that the EBU stereo-ID pulse should run alongside
	// this preset (independent of Type == PresetVectorText, which is
	// always pulsed).
	Pulsed bool
}

// pulsed reports whether this preset drives the EBU stereo-ID pulse.
func (p Preset) pulsed() bool {
	return p.Pulsed || p.Type == PresetVectorText
}
