// Package meterstate defines MeterState: the published, read-only
// snapshot widgets consume. It carries no behaviour of its own beyond
// the silence-sentinel text formatting that every display path shares.
package meterstate

import (
	"fmt"
	"time"

	"github.com/wavefield/stereometer/pkg/meter/goniometer"
)

// SilenceSentinel is shown in place of a numeric reading for any metric
// below its silence floor or not yet gated in.
const SilenceSentinel = "--.-"

// LoudnessColour is the colour-coded classification of a loudness
// reading against the target, per §4.8.
type LoudnessColour int

const (
	ColourGreen LoudnessColour = iota
	ColourCyan
	ColourAmber
	ColourRed
)

// ClassifyLoudness maps a LUFS reading against target into the
// documented colour bands: [target-1, target+1] green; below -1 cyan;
// (+1, +3] amber; above +3 red.
func ClassifyLoudness(lufs, target float64) LoudnessColour {
	delta := lufs - target
	switch {
	case delta < -1:
		return ColourCyan
	case delta <= 1:
		return ColourGreen
	case delta <= 3:
		return ColourAmber
	default:
		return ColourRed
	}
}

// RadarEntry is one RadarHistory sample.
type RadarEntry struct {
	AtMS           int64
	ShortTermLUFS  float64
}

// LUFSState is the gated LUFS readout, with per-metric availability
// matching the display-delay gating in §4.8.
type LUFSState struct {
	Momentary        float64
	MomentaryReady   bool
	ShortTerm        float64
	ShortTermReady   bool
	Integrated       float64
	IntegratedReady  bool
	LRA              float64
	LRAReady         bool
	Colour           LoudnessColour
}

// TruePeakState is the per-channel True Peak readout.
type TruePeakState struct {
	CurrentL, CurrentR float64
	HoldL, HoldR       float64
	CumulativeMax      float64
	PeakOver           bool
}

// PPMState is the per-channel Nordic PPM readout.
type PPMState struct {
	DBFSL, DBFSR float64
	DBuL, DBuR   float64
	HoldDBFSL    float64
	HoldDBFSR    float64
	SilentL      bool
	SilentR      bool
}

// StereoState mirrors stereo.Snapshot for publication.
type StereoState struct {
	Correlation float64
	BalanceDB   float64
	Width       float64
	WidthHold   float64
	MidDB       float64
	SideDB      float64
	Rotation    float64
	History     []float64
}

// Snapshot is the full MeterState published at the end of each
// RenderState tick.
type Snapshot struct {
	Timestamp   time.Time
	ElapsedS    float64
	LUFS        LUFSState
	Crest       float64
	CrestReady  bool
	TruePeak    TruePeakState
	PPM         PPMState
	Stereo      StereoState
	Goniometer  []goniometer.Point
	Radar       []RadarEntry
	ShouldRender bool
}

// FormatLUFS renders a LUFS value or the silence sentinel when not yet
// gated in.
func FormatLUFS(value float64, ready bool) string {
	if !ready {
		return SilenceSentinel + " LUFS"
	}
	return fmt.Sprintf("%.1f LUFS", value)
}

// FormatDBTP renders a True Peak value, always available once a window
// has been processed (TP has no gating delay, only the silence floor
// convention that §6 applies to level meters generally).
func FormatDBTP(value float64) string {
	if value <= ppmSilenceFloor {
		return SilenceSentinel + " dBTP"
	}
	return fmt.Sprintf("%.1f dBTP", value)
}

// FormatPPMDBu renders a PPM dBu reading, respecting the silence floor.
func FormatPPMDBu(dbu float64, silent bool) string {
	if silent {
		return SilenceSentinel
	}
	return fmt.Sprintf("%.1f dBu", dbu)
}

// ppmSilenceFloor mirrors ppm.SilenceFloorDBFS without importing the
// ppm package, to keep meterstate free of meter-engine logic.
const ppmSilenceFloor = -59.0
