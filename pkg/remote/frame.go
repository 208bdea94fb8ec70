// Package remote implements RemoteIngest: decoding pre-computed metric
// frames from a remote probe and substituting them for the locally
// computed metering pipeline with identical downstream semantics. The
// broker's production/transport side is out of scope for this module
// (see SPEC_FULL.md §6); only frame decoding and the receiving-side
// state machine live here.
package remote

import (
	"encoding/json"

	"github.com/wavefield/stereometer/pkg/meter/goniometer"
)

// ConnStatus mirrors the broker status transitions of spec section 6.
type ConnStatus int

const (
	StatusDisconnected ConnStatus = iota
	StatusConnecting
	StatusConnected
	StatusReconnecting
	StatusError
)

func (s ConnStatus) String() string {
	switch s {
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusReconnecting:
		return "reconnecting"
	case StatusError:
		return "error"
	default:
		return "disconnected"
	}
}

// ProbeDescriptor is one entry of the broker's probe_list message.
type ProbeDescriptor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsOnline bool   `json:"is_online"`
}

// SpectrumBandCount is the number of ISO 266 one-third-octave bands in
// a Frame's spectrum visualization.
const SpectrumBandCount = 31

// GoniometerPointCount is the number of pre-transformed (M,S) pairs a
// Frame carries for the vectorscope.
const GoniometerPointCount = 128

// Frame is the pre-computed metric payload the probe pushes, matching
// the shape of spec section 4.10.
type Frame struct {
	ProbeID string `json:"probe_id"`

	LUFS struct {
		M   float64 `json:"m"`
		S   float64 `json:"s"`
		I   float64 `json:"i"`
		LRA float64 `json:"lra"`
	} `json:"lufs"`

	TruePeak struct {
		L float64 `json:"l"`
		R float64 `json:"r"`
	} `json:"true_peak"`

	PPM struct {
		L float64 `json:"l"`
		R float64 `json:"r"`
	} `json:"ppm"`

	RMS struct {
		L float64 `json:"l"`
		R float64 `json:"r"`
	} `json:"rms"`

	Stereo struct {
		Corr      float64 `json:"corr"`
		Bal       float64 `json:"bal"`
		Width     float64 `json:"width"`
		WidthPeak float64 `json:"width_peak"`
		Mid       float64 `json:"mid"`
		Side      float64 `json:"side"`
		Rot       float64 `json:"rot"`
	} `json:"stereo"`

	Visualization struct {
		GoniometerPoints []goniometer.Point  `json:"goniometer_points"`
		SpectrumBands    [SpectrumBandCount]float64 `json:"spectrum_bands"`
	} `json:"visualization"`

	LatencyMS float64 `json:"latency_ms"`
}

// JSONDecoder decodes broker metrics(probe_id, frame) payloads. It is
// intentionally bare: no socket handling, no reconnection state — that
// belongs to the broker implementation this module does not ship.
type JSONDecoder struct{}

// Decode parses a single JSON-encoded Frame.
func (JSONDecoder) Decode(data []byte) (Frame, error) {
	var f Frame
	err := json.Unmarshal(data, &f)
	return f, err
}
