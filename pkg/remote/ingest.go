package remote

import (
	"math"
	"time"
)

const holdSeconds = 3.0

// peakHold tracks current/hold with the same 3s hold time as the local
// True-Peak and PPM meters, but driven by values arriving in Frames
// rather than locally-computed samples: the probe itself is stateless
// between frames, so the 3s hold has to live on the receiving side.
// Unlike the local meters, each decay re-arms the hold: the hold drops
// to the latest value and keeps it for another 3s.
type peakHold struct {
	current     float64
	hold        float64
	heldSince   time.Time
	initialized bool
}

func (p *peakHold) update(value float64, now time.Time) {
	p.current = value
	if !p.initialized || value >= p.hold {
		p.hold = value
		p.heldSince = now
		p.initialized = true
		return
	}
	if now.Sub(p.heldSince).Seconds() >= holdSeconds {
		p.hold = value
		p.heldSince = now
	}
}

func (p *peakHold) reset() {
	*p = peakHold{}
}

// Ingest is RemoteIngest: it accepts decoded Frames for a subscribed
// probe and republishes them with independent peak-hold continuity.
// When the subscribed probe goes offline, Online() reports false so
// the caller clears downstream displays to idle.
type Ingest struct {
	subscribedProbe string
	online          bool

	last Frame

	peakL peakHold
	peakR peakHold
}

// NewIngest creates an Ingest with no subscription.
func NewIngest() *Ingest {
	return &Ingest{}
}

// Subscribe changes the subscribed probe and resets ingest state,
// since a new probe's value history has no relationship to the old
// one's.
func (ing *Ingest) Subscribe(probeID string) {
	ing.subscribedProbe = probeID
	ing.online = false
	ing.peakL.reset()
	ing.peakR.reset()
	ing.last = Frame{}
}

// SubscribedProbe returns the currently-subscribed probe ID, or "" if
// none.
func (ing *Ingest) SubscribedProbe() string { return ing.subscribedProbe }

// Accept processes a decoded Frame. Frames for any probe other than
// the subscribed one are ignored (a broker may multiplex several
// probes' metrics over one channel).
func (ing *Ingest) Accept(f Frame, now time.Time) {
	if ing.subscribedProbe == "" || f.ProbeID != ing.subscribedProbe {
		return
	}
	ing.online = true
	ing.last = f
	ing.peakL.update(f.TruePeak.L, now)
	ing.peakR.update(f.TruePeak.R, now)
}

// MarkOffline clears ingest state for the subscribed probe without
// dropping the subscription, so values resume from a clean state on
// reconnection rather than a stale hold.
func (ing *Ingest) MarkOffline() {
	ing.online = false
	ing.peakL.reset()
	ing.peakR.reset()
}

// Online reports whether the subscribed probe has delivered a frame
// since the last offline transition.
func (ing *Ingest) Online() bool { return ing.online }

// LastFrame returns the most recently accepted frame.
func (ing *Ingest) LastFrame() Frame { return ing.last }

// TruePeakHoldDB returns the per-channel held true-peak maxima,
// computed independently of whatever hold state the probe itself may
// carry.
func (ing *Ingest) TruePeakHoldDB() (l, r float64) {
	return ing.peakL.hold, ing.peakR.hold
}

// CumulativeMaxDB returns the larger of the two channels' held peaks.
// It is not a running maximum: it falls when a hold decays, and it is
// cleared with the holds by Subscribe and MarkOffline.
func (ing *Ingest) CumulativeMaxDB() float64 {
	return math.Max(ing.peakL.hold, ing.peakR.hold)
}
