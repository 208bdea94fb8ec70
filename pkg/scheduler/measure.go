package scheduler

import (
	"math"
	"time"

	"github.com/wavefield/stereometer/pkg/meter/window"
	"github.com/wavefield/stereometer/pkg/meterstate"
	"github.com/wavefield/stereometer/pkg/source"
)

// measureTick implements MeasureLoop (§4.8), run every 50ms: push a
// block energy into LUFS from the current window, refresh the
// cumulative True-Peak max (the render loop is the sole writer of
// per-tick True-Peak ballistics; this loop only reads the hold), and
// accumulate RadarHistory once the short-term metric is gated in.
func (s *Scheduler) measureTick(now time.Time) {
	if s.src.Active() == source.ModeNone {
		return
	}

	var l, r [window.Size]float32
	s.win.Snapshot(l[:], r[:])

	// LUFS accumulates over a 50ms-equivalent slice of the window; the
	// most recent portion is representative since the window slides
	// forward continuously.
	n := int(s.sampleRate * 0.05)
	if n > len(l) {
		n = len(l)
	}
	s.lufsMeter.Process(l[len(l)-n:], r[len(r)-n:])

	tpHoldMax := math.Max(s.tpMeter.L.HoldDB(), s.tpMeter.R.HoldDB())
	if !math.IsInf(tpHoldMax, 0) && (math.IsInf(s.cumulativeTP, -1) || tpHoldMax > s.cumulativeTP) {
		s.cumulativeTP = tpHoldMax
	}

	elapsed := now.Sub(s.resetAt).Seconds()

	stEntry := s.lufsMeter.GetShortTermLUFS()
	if elapsed >= shortTermGateS && !math.IsInf(stEntry, -1) {
		s.pushRadar(now, stEntry)
	}
}

func (s *Scheduler) pushRadar(now time.Time, shortTermLUFS float64) {
	atMS := now.Sub(s.resetAt).Milliseconds()
	s.radar = append(s.radar, meterstate.RadarEntry{AtMS: atMS, ShortTermLUFS: shortTermLUFS})

	windowMS := int64(s.state.RadarWindowS() * 1000)
	cutoff := atMS - windowMS
	kept := s.radar[:0]
	for _, e := range s.radar {
		if e.AtMS >= cutoff {
			kept = append(kept, e)
		}
	}
	s.radar = kept
}
