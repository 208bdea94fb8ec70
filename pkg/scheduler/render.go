package scheduler

import (
	"math"
	"time"

	"github.com/wavefield/stereometer/pkg/meter/goniometer"
	"github.com/wavefield/stereometer/pkg/meter/ppm"
	"github.com/wavefield/stereometer/pkg/meterstate"
	"github.com/wavefield/stereometer/pkg/source"
)

// renderTick implements RenderState (§4.9), run every animation tick:
// pull fresh audio (or reuse a cached window on a long frame), run the
// per-tick ballistics engines, update the peak-over latch, and publish
// a meterstate.Snapshot for widgets to read.
func (s *Scheduler) renderTick(now time.Time) {
	firstTick := s.lastRenderAt.IsZero()
	delta := now.Sub(s.lastRenderAt)
	s.lastRenderAt = now
	longFrame := !firstTick && delta > longFrameThreshold

	active := s.src.Active()

	if !longFrame && active != source.ModeNone {
		s.fillChunk(now)
		s.win.Write(s.chunkL, s.chunkR)
		s.win.Snapshot(s.snapL, s.snapR)
	}
	// on a long frame, snapL/snapR simply keep last tick's contents.

	snap := meterstate.Snapshot{Timestamp: now}

	if active == source.ModeRemote {
		s.publishRemote(&snap, now)
	} else if active != source.ModeNone {
		s.publishLocal(&snap, now)
	}

	snap.ShouldRender = s.guardian.ShouldRender(now)
	s.published.value = snap
}

// fillChunk reads one render-tick's worth of frames from whichever
// source is active (capture or generator) into chunkL/chunkR and
// applies that source's persisted trim, implementing the
// source -> trim -> analysis-bus leg of the fixed routing graph.
func (s *Scheduler) fillChunk(now time.Time) {
	active := s.src.Active()
	switch active {
	case source.ModeCaptureA, source.ModeCaptureB:
		s.src.ReadActive(s.chunkL, s.chunkR)
	case source.ModeGenerator:
		s.gen.Render(s.chunkL, s.chunkR, now)
	}

	trim := dbToLinear(s.src.Trim(active))
	if trim == 1.0 {
		return
	}
	for i := range s.chunkL {
		s.chunkL[i] *= float32(trim)
		s.chunkR[i] *= float32(trim)
	}
}

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

func (s *Scheduler) publishLocal(snap *meterstate.Snapshot, now time.Time) {
	s.tpMeter.Update(s.snapL, s.snapR, now)
	s.ppmMeter.Update(s.snapL, s.snapR, now)
	stereoSnap := s.stereoA.Process(s.snapL, s.snapR, now)

	target := s.state.TargetLUFS()
	elapsed := now.Sub(s.resetAt).Seconds()

	momentary := s.lufsMeter.GetMomentaryLUFS()
	shortTerm := s.lufsMeter.GetShortTermLUFS()
	integrated := s.lufsMeter.GetIntegratedLUFS()
	lra := s.lufsMeter.GetLoudnessRange()

	momentaryReady := elapsed >= momentaryGateS
	shortTermReady := elapsed >= shortTermGateS
	integratedReady := elapsed >= integratedGateS

	snap.ElapsedS = elapsed
	snap.LUFS = meterstate.LUFSState{
		Momentary:      guardFinite(momentary),
		MomentaryReady: momentaryReady && !math.IsInf(momentary, -1),
		ShortTerm:      guardFinite(shortTerm),
		ShortTermReady: shortTermReady && !math.IsInf(shortTerm, -1),
		Integrated:     guardFinite(integrated),
		IntegratedReady: integratedReady && !math.IsInf(integrated, -1),
		LRA:            guardFinite(lra),
		LRAReady:       shortTermReady,
		Colour:         meterstate.ClassifyLoudness(guardFinite(momentary), target),
	}

	crest := s.tpMeter.L.CurrentDB() - s.ppmMeter.L.CurrentDBFS()
	snap.Crest = guardFinite(crest)
	snap.CrestReady = shortTermReady

	limit := s.state.TruePeakLimitDBTP()
	tpMax := math.Max(s.tpMeter.L.CumulativeMaxDB(), s.tpMeter.R.CumulativeMaxDB())
	if !math.IsInf(tpMax, -1) && tpMax >= limit {
		s.peakOver = true
		s.peakOverSince = now
	} else if s.peakOver && now.Sub(s.peakOverSince) > peakOverLatchHoldMS {
		s.peakOver = false
	}

	snap.TruePeak = meterstate.TruePeakState{
		CurrentL:      guardFinite(s.tpMeter.L.CurrentDB()),
		CurrentR:      guardFinite(s.tpMeter.R.CurrentDB()),
		HoldL:         guardFinite(s.tpMeter.L.HoldDB()),
		HoldR:         guardFinite(s.tpMeter.R.HoldDB()),
		CumulativeMax: guardFinite(tpMax),
		PeakOver:      s.peakOver,
	}

	snap.PPM = meterstate.PPMState{
		DBFSL:     guardFinite(s.ppmMeter.L.CurrentDBFS()),
		DBFSR:     guardFinite(s.ppmMeter.R.CurrentDBFS()),
		DBuL:      guardFinite(s.ppmMeter.L.CurrentDBu()),
		DBuR:      guardFinite(s.ppmMeter.R.CurrentDBu()),
		HoldDBFSL: guardFinite(s.ppmMeter.L.HoldDBFS()),
		HoldDBFSR: guardFinite(s.ppmMeter.R.HoldDBFS()),
		SilentL:   s.ppmMeter.L.IsSilent(),
		SilentR:   s.ppmMeter.R.IsSilent(),
	}

	snap.Stereo = meterstate.StereoState{
		Correlation: stereoSnap.Correlation,
		BalanceDB:   stereoSnap.BalanceDB,
		Width:       stereoSnap.Width,
		WidthHold:   stereoSnap.WidthHold,
		MidDB:       stereoSnap.MidDB,
		SideDB:      stereoSnap.SideDB,
		Rotation:    stereoSnap.Rotation,
		History:     stereoSnap.History,
	}

	pts := goniometer.Transform(s.snapL, s.snapR)
	snap.Goniometer = goniometer.Decimate(pts, goniometerDisplayPoints)
	snap.Radar = append([]meterstate.RadarEntry(nil), s.radar...)
}

func (s *Scheduler) publishRemote(snap *meterstate.Snapshot, now time.Time) {
	if !s.ingest.Online() {
		// idle displays: zero-value Snapshot fields, except timestamp.
		return
	}
	f := s.ingest.LastFrame()
	target := s.state.TargetLUFS()

	snap.ElapsedS = now.Sub(s.resetAt).Seconds()
	snap.LUFS = meterstate.LUFSState{
		Momentary:       f.LUFS.M,
		MomentaryReady:  true,
		ShortTerm:       f.LUFS.S,
		ShortTermReady:  true,
		Integrated:      f.LUFS.I,
		IntegratedReady: true,
		LRA:             f.LUFS.LRA,
		LRAReady:        true,
		Colour:          meterstate.ClassifyLoudness(f.LUFS.M, target),
	}

	holdL, holdR := s.ingest.TruePeakHoldDB()
	limit := s.state.TruePeakLimitDBTP()
	cumMax := s.ingest.CumulativeMaxDB()
	if cumMax >= limit {
		s.peakOver = true
		s.peakOverSince = now
	} else if s.peakOver && now.Sub(s.peakOverSince) > peakOverLatchHoldMS {
		s.peakOver = false
	}

	snap.TruePeak = meterstate.TruePeakState{
		CurrentL:      f.TruePeak.L,
		CurrentR:      f.TruePeak.R,
		HoldL:         holdL,
		HoldR:         holdR,
		CumulativeMax: cumMax,
		PeakOver:      s.peakOver,
	}

	snap.PPM = meterstate.PPMState{
		DBFSL: f.PPM.L,
		DBFSR: f.PPM.R,
		DBuL:  f.PPM.L + ppm.DBuAlignmentOffset,
		DBuR:  f.PPM.R + ppm.DBuAlignmentOffset,
	}

	snap.Stereo = meterstate.StereoState{
		Correlation: f.Stereo.Corr,
		BalanceDB:   f.Stereo.Bal,
		Width:       f.Stereo.Width,
		WidthHold:   f.Stereo.WidthPeak,
		MidDB:       f.Stereo.Mid,
		SideDB:      f.Stereo.Side,
		Rotation:    f.Stereo.Rot,
	}

	snap.Goniometer = f.Visualization.GoniometerPoints
	snap.Radar = append([]meterstate.RadarEntry(nil), s.radar...)
}

// guardFinite replaces NaN/+Inf with -Inf (the "not yet meaningful"
// sentinel downstream formatting already handles) so no non-finite
// value can poison a smoothing step in a later tick, per §7's
// "numeric invalids" policy. -Inf survives because several readings
// (e.g. LUFS before any block) are legitimately -Inf until gated in.
func guardFinite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 1) {
		return math.Inf(-1)
	}
	return v
}
