package ppm

import (
	"math"
	"testing"
	"time"
)

const tick = time.Second / 60

func TestHoldNeverBelowCurrent(t *testing.T) {
	m := New(tick)
	now := time.Now()

	loud := []float32{0.8, 0.8, 0.8}
	for i := 0; i < 10; i++ {
		m.Update(loud, loud, now.Add(time.Duration(i)*tick))
	}

	if m.L.HoldDBFS() < m.L.CurrentDBFS()-1e-9 {
		t.Errorf("hold %v below current %v", m.L.HoldDBFS(), m.L.CurrentDBFS())
	}
}

func TestSilenceBelowFloor(t *testing.T) {
	m := New(tick)
	silence := []float32{0, 0, 0}
	m.Update(silence, silence, time.Now())

	if !m.L.IsSilent() {
		t.Errorf("expected silence below floor, got %v dBFS", m.L.CurrentDBFS())
	}
}

func TestDBuOffsetApplied(t *testing.T) {
	m := New(tick)
	now := time.Now()
	loud := make([]float32, 200)
	for i := range loud {
		loud[i] = 1.0
	}
	for i := 0; i < 200; i++ {
		m.Update(loud, loud, now.Add(time.Duration(i)*tick))
	}

	gotDBu := m.L.CurrentDBu()
	wantDBu := m.L.CurrentDBFS() + DBuAlignmentOffset
	if math.Abs(gotDBu-wantDBu) > 1e-9 {
		t.Errorf("dBu = %v, want %v", gotDBu, wantDBu)
	}
}

func TestReleaseApproachesTargetOverTime(t *testing.T) {
	m := New(tick)
	now := time.Now()

	loud := make([]float32, 200)
	for i := range loud {
		loud[i] = 1.0
	}
	for i := 0; i < 400; i++ {
		m.Update(loud, loud, now.Add(time.Duration(i)*tick))
	}
	peakLevel := m.L.CurrentDBFS()

	quiet := make([]float32, 200)
	for i := range quiet {
		quiet[i] = 0.01
	}
	var last time.Time
	for i := 0; i < 600; i++ {
		last = now.Add(time.Duration(400+i) * tick)
		m.Update(quiet, quiet, last)
	}

	released := m.L.CurrentDBFS()
	if released >= peakLevel {
		t.Errorf("level did not release: peak=%v released=%v", peakLevel, released)
	}
}
