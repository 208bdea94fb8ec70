package generator

import (
	"math"
	"testing"
	"time"

	"github.com/wavefield/stereometer/pkg/guard"
)

func TestSineMonoRoutingProducesEqualChannels(t *testing.T) {
	g := New(48000, guard.New())
	g.SwitchPreset(Preset{Type: PresetSine, FreqHz: 1000, LevelDBFS: -18, Routing: RoutingMono}, time.Unix(0, 0))

	left := make([]float32, 64)
	right := make([]float32, 64)
	// drain the switch ramp before asserting equality
	for i := 0; i < 10; i++ {
		g.Render(left, right, time.Unix(0, 0))
	}
	g.Render(left, right, time.Unix(0, 0))
	for i := range left {
		if left[i] != right[i] {
			t.Fatalf("mono routing diverged at %d: L=%v R=%v", i, left[i], right[i])
		}
	}
}

func TestLeftOnlyRoutingSilencesRight(t *testing.T) {
	g := New(48000, guard.New())
	g.SwitchPreset(Preset{Type: PresetSine, FreqHz: 1000, LevelDBFS: -18, Routing: RoutingLeftOnly}, time.Unix(0, 0))

	left := make([]float32, 64)
	right := make([]float32, 64)
	for i := 0; i < 10; i++ {
		g.Render(left, right, time.Unix(0, 0))
	}
	for _, r := range right {
		if r != 0 {
			t.Fatalf("expected right channel silent, got %v", r)
		}
	}
}

func TestAntiPhaseRoutingNegatesRight(t *testing.T) {
	g := New(48000, guard.New())
	g.SwitchPreset(Preset{Type: PresetSine, FreqHz: 1000, LevelDBFS: -18, Routing: RoutingAntiPhase}, time.Unix(0, 0))

	left := make([]float32, 64)
	right := make([]float32, 64)
	for i := 0; i < 10; i++ {
		g.Render(left, right, time.Unix(0, 0))
	}
	for i := range left {
		if left[i] != -right[i] {
			t.Fatalf("expected anti-phase at %d: L=%v R=%v", i, left[i], right[i])
		}
	}
}

func TestSwitchPresetTriggersGuard(t *testing.T) {
	guardInst := guard.New()
	g := New(48000, guardInst)
	now := time.Unix(100, 0)
	g.SwitchPreset(Preset{Type: PresetSine, FreqHz: 1000, Routing: RoutingStereo}, now)

	if guardInst.ShouldRender(now) {
		t.Fatal("expected guard to blank rendering immediately after a preset switch")
	}
}

func TestLissajousUnityRatioStaysInPhaseLock(t *testing.T) {
	v := newLissajousVoice(48000, 1000, -18, 90, 1, 1)
	amp := math.Pow(10, -18.0/20)
	for i := 0; i < 1000; i++ {
		l, r := v.next()
		if l < -1.01 || l > 1.01 || r < -1.01 || r > 1.01 {
			t.Fatalf("sample out of range at %d: L=%v R=%v", i, l, r)
		}
		// a 90 degree offset at 1:1 keeps every (L, R) pair on a circle
		if d := l*l + r*r - amp*amp; math.Abs(d) > 1e-9 {
			t.Fatalf("phase lock lost at %d: L=%v R=%v (L^2+R^2-A^2=%v)", i, l, r, d)
		}
	}
}
