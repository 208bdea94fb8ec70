package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/wavefield/stereometer/pkg/appstate"
	"github.com/wavefield/stereometer/pkg/generator"
	"github.com/wavefield/stereometer/pkg/guard"
	"github.com/wavefield/stereometer/pkg/source"
)

func TestSchedulerPublishesIdleSnapshotWithNoActiveSource(t *testing.T) {
	state := appstate.New()
	src := source.New(nil, nil, nil)
	g := guard.New()
	sched := New(48000, g, state, src, generator.New(48000, g), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go sched.Run(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()

	snap := sched.Snapshot()
	if snap.LUFS.MomentaryReady {
		t.Fatal("expected momentary not ready with no active source")
	}
}

func TestSchedulerRendersGeneratorSineSignal(t *testing.T) {
	state := appstate.New()
	src := source.New(nil, nil, nil)
	g := guard.New()
	gen := generator.New(48000, g)
	sched := New(48000, g, state, src, gen, nil)

	ctx, cancel := context.WithCancel(context.Background())
	_ = src.Switch(ctx, source.ModeGenerator)
	gen.SwitchPreset(generator.Preset{Type: generator.PresetSine, FreqHz: 1000, LevelDBFS: -18, Routing: generator.RoutingStereo}, time.Now())

	go sched.Run(ctx)
	time.Sleep(50 * time.Millisecond)
	cancel()

	snap := sched.Snapshot()
	if snap.Timestamp.IsZero() {
		t.Fatal("expected a published snapshot with a non-zero timestamp")
	}
}
