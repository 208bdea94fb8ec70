package source

import (
	"context"
	"errors"
	"testing"
)

func TestSwitchToSameModeIsNoOp(t *testing.T) {
	c := New(nil, nil, nil)
	if err := c.Switch(context.Background(), ModeNone); err != nil {
		t.Fatalf("switch to ModeNone: %v", err)
	}
	if c.Active() != ModeNone {
		t.Fatalf("expected ModeNone, got %v", c.Active())
	}
}

func TestSwitchToGeneratorSucceedsWithoutCapture(t *testing.T) {
	c := New(nil, nil, nil)
	if err := c.Switch(context.Background(), ModeGenerator); err != nil {
		t.Fatalf("switch to generator: %v", err)
	}
	if c.Active() != ModeGenerator {
		t.Fatalf("expected ModeGenerator, got %v", c.Active())
	}
}

func TestFailedCaptureLeavesActiveNone(t *testing.T) {
	fc := NewFakeCapture(nil, nil, 48000)
	fc.SetStartError(errors.New("permission denied"))
	c := New(fc, nil, nil)

	err := c.Switch(context.Background(), ModeCaptureA)
	if err == nil {
		t.Fatal("expected error from failed capture start")
	}
	var capErr *CaptureError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected *CaptureError, got %T", err)
	}
	if c.Active() != ModeNone {
		t.Fatalf("expected Active()=ModeNone after failed start, got %v", c.Active())
	}
}

func TestSuccessfulCapturePopulatesInfo(t *testing.T) {
	fc := NewFakeCapture(make([]float32, 16), make([]float32, 16), 48000)
	c := New(fc, nil, nil)

	if err := c.Switch(context.Background(), ModeCaptureA); err != nil {
		t.Fatalf("switch to capture A: %v", err)
	}
	if c.Info().SampleRate != 48000 {
		t.Fatalf("expected sample rate 48000, got %v", c.Info().SampleRate)
	}
}

func TestSwitchingAwayFromCaptureStopsIt(t *testing.T) {
	fc := NewFakeCapture(make([]float32, 16), make([]float32, 16), 48000)
	c := New(fc, nil, nil)

	_ = c.Switch(context.Background(), ModeCaptureA)
	_ = c.Switch(context.Background(), ModeNone)

	if fc.running {
		t.Fatal("expected capture to be stopped after switching away")
	}
}

func TestMutedMonitorLevelReturnsZero(t *testing.T) {
	c := New(nil, nil, nil)
	c.SetMonitorLevel(ModeGenerator, 0.8)
	c.SetMuted(ModeGenerator, true)
	if got := c.MonitorLevel(ModeGenerator); got != 0 {
		t.Fatalf("expected muted level 0, got %v", got)
	}
}
