package remote

import (
	"testing"
	"time"
)

func TestAcceptIgnoresOtherProbes(t *testing.T) {
	ing := NewIngest()
	ing.Subscribe("probe-1")

	f := Frame{ProbeID: "probe-2"}
	ing.Accept(f, time.Unix(0, 0))

	if ing.Online() {
		t.Fatal("expected ingest to remain offline for a non-subscribed probe")
	}
}

func TestAcceptMarksOnlineAndStoresFrame(t *testing.T) {
	ing := NewIngest()
	ing.Subscribe("probe-1")

	f := Frame{ProbeID: "probe-1"}
	f.LUFS.I = -23.4
	ing.Accept(f, time.Unix(0, 0))

	if !ing.Online() {
		t.Fatal("expected ingest to be online after accepting a matching frame")
	}
	if ing.LastFrame().LUFS.I != -23.4 {
		t.Fatalf("expected stored frame LUFS.I = -23.4, got %v", ing.LastFrame().LUFS.I)
	}
}

func TestPeakHoldSurvivesGapsBetweenFrames(t *testing.T) {
	ing := NewIngest()
	ing.Subscribe("probe-1")

	base := time.Unix(1000, 0)
	f := Frame{ProbeID: "probe-1"}
	f.TruePeak.L = -6.0
	ing.Accept(f, base)

	f.TruePeak.L = -20.0
	ing.Accept(f, base.Add(1*time.Second))

	l, _ := ing.TruePeakHoldDB()
	if l != -6.0 {
		t.Fatalf("expected held peak -6.0 within hold window, got %v", l)
	}
}

func TestPeakHoldDecaysAfterHoldSeconds(t *testing.T) {
	ing := NewIngest()
	ing.Subscribe("probe-1")

	base := time.Unix(2000, 0)
	f := Frame{ProbeID: "probe-1"}
	f.TruePeak.L = -6.0
	ing.Accept(f, base)

	f.TruePeak.L = -20.0
	ing.Accept(f, base.Add(4*time.Second))

	l, _ := ing.TruePeakHoldDB()
	if l != -20.0 {
		t.Fatalf("expected held peak to decay to -20.0 after hold window, got %v", l)
	}
}

func TestMarkOfflineClearsPeakHold(t *testing.T) {
	ing := NewIngest()
	ing.Subscribe("probe-1")

	f := Frame{ProbeID: "probe-1"}
	f.TruePeak.L = -3.0
	ing.Accept(f, time.Unix(0, 0))
	ing.MarkOffline()

	if ing.Online() {
		t.Fatal("expected Online()=false after MarkOffline")
	}
	l, _ := ing.TruePeakHoldDB()
	if l != 0 {
		t.Fatalf("expected peak hold cleared to 0, got %v", l)
	}
}
