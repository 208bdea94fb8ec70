package guard

import (
	"testing"
	"time"
)

func TestShouldRenderTrueByDefault(t *testing.T) {
	g := New()
	if !g.ShouldRender(time.Now()) {
		t.Errorf("expected render to be allowed before any trigger")
	}
}

func TestTriggerBlanksForSixtyMilliseconds(t *testing.T) {
	g := New()
	now := time.Now()
	g.Trigger(now)

	if g.ShouldRender(now.Add(30 * time.Millisecond)) {
		t.Errorf("expected blanking still active at +30ms")
	}
	if !g.ShouldRender(now.Add(61 * time.Millisecond)) {
		t.Errorf("expected blanking cleared at +61ms")
	}
}
