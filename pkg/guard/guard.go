// Package guard implements TransitionGuard: a short visual-blanking
// window applied around gain-change edges (EBU pulse toggles, preset
// switches) so widgets don't draw a transient click as program content.
package guard

import (
	"sync/atomic"
	"time"
)

const blankDuration = 60 * time.Millisecond

// TransitionGuard is process-wide state with a single-writer-per-field
// invariant: Trigger is called by the scheduler, ShouldRender is read
// by widgets. It is safe for concurrent use.
type TransitionGuard struct {
	blankUntil atomic.Int64 // unix nanoseconds
}

// New creates a TransitionGuard with no active blanking.
func New() *TransitionGuard {
	return &TransitionGuard{}
}

// Trigger extends the blanking window to now + 60ms.
func (g *TransitionGuard) Trigger(now time.Time) {
	g.blankUntil.Store(now.Add(blankDuration).UnixNano())
}

// ShouldRender reports whether widgets may draw at the given time, i.e.
// whether now is past the current blanking deadline.
func (g *TransitionGuard) ShouldRender(now time.Time) bool {
	return now.UnixNano() >= g.blankUntil.Load()
}
