package timer

import (
	"context"
	"time"
)

// Loop drives an engine with periodic ticks for headless use. The next tick
// is armed only after the previous handler returns, so a slow handler
// delays the schedule instead of stacking ticks; the session's clamped
// delta absorbs the drift.
type Loop struct {
	Engine *Engine

	// OnTick runs after every tick with a fresh snapshot. May be nil.
	OnTick func(Snapshot, TickEvent)

	// Interval defaults to one second.
	Interval time.Duration
}

// Run ticks until the session stops or ctx is canceled. Pausing keeps the
// loop alive but the ticks become no-ops; the session re-anchors its delta
// base on Resume.
func (l *Loop) Run(ctx context.Context) {
	interval := l.Interval
	if interval <= 0 {
		interval = time.Second
	}

	t := time.NewTimer(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}

		ev := l.Engine.Tick()
		if l.OnTick != nil {
			l.OnTick(l.Engine.Snapshot(), ev)
		}
		if !l.Engine.Active() && l.Engine.State() != StatePaused {
			return
		}
		t.Reset(interval)
	}
}
