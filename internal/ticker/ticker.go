// Package ticker drives gossip rounds: one Tick event per period for the
// lifetime of the process.
package ticker

import (
	"context"
	"time"

	"gossipgrid/internal/engine"
)

// Ticker emits Tick events on the engine's event channel. The first tick
// fires after one full period, not immediately.
type Ticker struct {
	period time.Duration
	events chan<- engine.Event
}

// New creates a ticker for the given period.
func New(period time.Duration, events chan<- engine.Event) *Ticker {
	return &Ticker{period: period, events: events}
}

// Run emits ticks until the context is cancelled. There is no per-tick
// cancellation; shutdown is process-wide.
func (t *Ticker) Run(ctx context.Context) {
	tick := time.NewTicker(t.period)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			select {
			case t.events <- engine.Tick{}:
			case <-ctx.Done():
				return
			}
		}
	}
}
