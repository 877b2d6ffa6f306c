package sim

import (
	"context"
	"time"
)

// LoopConfig tunes the fixed-timestep runner.
type LoopConfig struct {
	// TickRate is the number of simulation steps per second.
	TickRate int
	// CatchupMaxTicks caps how many steps a single wakeup may run when
	// the process falls behind; excess simulation time is dropped.
	CatchupMaxTicks int
}

// DefaultLoopConfig returns the standard 15 Hz loop.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		TickRate:        15,
		CatchupMaxTicks: 4,
	}
}

// Loop drives the engine at a fixed tick rate on a single goroutine.
type Loop struct {
	engine *Engine
	config LoopConfig
}

// NewLoop wraps the engine with a fixed-timestep runner.
func NewLoop(engine *Engine, cfg LoopConfig) *Loop {
	if cfg.TickRate <= 0 {
		cfg.TickRate = DefaultLoopConfig().TickRate
	}
	if cfg.CatchupMaxTicks <= 0 {
		cfg.CatchupMaxTicks = DefaultLoopConfig().CatchupMaxTicks
	}
	return &Loop{engine: engine, config: cfg}
}

// Run steps the engine until ctx is cancelled. When the host stalls,
// at most CatchupMaxTicks steps run per wakeup and the remainder of
// the backlog is discarded.
func (l *Loop) Run(ctx context.Context) error {
	if l == nil || l.engine == nil {
		return nil
	}
	interval := time.Second / time.Duration(l.config.TickRate)
	dt := interval.Seconds()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			steps := int(elapsed / interval)
			if steps < 1 {
				steps = 1
			}
			if steps > l.config.CatchupMaxTicks {
				steps = l.config.CatchupMaxTicks
			}
			for i := 0; i < steps; i++ {
				l.engine.Step(dt)
			}
		}
	}
}
