// Package driver paces the simulation. A single ticker fires at the
// configured interval and runs every registered manager in order on one
// goroutine, which is what lets the managers own their state lock-free.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-errors"
)

const (
	DefaultTickInterval = 50 * time.Millisecond
	MinTickInterval     = 10 * time.Millisecond
	MaxTickInterval     = time.Second

	// stopTimeout bounds the final flush after the loop context is
	// canceled. Stop gets its own deadline because the loop context is
	// already dead by then.
	stopTimeout = 10 * time.Second
)

type Manager interface {
	Tick(context.Context) error
}

// Stopper is implemented by managers that buffer state needing a final
// flush. Stop runs on the driver goroutine after the last tick, so a
// single-owner manager stays single-owner through shutdown.
type Stopper interface {
	Stop(context.Context) error
}

type Driver struct {
	tickInterval time.Duration
	managers     []Manager
}

func NewDriver(managers []Manager, opts ...DriverOpt) (*Driver, error) {
	d := &Driver{
		tickInterval: DefaultTickInterval,
		managers:     managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.tickInterval < MinTickInterval || d.tickInterval > MaxTickInterval {
		return nil, fmt.Errorf("tick interval %s outside %s..%s", d.tickInterval, MinTickInterval, MaxTickInterval)
	}

	return d, nil
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickInterval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "tick loop running", "interval", d.tickInterval)

	for {
		select {
		case <-ctx.Done():
			return d.stop()
		case <-ticker.C:
			start := time.Now()
			if err := d.Tick(ctx); err != nil {
				return err
			}
			if took := time.Since(start); took > d.tickInterval {
				slog.WarnContext(ctx, "tick overran its interval", "took", took, "interval", d.tickInterval)
			}
		}
	}
}

// Tick runs every manager once, in registration order. A tick error is
// fatal to the loop; the world is in an unknown state after one.
func (d *Driver) Tick(ctx context.Context) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	el := errors.NewErrorList()
	for _, m := range d.managers {
		if s, ok := m.(Stopper); ok {
			el.Add(s.Stop(ctx))
		}
	}
	return el.Err()
}
