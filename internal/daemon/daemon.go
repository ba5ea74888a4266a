package daemon

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/username/teaching-board/pkg/dateutil"
)

const (
	defaultTickInterval = time.Second
	// DefaultSimulateStep advances the simulated clock one hour per tick
	DefaultSimulateStep = time.Hour
)

// ErrTrayUnsupported is returned by NewTrayApp outside Windows
var ErrTrayUnsupported = errors.New("system tray is only supported on Windows")

// StatusFunc describes the board at a moment, e.g. the running lesson
type StatusFunc func(now time.Time) string

// DefaultSimulateStart is the moment a simulated clock starts at when none
// is configured: a Tuesday evening, after the last lesson.
var DefaultSimulateStart = time.Date(2025, 9, 9, 20, 0, 0, 0, time.Local)

// Options configure a Clock
type Options struct {
	// Interval between ticks
	Interval time.Duration
	// Simulate replaces wall-clock time with Start advanced by Step per tick
	Simulate bool
	Start    time.Time
	Step     time.Duration
}

// Clock drives the live indicator. Each tick fires the OnTick hooks; a change
// of calendar date additionally fires the OnDayChange hooks.
type Clock struct {
	opts   Options
	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	now         time.Time
	lastRunDate string
	ticks       int
	onTick      []func(time.Time)
	onDayChange []func(time.Time)
}

// NewClock creates a new clock instance
func NewClock(opts Options, logger *zap.Logger) *Clock {
	if opts.Interval <= 0 {
		opts.Interval = defaultTickInterval
	}
	if opts.Simulate {
		if opts.Start.IsZero() {
			opts.Start = DefaultSimulateStart
		}
		if opts.Step <= 0 {
			opts.Step = DefaultSimulateStep
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Clock{
		opts:   opts,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		now:    time.Now(),
	}
	if opts.Simulate {
		c.now = opts.Start
	}
	return c
}

// Now returns the clock's current time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Simulated reports whether the clock ignores wall-clock time
func (c *Clock) Simulated() bool {
	return c.opts.Simulate
}

// OnTick registers fn to run on every tick
func (c *Clock) OnTick(fn func(time.Time)) {
	c.mu.Lock()
	c.onTick = append(c.onTick, fn)
	c.mu.Unlock()
}

// OnDayChange registers fn to run when the date changes, including the
// first tick
func (c *Clock) OnDayChange(fn func(time.Time)) {
	c.mu.Lock()
	c.onDayChange = append(c.onDayChange, fn)
	c.mu.Unlock()
}

// Tick advances the clock once and fires the hooks. The first tick keeps
// the starting time so simulated runs begin exactly at Start.
func (c *Clock) Tick() time.Time {
	c.mu.Lock()
	switch {
	case c.ticks == 0:
	case c.opts.Simulate:
		c.now = c.now.Add(c.opts.Step)
	default:
		c.now = time.Now()
	}
	c.ticks++
	now := c.now

	today := dateutil.FormatDate(now)
	dayChanged := c.lastRunDate != today
	if dayChanged {
		c.lastRunDate = today
	}
	tickHooks := append([]func(time.Time){}, c.onTick...)
	dayHooks := append([]func(time.Time){}, c.onDayChange...)
	c.mu.Unlock()

	if dayChanged {
		c.logger.Debug("Date changed", zap.String("date", today))
		for _, fn := range dayHooks {
			fn(now)
		}
	}
	for _, fn := range tickHooks {
		fn(now)
	}
	return now
}

// Run ticks until ctx is cancelled or Stop is called
func (c *Clock) Run(ctx context.Context) error {
	c.logger.Info("Clock started",
		zap.Duration("interval", c.opts.Interval),
		zap.Bool("simulate", c.opts.Simulate))

	// Run initial tick immediately
	c.Tick()

	ticker := time.NewTicker(c.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Clock stopped")
			return nil

		case <-c.ctx.Done():
			c.logger.Info("Clock stopped")
			return nil

		case <-ticker.C:
			c.Tick()
		}
	}
}

// RunUntilSignal runs the clock until SIGINT/SIGTERM, Stop or ctx ends
func (c *Clock) RunUntilSignal(ctx context.Context) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case sig := <-sigChan:
			c.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			c.Stop()
		case <-runCtx.Done():
		}
	}()

	return c.Run(runCtx)
}

// Stop stops the clock
func (c *Clock) Stop() {
	c.cancel()
}

// Done is closed once Stop is called
func (c *Clock) Done() <-chan struct{} {
	return c.ctx.Done()
}
