// Package engine - clock.go
// T007: Day clock - validated mode transitions for manual and auto advance.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"

	"github.com/wildsim/ozzoo/internal/domain/rules"
	"github.com/wildsim/ozzoo/internal/platform/logger"
)

// Clock modes. ModeRunning is transient: the clock enters it for the
// duration of a single day update and returns to the prior durable mode.
const (
	ModeIdle    = "idle"
	ModeAuto    = "auto"
	ModePaused  = "paused"
	ModeRunning = "running_day"
)

// Clock owns the simulation's day-advance state machine and the real-time
// ticker that drives auto mode. All methods must be called from the engine
// goroutine; the ticker channel is consumed by the engine's select loop.
type Clock struct {
	fsm      *fsm.FSM
	logger   *logger.Logger
	interval time.Duration
	ticker   *time.Ticker
	prior    string // durable mode to restore when a day completes
}

// NewClock creates a clock in idle mode ticking at the given real-time interval.
func NewClock(interval time.Duration, log *logger.Logger) *Clock {
	c := &Clock{
		logger:   log,
		interval: interval,
	}

	c.fsm = fsm.NewFSM(
		ModeIdle,
		fsm.Events{
			{Name: "start", Src: []string{ModeIdle}, Dst: ModeAuto},
			{Name: "pause", Src: []string{ModeAuto}, Dst: ModePaused},
			{Name: "resume", Src: []string{ModePaused}, Dst: ModeAuto},
			{Name: "advance", Src: []string{ModeIdle, ModeAuto, ModePaused}, Dst: ModeRunning},
			{Name: "finish_idle", Src: []string{ModeRunning}, Dst: ModeIdle},
			{Name: "finish_auto", Src: []string{ModeRunning}, Dst: ModeAuto},
			{Name: "finish_paused", Src: []string{ModeRunning}, Dst: ModePaused},
		},
		fsm.Callbacks{
			"after_start": func(_ context.Context, _ *fsm.Event) {
				log.Info("Zoo clock: auto mode engaged")
			},
			"after_pause": func(_ context.Context, _ *fsm.Event) {
				log.Info("Zoo clock: paused")
			},
			"after_resume": func(_ context.Context, _ *fsm.Event) {
				log.Info("Zoo clock: resumed")
			},
		},
	)

	return c
}

// Mode returns the clock's current mode.
func (c *Clock) Mode() string {
	return c.fsm.Current()
}

// StartAuto engages automatic day advancement. Starting twice is rejected.
func (c *Clock) StartAuto() error {
	if err := c.fsm.Event(context.Background(), "start"); err != nil {
		return &rules.InvalidActionError{Reason: fmt.Sprintf("cannot start auto mode: clock is %s", c.fsm.Current())}
	}
	c.ticker = time.NewTicker(c.interval)
	return nil
}

// Pause suspends the auto loop. Pausing while idle is rejected.
func (c *Clock) Pause() error {
	if err := c.fsm.Event(context.Background(), "pause"); err != nil {
		return &rules.InvalidActionError{Reason: fmt.Sprintf("cannot pause: clock is %s", c.fsm.Current())}
	}
	c.stopTicker()
	return nil
}

// Resume restarts a paused auto loop.
func (c *Clock) Resume() error {
	if err := c.fsm.Event(context.Background(), "resume"); err != nil {
		return &rules.InvalidActionError{Reason: fmt.Sprintf("cannot resume: clock is %s", c.fsm.Current())}
	}
	c.ticker = time.NewTicker(c.interval)
	return nil
}

// BeginDay moves the clock into the running state. Manual advances are
// legal from every durable mode, including paused (single-step).
func (c *Clock) BeginDay() error {
	prior := c.fsm.Current()
	if err := c.fsm.Event(context.Background(), "advance"); err != nil {
		return &rules.InvalidActionError{Reason: fmt.Sprintf("cannot advance: clock is %s", prior)}
	}
	c.prior = prior
	return nil
}

// EndDay restores the durable mode the clock was in before BeginDay.
func (c *Clock) EndDay() {
	switch c.prior {
	case ModeAuto:
		_ = c.fsm.Event(context.Background(), "finish_auto")
	case ModePaused:
		_ = c.fsm.Event(context.Background(), "finish_paused")
	default:
		_ = c.fsm.Event(context.Background(), "finish_idle")
	}
}

// TickC exposes the auto ticker channel. Returns nil (blocks forever in a
// select) while auto mode is off or paused.
func (c *Clock) TickC() <-chan time.Time {
	if c.ticker == nil {
		return nil
	}
	return c.ticker.C
}

// Stop releases the ticker on shutdown.
func (c *Clock) Stop() {
	c.stopTicker()
}

func (c *Clock) stopTicker() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}
