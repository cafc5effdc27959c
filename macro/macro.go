// Package macro runs named input sequences against a synced controller.
//
// Macros only use the Controller primitives; they never touch the wire
// format or the transport.
package macro

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Alia5/padlink/pad"
	"github.com/Alia5/padlink/timing"
)

// Controller is the subset of a link session macros drive.
type Controller interface {
	SendCommand(state pad.State) (bool, error)
	TapCommand(state pad.State, hold time.Duration) (bool, error)
	ForceSync(ctx context.Context) (bool, error)
}

// Func is the body of a macro.
type Func func(ctx context.Context, env *Env) error

// Macro is a registered input sequence.
type Macro struct {
	Name        string
	Description string
	// Assumptions are printed before the macro starts; they describe the
	// game state the sequence expects.
	Assumptions []string
	// DefaultIterations applies when the caller asks for 0 iterations.
	DefaultIterations int
	Run               Func
}

var ErrSyncFailed = errors.New("controller did not sync")

// DefaultSyncTimeout bounds a resync requested by a macro.
const DefaultSyncTimeout = 10 * time.Second

// Env carries what a running macro needs.
type Env struct {
	Ctrl Controller
	// Iterations is the resolved iteration count; its meaning is up to the
	// macro (fights, seconds, packets).
	Iterations int
	Logger     *slog.Logger
	Out        io.Writer
	// SyncTimeout bounds each resync; 0 waits until ctx is done.
	SyncTimeout time.Duration

	// Failures counts packets the firmware did not acknowledge.
	Failures int

	wait func(ctx context.Context, d time.Duration) error
}

// NewEnv returns an Env with a discarding logger and output if none given.
func NewEnv(ctrl Controller, logger *slog.Logger, out io.Writer) *Env {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if out == nil {
		out = io.Discard
	}
	return &Env{
		Ctrl:        ctrl,
		Logger:      logger,
		Out:         out,
		SyncTimeout: DefaultSyncTimeout,
		wait:        timing.WaitContext,
	}
}

// Run prints the macro's assumptions and executes it. iterations <= 0
// selects the macro's default.
func Run(ctx context.Context, m *Macro, env *Env, iterations int) error {
	if iterations <= 0 {
		iterations = max(m.DefaultIterations, 1)
	}
	env.Iterations = iterations
	if env.wait == nil {
		env.wait = timing.WaitContext
	}

	if len(m.Assumptions) > 0 {
		env.Printf("Assumptions:\n")
		for _, a := range m.Assumptions {
			env.Printf(" * %s\n", a)
		}
	}
	env.Logger.Info("running macro", "macro", m.Name, "iterations", iterations)

	start := time.Now()
	err := m.Run(ctx, env)
	if errors.Is(err, context.Canceled) {
		env.Logger.Info("macro interrupted", "macro", m.Name)
		return err
	}
	if err != nil {
		return fmt.Errorf("macro %s: %w", m.Name, err)
	}
	env.Logger.Info("macro finished", "macro", m.Name,
		"duration", time.Since(start).Round(time.Millisecond), "failures", env.Failures)
	return nil
}

// Printf writes user-facing progress output.
func (e *Env) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.Out, format, args...)
}

// Send sends state and keeps it pressed.
func (e *Env) Send(ctx context.Context, state pad.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ok, err := e.Ctrl.SendCommand(state)
	if err != nil {
		return err
	}
	e.track(ok, state)
	return nil
}

// Release sends the neutral state.
func (e *Env) Release(ctx context.Context) error {
	return e.Send(ctx, pad.Neutral)
}

// Wait pauses precisely for d or until ctx is done.
func (e *Env) Wait(ctx context.Context, d time.Duration) error {
	return e.wait(ctx, d)
}

// Hold sends state, waits d and releases.
func (e *Env) Hold(ctx context.Context, state pad.State, d time.Duration) error {
	if err := e.Send(ctx, state); err != nil {
		return err
	}
	if err := e.Wait(ctx, d); err != nil {
		return err
	}
	return e.Release(ctx)
}

// Tap presses and releases state, then pauses.
func (e *Env) Tap(ctx context.Context, state pad.State, pause time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ok, err := e.Ctrl.TapCommand(state, 0)
	if err != nil {
		return err
	}
	e.track(ok, state)
	return e.Wait(ctx, pause)
}

func (e *Env) track(ok bool, state pad.State) {
	if ok {
		return
	}
	e.Failures++
	e.Logger.Debug("command not acknowledged", "state", state)
}
