package macro

import (
	"context"
	"time"

	"github.com/Alia5/padlink/pad"
)

// Stick selects the analog stick used by MoveCursor.
type Stick int

const (
	LeftStick Stick = iota
	RightStick
)

func (s Stick) String() string {
	if s == RightStick {
		return "right"
	}
	return "left"
}

type stickDirs struct{ right, left, up, down pad.State }

var sticks = map[Stick]stickDirs{
	LeftStick:  {pad.LStickRight, pad.LStickLeft, pad.LStickUp, pad.LStickDown},
	RightStick: {pad.RStickRight, pad.RStickLeft, pad.RStickUp, pad.RStickDown},
}

const (
	cursorPause   = 100 * time.Millisecond
	mashPress     = 100 * time.Millisecond
	mashRelease   = 400 * time.Millisecond
	settleRelease = 50 * time.Millisecond
)

// MoveCursor flicks stick |dx| times horizontally, then |dy| times
// vertically. Positive dx is right, positive dy is up.
func MoveCursor(ctx context.Context, env *Env, stick Stick, dx, dy int) error {
	env.Logger.Debug("move cursor", "stick", stick, "dx", dx, "dy", dy)
	dirs := sticks[stick]

	xDir, yDir := dirs.right, dirs.up
	if dx < 0 {
		xDir, dx = dirs.left, -dx
	}
	if dy < 0 {
		yDir, dy = dirs.down, -dy
	}
	for range dx {
		if err := env.Tap(ctx, xDir, cursorPause); err != nil {
			return err
		}
	}
	for range dy {
		if err := env.Tap(ctx, yDir, cursorPause); err != nil {
			return err
		}
	}
	return nil
}

// MashButton presses btn twice per second for the given number of seconds.
func MashButton(ctx context.Context, env *Env, btn pad.State, seconds int) error {
	env.Printf("Mashing %s for %d seconds\n", btn, seconds)
	for range seconds * 2 {
		if err := env.Send(ctx, btn); err != nil {
			return err
		}
		if err := env.Wait(ctx, mashPress); err != nil {
			return err
		}
		if err := env.Release(ctx); err != nil {
			return err
		}
		if err := env.Wait(ctx, mashRelease); err != nil {
			return err
		}
	}
	return nil
}

// walk holds the left stick in dir for d, then releases.
func walk(ctx context.Context, env *Env, dir pad.State, d time.Duration) error {
	if err := env.Hold(ctx, dir, d); err != nil {
		return err
	}
	return env.Wait(ctx, settleRelease)
}
