package macro

import (
	"context"
	"time"

	"github.com/Alia5/padlink/pad"
)

func init() {
	mustRegister(&Macro{
		Name:        "force_sync",
		Description: "Run the sync handshake and exit",
		Run:         forceSync,
	})
	mustRegister(&Macro{
		Name:        "mash_a",
		Description: "Tap A twice per second",
		Assumptions: []string{
			"Defaults to one second at a rate of 2 taps per second. Override with --iterations=N",
		},
		DefaultIterations: 1,
		Run: func(ctx context.Context, env *Env) error {
			return MashButton(ctx, env, pad.ButtonA, env.Iterations)
		},
	})
	mustRegister(&Macro{
		Name:        "farm_fort_alldead",
		Description: "Repeat the Fort Alldead trench fight",
		Assumptions: []string{
			"Have Doc Alice as companion",
			"In Fort Alldead, in front of trench",
			"Can clear the skeletons with Great Northern Blizzard",
			"Defaults to one fight. Override with --iterations=N",
		},
		DefaultIterations: 1,
		Run:               farmFortAlldead,
	})
	mustRegister(&Macro{
		Name:        "farm_mausoleum",
		Description: "Repeat the Mausoleum bone box fight",
		Assumptions: []string{
			"Have Doc Alice as companion",
			"In Mausoleum, in front of bone boxes",
			"Won't die (i.e. recommend running after D.A. gets the bone saw)",
			"Defaults to one Bigger Fight. Override with --iterations=N",
		},
		DefaultIterations: 1,
		Run:               farmMausoleum,
	})
}

func forceSync(ctx context.Context, env *Env) error {
	if env.SyncTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, env.SyncTimeout)
		defer cancel()
	}
	ok, err := env.Ctrl.ForceSync(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSyncFailed
	}
	env.Printf("Controller synced\n")
	return nil
}

// tapStep is one tap followed by a pause.
type tapStep struct {
	state pad.State
	pause time.Duration
}

func taps(ctx context.Context, env *Env, steps ...tapStep) error {
	for _, s := range steps {
		if err := env.Tap(ctx, s.state, s.pause); err != nil {
			return err
		}
	}
	return nil
}

func farmFortAlldead(ctx context.Context, env *Env) error {
	for i := range env.Iterations {
		env.Printf("Loop #%d of %d\n", i+1, env.Iterations)

		// into the trench, "Hop in!"
		if err := walk(ctx, env, pad.LStickUp, time.Second); err != nil {
			return err
		}
		if err := env.Tap(ctx, pad.ButtonA, 5*time.Second); err != nil {
			return err
		}

		// Beanshield, Use the Ol' Bean, Great Northern Blizzard
		if err := MoveCursor(ctx, env, LeftStick, 3, 0); err != nil {
			return err
		}
		if err := env.Tap(ctx, pad.ButtonA, 3*time.Second); err != nil {
			return err
		}
		if err := MoveCursor(ctx, env, LeftStick, 1, 0); err != nil {
			return err
		}
		if err := env.Tap(ctx, pad.ButtonA, 3*time.Second); err != nil {
			return err
		}
		if err := MoveCursor(ctx, env, LeftStick, 2, 0); err != nil {
			return err
		}
		if err := env.Tap(ctx, pad.ButtonA, 2*time.Second); err != nil {
			return err
		}

		if err := MashButton(ctx, env, pad.ButtonA, 25); err != nil {
			return err
		}
	}
	return finish(ctx, env)
}

func farmMausoleum(ctx context.Context, env *Env) error {
	for i := range env.Iterations {
		env.Printf("Loop #%d of %d\n", i+1, env.Iterations)

		// into the drawers, "Open a whole bunch"
		if err := walk(ctx, env, pad.LStickUp, time.Second); err != nil {
			return err
		}
		if err := taps(ctx, env,
			tapStep{pad.DPadDown, 500 * time.Millisecond},
			tapStep{pad.ButtonA, 4 * time.Second},
		); err != nil {
			return err
		}

		// protagonist: Beanshield, then melee on the top right enemy
		if err := MoveCursor(ctx, env, LeftStick, 3, 0); err != nil {
			return err
		}
		if err := env.Tap(ctx, pad.ButtonA, 2*time.Second); err != nil {
			return err
		}
		if err := MoveCursor(ctx, env, LeftStick, -3, 0); err != nil {
			return err
		}
		if err := MoveCursor(ctx, env, RightStick, 2, 1); err != nil {
			return err
		}
		if err := env.Tap(ctx, pad.ButtonA, 4*time.Second); err != nil {
			return err
		}

		// Doc Alice: bone saw on the lower right enemy
		if err := MoveCursor(ctx, env, LeftStick, 2, 0); err != nil {
			return err
		}
		if err := MoveCursor(ctx, env, RightStick, 1, -1); err != nil {
			return err
		}

		if err := MashButton(ctx, env, pad.ButtonA, 25); err != nil {
			return err
		}

		// step back down to reset the boxes
		if err := walk(ctx, env, pad.LStickDown, 500*time.Millisecond); err != nil {
			return err
		}
	}
	return finish(ctx, env)
}

func finish(ctx context.Context, env *Env) error {
	if err := env.Release(ctx); err != nil {
		return err
	}
	return env.Wait(ctx, 100*time.Millisecond)
}
