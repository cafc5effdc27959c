package macro

import (
	"context"
	"time"

	"github.com/Alia5/padlink/pad"
)

const (
	benchHold   = 500 * time.Millisecond
	benchGap    = time.Millisecond
	sweepSteps  = 721
	sweepOffset = 90
	// DefaultPacketCount is how many packets the speed test sends.
	DefaultPacketCount = 100
)

func init() {
	mustRegister(&Macro{
		Name:        "testbench",
		Description: "Exercise every button, the D-pad and both sticks, then measure packet speed",
		Assumptions: []string{
			"A controller test screen is open",
		},
		DefaultIterations: DefaultPacketCount,
		Run:               testbench,
	})
	mustRegister(&Macro{
		Name:              "testbench_packet_speed",
		Description:       "Measure packet round-trip time (iterations = packet count)",
		DefaultIterations: DefaultPacketCount,
		Run: func(ctx context.Context, env *Env) error {
			_, err := PacketSpeed(ctx, env, env.Iterations)
			return err
		},
	})
}

var benchButtons = []pad.State{
	pad.ButtonA, pad.ButtonB, pad.ButtonX, pad.ButtonY,
	pad.ButtonPlus, pad.ButtonMinus, pad.ButtonLClick, pad.ButtonRClick,
}

var benchDPad = []pad.State{pad.DPadUp, pad.DPadRight, pad.DPadDown, pad.DPadLeft}

func testbench(ctx context.Context, env *Env) error {
	for _, b := range benchButtons {
		if err := press(ctx, env, b); err != nil {
			return err
		}
	}
	for _, d := range benchDPad {
		if err := press(ctx, env, d); err != nil {
			return err
		}
	}
	if err := benchStick(ctx, env, pad.ButtonLClick, LeftStick); err != nil {
		return err
	}
	if err := benchStick(ctx, env, pad.ButtonRClick, RightStick); err != nil {
		return err
	}
	_, err := PacketSpeed(ctx, env, env.Iterations)
	return err
}

// press holds state for benchHold, releases and pauses briefly.
func press(ctx context.Context, env *Env, state pad.State) error {
	if err := env.Hold(ctx, state, benchHold); err != nil {
		return err
	}
	return env.Wait(ctx, benchGap)
}

func benchStick(ctx context.Context, env *Env, click pad.State, stick Stick) error {
	if err := press(ctx, env, click); err != nil {
		return err
	}
	dirs := sticks[stick]
	for _, d := range []pad.State{dirs.up, dirs.right, dirs.down, dirs.left, dirs.up, pad.Neutral} {
		if err := env.Send(ctx, d); err != nil {
			return err
		}
		if err := env.Wait(ctx, benchHold); err != nil {
			return err
		}
	}
	for _, intensity := range []int{0xFF, 0x80} {
		if err := Sweep(ctx, env, stick, intensity); err != nil {
			return err
		}
	}
	return nil
}

// Sweep turns stick through two full circles starting at the top.
func Sweep(ctx context.Context, env *Env, stick Stick, intensity int) error {
	pack := pad.LStick
	if stick == RightStick {
		pack = pad.RStick
	}
	for i := range sweepSteps {
		if err := env.Send(ctx, pack(i+sweepOffset, intensity)); err != nil {
			return err
		}
		if err := env.Wait(ctx, benchGap); err != nil {
			return err
		}
	}
	if err := env.Release(ctx); err != nil {
		return err
	}
	return env.Wait(ctx, benchHold)
}

// SpeedStats summarizes a packet speed run.
type SpeedStats struct {
	Count  int
	Min    time.Duration
	Max    time.Duration
	Avg    time.Duration
	Errors int
}

// PacketSpeed sends count neutral packets back to back and measures each
// round trip.
func PacketSpeed(ctx context.Context, env *Env, count int) (SpeedStats, error) {
	var st SpeedStats
	var sum time.Duration
	for range count {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		t0 := time.Now()
		ok, err := env.Ctrl.SendCommand(pad.Neutral)
		delta := time.Since(t0)
		if err != nil {
			return st, err
		}
		if !ok {
			st.Errors++
			env.Printf("Packet Error!\n")
		}
		if st.Count == 0 || delta < st.Min {
			st.Min = delta
		}
		st.Max = max(st.Max, delta)
		sum += delta
		st.Count++
	}
	if st.Count > 0 {
		st.Avg = sum / time.Duration(st.Count)
	}
	env.Printf("Min = %.3fs Max = %.3fs Avg = %.3fs Errors = %d\n",
		st.Min.Seconds(), st.Max.Seconds(), st.Avg.Seconds(), st.Errors)
	return st, nil
}
