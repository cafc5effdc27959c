package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/Alia5/padlink/internal/log"
	"github.com/Alia5/padlink/link"
	"github.com/Alia5/padlink/macro"
	"github.com/Alia5/padlink/pad"
	"github.com/Alia5/padlink/timing"
	"github.com/Alia5/padlink/wire"
)

// Console opens an interactive shell over a synced session.
type Console struct {
	Port string `arg:"" help:"Serial port of the controller emulator"`
}

// Run is called by Kong when the console command is executed.
func (c *Console) Run(logger *slog.Logger, rawLogger log.RawLogger, serial *Serial, scripts *Scripts) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scripts.load(logger); err != nil {
		return err
	}
	restore := timing.RaiseResolution()
	defer restore()

	sess, err := serial.connect(ctx, c.Port, logger, rawLogger)
	if err != nil {
		if interrupted(err) {
			return nil
		}
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Error("Failed to close port", "error", err)
		}
	}()

	con := &console{ctx: ctx, sess: sess, logger: logger, syncTimeout: serial.SyncTimeout}
	sh := ishell.New()
	sh.SetPrompt("padlink> ")
	sh.Println("padlink console on " + c.Port + ", type 'help' for commands")
	con.register(sh)

	go func() {
		<-ctx.Done()
		sh.Close()
	}()
	sh.Run()
	return nil
}

// console implements the shell commands. Handlers write to out and return
// errors for the shell to print.
type console struct {
	ctx         context.Context
	sess        *link.Session
	logger      *slog.Logger
	syncTimeout time.Duration
	// held is the state kept pressed by send and the stick commands.
	held pad.State
}

type consoleCmd struct {
	name    string
	aliases []string
	help    string
	run     func(out io.Writer, args []string) error
}

func (con *console) commands() []consoleCmd {
	return []consoleCmd{
		{name: "status", help: "show sync status and packet counters", run: con.status},
		{name: "sync", help: "sync, trying a plain packet first", run: con.sync},
		{name: "force_sync", help: "run the full sync handshake", run: con.forceSync},
		{name: "send", aliases: []string{"press"}, help: "send NAMES... and keep them pressed", run: con.send},
		{name: "tap", help: "tap NAMES... [HOLD]", run: con.tap},
		{name: "release", help: "release all inputs", run: con.release},
		{name: "lstick", help: "lstick ANGLE INTENSITY", run: con.stick(pad.State.WithLeftStick)},
		{name: "rstick", help: "rstick ANGLE INTENSITY", run: con.stick(pad.State.WithRightStick)},
		{name: "macro", help: "macro NAME [ITERATIONS]", run: con.macro},
		{name: "macros", help: "list macros", run: con.macros},
		{name: "inputs", help: "list input names", run: con.inputs},
	}
}

func (con *console) register(sh *ishell.Shell) {
	for _, cc := range con.commands() {
		sh.AddCmd(&ishell.Cmd{
			Name:    cc.name,
			Aliases: cc.aliases,
			Help:    cc.help,
			Func: func(c *ishell.Context) {
				var sb strings.Builder
				err := cc.run(&sb, c.Args)
				if sb.Len() > 0 {
					c.Print(sb.String())
				}
				if err != nil {
					c.Err(err)
				}
			},
		})
	}
}

func (con *console) status(out io.Writer, _ []string) error {
	st := con.sess.Stats()
	_, err := fmt.Fprintf(out, "%s, held %s, %d packets, %d acknowledged, %d failed, last response %s\n",
		con.sess.Status(), con.held, st.Packets, st.Acks, st.Failures, wire.ResponseName(st.LastResponse))
	return err
}

func (con *console) sync(out io.Writer, _ []string) error {
	ctx, cancel := context.WithTimeout(con.ctx, con.syncTimeout)
	defer cancel()
	return con.reportSync(out, con.sess.Sync)(ctx)
}

func (con *console) forceSync(out io.Writer, _ []string) error {
	ctx, cancel := context.WithTimeout(con.ctx, con.syncTimeout)
	defer cancel()
	return con.reportSync(out, con.sess.ForceSync)(ctx)
}

func (con *console) reportSync(out io.Writer, fn func(context.Context) (bool, error)) func(context.Context) error {
	return func(ctx context.Context) error {
		ok, err := fn(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return link.ErrSyncFailed
		}
		con.held = pad.Neutral
		_, err = fmt.Fprintln(out, "synced")
		return err
	}
}

func (con *console) send(out io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: send NAMES...")
	}
	s, err := pad.ParseInputs(args)
	if err != nil {
		return err
	}
	return con.apply(out, s)
}

func (con *console) tap(out io.Writer, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: tap NAMES... [HOLD]")
	}
	var hold time.Duration
	if d, err := time.ParseDuration(args[len(args)-1]); err == nil {
		hold = d
		args = args[:len(args)-1]
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: tap NAMES... [HOLD]")
	}
	s, err := pad.ParseInputs(args)
	if err != nil {
		return err
	}
	ok, err := con.sess.TapCommand(s, hold)
	if err != nil {
		return err
	}
	con.held = pad.Neutral
	return ack(out, ok)
}

func (con *console) release(out io.Writer, _ []string) error {
	return con.apply(out, pad.Neutral)
}

func (con *console) stick(with func(pad.State, int, int) pad.State) func(io.Writer, []string) error {
	return func(out io.Writer, args []string) error {
		if len(args) != 2 {
			return fmt.Errorf("usage: ANGLE INTENSITY")
		}
		angle, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("angle: %w", err)
		}
		intensity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("intensity: %w", err)
		}
		if intensity < 0 || intensity > 0xFF {
			return fmt.Errorf("intensity %d out of range 0-255", intensity)
		}
		return con.apply(out, with(con.held, angle, intensity))
	}
}

func (con *console) apply(out io.Writer, s pad.State) error {
	ok, err := con.sess.SendCommand(s)
	if err != nil {
		return err
	}
	con.held = s
	return ack(out, ok)
}

func (con *console) macro(out io.Writer, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("usage: macro NAME [ITERATIONS]")
	}
	m, ok := macro.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown macro %q", args[0])
	}
	iterations := 0
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("iterations: %w", err)
		}
		iterations = n
	}
	env := macro.NewEnv(con.sess, con.logger, out)
	env.SyncTimeout = con.syncTimeout
	err := macro.Run(con.ctx, m, env, iterations)
	con.held = pad.Neutral
	return err
}

func (con *console) macros(out io.Writer, _ []string) error {
	for _, m := range macro.List() {
		if _, err := fmt.Fprintf(out, "%-24s %s\n", m.Name, m.Description); err != nil {
			return err
		}
	}
	return nil
}

func (con *console) inputs(out io.Writer, _ []string) error {
	_, err := fmt.Fprintln(out, strings.Join(pad.InputNames(), " "))
	return err
}

func ack(out io.Writer, ok bool) error {
	if !ok {
		return fmt.Errorf("not acknowledged")
	}
	_, err := fmt.Fprintln(out, "ok")
	return err
}
