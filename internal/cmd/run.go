package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Alia5/padlink/internal/log"
	"github.com/Alia5/padlink/macro"
	"github.com/Alia5/padlink/pad"
	"github.com/Alia5/padlink/timing"
)

// Run syncs with the controller and runs one macro.
type Run struct {
	Port       string `arg:"" help:"Serial port of the controller emulator (e.g. /dev/ttyUSB0, COM3)"`
	Macro      string `arg:"" optional:"" default:"force_sync" help:"Macro to run (see 'padlink macros')"`
	Iterations int    `short:"n" help:"Number of iterations; 0 uses the macro's default" default:"0"`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger, serial *Serial, scripts *Scripts) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scripts.load(logger); err != nil {
		return err
	}
	m, ok := macro.Lookup(r.Macro)
	if !ok {
		return fmt.Errorf("unknown macro %q (available: %s)", r.Macro, strings.Join(macroNames(), ", "))
	}

	restore := timing.RaiseResolution()
	defer restore()

	sess, err := serial.connect(ctx, r.Port, logger, rawLogger)
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

	if err := timing.WaitContext(ctx, serial.Settle); err != nil {
		return nil
	}
	ok, err = sess.SendCommand(pad.Neutral)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("packet error after sync")
	}
	if err := timing.WaitContext(ctx, serial.Settle); err != nil {
		return nil
	}

	env := macro.NewEnv(sess, logger, stdout)
	env.SyncTimeout = serial.SyncTimeout
	if err := macro.Run(ctx, m, env, r.Iterations); err != nil {
		if interrupted(err) {
			logger.Info("Interrupted, releasing controller")
			return nil
		}
		return err
	}
	return nil
}

func macroNames() []string {
	list := macro.List()
	names := make([]string, len(list))
	for i, m := range list {
		names[i] = m.Name
	}
	return names
}
