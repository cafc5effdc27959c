package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Alia5/padlink/internal/log"
)

// Sync only performs the handshake and reports the result.
type Sync struct {
	Port string `arg:"" help:"Serial port of the controller emulator"`
}

// Run is called by Kong when the sync command is executed.
func (s *Sync) Run(logger *slog.Logger, rawLogger log.RawLogger, serial *Serial) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := serial.connect(ctx, s.Port, logger, rawLogger)
	if err != nil {
		if interrupted(err) {
			return nil
		}
		return err
	}
	st := sess.Stats()
	_, _ = fmt.Fprintf(stdout, "%s: %s (%d packets, %d acknowledged)\n", s.Port, sess.Status(), st.Packets, st.Acks)
	return sess.Close()
}
