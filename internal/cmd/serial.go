package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Alia5/padlink/internal/configpaths"
	"github.com/Alia5/padlink/internal/log"
	"github.com/Alia5/padlink/link"
	"github.com/Alia5/padlink/macro"
	"github.com/Alia5/padlink/transport/serialport"
)

// Serial holds the flags shared by every command that talks to the device.
// The group is global so that config files can set it as a nested table.
type Serial struct {
	Baud        int           `help:"Serial baud rate" default:"19200" env:"PADLINK_SERIAL_BAUD"`
	ReadTimeout time.Duration `help:"Timeout for each acknowledgement byte" default:"1s" env:"PADLINK_SERIAL_READ_TIMEOUT"`
	SyncTimeout time.Duration `help:"Give up syncing after this long" default:"10s" env:"PADLINK_SERIAL_SYNC_TIMEOUT"`
	Settle      time.Duration `help:"Pause after syncing before sending input" default:"1.5s" env:"PADLINK_SERIAL_SETTLE"`
}

// Scripts holds the flags that add script macros to the registry.
type Scripts struct {
	MacroDir  string   `help:"Directory with YAML/TOML macro scripts (default: <config dir>/macros)" env:"PADLINK_MACRO_DIR"`
	MacroFile []string `help:"Additional macro script file (repeatable)" type:"existingfile"`
}

var (
	stdout io.Writer = os.Stdout

	openTransport = func(cfg serialport.Config) (link.Transport, error) {
		return serialport.Open(cfg)
	}
)

// connect opens port and syncs with the controller. The returned session
// must be closed by the caller.
func (s *Serial) connect(ctx context.Context, port string, logger *slog.Logger, rawLogger log.RawLogger) (*link.Session, error) {
	t, err := openTransport(serialport.Config{
		Port:        port,
		BaudRate:    s.Baud,
		ReadTimeout: s.ReadTimeout,
	})
	if err != nil {
		return nil, err
	}
	sess := link.NewWithConfig(t, &link.Config{ReadTimeout: s.ReadTimeout}, logger, rawLogger)

	logger.Info("Syncing with controller", "port", port, "baud", s.Baud)
	syncCtx, cancel := context.WithTimeout(ctx, s.SyncTimeout)
	defer cancel()
	ok, err := sess.Sync(syncCtx)
	if err != nil {
		_ = sess.Close()
		return nil, fmt.Errorf("sync %s: %w", port, err)
	}
	if !ok {
		_ = sess.Close()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("could not sync with %s: %w", port, link.ErrSyncFailed)
	}
	logger.Info("Controller synced", "port", port)
	return sess, nil
}

// load registers script macros from the macro directory and explicit files.
func (m *Scripts) load(logger *slog.Logger) error {
	dir := m.MacroDir
	if dir == "" {
		d, err := configpaths.MacroDir()
		if err != nil {
			logger.Debug("no macro directory", "error", err)
		}
		dir = d
	}
	if dir != "" {
		loaded, err := macro.LoadDir(dir)
		if err != nil {
			return fmt.Errorf("load macros: %w", err)
		}
		for _, l := range loaded {
			logger.Debug("Loaded macro script", "macro", l.Name, "dir", dir)
		}
	}
	for _, f := range m.MacroFile {
		l, err := macro.RegisterScript(f)
		if err != nil {
			return fmt.Errorf("load macro: %w", err)
		}
		logger.Debug("Loaded macro script", "macro", l.Name, "file", f)
	}
	return nil
}

func interrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}
