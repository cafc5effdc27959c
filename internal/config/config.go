// Package config defines the CLI structure and configuration for padlink.
package config

import (
	"github.com/Alia5/padlink/internal/cmd"
)

type Log struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"PADLINK_LOG_LEVEL"`
	File    string `help:"Log file path (default: none; logs only to console)" env:"PADLINK_LOG_FILE"`
	RawFile string `help:"Raw packet log file path (default: none)" env:"PADLINK_LOG_RAW_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
//
// Flag groups use dashed prefixes: config loaders resolve a nested table
// such as [serial] baud = 9600 to the flag serial-baud.
type CLI struct {
	Log `embed:"" prefix:"log-"`

	Serial  cmd.Serial  `embed:"" prefix:"serial-"`
	Scripts cmd.Scripts `embed:""`

	Config string `help:"Config file (JSON, YAML or TOML)" env:"PADLINK_CONFIG" placeholder:"PATH"`

	Run     cmd.Run        `cmd:"" help:"Sync with the controller emulator and run a macro"`
	Sync    cmd.Sync       `cmd:"" help:"Sync with the controller emulator and report the result"`
	Console cmd.Console    `cmd:"" help:"Open an interactive console over a synced controller"`
	Macros  cmd.ListMacros `cmd:"" help:"List available macros"`
	Ports   cmd.Ports      `cmd:"" help:"List serial ports"`
}
