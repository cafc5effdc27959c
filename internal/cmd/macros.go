package cmd

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/Alia5/padlink/macro"
	"github.com/Alia5/padlink/transport/serialport"
)

// ListMacros prints every available macro.
type ListMacros struct{}

// Run is called by Kong when the macros command is executed.
func (l *ListMacros) Run(logger *slog.Logger, scripts *Scripts) error {
	if err := scripts.load(logger); err != nil {
		return err
	}
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	for _, m := range macro.List() {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", m.Name, m.Description)
	}
	return w.Flush()
}

// Ports lists serial ports.
type Ports struct{}

// Run is called by Kong when the ports command is executed.
func (p *Ports) Run() error {
	ports, err := listPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		_, _ = fmt.Fprintln(stdout, "no serial ports found")
		return nil
	}
	for _, name := range ports {
		_, _ = fmt.Fprintln(stdout, name)
	}
	return nil
}

var listPorts = serialport.ListPorts
