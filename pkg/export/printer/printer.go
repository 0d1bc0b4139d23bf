// Package printer sends exported documents to the system print spooler.
package printer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/c112110130-dot/waste-system-django-sub002/pkg/export"
)

// DefaultCommand is the spooler client used when none is configured.
const DefaultCommand = "lp"

// Spooler prints files with a CUPS-style command line client.
type Spooler struct {
	Command string   // executable, default "lp"
	Args    []string // extra arguments placed before the file path
	Queue   string   // printer name passed as -d; empty uses the default queue
}

// New returns a spooler using command, or "lp" when command is empty.
func New(command, queue string) *Spooler {
	if command == "" {
		command = DefaultCommand
	}
	return &Spooler{Command: command, Queue: queue}
}

var _ export.Printer = (*Spooler)(nil)

// Available reports whether the spooler executable can be found.
func (s *Spooler) Available() bool {
	_, err := exec.LookPath(s.Command)
	return err == nil
}

// Print implements export.Printer.
func (s *Spooler) Print(ctx context.Context, path string) error {
	if _, err := exec.LookPath(s.Command); err != nil {
		return fmt.Errorf("printing requires %s. Install CUPS:\n  macOS:  preinstalled\n  Linux:  apt install cups-client", s.Command)
	}

	args := append([]string(nil), s.Args...)
	if s.Queue != "" {
		args = append(args, "-d", s.Queue)
	}
	args = append(args, path)
	cmd := exec.CommandContext(ctx, s.Command, args...)

	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %v: %s", s.Command, err, strings.TrimSpace(errBuf.String()))
	}
	return nil
}
