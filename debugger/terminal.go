package debugger

import (
	"fmt"

	"github.com/pkg/term"
)

// DefaultTTY is the controlling terminal.
const DefaultTTY = "/dev/tty"

// Terminal is a tty in cbreak mode: input is delivered a key at a time and
// still echoed.
type Terminal struct {
	tty *term.Term
}

// OpenTerminal opens path and switches it to cbreak mode. Close restores the
// previous mode.
func OpenTerminal(path string) (*Terminal, error) {
	tty, err := term.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open terminal: %w", err)
	}

	if err := tty.SetCbreak(); err != nil {
		_ = tty.Close()
		return nil, fmt.Errorf("failed to set cbreak mode: %w", err)
	}

	return &Terminal{tty: tty}, nil
}

// Read reads keys from the terminal.
func (t *Terminal) Read(p []byte) (int, error) {
	return t.tty.Read(p)
}

// Write writes to the terminal.
func (t *Terminal) Write(p []byte) (int, error) {
	return t.tty.Write(p)
}

// Close restores the terminal mode and closes it.
func (t *Terminal) Close() error {
	if err := t.tty.Restore(); err != nil {
		_ = t.tty.Close()
		return err
	}
	return t.tty.Close()
}
