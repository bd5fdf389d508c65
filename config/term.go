package config

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

type TerminalIO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Color enables styled warnings.
	Color bool
}

var DefaultTermIO = TerminalIO{
	Stdin:  os.Stdin,
	Stdout: os.Stdout,
	Stderr: os.Stderr,
	Color:  isatty.IsTerminal(os.Stderr.Fd()),
}

var warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

// termMu serializes writes to the terminal writers across Config copies.
var termMu sync.Mutex

func writef(w io.Writer, msg string, args ...interface{}) {
	termMu.Lock()
	defer termMu.Unlock()
	fmt.Fprintf(w, msg, args...)
}

func (t *TerminalIO) Printf(msg string, args ...interface{}) {
	writef(t.Stdout, msg, args...)
}

func (c Config) Printf(msg string, args ...interface{}) {
	if c.Quiet {
		return
	}
	writef(c.Term.Stdout, msg+"\n", args...)
}

func (c Config) Errorf(msg string, args ...interface{}) {
	writef(c.Term.Stderr, msg+"\n", args...)
}

func (c Config) Debugf(msg string, args ...interface{}) {
	if !c.Debug {
		return
	}
	c.Printf(msg, args...)
}

// Warnf writes to stderr regardless of Quiet.
func (c Config) Warnf(msg string, args ...interface{}) {
	s := fmt.Sprintf(msg, args...)
	if c.Term.Color {
		s = warnStyle.Render(s)
	}
	writef(c.Term.Stderr, "%s\n", s)
}
