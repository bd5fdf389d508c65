// Package shell runs external commands for the command-line adapters.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// CommandContext is overridable in tests.
var CommandContext = exec.CommandContext

type Opts struct {
	Dir string
	// Env is appended to the current environment.
	Env []string
	// Stdout and Stderr, when set, receive the command's output as it runs
	// instead of it being captured.
	Stdout io.Writer
	Stderr io.Writer
}

// ExitError is returned when a command fails.
type ExitError struct {
	Name   string
	Args   []string
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("exec: %s %s failed", e.Name, ArgsString(e.Args))
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return fmt.Sprintf("%s (%v)", msg, e.Err)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Run runs name with args and returns its stdout.
func Run(ctx context.Context, opts Opts, name string, args ...string) ([]byte, error) {
	cmd := CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	eb := &bytes.Buffer{}
	ob := &bytes.Buffer{}
	cmd.Stdout = ob
	cmd.Stderr = eb
	if opts.Stdout != nil {
		cmd.Stdout = io.MultiWriter(ob, opts.Stdout)
	}
	if opts.Stderr != nil {
		cmd.Stderr = io.MultiWriter(eb, opts.Stderr)
	}

	if err := cmd.Run(); err != nil {
		return nil, &ExitError{Name: name, Args: args, Stderr: eb.String(), Err: err}
	}
	return ob.Bytes(), nil
}

// Lines splits command output into its non-empty lines.
func Lines(b []byte) []string {
	var lines []string
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ArgsString returns a string suitable for copy/paste into the terminal.
func ArgsString(args []string) string {
	b := &bytes.Buffer{}

	for i, arg := range args {
		if strings.ContainsAny(arg, " \n") {
			b.WriteString(`"`)
			b.WriteString(arg)
			b.WriteString(`"`)
		} else {
			b.WriteString(arg)
		}

		if i < len(args)-1 {
			b.WriteString(" ")
		}
	}

	return b.String()
}
