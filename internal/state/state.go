// Package state holds the explicit shell-state record that replaces
// the source's process-wide globals (current working directory,
// previous return value, previous working directory) per the design
// note "Global mutable state": one record threaded through the
// executor, pipeline runner, for-loop engine and builtins instead of
// package-level variables.
package state

import (
	"os"

	"github.com/fshteam/fsh/internal/signalcoord"
	"github.com/fshteam/fsh/internal/vars"
)

// Shell is the state threaded through a running shell: the current
// and previous working directories, the last command's return value,
// the variable table, and the signal coordinator.
type Shell struct {
	Signals     *signalcoord.Coordinator
	Vars        vars.Table
	CWD         string
	PreviousDir string
	Home        string
	PrevReturn  int
}

// New builds a Shell rooted at the process's current working
// directory, reading HOME once at startup (spec.md §6 "Environment").
func New(sig *signalcoord.Coordinator) (*Shell, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return &Shell{
		CWD:     cwd,
		Home:    os.Getenv("HOME"),
		Signals: sig,
	}, nil
}

// Clone makes a value copy of the shell state, taken by the parallel
// for-loop engine before it hands an iteration to a re-exec'd worker
// (spec.md §5 "Shared resources"): the Go analogue of fork's
// copy-on-write. The clone's variable table is an independent copy, so
// writes inside the forked stage never reach the real shell; the
// signal coordinator is shared intentionally, since interrupt delivery
// is process-wide regardless of which goroutine is "running".
func (s *Shell) Clone() *Shell {
	clone := *s
	return &clone
}

// RefreshCWD re-reads the working directory from the OS after a
// successful chdir. Per spec.md §6, failure here is fatal: the caller
// should abort the shell.
func (s *Shell) RefreshCWD() error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	s.CWD = cwd
	return nil
}

// ExitCode truncates a shell return value to the 8-bit exit code used
// when the process itself terminates (spec.md §5 "Exit conventions").
// The signal-death sentinel (-1) becomes 255 via this truncation.
func ExitCode(result int) int {
	return result & 0xff
}
