// Package status defines the shell's return-code conventions shared
// by the pipeline runner, the for-loop engine, and the executor:
// the signal-death sentinel, the generic wait failure, and the
// signed-max combinator (spec.md §4.7 "Status combination").
package status

import (
	"errors"
	"os/exec"
	"syscall"
)

const (
	// SignalDeath is the sentinel return value meaning a child was
	// terminated by a signal. It becomes 255 at the shell's own exit
	// boundary (8-bit truncation) but stays distinguishable from a
	// legitimate 255 while the shell is running.
	SignalDeath = -1

	// WaitFailure is returned when waiting for a child failed for a
	// reason other than benign interruption.
	WaitFailure = 256
)

// Combine folds two return values with the signed-max rule: any
// negative (signal-death) value dominates; otherwise the larger value
// wins. Combine is associative and commutative, and Combine(0, x) = x
// for x >= 0 (spec.md §8 property 5).
func Combine(a, b int) int {
	if a < 0 {
		return a
	}
	if b < 0 {
		return b
	}
	if a > b {
		return a
	}
	return b
}

// WaitExternal waits for cmd, restarting on benign interruption
// (spec.md §4.7 "Wait semantics"), and translates the result into the
// shell's return-code convention: 8-bit exit code, SignalDeath
// sentinel, or WaitFailure. Shared by internal/pipeline (external
// commands and re-exec'd builtin stages) and internal/forloop
// (re-exec'd parallel workers), since both wait on a real OS process
// standing in for a forked child.
func WaitExternal(cmd *exec.Cmd) int {
	for {
		err := cmd.Wait()
		if err == nil {
			return 0
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
				return SignalDeath
			}
			return exitErr.ExitCode() & 0xff
		}
		if errors.Is(err, syscall.EINTR) {
			continue
		}
		return WaitFailure
	}
}
