// Package workerexec is the receiving half of the re-exec boundary
// opened by internal/pipeline and internal/forloop (internal/rexec
// carries the wire format between them): it decodes a worker's
// encoded shell state and command, runs it standing in for a forked
// child, and reports the process's exit disposition accordingly.
//
// It is wired in only from cmd/fsh/main.go (and the TestMain of the
// internal/pipeline and internal/forloop test packages), never from
// internal/pipeline or internal/forloop themselves —
// those packages only need to build the re-exec command, not run one,
// and importing internal/executor from them would reopen the import
// cycle internal/executor already avoids by taking forloop.RunBody as
// a callback instead of importing internal/forloop's caller.
package workerexec

import (
	"context"
	"fmt"
	"os"

	"github.com/fshteam/fsh/internal/builtin"
	"github.com/fshteam/fsh/internal/executor"
	"github.com/fshteam/fsh/internal/rexec"
	"github.com/fshteam/fsh/internal/signalcoord"
	"github.com/fshteam/fsh/internal/state"
)

// Dispatch recognizes args[1] as one of internal/rexec's worker
// markers and, if it matches, runs the corresponding worker and exits
// the process with its return code. It returns without effect on a
// normal interactive invocation, so main can call it unconditionally
// before doing anything else.
func Dispatch(args []string) {
	if len(args) < 2 {
		return
	}
	switch args[1] {
	case rexec.BuiltinMarker:
		os.Exit(state.ExitCode(runBuiltin()))
	case rexec.ForMarker:
		os.Exit(state.ExitCode(runFor()))
	}
}

// newChildShell rebuilds a *state.Shell from the encoded ShellState in
// the environment, the way a forked child would inherit its parent's
// state via copy-on-write.
func newChildShell() (*state.Shell, error) {
	raw, err := rexec.DecodeShell(os.Getenv(rexec.EnvVarShell))
	if err != nil {
		return nil, fmt.Errorf("decoding shell state: %w", err)
	}
	sh := &state.Shell{
		Signals:     signalcoord.New(),
		CWD:         raw.CWD,
		Home:        raw.Home,
		PreviousDir: raw.PreviousDir,
		PrevReturn:  raw.PrevReturn,
	}
	sh.Vars.Restore(raw.Vars)
	return sh, nil
}

// haltOnSignal re-raises SIGINT against this worker process when it
// observed one during its run, so the parent's wait() sees a genuine
// signal death (spec.md §4.6.1, §5 "Cancellation": "Children that
// observe the same flag after completing their assigned sub-tree
// re-raise the interrupt signal against themselves so the parent's
// wait reports signal-death uniformly") instead of this worker's own
// return code.
func haltOnSignal(sh *state.Shell) {
	if sh.Signals.Received() {
		signalcoord.RaiseSelf()
	}
}

// runBuiltin decodes and runs exactly one builtin stage standing in
// for a forked non-last pipeline stage (internal/pipeline).
func runBuiltin() int {
	sh, err := newChildShell()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fsh: %v\n", err)
		return 1
	}

	argv, err := rexec.DecodeArgv(os.Getenv(rexec.EnvVarArgv))
	if err != nil {
		fmt.Fprintf(os.Stderr, "fsh: %v\n", err)
		return 1
	}

	h, ok := builtin.Lookup(argv[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "fsh: %s: not a builtin\n", argv[0])
		return 1
	}

	env := &builtin.ExecutionEnv{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	code := h(context.Background(), sh, env, argv)
	haltOnSignal(sh)
	return code
}

// runFor decodes and runs one parallel for-loop iteration's body
// chain standing in for a forked iteration (internal/forloop).
func runFor() int {
	sh, err := newChildShell()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fsh: %v\n", err)
		return 1
	}

	body, err := rexec.DecodeBody(os.Getenv(rexec.EnvVarBody))
	if err != nil {
		fmt.Fprintf(os.Stderr, "fsh: %v\n", err)
		return 1
	}

	code := executor.Run(context.Background(), sh, body)
	haltOnSignal(sh)
	return code
}
