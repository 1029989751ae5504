// Package pipeline implements C6: building a pipeline of Simple
// commands by wiring OS pipes between forked stages, running the last
// stage in the calling process, and awaiting every intermediate stage.
//
// Go cannot fork() mid-program the way the source does (the runtime's
// goroutines and GC don't survive a bare fork), so "forking" an
// intermediate stage is adapted to: external commands become a real
// child OS process via os/exec (already isolated); in-process builtins
// re-exec the fsh binary itself as a worker process (internal/rexec,
// internal/workerexec) carrying a snapshot of the shell's state, so a
// builtin's own syscalls — `cd`'s os.Chdir, `exit`'s os.Exit — land in
// that separate process and never propagate back to the parent
// (spec.md §5 "Shared resources"). Only the last stage, run inline
// against the real *state.Shell, can observably mutate shell state
// (spec.md §8 property 6).
package pipeline

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/fshteam/fsh/internal/ast"
	"github.com/fshteam/fsh/internal/builtin"
	"github.com/fshteam/fsh/internal/redirect"
	"github.com/fshteam/fsh/internal/rexec"
	"github.com/fshteam/fsh/internal/state"
	"github.com/fshteam/fsh/internal/status"
	"github.com/fshteam/fsh/internal/vars"
)

// Run executes a maximal pipeline of Simple commands and returns its
// combined return code.
func Run(ctx context.Context, sh *state.Shell, segs []*ast.Simple) int {
	if len(segs) == 0 {
		return sh.PrevReturn
	}
	if len(segs) == 1 {
		return runInline(ctx, sh, segs[0], nil, nil)
	}

	n := len(segs)
	var stageIn *os.File // nil means "use os.Stdin"
	var waiters []func() int

	for i := 0; i < n-1; i++ {
		if sh.Signals.Received() {
			if stageIn != nil {
				stageIn.Close()
			}
			for _, wait := range waiters {
				wait()
			}
			return status.SignalDeath
		}

		pr, pw, err := os.Pipe()
		if err != nil {
			return status.WaitFailure
		}

		in := stageIn
		wait := spawnStage(ctx, sh, segs[i], in, pw)
		waiters = append(waiters, wait)

		pw.Close()
		if in != nil {
			in.Close()
		}
		stageIn = pr
	}

	result := runInline(ctx, sh, segs[n-1], stageIn, nil)
	if stageIn != nil {
		stageIn.Close()
	}

	for _, wait := range waiters {
		result = status.Combine(result, wait())
	}
	return result
}

// runInline runs seg in the calling goroutine against the real shell
// state: this is "the last stage runs in the shell process" from
// spec.md §4.7. in/out override the command's own redirections'
// default streams when non-nil (pipe connections); out is currently
// always nil here because the very last stage's stdout is the
// process's own stdout unless the command has its own '>' redirection,
// handled inside runInline via redirect.Setup.
func runInline(ctx context.Context, sh *state.Shell, seg *ast.Simple, in, out *os.File) int {
	argv := vars.SubstituteAll(seg.Argv, &sh.Vars)
	streams, err := redirect.Setup(seg, &sh.Vars)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", argv[0], err)
		return 1
	}
	defer streams.Close()

	env := &builtin.ExecutionEnv{
		Stdin:  pick(streams.Stdin, in, os.Stdin),
		Stdout: pickW(streams.Stdout, out, os.Stdout),
		Stderr: pickW(streams.Stderr, nil, os.Stderr),
	}

	if h, ok := builtin.Lookup(argv[0]); ok {
		return h(ctx, sh, env, argv)
	}
	return runExternal(ctx, argv, env)
}

// spawnStage runs an intermediate pipeline stage as a real child
// process and returns a function that blocks until it finishes and
// yields its return code. A builtin stage re-execs fsh itself
// (buildBuiltinStage); anything else execs the named external command
// directly, exactly as the original forks before execve.
func spawnStage(ctx context.Context, sh *state.Shell, seg *ast.Simple, in, out *os.File) func() int {
	argv := vars.SubstituteAll(seg.Argv, &sh.Vars)

	streams, err := redirect.Setup(seg, &sh.Vars)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", argv[0], err)
		out.Close()
		return func() int { return 1 }
	}

	var cmd *exec.Cmd
	if _, ok := builtin.Lookup(argv[0]); ok {
		cmd, err = buildBuiltinStage(ctx, sh, argv)
	} else {
		cmd = exec.CommandContext(ctx, argv[0], argv[1:]...)
	}
	if err != nil {
		streams.Close()
		fmt.Fprintf(os.Stderr, "%s: %v\n", argv[0], err)
		out.Close()
		return func() int { return 1 }
	}

	cmd.Stdin = pick(streams.Stdin, in, os.Stdin)
	cmd.Stdout = pickW(streams.Stdout, out, os.Stdout)
	cmd.Stderr = pickW(streams.Stderr, nil, os.Stderr)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	startErr := cmd.Start()
	out.Close()
	if startErr != nil {
		streams.Close()
		fmt.Fprintf(os.Stderr, "%s: %v\n", argv[0], startErr)
		return func() int { return 1 }
	}

	var once sync.Once
	return func() int {
		var code int
		once.Do(func() {
			code = status.WaitExternal(cmd)
			streams.Close()
		})
		return code
	}
}

// buildBuiltinStage re-execs fsh itself as a non-last pipeline stage
// standing in for a forked child (spec.md §5): the worker process
// receives a snapshot of the shell's state and the already
// vars-substituted argv over the environment (internal/rexec), runs
// exactly that one builtin, and exits with its return code.
func buildBuiltinStage(ctx context.Context, sh *state.Shell, argv []string) (*exec.Cmd, error) {
	cmd, err := rexec.SelfCommand(ctx, rexec.BuiltinMarker)
	if err != nil {
		return nil, err
	}

	shellEnv, err := rexec.EncodeShell(rexec.ShellState{
		CWD:         sh.CWD,
		Home:        sh.Home,
		PreviousDir: sh.PreviousDir,
		PrevReturn:  sh.PrevReturn,
		Vars:        sh.Vars.Snapshot(),
	})
	if err != nil {
		return nil, err
	}
	argvEnv, err := rexec.EncodeArgv(argv)
	if err != nil {
		return nil, err
	}

	cmd.Env = append(cmd.Env, rexec.EnvVarShell+"="+shellEnv, rexec.EnvVarArgv+"="+argvEnv)
	return cmd, nil
}

// runExternal execs a non-builtin command as the pipeline's last
// stage, waiting for it inline.
func runExternal(ctx context.Context, argv []string, env *builtin.ExecutionEnv) int {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = env.Stdin
	cmd.Stdout = env.Stdout
	cmd.Stderr = env.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", argv[0], err)
		return 1
	}
	return status.WaitExternal(cmd)
}

func pick(a, b, fallback *os.File) *os.File {
	if a != nil {
		return a
	}
	if b != nil {
		return b
	}
	return fallback
}

func pickW(a *os.File, b, fallback *os.File) *os.File {
	return pick(a, b, fallback)
}
