// Package forloop implements C7: directory iteration with the `-A`
// (list-all), `-r` (recursive), `-e` (extension filter), `-t` (type
// filter), and `-p` (bounded parallelism) options, per spec.md §4.6.
package forloop

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/fshteam/fsh/internal/ast"
	"github.com/fshteam/fsh/internal/rexec"
	"github.com/fshteam/fsh/internal/state"
	"github.com/fshteam/fsh/internal/status"
	"github.com/fshteam/fsh/internal/vars"
)

// RunBody executes a for-loop's body chain, either inline or as a pool
// worker. The executor supplies this so forloop never imports it back
// (it would otherwise be a straight import cycle: executor -> forloop
// -> executor).
type RunBody func(ctx context.Context, sh *state.Shell, body *ast.Command) int

// Run drives spec starting at its own directory name.
func Run(ctx context.Context, sh *state.Shell, spec *ast.For, run RunBody) int {
	return runDir(ctx, sh, spec, spec.Dir, run)
}

// runDir is the recursive engine. dirName is the directory to open for
// this level; on recursive descent it is the subdirectory's iteration
// value rather than spec.Dir (design note "parametrize recursion on an
// explicit current-directory argument instead of mutating the loop
// record").
func runDir(ctx context.Context, sh *state.Shell, spec *ast.For, dirName string, run RunBody) int {
	expandedDir := vars.Substitute(dirName, &sh.Vars).Value

	entries, err := os.ReadDir(expandedDir)
	if err != nil {
		return 1
	}

	prevVal, hadPrev := sh.Vars.Get(spec.VarChar)

	var wp *pool
	if spec.Parallel > 0 {
		wp = newPool(clampParallelism(spec.Parallel), sh.Signals)
	}

	result := 0
	for _, entry := range entries {
		if sh.Signals.Received() {
			break
		}

		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}
		if !spec.ListAll && strings.HasPrefix(name, ".") {
			continue
		}

		iterVal := expandedDir + "/" + name
		sh.Vars.Set(spec.VarChar, iterVal)

		if spec.Recursive && entry.IsDir() {
			result = status.Combine(result, runDir(ctx, sh, spec, iterVal, run))
		}

		bound := iterVal
		if spec.FilterExt != "" {
			suffix := "." + spec.FilterExt
			if !strings.HasSuffix(name, suffix) {
				continue
			}
			bound = strings.TrimSuffix(iterVal, suffix)
		}

		if spec.FilterType != ast.FileTypeNone {
			info, infoErr := entry.Info()
			if infoErr != nil || !matchesFileType(info.Mode(), spec.FilterType) {
				continue
			}
		}

		sh.Vars.Set(spec.VarChar, bound)

		if wp != nil {
			// Each worker gets its own snapshot of the shell state
			// (state.Shell.Clone, the same safeguard internal/pipeline
			// used to use before it moved to re-exec) so a later
			// iteration rebinding spec.VarChar on the shared table can
			// never race with a worker still reading an earlier
			// binding while its re-exec command is being built. The
			// worker itself then runs as a genuine forked child
			// process (internal/rexec, internal/workerexec), not a
			// goroutine sharing this address space, so its own `cd`
			// or `exit` can never reach the parent shell (spec.md §5).
			child := sh.Clone()
			wp.dispatch(func() int { return runWorker(ctx, child, spec.Body) })
			continue
		}
		result = status.Combine(result, run(ctx, sh, spec.Body))
	}

	if hadPrev {
		sh.Vars.Set(spec.VarChar, prevVal)
	} else {
		sh.Vars.Unset(spec.VarChar)
	}

	if wp != nil {
		result = status.Combine(result, wp.drain())
	}

	if sh.Signals.Received() {
		return status.SignalDeath
	}
	return result
}

// runWorker re-execs fsh as a parallel for-loop worker standing in
// for a forked iteration (spec.md §4.6.1, §5): the body chain and a
// snapshot of sh cross the environment, and the worker's own syscalls
// land in that process, never this one.
func runWorker(ctx context.Context, sh *state.Shell, body *ast.Command) int {
	cmd, err := buildWorkerCommand(ctx, sh, body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "for: %v\n", err)
		return 1
	}
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "for: %v\n", err)
		return 1
	}
	return status.WaitExternal(cmd)
}

func buildWorkerCommand(ctx context.Context, sh *state.Shell, body *ast.Command) (*exec.Cmd, error) {
	cmd, err := rexec.SelfCommand(ctx, rexec.ForMarker)
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
	bodyEnv, err := rexec.EncodeBody(body)
	if err != nil {
		return nil, err
	}

	cmd.Env = append(cmd.Env, rexec.EnvVarShell+"="+shellEnv, rexec.EnvVarBody+"="+bodyEnv)
	return cmd, nil
}

func matchesFileType(mode fs.FileMode, ft ast.FileType) bool {
	switch ft {
	case ast.FileTypeRegular:
		return mode.IsRegular()
	case ast.FileTypeDir:
		return mode.IsDir()
	case ast.FileTypeSymlink:
		return mode&fs.ModeSymlink != 0
	case ast.FileTypeFIFO:
		return mode&fs.ModeNamedPipe != 0
	default:
		return true
	}
}
