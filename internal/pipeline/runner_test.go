package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fshteam/fsh/internal/ast"
	"github.com/fshteam/fsh/internal/pipeline"
	"github.com/fshteam/fsh/internal/signalcoord"
	"github.com/fshteam/fsh/internal/state"
	"github.com/fshteam/fsh/internal/status"
	"github.com/fshteam/fsh/internal/workerexec"
)

// TestMain lets this test binary double as the re-exec'd worker
// process a non-last builtin pipeline stage spawns (internal/rexec,
// internal/workerexec): os.Executable() inside a `go test` binary
// resolves to the compiled test binary itself, so pipeline.Run's
// self-reexec lands back here rather than needing a separately built
// cmd/fsh binary. On a normal test run, Dispatch sees no matching
// marker in os.Args and returns immediately.
func TestMain(m *testing.M) {
	workerexec.Dispatch(os.Args)
	os.Exit(m.Run())
}

func newShell(t *testing.T) *state.Shell {
	t.Helper()
	sh, err := state.New(signalcoord.New())
	require.NoError(t, err)
	return sh
}

func simple(argv ...string) *ast.Simple { return &ast.Simple{Argv: argv} }

func TestRun_SingleExternalCommand(t *testing.T) {
	sh := newShell(t)
	code := pipeline.Run(context.Background(), sh, []*ast.Simple{simple("true")})
	assert.Equal(t, 0, code)
}

func TestRun_SingleExternalCommand_NonZeroExit(t *testing.T) {
	sh := newShell(t)
	code := pipeline.Run(context.Background(), sh, []*ast.Simple{simple("false")})
	assert.Equal(t, 1, code)
}

func TestRun_UnknownCommandFails(t *testing.T) {
	sh := newShell(t)
	code := pipeline.Run(context.Background(), sh, []*ast.Simple{simple("fsh-definitely-not-a-real-command")})
	assert.Equal(t, 1, code)
}

func TestRun_TwoStagePipeline(t *testing.T) {
	sh := newShell(t)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.txt")

	segs := []*ast.Simple{
		simple("echo", "hello"),
		{Argv: []string{"cat"}, Out: outPath, OutMode: ast.ModeCreateExclusive},
	}
	code := pipeline.Run(context.Background(), sh, segs)
	assert.Equal(t, 0, code)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

// A builtin at the end of a pipeline mutates the real shell state
// (spec.md §8 property 6); a builtin earlier in the pipeline, forked
// against a clone, must not.
func TestRun_LastStageBuiltinMutatesRealState(t *testing.T) {
	sh := newShell(t)
	dir := t.TempDir()

	segs := []*ast.Simple{
		simple("echo", "ignored"),
		simple("cd", dir),
	}
	code := pipeline.Run(context.Background(), sh, segs)
	assert.Equal(t, 0, code)
	assert.Equal(t, dir, sh.CWD)
}

// A non-last builtin stage runs as a genuinely separate OS process
// (internal/rexec), so its cd's os.Chdir must never reach either the
// Go struct field or the real process-wide working directory of the
// test binary running this assertion.
func TestRun_NonLastBuiltinDoesNotMutateRealState(t *testing.T) {
	sh := newShell(t)
	before := sh.CWD
	beforeOS, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()

	segs := []*ast.Simple{
		simple("cd", dir),
		simple("true"),
	}
	pipeline.Run(context.Background(), sh, segs)

	assert.Equal(t, before, sh.CWD)

	afterOS, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, beforeOS, afterOS)
}

// exit called from a non-last pipeline stage must terminate only that
// stage's isolated worker process, not the shell (or test) process
// evaluating the pipeline.
func TestRun_NonLastBuiltinExitDoesNotKillCaller(t *testing.T) {
	sh := newShell(t)

	segs := []*ast.Simple{
		simple("exit", "7"),
		simple("true"),
	}
	code := pipeline.Run(context.Background(), sh, segs)
	assert.Equal(t, 7, code)
}

func TestRun_SignalDeathSentinel(t *testing.T) {
	// A process killed by a signal reports status.SignalDeath, not a
	// positive exit code.
	sh := newShell(t)
	code := pipeline.Run(context.Background(), sh, []*ast.Simple{simple("sh", "-c", "kill -TERM $$")})
	assert.Equal(t, status.SignalDeath, code)
}
