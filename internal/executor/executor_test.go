package executor_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fshteam/fsh/internal/executor"
	"github.com/fshteam/fsh/internal/parser"
	"github.com/fshteam/fsh/internal/signalcoord"
	"github.com/fshteam/fsh/internal/state"
)

func newShell(t *testing.T) *state.Shell {
	t.Helper()
	sh, err := state.New(signalcoord.New())
	require.NoError(t, err)
	return sh
}

func run(t *testing.T, sh *state.Shell, line string) int {
	t.Helper()
	cmd, err := parser.Parse(line)
	require.NoError(t, err)
	return executor.Run(context.Background(), sh, cmd)
}

func TestRun_EmptyLineReturnsPreviousResult(t *testing.T) {
	sh := newShell(t)
	sh.PrevReturn = 7
	code := run(t, sh, "")
	assert.Equal(t, 7, code)
}

func TestRun_SimpleCommand(t *testing.T) {
	sh := newShell(t)
	code := run(t, sh, "true")
	assert.Equal(t, 0, code)
}

func TestRun_SemicolonChain_ReturnsLastResult(t *testing.T) {
	sh := newShell(t)
	code := run(t, sh, "false ; true")
	assert.Equal(t, 0, code)
}

func TestRun_IfTrueBranch(t *testing.T) {
	sh := newShell(t)
	dir := t.TempDir()
	marker := filepath.Join(dir, "then-ran")

	code := run(t, sh, "if true { touch "+marker+" }")
	assert.Equal(t, 0, code)
	_, err := os.Stat(marker)
	assert.NoError(t, err)
}

func TestRun_IfFalseBranch_RunsElse(t *testing.T) {
	sh := newShell(t)
	dir := t.TempDir()
	marker := filepath.Join(dir, "else-ran")

	code := run(t, sh, "if false { true } else { touch "+marker+" }")
	assert.Equal(t, 0, code)
	_, err := os.Stat(marker)
	assert.NoError(t, err)
}

func TestRun_IfFalseBranch_NoElse_ReturnsZero(t *testing.T) {
	sh := newShell(t)
	code := run(t, sh, "if false { true }")
	assert.Equal(t, 0, code)
}

func TestRun_ForLoopBindsVariable(t *testing.T) {
	sh := newShell(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), nil, 0644))

	marker := filepath.Join(dir, "a.seen")
	code := run(t, sh, "for f in "+dir+" { touch $f.seen }")
	assert.Equal(t, 0, code)
	_, err := os.Stat(marker)
	assert.NoError(t, err)
}

func TestRun_PipelineBuiltinLastStageMutatesState(t *testing.T) {
	sh := newShell(t)
	dir := t.TempDir()

	code := run(t, sh, "echo x | cd "+dir)
	assert.Equal(t, 0, code)
	assert.Equal(t, dir, sh.CWD)
}
