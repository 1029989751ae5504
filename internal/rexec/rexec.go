// Package rexec holds the wire format for the shell's re-exec based
// process isolation: the pieces of shell state and command data that
// must cross an os/exec boundary into a freshly started fsh process
// standing in for a forked child (spec.md §5 "Concurrency" — "There
// are no user-level threads, fibers, or cooperative suspension points
// inside the shell").
//
// It imports only internal/ast and the standard library, so both
// internal/pipeline and internal/forloop (which build the re-exec
// commands) and internal/workerexec (which decodes and runs them) can
// depend on it without creating an import cycle through
// internal/executor or internal/builtin.
package rexec

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"os/exec"
	"strings"

	"github.com/fshteam/fsh/internal/ast"
)

// Marker values recognized as os.Args[1] by a worker process. Any
// other invocation of the fsh binary is a normal interactive shell.
const (
	BuiltinMarker = "__fsh_builtin_stage__"
	ForMarker     = "__fsh_for_worker__"
)

// Environment variable names carrying the encoded payloads below. Env
// vars rather than argv, since a builtin's own argv (itself already
// vars-substituted) and an arbitrary for-body AST don't fit cleanly on
// a command line and would otherwise need shell-style re-quoting.
const (
	EnvVarShell = "FSH_REXEC_SHELL"
	EnvVarArgv  = "FSH_REXEC_ARGV"
	EnvVarBody  = "FSH_REXEC_BODY"
)

// ShellState is the subset of state.Shell carried across a re-exec
// boundary. internal/rexec cannot name internal/state directly
// without the dependency running the wrong way for a leaf package, so
// callers translate field-by-field at the call site.
type ShellState struct {
	CWD         string
	Home        string
	PreviousDir string
	PrevReturn  int
	Vars        map[byte]string
}

func encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func decode(raw string, v any) error {
	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// EncodeShell and DecodeShell move a ShellState across EnvVarShell.
func EncodeShell(s ShellState) (string, error) { return encode(s) }

func DecodeShell(raw string) (ShellState, error) {
	var s ShellState
	err := decode(raw, &s)
	return s, err
}

// EncodeArgv and DecodeArgv move a builtin stage's already
// vars-substituted argv across EnvVarArgv.
func EncodeArgv(argv []string) (string, error) { return encode(argv) }

func DecodeArgv(raw string) ([]string, error) {
	var argv []string
	err := decode(raw, &argv)
	return argv, err
}

// EncodeBody and DecodeBody move a for-loop iteration's body chain
// across EnvVarBody. *ast.Command is a plain tree of exported fields
// with no back-references, so JSON round-trips it with no custom
// marshaling.
func EncodeBody(c *ast.Command) (string, error) { return encode(c) }

func DecodeBody(raw string) (*ast.Command, error) {
	var c ast.Command
	err := decode(raw, &c)
	return &c, err
}

// SelfCommand builds the *exec.Cmd that re-execs the running binary
// with marker as its worker-recognition argument. The caller still
// needs to attach the encoded payloads (via EnvVarShell/EnvVarArgv/
// EnvVarBody) and the stage's standard streams before starting it.
func SelfCommand(ctx context.Context, marker string) (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, exe, marker)
	cmd.Env = stripPayloads(os.Environ())
	return cmd, nil
}

// stripPayloads drops any rexec env vars already present in base, so
// a re-exec'd worker that itself re-execs another worker (a pipeline
// nested inside a parallel for-body, say) never inherits its parent's
// stale payload by accident.
func stripPayloads(base []string) []string {
	out := make([]string, 0, len(base))
	for _, kv := range base {
		if strings.HasPrefix(kv, EnvVarShell+"=") ||
			strings.HasPrefix(kv, EnvVarArgv+"=") ||
			strings.HasPrefix(kv, EnvVarBody+"=") {
			continue
		}
		out = append(out, kv)
	}
	return out
}
