// Package builtin implements C5: the closed set of in-process
// commands (cd, pwd, ftype, exit, plus the debug commands autotune and
// oopsie) and the dispatch table mapping a command name to its
// handler.
//
// Rather than the source's raw fd save/install/restore dance around
// standard streams 0/1/2, each handler receives an explicit
// ExecutionEnv carrying Stdin/Stdout/Stderr — the same reader/writer
// indirection the teacher repo uses for every command
// (internal/commands/registry.go's ExecutionEnv). It is the idiomatic
// Go rendition of "install redirected descriptor, invoke, restore":
// no process-wide file descriptor is ever mutated, so there is nothing
// to restore.
package builtin

import (
	"context"
	"io"

	"github.com/fshteam/fsh/internal/state"
)

// ExecutionEnv is the redirected I/O a handler sees. Fields are never
// nil: internal/pipeline fills in os.Stdin/os.Stdout/os.Stderr when a
// command has no matching redirection.
type ExecutionEnv struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Handler runs a builtin in-process. argv[0] is the command name.
// The return value is the shell return code (spec.md §6): 0 success,
// 1 most failures. The only handler that can return a negative value
// is oopsie, which returns its numeric argument verbatim; otherwise the
// signal-death sentinel comes from the pipeline/executor layers.
type Handler func(ctx context.Context, sh *state.Shell, env *ExecutionEnv, argv []string) int

var registry = make(map[string]Handler)

func register(name string, h Handler) {
	registry[name] = h
}

// Lookup returns the handler for name, if name is a builtin.
func Lookup(name string) (Handler, bool) {
	h, ok := registry[name]
	return h, ok
}

// Names returns every registered builtin name, for tab completion.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func init() {
	register("cd", cd)
	register("pwd", pwd)
	register("ftype", ftype)
	register("exit", exitBuiltin)
	register("autotune", autotune)
	register("oopsie", oopsie)
}
