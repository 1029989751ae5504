package builtin

import (
	"context"
	"fmt"
	"os"

	"github.com/fshteam/fsh/internal/state"
)

// ftype prints the symlink-preserving type of PATH (spec.md §6): one
// of "regular file", "directory", "symbolic link", "named pipe",
// "other". It uses Lstat, not Stat, so a symlink is reported as such
// rather than followed.
func ftype(ctx context.Context, sh *state.Shell, env *ExecutionEnv, argv []string) int {
	if len(argv) != 2 {
		fmt.Fprintln(env.Stderr, "ftype: usage: ftype PATH")
		return 1
	}

	info, err := os.Lstat(argv[1])
	if err != nil {
		fmt.Fprintf(env.Stderr, "ftype: %v\n", err)
		return 1
	}

	mode := info.Mode()
	var desc string
	switch {
	case mode&os.ModeSymlink != 0:
		desc = "symbolic link"
	case mode.IsDir():
		desc = "directory"
	case mode&os.ModeNamedPipe != 0:
		desc = "named pipe"
	case mode.IsRegular():
		desc = "regular file"
	default:
		desc = "other"
	}

	fmt.Fprintln(env.Stdout, desc)
	return 0
}
