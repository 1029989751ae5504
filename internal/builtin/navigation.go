package builtin

import (
	"context"
	"fmt"
	"os"

	"github.com/fshteam/fsh/internal/state"
)

// cd implements spec.md §6: no argument goes to HOME, "-" goes to the
// previous directory, anything else is a literal chdir target.
func cd(ctx context.Context, sh *state.Shell, env *ExecutionEnv, argv []string) int {
	var target string
	switch len(argv) {
	case 1:
		if sh.Home == "" {
			fmt.Fprintln(env.Stderr, "cd: HOME not set")
			return 1
		}
		target = sh.Home
	case 2:
		target = argv[1]
	default:
		fmt.Fprintln(env.Stderr, "cd: too many arguments")
		return 1
	}

	if target == "-" {
		if sh.PreviousDir == "" {
			fmt.Fprintln(env.Stderr, "cd: OLDPWD not set")
			return 1
		}
		target = sh.PreviousDir
	}

	prior := sh.CWD
	if err := os.Chdir(target); err != nil {
		fmt.Fprintf(env.Stderr, "cd: %v\n", err)
		return 1
	}
	sh.PreviousDir = prior

	// Re-reading the working directory after a successful chdir is the
	// one operation spec.md §7 calls out as fatal on failure.
	if err := sh.RefreshCWD(); err != nil {
		fmt.Fprintf(env.Stderr, "cd: fatal: cannot determine working directory: %v\n", err)
		os.Exit(1)
	}
	return 0
}

// pwd prints the shell's cached current working directory.
func pwd(ctx context.Context, sh *state.Shell, env *ExecutionEnv, argv []string) int {
	if len(argv) > 1 {
		fmt.Fprintln(env.Stderr, "pwd: too many arguments")
		return 1
	}
	fmt.Fprintln(env.Stdout, sh.CWD)
	return 0
}
