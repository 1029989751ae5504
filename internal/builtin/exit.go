package builtin

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/fshteam/fsh/internal/state"
)

// exitBuiltin exits the shell process with N, or the previous result
// if N is omitted (spec.md §6).
func exitBuiltin(ctx context.Context, sh *state.Shell, env *ExecutionEnv, argv []string) int {
	code := sh.PrevReturn

	switch len(argv) {
	case 1:
	case 2:
		n, err := strconv.Atoi(argv[1])
		if err != nil {
			fmt.Fprintf(env.Stderr, "exit: %s: numeric argument required\n", argv[1])
			return 1
		}
		code = n
	default:
		fmt.Fprintln(env.Stderr, "exit: too many arguments")
		return 1
	}

	os.Exit(state.ExitCode(code))
	return 0 // unreachable
}
