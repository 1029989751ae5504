package builtin

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/fshteam/fsh/internal/debugview"
	"github.com/fshteam/fsh/internal/parser"
	"github.com/fshteam/fsh/internal/state"
)

// autotune reads one line from standard input, parses it, and opens
// the interactive debugview inspector over the resulting tree and the
// current variable table. spec.md's Open Questions note that one
// source variant reads fd 1 instead of fd 0; this rendition follows
// the narrative resolution and reads stdin (fd 0).
func autotune(ctx context.Context, sh *state.Shell, env *ExecutionEnv, argv []string) int {
	reader := bufio.NewReader(env.Stdin)
	line, err := reader.ReadString('\n')
	line = strings.TrimRight(line, "\n")
	if err != nil && line == "" {
		fmt.Fprintln(env.Stderr, "autotune: no input")
		return 1
	}

	cmd, perr := parser.Parse(line)
	if perr != nil {
		fmt.Fprintf(env.Stderr, "autotune: %v\n", perr)
		return 1
	}

	if verr := debugview.Run(sh, cmd, line); verr != nil {
		fmt.Fprintf(env.Stderr, "autotune: %v\n", verr)
		return 1
	}
	return 0
}

// oopsie returns the exit code given as its first positional
// argument, or 1 if one isn't given — ported from the original's
// cmd_oopsie ("Debug command, simply returns the code passed in
// argument, or 1 by default"), for exercising error and signal-death
// paths in isolation without needing an external process.
// -v/--verbose is an fsh-only addition: it prints the shell's current
// working directory before returning.
func oopsie(ctx context.Context, sh *state.Shell, env *ExecutionEnv, argv []string) int {
	fs := pflag.NewFlagSet("oopsie", pflag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	verbose := fs.BoolP("verbose", "v", false, "print the current working directory before returning")
	if err := fs.Parse(argv[1:]); err != nil {
		return 1
	}

	code := 1
	if rest := fs.Args(); len(rest) > 0 {
		n, err := strconv.Atoi(rest[0])
		if err != nil {
			fmt.Fprintf(env.Stderr, "oopsie: %s: numeric argument required\n", rest[0])
			return 1
		}
		code = n
	}

	if *verbose {
		fmt.Fprintf(env.Stderr, "oopsie: cwd=%s\n", sh.CWD)
	}
	return code
}
