// Command fsh is the entry point: load configuration, build the shell
// state, install the signal coordinator, and hand off to the REPL.
//
// Before any of that, it checks whether it was invoked as a re-exec'd
// worker standing in for a forked pipeline stage or for-loop iteration
// (internal/rexec, internal/workerexec); if so it runs that one
// command and exits, never reaching the REPL at all.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fshteam/fsh/internal/config"
	"github.com/fshteam/fsh/internal/replui"
	"github.com/fshteam/fsh/internal/signalcoord"
	"github.com/fshteam/fsh/internal/state"
	"github.com/fshteam/fsh/internal/workerexec"
)

func main() {
	workerexec.Dispatch(os.Args)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fsh: error loading config: %v\n", err)
		os.Exit(1)
	}

	sig := signalcoord.New()

	sh, err := state.New(sig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fsh: %v\n", err)
		os.Exit(1)
	}

	repl, err := replui.New(sh, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fsh: %v\n", err)
		os.Exit(1)
	}

	repl.Run(context.Background())

	os.Exit(state.ExitCode(sh.PrevReturn))
}
