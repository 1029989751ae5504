package replui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/fshteam/fsh/internal/config"
	"github.com/fshteam/fsh/internal/executor"
	"github.com/fshteam/fsh/internal/parser"
	"github.com/fshteam/fsh/internal/state"
	"github.com/fshteam/fsh/internal/ui"
)

// REPL is the interactive line-reading front end (spec.md §6 "Input
// source": one text line per command, line editing delegated to an
// external collaborator). Structurally this mirrors the teacher's
// internal/shell.Shell, trimmed of its history-expansion (!!,  !-n)
// and alias layers, neither of which fsh's spec carries.
type REPL struct {
	sh *state.Shell
	rl *readline.Instance
}

// New builds a REPL wired to sh, with history persisted at
// ~/.fsh/history and tab completion from internal/replui.completer.
func New(sh *state.Shell, cfg *config.Config) (*REPL, error) {
	historyPath, _ := config.HistoryPath()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "fsh> ",
		HistoryFile:       historyPath,
		HistoryLimit:      cfg.HistorySize,
		HistorySearchFold: true,
		AutoComplete:      newCompleter(sh),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
	})
	if err != nil {
		return nil, err
	}

	return &REPL{sh: sh, rl: rl}, nil
}

// Run loops until EOF (Ctrl-D), feeding each non-empty line through
// the parser and executor.
func (r *REPL) Run(ctx context.Context) {
	defer r.rl.Close()

	for {
		r.rl.SetPrompt(r.buildPrompt())

		line, err := r.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return
			}
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.sh.Signals.Clear()

		cmd, perr := parser.Parse(line)
		if perr != nil {
			var parseErr *parser.Error
			if errors.As(perr, &parseErr) {
				fmt.Fprintf(os.Stderr, "fsh: %s\n", parseErr.Msg)
				r.sh.PrevReturn = int(parseErr.Code)
			} else {
				fmt.Fprintf(os.Stderr, "fsh: %v\n", perr)
				r.sh.PrevReturn = 2
			}
			continue
		}

		executor.Run(ctx, r.sh, cmd)
	}
}

func (r *REPL) buildPrompt() string {
	path := r.sh.CWD
	if r.sh.Home != "" {
		if path == r.sh.Home {
			path = "~"
		} else if strings.HasPrefix(path, r.sh.Home+"/") {
			path = "~" + path[len(r.sh.Home):]
		}
	}
	return ui.RenderPrompt(ui.CurrentUser(), path, r.sh.PrevReturn)
}
