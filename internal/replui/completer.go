// Package replui drives the interactive REPL: reading lines with
// chzyer/readline, rendering the prompt via internal/ui, and feeding
// each line through internal/parser and internal/executor.
package replui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chzyer/readline"

	"github.com/fshteam/fsh/internal/builtin"
	"github.com/fshteam/fsh/internal/state"
)

// keywords completes alongside the builtin table; they are reserved
// only positionally in the grammar (spec.md §6) but are still useful
// completions at the start of a command slot.
var keywords = []string{"if", "else", "for", "in"}

// completer implements readline.AutoCompleter, adapted from the
// teacher's internal/shell/completer.go (DrimeCompleter): command-name
// completion in the first word, real filesystem path completion
// afterward (the teacher completes against a remote-folder cache; fsh
// has a real local filesystem, so it reads the directory directly).
type completer struct {
	sh *state.Shell
}

// newCompleter builds the REPL's tab-completer.
func newCompleter(sh *state.Shell) readline.AutoCompleter {
	return &completer{sh: sh}
}

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	lineStr := string(line[:pos])
	words := strings.Fields(lineStr)

	if len(words) == 0 || (len(words) == 1 && !strings.HasSuffix(lineStr, " ")) {
		prefix := ""
		if len(words) == 1 {
			prefix = words[0]
		}
		return c.completeCommand(prefix)
	}

	lastSpace := strings.LastIndex(lineStr, " ")
	partial := ""
	if lastSpace < len(lineStr)-1 {
		partial = lineStr[lastSpace+1:]
	}
	return c.completePath(partial)
}

func (c *completer) completeCommand(prefix string) ([][]rune, int) {
	var candidates []string
	candidates = append(candidates, builtin.Names()...)
	candidates = append(candidates, keywords...)

	var matches []string
	for _, name := range candidates {
		if strings.HasPrefix(name, prefix) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)

	result := make([][]rune, len(matches))
	for i, m := range matches {
		result[i] = []rune(m[len(prefix):] + " ")
	}
	return result, len(prefix)
}

func (c *completer) completePath(partial string) ([][]rune, int) {
	var searchDir, searchPrefix string

	switch {
	case partial == "":
		searchDir, searchPrefix = c.sh.CWD, ""
	case strings.HasSuffix(partial, "/"):
		searchDir, searchPrefix = c.resolve(partial), ""
	case strings.Contains(partial, "/"):
		searchDir, searchPrefix = c.resolve(filepath.Dir(partial)), filepath.Base(partial)
	default:
		searchDir, searchPrefix = c.sh.CWD, partial
	}

	entries, err := os.ReadDir(searchDir)
	if err != nil {
		return nil, 0
	}

	var matches []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, searchPrefix) {
			continue
		}
		if e.IsDir() {
			name += "/"
		}
		matches = append(matches, name)
	}
	sort.Strings(matches)

	result := make([][]rune, len(matches))
	for i, m := range matches {
		suffix := m[len(searchPrefix):]
		if !strings.HasSuffix(suffix, "/") {
			suffix += " "
		}
		result[i] = []rune(suffix)
	}
	return result, len(searchPrefix)
}

func (c *completer) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(c.sh.CWD, path))
}
