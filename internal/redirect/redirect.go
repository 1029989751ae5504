// Package redirect implements C4: opening the files named by a Simple
// command's redirections and producing the three standard streams
// (or nil, the Go analogue of the source's -2 "no redirection"
// sentinel) that the builtin dispatcher and pipeline runner install.
package redirect

import (
	"fmt"
	"os"

	"github.com/fshteam/fsh/internal/ast"
	"github.com/fshteam/fsh/internal/vars"
)

// Streams holds the three (possibly nil) open files for a command.
// A nil field means "leave the corresponding standard stream alone".
type Streams struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

// Close closes every non-nil stream. Errors are ignored, matching the
// source's "best-effort close on the unwind path" policy (spec.md §4.4:
// "the caller must release any already-opened descriptors before
// propagating").
func (s *Streams) Close() {
	if s.Stdin != nil {
		s.Stdin.Close()
	}
	if s.Stdout != nil {
		s.Stdout.Close()
	}
	if s.Stderr != nil {
		s.Stderr.Close()
	}
}

const newFileMode = 0666

// openOutput opens path with the flags implied by mode (spec.md §4.4
// table). mode must not be ast.ModeNone.
func openOutput(path string, mode ast.RedirMode) (*os.File, error) {
	switch mode {
	case ast.ModeCreateExclusive:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, newFileMode)
	case ast.ModeAppend:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, newFileMode)
	case ast.ModeTruncate:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, newFileMode)
	default:
		return nil, fmt.Errorf("redirect: invalid output mode")
	}
}

// Setup expands the Simple command's redirection filenames against t
// (spec.md §4.3: substitution applies to <, > family filenames) and
// opens them, returning the resulting Streams. On any open failure it
// closes whatever it already opened and returns the error.
func Setup(s *ast.Simple, t *vars.Table) (*Streams, error) {
	var out Streams

	if s.In != "" {
		path := vars.Substitute(s.In, t).Value
		f, err := os.OpenFile(path, os.O_RDONLY, 0)
		if err != nil {
			out.Close()
			return nil, err
		}
		out.Stdin = f
	}

	if s.Out != "" {
		path := vars.Substitute(s.Out, t).Value
		f, err := openOutput(path, s.OutMode)
		if err != nil {
			out.Close()
			return nil, err
		}
		out.Stdout = f
	}

	if s.Err != "" {
		path := vars.Substitute(s.Err, t).Value
		f, err := openOutput(path, s.ErrMode)
		if err != nil {
			out.Close()
			return nil, err
		}
		out.Stderr = f
	}

	return &out, nil
}
