// Package debugview implements the autotune debug builtin's
// interactive inspector: a small bubbletea program that shows the
// syntax-highlighted pretty-print of the last parsed command tree
// alongside a dump of the 128-slot variable table.
package debugview

import (
	"bytes"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlight renders fsh's pretty-printed command syntax using chroma's
// bash lexer (the closest available grammar: words, pipes, redirects,
// brace-delimited blocks), adapted from the teacher's
// internal/ui/highlight.go which picks a lexer by filename/content
// instead of a fixed one.
func Highlight(src string) string {
	lexer := lexers.Get("bash")
	if lexer == nil {
		return src
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("dracula")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return src
	}
	return buf.String()
}
