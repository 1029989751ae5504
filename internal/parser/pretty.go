package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fshteam/fsh/internal/ast"
)

// Print renders a parsed tree back into shell syntax such that
// Parse(Print(c)) produces an equivalent tree, modulo collapsible
// whitespace (spec.md §8 "Round-trip"). It backs the autotune debug
// viewer (SPEC_FULL.md §D).
func Print(c *ast.Command) string {
	var b strings.Builder
	printChain(&b, c)
	return b.String()
}

func printChain(b *strings.Builder, c *ast.Command) {
	for n := c; n != nil; n = n.Next {
		printCmd(b, n)
		switch n.NextKind {
		case ast.NextPipe:
			b.WriteString(" | ")
		case ast.NextSemicolon:
			b.WriteString(" ; ")
		}
	}
}

func printCmd(b *strings.Builder, n *ast.Command) {
	switch n.Kind {
	case ast.KindEmpty:
		// nothing to print; an Empty node contributes no tokens
	case ast.KindSimple:
		printSimple(b, n.Simple)
	case ast.KindIfElse:
		printIfElse(b, n.IfElse)
	case ast.KindFor:
		printFor(b, n.For)
	}
}

func printSimple(b *strings.Builder, s *ast.Simple) {
	b.WriteString(strings.Join(s.Argv, " "))
	if s.In != "" {
		fmt.Fprintf(b, " < %s", s.In)
	}
	if s.Out != "" {
		fmt.Fprintf(b, " %s %s", redirToken(s.OutMode, false), s.Out)
	}
	if s.Err != "" {
		fmt.Fprintf(b, " %s %s", redirToken(s.ErrMode, true), s.Err)
	}
}

func redirToken(mode ast.RedirMode, isErr bool) string {
	var base string
	switch mode {
	case ast.ModeCreateExclusive:
		base = ">"
	case ast.ModeAppend:
		base = ">>"
	case ast.ModeTruncate:
		base = ">|"
	}
	if isErr {
		return "2" + base
	}
	return base
}

func printIfElse(b *strings.Builder, ie *ast.IfElse) {
	b.WriteString("if ")
	printChain(b, ie.Test)
	b.WriteString(" { ")
	printChain(b, ie.Then)
	b.WriteString(" }")
	if ie.Else != nil {
		b.WriteString(" else { ")
		printChain(b, ie.Else)
		b.WriteString(" }")
	}
}

func printFor(b *strings.Builder, f *ast.For) {
	fmt.Fprintf(b, "for %c in %s", f.VarChar, f.Dir)
	if f.ListAll {
		b.WriteString(" -A")
	}
	if f.Recursive {
		b.WriteString(" -r")
	}
	if f.FilterExt != "" {
		fmt.Fprintf(b, " -e %s", f.FilterExt)
	}
	if f.FilterType != ast.FileTypeNone {
		fmt.Fprintf(b, " -t %c", byte(f.FilterType))
	}
	if f.Parallel != 0 {
		fmt.Fprintf(b, " -p %s", strconv.Itoa(f.Parallel))
	}
	b.WriteString(" { ")
	printChain(b, f.Body)
	b.WriteString(" }")
}
