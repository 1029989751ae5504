package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fshteam/fsh/internal/ast"
	"github.com/fshteam/fsh/internal/parser"
)

func TestParse_SimpleCommand(t *testing.T) {
	cmd, err := parser.Parse("ls -l /tmp")
	require.NoError(t, err)
	require.Equal(t, ast.KindSimple, cmd.Kind)
	assert.Equal(t, []string{"ls", "-l", "/tmp"}, cmd.Simple.Argv)
	assert.Equal(t, ast.NextNone, cmd.NextKind)
}

func TestParse_Redirections(t *testing.T) {
	cmd, err := parser.Parse("sort < in.txt > out.txt 2>> errs.log")
	require.NoError(t, err)
	s := cmd.Simple
	assert.Equal(t, "in.txt", s.In)
	assert.Equal(t, "out.txt", s.Out)
	assert.Equal(t, ast.ModeCreateExclusive, s.OutMode)
	assert.Equal(t, "errs.log", s.Err)
	assert.Equal(t, ast.ModeAppend, s.ErrMode)
}

func TestParse_Pipeline(t *testing.T) {
	cmd, err := parser.Parse("a | b | c")
	require.NoError(t, err)
	assert.Equal(t, ast.NextPipe, cmd.NextKind)
	assert.Equal(t, ast.NextPipe, cmd.Next.NextKind)
	assert.Equal(t, ast.NextNone, cmd.Next.Next.NextKind)
}

func TestParse_Semicolon(t *testing.T) {
	cmd, err := parser.Parse("a ; b")
	require.NoError(t, err)
	assert.Equal(t, ast.NextSemicolon, cmd.NextKind)
	assert.Equal(t, "b", cmd.Next.Simple.Argv[0])
}

func TestParse_PipeAfterNonPipeableIsSyntaxError(t *testing.T) {
	_, err := parser.Parse("if a { b } | c")
	require.Error(t, err)
	var perr *parser.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, parser.CodeSyntax, perr.Code)
}

func TestParse_IfElse(t *testing.T) {
	cmd, err := parser.Parse("if test -f x { echo yes } else { echo no }")
	require.NoError(t, err)
	require.Equal(t, ast.KindIfElse, cmd.Kind)
	assert.NotNil(t, cmd.IfElse.Test)
	assert.NotNil(t, cmd.IfElse.Then)
	assert.NotNil(t, cmd.IfElse.Else)
}

func TestParse_IfNoElse(t *testing.T) {
	cmd, err := parser.Parse("if true { echo yes }")
	require.NoError(t, err)
	assert.Nil(t, cmd.IfElse.Else)
}

func TestParse_ForLoopDefaults(t *testing.T) {
	cmd, err := parser.Parse("for f in /tmp { echo $f }")
	require.NoError(t, err)
	require.Equal(t, ast.KindFor, cmd.Kind)
	f := cmd.For
	assert.Equal(t, byte('f'), f.VarChar)
	assert.Equal(t, "/tmp", f.Dir)
	assert.False(t, f.ListAll)
	assert.False(t, f.Recursive)
	assert.Empty(t, f.FilterExt)
	assert.Equal(t, ast.FileTypeNone, f.FilterType)
	assert.Equal(t, 0, f.Parallel)
}

func TestParse_ForLoopOptions(t *testing.T) {
	cmd, err := parser.Parse("for f in /tmp -A -r -e txt -t f -p 4 { echo $f }")
	require.NoError(t, err)
	f := cmd.For
	assert.True(t, f.ListAll)
	assert.True(t, f.Recursive)
	assert.Equal(t, "txt", f.FilterExt)
	assert.Equal(t, ast.FileTypeRegular, f.FilterType)
	assert.Equal(t, 4, f.Parallel)
}

func TestParse_ForLoopDuplicateOptionIsForArgError(t *testing.T) {
	_, err := parser.Parse("for f in /tmp -r -r { echo $f }")
	require.Error(t, err)
	var perr *parser.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, parser.CodeForArg, perr.Code)
}

func TestParse_ForLoopInvalidTypeFilter(t *testing.T) {
	_, err := parser.Parse("for f in /tmp -t z { echo $f }")
	require.Error(t, err)
	var perr *parser.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, parser.CodeForArg, perr.Code)
}

func TestParse_ForLoopNonIntegerParallel(t *testing.T) {
	_, err := parser.Parse("for f in /tmp -p abc { echo $f }")
	require.Error(t, err)
	var perr *parser.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, parser.CodeForArg, perr.Code)
}

func TestParse_MissingClosingBraceIsSyntaxError(t *testing.T) {
	_, err := parser.Parse("if true { echo yes")
	require.Error(t, err)
	var perr *parser.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, parser.CodeSyntax, perr.Code)
}

func TestParse_RedirectionMissingFilenameIsSyntaxError(t *testing.T) {
	_, err := parser.Parse("ls >")
	require.Error(t, err)
	var perr *parser.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, parser.CodeSyntax, perr.Code)
}

func TestParse_SurplusTokenIsSyntaxError(t *testing.T) {
	_, err := parser.Parse("a } b")
	require.Error(t, err)
}

func TestParse_EmptyLineIsEmptyCommand(t *testing.T) {
	cmd, err := parser.Parse("")
	require.NoError(t, err)
	assert.Equal(t, ast.KindEmpty, cmd.Kind)
}

// Round-trip property (spec.md §8): re-parsing the pretty-printed form
// of a valid tree produces an equivalent tree.
func TestRoundTrip(t *testing.T) {
	lines := []string{
		"pwd",
		"ls -l /tmp > out.txt",
		"a | b | c",
		"cat < in.txt 2> err.log",
		"if test x { echo yes } else { echo no }",
		"for f in /tmp -A -r -e txt -t f -p 3 { echo $f }",
		"a ; b ; c",
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			cmd, err := parser.Parse(line)
			require.NoError(t, err)

			printed := parser.Print(cmd)
			reparsed, err := parser.Parse(printed)
			require.NoError(t, err, "re-parsing %q", printed)

			if diff := cmp.Diff(cmd, reparsed); diff != "" {
				t.Errorf("round-trip mismatch for %q -> %q (-want +got):\n%s", line, printed, diff)
			}
		})
	}
}
