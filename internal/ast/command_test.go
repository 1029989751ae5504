package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fshteam/fsh/internal/ast"
)

func TestIsPipeable(t *testing.T) {
	assert.True(t, (&ast.Command{Kind: ast.KindSimple, Simple: &ast.Simple{}}).IsPipeable())
	assert.False(t, (&ast.Command{Kind: ast.KindEmpty}).IsPipeable())
	assert.False(t, (&ast.Command{Kind: ast.KindFor}).IsPipeable())
	assert.False(t, (*ast.Command)(nil).IsPipeable())
}

// Walk visits every allocated node exactly once (spec.md §8 property 1).
func TestWalk_VisitsEveryNode(t *testing.T) {
	leaf := func() *ast.Command { return &ast.Command{Kind: ast.KindSimple, Simple: &ast.Simple{Argv: []string{"x"}}} }

	tree := &ast.Command{
		Kind:   ast.KindIfElse,
		IfElse: &ast.IfElse{Test: leaf(), Then: leaf(), Else: leaf()},
		Next: &ast.Command{
			Kind: ast.KindFor,
			For:  &ast.For{Body: leaf()},
		},
	}

	var visited []*ast.Command
	ast.Walk(tree, func(c *ast.Command) { visited = append(visited, c) })

	assert.Len(t, visited, 6)

	seen := make(map[*ast.Command]bool)
	for _, c := range visited {
		assert.False(t, seen[c], "node visited more than once")
		seen[c] = true
	}
}
