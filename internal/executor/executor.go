// Package executor implements C9: the top of the tree-walk. It
// dispatches pipelines to internal/pipeline, conditionals recursively
// to itself, and for-loops to internal/forloop (passing itself back in
// as the loop body runner to avoid an import cycle).
package executor

import (
	"context"

	"github.com/fshteam/fsh/internal/ast"
	"github.com/fshteam/fsh/internal/forloop"
	"github.com/fshteam/fsh/internal/pipeline"
	"github.com/fshteam/fsh/internal/state"
	"github.com/fshteam/fsh/internal/status"
)

// Run walks one chain starting at cmd, consulting the interrupt flag
// before each node (spec.md §4.8/§5 "Cancellation"). It returns the
// result of the last pipeline or command run (or the signal-death
// sentinel if interrupted) and also leaves that result in sh.PrevReturn, since
// Empty nodes and the `if` builtin-free test path both read that field.
func Run(ctx context.Context, sh *state.Shell, cmd *ast.Command) int {
	result := sh.PrevReturn
	node := cmd

	for node != nil && !sh.Signals.Received() {
		if node.Kind == ast.KindSimple {
			segs, next := collectPipeline(node)
			result = pipeline.Run(ctx, sh, segs)
			sh.PrevReturn = result
			node = next
			continue
		}

		result = dispatchSingle(ctx, sh, node)
		sh.PrevReturn = result
		if node.NextKind == ast.NextSemicolon {
			node = node.Next
		} else {
			node = nil
		}
	}

	if sh.Signals.Received() {
		return status.SignalDeath
	}
	return result
}

// collectPipeline gathers the maximal run of pipe-linked Simple
// commands starting at node and returns it alongside the chain node
// that follows the pipeline (nil if the pipeline's own final link is
// not Semicolon).
func collectPipeline(node *ast.Command) ([]*ast.Simple, *ast.Command) {
	var segs []*ast.Simple
	curr := node
	for {
		segs = append(segs, curr.Simple)
		if curr.NextKind == ast.NextPipe {
			curr = curr.Next
			continue
		}
		break
	}
	if curr.NextKind == ast.NextSemicolon {
		return segs, curr.Next
	}
	return segs, nil
}

// dispatchSingle runs a single non-pipeable command: Empty, IfElse, or
// For (spec.md §4.8 item 3).
func dispatchSingle(ctx context.Context, sh *state.Shell, node *ast.Command) int {
	switch node.Kind {
	case ast.KindEmpty:
		return sh.PrevReturn

	case ast.KindIfElse:
		testResult := Run(ctx, sh, node.IfElse.Test)
		if testResult == 0 {
			return Run(ctx, sh, node.IfElse.Then)
		}
		if node.IfElse.Else != nil {
			return Run(ctx, sh, node.IfElse.Else)
		}
		return 0

	case ast.KindFor:
		return forloop.Run(ctx, sh, node.For, Run)

	default:
		return sh.PrevReturn
	}
}
