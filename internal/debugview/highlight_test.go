package debugview_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fshteam/fsh/internal/debugview"
)

func TestHighlight_ContainsOriginalWords(t *testing.T) {
	src := "ls -l /tmp | grep foo"
	out := debugview.Highlight(src)
	assert.Contains(t, out, "ls")
	assert.Contains(t, out, "grep")
}

func TestHighlight_EmptyInput(t *testing.T) {
	assert.NotPanics(t, func() { debugview.Highlight("") })
}
