package tokenizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fshteam/fsh/internal/tokenizer"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{"empty", "", nil},
		{"single word", "pwd", []string{"pwd"}},
		{"multiple spaces collapse", "cd   /tmp", []string{"cd", "/tmp"}},
		{"leading and trailing whitespace", "  ls -r  ", []string{"ls", "-r"}},
		{"reserved characters without spaces stay in one word", "a|b", []string{"a|b"}},
		{"reserved tokens with spaces", "a | b ; c", []string{"a", "|", "b", ";", "c"}},
		{"tabs are whitespace", "a\tb", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tokenizer.Tokenize(tt.line)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTokenizer_Reset(t *testing.T) {
	var tok tokenizer.Tokenizer
	tok.Reset("one two")

	w, ok := tok.Next()
	assert.True(t, ok)
	assert.Equal(t, "one", w)

	w, ok = tok.Next()
	assert.True(t, ok)
	assert.Equal(t, "two", w)

	_, ok = tok.Next()
	assert.False(t, ok)
}

func TestTokenizer_EmbeddedNUL(t *testing.T) {
	var tok tokenizer.Tokenizer
	tok.Reset("abc\x00def")

	w, ok := tok.Next()
	assert.True(t, ok)
	assert.Equal(t, "abc", w)

	_, ok = tok.Next()
	assert.False(t, ok)
}
