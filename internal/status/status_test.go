package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fshteam/fsh/internal/status"
)

// The signed-max combinator is associative, commutative, and
// identity/dominance hold as spec.md §8 property 5 requires.
func TestCombine_IdentityAndDominance(t *testing.T) {
	assert.Equal(t, 5, status.Combine(0, 5))
	assert.Equal(t, 5, status.Combine(5, 0))
	assert.Equal(t, status.SignalDeath, status.Combine(status.SignalDeath, 5))
	assert.Equal(t, status.SignalDeath, status.Combine(5, status.SignalDeath))
}

func TestCombine_Commutative(t *testing.T) {
	pairs := [][2]int{{1, 2}, {0, 0}, {status.SignalDeath, 0}, {7, 3}}
	for _, p := range pairs {
		assert.Equal(t, status.Combine(p[0], p[1]), status.Combine(p[1], p[0]))
	}
}

func TestCombine_Associative(t *testing.T) {
	a, b, c := 3, status.SignalDeath, 9
	left := status.Combine(status.Combine(a, b), c)
	right := status.Combine(a, status.Combine(b, c))
	assert.Equal(t, left, right)
}

func TestCombine_Max(t *testing.T) {
	assert.Equal(t, 9, status.Combine(3, 9))
	assert.Equal(t, 9, status.Combine(9, 3))
}
