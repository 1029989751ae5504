package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fshteam/fsh/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "mocha", cfg.Theme)
	assert.Equal(t, 1000, cfg.HistorySize)
	assert.Equal(t, 0, cfg.DefaultParallel)
}

func TestPath(t *testing.T) {
	path, err := config.Path()
	assert.NoError(t, err)
	assert.Contains(t, path, ".fsh/config.yaml")
}

func TestHistoryPath(t *testing.T) {
	path, err := config.HistoryPath()
	assert.NoError(t, err)
	assert.Contains(t, path, ".fsh/history")
}
