package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/matthewbaird/admingen/internal/logger"
)

func TestStart_BadEnvironment(t *testing.T) {
	t.Setenv("ADMINGEN_RATE_LIMIT_BURST", "0")
	var stderr bytes.Buffer
	assert.Equal(t, 1, start(&stderr))
	assert.Contains(t, stderr.String(), "loading config")
}

func TestStart_UnreachableDatabase(t *testing.T) {
	t.Cleanup(func() { logger.Set(zap.NewNop().Sugar()) })
	t.Setenv("ADMINGEN_DATABASE_URL", "file:"+filepath.Join(t.TempDir(), "missing", "admingen.db"))
	var stderr bytes.Buffer
	assert.Equal(t, 1, start(&stderr))
	assert.Empty(t, stderr.String())
}
