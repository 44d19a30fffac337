package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWithFileSink(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.LogDir = dir
	cfg.EnableConsole = false

	log, err := NewWithConfig(cfg)
	require.NoError(t, err)

	log.Info("hello", zap.String("k", "v"))
	require.NoError(t, log.Sync())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "snapsort_"))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestNewAllSinksDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableConsole = false
	cfg.EnableFile = false

	log, err := NewWithConfig(cfg)
	require.NoError(t, err)
	assert.NotNil(t, log, "disabled logging degrades to a nop logger")
	log.Info("goes nowhere")
}

func TestNamed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableFile = false
	cfg.EnableConsole = false

	log, err := NewWithConfig(cfg)
	require.NoError(t, err)
	child := Named(log, "organize")
	assert.NotNil(t, child)
}
