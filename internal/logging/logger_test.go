package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesComponentFieldToFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Setup(Config{Level: "debug", Format: "json", Dir: dir}))
	t.Cleanup(func() { _ = Close() })

	NewLogger("store").WithField("listeners", 2).Debug("notification pass")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "estimator-"))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"store"`)
	assert.Contains(t, string(data), `"listeners":2`)
}

func TestSetup_InvalidLevelFallsBackToInfo(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Setup(Config{Level: "loud", Dir: dir}))
	t.Cleanup(func() { _ = Close() })

	log := NewLogger("test")
	log.Debug("hidden")
	log.Info("shown")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestOrDiscard(t *testing.T) {
	assert.NotNil(t, OrDiscard(nil))
	l := NewLogger("x")
	assert.Same(t, l, OrDiscard(l))
}
