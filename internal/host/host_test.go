package host

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShell_OpenFolderUsesOpener(t *testing.T) {
	var got []string
	s := &Shell{
		Opener: []string{"files", "--reveal"},
		run: func(_ context.Context, name string, args ...string) error {
			got = append([]string{name}, args...)
			return nil
		},
	}
	dir := t.TempDir()

	ok, err := s.OpenFolder(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"files", "--reveal", dir}, got)
}

func TestShell_OpenFolderMissingDir(t *testing.T) {
	called := false
	s := &Shell{run: func(context.Context, string, ...string) error {
		called = true
		return nil
	}}

	ok, err := s.OpenFolder(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, called)
}

func TestShell_OpenFolderCommandFails(t *testing.T) {
	s := &Shell{run: func(context.Context, string, ...string) error {
		return errors.New("exit status 3")
	}}

	ok, err := s.OpenFolder(context.Background(), t.TempDir())
	assert.False(t, ok)
	assert.ErrorContains(t, err, "opening folder")
}
