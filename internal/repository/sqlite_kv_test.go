package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/estimator/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVRepo_PutGetOverwrite(t *testing.T) {
	repo := NewSQLiteKVRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	var got map[string]int
	found, err := repo.Get(ctx, "ns", "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Put(ctx, "ns", "k", map[string]int{"a": 1}))
	require.NoError(t, repo.Put(ctx, "ns", "k", map[string]int{"a": 2}))

	found, err = repo.Get(ctx, "ns", "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, map[string]int{"a": 2}, got)
}

func TestKVRepo_NamespacesAreIsolated(t *testing.T) {
	repo := NewSQLiteKVRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "one", "k", "x"))
	require.NoError(t, repo.Put(ctx, "two", "k", "y"))
	require.NoError(t, repo.Delete(ctx, "one", "k"))

	var s string
	found, err := repo.Get(ctx, "one", "k", &s)
	require.NoError(t, err)
	assert.False(t, found)

	keys, err := repo.Keys(ctx, "two")
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, keys)
}

func TestKVRepo_GetDecodeError(t *testing.T) {
	repo := NewSQLiteKVRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Put(ctx, "ns", "k", "a string"))

	var n int
	_, err := repo.Get(ctx, "ns", "k", &n)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding ns/k")
}
