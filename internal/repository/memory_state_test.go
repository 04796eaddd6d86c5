package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStateRepository(t *testing.T) {
	checkStateRepository(t, NewMemoryStateRepository())
}

func TestMemoryStateRepository_CopiesValues(t *testing.T) {
	repo := NewMemoryStateRepository()
	ctx := context.Background()

	buf := []byte(`[1]`)
	require.NoError(t, repo.Save(ctx, "k", buf))
	buf[1] = '2'

	got, err := repo.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))
}
