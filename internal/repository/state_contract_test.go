package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jrc-server/internal/model"
)

// checkStateRepository проверяет поведение, общее для всех бэкендов.
func checkStateRepository(t *testing.T, repo StateRepository) {
	t.Helper()
	ctx := context.Background()

	_, err := repo.Load(ctx, "missing")
	require.ErrorIs(t, err, model.ErrStateNotFound)

	require.NoError(t, repo.Save(ctx, model.StateKeySession, []byte(`{"id":"1"}`)))
	got, err := repo.Load(ctx, model.StateKeySession)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(got))

	require.NoError(t, repo.Save(ctx, model.StateKeySession, []byte(`{"id":"2"}`)))
	got, err = repo.Load(ctx, model.StateKeySession)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"2"}`, string(got))

	require.NoError(t, repo.Delete(ctx, model.StateKeySession))
	_, err = repo.Load(ctx, model.StateKeySession)
	require.ErrorIs(t, err, model.ErrStateNotFound)

	require.NoError(t, repo.Delete(ctx, "never-saved"), "deleting an absent key is not an error")
}
