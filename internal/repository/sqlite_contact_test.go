package repository_test

import (
	"context"
	"testing"

	"github.com/alexanderramin/tempo/internal/domain"
	"github.com/alexanderramin/tempo/internal/repository"
	"github.com/alexanderramin/tempo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactRepo_CreateAndGet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteContactRepo(database)
	ctx := context.Background()

	c := testutil.NewTestContact("Alice")
	c.Email = "alice@example.com"
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, domain.ContactGeneric, got.Type)
	assert.True(t, got.IsActive)
}

func TestContactRepo_List_ActiveOnly(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteContactRepo(database)
	ctx := context.Background()

	active := testutil.NewTestContact("Active")
	inactive := testutil.NewTestContact("Inactive")
	inactive.IsActive = false
	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, inactive))

	got, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Active", got[0].Name)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestContactRepo_Update_NotFound(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteContactRepo(database)

	c := testutil.NewTestContact("Ghost")
	err := repo.Update(context.Background(), c)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
