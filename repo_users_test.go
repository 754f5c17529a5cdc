package auth_test

import (
	"context"
	"database/sql"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/goliatone/go-auth-service"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	// a single in-memory sqlite database only exists on its connection
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	_, err = db.NewCreateTable().
		Model((*auth.User)(nil)).
		IfNotExists().
		Exec(context.Background())
	require.NoError(t, err)

	return db
}

func TestUsersRepository_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("persists the record and applies defaults", func(t *testing.T) {
		repo := auth.NewUsersRepository(newTestDB(t))

		created, err := repo.Register(ctx, &auth.User{
			Username:     "alice",
			PasswordHash: "not-a-real-hash",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.NotEqual(t, uuid.Nil, created.ID)
		assert.Equal(t, auth.DefaultRoles(), created.Roles)

		found, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "not-a-real-hash", found.PasswordHash)
		assert.Equal(t, auth.DefaultRoles(), found.Roles)
	})

	t.Run("keeps an explicit role set", func(t *testing.T) {
		repo := auth.NewUsersRepository(newTestDB(t))

		created, err := repo.Register(ctx, &auth.User{
			Username:     "root",
			PasswordHash: "not-a-real-hash",
			Roles:        []auth.Role{auth.RoleAdmin},
		})
		require.NoError(t, err)
		assert.Equal(t, []auth.Role{auth.RoleAdmin}, created.Roles)
	})

	t.Run("unique constraint maps to UsernameTaken", func(t *testing.T) {
		repo := auth.NewUsersRepository(newTestDB(t))

		_, err := repo.Register(ctx, &auth.User{
			Username:     "alice",
			PasswordHash: "hash-one",
		})
		require.NoError(t, err)

		_, err = repo.Register(ctx, &auth.User{
			Username:     "alice",
			PasswordHash: "hash-two",
		})
		require.Error(t, err)
		assert.True(t, auth.IsUsernameTakenError(err))
	})
}

func TestUsersRepository_GetByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("miss is a structured not found", func(t *testing.T) {
		repo := auth.NewUsersRepository(newTestDB(t))

		_, err := repo.GetByUsername(ctx, "ghost")
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))
	})

	t.Run("lookups are case sensitive", func(t *testing.T) {
		repo := auth.NewUsersRepository(newTestDB(t))

		_, err := repo.Register(ctx, &auth.User{
			Username:     "Alice",
			PasswordHash: "hash",
		})
		require.NoError(t, err)

		_, err = repo.GetByUsername(ctx, "alice")
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))

		found, err := repo.GetByUsername(ctx, "Alice")
		require.NoError(t, err)
		assert.Equal(t, "Alice", found.Username)
	})
}

func TestRepositoryManager(t *testing.T) {
	manager := auth.NewRepositoryManager(newTestDB(t))

	require.NoError(t, manager.Validate())
	assert.NotNil(t, manager.Users())

	err := manager.RunInTx(context.Background(), nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := manager.Users().RegisterTx(ctx, tx, &auth.User{
			Username:     "alice",
			PasswordHash: "hash",
		})
		return err
	})
	require.NoError(t, err)

	found, err := manager.Users().GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Username)
}
