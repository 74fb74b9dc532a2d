package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zenithstudio/backend/internal/domain/identity"
	"github.com/zenithstudio/backend/internal/domain/shared"
	"github.com/zenithstudio/backend/internal/infrastructure/persistence/models"
)

func setupUserTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserModel{}))
	return db
}

func TestGormUserRepository(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	u, err := identity.NewUser("owner@zenith.example", "studio2026", "Owner", identity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, u))

	t.Run("find by email is case insensitive", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "  Owner@Zenith.Example ")
		require.NoError(t, err)
		assert.Equal(t, u.ID, found.ID)
		assert.True(t, found.VerifyPassword("studio2026"))
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		dup, err := identity.NewUser("owner@zenith.example", "other2026", "", identity.RoleUser)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("update persists password reset", func(t *testing.T) {
		require.NoError(t, u.SetPassword("newpass99"))
		require.NoError(t, repo.Update(ctx, u))

		found, err := repo.FindByEmail(ctx, "owner@zenith.example")
		require.NoError(t, err)
		assert.True(t, found.VerifyPassword("newpass99"))
	})

	t.Run("filter by role", func(t *testing.T) {
		retailer, err := identity.NewUser("shop@zenith.example", "retail2026", "Shop", identity.RoleRetailer)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, retailer))

		role := identity.RoleRetailer
		users, total, err := repo.FindAll(ctx, identity.Filter{Role: &role})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, users, 1)
		assert.Equal(t, "shop@zenith.example", users[0].Email)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, u.ID))
		_, err := repo.FindByID(ctx, u.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
