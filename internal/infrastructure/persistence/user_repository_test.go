package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifemedical/backend/internal/domain/identity"
	"github.com/lifemedical/backend/internal/domain/shared"
)

func TestGormUserRepository(t *testing.T) {
	repo := NewGormUserRepository(newTestDB(t))
	ctx := context.Background()
	companyID := uuid.New()

	owner, err := identity.NewUser(companyID, 1, "Ahmed Hassan", "ahmed@example.com", "s3cret-pass", identity.RoleOwner)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, owner))

	t.Run("finds by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, "ahmed@example.com", found.Email)
		assert.Equal(t, identity.RoleOwner, found.Role)
	})

	t.Run("finds by email regardless of case", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, " Ahmed@Example.COM ")
		require.NoError(t, err)
		assert.Equal(t, owner.ID, found.ID)
		assert.True(t, found.VerifyPassword("s3cret-pass"))
	})

	t.Run("email uniqueness is global", func(t *testing.T) {
		clash, err := identity.NewUser(uuid.New(), 1, "Impostor", "ahmed@example.com", "another-pass", identity.RoleEmployee)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, clash), shared.ErrAlreadyExists)
	})

	t.Run("existence check normalizes email", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "AHMED@EXAMPLE.COM")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("super admins live outside any company", func(t *testing.T) {
		admin, err := identity.NewSuperAdmin(1, "Operator", "ops@example.com", "ops-secret")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, admin))

		found, err := repo.FindByEmail(ctx, "ops@example.com")
		require.NoError(t, err)
		assert.Nil(t, found.CompanyID)
	})

	t.Run("lists and counts per company", func(t *testing.T) {
		second, err := identity.NewUser(companyID, 2, "Mona Said", "mona@example.com", "pass-word", identity.RoleEmployee)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, second))

		users, total, err := repo.FindAllForCompany(ctx, companyID, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, users, 2)

		users, _, err = repo.FindAllForCompany(ctx, companyID, shared.Filter{Search: "mona"})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "mona@example.com", users[0].Email)

		count, err := repo.CountForCompany(ctx, companyID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("delete is scoped to the company", func(t *testing.T) {
		victim, err := identity.NewUser(companyID, 3, "Temp", "temp@example.com", "temp-pass", identity.RoleEmployee)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, victim))

		assert.ErrorIs(t, repo.Delete(ctx, uuid.New(), victim.ID), shared.ErrNotFound)
		require.NoError(t, repo.Delete(ctx, companyID, victim.ID))
		_, err = repo.FindByID(ctx, victim.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
