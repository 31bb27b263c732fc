package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/sectionhub/internal/app/models"
	"github.com/yigit/sectionhub/internal/pkg/apperrors"
)

func TestRoleService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	auditor, err := f.repos.Roles.Create(ctx, models.RoleCreate{Name: "auditor"})
	require.NoError(t, err)

	roles, err := f.services.Roles.List(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 3)
	assert.Equal(t, []string{"admin", "user", "auditor"}, []string{roles[0].Name, roles[1].Name, roles[2].Name})

	_, err = f.services.Roles.Get(ctx, 77)
	assertKind(t, err, apperrors.ErrResourceNotFound, "Role with identifier '77' not found")

	err = f.services.Roles.Delete(ctx, f.userRole.ID)
	assertKind(t, err, apperrors.ErrValidationFailed, "Cannot delete built-in role 'user'")

	_, err = f.repos.Users.Create(ctx, models.UserCreate{Email: "a@example.com", FullName: "A", RoleID: auditor.ID, IsActive: true})
	require.NoError(t, err)
	_, err = f.repos.Users.Create(ctx, models.UserCreate{Email: "b@example.com", FullName: "B", RoleID: auditor.ID, IsActive: true})
	require.NoError(t, err)
	err = f.services.Roles.Delete(ctx, auditor.ID)
	assertKind(t, err, apperrors.ErrValidationFailed, "Cannot delete role 'auditor'. It is assigned to 2 users.")

	unused, err := f.repos.Roles.Create(ctx, models.RoleCreate{Name: "unused"})
	require.NoError(t, err)
	require.NoError(t, f.services.Roles.Delete(ctx, unused.ID))
	_, err = f.services.Roles.Get(ctx, unused.ID)
	assertKind(t, err, apperrors.ErrResourceNotFound, "")
}
