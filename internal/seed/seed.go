package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/sectionhub/internal/app/models"
	appRepos "github.com/yigit/sectionhub/internal/app/repositories"
	"github.com/yigit/sectionhub/internal/config"
	"github.com/yigit/sectionhub/internal/pkg/auth"
)

type defaultRole struct {
	name        appModels.RoleName
	description string
}

var defaultRoles = []defaultRole{
	{name: appModels.RoleAdmin, description: "Administrator with full access"},
	{name: appModels.RoleUser, description: "Regular user with read access"},
}

// CreateDefaultData creates the built-in roles and the initial admin if they don't exist.
// Every step runs even when an earlier one failed; the errors are joined.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, admin config.AdminConfig, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (roles/initial admin)...")
	var finalErr error

	roles := make(map[appModels.RoleName]*appModels.Role, len(defaultRoles))
	for _, r := range defaultRoles {
		role, err := ensureRole(ctx, repos.Roles, r)
		if err != nil {
			lgr.Error().Err(err).Str("role", string(r.name)).Msg("Error creating default role")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		roles[r.name] = role
	}

	if admin.Email == "" {
		lgr.Info().Msg("No initial admin configured, skipping")
		return finalErr
	}

	adminRole, ok := roles[appModels.RoleAdmin]
	if !ok {
		return errors.Join(finalErr, errors.New("admin role unavailable, initial admin not created"))
	}

	created, err := ensureAdmin(ctx, repos.Users, admin, adminRole.ID)
	if err != nil {
		lgr.Error().Err(err).Str("email", admin.Email).Msg("Error creating initial admin")
		finalErr = errors.Join(finalErr, err)
	} else if created {
		lgr.Info().Str("email", admin.Email).Msg("Initial admin created")
	}

	return finalErr
}

func ensureRole(ctx context.Context, roles appRepos.RoleRepository, r defaultRole) (*appModels.Role, error) {
	role, err := roles.GetByName(ctx, r.name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, appRepos.ErrNotFound) {
		return nil, err
	}

	description := r.description
	role, err = roles.Create(ctx, appModels.RoleCreate{Name: r.name, Description: &description})
	if errors.Is(err, appRepos.ErrAlreadyExists) {
		// another instance seeded it first
		return roles.GetByName(ctx, r.name)
	}
	return role, err
}

func ensureAdmin(ctx context.Context, users appRepos.UserRepository, admin config.AdminConfig, roleID int64) (bool, error) {
	exists, err := users.ExistsByEmail(ctx, admin.Email)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	hashed, err := auth.HashPassword(admin.Password)
	if err != nil {
		return false, fmt.Errorf("failed to hash initial admin password: %w", err)
	}

	_, err = users.Create(ctx, appModels.UserCreate{
		Email:          admin.Email,
		HashedPassword: hashed,
		FullName:       admin.FullName,
		RoleID:         roleID,
		IsActive:       true,
	})
	if errors.Is(err, appRepos.ErrAlreadyExists) {
		return false, nil
	}
	return err == nil, err
}
