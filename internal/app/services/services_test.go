package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/sectionhub/internal/app/models"
	"github.com/yigit/sectionhub/internal/app/models/dto"
	"github.com/yigit/sectionhub/internal/app/repositories"
	"github.com/yigit/sectionhub/internal/pkg/auth"
	"github.com/yigit/sectionhub/internal/testutil"
)

type fixture struct {
	repos    *repositories.Repositories
	jwt      *auth.JWTService
	services *Services
	admin    *models.User
	userRole *models.Role
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := testutil.NewRepositories()

	adminRole, err := repos.Roles.Create(ctx, models.RoleCreate{Name: models.RoleAdmin})
	require.NoError(t, err)
	userRole, err := repos.Roles.Create(ctx, models.RoleCreate{Name: models.RoleUser})
	require.NoError(t, err)

	hash, err := auth.HashPassword("adminpass1")
	require.NoError(t, err)
	admin, err := repos.Users.Create(ctx, models.UserCreate{
		Email: "admin@example.com", HashedPassword: hash, FullName: "Admin", RoleID: adminRole.ID, IsActive: true,
	})
	require.NoError(t, err)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "0123456789abcdef0123456789abcdef",
		AccessTokenExp: 30 * time.Minute,
		TokenIssuer:    "sectionhub-test",
	})

	return &fixture{
		repos:    repos,
		jwt:      jwtService,
		services: NewServices(repos, jwtService, zerolog.Nop()),
		admin:    admin,
		userRole: userRole,
	}
}

func assertKind(t *testing.T, err error, kind error, message string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
	if message != "" {
		assert.EqualError(t, err, message)
	}
}

func (f *fixture) createSection(t *testing.T, name string, capacity int) *dto.SectionResponse {
	t.Helper()
	resp, err := f.services.Sections.Create(context.Background(), &dto.CreateSectionRequest{Name: name, MaxCapacity: &capacity})
	require.NoError(t, err)
	return resp
}

func (f *fixture) createStudent(t *testing.T, first, email string) *dto.StudentResponse {
	t.Helper()
	dob, err := dto.ParseDate("2001-04-12")
	require.NoError(t, err)
	resp, err := f.services.Students.Create(context.Background(), &dto.CreateStudentRequest{
		FirstName: first, LastName: "Doe", Email: email, DateOfBirth: dob,
	})
	require.NoError(t, err)
	return resp
}
