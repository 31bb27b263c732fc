package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/sectionhub/internal/app/models/dto"
	"github.com/yigit/sectionhub/internal/app/repositories"
	"github.com/yigit/sectionhub/internal/pkg/auth"
)

// Services defined in this package:
// - AuthService: registration, login, token verification and password changes
// - RoleService: role listing and guarded deletion
// - StudentService: student CRUD plus enrollment into sections
// - SectionService: section CRUD with live capacity figures
type Services struct {
	Auth     AuthService
	Roles    RoleService
	Students StudentService
	Sections SectionService
}

// NewServices wires every service against the same repositories
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, logger zerolog.Logger) *Services {
	return &Services{
		Auth:     NewAuthService(repos.Users, repos.Roles, jwtService, logger),
		Roles:    NewRoleService(repos.Roles, repos.Users),
		Students: NewStudentService(repos.Students, repos.Sections, repos.Enrollments, logger),
		Sections: NewSectionService(repos.Sections, logger),
	}
}

func toListParams(q dto.ListQuery) repositories.ListParams {
	order := repositories.SortAsc
	if q.Order == string(repositories.SortDesc) {
		order = repositories.SortDesc
	}
	return repositories.ListParams{
		Offset: q.Offset,
		Limit:  q.Limit,
		SortBy: q.SortBy,
		Order:  order,
	}
}
