package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/sectionhub/internal/app/models"
	"github.com/yigit/sectionhub/internal/db"
	"github.com/yigit/sectionhub/internal/pkg/dberrors"
	"github.com/yigit/sectionhub/internal/pkg/logger"
)

var roleColumns = []string{"id", "name", "description", "created_at", "updated_at"}

var roleSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// PgRoleRepository handles role database operations
type PgRoleRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewRoleRepository creates a new PgRoleRepository
func NewRoleRepository(database *db.PostgresDB) *PgRoleRepository {
	return &PgRoleRepository{db: database, sb: newStatementBuilder()}
}

func scanRole(row rowScanner) (*models.Role, error) {
	role := &models.Role{}
	var name string
	if err := row.Scan(&role.ID, &name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return nil, err
	}
	role.Name = models.RoleName(name)
	return role, nil
}

func (r *PgRoleRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Role, error) {
	sql, args, err := r.sb.Select(roleColumns...).From("roles").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get role query: %w", err)
	}

	role, err := scanRole(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning role row")
		return nil, fmt.Errorf("error getting role: %w", err)
	}
	return role, nil
}

// GetByID retrieves a role by ID
func (r *PgRoleRepository) GetByID(ctx context.Context, id int64) (*models.Role, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByName retrieves a role by its unique name
func (r *PgRoleRepository) GetByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	return r.getOne(ctx, squirrel.Eq{"name": string(name)})
}

// List retrieves one page of roles
func (r *PgRoleRepository) List(ctx context.Context, params ListParams) ([]*models.Role, error) {
	builder := paginate(r.sb.Select(roleColumns...).From("roles"), params, roleSortColumns, "id")
	roles, err := collect(ctx, r.db.Pool, builder, scanRole)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing roles")
		return nil, err
	}
	return roles, nil
}

// Count returns the number of roles
func (r *PgRoleRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db.Pool, r.sb.Select("COUNT(*)").From("roles"))
}

// Create inserts a role
func (r *PgRoleRepository) Create(ctx context.Context, in models.RoleCreate) (*models.Role, error) {
	sql, args, err := r.sb.Insert("roles").
		Columns("name", "description").
		Values(string(in.Name), in.Description).
		Suffix("RETURNING " + joinColumns(roleColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create role query: %w", err)
	}

	role, err := scanRole(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		logger.Error().Err(err).Str("name", string(in.Name)).Msg("Error creating role")
		return nil, fmt.Errorf("error creating role: %w", err)
	}
	return role, nil
}

func roleUpdateFields(in models.RoleUpdate) map[string]interface{} {
	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = string(*in.Name)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	return withUpdatedAt(fields)
}

// Update changes the provided role fields
func (r *PgRoleRepository) Update(ctx context.Context, id int64, in models.RoleUpdate) (*models.Role, error) {
	sql, args, err := r.sb.Update("roles").
		SetMap(roleUpdateFields(in)).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(roleColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update role query: %w", err)
	}

	role, err := scanRole(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, ErrNotFound
		case dberrors.IsUniqueViolation(err):
			return nil, ErrAlreadyExists
		}
		logger.Error().Err(err).Int64("roleID", id).Msg("Error updating role")
		return nil, fmt.Errorf("error updating role: %w", err)
	}
	return role, nil
}

// Delete removes a role. Roles still referenced by users are rejected by the
// ON DELETE RESTRICT foreign key and reported as ErrRoleInUse.
func (r *PgRoleRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("roles").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete role query: %w", err)
	}

	tag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return ErrRoleInUse
		}
		logger.Error().Err(err).Int64("roleID", id).Msg("Error deleting role")
		return fmt.Errorf("error deleting role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
