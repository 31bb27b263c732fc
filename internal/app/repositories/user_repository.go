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

var userColumns = []string{"id", "email", "hashed_password", "full_name", "is_active", "role_id", "created_at", "updated_at"}

var userSortColumns = map[string]string{
	"id":         "u.id",
	"email":      "u.email",
	"full_name":  "u.full_name",
	"is_active":  "u.is_active",
	"created_at": "u.created_at",
	"updated_at": "u.updated_at",
}

// PgUserRepository handles user database operations
type PgUserRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new PgUserRepository
func NewUserRepository(database *db.PostgresDB) *PgUserRepository {
	return &PgUserRepository{db: database, sb: newStatementBuilder()}
}

// selectUsers selects users joined with their role
func (r *PgUserRepository) selectUsers() squirrel.SelectBuilder {
	columns := append(qualify("u", userColumns), qualify("r", roleColumns)...)
	return r.sb.Select(columns...).From("users u").Join("roles r ON r.id = u.role_id")
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var roleName string
	err := row.Scan(
		&user.ID, &user.Email, &user.HashedPassword, &user.FullName, &user.IsActive, &user.RoleID,
		&user.CreatedAt, &user.UpdatedAt,
		&user.Role.ID, &roleName, &user.Role.Description, &user.Role.CreatedAt, &user.Role.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role.Name = models.RoleName(roleName)
	return user, nil
}

func (r *PgUserRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	sql, args, err := r.selectUsers().Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *PgUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.id": id})
}

// GetByEmail retrieves a user by email
func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.email": email})
}

// ExistsByEmail checks whether an email is taken
func (r *PgUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		logger.Error().Err(err).Msg("Error checking user email")
		return false, fmt.Errorf("error checking user email: %w", err)
	}
	return exists, nil
}

// CountByRole returns how many users reference a role
func (r *PgUserRepository) CountByRole(ctx context.Context, roleID int64) (int64, error) {
	return countRows(ctx, r.db.Pool, r.sb.Select("COUNT(*)").From("users").Where(squirrel.Eq{"role_id": roleID}))
}

// List retrieves one page of users
func (r *PgUserRepository) List(ctx context.Context, params ListParams) ([]*models.User, error) {
	users, err := collect(ctx, r.db.Pool, paginate(r.selectUsers(), params, userSortColumns, "u.id"), scanUser)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing users")
		return nil, err
	}
	return users, nil
}

// Count returns the number of users
func (r *PgUserRepository) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db.Pool, r.sb.Select("COUNT(*)").From("users"))
}

// Create inserts a user and returns it with its role
func (r *PgUserRepository) Create(ctx context.Context, in models.UserCreate) (*models.User, error) {
	sql, args, err := r.sb.Insert("users").
		Columns("email", "hashed_password", "full_name", "is_active", "role_id").
		Values(in.Email, in.HashedPassword, in.FullName, in.IsActive, in.RoleID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		switch {
		case dberrors.IsUniqueViolation(err):
			return nil, ErrAlreadyExists
		case dberrors.IsForeignKeyViolation(err):
			return nil, ErrInvalidReference
		}
		logger.Error().Err(err).Msg("Error creating user")
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return r.GetByID(ctx, id)
}

func userUpdateFields(in models.UserUpdate) map[string]interface{} {
	fields := map[string]interface{}{}
	if in.Email != nil {
		fields["email"] = *in.Email
	}
	if in.HashedPassword != nil {
		fields["hashed_password"] = *in.HashedPassword
	}
	if in.FullName != nil {
		fields["full_name"] = *in.FullName
	}
	if in.RoleID != nil {
		fields["role_id"] = *in.RoleID
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	return withUpdatedAt(fields)
}

// Update changes the provided user fields
func (r *PgUserRepository) Update(ctx context.Context, id int64, in models.UserUpdate) (*models.User, error) {
	sql, args, err := r.sb.Update("users").
		SetMap(userUpdateFields(in)).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update user query: %w", err)
	}

	var updatedID int64
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&updatedID); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, ErrNotFound
		case dberrors.IsUniqueViolation(err):
			return nil, ErrAlreadyExists
		case dberrors.IsForeignKeyViolation(err):
			return nil, ErrInvalidReference
		}
		logger.Error().Err(err).Int64("userID", id).Msg("Error updating user")
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return r.GetByID(ctx, updatedID)
}

// Delete removes a user
func (r *PgUserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Int64("userID", id).Msg("Error deleting user")
		return fmt.Errorf("error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
