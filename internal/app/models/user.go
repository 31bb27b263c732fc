package models

// User defines the user model based on the 'users' table.
// Role is resolved by join whenever a user is loaded.
type User struct {
	ID             int64  `json:"id" db:"id"`
	Email          string `json:"email" db:"email"`
	HashedPassword string `json:"-" db:"hashed_password"`
	FullName       string `json:"full_name" db:"full_name"`
	IsActive       bool   `json:"is_active" db:"is_active"`
	RoleID         int64  `json:"role_id" db:"role_id"`
	Role           Role   `json:"role"`
	Timestamps
}

// IsAdmin delegates to the user's role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role.IsAdmin()
}

// UserCreate holds the columns written when inserting a user
type UserCreate struct {
	Email          string
	HashedPassword string
	FullName       string
	RoleID         int64
	IsActive       bool
}

// UserUpdate holds the columns a partial user update may change
type UserUpdate struct {
	Email          *string
	HashedPassword *string
	FullName       *string
	RoleID         *int64
	IsActive       *bool
}
