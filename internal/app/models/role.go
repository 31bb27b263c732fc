package models

// Role defines the role model based on the 'roles' table
type Role struct {
	ID          int64    `json:"id" db:"id"`
	Name        RoleName `json:"name" db:"name"`
	Description *string  `json:"description,omitempty" db:"description"`
	Timestamps
}

// IsAdmin reports whether the role grants administrative access
func (r Role) IsAdmin() bool {
	return r.Name == RoleAdmin
}

// IsBuiltIn reports whether the role is one the application seeds itself
func (r Role) IsBuiltIn() bool {
	return r.Name == RoleAdmin || r.Name == RoleUser
}

// RoleCreate holds the columns written when inserting a role
type RoleCreate struct {
	Name        RoleName
	Description *string
}

// RoleUpdate holds the columns a partial role update may change
type RoleUpdate struct {
	Name        *RoleName
	Description *string
}
