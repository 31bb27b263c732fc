package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserIsAdmin(t *testing.T) {
	admin := &User{Role: Role{Name: RoleAdmin}}
	regular := &User{Role: Role{Name: RoleUser}}
	var missing *User

	assert.True(t, admin.IsAdmin())
	assert.False(t, regular.IsAdmin())
	assert.False(t, missing.IsAdmin())
}

func TestRoleIsBuiltIn(t *testing.T) {
	assert.True(t, Role{Name: RoleAdmin}.IsBuiltIn())
	assert.True(t, Role{Name: RoleUser}.IsBuiltIn())
	assert.False(t, Role{Name: "auditor"}.IsBuiltIn())
}

func TestStudentFullName(t *testing.T) {
	s := &Student{FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", s.FullName())
}
