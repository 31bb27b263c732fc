package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID          int64     `json:"id" db:"id"`
	FirstName   string    `json:"first_name" db:"first_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	Email       string    `json:"email" db:"email"`
	DateOfBirth time.Time `json:"date_of_birth" db:"date_of_birth"`
	Timestamps
}

// FullName joins first and last name
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentCreate holds the columns written when inserting a student
type StudentCreate struct {
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth time.Time
}

// StudentUpdate holds the columns a partial student update may change
type StudentUpdate struct {
	FirstName   *string
	LastName    *string
	Email       *string
	DateOfBirth *time.Time
}
