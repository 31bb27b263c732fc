package validation

import (
	"time"
	"unicode"
)

// Field limits shared by request DTOs and services
const (
	PasswordMinLength = 8
	PasswordMaxLength = 100

	MinStudentAge = 15
	MaxStudentAge = 100
)

// IsStrongPassword requires at least one letter and one digit
func IsStrongPassword(password string) bool {
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
		if hasLetter && hasDigit {
			return true
		}
	}
	return false
}

// AgeOn returns the age in whole years of someone born on dob at the given day
func AgeOn(dob, on time.Time) int {
	age := on.Year() - dob.Year()
	if on.Month() < dob.Month() || (on.Month() == dob.Month() && on.Day() < dob.Day()) {
		age--
	}
	return age
}

// IsValidStudentAge checks the enrollment age window
func IsValidStudentAge(dob, now time.Time) bool {
	if dob.IsZero() || dob.After(now) {
		return false
	}
	age := AgeOn(dob, now)
	return age >= MinStudentAge && age <= MaxStudentAge
}

// IsNotInFuture compares calendar days only
func IsNotInFuture(day, now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	dy, dm, dd := day.Date()
	return !time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC).After(today)
}
