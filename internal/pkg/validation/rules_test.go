package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsStrongPassword(t *testing.T) {
	assert.True(t, IsStrongPassword("password1"))
	assert.True(t, IsStrongPassword("1a"))
	assert.False(t, IsStrongPassword("password"))
	assert.False(t, IsStrongPassword("12345678"))
	assert.False(t, IsStrongPassword(""))
}

func TestAgeOn(t *testing.T) {
	dob := day(2000, time.June, 15)
	assert.Equal(t, 23, AgeOn(dob, day(2024, time.June, 14)))
	assert.Equal(t, 24, AgeOn(dob, day(2024, time.June, 15)))
	assert.Equal(t, 24, AgeOn(dob, day(2024, time.December, 1)))
}

func TestIsValidStudentAge(t *testing.T) {
	now := day(2024, time.March, 10)

	tests := []struct {
		name string
		dob  time.Time
		want bool
	}{
		{"exactly fifteen", day(2009, time.March, 10), true},
		{"one day short of fifteen", day(2009, time.March, 11), false},
		{"hundred", day(1924, time.March, 10), true},
		{"hundred and one", day(1923, time.March, 9), false},
		{"future", day(2025, time.January, 1), false},
		{"zero", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidStudentAge(tt.dob, now))
		})
	}
}

func TestIsNotInFuture(t *testing.T) {
	now := time.Date(2024, time.March, 10, 18, 30, 0, 0, time.UTC)
	assert.True(t, IsNotInFuture(day(2024, time.March, 10), now))
	assert.True(t, IsNotInFuture(day(2023, time.March, 10), now))
	assert.False(t, IsNotInFuture(day(2024, time.March, 11), now))
}
