package models

import "time"

// Enrollment links one student to one section ('student_sections' table)
type Enrollment struct {
	StudentID      int64     `json:"student_id" db:"student_id"`
	SectionID      int64     `json:"section_id" db:"section_id"`
	EnrollmentDate time.Time `json:"enrollment_date" db:"enrollment_date"`
	Timestamps
}

// StudentEnrollment is an enrollment seen from the student side
type StudentEnrollment struct {
	SectionID      int64
	SectionName    string
	EnrollmentDate time.Time
}

// SectionEnrollment is an enrollment seen from the section side
type SectionEnrollment struct {
	StudentID      int64
	FirstName      string
	LastName       string
	Email          string
	EnrollmentDate time.Time
}
