package dto

import (
	"time"

	"github.com/yigit/sectionhub/internal/app/models"
)

// CreateStudentRequest represents the data needed to create a student
type CreateStudentRequest struct {
	FirstName   string `json:"first_name" binding:"required,min=1,max=100"`
	LastName    string `json:"last_name" binding:"required,min=1,max=100"`
	Email       string `json:"email" binding:"required,email,max=255"`
	DateOfBirth Date   `json:"date_of_birth" binding:"required,student_age"`
}

// UpdateStudentRequest carries only the fields the caller wants to change
type UpdateStudentRequest struct {
	FirstName   *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName    *string `json:"last_name" binding:"omitempty,min=1,max=100"`
	Email       *string `json:"email" binding:"omitempty,email,max=255"`
	DateOfBirth *Date   `json:"date_of_birth" binding:"omitempty,student_age"`
}

// EnrollmentRequest is the optional body of an enrollment call
type EnrollmentRequest struct {
	EnrollmentDate *Date `json:"enrollment_date" binding:"omitempty,not_future"`
}

// StudentListQuery filters the student list. Search wins over SectionID.
type StudentListQuery struct {
	ListQuery
	Search    string `form:"search" json:"search" binding:"max=100"`
	SectionID *int64 `form:"section_id" json:"section_id" binding:"omitempty,gte=1"`
}

// StudentResponse represents a student
type StudentResponse struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	DateOfBirth Date      `json:"date_of_birth"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StudentSectionInfo is one enrollment of a student
type StudentSectionInfo struct {
	SectionID      int64  `json:"section_id"`
	SectionName    string `json:"section_name"`
	EnrollmentDate Date   `json:"enrollment_date"`
}

// StudentDetailResponse adds the student's enrollments
type StudentDetailResponse struct {
	StudentResponse
	Sections []StudentSectionInfo `json:"sections"`
}

// NewStudentResponse maps a student record
func NewStudentResponse(student *models.Student) StudentResponse {
	return StudentResponse{
		ID:          student.ID,
		FirstName:   student.FirstName,
		LastName:    student.LastName,
		FullName:    student.FullName(),
		Email:       student.Email,
		DateOfBirth: NewDate(student.DateOfBirth),
		CreatedAt:   student.CreatedAt,
		UpdatedAt:   student.UpdatedAt,
	}
}

// NewStudentSectionInfo maps one enrollment seen from the student side
func NewStudentSectionInfo(e models.StudentEnrollment) StudentSectionInfo {
	return StudentSectionInfo{
		SectionID:      e.SectionID,
		SectionName:    e.SectionName,
		EnrollmentDate: NewDate(e.EnrollmentDate),
	}
}

// NewStudentDetailResponse maps a student together with its enrollments
func NewStudentDetailResponse(student *models.Student, enrollments []models.StudentEnrollment) StudentDetailResponse {
	sections := make([]StudentSectionInfo, 0, len(enrollments))
	for _, e := range enrollments {
		sections = append(sections, NewStudentSectionInfo(e))
	}
	return StudentDetailResponse{
		StudentResponse: NewStudentResponse(student),
		Sections:        sections,
	}
}
