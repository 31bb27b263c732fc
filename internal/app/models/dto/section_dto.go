package dto

import (
	"time"

	"github.com/yigit/sectionhub/internal/app/models"
)

// CreateSectionRequest represents the data needed to create a section
type CreateSectionRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	MaxCapacity *int    `json:"max_capacity" binding:"omitempty,gte=1,lte=100"`
}

// UpdateSectionRequest carries only the fields the caller wants to change.
// An explicit "description": null clears the description.
type UpdateSectionRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description Optional[string] `json:"description" binding:"omitempty,max=2000" swaggertype:"string"`
	MaxCapacity *int             `json:"max_capacity" binding:"omitempty,gte=1,lte=100"`
}

// SectionListQuery filters the section list. Search wins over AvailableOnly.
type SectionListQuery struct {
	ListQuery
	Search        string `form:"search" json:"search" binding:"max=100"`
	AvailableOnly bool   `form:"available_only" json:"available_only"`
}

// SectionResponse represents a section with its derived capacity fields
type SectionResponse struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Description       *string   `json:"description"`
	MaxCapacity       int       `json:"max_capacity"`
	CurrentEnrollment int       `json:"current_enrollment"`
	IsFull            bool      `json:"is_full"`
	AvailableSpots    int       `json:"available_spots"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SectionStudentInfo is one enrolled student of a section
type SectionStudentInfo struct {
	StudentID      int64  `json:"student_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	EnrollmentDate Date   `json:"enrollment_date"`
}

// SectionDetailResponse adds the enrolled students
type SectionDetailResponse struct {
	SectionResponse
	Students []SectionStudentInfo `json:"students"`
}

// NewSectionResponse derives the capacity fields from a precomputed enrollment count
func NewSectionResponse(section *models.Section, currentEnrollment int) SectionResponse {
	available := section.MaxCapacity - currentEnrollment
	if available < 0 {
		available = 0
	}
	return SectionResponse{
		ID:                section.ID,
		Name:              section.Name,
		Description:       section.Description,
		MaxCapacity:       section.MaxCapacity,
		CurrentEnrollment: currentEnrollment,
		IsFull:            currentEnrollment >= section.MaxCapacity,
		AvailableSpots:    available,
		CreatedAt:         section.CreatedAt,
		UpdatedAt:         section.UpdatedAt,
	}
}

// NewSectionDetailResponse maps a section with its enrolled students.
// The enrollment count is taken from the student list.
func NewSectionDetailResponse(section *models.Section, enrollments []models.SectionEnrollment) SectionDetailResponse {
	students := make([]SectionStudentInfo, 0, len(enrollments))
	for _, e := range enrollments {
		students = append(students, SectionStudentInfo{
			StudentID:      e.StudentID,
			FirstName:      e.FirstName,
			LastName:       e.LastName,
			Email:          e.Email,
			EnrollmentDate: NewDate(e.EnrollmentDate),
		})
	}
	return SectionDetailResponse{
		SectionResponse: NewSectionResponse(section, len(enrollments)),
		Students:        students,
	}
}
