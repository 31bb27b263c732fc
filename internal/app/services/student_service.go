package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/sectionhub/internal/app/models"
	"github.com/yigit/sectionhub/internal/app/models/dto"
	"github.com/yigit/sectionhub/internal/app/repositories"
	"github.com/yigit/sectionhub/internal/pkg/apperrors"
	"github.com/yigit/sectionhub/internal/pkg/metrics"
)

// StudentService defines the interface for student and enrollment operations
type StudentService interface {
	Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error)
	Get(ctx context.Context, id int64) (*dto.StudentResponse, error)
	GetDetail(ctx context.Context, id int64) (*dto.StudentDetailResponse, error)
	List(ctx context.Context, query *dto.StudentListQuery) (*dto.PaginatedResponse[dto.StudentResponse], error)
	Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error)
	Delete(ctx context.Context, id int64) error
	// Enroll adds the student to the section when both exist, the pair is new and a seat is free
	Enroll(ctx context.Context, studentID, sectionID int64, enrollmentDate dto.Date) (*dto.StudentSectionInfo, error)
	Unenroll(ctx context.Context, studentID, sectionID int64) error
}

type studentServiceImpl struct {
	studentRepo    repositories.StudentRepository
	sectionRepo    repositories.SectionRepository
	enrollmentRepo repositories.EnrollmentRepository
	logger         zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo repositories.StudentRepository,
	sectionRepo repositories.SectionRepository,
	enrollmentRepo repositories.EnrollmentRepository,
	logger zerolog.Logger,
) StudentService {
	return &studentServiceImpl{
		studentRepo:    studentRepo,
		sectionRepo:    sectionRepo,
		enrollmentRepo: enrollmentRepo,
		logger:         logger,
	}
}

func (s *studentServiceImpl) getStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Student", id)
		}
		return nil, fmt.Errorf("error loading student: %w", err)
	}
	return student, nil
}

func (s *studentServiceImpl) getSection(ctx context.Context, id int64) (*models.Section, error) {
	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Section", id)
		}
		return nil, fmt.Errorf("error loading section: %w", err)
	}
	return section, nil
}

func (s *studentServiceImpl) Create(ctx context.Context, req *dto.CreateStudentRequest) (*dto.StudentResponse, error) {
	student, err := s.studentRepo.Create(ctx, models.StudentCreate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		DateOfBirth: req.DateOfBirth.Time(),
	})
	if err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return nil, apperrors.NewAlreadyExistsError("Student", "email", req.Email)
		}
		return nil, fmt.Errorf("error creating student: %w", err)
	}

	s.logger.Info().Int64("studentID", student.ID).Msg("Student created")
	resp := dto.NewStudentResponse(student)
	return &resp, nil
}

func (s *studentServiceImpl) Get(ctx context.Context, id int64) (*dto.StudentResponse, error) {
	student, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewStudentResponse(student)
	return &resp, nil
}

// GetDetail returns the student with every section it is enrolled in
func (s *studentServiceImpl) GetDetail(ctx context.Context, id int64) (*dto.StudentDetailResponse, error) {
	student, err := s.getStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.studentRepo.Enrollments(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading student enrollments: %w", err)
	}
	resp := dto.NewStudentDetailResponse(student, enrollments)
	return &resp, nil
}

// List pages through students. A search term takes precedence over the section filter.
func (s *studentServiceImpl) List(ctx context.Context, query *dto.StudentListQuery) (*dto.PaginatedResponse[dto.StudentResponse], error) {
	params := toListParams(query.ListQuery)

	var (
		students []*models.Student
		total    int64
		err      error
	)
	switch {
	case query.Search != "":
		if students, err = s.studentRepo.Search(ctx, query.Search, params); err == nil {
			total, err = s.studentRepo.CountSearch(ctx, query.Search)
		}
	case query.SectionID != nil:
		if students, err = s.studentRepo.ListBySection(ctx, *query.SectionID, params); err == nil {
			total, err = s.studentRepo.CountBySection(ctx, *query.SectionID)
		}
	default:
		if students, err = s.studentRepo.List(ctx, params); err == nil {
			total, err = s.studentRepo.Count(ctx)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}

	items := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		items = append(items, dto.NewStudentResponse(student))
	}
	page := dto.NewPaginatedResponse(items, total, query.ListQuery)
	return &page, nil
}

// Update applies only the provided fields
func (s *studentServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*dto.StudentResponse, error) {
	if _, err := s.getStudent(ctx, id); err != nil {
		return nil, err
	}

	if req.Email != nil {
		other, err := s.studentRepo.GetByEmail(ctx, *req.Email)
		switch {
		case err == nil && other.ID != id:
			return nil, apperrors.NewAlreadyExistsError("Student", "email", *req.Email)
		case err != nil && !errors.Is(err, repositories.ErrNotFound):
			return nil, fmt.Errorf("error checking student email: %w", err)
		}
	}

	update := models.StudentUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if req.DateOfBirth != nil {
		dob := req.DateOfBirth.Time()
		update.DateOfBirth = &dob
	}

	student, err := s.studentRepo.Update(ctx, id, update)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.NewNotFoundError("Student", id)
		case errors.Is(err, repositories.ErrAlreadyExists):
			return nil, apperrors.NewAlreadyExistsError("Student", "email", *req.Email)
		}
		return nil, fmt.Errorf("error updating student: %w", err)
	}
	resp := dto.NewStudentResponse(student)
	return &resp, nil
}

// Delete removes the student and its enrollments
func (s *studentServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NewNotFoundError("Student", id)
		}
		return fmt.Errorf("error deleting student: %w", err)
	}
	s.logger.Info().Int64("studentID", id).Msg("Student deleted")
	return nil
}

func alreadyEnrolled(studentID, sectionID int64) error {
	return apperrors.NewValidationError("Student %d is already enrolled in section %d", studentID, sectionID)
}

func sectionFull(section *models.Section) error {
	return apperrors.NewValidationError("Section '%s' is full (capacity: %d)", section.Name, section.MaxCapacity)
}

// Enroll checks existence, duplicate and capacity in that order, then inserts.
// The repository repeats the duplicate and capacity checks under a section lock.
func (s *studentServiceImpl) Enroll(ctx context.Context, studentID, sectionID int64, enrollmentDate dto.Date) (*dto.StudentSectionInfo, error) {
	info, result, err := s.enroll(ctx, studentID, sectionID, enrollmentDate)
	metrics.RecordEnrollment(result)
	return info, err
}

func (s *studentServiceImpl) enroll(ctx context.Context, studentID, sectionID int64, enrollmentDate dto.Date) (*dto.StudentSectionInfo, string, error) {
	if _, err := s.getStudent(ctx, studentID); err != nil {
		return nil, enrollmentFailure(err), err
	}
	section, err := s.getSection(ctx, sectionID)
	if err != nil {
		return nil, enrollmentFailure(err), err
	}

	enrolled, err := s.enrollmentRepo.IsEnrolled(ctx, studentID, sectionID)
	if err != nil {
		return nil, metrics.EnrollmentFailed, fmt.Errorf("error checking enrollment: %w", err)
	}
	if enrolled {
		return nil, metrics.EnrollmentDuplicate, alreadyEnrolled(studentID, sectionID)
	}

	count, err := s.sectionRepo.CountStudents(ctx, sectionID)
	if err != nil {
		return nil, metrics.EnrollmentFailed, fmt.Errorf("error counting section students: %w", err)
	}
	if count >= section.MaxCapacity {
		return nil, metrics.EnrollmentFull, sectionFull(section)
	}

	if time.Time(enrollmentDate).IsZero() {
		enrollmentDate = dto.Today()
	}
	enrollment, err := s.enrollmentRepo.Enroll(ctx, models.Enrollment{
		StudentID:      studentID,
		SectionID:      sectionID,
		EnrollmentDate: enrollmentDate.Time(),
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrAlreadyEnrolled):
			return nil, metrics.EnrollmentDuplicate, alreadyEnrolled(studentID, sectionID)
		case errors.Is(err, repositories.ErrSectionFull):
			return nil, metrics.EnrollmentFull, sectionFull(section)
		case errors.Is(err, repositories.ErrNotFound):
			return nil, metrics.EnrollmentNotFound, apperrors.NewNotFoundError("Section", sectionID)
		}
		return nil, metrics.EnrollmentFailed, fmt.Errorf("error creating enrollment: %w", err)
	}

	s.logger.Info().Int64("studentID", studentID).Int64("sectionID", sectionID).Msg("Student enrolled")
	info := dto.NewStudentSectionInfo(models.StudentEnrollment{
		SectionID:      section.ID,
		SectionName:    section.Name,
		EnrollmentDate: enrollment.EnrollmentDate,
	})
	return &info, metrics.EnrollmentSucceeded, nil
}

func enrollmentFailure(err error) string {
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return metrics.EnrollmentNotFound
	}
	return metrics.EnrollmentFailed
}

// Unenroll removes the student from the section
func (s *studentServiceImpl) Unenroll(ctx context.Context, studentID, sectionID int64) error {
	if _, err := s.getStudent(ctx, studentID); err != nil {
		return err
	}
	if _, err := s.getSection(ctx, sectionID); err != nil {
		return err
	}

	if err := s.enrollmentRepo.Unenroll(ctx, studentID, sectionID); err != nil {
		if errors.Is(err, repositories.ErrNotEnrolled) {
			return apperrors.NewValidationError("Student %d is not enrolled in section %d", studentID, sectionID)
		}
		return fmt.Errorf("error deleting enrollment: %w", err)
	}

	metrics.RecordEnrollment(metrics.EnrollmentUnenrolled)
	s.logger.Info().Int64("studentID", studentID).Int64("sectionID", sectionID).Msg("Student unenrolled")
	return nil
}
