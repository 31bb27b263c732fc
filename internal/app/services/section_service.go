package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/sectionhub/internal/app/models"
	"github.com/yigit/sectionhub/internal/app/models/dto"
	"github.com/yigit/sectionhub/internal/app/repositories"
	"github.com/yigit/sectionhub/internal/pkg/apperrors"
)

// SectionService defines the interface for section operations.
// Every response carries current_enrollment, is_full and available_spots computed from live counts.
type SectionService interface {
	Create(ctx context.Context, req *dto.CreateSectionRequest) (*dto.SectionResponse, error)
	Get(ctx context.Context, id int64) (*dto.SectionResponse, error)
	GetDetail(ctx context.Context, id int64) (*dto.SectionDetailResponse, error)
	List(ctx context.Context, query *dto.SectionListQuery) (*dto.PaginatedResponse[dto.SectionResponse], error)
	Update(ctx context.Context, id int64, req *dto.UpdateSectionRequest) (*dto.SectionResponse, error)
	Delete(ctx context.Context, id int64) error
}

type sectionServiceImpl struct {
	sectionRepo repositories.SectionRepository
	logger      zerolog.Logger
}

// NewSectionService creates a new SectionService
func NewSectionService(sectionRepo repositories.SectionRepository, logger zerolog.Logger) SectionService {
	return &sectionServiceImpl{sectionRepo: sectionRepo, logger: logger}
}

func (s *sectionServiceImpl) getSection(ctx context.Context, id int64) (*models.Section, error) {
	section, err := s.sectionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Section", id)
		}
		return nil, fmt.Errorf("error loading section: %w", err)
	}
	return section, nil
}

func (s *sectionServiceImpl) withCount(ctx context.Context, section *models.Section) (*dto.SectionResponse, error) {
	count, err := s.sectionRepo.CountStudents(ctx, section.ID)
	if err != nil {
		return nil, fmt.Errorf("error counting section students: %w", err)
	}
	resp := dto.NewSectionResponse(section, count)
	return &resp, nil
}

func (s *sectionServiceImpl) Create(ctx context.Context, req *dto.CreateSectionRequest) (*dto.SectionResponse, error) {
	capacity := models.DefaultSectionCapacity
	if req.MaxCapacity != nil {
		capacity = *req.MaxCapacity
	}

	section, err := s.sectionRepo.Create(ctx, models.SectionCreate{
		Name:        req.Name,
		Description: req.Description,
		MaxCapacity: capacity,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrAlreadyExists) {
			return nil, apperrors.NewAlreadyExistsError("Section", "name", req.Name)
		}
		return nil, fmt.Errorf("error creating section: %w", err)
	}

	s.logger.Info().Int64("sectionID", section.ID).Int("maxCapacity", capacity).Msg("Section created")
	resp := dto.NewSectionResponse(section, 0)
	return &resp, nil
}

func (s *sectionServiceImpl) Get(ctx context.Context, id int64) (*dto.SectionResponse, error) {
	section, err := s.getSection(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withCount(ctx, section)
}

// GetDetail returns the section with its enrolled students
func (s *sectionServiceImpl) GetDetail(ctx context.Context, id int64) (*dto.SectionDetailResponse, error) {
	section, err := s.getSection(ctx, id)
	if err != nil {
		return nil, err
	}
	students, err := s.sectionRepo.Students(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading section students: %w", err)
	}
	resp := dto.NewSectionDetailResponse(section, students)
	return &resp, nil
}

// List pages through sections. A search term takes precedence over available_only.
// Enrollment counts for the page come from one grouped query.
func (s *sectionServiceImpl) List(ctx context.Context, query *dto.SectionListQuery) (*dto.PaginatedResponse[dto.SectionResponse], error) {
	params := toListParams(query.ListQuery)

	var (
		sections []*models.Section
		total    int64
		err      error
	)
	switch {
	case query.Search != "":
		if sections, err = s.sectionRepo.Search(ctx, query.Search, params); err == nil {
			total, err = s.sectionRepo.CountSearch(ctx, query.Search)
		}
	case query.AvailableOnly:
		if sections, err = s.sectionRepo.ListAvailable(ctx, params); err == nil {
			total, err = s.sectionRepo.CountAvailable(ctx)
		}
	default:
		if sections, err = s.sectionRepo.List(ctx, params); err == nil {
			total, err = s.sectionRepo.Count(ctx)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("error listing sections: %w", err)
	}

	ids := make([]int64, 0, len(sections))
	for _, section := range sections {
		ids = append(ids, section.ID)
	}
	counts, err := s.sectionRepo.CountStudentsBySections(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error counting section students: %w", err)
	}

	items := make([]dto.SectionResponse, 0, len(sections))
	for _, section := range sections {
		items = append(items, dto.NewSectionResponse(section, counts[section.ID]))
	}
	page := dto.NewPaginatedResponse(items, total, query.ListQuery)
	return &page, nil
}

func capacityBelowEnrollment(capacity, current int) error {
	return apperrors.NewValidationError("Cannot set max_capacity to %d. Current enrollment is %d", capacity, current)
}

// Update applies only the provided fields. Capacity may not drop below the current enrollment.
func (s *sectionServiceImpl) Update(ctx context.Context, id int64, req *dto.UpdateSectionRequest) (*dto.SectionResponse, error) {
	if _, err := s.getSection(ctx, id); err != nil {
		return nil, err
	}

	if req.Name != nil {
		other, err := s.sectionRepo.GetByName(ctx, *req.Name)
		switch {
		case err == nil && other.ID != id:
			return nil, apperrors.NewAlreadyExistsError("Section", "name", *req.Name)
		case err != nil && !errors.Is(err, repositories.ErrNotFound):
			return nil, fmt.Errorf("error checking section name: %w", err)
		}
	}

	if req.MaxCapacity != nil {
		current, err := s.sectionRepo.CountStudents(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("error counting section students: %w", err)
		}
		if *req.MaxCapacity < current {
			return nil, capacityBelowEnrollment(*req.MaxCapacity, current)
		}
	}

	update := models.SectionUpdate{
		Name:        req.Name,
		MaxCapacity: req.MaxCapacity,
	}
	if req.Description.Set {
		update.Description = req.Description.Value
		update.ClearDescription = req.Description.IsNull()
	}

	section, err := s.sectionRepo.Update(ctx, id, update)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, apperrors.NewNotFoundError("Section", id)
		case errors.Is(err, repositories.ErrAlreadyExists):
			return nil, apperrors.NewAlreadyExistsError("Section", "name", *req.Name)
		case errors.Is(err, repositories.ErrCapacityBelowEnrollment):
			current, countErr := s.sectionRepo.CountStudents(ctx, id)
			if countErr != nil {
				return nil, fmt.Errorf("error counting section students: %w", countErr)
			}
			return nil, capacityBelowEnrollment(*req.MaxCapacity, current)
		}
		return nil, fmt.Errorf("error updating section: %w", err)
	}
	return s.withCount(ctx, section)
}

func sectionNotEmpty(section *models.Section, count int) error {
	return apperrors.NewValidationError(
		"Cannot delete section '%s'. It has %d enrolled students. Please unenroll all students first.",
		section.Name, count,
	)
}

// Delete removes a section that has no enrolled students
func (s *sectionServiceImpl) Delete(ctx context.Context, id int64) error {
	section, err := s.getSection(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.sectionRepo.CountStudents(ctx, id)
	if err != nil {
		return fmt.Errorf("error counting section students: %w", err)
	}
	if count > 0 {
		return sectionNotEmpty(section, count)
	}

	if err := s.sectionRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return apperrors.NewNotFoundError("Section", id)
		case errors.Is(err, repositories.ErrSectionHasEnrollments):
			count, countErr := s.sectionRepo.CountStudents(ctx, id)
			if countErr != nil {
				return fmt.Errorf("error counting section students: %w", countErr)
			}
			return sectionNotEmpty(section, count)
		}
		return fmt.Errorf("error deleting section: %w", err)
	}

	s.logger.Info().Int64("sectionID", id).Msg("Section deleted")
	return nil
}
