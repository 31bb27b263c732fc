package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/sectionhub/internal/app/models/dto"
	"github.com/yigit/sectionhub/internal/app/services"
	"github.com/yigit/sectionhub/internal/middleware"
	"github.com/yigit/sectionhub/internal/pkg/helpers"
)

// SectionController handles section endpoints
type SectionController struct {
	sectionService services.SectionService
}

// NewSectionController creates a new SectionController
func NewSectionController(sectionService services.SectionService) *SectionController {
	return &SectionController{sectionService: sectionService}
}

// List returns one page of sections with their capacity figures
// @Summary List sections
// @Description Paginated list with enrollment figures. search matches name or description; available_only hides full sections.
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Rows to skip" default(0)
// @Param limit query int false "Page size (1-100)" default(10)
// @Param sort_by query string false "Sort column" default(id)
// @Param order query string false "asc or desc" default(asc)
// @Param search query string false "Case-insensitive substring"
// @Param available_only query bool false "Only sections with free seats"
// @Success 200 {object} dto.PaginatedResponse[dto.SectionResponse]
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 422 {object} dto.ErrorResponse "Invalid query parameters"
// @Router /sections [get]
func (c *SectionController) List(ctx *gin.Context) {
	var query dto.SectionListQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	page, err := c.sectionService.List(ctx.Request.Context(), &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

// Get returns a section with its enrolled students
// @Summary Get section
// @Tags sections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID"
// @Success 200 {object} dto.SectionDetailResponse
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Router /sections/{id} [get]
func (c *SectionController) Get(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	section, err := c.sectionService.GetDetail(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, section)
}

// @Summary Create section
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSectionRequest true "Section data"
// @Success 201 {object} dto.SectionResponse
// @Failure 403 {object} dto.ErrorResponse "Administrator privileges required"
// @Failure 409 {object} dto.ErrorResponse "Section name already exists"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Router /sections [post]
func (c *SectionController) Create(ctx *gin.Context) {
	var req dto.CreateSectionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	section, err := c.sectionService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, section)
}

// @Summary Update section
// @Description Partial update. max_capacity cannot drop below the current enrollment.
// @Tags sections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID"
// @Param request body dto.UpdateSectionRequest true "Fields to change"
// @Success 200 {object} dto.SectionResponse
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Failure 409 {object} dto.ErrorResponse "Section name already exists"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Router /sections/{id} [put]
func (c *SectionController) Update(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateSectionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	section, err := c.sectionService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, section)
}

// @Summary Delete section
// @Description Only sections without enrolled students can be deleted
// @Tags sections
// @Security BearerAuth
// @Param id path int true "Section ID"
// @Success 204 "Section deleted"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Failure 422 {object} dto.ErrorResponse "Section has enrolled students"
// @Router /sections/{id} [delete]
func (c *SectionController) Delete(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.sectionService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
