package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/sectionhub/internal/app/models/dto"
	"github.com/yigit/sectionhub/internal/app/services"
	"github.com/yigit/sectionhub/internal/middleware"
	"github.com/yigit/sectionhub/internal/pkg/helpers"
)

// StudentController handles student and enrollment endpoints
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// List returns one page of students, optionally searched or filtered by section
// @Summary List students
// @Description Paginated list. search matches first name, last name or email; section_id filters by enrollment.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param offset query int false "Rows to skip" default(0)
// @Param limit query int false "Page size (1-100)" default(10)
// @Param sort_by query string false "Sort column" default(id)
// @Param order query string false "asc or desc" default(asc)
// @Param search query string false "Case-insensitive substring"
// @Param section_id query int false "Only students enrolled in this section"
// @Success 200 {object} dto.PaginatedResponse[dto.StudentResponse]
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 422 {object} dto.ErrorResponse "Invalid query parameters"
// @Router /students [get]
func (c *StudentController) List(ctx *gin.Context) {
	var query dto.StudentListQuery
	if !middleware.BindQuery(ctx, &query) {
		return
	}

	page, err := c.studentService.List(ctx.Request.Context(), &query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

// Get returns a student with its sections
// @Summary Get student
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.StudentDetailResponse
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) Get(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	student, err := c.studentService.GetDetail(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, student)
}

// @Summary Create student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student data"
// @Success 201 {object} dto.StudentResponse
// @Failure 403 {object} dto.ErrorResponse "Administrator privileges required"
// @Failure 409 {object} dto.ErrorResponse "Student email already exists"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Router /students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, student)
}

// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.StudentResponse
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Student email already exists"
// @Failure 422 {object} dto.ErrorResponse "Validation error"
// @Router /students/{id} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, student)
}

// Delete removes a student together with its enrollments
// @Summary Delete student
// @Tags students
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 204 "Student deleted"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [delete]
func (c *StudentController) Delete(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.studentService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func enrollmentIDs(ctx *gin.Context) (studentID, sectionID int64, err error) {
	if studentID, err = helpers.ParseIDParam(ctx, "id"); err != nil {
		return 0, 0, err
	}
	if sectionID, err = helpers.ParseIDParam(ctx, "sectionId"); err != nil {
		return 0, 0, err
	}
	return studentID, sectionID, nil
}

// Enroll adds the student to a section. The body is optional; the date defaults to today.
// @Summary Enroll student in section
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param sectionId path int true "Section ID"
// @Param request body dto.EnrollmentRequest false "Optional enrollment date"
// @Success 201 {object} dto.StudentSectionInfo
// @Failure 404 {object} dto.ErrorResponse "Student or section not found"
// @Failure 422 {object} dto.ErrorResponse "Already enrolled, section full or invalid date"
// @Router /students/{id}/sections/{sectionId} [post]
func (c *StudentController) Enroll(ctx *gin.Context) {
	studentID, sectionID, err := enrollmentIDs(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.EnrollmentRequest
	if !middleware.BindOptionalJSON(ctx, &req) {
		return
	}
	date := dto.Today()
	if req.EnrollmentDate != nil {
		date = *req.EnrollmentDate
	}

	info, err := c.studentService.Enroll(ctx.Request.Context(), studentID, sectionID, date)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, info)
}

// @Summary Unenroll student from section
// @Tags enrollments
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param sectionId path int true "Section ID"
// @Success 204 "Student unenrolled"
// @Failure 404 {object} dto.ErrorResponse "Student or section not found"
// @Failure 422 {object} dto.ErrorResponse "Student not enrolled in section"
// @Router /students/{id}/sections/{sectionId} [delete]
func (c *StudentController) Unenroll(ctx *gin.Context) {
	studentID, sectionID, err := enrollmentIDs(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.studentService.Unenroll(ctx.Request.Context(), studentID, sectionID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
