package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/sectionhub/internal/app/services"
	"github.com/yigit/sectionhub/internal/middleware"
	"github.com/yigit/sectionhub/internal/pkg/helpers"
)

// RoleController handles role endpoints
type RoleController struct {
	roleService services.RoleService
}

// NewRoleController creates a new RoleController
func NewRoleController(roleService services.RoleService) *RoleController {
	return &RoleController{roleService: roleService}
}

// List returns every role
// @Summary List roles
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.RoleResponse
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 403 {object} dto.ErrorResponse "Administrator privileges required"
// @Router /roles [get]
func (c *RoleController) List(ctx *gin.Context) {
	roles, err := c.roleService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, roles)
}

// @Summary Get role
// @Tags roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} dto.RoleResponse
// @Failure 403 {object} dto.ErrorResponse "Administrator privileges required"
// @Failure 404 {object} dto.ErrorResponse "Role not found"
// @Router /roles/{id} [get]
func (c *RoleController) Get(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	role, err := c.roleService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, role)
}

// Delete removes a custom role that no user holds
// @Summary Delete role
// @Tags roles
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 204 "Role deleted"
// @Failure 403 {object} dto.ErrorResponse "Administrator privileges required"
// @Failure 404 {object} dto.ErrorResponse "Role not found"
// @Failure 422 {object} dto.ErrorResponse "Built-in role or role still assigned to users"
// @Router /roles/{id} [delete]
func (c *RoleController) Delete(ctx *gin.Context) {
	id, err := helpers.ParseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.roleService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
