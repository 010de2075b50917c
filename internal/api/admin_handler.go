package api

import (
	"fmt"
	"net/http"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the dashboard, provider controls and user role management.
type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type ReindexRequest struct {
	Mode string `json:"mode"`
}

type UpdateRoleRequest struct {
	Role domain.Role `json:"role" binding:"required,oneof=user admin"`
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ProviderStatus always answers 200; an unreachable provider shows up in the body.
func (h *AdminHandler) ProviderStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.adminService.ProviderStatus(c.Request.Context()))
}

// TriggerReindex runs the provider reindex synchronously. An empty body means a full reindex.
func (h *AdminHandler) TriggerReindex(c *gin.Context) {
	var req ReindexRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
			return
		}
	}
	result, err := h.adminService.TriggerReindex(c.Request.Context(), req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(users))
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	user, err := h.adminService.UpdateUserRole(c.Request.Context(), userID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}
