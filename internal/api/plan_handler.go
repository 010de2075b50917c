package api

import (
	"fmt"
	"net/http"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves plan generation and plan bundle reads.
type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

type BundleStatusRequest struct {
	Status domain.BundleStatus `json:"status" binding:"required,oneof=active abandoned completed restored"`
}

// GeneratePlan godoc
// @Summary Generate a new plan bundle
// @Description Retires the active bundle and stores a freshly generated workout and diet plan.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 201 {object} service.PlanGenerationResult
// @Failure 404 {object} gin.H "User not found"
// @Failure 409 {object} gin.H "Preferences unchanged or generation already running"
// @Failure 412 {object} gin.H "Preferences not set"
// @Failure 502 {object} gin.H "Generation provider failed"
// @Router /users/{id}/generate-plan [post]
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	result, err := h.planService.GeneratePlan(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Eligibility handles GET /users/:id/generate-plan/eligibility.
func (h *PlanHandler) Eligibility(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	decision, err := h.planService.CanGenerate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decision)
}

// ListPlans handles GET /users/:id/plans, newest first.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	bundles, err := h.planService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if bundles == nil {
		bundles = []domain.PlanBundle{}
	}
	c.JSON(http.StatusOK, bundles)
}

// GetBundle handles GET /users/plans/:bundleId. Ownership is checked by the
// service since the owner is only known after the bundle is loaded.
func (h *PlanHandler) GetBundle(c *gin.Context) {
	bundleID, ok := pathObjectID(c, "bundleId")
	if !ok {
		return
	}
	principal, err := getPrincipal(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	detail, err := h.planService.GetBundle(c.Request.Context(), principal, bundleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// SetBundleStatus handles the admin PUT /admin/plans/:bundleId/status.
func (h *PlanHandler) SetBundleStatus(c *gin.Context) {
	bundleID, ok := pathObjectID(c, "bundleId")
	if !ok {
		return
	}
	var req BundleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	bundle, err := h.planService.SetBundleStatus(c.Request.Context(), bundleID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}
