package api

import (
	"fmt"
	"net/http"
	"time"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler serves the exercise library. Reads are open to any
// authenticated user; writes are mounted under the admin group.
type ExerciseHandler struct {
	contentService service.ContentService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(contentService service.ContentService) *ExerciseHandler {
	return &ExerciseHandler{contentService: contentService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseRequest defines the expected JSON for creating or replacing an exercise.
type ExerciseRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	MuscleGroup      string `json:"muscleGroup"`      // e.g., "Chest", "Legs"
	Equipment        string `json:"equipment"`        // e.g., "Dumbbell", "None"
	ExecutionTechnic string `json:"executionTechnic"` // How to do it
	Applicability    string `json:"applicability"`    // e.g., "Home", "Gym"
	Difficulty       string `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	VideoURL         string `json:"videoUrl" binding:"omitempty,url"` // Optional, validated as URL if provided
}

func (r ExerciseRequest) toDomain() domain.Exercise {
	return domain.Exercise{
		Name:             r.Name,
		Description:      r.Description,
		MuscleGroup:      r.MuscleGroup,
		Equipment:        r.Equipment,
		ExecutionTechnic: r.ExecutionTechnic,
		Applicability:    r.Applicability,
		Difficulty:       r.Difficulty,
		VideoURL:         r.VideoURL,
	}
}

type MediaUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type MediaConfirmRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	MuscleGroup      string    `json:"muscleGroup,omitempty"`
	Equipment        string    `json:"equipment,omitempty"`
	ExecutionTechnic string    `json:"executionTechnic,omitempty"`
	Applicability    string    `json:"applicability,omitempty"`
	Difficulty       string    `json:"difficulty,omitempty"`
	VideoURL         string    `json:"videoUrl,omitempty"`
	MediaURL         string    `json:"mediaUrl,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:               ex.ID.Hex(),
		Name:             ex.Name,
		Description:      ex.Description,
		MuscleGroup:      ex.MuscleGroup,
		Equipment:        ex.Equipment,
		ExecutionTechnic: ex.ExecutionTechnic,
		Applicability:    ex.Applicability,
		Difficulty:       ex.Difficulty,
		VideoURL:         ex.VideoURL,
		MediaURL:         ex.MediaURL,
		CreatedAt:        ex.CreatedAt,
		UpdatedAt:        ex.UpdatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary List the exercise library
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ExerciseResponse "List of exercises"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.contentService.ListExercises(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetExercise handles GET /exercises/:id.
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	exercise, err := h.contentService.GetExercise(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// GetExerciseByName handles GET /exercises/name/:name; the match ignores case.
func (h *ExerciseHandler) GetExerciseByName(c *gin.Context) {
	exercise, err := h.contentService.GetExerciseByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// CreateExercise godoc
// @Summary Create a new exercise
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 201 {object} ExerciseResponse "Exercise created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 403 {object} gin.H "Forbidden (not an admin)"
// @Router /admin/exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	exercise, err := h.contentService.CreateExercise(c.Request.Context(), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(exercise))
}

// CreateExercisesBulk handles POST /admin/exercises/bulk.
func (h *ExerciseHandler) CreateExercisesBulk(c *gin.Context) {
	var req []ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if len(req) == 0 {
		abortWithError(c, http.StatusBadRequest, "Validation error: at least one exercise is required")
		return
	}
	exercises := make([]domain.Exercise, len(req))
	for i, r := range req {
		exercises[i] = r.toDomain()
	}
	created, err := h.contentService.CreateExercises(c.Request.Context(), exercises)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapExercisesToResponse(created))
}

// UpdateExercise handles PUT /admin/exercises/:id.
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	exercise, err := h.contentService.UpdateExercise(c.Request.Context(), id, req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise handles DELETE /admin/exercises/:id.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.contentService.DeleteExercise(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequestMediaUpload handles POST /admin/exercises/:id/media/upload-url.
func (h *ExerciseHandler) RequestMediaUpload(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req MediaUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	upload, err := h.contentService.RequestExerciseMediaUpload(c.Request.Context(), id, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

// ConfirmMedia handles POST /admin/exercises/:id/media/confirm.
func (h *ExerciseHandler) ConfirmMedia(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req MediaConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	exercise, err := h.contentService.ConfirmExerciseMedia(c.Request.Context(), id, req.ObjectKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}
