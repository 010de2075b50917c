package api

import (
	"fmt"
	"net/http"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletionHandler serves the completion ledger and stats. Every route is owner only.
type CompletionHandler struct {
	completionService service.CompletionService
	statsService      service.StatsService
}

func NewCompletionHandler(completionService service.CompletionService, statsService service.StatsService) *CompletionHandler {
	return &CompletionHandler{completionService: completionService, statsService: statsService}
}

type MarkCompletionRequest struct {
	PlanBundleID    string `json:"planBundleId" binding:"required"`
	WeekNumber      int    `json:"weekNumber" binding:"required,min=1"`
	DayNumber       int    `json:"dayNumber" binding:"required,min=1"`
	ExerciseName    string `json:"exerciseName" binding:"required"`
	SetsCompleted   *int   `json:"setsCompleted" binding:"omitempty,min=0"`
	RepsCompleted   *int   `json:"repsCompleted" binding:"omitempty,min=0"`
	DurationMinutes *int   `json:"durationMinutes" binding:"omitempty,min=0"`
	CaloriesBurned  *int   `json:"caloriesBurned" binding:"omitempty,min=0"`
	Notes           string `json:"notes"`
}

// CompletionKeyQuery identifies one record in DELETE query params.
type CompletionKeyQuery struct {
	PlanBundleID string `form:"planBundleId" binding:"required"`
	WeekNumber   int    `form:"weekNumber" binding:"required,min=1"`
	DayNumber    int    `form:"dayNumber" binding:"required,min=1"`
	ExerciseName string `form:"exerciseName" binding:"required"`
}

type WeekQuery struct {
	PlanBundleID string `form:"planBundleId" binding:"required"`
	WeekNumber   int    `form:"weekNumber" binding:"required,min=1"`
}

func parseBundleID(c *gin.Context, raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid planBundleId format")
		return primitive.NilObjectID, false
	}
	return id, true
}

// MarkComplete handles POST /users/:id/workout-completions. Re-marking the same
// exercise on the same day overwrites the metrics.
func (h *CompletionHandler) MarkComplete(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req MarkCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	bundleID, ok := parseBundleID(c, req.PlanBundleID)
	if !ok {
		return
	}

	record, err := h.completionService.Upsert(c.Request.Context(), userID, service.CompletionInput{
		PlanBundleID: bundleID,
		WeekNumber:   req.WeekNumber,
		DayNumber:    req.DayNumber,
		ExerciseName: req.ExerciseName,
		CompletionMetrics: domain.CompletionMetrics{
			SetsCompleted:   req.SetsCompleted,
			RepsCompleted:   req.RepsCompleted,
			DurationMinutes: req.DurationMinutes,
			CaloriesBurned:  req.CaloriesBurned,
			Notes:           req.Notes,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Unmark handles DELETE /users/:id/workout-completions.
func (h *CompletionHandler) Unmark(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var q CompletionKeyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	bundleID, ok := parseBundleID(c, q.PlanBundleID)
	if !ok {
		return
	}

	err := h.completionService.Remove(c.Request.Context(), domain.CompletionKey{
		UserID:       userID,
		PlanBundleID: bundleID,
		WeekNumber:   q.WeekNumber,
		DayNumber:    q.DayNumber,
		ExerciseName: q.ExerciseName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListForBundle handles GET /users/:id/workout-completions?planBundleId=.
func (h *CompletionHandler) ListForBundle(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	bundleID, ok := parseBundleID(c, c.Query("planBundleId"))
	if !ok {
		return
	}
	records, err := h.completionService.ListForBundle(c.Request.Context(), userID, bundleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNilRecords(records))
}

// ListForWeek handles GET /users/:id/workout-completions/week.
func (h *CompletionHandler) ListForWeek(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var q WeekQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	bundleID, ok := parseBundleID(c, q.PlanBundleID)
	if !ok {
		return
	}
	records, err := h.completionService.ListForWeek(c.Request.Context(), userID, bundleID, q.WeekNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, nonNilRecords(records))
}

// Stats handles GET /users/:id/stats?period=. The period defaults to week.
func (h *CompletionHandler) Stats(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	stats, err := h.statsService.Stats(c.Request.Context(), userID, c.DefaultQuery("period", "week"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func nonNilRecords(records []domain.CompletionRecord) []domain.CompletionRecord {
	if records == nil {
		return []domain.CompletionRecord{}
	}
	return records
}
