package api

import (
	"net/http"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// FoodHandler serves the admin food library routes.
type FoodHandler struct {
	contentService service.ContentService
}

func NewFoodHandler(contentService service.ContentService) *FoodHandler {
	return &FoodHandler{contentService: contentService}
}

type FoodItemRequest struct {
	Name               string                 `json:"name" binding:"required"`
	Category           string                 `json:"category" binding:"required,oneof=meat veg fruit rice bread sabzi drink snack other"`
	CaloriesPer100g    *float64               `json:"caloriesPer100g" binding:"omitempty,min=0"`
	ProteinPer100g     *float64               `json:"proteinPer100g" binding:"omitempty,min=0"`
	CarbsPer100g       *float64               `json:"carbsPer100g" binding:"omitempty,min=0"`
	FatsPer100g        *float64               `json:"fatsPer100g" binding:"omitempty,min=0"`
	Vitamins           map[string]interface{} `json:"vitamins"`
	Minerals           map[string]interface{} `json:"minerals"`
	ServingDescription string                 `json:"servingDescription"`
	IsVeg              bool                   `json:"isVeg"`
	Description        string                 `json:"description"`
}

func (r FoodItemRequest) toDomain() domain.FoodItem {
	return domain.FoodItem{
		Name:               r.Name,
		Category:           r.Category,
		CaloriesPer100g:    r.CaloriesPer100g,
		ProteinPer100g:     r.ProteinPer100g,
		CarbsPer100g:       r.CarbsPer100g,
		FatsPer100g:        r.FatsPer100g,
		Vitamins:           r.Vitamins,
		Minerals:           r.Minerals,
		ServingDescription: r.ServingDescription,
		IsVeg:              r.IsVeg,
		Description:        r.Description,
	}
}

func (h *FoodHandler) ListFoodItems(c *gin.Context) {
	items, err := h.contentService.ListFoodItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []domain.FoodItem{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *FoodHandler) GetFoodItem(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	item, err := h.contentService.GetFoodItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *FoodHandler) CreateFoodItem(c *gin.Context) {
	var req FoodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	item, err := h.contentService.CreateFoodItem(c.Request.Context(), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// CreateFoodItemsBulk binds a JSON array; gin validates each element.
func (h *FoodHandler) CreateFoodItemsBulk(c *gin.Context) {
	var req []FoodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	if len(req) == 0 {
		abortWithError(c, http.StatusBadRequest, "Validation error: at least one food item is required")
		return
	}
	items := make([]domain.FoodItem, len(req))
	for i, r := range req {
		items[i] = r.toDomain()
	}
	created, err := h.contentService.CreateFoodItems(c.Request.Context(), items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *FoodHandler) UpdateFoodItem(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req FoodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	item, err := h.contentService.UpdateFoodItem(c.Request.Context(), id, req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *FoodHandler) DeleteFoodItem(c *gin.Context) {
	id, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	if err := h.contentService.DeleteFoodItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
