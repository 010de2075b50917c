package api

import (
	"fmt"
	"net/http"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves profiles and preference profiles.
type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// PreferencesRequest is the full preference profile; omitted fields are cleared.
type PreferencesRequest struct {
	Age                *int     `json:"age" binding:"omitempty,min=1,max=120"`
	Weight             *float64 `json:"weight" binding:"omitempty,gt=0"`
	Height             *float64 `json:"height" binding:"omitempty,gt=0"`
	Gender             string   `json:"gender" binding:"omitempty,oneof=male female other"`
	Goal               string   `json:"goal" binding:"omitempty,oneof=weight_gain weight_loss maintain strength stamina"`
	ExperienceLevel    string   `json:"experienceLevel" binding:"omitempty,oneof=beginner intermediate advanced"`
	WorkoutLocation    string   `json:"workoutLocation" binding:"omitempty,oneof=home gym"`
	EquipmentList      []string `json:"equipmentList"`
	TargetMuscleGroups []string `json:"targetMuscleGroups"`
	DurationWeeks      *int     `json:"durationWeeks" binding:"omitempty,min=1,max=52"`
	DietaryPreference  string   `json:"dietaryPreference" binding:"omitempty,oneof=veg non_veg mixed"`
	ExcludedFoods      []string `json:"excludedFoods"`
	Allergies          []string `json:"allergies"`
	MedicalConditions  []string `json:"medicalConditions"`
}

func (r PreferencesRequest) toDomain() domain.PreferenceProfile {
	return domain.PreferenceProfile{
		Age:                r.Age,
		Weight:             r.Weight,
		Height:             r.Height,
		Gender:             r.Gender,
		Goal:               r.Goal,
		ExperienceLevel:    r.ExperienceLevel,
		WorkoutLocation:    r.WorkoutLocation,
		EquipmentList:      r.EquipmentList,
		TargetMuscleGroups: r.TargetMuscleGroups,
		DurationWeeks:      r.DurationWeeks,
		DietaryPreference:  r.DietaryPreference,
		ExcludedFoods:      r.ExcludedFoods,
		Allergies:          r.Allergies,
		MedicalConditions:  r.MedicalConditions,
	}
}

// ProfileResponse is a user with their preference profile, if any.
type ProfileResponse struct {
	User        UserResponse              `json:"user"`
	Preferences *domain.PreferenceProfile `json:"preferences,omitempty"`
}

// GetProfile handles GET /users/:id.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ProfileResponse{
		User:        MapUserToResponse(profile.User),
		Preferences: profile.Preferences,
	})
}

// UpdateProfile handles PUT /users/:id. Only fields present in the body change.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var patch domain.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// GetPreferences handles GET /users/:id/preferences.
func (h *UserHandler) GetPreferences(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	prefs, err := h.userService.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// SavePreferences handles POST and PUT /users/:id/preferences. Both overwrite the
// single profile in place.
func (h *UserHandler) SavePreferences(c *gin.Context) {
	userID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	prefs, err := h.userService.SavePreferences(c.Request.Context(), userID, req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}
