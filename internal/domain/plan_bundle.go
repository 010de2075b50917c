package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BundleStatus type for plan bundle lifecycle
type BundleStatus string

const (
	BundleActive    BundleStatus = "active"
	BundleAbandoned BundleStatus = "abandoned" // superseded by a newer bundle
	BundleCompleted BundleStatus = "completed"
	BundleRestored  BundleStatus = "restored"
)

func (s BundleStatus) Valid() bool {
	switch s {
	case BundleActive, BundleAbandoned, BundleCompleted, BundleRestored:
		return true
	}
	return false
}

// PlanBundle groups the artifacts of one generation cycle. At most one bundle per
// user is active; PreferencesSnapshot is written once and never updated.
type PlanBundle struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID              primitive.ObjectID `bson:"userId" json:"userId"`
	Status              BundleStatus       `bson:"status" json:"status"`
	StartDate           time.Time          `bson:"startDate" json:"startDate"`
	ChangeDeadline      time.Time          `bson:"changeDeadline" json:"changeDeadline"`
	WorkoutPlanID       primitive.ObjectID `bson:"workoutPlanId" json:"workoutPlanId"`
	DietPlanID          primitive.ObjectID `bson:"dietPlanId" json:"dietPlanId"`
	PreferencesSnapshot PreferencePayload  `bson:"preferencesSnapshot" json:"preferencesSnapshot"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PreferencePayload is the flattened profile sent to the generation provider.
// List fields are always non-nil so the provider never sees null arrays.
type PreferencePayload struct {
	Age                *int     `bson:"age" json:"age"`
	Weight             *float64 `bson:"weight" json:"weight"`
	Height             *float64 `bson:"height" json:"height"`
	Gender             *string  `bson:"gender" json:"gender"`
	Goal               *string  `bson:"goal" json:"goal"`
	ExperienceLevel    string   `bson:"experience_level" json:"experience_level"`
	WorkoutLocation    string   `bson:"workout_location" json:"workout_location"`
	EquipmentList      []string `bson:"equipment_list" json:"equipment_list"`
	TargetMuscleGroups []string `bson:"target_muscle_groups" json:"target_muscle_groups"`
	DurationWeeks      int      `bson:"duration_weeks" json:"duration_weeks"`
	FrequencyPerWeek   int      `bson:"frequency_per_week" json:"frequency_per_week"`
	DietaryPreference  string   `bson:"dietary_preference" json:"dietary_preference"`
	ExcludedFoods      []string `bson:"excluded_foods" json:"excluded_foods"`
	Allergies          []string `bson:"allergies" json:"allergies"`
	MedicalConditions  []string `bson:"medical_conditions" json:"medical_conditions"`
}

// GenerationLog is the append-only audit record of one successful provider call.
type GenerationLog struct {
	ID              primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID     `bson:"userId" json:"userId"`
	PlanBundleID    primitive.ObjectID     `bson:"planBundleId" json:"planBundleId"`
	RequestPayload  map[string]interface{} `bson:"requestPayload" json:"requestPayload"`
	ResponsePayload map[string]interface{} `bson:"responsePayload" json:"responsePayload"`
	ModelUsed       string                 `bson:"modelUsed,omitempty" json:"modelUsed,omitempty"`
	DurationMs      int64                  `bson:"durationMs" json:"durationMs"`
	Timestamp       time.Time              `bson:"timestamp" json:"timestamp"`
}
