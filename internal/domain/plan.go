// internal/domain/plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutPlan is an immutable generated artifact. PlanJSON keeps the provider's
// document as-is; the numeric columns are extracted for listing.
type WorkoutPlan struct {
	ID               primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	PlanJSON         map[string]interface{} `bson:"planJson" json:"planJson"`
	TotalWeeks       int                    `bson:"totalWeeks" json:"totalWeeks"`
	FrequencyPerWeek int                    `bson:"frequencyPerWeek" json:"frequencyPerWeek"`
	Summary          string                 `bson:"summary,omitempty" json:"summary,omitempty"`
	CreatedAt        time.Time              `bson:"createdAt" json:"createdAt"`
}

// DietPlan is the nutrition counterpart of WorkoutPlan.
type DietPlan struct {
	ID                 primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	PlanJSON           map[string]interface{} `bson:"planJson" json:"planJson"`
	TotalDailyCalories int                    `bson:"totalDailyCalories" json:"totalDailyCalories"`
	TotalDailyProtein  int                    `bson:"totalDailyProtein" json:"totalDailyProtein"`
	Summary            string                 `bson:"summary,omitempty" json:"summary,omitempty"`
	CreatedAt          time.Time              `bson:"createdAt" json:"createdAt"`
}
