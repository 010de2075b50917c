package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PreferenceProfile holds a user's current planning inputs. There is exactly one per
// user and it is overwritten in place; UpdatedAt moves on every save.
type PreferenceProfile struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID             primitive.ObjectID `bson:"userId" json:"userId"`
	Age                *int               `bson:"age,omitempty" json:"age,omitempty"`
	Weight             *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	Height             *float64           `bson:"height,omitempty" json:"height,omitempty"`
	Gender             string             `bson:"gender,omitempty" json:"gender,omitempty"`                     // male, female, other
	Goal               string             `bson:"goal,omitempty" json:"goal,omitempty"`                         // weight_gain, weight_loss, maintain, strength, stamina
	ExperienceLevel    string             `bson:"experienceLevel,omitempty" json:"experienceLevel,omitempty"`   // beginner, intermediate, advanced
	WorkoutLocation    string             `bson:"workoutLocation,omitempty" json:"workoutLocation,omitempty"`   // home, gym
	EquipmentList      []string           `bson:"equipmentList,omitempty" json:"equipmentList,omitempty"`
	TargetMuscleGroups []string           `bson:"targetMuscleGroups,omitempty" json:"targetMuscleGroups,omitempty"`
	DurationWeeks      *int               `bson:"durationWeeks,omitempty" json:"durationWeeks,omitempty"`
	DietaryPreference  string             `bson:"dietaryPreference,omitempty" json:"dietaryPreference,omitempty"` // veg, non_veg, mixed
	ExcludedFoods      []string           `bson:"excludedFoods,omitempty" json:"excludedFoods,omitempty"`
	Allergies          []string           `bson:"allergies,omitempty" json:"allergies,omitempty"`
	MedicalConditions  []string           `bson:"medicalConditions,omitempty" json:"medicalConditions,omitempty"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
