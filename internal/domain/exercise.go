// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single exercise definition in the library the generation
// provider indexes.
type Exercise struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	MuscleGroup      string             `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"`           // e.g., "Chest", "Legs", "Back"
	Equipment        string             `bson:"equipment,omitempty" json:"equipment,omitempty"`               // e.g., "Dumbbell", "None"
	ExecutionTechnic string             `bson:"executionTechnic,omitempty" json:"executionTechnic,omitempty"` // Detailed instructions
	Applicability    string             `bson:"applicability,omitempty" json:"applicability,omitempty"`       // e.g., "Home", "Gym", "Home/Gym"
	Difficulty       string             `bson:"difficulty,omitempty" json:"difficulty,omitempty"`             // e.g., "beginner", "intermediate", "advanced"
	VideoURL         string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	MediaObjectKey   string             `bson:"mediaObjectKey,omitempty" json:"-"` // uploaded demo media in S3
	MediaURL         string             `bson:"-" json:"mediaUrl,omitempty"`       // presigned on read
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
