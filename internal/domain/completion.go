package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletionKey is the natural key of a CompletionRecord.
type CompletionKey struct {
	UserID       primitive.ObjectID
	PlanBundleID primitive.ObjectID
	WeekNumber   int
	DayNumber    int
	ExerciseName string
}

// CompletionMetrics are the fields overwritten on every upsert.
type CompletionMetrics struct {
	SetsCompleted   *int   `bson:"setsCompleted,omitempty" json:"setsCompleted,omitempty"`
	RepsCompleted   *int   `bson:"repsCompleted,omitempty" json:"repsCompleted,omitempty"`
	DurationMinutes *int   `bson:"durationMinutes,omitempty" json:"durationMinutes,omitempty"`
	CaloriesBurned  *int   `bson:"caloriesBurned,omitempty" json:"caloriesBurned,omitempty"`
	Notes           string `bson:"notes,omitempty" json:"notes,omitempty"`
}

// CompletionRecord logs one performed exercise. Unique on
// (userId, planBundleId, weekNumber, dayNumber, exerciseName).
type CompletionRecord struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	PlanBundleID      primitive.ObjectID `bson:"planBundleId" json:"planBundleId"`
	WeekNumber        int                `bson:"weekNumber" json:"weekNumber"`
	DayNumber         int                `bson:"dayNumber" json:"dayNumber"`
	ExerciseName      string             `bson:"exerciseName" json:"exerciseName"`
	CompletionMetrics `bson:",inline"`
	CompletedAt       time.Time `bson:"completedAt" json:"completedAt"`
}

func (r *CompletionRecord) Key() CompletionKey {
	return CompletionKey{
		UserID:       r.UserID,
		PlanBundleID: r.PlanBundleID,
		WeekNumber:   r.WeekNumber,
		DayNumber:    r.DayNumber,
		ExerciseName: r.ExerciseName,
	}
}

// CompletionTotals is the raw aggregate over a window of completion records.
type CompletionTotals struct {
	Workouts int64 `bson:"workouts"`
	Calories int64 `bson:"calories"`
	Minutes  int64 `bson:"minutes"`
}
