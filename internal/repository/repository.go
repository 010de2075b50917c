package repository

import (
	"context"
	"time"

	"fitfusion/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
	// ErrConflict marks a transaction aborted by a concurrent writer.
	ErrConflict = RepositoryError("transaction conflict")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Transactor runs fn inside a storage transaction. Repository calls made with the
// ctx passed to fn participate in it; any error returned by fn rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateRole(ctx context.Context, id primitive.ObjectID, role domain.Role) error
	Count(ctx context.Context) (int64, error)
}

// PreferenceRepository stores the single preference profile per user.
type PreferenceRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.PreferenceProfile, error)
	// Save overwrites the user's profile in place, creating it when absent.
	Save(ctx context.Context, profile *domain.PreferenceProfile) error
}

// PlanBundleRepository defines the interface for interacting with plan bundles.
type PlanBundleRepository interface {
	Create(ctx context.Context, bundle *domain.PlanBundle) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanBundle, error)
	// GetLatestByUserID returns the most recently created bundle regardless of status.
	GetLatestByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.PlanBundle, error)
	ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.PlanBundle, error)
	ListByUserIDAndStatus(ctx context.Context, userID primitive.ObjectID, status domain.BundleStatus) ([]domain.PlanBundle, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.BundleStatus) error
	Count(ctx context.Context) (int64, error)
}

// PlanArtifactRepository persists the immutable workout and diet plans.
type PlanArtifactRepository interface {
	CreateWorkoutPlan(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	CreateDietPlan(ctx context.Context, plan *domain.DietPlan) (primitive.ObjectID, error)
	GetWorkoutPlan(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetDietPlan(ctx context.Context, id primitive.ObjectID) (*domain.DietPlan, error)
}

// GenerationLogRepository is append-only.
type GenerationLogRepository interface {
	Create(ctx context.Context, entry *domain.GenerationLog) (primitive.ObjectID, error)
}

// CompletionRepository is the completion ledger.
type CompletionRepository interface {
	FindByKey(ctx context.Context, key domain.CompletionKey) (*domain.CompletionRecord, error)
	Create(ctx context.Context, record *domain.CompletionRecord) (primitive.ObjectID, error)
	UpdateMetrics(ctx context.Context, id primitive.ObjectID, metrics domain.CompletionMetrics, completedAt time.Time) error
	// DeleteByKey reports whether a record was removed.
	DeleteByKey(ctx context.Context, key domain.CompletionKey) (bool, error)
	ListByBundle(ctx context.Context, userID, planBundleID primitive.ObjectID) ([]domain.CompletionRecord, error)
	ListByWeek(ctx context.Context, userID, planBundleID primitive.ObjectID, week int) ([]domain.CompletionRecord, error)
	TotalsSince(ctx context.Context, userID primitive.ObjectID, since time.Time) (domain.CompletionTotals, error)
	Count(ctx context.Context) (int64, error)
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, exercises []domain.Exercise) ([]primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	SetMediaObjectKey(ctx context.Context, id primitive.ObjectID, objectKey string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	CountByMuscleGroup(ctx context.Context) (map[string]int64, error)
}

// FoodItemRepository defines the interface for interacting with food item data.
type FoodItemRepository interface {
	Create(ctx context.Context, item *domain.FoodItem) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, items []domain.FoodItem) ([]primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.FoodItem, error)
	List(ctx context.Context) ([]domain.FoodItem, error)
	Update(ctx context.Context, item *domain.FoodItem) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}
