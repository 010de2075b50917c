package mongo

import (
	"context"
	"errors"
	"time"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	workoutPlanCollectionName = "workout_plans"
	dietPlanCollectionName    = "diet_plans"
)

// mongoPlanArtifactRepository stores workout and diet plans. Both are insert-only.
type mongoPlanArtifactRepository struct {
	workouts *mongo.Collection
	diets    *mongo.Collection
}

// NewMongoPlanArtifactRepository creates the artifact repository.
func NewMongoPlanArtifactRepository(db *mongo.Database) repository.PlanArtifactRepository {
	return &mongoPlanArtifactRepository{
		workouts: db.Collection(workoutPlanCollectionName),
		diets:    db.Collection(dietPlanCollectionName),
	}
}

func (r *mongoPlanArtifactRepository) CreateWorkoutPlan(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}
	return insertID(ctx, r.workouts, plan)
}

func (r *mongoPlanArtifactRepository) CreateDietPlan(ctx context.Context, plan *domain.DietPlan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}
	return insertID(ctx, r.diets, plan)
}

func (r *mongoPlanArtifactRepository) GetWorkoutPlan(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	if err := findByID(ctx, r.workouts, id, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *mongoPlanArtifactRepository) GetDietPlan(ctx context.Context, id primitive.ObjectID) (*domain.DietPlan, error) {
	var plan domain.DietPlan
	if err := findByID(ctx, r.diets, id, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// insertID inserts doc and returns its ObjectID.
func insertID(ctx context.Context, collection *mongo.Collection, doc interface{}) (primitive.ObjectID, error) {
	result, err := collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func findByID(ctx context.Context, collection *mongo.Collection, id primitive.ObjectID, out interface{}) error {
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	return err
}
