// internal/repository/mongo/plan_bundle_repo.go
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
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planBundleCollectionName = "plan_bundles"

// mongoPlanBundleRepository implements repository.PlanBundleRepository
type mongoPlanBundleRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanBundleRepository creates a new PlanBundle repository.
func NewMongoPlanBundleRepository(db *mongo.Database) repository.PlanBundleRepository {
	return &mongoPlanBundleRepository{
		collection: db.Collection(planBundleCollectionName),
	}
}

// Create inserts a new bundle. A second active bundle for the same user violates
// the partial unique index and surfaces as repository.ErrDuplicate.
func (r *mongoPlanBundleRepository) Create(ctx context.Context, bundle *domain.PlanBundle) (primitive.ObjectID, error) {
	if bundle.UserID == primitive.NilObjectID || bundle.Status == "" {
		return primitive.NilObjectID, errors.New("plan bundle requires userId and status")
	}
	bundle.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if bundle.CreatedAt.IsZero() {
		bundle.CreatedAt = now
	}
	bundle.UpdatedAt = bundle.CreatedAt

	result, err := r.collection.InsertOne(ctx, bundle)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted bundle ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single bundle by its ID.
func (r *mongoPlanBundleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanBundle, error) {
	var bundle domain.PlanBundle
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&bundle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &bundle, nil
}

// GetLatestByUserID returns the user's most recently created bundle.
func (r *mongoPlanBundleRepository) GetLatestByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.PlanBundle, error) {
	var bundle domain.PlanBundle
	findOptions := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}, findOptions).Decode(&bundle)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &bundle, nil
}

// ListByUserID retrieves all bundles for a user, newest first.
func (r *mongoPlanBundleRepository) ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.PlanBundle, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// ListByUserIDAndStatus retrieves a user's bundles in the given status, newest first.
func (r *mongoPlanBundleRepository) ListByUserIDAndStatus(ctx context.Context, userID primitive.ObjectID, status domain.BundleStatus) ([]domain.PlanBundle, error) {
	return r.find(ctx, bson.M{"userId": userID, "status": status})
}

func (r *mongoPlanBundleRepository) find(ctx context.Context, filter bson.M) ([]domain.PlanBundle, error) {
	bundles := []domain.PlanBundle{}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &bundles); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return bundles, nil
}

// UpdateStatus transitions one bundle. Everything else on a bundle is immutable.
func (r *mongoPlanBundleRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.BundleStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoPlanBundleRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// EnsurePlanBundleIndexes creates necessary indexes. Call during startup.
func EnsurePlanBundleIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Listing and "latest bundle" lookups
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			// At most one active bundle per user
			Keys: bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().
				SetName("uniq_active_bundle_per_user").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": domain.BundleActive}),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
