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

const preferenceCollectionName = "user_preferences"

// mongoPreferenceRepository implements repository.PreferenceRepository
type mongoPreferenceRepository struct {
	collection *mongo.Collection
}

// NewMongoPreferenceRepository creates a new preference profile repository.
func NewMongoPreferenceRepository(db *mongo.Database) repository.PreferenceRepository {
	return &mongoPreferenceRepository{
		collection: db.Collection(preferenceCollectionName),
	}
}

// GetByUserID retrieves the user's profile.
func (r *mongoPreferenceRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.PreferenceProfile, error) {
	var profile domain.PreferenceProfile
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Save replaces the user's profile document, inserting it on first save. No history is kept.
func (r *mongoPreferenceRepository) Save(ctx context.Context, profile *domain.PreferenceProfile) error {
	if profile.UserID == primitive.NilObjectID {
		return errors.New("preference profile requires userId")
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now().UTC()
	}
	// _id is omitted from the replacement so an existing document keeps its identity.
	profile.ID = primitive.NilObjectID

	result, err := r.collection.ReplaceOne(ctx, bson.M{"userId": profile.UserID}, profile, options.Replace().SetUpsert(true))
	if err != nil {
		return err
	}
	if id, ok := result.UpsertedID.(primitive.ObjectID); ok {
		profile.ID = id
		return nil
	}
	stored, err := r.GetByUserID(ctx, profile.UserID)
	if err != nil {
		return err
	}
	profile.ID = stored.ID
	return nil
}

// EnsurePreferenceIndexes enforces one profile per user.
func EnsurePreferenceIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
