package mongo

import (
	"context"
	"time"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const generationLogCollectionName = "generation_logs"

type mongoGenerationLogRepository struct {
	collection *mongo.Collection
}

// NewMongoGenerationLogRepository creates the append-only provider audit log.
func NewMongoGenerationLogRepository(db *mongo.Database) repository.GenerationLogRepository {
	return &mongoGenerationLogRepository{
		collection: db.Collection(generationLogCollectionName),
	}
}

func (r *mongoGenerationLogRepository) Create(ctx context.Context, entry *domain.GenerationLog) (primitive.ObjectID, error) {
	entry.ID = primitive.NewObjectID()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	return insertID(ctx, r.collection, entry)
}

func EnsureGenerationLogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}}, Options: options.Index()},
		{Keys: bson.D{{Key: "planBundleId", Value: 1}}, Options: options.Index()},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
