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

const completionCollectionName = "workout_completions"

// mongoCompletionRepository implements repository.CompletionRepository
type mongoCompletionRepository struct {
	collection *mongo.Collection
}

// NewMongoCompletionRepository creates the completion ledger repository.
func NewMongoCompletionRepository(db *mongo.Database) repository.CompletionRepository {
	return &mongoCompletionRepository{
		collection: db.Collection(completionCollectionName),
	}
}

func keyFilter(key domain.CompletionKey) bson.M {
	return bson.M{
		"userId":       key.UserID,
		"planBundleId": key.PlanBundleID,
		"weekNumber":   key.WeekNumber,
		"dayNumber":    key.DayNumber,
		"exerciseName": key.ExerciseName,
	}
}

// FindByKey looks a record up by its natural key.
func (r *mongoCompletionRepository) FindByKey(ctx context.Context, key domain.CompletionKey) (*domain.CompletionRecord, error) {
	var record domain.CompletionRecord
	err := r.collection.FindOne(ctx, keyFilter(key)).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// Create inserts a new record. A concurrent insert of the same key returns repository.ErrDuplicate.
func (r *mongoCompletionRepository) Create(ctx context.Context, record *domain.CompletionRecord) (primitive.ObjectID, error) {
	if record.UserID == primitive.NilObjectID || record.PlanBundleID == primitive.NilObjectID || record.ExerciseName == "" {
		return primitive.NilObjectID, errors.New("completion requires userId, planBundleId and exerciseName")
	}
	record.ID = primitive.NewObjectID()
	if record.CompletedAt.IsZero() {
		record.CompletedAt = time.Now().UTC()
	}
	return insertID(ctx, r.collection, record)
}

// UpdateMetrics overwrites the mutable metric fields and the completion time.
func (r *mongoCompletionRepository) UpdateMetrics(ctx context.Context, id primitive.ObjectID, metrics domain.CompletionMetrics, completedAt time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"setsCompleted":   metrics.SetsCompleted,
			"repsCompleted":   metrics.RepsCompleted,
			"durationMinutes": metrics.DurationMinutes,
			"caloriesBurned":  metrics.CaloriesBurned,
			"notes":           metrics.Notes,
			"completedAt":     completedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByKey removes the record with the given natural key, if any.
func (r *mongoCompletionRepository) DeleteByKey(ctx context.Context, key domain.CompletionKey) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, keyFilter(key))
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}

func (r *mongoCompletionRepository) ListByBundle(ctx context.Context, userID, planBundleID primitive.ObjectID) ([]domain.CompletionRecord, error) {
	return r.find(ctx, bson.M{"userId": userID, "planBundleId": planBundleID})
}

func (r *mongoCompletionRepository) ListByWeek(ctx context.Context, userID, planBundleID primitive.ObjectID, week int) ([]domain.CompletionRecord, error) {
	return r.find(ctx, bson.M{"userId": userID, "planBundleId": planBundleID, "weekNumber": week})
}

func (r *mongoCompletionRepository) find(ctx context.Context, filter bson.M) ([]domain.CompletionRecord, error) {
	records := []domain.CompletionRecord{}
	// Stable order: plan position first, _id as tie-breaker
	findOptions := options.Find().SetSort(bson.D{
		{Key: "weekNumber", Value: 1},
		{Key: "dayNumber", Value: 1},
		{Key: "_id", Value: 1},
	})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// TotalsSince counts records and sums calories and minutes completed at or after since.
func (r *mongoCompletionRepository) TotalsSince(ctx context.Context, userID primitive.ObjectID, since time.Time) (domain.CompletionTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID, "completedAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":      nil,
			"workouts": bson.M{"$sum": 1},
			"calories": bson.M{"$sum": "$caloriesBurned"},
			"minutes":  bson.M{"$sum": "$durationMinutes"},
		}}},
	}

	var totals domain.CompletionTotals
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return totals, err
	}
	defer cursor.Close(ctx)

	// No matching records yields no group document; totals stay zero.
	if cursor.Next(ctx) {
		if err := cursor.Decode(&totals); err != nil {
			return totals, err
		}
	}
	return totals, cursor.Err()
}

func (r *mongoCompletionRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// EnsureCompletionIndexes creates the natural-key unique index and the stats index.
func EnsureCompletionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "userId", Value: 1},
				{Key: "planBundleId", Value: 1},
				{Key: "weekNumber", Value: 1},
				{Key: "dayNumber", Value: 1},
				{Key: "exerciseName", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_completion_key"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "completedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
