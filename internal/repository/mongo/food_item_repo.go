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

const foodItemCollectionName = "food_items"

type mongoFoodItemRepository struct {
	collection *mongo.Collection
}

// NewMongoFoodItemRepository creates the food item repository.
func NewMongoFoodItemRepository(db *mongo.Database) repository.FoodItemRepository {
	return &mongoFoodItemRepository{
		collection: db.Collection(foodItemCollectionName),
	}
}

func (r *mongoFoodItemRepository) Create(ctx context.Context, item *domain.FoodItem) (primitive.ObjectID, error) {
	if item.Name == "" || item.Category == "" {
		return primitive.NilObjectID, errors.New("food item name and category are required")
	}
	item.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	return insertID(ctx, r.collection, item)
}

func (r *mongoFoodItemRepository) CreateMany(ctx context.Context, items []domain.FoodItem) ([]primitive.ObjectID, error) {
	if len(items) == 0 {
		return []primitive.ObjectID{}, nil
	}
	now := time.Now().UTC()
	docs := make([]interface{}, len(items))
	ids := make([]primitive.ObjectID, len(items))
	for i := range items {
		if items[i].Name == "" || items[i].Category == "" {
			return nil, errors.New("food item name and category are required")
		}
		items[i].ID = primitive.NewObjectID()
		items[i].CreatedAt = now
		items[i].UpdatedAt = now
		docs[i] = items[i]
		ids[i] = items[i].ID
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *mongoFoodItemRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.FoodItem, error) {
	var item domain.FoodItem
	if err := findByID(ctx, r.collection, id, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *mongoFoodItemRepository) List(ctx context.Context) ([]domain.FoodItem, error) {
	items := []domain.FoodItem{}
	findOptions := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *mongoFoodItemRepository) Update(ctx context.Context, item *domain.FoodItem) error {
	if item.ID == primitive.NilObjectID {
		return errors.New("food item ID is required for update")
	}
	item.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":               item.Name,
			"category":           item.Category,
			"caloriesPer100g":    item.CaloriesPer100g,
			"proteinPer100g":     item.ProteinPer100g,
			"carbsPer100g":       item.CarbsPer100g,
			"fatsPer100g":        item.FatsPer100g,
			"vitamins":           item.Vitamins,
			"minerals":           item.Minerals,
			"servingDescription": item.ServingDescription,
			"isVeg":              item.IsVeg,
			"description":        item.Description,
			"updatedAt":          item.UpdatedAt,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": item.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoFoodItemRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoFoodItemRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func EnsureFoodItemIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index(),
	})
	return err
}
