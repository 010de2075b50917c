package service

import (
	"context"
	"errors"
	"strings"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/generation"
	"fitfusion/backend/internal/logger"
	"fitfusion/backend/internal/repository"
	"fitfusion/backend/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaUpload is a presigned PUT target for exercise demo media.
type MediaUpload struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// ContentService manages the exercise and food libraries the generation provider
// indexes. Every mutation schedules a provider reindex.
type ContentService interface {
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetExerciseByName(ctx context.Context, name string) (*domain.Exercise, error)
	CreateExercise(ctx context.Context, exercise domain.Exercise) (*domain.Exercise, error)
	CreateExercises(ctx context.Context, exercises []domain.Exercise) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, id primitive.ObjectID, exercise domain.Exercise) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, id primitive.ObjectID) error
	RequestExerciseMediaUpload(ctx context.Context, id primitive.ObjectID, contentType string) (*MediaUpload, error)
	ConfirmExerciseMedia(ctx context.Context, id primitive.ObjectID, objectKey string) (*domain.Exercise, error)

	ListFoodItems(ctx context.Context) ([]domain.FoodItem, error)
	GetFoodItem(ctx context.Context, id primitive.ObjectID) (*domain.FoodItem, error)
	CreateFoodItem(ctx context.Context, item domain.FoodItem) (*domain.FoodItem, error)
	CreateFoodItems(ctx context.Context, items []domain.FoodItem) ([]domain.FoodItem, error)
	UpdateFoodItem(ctx context.Context, id primitive.ObjectID, item domain.FoodItem) (*domain.FoodItem, error)
	DeleteFoodItem(ctx context.Context, id primitive.ObjectID) error
}

type contentService struct {
	exerciseRepo repository.ExerciseRepository
	foodRepo     repository.FoodItemRepository
	reindex      generation.ReindexNotifier
	files        storage.FileStorage // nil when S3 is not configured
	log          *logger.Logger
}

func NewContentService(
	exerciseRepo repository.ExerciseRepository,
	foodRepo repository.FoodItemRepository,
	reindex generation.ReindexNotifier,
	files storage.FileStorage,
	log *logger.Logger,
) ContentService {
	return &contentService{
		exerciseRepo: exerciseRepo,
		foodRepo:     foodRepo,
		reindex:      reindex,
		files:        files,
		log:          log.With("service", "ContentService"),
	}
}

// --- Exercises ---

// withMediaURL presigns a download link for uploaded media. Failures only drop the link.
func (s *contentService) withMediaURL(ctx context.Context, e *domain.Exercise) {
	if s.files == nil || e.MediaObjectKey == "" {
		return
	}
	url, err := s.files.GeneratePresignedDownloadURL(ctx, e.MediaObjectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		s.log.Warn("could not presign exercise media", "exercise_id", e.ID.Hex(), "error", err)
		return
	}
	e.MediaURL = url
}

func (s *contentService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range exercises {
		s.withMediaURL(ctx, &exercises[i])
	}
	return exercises, nil
}

func (s *contentService) GetExercise(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	s.withMediaURL(ctx, exercise)
	return exercise, nil
}

func (s *contentService) GetExerciseByName(ctx context.Context, name string) (*domain.Exercise, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("exercise name is required")
	}
	exercise, err := s.exerciseRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	s.withMediaURL(ctx, exercise)
	return exercise, nil
}

func validateExercise(e *domain.Exercise) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return invalid("exercise name is required")
	}
	return nil
}

func (s *contentService) CreateExercise(ctx context.Context, exercise domain.Exercise) (*domain.Exercise, error) {
	if err := validateExercise(&exercise); err != nil {
		return nil, err
	}
	exercise.MediaObjectKey = ""
	if _, err := s.exerciseRepo.Create(ctx, &exercise); err != nil {
		return nil, err
	}
	s.reindex.NotifyContentChanged("exercise created")
	return &exercise, nil
}

func (s *contentService) CreateExercises(ctx context.Context, exercises []domain.Exercise) ([]domain.Exercise, error) {
	if len(exercises) == 0 {
		return nil, invalid("at least one exercise is required")
	}
	for i := range exercises {
		if err := validateExercise(&exercises[i]); err != nil {
			return nil, invalid("exercise %d: %s", i, err.(*Error).Message)
		}
		exercises[i].MediaObjectKey = ""
	}
	if _, err := s.exerciseRepo.CreateMany(ctx, exercises); err != nil {
		return nil, err
	}
	s.reindex.NotifyContentChanged("exercises bulk created")
	return exercises, nil
}

func (s *contentService) UpdateExercise(ctx context.Context, id primitive.ObjectID, exercise domain.Exercise) (*domain.Exercise, error) {
	if err := validateExercise(&exercise); err != nil {
		return nil, err
	}
	exercise.ID = id
	if err := s.exerciseRepo.Update(ctx, &exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	s.reindex.NotifyContentChanged("exercise updated")
	return s.GetExercise(ctx, id)
}

func (s *contentService) DeleteExercise(ctx context.Context, id primitive.ObjectID) error {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	if err := s.exerciseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	if s.files != nil && exercise.MediaObjectKey != "" {
		if err := s.files.DeleteObject(ctx, exercise.MediaObjectKey); err != nil {
			s.log.Warn("orphaned exercise media", "exercise_id", id.Hex(), "object_key", exercise.MediaObjectKey, "error", err)
		}
	}
	s.reindex.NotifyContentChanged("exercise deleted")
	return nil
}

func (s *contentService) RequestExerciseMediaUpload(ctx context.Context, id primitive.ObjectID, contentType string) (*MediaUpload, error) {
	if s.files == nil {
		return nil, ErrMediaStorageDisabled
	}
	if _, err := s.GetExercise(ctx, id); err != nil {
		return nil, err
	}
	key, err := storage.ExerciseMediaKey(id.Hex(), contentType)
	if err != nil {
		return nil, invalid("%s", err.Error())
	}
	url, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	return &MediaUpload{UploadURL: url, ObjectKey: key}, nil
}

func (s *contentService) ConfirmExerciseMedia(ctx context.Context, id primitive.ObjectID, objectKey string) (*domain.Exercise, error) {
	if s.files == nil {
		return nil, ErrMediaStorageDisabled
	}
	if !storage.IsExerciseMediaKey(id.Hex(), objectKey) {
		return nil, invalid("object key does not belong to this exercise")
	}
	previous, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if err := s.exerciseRepo.SetMediaObjectKey(ctx, id, objectKey); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if previous.MediaObjectKey != "" && previous.MediaObjectKey != objectKey {
		if err := s.files.DeleteObject(ctx, previous.MediaObjectKey); err != nil {
			s.log.Warn("could not delete replaced media", "exercise_id", id.Hex(), "object_key", previous.MediaObjectKey, "error", err)
		}
	}
	return s.GetExercise(ctx, id)
}

// --- Food items ---

func (s *contentService) ListFoodItems(ctx context.Context) ([]domain.FoodItem, error) {
	return s.foodRepo.List(ctx)
}

func (s *contentService) GetFoodItem(ctx context.Context, id primitive.ObjectID) (*domain.FoodItem, error) {
	item, err := s.foodRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFoodItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func validateFoodItem(item *domain.FoodItem) error {
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)
	if item.Name == "" || item.Category == "" {
		return invalid("food item name and category are required")
	}
	return nil
}

func (s *contentService) CreateFoodItem(ctx context.Context, item domain.FoodItem) (*domain.FoodItem, error) {
	if err := validateFoodItem(&item); err != nil {
		return nil, err
	}
	if _, err := s.foodRepo.Create(ctx, &item); err != nil {
		return nil, err
	}
	s.reindex.NotifyContentChanged("food item created")
	return &item, nil
}

func (s *contentService) CreateFoodItems(ctx context.Context, items []domain.FoodItem) ([]domain.FoodItem, error) {
	if len(items) == 0 {
		return nil, invalid("at least one food item is required")
	}
	for i := range items {
		if err := validateFoodItem(&items[i]); err != nil {
			return nil, invalid("food item %d: %s", i, err.(*Error).Message)
		}
	}
	if _, err := s.foodRepo.CreateMany(ctx, items); err != nil {
		return nil, err
	}
	s.reindex.NotifyContentChanged("food items bulk created")
	return items, nil
}

func (s *contentService) UpdateFoodItem(ctx context.Context, id primitive.ObjectID, item domain.FoodItem) (*domain.FoodItem, error) {
	if err := validateFoodItem(&item); err != nil {
		return nil, err
	}
	item.ID = id
	if err := s.foodRepo.Update(ctx, &item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFoodItemNotFound
		}
		return nil, err
	}
	s.reindex.NotifyContentChanged("food item updated")
	return s.GetFoodItem(ctx, id)
}

func (s *contentService) DeleteFoodItem(ctx context.Context, id primitive.ObjectID) error {
	if err := s.foodRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFoodItemNotFound
		}
		return err
	}
	s.reindex.NotifyContentChanged("food item deleted")
	return nil
}
