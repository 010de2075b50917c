package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/logger"
	"fitfusion/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CompletionInput is one "mark exercise complete" submission.
type CompletionInput struct {
	PlanBundleID primitive.ObjectID
	WeekNumber   int
	DayNumber    int
	ExerciseName string
	domain.CompletionMetrics
}

type CompletionService interface {
	// Upsert writes the record for the natural key, overwriting metrics if it exists.
	Upsert(ctx context.Context, userID primitive.ObjectID, in CompletionInput) (*domain.CompletionRecord, error)
	// Remove deletes the record if present; a missing record is not an error.
	Remove(ctx context.Context, key domain.CompletionKey) error
	ListForBundle(ctx context.Context, userID, planBundleID primitive.ObjectID) ([]domain.CompletionRecord, error)
	ListForWeek(ctx context.Context, userID, planBundleID primitive.ObjectID, week int) ([]domain.CompletionRecord, error)
}

type completionService struct {
	userRepo       repository.UserRepository
	bundleRepo     repository.PlanBundleRepository
	completionRepo repository.CompletionRepository
	log            *logger.Logger
	now            func() time.Time
}

func NewCompletionService(
	userRepo repository.UserRepository,
	bundleRepo repository.PlanBundleRepository,
	completionRepo repository.CompletionRepository,
	log *logger.Logger,
) CompletionService {
	return &completionService{
		userRepo:       userRepo,
		bundleRepo:     bundleRepo,
		completionRepo: completionRepo,
		log:            log.With("service", "CompletionService"),
		now:            time.Now,
	}
}

func validateKey(key domain.CompletionKey) error {
	if key.PlanBundleID == primitive.NilObjectID {
		return invalid("planBundleId is required")
	}
	if key.WeekNumber < 1 || key.DayNumber < 1 {
		return invalid("weekNumber and dayNumber must be positive")
	}
	if strings.TrimSpace(key.ExerciseName) == "" {
		return invalid("exerciseName is required")
	}
	return nil
}

func (s *completionService) Upsert(ctx context.Context, userID primitive.ObjectID, in CompletionInput) (*domain.CompletionRecord, error) {
	key := domain.CompletionKey{
		UserID:       userID,
		PlanBundleID: in.PlanBundleID,
		WeekNumber:   in.WeekNumber,
		DayNumber:    in.DayNumber,
		ExerciseName: strings.TrimSpace(in.ExerciseName),
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	bundle, err := s.bundleRepo.GetByID(ctx, key.PlanBundleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBundleNotFound
		}
		return nil, err
	}
	// another user's bundle is reported the same as a missing one
	if bundle.UserID != userID {
		return nil, ErrBundleNotFound
	}

	completedAt := s.now().UTC()

	existing, err := s.completionRepo.FindByKey(ctx, key)
	switch {
	case err == nil:
		return s.overwrite(ctx, existing, in.CompletionMetrics, completedAt)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	record := &domain.CompletionRecord{
		UserID:            key.UserID,
		PlanBundleID:      key.PlanBundleID,
		WeekNumber:        key.WeekNumber,
		DayNumber:         key.DayNumber,
		ExerciseName:      key.ExerciseName,
		CompletionMetrics: in.CompletionMetrics,
		CompletedAt:       completedAt,
	}
	id, err := s.completionRepo.Create(ctx, record)
	if err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		// a concurrent submission created the key first; last write wins
		existing, findErr := s.completionRepo.FindByKey(ctx, key)
		if findErr != nil {
			return nil, findErr
		}
		return s.overwrite(ctx, existing, in.CompletionMetrics, completedAt)
	}
	record.ID = id
	s.log.Debug("completion recorded", "user_id", userID.Hex(), "bundle_id", key.PlanBundleID.Hex(),
		"week", key.WeekNumber, "day", key.DayNumber, "exercise", key.ExerciseName)
	return record, nil
}

func (s *completionService) overwrite(ctx context.Context, record *domain.CompletionRecord, metrics domain.CompletionMetrics, completedAt time.Time) (*domain.CompletionRecord, error) {
	if err := s.completionRepo.UpdateMetrics(ctx, record.ID, metrics, completedAt); err != nil {
		return nil, err
	}
	record.CompletionMetrics = metrics
	record.CompletedAt = completedAt
	return record, nil
}

func (s *completionService) Remove(ctx context.Context, key domain.CompletionKey) error {
	key.ExerciseName = strings.TrimSpace(key.ExerciseName)
	if err := validateKey(key); err != nil {
		return err
	}
	removed, err := s.completionRepo.DeleteByKey(ctx, key)
	if err != nil {
		return err
	}
	if removed {
		s.log.Debug("completion removed", "user_id", key.UserID.Hex(), "bundle_id", key.PlanBundleID.Hex(),
			"week", key.WeekNumber, "day", key.DayNumber, "exercise", key.ExerciseName)
	}
	return nil
}

func (s *completionService) ListForBundle(ctx context.Context, userID, planBundleID primitive.ObjectID) ([]domain.CompletionRecord, error) {
	records, err := s.completionRepo.ListByBundle(ctx, userID, planBundleID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.CompletionRecord{}
	}
	return records, nil
}

func (s *completionService) ListForWeek(ctx context.Context, userID, planBundleID primitive.ObjectID, week int) ([]domain.CompletionRecord, error) {
	records, err := s.completionRepo.ListByWeek(ctx, userID, planBundleID, week)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.CompletionRecord{}
	}
	return records, nil
}
