package service

import (
	"context"
	"errors"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/generation"
	"fitfusion/backend/internal/logger"
	"fitfusion/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// DashboardStats are the admin overview counters.
type DashboardStats struct {
	TotalUsers             int64            `json:"totalUsers"`
	TotalExercises         int64            `json:"totalExercises"`
	TotalFoodItems         int64            `json:"totalFoodItems"`
	TotalPlans             int64            `json:"totalPlans"`
	TotalCompletions       int64            `json:"totalCompletions"`
	ExercisesByMuscleGroup map[string]int64 `json:"exercisesByMuscleGroup"`
}

type AdminService interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	// ProviderStatus never fails; an unreachable provider is reported in the document.
	ProviderStatus(ctx context.Context) map[string]interface{}
	TriggerReindex(ctx context.Context, mode string) (map[string]interface{}, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUserRole(ctx context.Context, userID primitive.ObjectID, role domain.Role) (*domain.User, error)
}

type adminService struct {
	userRepo       repository.UserRepository
	exerciseRepo   repository.ExerciseRepository
	foodRepo       repository.FoodItemRepository
	bundleRepo     repository.PlanBundleRepository
	completionRepo repository.CompletionRepository
	provider       generation.Provider
	log            *logger.Logger
}

func NewAdminService(
	userRepo repository.UserRepository,
	exerciseRepo repository.ExerciseRepository,
	foodRepo repository.FoodItemRepository,
	bundleRepo repository.PlanBundleRepository,
	completionRepo repository.CompletionRepository,
	provider generation.Provider,
	log *logger.Logger,
) AdminService {
	return &adminService{
		userRepo:       userRepo,
		exerciseRepo:   exerciseRepo,
		foodRepo:       foodRepo,
		bundleRepo:     bundleRepo,
		completionRepo: completionRepo,
		provider:       provider,
		log:            log.With("service", "AdminService"),
	}
}

func (s *adminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	g, gctx := errgroup.WithContext(ctx)
	count := func(dst *int64, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(gctx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	count(&stats.TotalUsers, s.userRepo.Count)
	count(&stats.TotalExercises, s.exerciseRepo.Count)
	count(&stats.TotalFoodItems, s.foodRepo.Count)
	count(&stats.TotalPlans, s.bundleRepo.Count)
	count(&stats.TotalCompletions, s.completionRepo.Count)
	g.Go(func() error {
		byGroup, err := s.exerciseRepo.CountByMuscleGroup(gctx)
		if err != nil {
			return err
		}
		stats.ExercisesByMuscleGroup = byGroup
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *adminService) ProviderStatus(ctx context.Context) map[string]interface{} {
	status, err := s.provider.Status(ctx)
	if err != nil {
		s.log.Warn("provider status check failed", "error", err)
		return map[string]interface{}{"status": "error", "message": err.Error()}
	}
	return status
}

func (s *adminService) TriggerReindex(ctx context.Context, mode string) (map[string]interface{}, error) {
	if mode == "" {
		mode = "full"
	}
	out, err := s.provider.TriggerReindex(ctx, mode)
	if err != nil {
		return nil, wrap(ErrProviderFailure, err)
	}
	return out, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *adminService) UpdateUserRole(ctx context.Context, userID primitive.ObjectID, role domain.Role) (*domain.User, error) {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, invalid("unknown role %q", role)
	}
	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.log.Info("user role updated", "user_id", userID.Hex(), "role", role)
	return user, nil
}
