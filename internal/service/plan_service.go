package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/generation"
	"fitfusion/backend/internal/locker"
	"fitfusion/backend/internal/logger"
	"fitfusion/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// PlanGenerationResult is returned by a successful GeneratePlan.
type PlanGenerationResult struct {
	PlanBundleID primitive.ObjectID     `json:"planBundleId"`
	WorkoutPlan  map[string]interface{} `json:"workoutPlan"`
	DietPlan     map[string]interface{} `json:"dietPlan"`
	Metadata     map[string]interface{} `json:"metadata"`
}

// BundleDetail is a bundle with both artifacts resolved.
type BundleDetail struct {
	domain.PlanBundle
	WorkoutPlan *domain.WorkoutPlan `json:"workoutPlan"`
	DietPlan    *domain.DietPlan    `json:"dietPlan"`
}

// Principal is the authenticated caller.
type Principal struct {
	UserID primitive.ObjectID
	Role   domain.Role
}

// CanAccess reports whether the principal may read data owned by ownerID.
func (p Principal) CanAccess(ownerID primitive.ObjectID) bool {
	return p.Role == domain.RoleAdmin || p.UserID == ownerID
}

type PlanService interface {
	CanGenerate(ctx context.Context, userID primitive.ObjectID) (GateDecision, error)
	// GeneratePlan retires the user's active bundle and creates a new one from the
	// provider's output in one transaction. Any failure leaves prior bundles untouched.
	GeneratePlan(ctx context.Context, userID primitive.ObjectID) (*PlanGenerationResult, error)
	// ListPlans returns the user's bundles, newest first.
	ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.PlanBundle, error)
	GetBundle(ctx context.Context, caller Principal, bundleID primitive.ObjectID) (*BundleDetail, error)
	// SetBundleStatus is the admin status write. Moving a bundle to active or restored
	// abandons the owner's other active bundles first.
	SetBundleStatus(ctx context.Context, bundleID primitive.ObjectID, status domain.BundleStatus) (*domain.PlanBundle, error)
}

type planService struct {
	tx           repository.Transactor
	userRepo     repository.UserRepository
	prefRepo     repository.PreferenceRepository
	bundleRepo   repository.PlanBundleRepository
	artifactRepo repository.PlanArtifactRepository
	genLogRepo   repository.GenerationLogRepository
	gate         *PreferenceGate
	provider     generation.Provider
	locks        locker.Locker
	log          *logger.Logger
	now          func() time.Time
}

func NewPlanService(
	tx repository.Transactor,
	userRepo repository.UserRepository,
	prefRepo repository.PreferenceRepository,
	bundleRepo repository.PlanBundleRepository,
	artifactRepo repository.PlanArtifactRepository,
	genLogRepo repository.GenerationLogRepository,
	provider generation.Provider,
	locks locker.Locker,
	log *logger.Logger,
) PlanService {
	return &planService{
		tx:           tx,
		userRepo:     userRepo,
		prefRepo:     prefRepo,
		bundleRepo:   bundleRepo,
		artifactRepo: artifactRepo,
		genLogRepo:   genLogRepo,
		gate:         NewPreferenceGate(prefRepo, bundleRepo),
		provider:     provider,
		locks:        locks,
		log:          log.With("service", "PlanService"),
		now:          time.Now,
	}
}

func (s *planService) CanGenerate(ctx context.Context, userID primitive.ObjectID) (GateDecision, error) {
	return s.gate.CanGenerate(ctx, userID)
}

func (s *planService) GeneratePlan(ctx context.Context, userID primitive.ObjectID) (*PlanGenerationResult, error) {
	release, err := s.locks.TryLock(ctx, "generate-plan:"+userID.Hex())
	if err != nil {
		if errors.Is(err, locker.ErrLocked) {
			return nil, ErrGenerationInProgress
		}
		return nil, err
	}
	defer release()

	var result *PlanGenerationResult
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var txErr error
		result, txErr = s.generate(ctx, userID)
		return txErr
	})
	if err != nil {
		s.log.Warn("plan generation aborted", "user_id", userID.Hex(), "error", err)
		// a concurrent generation for the same user won the write
		if errors.Is(err, repository.ErrConflict) {
			return nil, wrap(ErrGenerationInProgress, err)
		}
		return nil, err
	}
	s.log.Info("plan generated", "user_id", userID.Hex(), "bundle_id", result.PlanBundleID.Hex())
	return result, nil
}

// generate runs inside the transaction; every write rolls back if it returns an error.
func (s *planService) generate(ctx context.Context, userID primitive.ObjectID) (*PlanGenerationResult, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	prefs, err := s.prefRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOnboardingIncomplete
		}
		return nil, err
	}

	decision, err := s.gate.check(ctx, prefs)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, ErrPreferencesUnchanged
	}

	if _, err := s.retireActiveBundles(ctx, userID, primitive.NilObjectID); err != nil {
		return nil, err
	}

	payload := BuildPreferencePayload(prefs)

	started := time.Now()
	response, err := s.provider.Generate(ctx, userID.Hex(), payload)
	duration := time.Since(started)
	if err != nil {
		return nil, wrap(ErrProviderFailure, err)
	}

	workoutSection, ok := response["workout_plan"].(map[string]interface{})
	if !ok {
		return nil, wrap(ErrProviderFailure, errors.New("response has no workout_plan object"))
	}
	dietSection, ok := response["diet_plan"].(map[string]interface{})
	if !ok {
		return nil, wrap(ErrProviderFailure, errors.New("response has no diet_plan object"))
	}
	metadata, _ := response["metadata"].(map[string]interface{})
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	now := s.now().UTC()

	workoutPlan := &domain.WorkoutPlan{
		PlanJSON:         workoutSection,
		TotalWeeks:       coerceInt(workoutSection["total_weeks"]),
		FrequencyPerWeek: coerceInt(workoutSection["frequency_per_week"]),
		Summary:          coerceString(workoutSection["summary"]),
		CreatedAt:        now,
	}
	workoutPlanID, err := s.artifactRepo.CreateWorkoutPlan(ctx, workoutPlan)
	if err != nil {
		return nil, fmt.Errorf("store workout plan: %w", err)
	}

	dietPlan := &domain.DietPlan{
		PlanJSON:           dietSection,
		TotalDailyCalories: coerceInt(dietSection["total_daily_calories"]),
		TotalDailyProtein:  coerceInt(dietSection["total_daily_protein"]),
		Summary:            coerceString(dietSection["summary"]),
		CreatedAt:          now,
	}
	dietPlanID, err := s.artifactRepo.CreateDietPlan(ctx, dietPlan)
	if err != nil {
		return nil, fmt.Errorf("store diet plan: %w", err)
	}

	startDate, deadline := planDates(now, payload.DurationWeeks)
	bundle := &domain.PlanBundle{
		UserID:              userID,
		Status:              domain.BundleActive,
		StartDate:           startDate,
		ChangeDeadline:      deadline,
		WorkoutPlanID:       workoutPlanID,
		DietPlanID:          dietPlanID,
		PreferencesSnapshot: payload,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	bundleID, err := s.bundleRepo.Create(ctx, bundle)
	if err != nil {
		// the one-active-bundle index rejected us: another generation won
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrGenerationInProgress
		}
		return nil, fmt.Errorf("store plan bundle: %w", err)
	}

	entry := &domain.GenerationLog{
		UserID:       userID,
		PlanBundleID: bundleID,
		RequestPayload: map[string]interface{}{
			"user_id":     userID.Hex(),
			"preferences": toDocument(payload),
		},
		ResponsePayload: response,
		ModelUsed:       coerceString(metadata["llm_model"]),
		DurationMs:      duration.Milliseconds(),
		Timestamp:       now,
	}
	if _, err := s.genLogRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("store generation log: %w", err)
	}

	return &PlanGenerationResult{
		PlanBundleID: bundleID,
		WorkoutPlan:  workoutSection,
		DietPlan:     dietSection,
		Metadata:     metadata,
	}, nil
}

// retireActiveBundles moves every active bundle of the user except keep to abandoned.
// No active bundles is not an error.
func (s *planService) retireActiveBundles(ctx context.Context, userID, keep primitive.ObjectID) (int, error) {
	active, err := s.bundleRepo.ListByUserIDAndStatus(ctx, userID, domain.BundleActive)
	if err != nil {
		return 0, err
	}
	retired := 0
	for _, b := range active {
		if b.ID == keep {
			continue
		}
		if err := s.bundleRepo.UpdateStatus(ctx, b.ID, domain.BundleAbandoned); err != nil {
			return retired, fmt.Errorf("abandon bundle %s: %w", b.ID.Hex(), err)
		}
		retired++
	}
	if retired > 0 {
		s.log.Info("abandoned active bundles", "user_id", userID.Hex(), "count", retired)
	}
	return retired, nil
}

func (s *planService) ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.PlanBundle, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.bundleRepo.ListByUserID(ctx, userID)
}

func (s *planService) getBundle(ctx context.Context, bundleID primitive.ObjectID) (*domain.PlanBundle, error) {
	bundle, err := s.bundleRepo.GetByID(ctx, bundleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBundleNotFound
		}
		return nil, err
	}
	return bundle, nil
}

func (s *planService) GetBundle(ctx context.Context, caller Principal, bundleID primitive.ObjectID) (*BundleDetail, error) {
	bundle, err := s.getBundle(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(bundle.UserID) {
		return nil, ErrForbidden
	}

	detail := &BundleDetail{PlanBundle: *bundle}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		wp, err := s.artifactRepo.GetWorkoutPlan(gctx, bundle.WorkoutPlanID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrWorkoutPlanNotFound
			}
			return err
		}
		detail.WorkoutPlan = wp
		return nil
	})
	g.Go(func() error {
		dp, err := s.artifactRepo.GetDietPlan(gctx, bundle.DietPlanID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrDietPlanNotFound
			}
			return err
		}
		detail.DietPlan = dp
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *planService) SetBundleStatus(ctx context.Context, bundleID primitive.ObjectID, status domain.BundleStatus) (*domain.PlanBundle, error) {
	if !status.Valid() {
		return nil, invalid("unknown bundle status %q", status)
	}

	var updated *domain.PlanBundle
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		bundle, err := s.getBundle(ctx, bundleID)
		if err != nil {
			return err
		}
		if status == domain.BundleActive || status == domain.BundleRestored {
			if _, err := s.retireActiveBundles(ctx, bundle.UserID, bundle.ID); err != nil {
				return err
			}
		}
		if err := s.bundleRepo.UpdateStatus(ctx, bundle.ID, status); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrBundleNotFound
			}
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrGenerationInProgress
			}
			return err
		}
		bundle.Status = status
		bundle.UpdatedAt = s.now().UTC()
		updated = bundle
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("bundle status changed", "bundle_id", bundleID.Hex(), "status", status)
	return updated, nil
}
