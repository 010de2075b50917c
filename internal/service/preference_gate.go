package service

import (
	"context"
	"errors"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GateDecision says whether a user may request a new plan.
type GateDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// PreferenceGate allows a new plan only when the preference profile changed after
// the user's most recent bundle was created. It compares timestamps, not content.
type PreferenceGate struct {
	prefRepo   repository.PreferenceRepository
	bundleRepo repository.PlanBundleRepository
}

func NewPreferenceGate(prefRepo repository.PreferenceRepository, bundleRepo repository.PlanBundleRepository) *PreferenceGate {
	return &PreferenceGate{prefRepo: prefRepo, bundleRepo: bundleRepo}
}

// CanGenerate fails with ErrPreferencesNotFound when the user has no profile yet.
func (g *PreferenceGate) CanGenerate(ctx context.Context, userID primitive.ObjectID) (GateDecision, error) {
	prefs, err := g.prefRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return GateDecision{}, ErrPreferencesNotFound
		}
		return GateDecision{}, err
	}
	return g.check(ctx, prefs)
}

func (g *PreferenceGate) check(ctx context.Context, prefs *domain.PreferenceProfile) (GateDecision, error) {
	latest, err := g.bundleRepo.GetLatestByUserID(ctx, prefs.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return evaluateGate(prefs, nil), nil
		}
		return GateDecision{}, err
	}
	return evaluateGate(prefs, latest), nil
}

func evaluateGate(prefs *domain.PreferenceProfile, latest *domain.PlanBundle) GateDecision {
	if latest == nil {
		return GateDecision{Allowed: true}
	}
	if prefs.UpdatedAt.After(latest.CreatedAt) {
		return GateDecision{Allowed: true}
	}
	return GateDecision{Allowed: false, Reason: ErrPreferencesUnchanged.Message}
}
