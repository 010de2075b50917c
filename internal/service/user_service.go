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
	"golang.org/x/crypto/bcrypt"
)

// Profile is a user together with their preference profile, if one exists.
type Profile struct {
	User        *domain.User              `json:"user"`
	Preferences *domain.PreferenceProfile `json:"preferences,omitempty"`
}

type UserService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*Profile, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, patch domain.UserPatch) (*domain.User, error)
	GetPreferences(ctx context.Context, userID primitive.ObjectID) (*domain.PreferenceProfile, error)
	// SavePreferences overwrites the user's single profile and stamps UpdatedAt,
	// which re-opens the plan generation gate.
	SavePreferences(ctx context.Context, userID primitive.ObjectID, prefs domain.PreferenceProfile) (*domain.PreferenceProfile, error)
}

type userService struct {
	userRepo repository.UserRepository
	prefRepo repository.PreferenceRepository
	log      *logger.Logger
	now      func() time.Time
}

func NewUserService(userRepo repository.UserRepository, prefRepo repository.PreferenceRepository, log *logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		prefRepo: prefRepo,
		log:      log.With("service", "UserService"),
		now:      time.Now,
	}
}

func (s *userService) getUser(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*Profile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := &Profile{User: user}
	prefs, err := s.prefRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		profile.Preferences = prefs
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}
	return profile, nil
}

// UpdateProfile applies only the fields present in patch.
func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, patch domain.UserPatch) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalid("name cannot be empty")
		}
		user.Name = name
	}
	if patch.Age != nil {
		if *patch.Age <= 0 {
			return nil, invalid("age must be positive")
		}
		user.Age = patch.Age
	}
	if patch.Weight != nil {
		if *patch.Weight <= 0 {
			return nil, invalid("weight must be positive")
		}
		user.Weight = patch.Weight
	}
	if patch.Height != nil {
		if *patch.Height <= 0 {
			return nil, invalid("height must be positive")
		}
		user.Height = patch.Height
	}
	if patch.Gender != nil {
		user.Gender = *patch.Gender
	}
	if patch.NewPassword != nil {
		if len(*patch.NewPassword) < 6 {
			return nil, invalid("new password must be at least 6 characters")
		}
		if patch.CurrentPassword == nil ||
			bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*patch.CurrentPassword)) != nil {
			return nil, ErrWrongPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*patch.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashed)
	}

	user.UpdatedAt = s.now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) GetPreferences(ctx context.Context, userID primitive.ObjectID) (*domain.PreferenceProfile, error) {
	prefs, err := s.prefRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPreferencesNotFound
		}
		return nil, err
	}
	return prefs, nil
}

func (s *userService) SavePreferences(ctx context.Context, userID primitive.ObjectID, prefs domain.PreferenceProfile) (*domain.PreferenceProfile, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}
	if prefs.DurationWeeks != nil && *prefs.DurationWeeks <= 0 {
		return nil, invalid("durationWeeks must be positive")
	}

	prefs.ID = primitive.NilObjectID
	prefs.UserID = userID
	prefs.UpdatedAt = s.now().UTC()
	if err := s.prefRepo.Save(ctx, &prefs); err != nil {
		return nil, err
	}
	s.log.Info("preferences saved", "user_id", userID.Hex())
	return &prefs, nil
}
