package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/logger"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func TestRegisterAndLogin(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(memUserRepo{store}, "test-secret", time.Hour, logger.Nop())
	ctx := context.Background()

	token, user, err := svc.Register(ctx, "Ana", " Ana@Example.com ", "s3cret!")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != domain.RoleUser || user.Email != "ana@example.com" || user.PasswordHash != "" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil }); err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.UserID != user.ID.Hex() || claims.Role != domain.RoleUser {
		t.Fatalf("claims: %+v", claims)
	}

	if _, _, err := svc.Register(ctx, "Other", "ana@example.com", "x"); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("duplicate register: want=%v got=%v", ErrUserAlreadyExists, err)
	}
	if _, _, err := svc.Login(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("bad password: want=%v got=%v", ErrAuthenticationFailed, err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "x"); !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("unknown user: want=%v got=%v", ErrAuthenticationFailed, err)
	}
	if _, got, err := svc.Login(ctx, "ANA@example.com", "s3cret!"); err != nil || got.ID != user.ID {
		t.Fatalf("Login: user=%v err=%v", got, err)
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	store := newMemStore()
	svc := NewAuthService(memUserRepo{store}, "test-secret", time.Hour, logger.Nop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := svc.EnsureAdmin(ctx, "", "root@example.com", "rootpw"); err != nil {
			t.Fatalf("EnsureAdmin #%d: %v", i, err)
		}
	}
	if n, _ := (memUserRepo{store}).Count(ctx); n != 1 {
		t.Fatalf("users: want=1 got=%d", n)
	}
	admin, _ := memUserRepo{store}.GetByEmail(ctx, "root@example.com")
	if admin.Role != domain.RoleAdmin || admin.Name != "Admin User" {
		t.Fatalf("bootstrap admin: %+v", admin)
	}
	if err := svc.EnsureAdmin(ctx, "", "", ""); err != nil {
		t.Fatalf("no admin configured must be a no-op: %v", err)
	}
}

func newUserFixture(t *testing.T) (*userService, *memStore, primitive.ObjectID, *fixedClock) {
	t.Helper()
	store := newMemStore()
	auth := NewAuthService(memUserRepo{store}, "test-secret", time.Hour, logger.Nop())
	_, user, err := auth.Register(context.Background(), "Ana", "ana@example.com", "oldpass")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	clock := &fixedClock{t: time.Date(2026, time.April, 1, 8, 0, 0, 0, time.UTC)}
	svc := NewUserService(memUserRepo{store}, memPrefRepo{store}, logger.Nop()).(*userService)
	svc.now = clock.now
	return svc, store, user.ID, clock
}

func TestUpdateProfileAppliesOnlyPresentFields(t *testing.T) {
	svc, store, uid, _ := newUserFixture(t)
	ctx := context.Background()

	age := 31
	if _, err := svc.UpdateProfile(ctx, uid, domain.UserPatch{Age: &age}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	stored, _ := memUserRepo{store}.GetByID(ctx, uid)
	if stored.Name != "Ana" || stored.Age == nil || *stored.Age != 31 {
		t.Fatalf("patch must only touch age: %+v", stored)
	}

	bad := domain.UserPatch{CurrentPassword: strPtr("nope"), NewPassword: strPtr("newpass1")}
	if _, err := svc.UpdateProfile(ctx, uid, bad); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("wrong current password: want=%v got=%v", ErrWrongPassword, err)
	}

	good := domain.UserPatch{Name: strPtr("Ana B"), CurrentPassword: strPtr("oldpass"), NewPassword: strPtr("newpass1")}
	updated, err := svc.UpdateProfile(ctx, uid, good)
	if err != nil {
		t.Fatalf("password change: %v", err)
	}
	if updated.Name != "Ana B" || updated.PasswordHash != "" {
		t.Fatalf("returned user: %+v", updated)
	}
	auth := NewAuthService(memUserRepo{store}, "test-secret", time.Hour, logger.Nop())
	if _, _, err := auth.Login(ctx, "ana@example.com", "newpass1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestSavePreferencesStampsUpdatedAt(t *testing.T) {
	svc, _, uid, clock := newUserFixture(t)
	ctx := context.Background()

	if _, err := svc.GetPreferences(ctx, uid); !errors.Is(err, ErrPreferencesNotFound) {
		t.Fatalf("missing prefs: want=%v got=%v", ErrPreferencesNotFound, err)
	}

	first, err := svc.SavePreferences(ctx, uid, domain.PreferenceProfile{Goal: "weight_loss", UpdatedAt: time.Unix(0, 0)})
	if err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	if !first.UpdatedAt.Equal(clock.now()) || first.UserID != uid {
		t.Fatalf("first save: %+v", first)
	}

	clock.advance(time.Minute)
	second, err := svc.SavePreferences(ctx, uid, domain.PreferenceProfile{Goal: "strength"})
	if err != nil {
		t.Fatalf("SavePreferences: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("profile must be overwritten in place: first=%s second=%s", first.ID.Hex(), second.ID.Hex())
	}

	profile, err := svc.GetProfile(ctx, uid)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.Preferences == nil || profile.Preferences.Goal != "strength" || !profile.Preferences.UpdatedAt.Equal(clock.now()) {
		t.Fatalf("profile preferences: %+v", profile.Preferences)
	}

	if _, err := svc.SavePreferences(ctx, primitive.NewObjectID(), domain.PreferenceProfile{}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user: want=%v got=%v", ErrUserNotFound, err)
	}
}
