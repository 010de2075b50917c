package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures; the API layer maps each kind to one status code.
type ErrorKind string

const (
	KindNotFound           ErrorKind = "not_found"
	KindPreconditionFailed ErrorKind = "precondition_failed"
	KindConflict           ErrorKind = "conflict"
	KindForbidden          ErrorKind = "forbidden"
	KindUpstream           ErrorKind = "upstream"
	KindValidation         ErrorKind = "validation"
	KindUnauthorized       ErrorKind = "unauthorized"
)

// Error is the error type returned by every service. Two Errors match under
// errors.Is when Kind and Code agree, so wrapped copies still match the sentinels below.
type Error struct {
	Kind     ErrorKind
	Code     string
	Message  string
	Internal error
}

func (e *Error) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Kind, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Internal
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind && e.Code == t.Code
	}
	return false
}

func newError(kind ErrorKind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// wrap returns a copy of sentinel carrying err as its cause.
func wrap(sentinel *Error, err error) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: sentinel.Message, Internal: err}
}

// invalid builds a validation error with a specific message.
func invalid(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Code: ErrInvalidInput.Code, Message: fmt.Sprintf(format, args...)}
}

// --- Error Definitions ---
var (
	ErrInvalidInput = newError(KindValidation, "invalid_input", "invalid input")

	ErrUserNotFound         = newError(KindNotFound, "user_not_found", "user not found")
	ErrPreferencesNotFound  = newError(KindNotFound, "preferences_not_found", "preferences not found")
	ErrBundleNotFound       = newError(KindNotFound, "plan_bundle_not_found", "plan bundle not found")
	ErrWorkoutPlanNotFound  = newError(KindNotFound, "workout_plan_not_found", "workout plan not found")
	ErrDietPlanNotFound     = newError(KindNotFound, "diet_plan_not_found", "diet plan not found")
	ErrExerciseNotFound     = newError(KindNotFound, "exercise_not_found", "exercise not found")
	ErrFoodItemNotFound     = newError(KindNotFound, "food_item_not_found", "food item not found")
	ErrOnboardingIncomplete = newError(KindPreconditionFailed, "onboarding_incomplete", "onboarding incomplete: preferences have not been set")
	ErrPreferencesUnchanged = newError(KindConflict, "preferences_unchanged", "preferences unchanged since last plan")
	ErrGenerationInProgress = newError(KindConflict, "generation_in_progress", "plan generation already in progress")
	ErrUserAlreadyExists    = newError(KindConflict, "email_taken", "user with this email already exists")
	ErrForbidden            = newError(KindForbidden, "forbidden", "access denied")
	ErrProviderFailure      = newError(KindUpstream, "provider_failure", "plan generation provider failed")
	ErrAuthenticationFailed = newError(KindUnauthorized, "authentication_failed", "invalid email or password")
	ErrWrongPassword        = newError(KindUnauthorized, "wrong_current_password", "current password is incorrect")
	ErrMediaStorageDisabled = newError(KindPreconditionFailed, "media_storage_disabled", "media storage is not configured")
)
