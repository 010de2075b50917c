package service

import (
	"encoding/json"
	"math"
	"time"

	"fitfusion/backend/internal/domain"
)

const (
	defaultExperienceLevel   = "beginner"
	defaultWorkoutLocation   = "home"
	defaultDietaryPreference = "mixed"
	defaultDurationWeeks     = 4
	defaultFrequencyPerWeek  = 5
)

// BuildPreferencePayload flattens a profile into the provider request shape.
// List fields are never nil.
func BuildPreferencePayload(p *domain.PreferenceProfile) domain.PreferencePayload {
	payload := domain.PreferencePayload{
		Age:                p.Age,
		Weight:             p.Weight,
		Height:             p.Height,
		Gender:             optionalString(p.Gender),
		Goal:               optionalString(p.Goal),
		ExperienceLevel:    orDefault(p.ExperienceLevel, defaultExperienceLevel),
		WorkoutLocation:    orDefault(p.WorkoutLocation, defaultWorkoutLocation),
		EquipmentList:      nonNil(p.EquipmentList),
		TargetMuscleGroups: nonNil(p.TargetMuscleGroups),
		DurationWeeks:      defaultDurationWeeks,
		FrequencyPerWeek:   defaultFrequencyPerWeek,
		DietaryPreference:  orDefault(p.DietaryPreference, defaultDietaryPreference),
		ExcludedFoods:      nonNil(p.ExcludedFoods),
		Allergies:          nonNil(p.Allergies),
		MedicalConditions:  nonNil(p.MedicalConditions),
	}
	if p.DurationWeeks != nil && *p.DurationWeeks > 0 {
		payload.DurationWeeks = *p.DurationWeeks
	}
	return payload
}

// planDates returns the start date (today, UTC midnight) and the change deadline.
func planDates(now time.Time, weeks int) (time.Time, time.Time) {
	if weeks <= 0 {
		weeks = defaultDurationWeeks
	}
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 7*weeks)
}

// coerceInt reads a provider number. Anything that is not a finite number yields 0.
func coerceInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float32:
		return coerceInt(float64(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return coerceInt(f)
		}
	}
	return 0
}

func coerceString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// toDocument re-encodes v as a generic JSON object for the generation log.
func toDocument(v interface{}) map[string]interface{} {
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]interface{}{}
	}
	out := map[string]interface{}{}
	_ = json.Unmarshal(raw, &out)
	return out
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
