package service

import (
	"context"
	"strings"
	"time"

	"fitfusion/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// allTimeFloor is the window start for any period other than week, month or year.
var allTimeFloor = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Stats are completion totals over a trailing window.
type Stats struct {
	WorkoutsCompleted int64  `json:"workoutsCompleted"`
	CaloriesBurned    int64  `json:"caloriesBurned"`
	MinutesExercised  int64  `json:"minutesExercised"`
	Period            string `json:"period"`
}

type StatsService interface {
	Stats(ctx context.Context, userID primitive.ObjectID, period string) (*Stats, error)
}

type statsService struct {
	completionRepo repository.CompletionRepository
	now            func() time.Time
}

func NewStatsService(completionRepo repository.CompletionRepository) StatsService {
	return &statsService{completionRepo: completionRepo, now: time.Now}
}

// WindowStart maps a period name to the earliest completedAt that counts.
func WindowStart(now time.Time, period string) time.Time {
	switch strings.ToLower(strings.TrimSpace(period)) {
	case "week":
		return now.AddDate(0, 0, -7)
	case "month":
		return now.AddDate(0, 0, -30)
	case "year":
		return now.AddDate(0, 0, -365)
	default:
		return allTimeFloor
	}
}

func (s *statsService) Stats(ctx context.Context, userID primitive.ObjectID, period string) (*Stats, error) {
	since := WindowStart(s.now().UTC(), period)
	totals, err := s.completionRepo.TotalsSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	return &Stats{
		WorkoutsCompleted: totals.Workouts,
		CaloriesBurned:    totals.Calories,
		MinutesExercised:  totals.Minutes,
		Period:            period,
	}, nil
}
