package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ledgerFixture struct {
	store  *memStore
	clock  *fixedClock
	svc    *completionService
	stats  *statsService
	userID primitive.ObjectID
	bundle primitive.ObjectID
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	store := newMemStore()
	clock := &fixedClock{t: time.Date(2026, time.May, 20, 9, 0, 0, 0, time.UTC)}
	ctx := context.Background()

	userID, err := memUserRepo{store}.Create(ctx, &domain.User{Name: "A", Email: "a@example.com", PasswordHash: "x", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	bundleID, err := memBundleRepo{store}.Create(ctx, &domain.PlanBundle{UserID: userID, Status: domain.BundleActive, CreatedAt: clock.now()})
	if err != nil {
		t.Fatalf("create bundle: %v", err)
	}

	svc := NewCompletionService(memUserRepo{store}, memBundleRepo{store}, memCompletionRepo{store}, logger.Nop()).(*completionService)
	svc.now = clock.now
	stats := NewStatsService(memCompletionRepo{store}).(*statsService)
	stats.now = clock.now

	return &ledgerFixture{store: store, clock: clock, svc: svc, stats: stats, userID: userID, bundle: bundleID}
}

func intPtr(v int) *int { return &v }

func (f *ledgerFixture) input(exercise string, week, day int, m domain.CompletionMetrics) CompletionInput {
	return CompletionInput{PlanBundleID: f.bundle, WeekNumber: week, DayNumber: day, ExerciseName: exercise, CompletionMetrics: m}
}

func TestUpsertOverwritesSameKey(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	first, err := f.svc.Upsert(ctx, f.userID, f.input("Squat", 1, 1, domain.CompletionMetrics{SetsCompleted: intPtr(3), Notes: "easy"}))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	f.clock.advance(10 * time.Minute)
	second, err := f.svc.Upsert(ctx, f.userID, f.input("Squat", 1, 1, domain.CompletionMetrics{SetsCompleted: intPtr(5), CaloriesBurned: intPtr(120)}))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("same key must keep the record id: first=%s second=%s", first.ID.Hex(), second.ID.Hex())
	}

	records, _ := f.svc.ListForBundle(ctx, f.userID, f.bundle)
	if len(records) != 1 {
		t.Fatalf("records: want=1 got=%d", len(records))
	}
	r := records[0]
	if *r.SetsCompleted != 5 || r.CaloriesBurned == nil || *r.CaloriesBurned != 120 || r.Notes != "" {
		t.Fatalf("metrics must reflect the second call: %+v", r.CompletionMetrics)
	}
	if !r.CompletedAt.Equal(f.clock.now()) {
		t.Fatalf("completedAt must refresh: want=%v got=%v", f.clock.now(), r.CompletedAt)
	}
}

func TestUpsertRequiresUserAndBundle(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Upsert(ctx, primitive.NewObjectID(), f.input("Squat", 1, 1, domain.CompletionMetrics{})); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user: want=%v got=%v", ErrUserNotFound, err)
	}

	in := f.input("Squat", 1, 1, domain.CompletionMetrics{})
	in.PlanBundleID = primitive.NewObjectID()
	if _, err := f.svc.Upsert(ctx, f.userID, in); !errors.Is(err, ErrBundleNotFound) {
		t.Fatalf("unknown bundle: want=%v got=%v", ErrBundleNotFound, err)
	}

	other, _ := memUserRepo{f.store}.Create(ctx, &domain.User{Name: "B", Email: "b@example.com", PasswordHash: "x", Role: domain.RoleUser})
	if _, err := f.svc.Upsert(ctx, other, f.input("Squat", 1, 1, domain.CompletionMetrics{})); !errors.Is(err, ErrBundleNotFound) {
		t.Fatalf("foreign bundle: want=%v got=%v", ErrBundleNotFound, err)
	}
	if n, _ := (memCompletionRepo{f.store}).Count(ctx); n != 0 {
		t.Fatalf("rejected upserts must not write: count=%d", n)
	}
}

func TestUpsertValidatesKey(t *testing.T) {
	f := newLedgerFixture(t)
	for _, in := range []CompletionInput{
		f.input("", 1, 1, domain.CompletionMetrics{}),
		f.input("Squat", 0, 1, domain.CompletionMetrics{}),
		f.input("Squat", 1, -1, domain.CompletionMetrics{}),
	} {
		if _, err := f.svc.Upsert(context.Background(), f.userID, in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v: want=%v got=%v", in, ErrInvalidInput, err)
		}
	}
}

func TestUnmarkRemovesFromWeek(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Upsert(ctx, f.userID, f.input("Squat", 1, 1, domain.CompletionMetrics{SetsCompleted: intPtr(3)})); err != nil {
		t.Fatalf("upsert squat: %v", err)
	}
	if _, err := f.svc.Upsert(ctx, f.userID, f.input("Plank", 1, 2, domain.CompletionMetrics{})); err != nil {
		t.Fatalf("upsert plank: %v", err)
	}

	key := domain.CompletionKey{UserID: f.userID, PlanBundleID: f.bundle, WeekNumber: 1, DayNumber: 1, ExerciseName: "Squat"}
	if err := f.svc.Remove(ctx, key); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	// removing again is a no-op
	if err := f.svc.Remove(ctx, key); err != nil {
		t.Fatalf("second Remove: %v", err)
	}

	week, err := f.svc.ListForWeek(ctx, f.userID, f.bundle, 1)
	if err != nil {
		t.Fatalf("ListForWeek: %v", err)
	}
	if len(week) != 1 || week[0].ExerciseName != "Plank" {
		t.Fatalf("week 1 must only contain Plank: %+v", week)
	}
}

func TestListsAreNeverNil(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	all, err := f.svc.ListForBundle(ctx, f.userID, primitive.NewObjectID())
	if err != nil || all == nil {
		t.Fatalf("ListForBundle: records=%v err=%v", all, err)
	}
	week, err := f.svc.ListForWeek(ctx, f.userID, f.bundle, 9)
	if err != nil || week == nil {
		t.Fatalf("ListForWeek: records=%v err=%v", week, err)
	}
}

func TestStatsWindow(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Upsert(ctx, f.userID, f.input("Run", 1, 1, domain.CompletionMetrics{CaloriesBurned: intPtr(300), DurationMinutes: intPtr(30)})); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	week, err := f.stats.Stats(ctx, f.userID, "week")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if week.CaloriesBurned < 300 || week.WorkoutsCompleted != 1 || week.MinutesExercised != 30 || week.Period != "week" {
		t.Fatalf("week stats: %+v", week)
	}

	f.clock.advance(8 * 24 * time.Hour)
	week, _ = f.stats.Stats(ctx, f.userID, "week")
	if week.WorkoutsCompleted != 0 || week.CaloriesBurned != 0 || week.MinutesExercised != 0 {
		t.Fatalf("completion must fall out of the week window: %+v", week)
	}
	month, _ := f.stats.Stats(ctx, f.userID, "month")
	if month.CaloriesBurned != 300 {
		t.Fatalf("month stats: %+v", month)
	}
	all, _ := f.stats.Stats(ctx, f.userID, "all")
	if all.WorkoutsCompleted != 1 || all.Period != "all" {
		t.Fatalf("all-time stats: %+v", all)
	}
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	cases := map[string]time.Time{
		"week":    now.AddDate(0, 0, -7),
		"MONTH":   now.AddDate(0, 0, -30),
		"year":    now.AddDate(0, 0, -365),
		"all":     allTimeFloor,
		"bananas": allTimeFloor,
	}
	for period, want := range cases {
		if got := WindowStart(now, period); !got.Equal(want) {
			t.Fatalf("WindowStart(%q): want=%v got=%v", period, want, got)
		}
	}
}
