package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore backs every fake repository. memTransactor snapshots it so a failed
// unit of work is rolled back the way a Mongo transaction would be.
type memStore struct {
	mu          sync.Mutex
	users       map[primitive.ObjectID]domain.User
	prefs       map[primitive.ObjectID]domain.PreferenceProfile
	bundles     map[primitive.ObjectID]domain.PlanBundle
	workouts    map[primitive.ObjectID]domain.WorkoutPlan
	diets       map[primitive.ObjectID]domain.DietPlan
	genLogs     []domain.GenerationLog
	completions map[primitive.ObjectID]domain.CompletionRecord
	exercises   map[primitive.ObjectID]domain.Exercise
	foods       map[primitive.ObjectID]domain.FoodItem

	failDietCreate error
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[primitive.ObjectID]domain.User{},
		prefs:       map[primitive.ObjectID]domain.PreferenceProfile{},
		bundles:     map[primitive.ObjectID]domain.PlanBundle{},
		workouts:    map[primitive.ObjectID]domain.WorkoutPlan{},
		diets:       map[primitive.ObjectID]domain.DietPlan{},
		completions: map[primitive.ObjectID]domain.CompletionRecord{},
		exercises:   map[primitive.ObjectID]domain.Exercise{},
		foods:       map[primitive.ObjectID]domain.FoodItem{},
	}
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type memSnapshot struct {
	users       map[primitive.ObjectID]domain.User
	prefs       map[primitive.ObjectID]domain.PreferenceProfile
	bundles     map[primitive.ObjectID]domain.PlanBundle
	workouts    map[primitive.ObjectID]domain.WorkoutPlan
	diets       map[primitive.ObjectID]domain.DietPlan
	genLogs     []domain.GenerationLog
	completions map[primitive.ObjectID]domain.CompletionRecord
}

func (m *memStore) snapshot() memSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memSnapshot{
		users:       copyMap(m.users),
		prefs:       copyMap(m.prefs),
		bundles:     copyMap(m.bundles),
		workouts:    copyMap(m.workouts),
		diets:       copyMap(m.diets),
		genLogs:     append([]domain.GenerationLog(nil), m.genLogs...),
		completions: copyMap(m.completions),
	}
}

func (m *memStore) restore(s memSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users, m.prefs, m.bundles = s.users, s.prefs, s.bundles
	m.workouts, m.diets, m.genLogs = s.workouts, s.diets, s.genLogs
	m.completions = s.completions
}

type memTransactor struct {
	store *memStore
	runs  int
	// commitErr fails the commit after fn succeeded, rolling everything back.
	commitErr error
}

func (t *memTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.runs++
	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	if t.commitErr != nil {
		t.store.restore(snap)
		return t.commitErr
	}
	return nil
}

// --- users ---

type memUserRepo struct{ *memStore }

func (r memUserRepo) Create(_ context.Context, u *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = *u
	return u.ID, nil
}

func (r memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r memUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.User{}
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r memUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	r.users[u.ID] = *u
	return nil
}

func (r memUserRepo) UpdateRole(_ context.Context, id primitive.ObjectID, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	r.users[id] = u
	return nil
}

func (r memUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

// --- preferences ---

type memPrefRepo struct{ *memStore }

func (r memPrefRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.PreferenceProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prefs[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r memPrefRepo) Save(_ context.Context, p *domain.PreferenceProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.prefs[p.UserID]; ok {
		p.ID = existing.ID
	} else {
		p.ID = primitive.NewObjectID()
	}
	r.prefs[p.UserID] = *p
	return nil
}

// --- bundles ---

type memBundleRepo struct{ *memStore }

func (r memBundleRepo) Create(_ context.Context, b *domain.PlanBundle) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.Status == domain.BundleActive {
		for _, other := range r.bundles {
			if other.UserID == b.UserID && other.Status == domain.BundleActive {
				return primitive.NilObjectID, repository.ErrDuplicate
			}
		}
	}
	b.ID = primitive.NewObjectID()
	r.bundles[b.ID] = *b
	return b.ID, nil
}

func (r memBundleRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.PlanBundle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bundles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r memBundleRepo) sorted(match func(domain.PlanBundle) bool) []domain.PlanBundle {
	out := []domain.PlanBundle{}
	for _, b := range r.bundles {
		if match(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out
}

func (r memBundleRepo) GetLatestByUserID(_ context.Context, userID primitive.ObjectID) (*domain.PlanBundle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.sorted(func(b domain.PlanBundle) bool { return b.UserID == userID })
	if len(list) == 0 {
		return nil, repository.ErrNotFound
	}
	return &list[0], nil
}

func (r memBundleRepo) ListByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.PlanBundle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(b domain.PlanBundle) bool { return b.UserID == userID }), nil
}

func (r memBundleRepo) ListByUserIDAndStatus(_ context.Context, userID primitive.ObjectID, status domain.BundleStatus) ([]domain.PlanBundle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(func(b domain.PlanBundle) bool { return b.UserID == userID && b.Status == status }), nil
}

func (r memBundleRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.BundleStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bundles[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	r.bundles[id] = b
	return nil
}

func (r memBundleRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.bundles)), nil
}

// --- artifacts & logs ---

type memArtifactRepo struct{ *memStore }

func (r memArtifactRepo) CreateWorkoutPlan(_ context.Context, p *domain.WorkoutPlan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = primitive.NewObjectID()
	r.workouts[p.ID] = *p
	return p.ID, nil
}

func (r memArtifactRepo) CreateDietPlan(_ context.Context, p *domain.DietPlan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failDietCreate != nil {
		return primitive.NilObjectID, r.failDietCreate
	}
	p.ID = primitive.NewObjectID()
	r.diets[p.ID] = *p
	return p.ID, nil
}

func (r memArtifactRepo) GetWorkoutPlan(_ context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r memArtifactRepo) GetDietPlan(_ context.Context, id primitive.ObjectID) (*domain.DietPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.diets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

type memGenLogRepo struct{ *memStore }

func (r memGenLogRepo) Create(_ context.Context, e *domain.GenerationLog) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = primitive.NewObjectID()
	r.genLogs = append(r.genLogs, *e)
	return e.ID, nil
}

// --- completions ---

type memCompletionRepo struct{ *memStore }

func keyOf(c domain.CompletionRecord) domain.CompletionKey { return c.Key() }

func (r memCompletionRepo) FindByKey(_ context.Context, key domain.CompletionKey) (*domain.CompletionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.completions {
		if keyOf(c) == key {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memCompletionRepo) Create(_ context.Context, c *domain.CompletionRecord) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.completions {
		if keyOf(existing) == c.Key() {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	c.ID = primitive.NewObjectID()
	r.completions[c.ID] = *c
	return c.ID, nil
}

func (r memCompletionRepo) UpdateMetrics(_ context.Context, id primitive.ObjectID, m domain.CompletionMetrics, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.completions[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.CompletionMetrics = m
	c.CompletedAt = at
	r.completions[id] = c
	return nil
}

func (r memCompletionRepo) DeleteByKey(_ context.Context, key domain.CompletionKey) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.completions {
		if keyOf(c) == key {
			delete(r.completions, id)
			return true, nil
		}
	}
	return false, nil
}

func (r memCompletionRepo) list(match func(domain.CompletionRecord) bool) []domain.CompletionRecord {
	out := []domain.CompletionRecord{}
	for _, c := range r.completions {
		if match(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out
}

func (r memCompletionRepo) ListByBundle(_ context.Context, userID, bundleID primitive.ObjectID) ([]domain.CompletionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(c domain.CompletionRecord) bool { return c.UserID == userID && c.PlanBundleID == bundleID }), nil
}

func (r memCompletionRepo) ListByWeek(_ context.Context, userID, bundleID primitive.ObjectID, week int) ([]domain.CompletionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(c domain.CompletionRecord) bool {
		return c.UserID == userID && c.PlanBundleID == bundleID && c.WeekNumber == week
	}), nil
}

func (r memCompletionRepo) TotalsSince(_ context.Context, userID primitive.ObjectID, since time.Time) (domain.CompletionTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var t domain.CompletionTotals
	for _, c := range r.completions {
		if c.UserID != userID || c.CompletedAt.Before(since) {
			continue
		}
		t.Workouts++
		if c.CaloriesBurned != nil {
			t.Calories += int64(*c.CaloriesBurned)
		}
		if c.DurationMinutes != nil {
			t.Minutes += int64(*c.DurationMinutes)
		}
	}
	return t, nil
}

func (r memCompletionRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.completions)), nil
}

// --- content ---

type memExerciseRepo struct{ *memStore }

func (r memExerciseRepo) Create(_ context.Context, e *domain.Exercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = primitive.NewObjectID()
	r.exercises[e.ID] = *e
	return e.ID, nil
}

func (r memExerciseRepo) CreateMany(_ context.Context, es []domain.Exercise) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]primitive.ObjectID, len(es))
	for i := range es {
		es[i].ID = primitive.NewObjectID()
		r.exercises[es[i].ID] = es[i]
		ids[i] = es[i].ID
	}
	return ids, nil
}

func (r memExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r memExerciseRepo) GetByName(_ context.Context, name string) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.exercises {
		if strings.EqualFold(e.Name, name) {
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memExerciseRepo) List(_ context.Context) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Exercise{}
	for _, e := range r.exercises {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memExerciseRepo) Update(_ context.Context, e *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.exercises[e.ID]
	if !ok {
		return repository.ErrNotFound
	}
	e.MediaObjectKey = existing.MediaObjectKey
	r.exercises[e.ID] = *e
	return nil
}

func (r memExerciseRepo) SetMediaObjectKey(_ context.Context, id primitive.ObjectID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.exercises[id]
	if !ok {
		return repository.ErrNotFound
	}
	e.MediaObjectKey = key
	r.exercises[id] = e
	return nil
}

func (r memExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

func (r memExerciseRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.exercises)), nil
}

func (r memExerciseRepo) CountByMuscleGroup(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int64{}
	for _, e := range r.exercises {
		key := e.MuscleGroup
		if key == "" {
			key = "unspecified"
		}
		out[key]++
	}
	return out, nil
}

type memFoodRepo struct{ *memStore }

func (r memFoodRepo) Create(_ context.Context, f *domain.FoodItem) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = primitive.NewObjectID()
	r.foods[f.ID] = *f
	return f.ID, nil
}

func (r memFoodRepo) CreateMany(_ context.Context, fs []domain.FoodItem) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]primitive.ObjectID, len(fs))
	for i := range fs {
		fs[i].ID = primitive.NewObjectID()
		r.foods[fs[i].ID] = fs[i]
		ids[i] = fs[i].ID
	}
	return ids, nil
}

func (r memFoodRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.FoodItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.foods[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (r memFoodRepo) List(_ context.Context) ([]domain.FoodItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.FoodItem{}
	for _, f := range r.foods {
		out = append(out, f)
	}
	return out, nil
}

func (r memFoodRepo) Update(_ context.Context, f *domain.FoodItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.foods[f.ID]; !ok {
		return repository.ErrNotFound
	}
	r.foods[f.ID] = *f
	return nil
}

func (r memFoodRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.foods[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.foods, id)
	return nil
}

func (r memFoodRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.foods)), nil
}

// --- collaborators ---

type fakeProvider struct {
	mu        sync.Mutex
	response  map[string]interface{}
	err       error
	calls     int
	lastPrefs domain.PreferencePayload
	reindexes int
	statusErr error
}

func planResponse() map[string]interface{} {
	return map[string]interface{}{
		"workout_plan": map[string]interface{}{
			"total_weeks":        float64(4),
			"frequency_per_week": float64(5),
			"summary":            "Full body",
			"weeks":              []interface{}{},
		},
		"diet_plan": map[string]interface{}{
			"total_daily_calories": float64(2200),
			"total_daily_protein":  "lots",
			"summary":              "Balanced",
		},
		"metadata": map[string]interface{}{"llm_model": "test-model"},
	}
}

func (p *fakeProvider) Generate(_ context.Context, _ string, prefs domain.PreferencePayload) (map[string]interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.lastPrefs = prefs
	if p.err != nil {
		return nil, p.err
	}
	if p.response != nil {
		return p.response, nil
	}
	return planResponse(), nil
}

func (p *fakeProvider) Status(context.Context) (map[string]interface{}, error) {
	if p.statusErr != nil {
		return nil, p.statusErr
	}
	return map[string]interface{}{"status": "ok"}, nil
}

func (p *fakeProvider) TriggerReindex(context.Context, string) (map[string]interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reindexes++
	if p.err != nil {
		return nil, p.err
	}
	return map[string]interface{}{"status": "started"}, nil
}

type countingNotifier struct {
	mu      sync.Mutex
	reasons []string
}

func (n *countingNotifier) NotifyContentChanged(reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reasons = append(n.reasons, reason)
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.reasons)
}

type fakeFiles struct {
	deleted []string
}

func (f *fakeFiles) GeneratePresignedUploadURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://s3.test/put/" + key, nil
}

func (f *fakeFiles) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.test/get/" + key, nil
}

func (f *fakeFiles) DeleteObject(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

// fixedClock returns a settable clock for services that take a now func.
type fixedClock struct{ t time.Time }

func (c *fixedClock) now() time.Time { return c.t }

func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }

var errBoom = errors.New("boom")
