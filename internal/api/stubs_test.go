package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fitfusion/backend/internal/domain"
	"fitfusion/backend/internal/logger"
	"fitfusion/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(services Services) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(logger.Nop()))
	SetupRoutes(router, testSecret, services)
	return router
}

func signToken(t *testing.T, userID primitive.ObjectID, role domain.Role, expiresAt time.Time) string {
	t.Helper()
	claims := &service.Claims{
		UserID: userID.Hex(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func bearer(t *testing.T, userID primitive.ObjectID, role domain.Role) string {
	return signToken(t, userID, role, time.Now().Add(time.Hour))
}

func doRequest(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type stubPlanService struct {
	generateErr  error
	generatedFor primitive.ObjectID
	detail       *service.BundleDetail
	getErr       error
	lastCaller   service.Principal
	lastBundleID primitive.ObjectID
}

func (s *stubPlanService) CanGenerate(ctx context.Context, userID primitive.ObjectID) (service.GateDecision, error) {
	return service.GateDecision{Allowed: true}, nil
}

func (s *stubPlanService) GeneratePlan(ctx context.Context, userID primitive.ObjectID) (*service.PlanGenerationResult, error) {
	s.generatedFor = userID
	if s.generateErr != nil {
		return nil, s.generateErr
	}
	return &service.PlanGenerationResult{
		PlanBundleID: primitive.NewObjectID(),
		WorkoutPlan:  map[string]interface{}{"total_weeks": 4},
		DietPlan:     map[string]interface{}{"total_daily_calories": 2200},
		Metadata:     map[string]interface{}{"llm_model": "test-model"},
	}, nil
}

func (s *stubPlanService) ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.PlanBundle, error) {
	return nil, nil
}

func (s *stubPlanService) GetBundle(ctx context.Context, caller service.Principal, bundleID primitive.ObjectID) (*service.BundleDetail, error) {
	s.lastCaller = caller
	s.lastBundleID = bundleID
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.detail, nil
}

func (s *stubPlanService) SetBundleStatus(ctx context.Context, bundleID primitive.ObjectID, status domain.BundleStatus) (*domain.PlanBundle, error) {
	return &domain.PlanBundle{ID: bundleID, Status: status}, nil
}

type stubCompletionService struct {
	upserts   int
	lastUser  primitive.ObjectID
	lastInput service.CompletionInput
	lastKey   domain.CompletionKey
}

func (s *stubCompletionService) Upsert(ctx context.Context, userID primitive.ObjectID, in service.CompletionInput) (*domain.CompletionRecord, error) {
	s.upserts++
	s.lastUser = userID
	s.lastInput = in
	return &domain.CompletionRecord{
		ID:                primitive.NewObjectID(),
		UserID:            userID,
		PlanBundleID:      in.PlanBundleID,
		WeekNumber:        in.WeekNumber,
		DayNumber:         in.DayNumber,
		ExerciseName:      in.ExerciseName,
		CompletionMetrics: in.CompletionMetrics,
	}, nil
}

func (s *stubCompletionService) Remove(ctx context.Context, key domain.CompletionKey) error {
	s.lastKey = key
	return nil
}

func (s *stubCompletionService) ListForBundle(ctx context.Context, userID, planBundleID primitive.ObjectID) ([]domain.CompletionRecord, error) {
	return nil, nil
}

func (s *stubCompletionService) ListForWeek(ctx context.Context, userID, planBundleID primitive.ObjectID, week int) ([]domain.CompletionRecord, error) {
	return nil, nil
}

type stubStatsService struct {
	lastPeriod string
}

func (s *stubStatsService) Stats(ctx context.Context, userID primitive.ObjectID, period string) (*service.Stats, error) {
	s.lastPeriod = period
	return &service.Stats{Period: period}, nil
}

type stubAdminService struct {
	status map[string]interface{}
}

func (s *stubAdminService) Dashboard(ctx context.Context) (*service.DashboardStats, error) {
	return &service.DashboardStats{ExercisesByMuscleGroup: map[string]int64{}}, nil
}

func (s *stubAdminService) ProviderStatus(ctx context.Context) map[string]interface{} {
	return s.status
}

func (s *stubAdminService) TriggerReindex(ctx context.Context, mode string) (map[string]interface{}, error) {
	return map[string]interface{}{"mode": mode}, nil
}

func (s *stubAdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return nil, nil
}

func (s *stubAdminService) UpdateUserRole(ctx context.Context, userID primitive.ObjectID, role domain.Role) (*domain.User, error) {
	return &domain.User{ID: userID, Role: role}, nil
}
