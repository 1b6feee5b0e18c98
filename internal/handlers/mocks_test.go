package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-lifecycle/internal/alerts"
	"github.com/ukydev/fleet-lifecycle/internal/analysis"
	"github.com/ukydev/fleet-lifecycle/internal/auth"
	"github.com/ukydev/fleet-lifecycle/internal/db"
	"github.com/ukydev/fleet-lifecycle/internal/models"
)

// MockAssetCollection is a mock implementation of AssetCollection
type MockAssetCollection struct {
	mock.Mock
}

func (m *MockAssetCollection) FindAssets(ctx context.Context, filter db.AssetFilter) ([]models.Asset, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Asset), args.Error(1)
}

func (m *MockAssetCollection) FindAssetByID(ctx context.Context, id string) (*models.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Asset), args.Error(1)
}

// MockOperatorStore is a mock implementation of OperatorStore
type MockOperatorStore struct {
	mock.Mock
}

func (m *MockOperatorStore) FindOperatorByUsername(ctx context.Context, username string) (*models.Operator, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Operator), args.Error(1)
}

// MockPublisher is a mock implementation of alerts.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishCritical(ctx context.Context, alert alerts.CriticalAlert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockPublisher) Close() {}

var refNow = time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

func floatPtr(v float64) *float64 { return &v }

func fixtureBus() *models.Asset {
	return &models.Asset{
		ID:              "BUS-7829",
		Category:        models.CategoryBus,
		Name:            "City Express",
		AcquisitionYear: 2015,
		Usage:           348000,
		Status:          models.StatusOperational,
		Priority:        models.PriorityMedium,
		Condition:       models.ConditionGood,
		HealthScore:     floatPtr(78),
		Lifecycle: &models.LifecycleProfile{
			TotalExpected:          500000,
			Remaining:              152000,
			MonthlyMaintenanceCost: 892,
			ReplacementCost:        520000,
			BreakEven: &models.BreakEvenPoint{
				Usage: 380000,
				Date:  models.DateOf(refNow.AddDate(0, 0, 100)),
			},
		},
		Predictions: []models.MaintenancePrediction{
			{Type: "Engine Tune-up", DueDate: models.NewDate(2024, time.August, 30), Cost: 650, Confidence: 82},
			{Type: "Oil Change", DueDate: models.NewDate(2024, time.July, 15), Cost: 85, Confidence: 96},
			{Type: "Brake Inspection", DueDate: models.NewDate(2024, time.July, 31), Cost: 320, Confidence: 90},
			{Type: "Transmission Fluid", DueDate: models.NewDate(2024, time.August, 15), Cost: 150, Confidence: 88},
		},
	}
}

func fixtureTrack() *models.Asset {
	return &models.Asset{
		ID:        "TRK-001",
		Category:  models.CategoryTrack,
		Status:    models.StatusOperational,
		Priority:  models.PriorityCritical,
		Condition: models.ConditionPoor,
		Predictions: []models.MaintenancePrediction{
			{Type: "Rail Grinding", DueDate: models.NewDate(2024, time.July, 3), Cost: 85000, Confidence: 91},
		},
	}
}

type testServer struct {
	auth      *auth.Service
	assets    *MockAssetCollection
	operators *MockOperatorStore
	publisher *MockPublisher
	handler   *AnalysisHandler
	router    http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	authService, err := auth.NewService("test-secret", time.Hour)
	require.NoError(t, err)

	s := &testServer{
		auth:      authService,
		assets:    new(MockAssetCollection),
		operators: new(MockOperatorStore),
		publisher: new(MockPublisher),
	}
	s.handler = NewAnalysisHandler(analysis.NewEngine(analysis.DefaultConfig()), s.assets, analysis.FixedClock(refNow), s.publisher)
	s.router = NewRouter(RouterConfig{
		AuthService: authService,
		Auth:        NewAuthHandler(authService, s.operators),
		Analysis:    s.handler,
	})
	return s
}

func (s *testServer) token(t *testing.T, role models.Role) string {
	t.Helper()
	token, _, err := s.auth.GenerateToken(&models.Operator{Username: "op", Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func (s *testServer) do(t *testing.T, method, target, authHeader string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}
