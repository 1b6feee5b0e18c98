package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ukydev/fleet-lifecycle/internal/alerts"
	"github.com/ukydev/fleet-lifecycle/internal/analysis"
	"github.com/ukydev/fleet-lifecycle/internal/db"
	"github.com/ukydev/fleet-lifecycle/internal/models"
)

func decode(t *testing.T, body []byte, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body, v), string(body))
}

func TestAnalysisHandler_AssetAnalysis(t *testing.T) {
	s := newTestServer(t)
	s.assets.On("FindAssetByID", mock.Anything, "BUS-7829").Return(fixtureBus(), nil)
	s.assets.On("FindAssetByID", mock.Anything, "NOPE").Return(nil, db.ErrAssetNotFound)

	t.Run("report", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/assets/BUS-7829/analysis", s.token(t, models.RoleViewer), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var report analysis.AssetReport
		decode(t, w.Body.Bytes(), &report)
		assert.Equal(t, "BUS-7829", report.AssetID)
		require.NotNil(t, report.BreakEven)
		assert.Equal(t, 4, report.BreakEven.MonthsToBreakEven)
		assert.Equal(t, analysis.RecommendReplaceSoon, report.BreakEven.Recommendation)
		assert.Equal(t, 1205.0, report.Costs.Total)
		assert.Equal(t, "Oil Change", report.Schedule.Items[0].Type)
	})

	t.Run("not found", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/assets/NOPE/analysis", s.token(t, models.RoleViewer), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/assets/BUS-7829/analysis", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad now", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/assets/BUS-7829/analysis?now=yesterday", s.token(t, models.RoleViewer), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAnalysisHandler_AssetAnalysisInvalidAsset(t *testing.T) {
	s := newTestServer(t)
	bad := fixtureBus()
	bad.Lifecycle.Remaining = bad.Lifecycle.TotalExpected + 1
	s.assets.On("FindAssetByID", mock.Anything, "BUS-7829").Return(bad, nil)

	w := s.do(t, http.MethodGet, "/api/assets/BUS-7829/analysis", s.token(t, models.RoleViewer), nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp errorResponse
	decode(t, w.Body.Bytes(), &resp)
	assert.Equal(t, "lifecycle.remaining", resp.Field)
}

func TestAnalysisHandler_BreakEven(t *testing.T) {
	s := newTestServer(t)
	s.assets.On("FindAssetByID", mock.Anything, "BUS-7829").Return(fixtureBus(), nil)
	s.assets.On("FindAssetByID", mock.Anything, "TRK-001").Return(fixtureTrack(), nil)

	t.Run("now parameter moves the reference", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/assets/BUS-7829/breakeven?now=2023-07-01", s.token(t, models.RoleViewer), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			BreakEven *analysis.BreakEvenReport `json:"break_even"`
		}
		decode(t, w.Body.Bytes(), &resp)
		require.NotNil(t, resp.BreakEven)
		assert.Equal(t, analysis.RecommendContinueMaintenance, resp.BreakEven.Recommendation)
	})

	t.Run("not applicable is null", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/assets/TRK-001/breakeven", s.token(t, models.RoleViewer), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"asset_id":"TRK-001","break_even":null}`, w.Body.String())
	})
}

func TestAnalysisHandler_Projection(t *testing.T) {
	s := newTestServer(t)
	s.assets.On("FindAssetByID", mock.Anything, "BUS-7829").Return(fixtureBus(), nil)

	w := s.do(t, http.MethodGet, "/api/assets/BUS-7829/projection?horizons=12,3", s.token(t, models.RoleViewer), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Projection []analysis.ProjectionPoint `json:"projection"`
	}
	decode(t, w.Body.Bytes(), &resp)
	require.Len(t, resp.Projection, 2)
	assert.Equal(t, 3, resp.Projection[0].Months)
	assert.Equal(t, 10704.0, resp.Projection[1].CumulativeCost)

	w = s.do(t, http.MethodGet, "/api/assets/BUS-7829/projection?horizons=0", s.token(t, models.RoleViewer), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalysisHandler_CostsAndPredictions(t *testing.T) {
	s := newTestServer(t)
	s.assets.On("FindAssetByID", mock.Anything, "BUS-7829").Return(fixtureBus(), nil)

	w := s.do(t, http.MethodGet, "/api/assets/BUS-7829/costs", s.token(t, models.RoleViewer), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var costs struct {
		Costs analysis.CostSummary `json:"costs"`
	}
	decode(t, w.Body.Bytes(), &costs)
	require.Len(t, costs.Costs.Entries, 3)
	assert.Equal(t, analysis.CategoryPropulsion, costs.Costs.Entries[0].Category)

	w = s.do(t, http.MethodGet, "/api/assets/BUS-7829/predictions?limit=2", s.token(t, models.RoleViewer), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var preds struct {
		Schedule analysis.Timeline `json:"schedule"`
	}
	decode(t, w.Body.Bytes(), &preds)
	assert.Equal(t, 2, preds.Schedule.Shown)
	assert.Equal(t, 2, preds.Schedule.Omitted)
	assert.Equal(t, 14, preds.Schedule.Items[0].DaysUntilDue)
	assert.Equal(t, analysis.ConfidenceHigh, preds.Schedule.Items[0].ConfidenceLevel)

	w = s.do(t, http.MethodGet, "/api/assets/BUS-7829/predictions?limit=some", s.token(t, models.RoleViewer), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalysisHandler_Analyze(t *testing.T) {
	s := newTestServer(t)

	invalid := fixtureBus()
	invalid.ID = "BUS-BAD"
	invalid.Predictions[0].Cost = -1
	body, err := json.Marshal(AnalyzeRequest{
		Now:    "2024-07-01",
		Assets: []models.Asset{*fixtureBus(), *invalid, *fixtureTrack()},
	})
	require.NoError(t, err)

	t.Run("viewer is forbidden", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/analysis", s.token(t, models.RoleViewer), bytes.NewReader(body))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("analyst runs the batch", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/analysis", s.token(t, models.RoleAnalyst), bytes.NewReader(body))
		require.Equal(t, http.StatusOK, w.Code)

		var report analysis.FleetReport
		decode(t, w.Body.Bytes(), &report)
		assert.NotEmpty(t, report.RunID)
		require.Len(t, report.Results, 2)
		require.Len(t, report.Failures, 1)
		assert.Equal(t, "BUS-BAD", report.Failures[0].AssetID)
		assert.Equal(t, "predictions[0].cost", report.Failures[0].Field)
		assert.Equal(t, 1, report.Critical.Count)
		assert.Equal(t, 85000.0, report.Critical.TotalEstimatedCost)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/analysis", s.token(t, models.RoleAnalyst), strings.NewReader("{"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("RFC3339 now in body", func(t *testing.T) {
		body, err := json.Marshal(AnalyzeRequest{Now: "2024-07-01T08:30:00+02:00", Assets: []models.Asset{*fixtureTrack()}})
		require.NoError(t, err)

		w := s.do(t, http.MethodPost, "/api/analysis", s.token(t, models.RoleAnalyst), bytes.NewReader(body))
		require.Equal(t, http.StatusOK, w.Code)

		var report analysis.FleetReport
		decode(t, w.Body.Bytes(), &report)
		assert.True(t, report.ReferenceTime.Equal(time.Date(2024, time.July, 1, 6, 30, 0, 0, time.UTC)))
		require.Len(t, report.Results, 1)
	})

	t.Run("malformed now in body", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/analysis", s.token(t, models.RoleAnalyst), strings.NewReader(`{"now":"July","assets":[]}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAnalysisHandler_FleetAnalysis(t *testing.T) {
	s := newTestServer(t)
	s.assets.On("FindAssets", mock.Anything, db.AssetFilter{Category: models.CategoryBus}).
		Return([]models.Asset{*fixtureBus()}, nil)
	s.assets.On("FindAssets", mock.Anything, db.AssetFilter{}).Return(nil, errors.New("connection refused"))

	w := s.do(t, http.MethodGet, "/api/fleet/analysis?category=bus", s.token(t, models.RoleViewer), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report analysis.FleetReport
	decode(t, w.Body.Bytes(), &report)
	assert.Equal(t, 1, report.Summary.Assets)
	assert.Equal(t, 1, report.Summary.ApproachingBreakEven)

	w = s.do(t, http.MethodGet, "/api/fleet/analysis?category=boat", s.token(t, models.RoleViewer), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/fleet/analysis", s.token(t, models.RoleViewer), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAnalysisHandler_CriticalAssets(t *testing.T) {
	s := newTestServer(t)
	s.assets.On("FindAssets", mock.Anything, db.AssetFilter{}).
		Return([]models.Asset{*fixtureBus(), *fixtureTrack()}, nil)

	w := s.do(t, http.MethodGet, "/api/fleet/critical", s.token(t, models.RoleViewer), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report analysis.CriticalAssetsReport
	decode(t, w.Body.Bytes(), &report)
	assert.Equal(t, 1, report.Count)
	assert.Equal(t, "TRK-001", report.Assets[0].ID)
	s.publisher.AssertNotCalled(t, "PublishCritical", mock.Anything, mock.Anything)
}

func TestAnalysisHandler_PublishCriticalAlerts(t *testing.T) {
	t.Run("admin publishes", func(t *testing.T) {
		s := newTestServer(t)
		s.assets.On("FindAssets", mock.Anything, db.AssetFilter{}).
			Return([]models.Asset{*fixtureBus(), *fixtureTrack()}, nil)
		s.publisher.On("PublishCritical", mock.Anything, mock.MatchedBy(func(a alerts.CriticalAlert) bool {
			return a.Count == 1 && a.Assets[0].ID == "TRK-001" && a.GeneratedAt.Equal(refNow)
		})).Return(nil)

		w := s.do(t, http.MethodPost, "/api/fleet/critical/alerts", s.token(t, models.RoleAdmin), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"published":true`)
		s.publisher.AssertExpectations(t)
	})

	t.Run("nothing critical publishes nothing", func(t *testing.T) {
		s := newTestServer(t)
		s.assets.On("FindAssets", mock.Anything, db.AssetFilter{}).Return([]models.Asset{*fixtureBus()}, nil)

		w := s.do(t, http.MethodPost, "/api/fleet/critical/alerts", s.token(t, models.RoleAdmin), nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"published":false`)
		s.publisher.AssertNotCalled(t, "PublishCritical", mock.Anything, mock.Anything)
	})

	t.Run("broker failure", func(t *testing.T) {
		s := newTestServer(t)
		s.assets.On("FindAssets", mock.Anything, db.AssetFilter{}).Return([]models.Asset{*fixtureTrack()}, nil)
		s.publisher.On("PublishCritical", mock.Anything, mock.Anything).Return(errors.New("broker down"))

		w := s.do(t, http.MethodPost, "/api/fleet/critical/alerts", s.token(t, models.RoleAdmin), nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("analyst is forbidden", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodPost, "/api/fleet/critical/alerts", s.token(t, models.RoleAnalyst), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestParseInstant(t *testing.T) {
	got, err := parseInstant("2024-07-01")
	require.NoError(t, err)
	assert.True(t, got.Equal(refNow))

	got, err = parseInstant("2024-07-01T12:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, 10, got.Hour())

	_, err = parseInstant("07/01/2024")
	assert.Error(t, err)
}
