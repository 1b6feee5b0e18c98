package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/fleet-lifecycle/internal/alerts"
	"github.com/ukydev/fleet-lifecycle/internal/analysis"
	"github.com/ukydev/fleet-lifecycle/internal/config"
	"github.com/ukydev/fleet-lifecycle/internal/db"
	"github.com/ukydev/fleet-lifecycle/internal/models"
)

// maxBodyBytes caps POST /api/analysis payloads.
const maxBodyBytes = 8 << 20

// AnalysisHandler serves the analysis endpoints.
type AnalysisHandler struct {
	engine    *analysis.Engine
	assets    db.AssetCollection
	clock     analysis.Clock
	publisher alerts.Publisher
}

// NewAnalysisHandler creates an analysis handler. A nil clock uses the wall
// clock and a nil publisher drops alerts.
func NewAnalysisHandler(engine *analysis.Engine, assets db.AssetCollection, clock analysis.Clock, publisher alerts.Publisher) *AnalysisHandler {
	if clock == nil {
		clock = analysis.SystemClock{}
	}
	if publisher == nil {
		publisher = alerts.NoopPublisher{}
	}
	return &AnalysisHandler{engine: engine, assets: assets, clock: clock, publisher: publisher}
}

// AnalyzeRequest is the body of POST /api/analysis. Now takes the same
// forms as the now query parameter.
type AnalyzeRequest struct {
	Now    string         `json:"now,omitempty"`
	Assets []models.Asset `json:"assets"`
}

// referenceTime returns the instant all date-relative results use: the now
// query parameter when given, the clock otherwise.
func (h *AnalysisHandler) referenceTime(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("now")
	if raw == "" {
		return h.clock.Now(), nil
	}
	return parseInstant(raw)
}

func parseInstant(raw string) (time.Time, error) {
	if d, err := models.ParseDate(raw); err == nil {
		return d.Time, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid now %q: want YYYY-MM-DD or RFC3339", raw)
	}
	return t.UTC(), nil
}

// Analyze runs a fleet analysis over assets supplied in the request body.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid JSON")
		return
	}

	now, err := h.referenceTime(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.Now != "" {
		if now, err = parseInstant(req.Now); err != nil {
			badRequest(w, err.Error())
			return
		}
	}

	h.runFleet(r.Context(), w, req.Assets, now)
}

// FleetAnalysis analyzes the stored fleet, optionally one category only.
func (h *AnalysisHandler) FleetAnalysis(w http.ResponseWriter, r *http.Request) {
	now, err := h.referenceTime(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	filter, err := assetFilter(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	assets, err := h.assets.FindAssets(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	h.runFleet(r.Context(), w, assets, now)
}

func (h *AnalysisHandler) runFleet(ctx context.Context, w http.ResponseWriter, assets []models.Asset, now time.Time) {
	report, err := h.engine.AnalyzeFleet(ctx, assets, now)
	if err != nil {
		writeError(w, err)
		return
	}
	entry := log.WithFields(log.Fields{
		"run_id":   report.RunID,
		"assets":   len(assets),
		"failures": len(report.Failures),
		"critical": report.Critical.Count,
	})
	for _, f := range report.Failures {
		entry.WithFields(log.Fields{"asset_id": f.AssetID, "field": f.Field}).Warn("Asset rejected")
	}
	entry.Info("Fleet analysis completed")
	writeJSON(w, http.StatusOK, report)
}

// CriticalAssets lists the stored assets needing immediate attention.
func (h *AnalysisHandler) CriticalAssets(w http.ResponseWriter, r *http.Request) {
	report, ok := h.critical(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// PublishCriticalAlerts recomputes the critical report and publishes it when
// at least one asset is critical.
func (h *AnalysisHandler) PublishCriticalAlerts(w http.ResponseWriter, r *http.Request) {
	report, ok := h.critical(w, r)
	if !ok {
		return
	}
	published := false
	if report.Count > 0 {
		alert := alerts.NewCriticalAlert(report, h.clock.Now())
		if err := h.publisher.PublishCritical(r.Context(), alert); err != nil {
			log.WithError(err).Error("Failed to publish critical alert")
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to publish alert"})
			return
		}
		published = true
	}
	writeJSON(w, http.StatusOK, struct {
		Published bool                          `json:"published"`
		Report    analysis.CriticalAssetsReport `json:"report"`
	}{published, report})
}

func (h *AnalysisHandler) critical(w http.ResponseWriter, r *http.Request) (analysis.CriticalAssetsReport, bool) {
	filter, err := assetFilter(r)
	if err != nil {
		badRequest(w, err.Error())
		return analysis.CriticalAssetsReport{}, false
	}
	assets, err := h.assets.FindAssets(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return analysis.CriticalAssetsReport{}, false
	}
	report, failures := h.engine.CriticalAssets(assets)
	for _, f := range failures {
		log.WithFields(log.Fields{"asset_id": f.AssetID, "field": f.Field}).Warn("Asset rejected")
	}
	return report, true
}

// AssetAnalysis returns the full report of one stored asset.
func (h *AnalysisHandler) AssetAnalysis(w http.ResponseWriter, r *http.Request) {
	asset, now, ok := h.loadAsset(w, r)
	if !ok {
		return
	}
	report, err := h.engine.AnalyzeAsset(*asset, now)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// BreakEven returns the break-even report, or null when the asset has no
// break-even point.
func (h *AnalysisHandler) BreakEven(w http.ResponseWriter, r *http.Request) {
	asset, now, ok := h.loadAsset(w, r)
	if !ok {
		return
	}
	resp := struct {
		AssetID   string                    `json:"asset_id"`
		BreakEven *analysis.BreakEvenReport `json:"break_even"`
	}{AssetID: asset.ID}

	report, err := h.engine.BreakEven(asset.Lifecycle, now)
	switch {
	case errors.Is(err, analysis.ErrNotApplicable):
	case err != nil:
		writeError(w, err)
		return
	default:
		resp.BreakEven = &report
	}
	writeJSON(w, http.StatusOK, resp)
}

// Costs returns the categorized cost breakdown of an asset's predictions.
func (h *AnalysisHandler) Costs(w http.ResponseWriter, r *http.Request) {
	asset, _, ok := h.loadAsset(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		AssetID string               `json:"asset_id"`
		Costs   analysis.CostSummary `json:"costs"`
	}{asset.ID, analysis.Summarize(asset.Predictions)})
}

// Projection returns cumulative maintenance cost at each requested horizon.
func (h *AnalysisHandler) Projection(w http.ResponseWriter, r *http.Request) {
	horizons, err := config.ParseHorizons(r.URL.Query().Get("horizons"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	asset, _, ok := h.loadAsset(w, r)
	if !ok {
		return
	}
	resp := struct {
		AssetID    string                     `json:"asset_id"`
		Projection []analysis.ProjectionPoint `json:"projection"`
	}{AssetID: asset.ID}

	points, err := h.engine.Project(asset.Lifecycle, horizons)
	switch {
	case errors.Is(err, analysis.ErrNotApplicable):
	case err != nil:
		writeError(w, err)
		return
	default:
		resp.Projection = points
	}
	writeJSON(w, http.StatusOK, resp)
}

// Predictions returns the asset's due-date ordered schedule.
func (h *AnalysisHandler) Predictions(w http.ResponseWriter, r *http.Request) {
	limit := h.engine.Config().MaxItemsPerPredictionList
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(w, "limit must be an integer")
			return
		}
		limit = n
	}
	asset, now, ok := h.loadAsset(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, struct {
		AssetID  string            `json:"asset_id"`
		Schedule analysis.Timeline `json:"schedule"`
	}{asset.ID, analysis.BuildTimeline(asset.Predictions, now, limit)})
}

// loadAsset fetches and validates the asset named in the URL and resolves
// the reference time. It writes the error reply itself.
func (h *AnalysisHandler) loadAsset(w http.ResponseWriter, r *http.Request) (*models.Asset, time.Time, bool) {
	now, err := h.referenceTime(r)
	if err != nil {
		badRequest(w, err.Error())
		return nil, time.Time{}, false
	}
	asset, err := h.assets.FindAssetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil, time.Time{}, false
	}
	if err := asset.Validate(); err != nil {
		writeError(w, err)
		return nil, time.Time{}, false
	}
	return asset, now, true
}

func assetFilter(r *http.Request) (db.AssetFilter, error) {
	q := r.URL.Query()
	filter := db.AssetFilter{
		Category: models.AssetCategory(q.Get("category")),
		Status:   models.AssetStatus(q.Get("status")),
	}
	if filter.Category != "" && !models.IsValidCategory(filter.Category) {
		return db.AssetFilter{}, fmt.Errorf("unknown category %q", filter.Category)
	}
	if !models.IsValidStatus(filter.Status) {
		return db.AssetFilter{}, fmt.Errorf("unknown status %q", filter.Status)
	}
	return filter, nil
}
