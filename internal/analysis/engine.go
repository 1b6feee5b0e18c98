package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ukydev/fleet-lifecycle/internal/models"
)

// Config tunes the engine. Zero values fall back to the defaults.
type Config struct {
	ApproachingThresholdMonths int   `json:"approaching_threshold_months"`
	DefaultProjectionHorizons  []int `json:"default_projection_horizons"`
	// MaxItemsPerPredictionList truncates each asset's schedule; 0 keeps all.
	MaxItemsPerPredictionList int `json:"max_items_per_prediction_list"`
	// Workers bounds how many assets are analyzed concurrently.
	Workers int `json:"workers"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		ApproachingThresholdMonths: DefaultApproachingThresholdMonths,
		DefaultProjectionHorizons:  append([]int(nil), DefaultHorizons...),
		Workers:                    4,
	}
}

// Engine runs every analysis over single assets or whole fleets.
type Engine struct {
	cfg      Config
	analyzer Analyzer
}

// NewEngine creates an engine. A non-positive threshold is replaced by the
// default, and so are empty horizons.
func NewEngine(cfg Config) *Engine {
	if cfg.ApproachingThresholdMonths <= 0 {
		cfg.ApproachingThresholdMonths = DefaultApproachingThresholdMonths
	}
	if len(cfg.DefaultProjectionHorizons) == 0 {
		cfg.DefaultProjectionHorizons = append([]int(nil), DefaultHorizons...)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Engine{
		cfg:      cfg,
		analyzer: Analyzer{ApproachingThresholdMonths: cfg.ApproachingThresholdMonths},
	}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Analyzer returns the break-even analyzer used by the engine.
func (e *Engine) Analyzer() Analyzer {
	return e.analyzer
}

// AssetReport is the full analysis of one asset. Sections that do not apply
// are nil and named in NotApplicable.
type AssetReport struct {
	AssetID       string               `json:"asset_id"`
	Category      models.AssetCategory `json:"category"`
	Name          string               `json:"name,omitempty"`
	Status        models.AssetStatus   `json:"status,omitempty"`
	AgeYears      int                  `json:"age_years"`
	Critical      bool                 `json:"critical"`
	HealthTier    HealthTier           `json:"health_tier,omitempty"`
	BreakEven     *BreakEvenReport     `json:"break_even"`
	Costs         CostSummary          `json:"costs"`
	Projection    []ProjectionPoint    `json:"projection"`
	Schedule      Timeline             `json:"schedule"`
	NotApplicable []string             `json:"not_applicable,omitempty"`
}

// AssetFailure records an asset that could not be analyzed.
type AssetFailure struct {
	AssetID string `json:"asset_id"`
	Index   int    `json:"index"`
	Field   string `json:"field,omitempty"`
	Error   string `json:"error"`
	Err     error  `json:"-"`
}

// FleetReport is the result of one analysis pass over a fleet.
type FleetReport struct {
	RunID         string               `json:"run_id"`
	ReferenceTime time.Time            `json:"reference_time"`
	Results       []AssetReport        `json:"results"`
	Failures      []AssetFailure       `json:"failures"`
	Critical      CriticalAssetsReport `json:"critical"`
	Summary       FleetSummary         `json:"summary"`
}

// BreakEven runs the break-even analysis with the engine's threshold.
func (e *Engine) BreakEven(profile *models.LifecycleProfile, now time.Time) (BreakEvenReport, error) {
	return e.analyzer.BreakEven(profile, now)
}

// Project projects costs; nil horizons use the configured defaults.
func (e *Engine) Project(profile *models.LifecycleProfile, horizons []int) ([]ProjectionPoint, error) {
	if len(horizons) == 0 {
		horizons = e.cfg.DefaultProjectionHorizons
	}
	return Project(profile, horizons)
}

// Timeline builds the asset schedule with the configured item limit.
func (e *Engine) Timeline(items []models.MaintenancePrediction, now time.Time) Timeline {
	return BuildTimeline(items, now, e.cfg.MaxItemsPerPredictionList)
}

// AnalyzeAsset validates an asset and runs every analysis on it at now.
func (e *Engine) AnalyzeAsset(asset models.Asset, now time.Time) (AssetReport, error) {
	if err := asset.Validate(); err != nil {
		return AssetReport{}, err
	}

	report := AssetReport{
		AssetID:  asset.ID,
		Category: asset.Category,
		Name:     asset.Name,
		Status:   asset.Status,
		AgeYears: AgeYears(asset.AcquisitionYear, now),
		Critical: IsCritical(asset),
		Costs:    Summarize(asset.Predictions),
		Schedule: e.Timeline(asset.Predictions, now),
	}
	if asset.HealthScore != nil {
		report.HealthTier = ClassifyHealth(*asset.HealthScore)
	} else if asset.Lifecycle != nil && asset.Lifecycle.ConditionScore != nil {
		report.HealthTier = ClassifyHealth(*asset.Lifecycle.ConditionScore)
	}

	be, err := e.analyzer.BreakEven(asset.Lifecycle, now)
	switch {
	case errors.Is(err, ErrNotApplicable):
		report.NotApplicable = append(report.NotApplicable, "break_even")
	case err != nil:
		return AssetReport{}, fmt.Errorf("break-even: %w", err)
	default:
		report.BreakEven = &be
	}

	points, err := e.Project(asset.Lifecycle, nil)
	switch {
	case errors.Is(err, ErrNotApplicable):
		report.NotApplicable = append(report.NotApplicable, "projection")
	case err != nil:
		return AssetReport{}, fmt.Errorf("projection: %w", err)
	default:
		report.Projection = points
	}
	return report, nil
}

// AnalyzeFleet analyzes every asset against the same reference instant. An
// invalid asset is recorded in Failures and does not stop the pass. Results
// keep the input order. The returned error is non-nil only when ctx is done.
func (e *Engine) AnalyzeFleet(ctx context.Context, assets []models.Asset, now time.Time) (FleetReport, error) {
	reports := make([]*AssetReport, len(assets))
	errs := make([]error, len(assets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i := range assets {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := e.AnalyzeAsset(assets[i], now)
			if err != nil {
				errs[i] = err
				return nil
			}
			reports[i] = &r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return FleetReport{}, err
	}

	report := FleetReport{
		RunID:         uuid.NewString(),
		ReferenceTime: now,
		Results:       make([]AssetReport, 0, len(assets)),
		Failures:      []AssetFailure{},
	}
	valid := make([]models.Asset, 0, len(assets))
	for i, r := range reports {
		if r == nil {
			report.Failures = append(report.Failures, newFailure(i, assets[i].ID, errs[i]))
			continue
		}
		report.Results = append(report.Results, *r)
		valid = append(valid, assets[i])
	}
	report.Critical = SelectCritical(valid)
	report.Summary = e.analyzer.SummarizeFleet(valid, now)
	return report, nil
}

// CriticalAssets validates the fleet and selects critical assets among the
// valid ones. Invalid assets are returned as failures.
func (e *Engine) CriticalAssets(assets []models.Asset) (CriticalAssetsReport, []AssetFailure) {
	valid := make([]models.Asset, 0, len(assets))
	failures := []AssetFailure{}
	for i, a := range assets {
		if err := a.Validate(); err != nil {
			failures = append(failures, newFailure(i, a.ID, err))
			continue
		}
		valid = append(valid, a)
	}
	return SelectCritical(valid), failures
}

func newFailure(index int, assetID string, err error) AssetFailure {
	f := AssetFailure{AssetID: assetID, Index: index, Error: err.Error(), Err: err}
	var ve *ValidationError
	if errors.As(err, &ve) {
		f.Field = ve.Field
	}
	return f
}
