package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/lerban/gw-data-viz/internal/config"
	"github.com/lerban/gw-data-viz/internal/domain"
	"github.com/lerban/gw-data-viz/internal/observability"
	"github.com/lerban/gw-data-viz/internal/report"
)

// SiteLocator finds the site records inside a bounding box.
type SiteLocator interface {
	Sites(ctx context.Context, box domain.BoundingBox) ([]domain.Site, error)
}

// ObservationFetcher pulls chemistry and water-level rows for a site list.
type ObservationFetcher interface {
	Chemistry(ctx context.Context, siteIDs, parameterCodes []string) ([]domain.Observation, error)
	WaterLevels(ctx context.Context, siteIDs []string) ([]domain.WaterLevelReading, error)
}

// Renderer consumes a finished run: console tables, CSV files, charts.
type Renderer interface {
	Render(ctx context.Context, result *Result) error
}

// Exporter publishes the enriched observation stream of a finished run.
type Exporter interface {
	Export(ctx context.Context, result *Result) error
}

// RunStats counts what a run saw and what it had to flag or drop.
type RunStats struct {
	Sites            int
	ChemistryRows    int
	LevelRows        int
	UnknownSiteRows  int
	MissingDepthRows int
}

// Result is one complete report run. Stage outputs are never mutated after
// the run finishes; renderers and exporters read them concurrently safe.
type Result struct {
	RunID        string
	Survey       string
	GeneratedAt  time.Time
	Sites        []domain.Site
	Observations []domain.EnrichedObservation
	Levels       []domain.EnrichedLevel
	Tables       []report.Table
	Stats        RunStats
}

// Table returns the named report table, nil when the run did not build it.
func (r *Result) Table(name string) *report.Table {
	for i := range r.Tables {
		if r.Tables[i].Name == name {
			return &r.Tables[i]
		}
	}
	return nil
}

// Pipeline orchestrates the locate-fetch-aggregate-render sequence for one
// survey. Stages run strictly sequentially; a stage failure aborts the run.
type Pipeline struct {
	locator   SiteLocator
	fetcher   ObservationFetcher
	renderers []Renderer
	exporter  Exporter
	survey    *config.Survey
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline with the given stages and observability. A nil
// exporter disables the export stage.
func New(locator SiteLocator, fetcher ObservationFetcher, renderers []Renderer, exporter Exporter, survey *config.Survey, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		locator:   locator,
		fetcher:   fetcher,
		renderers: renderers,
		exporter:  exporter,
		survey:    survey,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one run has completed, or an
// error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no report run has completed yet")
	}
	return nil
}

// Run executes one report run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID, "survey", p.survey.Name)

	logger.Info("run started")
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)
	start := time.Now()

	result, err := p.run(ctx, runID, logger)
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	logger.Info("run complete",
		"sites", result.Stats.Sites,
		"chemistry_rows", result.Stats.ChemistryRows,
		"level_rows", result.Stats.LevelRows,
		"tables", len(result.Tables),
		"duration", time.Since(start),
	)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, runID string, logger *slog.Logger) (*Result, error) {
	sites, err := p.locateSites(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("sites located", "count", len(sites))
	p.metrics.SitesLocated.Set(float64(len(sites)))

	siteIDs := make([]string, len(sites))
	for i, s := range sites {
		siteIDs[i] = s.ID
	}

	stageStart := time.Now()
	observations, err := p.fetcher.Chemistry(ctx, siteIDs, p.survey.ParameterCodes)
	p.observeStage("fetch_chemistry", stageStart)
	if err != nil {
		return nil, fmt.Errorf("fetch chemistry: %w", err)
	}
	p.metrics.ObservationsFetched.WithLabelValues("chemistry").Add(float64(len(observations)))

	stageStart = time.Now()
	readings, err := p.fetcher.WaterLevels(ctx, siteIDs)
	p.observeStage("fetch_levels", stageStart)
	if err != nil {
		return nil, fmt.Errorf("fetch water levels: %w", err)
	}
	p.metrics.ObservationsFetched.WithLabelValues("levels").Add(float64(len(readings)))

	stageStart = time.Now()
	enriched, obsStats := domain.JoinObservations(observations, sites)
	levels, levelStats := domain.JoinLevels(readings, sites)
	p.countGaps(logger, obsStats, levelStats)

	tables := p.buildTables(sites, enriched, levels)
	p.observeStage("aggregate", stageStart)

	result := &Result{
		RunID:        runID,
		Survey:       p.survey.Name,
		GeneratedAt:  domain.Now().UTC(),
		Sites:        sites,
		Observations: enriched,
		Levels:       levels,
		Tables:       tables,
		Stats: RunStats{
			Sites:            len(sites),
			ChemistryRows:    len(observations),
			LevelRows:        len(readings),
			UnknownSiteRows:  obsStats.UnknownSite + levelStats.UnknownSite,
			MissingDepthRows: levelStats.MissingDepth,
		},
	}

	stageStart = time.Now()
	for _, r := range p.renderers {
		if err := r.Render(ctx, result); err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
	}
	p.observeStage("render", stageStart)

	if p.exporter != nil {
		stageStart = time.Now()
		if err := p.exporter.Export(ctx, result); err != nil {
			return nil, fmt.Errorf("export observations: %w", err)
		}
		p.observeStage("export", stageStart)
		p.metrics.ObservationsExported.Add(float64(len(enriched)))
	}

	return result, nil
}

// locateSites runs the bounding-box lookup and the pure site preparation:
// classification, display-name overrides, then short-id assignment from the
// corrected names.
func (p *Pipeline) locateSites(ctx context.Context) ([]domain.Site, error) {
	stageStart := time.Now()
	sites, err := p.locator.Sites(ctx, p.survey.BBox)
	p.observeStage("locate", stageStart)
	if err != nil {
		return nil, fmt.Errorf("locate sites: %w", err)
	}

	sites = domain.ClassifySites(sites, p.survey.ClassifierRules())
	sites = domain.ApplyNameOverrides(sites, p.survey.NameOverrides)
	return domain.AssignShortIDs(sites, p.survey.ShortIDLength), nil
}

func (p *Pipeline) buildTables(sites []domain.Site, enriched []domain.EnrichedObservation, levels []domain.EnrichedLevel) []report.Table {
	tables := []report.Table{
		report.SiteTable(sites),
		report.Coverage(enriched, sites, p.survey.ParameterCodes),
		report.ObservationTable(enriched),
		report.LevelTable(levels),
		report.TimeSeriesMean(enriched),
	}
	for _, w := range p.survey.Windows {
		tables = append(tables,
			report.PointInTimeMean(enriched, w),
			report.PointInTimeMax(enriched, w),
			report.NitrogenComposition(enriched, w),
			report.ProfileSeries(enriched, sites, w, p.survey.ProfileExclusions),
		)
	}
	return tables
}

func (p *Pipeline) countGaps(logger *slog.Logger, obs, levels domain.JoinStats) {
	if n := obs.UnknownSite + levels.UnknownSite; n > 0 {
		p.metrics.RowsExcluded.WithLabelValues("unknown_site").Add(float64(n))
		logger.Debug("rows with unknown site ids", "count", n)
	}
	if n := levels.MissingDepth; n > 0 {
		p.metrics.RowsExcluded.WithLabelValues("missing_depth").Add(float64(n))
		logger.Debug("level rows without a depth reading", "count", n)
	}
}

func (p *Pipeline) observeStage(stage string, start time.Time) {
	p.metrics.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Watch runs immediately, then again on every tick until the context is
// cancelled. A failed run is logged and counted; the next tick retries.
func (p *Pipeline) Watch(ctx context.Context, interval time.Duration) error {
	p.logger.Info("watch started", "interval", interval)
	ticker := domain.Clock().NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := p.Run(ctx); err != nil {
			if ctx.Err() != nil {
				p.logger.Info("watch stopping", "reason", ctx.Err())
				return nil
			}
			p.logger.Error("run failed", "error", err)
		}

		select {
		case <-ctx.Done():
			p.logger.Info("watch stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}
