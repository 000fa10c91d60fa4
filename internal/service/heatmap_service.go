package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"member-heatmap/internal/metrics"
	"member-heatmap/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Resolver geocodes a single address. Implementations report failures inside the
// Resolution instead of returning errors.
type Resolver interface {
	Resolve(ctx context.Context, address string) models.Resolution
}

// Request carries the per-run choices made by the user.
type Request struct {
	Mode    models.Mode
	Filters models.FilterSelection
	// Progress, when set, is called after each geocoding lookup. With concurrency above
	// one it is called from several goroutines.
	Progress func(done, total int)
}

// HeatmapService runs the roster-to-heatmap pipeline.
type HeatmapService struct {
	keys          *KeyBuilder
	resolver      Resolver
	concurrency   int
	filterColumns []models.FilterColumn
}

// Option configures the service.
type Option func(*HeatmapService)

// WithConcurrency sets how many lookups may be in flight. One, the default, resolves the
// targets strictly in order.
func WithConcurrency(n int) Option {
	return func(s *HeatmapService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithFilterColumns replaces the recognised filter columns.
func WithFilterColumns(columns []models.FilterColumn) Option {
	return func(s *HeatmapService) {
		s.filterColumns = columns
	}
}

// NewHeatmapService creates a new heatmap service
func NewHeatmapService(keys *KeyBuilder, resolver Resolver, opts ...Option) *HeatmapService {
	s := &HeatmapService{
		keys:          keys,
		resolver:      resolver,
		concurrency:   1,
		filterColumns: models.DefaultFilterColumns(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DescribeFilters lists the filter controls available for a roster.
func (s *HeatmapService) DescribeFilters(r *models.Roster) []models.FilterControl {
	return DescribeFilters(r, s.filterColumns)
}

// Generate filters the roster, builds targets, geocodes them and aggregates the points.
// Only a missing column, a missing reference table or an unknown mode fail the run;
// addresses that cannot be geocoded are dropped and counted in the summary.
func (s *HeatmapService) Generate(ctx context.Context, r *models.Roster, req Request) (*models.Heatmap, error) {
	if r == nil {
		return nil, errors.New("service: roster cannot be nil")
	}

	runID := uuid.NewString()
	logger := log.With().Str("run_id", runID).Str("mode", string(req.Mode)).Logger()
	start := time.Now()

	filtered := ApplyFilters(r, req.Filters)
	targets, err := s.keys.Build(filtered, req.Mode)
	if err != nil {
		metrics.PipelineRunsTotal.WithLabelValues(string(req.Mode), "error").Inc()
		logger.Warn().Err(err).Msg("heatmap run rejected")
		return nil, fmt.Errorf("service: failed to build targets: %w", err)
	}
	logger.Info().Int("rows", r.Len()).Int("filtered", filtered.Len()).Int("targets", len(targets)).
		Msg("geocoding targets")

	resolutions := s.resolveAll(ctx, targets, req.Progress)
	points, summary := Aggregate(targets, resolutions, req.Mode)
	summary.Rows = r.Len()
	summary.Filtered = filtered.Len()

	view, _ := NewViewport(points)

	metrics.PipelineRunsTotal.WithLabelValues(string(req.Mode), "ok").Inc()
	metrics.PointsTotal.Add(float64(len(points)))
	logger.Info().Int("resolved", summary.Resolved).Interface("unresolved", summary.Unresolved).
		Dur("elapsed", time.Since(start)).Msg("heatmap generated")

	return &models.Heatmap{
		RunID:   runID,
		Mode:    req.Mode,
		Points:  points,
		View:    view,
		Summary: summary,
	}, nil
}

// resolveAll geocodes every target, keeping result order aligned with targets.
func (s *HeatmapService) resolveAll(ctx context.Context, targets []models.Target, progress func(done, total int)) []models.Resolution {
	out := make([]models.Resolution, len(targets))
	total := len(targets)

	if s.concurrency <= 1 {
		for i, t := range targets {
			out[i] = s.resolver.Resolve(ctx, t.Address)
			if progress != nil {
				progress(i+1, total)
			}
		}
		return out
	}

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			out[i] = s.resolver.Resolve(gctx, t.Address)
			n := done.Add(1)
			if progress != nil {
				progress(int(n), total)
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
