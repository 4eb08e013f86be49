// Package explorer runs the exploration pipeline over a loaded table:
// column detection, series build, range filtering, granularity resolution,
// aggregation, KPI computation, and chart assembly. Each stage carries its
// own span and structured logging, and only genuinely fatal conditions fail
// a run; an empty filtered series is reported inside the result instead.
package explorer

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/sarahsmason/Time-Series-Explorer/internal/config"
	"github.com/sarahsmason/Time-Series-Explorer/internal/dataset"
	apperrors "github.com/sarahsmason/Time-Series-Explorer/internal/errors"
	"github.com/sarahsmason/Time-Series-Explorer/internal/format"
	"github.com/sarahsmason/Time-Series-Explorer/internal/infrastructure"
	"github.com/sarahsmason/Time-Series-Explorer/internal/kpi"
	"github.com/sarahsmason/Time-Series-Explorer/internal/resample"
	"github.com/sarahsmason/Time-Series-Explorer/pkg/contracts/domain"
)

// Service runs exploration requests over loaded tables. All fields are
// configuration, so a Service is safe for concurrent use.
type Service struct {
	cfg      *config.Config
	logger   *slog.Logger
	tracer   trace.Tracer
	detector *dataset.Detector
	builder  *dataset.Builder
	policy   format.CurrencyPolicy
	auto     resample.AutoPolicy
}

// New creates an explorer service from configuration. A nil logger falls
// back to slog.Default(). The tracer comes from the global provider, so
// spans are no-ops until tracing is initialized.
func New(cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:      cfg,
		logger:   infrastructure.WithComponent(logger, "explorer"),
		tracer:   otel.Tracer(infrastructure.TracerName),
		detector: dataset.NewDetector(cfg.Detect.Threshold, cfg.Input.DateFormats, logger),
		builder:  dataset.NewBuilder(cfg.Input.DateFormats, logger),
		policy:   format.FromConfig(cfg.Format),
		auto: resample.AutoPolicy{
			DailyMaxDays:     cfg.Explorer.Auto.DailyMaxDays,
			WeeklyMaxDays:    cfg.Explorer.Auto.WeeklyMaxDays,
			MonthlyMaxDays:   cfg.Explorer.Auto.MonthlyMaxDays,
			QuarterlyMaxDays: cfg.Explorer.Auto.QuarterlyMaxDays,
		},
	}
}

// Explore runs the full pipeline for one request. Detection failures,
// invalid overrides, and malformed requests abort the run with a typed
// error. An empty filtered series does not: the result then carries the
// reason in KPIError with nil KPIs and no chart, so a frontend can show
// "no data in range" without treating the run as failed.
func (s *Service) Explore(ctx context.Context, table *domain.RawTable, req domain.ExploreRequest) (*domain.ExploreResult, error) {
	start := time.Now()

	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.RunIDFromContext(ctx)

	ctx, span := s.tracer.Start(ctx, "explore.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("source", table.SourceName),
			attribute.Int("rows", table.RowCount()),
			attribute.Int("columns", table.ColumnCount()),
		))
	defer span.End()

	if err := req.Validate(); err != nil {
		wrapped := apperrors.NewValidationError("invalid exploration request", err)
		infrastructure.RecordSpanError(ctx, wrapped)
		return nil, wrapped
	}

	requested := req.Granularity
	if requested == "" {
		requested = domain.GranularityAuto
	}

	result := &domain.ExploreResult{
		RunID:     runID,
		Source:    table.SourceName,
		Range:     req.Range(),
		Requested: requested,
	}

	s.logger.InfoContext(ctx, "exploration started",
		slog.String("source", table.SourceName),
		slog.Int("rows", table.RowCount()),
		slog.String("granularity", requested.String()))

	sel, err := s.detectColumns(ctx, table, req.Overrides())
	if err != nil {
		infrastructure.RecordSpanError(ctx, err)
		return nil, err
	}
	result.Selection = sel

	series, stats, err := s.buildSeries(ctx, table, sel)
	if err != nil {
		infrastructure.RecordSpanError(ctx, err)
		return nil, err
	}
	result.Stats = stats

	filtered := s.filterRange(ctx, series, req.Range())
	result.Filtered = filtered
	result.SpanDays = filtered.SpanDays()

	resolved := s.resolveGranularity(ctx, requested, filtered)
	result.Resolved = resolved

	agg, err := s.aggregate(ctx, filtered, resolved)
	if err != nil {
		infrastructure.RecordSpanError(ctx, err)
		return nil, err
	}
	result.Aggregate = agg

	report, err := s.computeKPIs(ctx, filtered, req.Range())
	switch {
	case err == nil:
		result.KPIs = &report
		result.Chart = s.buildChart(ctx, table.SourceName, agg)
	case apperrors.Is(err, domain.ErrEmptySeries):
		result.KPIError = emptySeriesMessage(err)
		s.logger.WarnContext(ctx, "no observations in the selected range",
			slog.String("source", table.SourceName))
		infrastructure.AddSpanEvent(ctx, "explore.empty_range", map[string]interface{}{
			"rows_kept": stats.RowsKept,
		})
	default:
		infrastructure.RecordSpanError(ctx, err)
		return nil, err
	}

	result.GeneratedAt = time.Now().UTC()
	result.Duration = time.Since(start)

	span.SetAttributes(
		attribute.String("granularity.resolved", resolved.String()),
		attribute.Int("buckets", len(agg.Buckets)),
		attribute.Bool("has_data", result.HasData()),
	)
	s.logger.InfoContext(ctx, "exploration finished",
		slog.String("granularity", resolved.String()),
		slog.Int("buckets", len(agg.Buckets)),
		slog.Int("rows_kept", stats.RowsKept),
		slog.Int("rows_dropped", stats.RowsDropped),
		slog.Duration("duration", result.Duration))

	return result, nil
}

func (s *Service) detectColumns(ctx context.Context, table *domain.RawTable, ov domain.Overrides) (domain.ColumnSelection, error) {
	ctx, span := s.tracer.Start(ctx, "explore.detect_columns",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	sel, err := s.detector.Detect(ctx, table, ov)
	if err != nil {
		infrastructure.RecordSpanError(ctx, err)
		return sel, err
	}

	span.SetAttributes(
		attribute.String("date_column", sel.DateColumn),
		attribute.String("value_column", sel.ValueColumn),
		attribute.Bool("date_overridden", sel.DateOverridden),
		attribute.Bool("value_overridden", sel.ValueOverridden),
	)
	return sel, nil
}

func (s *Service) buildSeries(ctx context.Context, table *domain.RawTable, sel domain.ColumnSelection) (domain.Series, domain.BuildStats, error) {
	ctx, span := s.tracer.Start(ctx, "explore.build_series",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	series, stats, err := s.builder.Build(ctx, table, sel)
	if err != nil {
		infrastructure.RecordSpanError(ctx, err)
		return nil, stats, err
	}

	span.SetAttributes(
		attribute.Int("rows.total", stats.RowsTotal),
		attribute.Int("rows.kept", stats.RowsKept),
		attribute.Int("rows.dropped", stats.RowsDropped),
	)
	return series, stats, nil
}

func (s *Service) filterRange(ctx context.Context, series domain.Series, r domain.DateRange) domain.Series {
	_, span := s.tracer.Start(ctx, "explore.filter_range",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	filtered := series.FilterRange(r)

	span.SetAttributes(
		attribute.Int("rows.before", len(series)),
		attribute.Int("rows.after", len(filtered)),
		attribute.Bool("bounded", !r.IsZero()),
	)
	return filtered
}

func (s *Service) resolveGranularity(ctx context.Context, requested domain.Granularity, filtered domain.Series) domain.Granularity {
	_, span := s.tracer.Start(ctx, "explore.resolve_granularity",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	resolved := resample.Resolve(requested, filtered, s.auto)

	span.SetAttributes(
		attribute.String("granularity.requested", requested.String()),
		attribute.String("granularity.resolved", resolved.String()),
		attribute.Int("span_days", filtered.SpanDays()),
	)
	return resolved
}

func (s *Service) aggregate(ctx context.Context, filtered domain.Series, g domain.Granularity) (domain.Aggregate, error) {
	ctx, span := s.tracer.Start(ctx, "explore.aggregate",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	agg, err := resample.Aggregate(filtered, g)
	if err != nil {
		infrastructure.RecordSpanError(ctx, err)
		return agg, err
	}

	span.SetAttributes(attribute.Int("buckets", len(agg.Buckets)))
	return agg, nil
}

func (s *Service) computeKPIs(ctx context.Context, filtered domain.Series, r domain.DateRange) (domain.KPIReport, error) {
	ctx, span := s.tracer.Start(ctx, "explore.compute_kpis",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	report, err := kpi.Compute(filtered, r)
	if err != nil {
		infrastructure.RecordSpanError(ctx, err)
		return report, err
	}

	span.SetAttributes(
		attribute.Int("count", report.Count),
		attribute.Float64("total", report.Total),
	)
	return report, nil
}

func (s *Service) buildChart(ctx context.Context, source string, agg domain.Aggregate) *domain.ChartData {
	_, span := s.tracer.Start(ctx, "explore.build_chart",
		trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	chart := s.BuildChart(source, agg)
	if chart != nil {
		span.SetAttributes(
			attribute.Int("points", chart.PointCount()),
			attribute.Int("ticks", len(chart.Ticks)),
		)
	}
	return chart
}

// emptySeriesMessage extracts the user-facing message of an empty-series
// error, without the taxonomy prefix Error() would add.
func emptySeriesMessage(err error) string {
	var app *apperrors.AppError
	if apperrors.As(err, &app) {
		return app.Message
	}
	return err.Error()
}
