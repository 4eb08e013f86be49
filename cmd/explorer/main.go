package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sarahsmason/Time-Series-Explorer/internal/config"
	"github.com/sarahsmason/Time-Series-Explorer/internal/dataset"
	apperrors "github.com/sarahsmason/Time-Series-Explorer/internal/errors"
	"github.com/sarahsmason/Time-Series-Explorer/internal/explorer"
	"github.com/sarahsmason/Time-Series-Explorer/internal/exporter"
	"github.com/sarahsmason/Time-Series-Explorer/internal/format"
	"github.com/sarahsmason/Time-Series-Explorer/internal/infrastructure"
	"github.com/sarahsmason/Time-Series-Explorer/internal/validation"
	"github.com/sarahsmason/Time-Series-Explorer/pkg/contracts"
	"github.com/sarahsmason/Time-Series-Explorer/pkg/contracts/domain"
)

func main() {
	var (
		inputPath    = flag.String("input", "", "dataset file (.csv, .xlsx, .xlsm); defaults to the first configured candidate that exists")
		sheet        = flag.String("sheet", "", "Excel worksheet name (first sheet when empty)")
		dateCol      = flag.String("date-col", "", "date column override (auto-detected when empty)")
		valueCol     = flag.String("value-col", "", "value column override (auto-detected when empty)")
		fromStr      = flag.String("from", "", "start of the date range, inclusive (YYYY-MM-DD)")
		toStr        = flag.String("to", "", "end of the date range, inclusive (YYYY-MM-DD)")
		granStr      = flag.String("granularity", "auto", "bucketing granularity: auto, daily, weekly, monthly, quarterly, yearly")
		configPath   = flag.String("config", "", "config file path (explorer.yaml is probed when empty)")
		outDir       = flag.String("out", "", "output directory for exports (overrides config)")
		jsonName     = flag.String("json", "", "export the full result as JSON to this file")
		csvName      = flag.String("csv", "", "export the aggregated buckets as CSV to this file")
		filteredName = flag.String("filtered-csv", "", "export the filtered raw series as CSV to this file")
		logLevel     = flag.String("log-level", "", "log level override: debug, info, warn, error")
		quiet        = flag.Bool("quiet", false, "suppress the printed summary (logs and exports only)")
		showVersion  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *outDir != "" {
		cfg.Export.OutputDir = *outDir
	}
	if *sheet != "" {
		cfg.Input.Sheet = *sheet
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	providers, err := infrastructure.InitializeOTel(cfg.Tracing, logger)
	if err != nil {
		logger.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	req, err := buildRequest(*dateCol, *valueCol, *fromStr, *toStr, *granStr)
	if err != nil {
		logger.Error("Invalid arguments", "error", err)
		os.Exit(1)
	}

	ctx := infrastructure.EnsureRunID(context.Background())
	ctx, cancel := context.WithTimeout(ctx, cfg.Explorer.Timeout)
	defer cancel()

	loader := dataset.NewLoader(logger, cfg.Input.MaxFileSizeMB*1024*1024)
	path, err := loader.ResolveInput(*inputPath, cfg.Input.DefaultFiles)
	if err != nil {
		logger.Error("No input dataset", "error", err)
		os.Exit(1)
	}

	table, err := loader.LoadTable(path, dataset.LoadOptions{
		Delimiter: delimiterRune(cfg.Input.Delimiter),
		Sheet:     cfg.Input.Sheet,
	})
	if err != nil {
		logger.Error("Failed to load dataset", "file", path, "error", err)
		os.Exit(1)
	}

	svc := explorer.New(cfg, logger)
	result, err := svc.Explore(ctx, table, req)
	if err != nil {
		logger.Error("Exploration failed",
			"error", err,
			"type", string(apperrors.TypeOf(err)))
		os.Exit(1)
	}

	policy := format.FromConfig(cfg.Format)
	if !*quiet {
		printResult(result, policy)
	}

	exporting := *csvName != "" || *filteredName != "" || *jsonName != ""
	if exporting {
		if err := validation.NewFileValidator(logger, 0).ValidateOutputDirectory(cfg.Export.OutputDir); err != nil {
			logger.Error("Output directory is unusable", "error", err)
			os.Exit(1)
		}
	}

	writer := exporter.NewWriter(cfg.Export, policy, logger)
	if *csvName != "" {
		if _, err := writer.WriteAggregateCSV(*csvName, result.Aggregate); err != nil {
			logger.Error("Aggregate CSV export failed", "error", err)
			os.Exit(1)
		}
	}
	if *filteredName != "" {
		if _, err := writer.WriteFilteredCSV(*filteredName, result.Filtered, result.Selection); err != nil {
			logger.Error("Filtered CSV export failed", "error", err)
			os.Exit(1)
		}
	}
	if *jsonName != "" {
		if _, err := writer.WriteResultJSON(*jsonName, result); err != nil {
			logger.Error("JSON export failed", "error", err)
			os.Exit(1)
		}
	}
}

// buildRequest turns the CLI flags into an exploration request. Dates are
// exact days; the same inclusive bounds the pipeline applies.
func buildRequest(dateCol, valueCol, fromStr, toStr, granStr string) (domain.ExploreRequest, error) {
	var req domain.ExploreRequest

	req.DateColumn = dateCol
	req.ValueColumn = valueCol

	if fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return req, fmt.Errorf("invalid -from date %q: %w", fromStr, err)
		}
		req.From = from
	}
	if toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return req, fmt.Errorf("invalid -to date %q: %w", toStr, err)
		}
		req.To = to
	}

	g, err := domain.ParseGranularity(granStr)
	if err != nil {
		return req, err
	}
	req.Granularity = g

	return req, nil
}

func delimiterRune(s string) rune {
	if s == "" {
		return ','
	}
	return []rune(s)[0]
}

func printResult(result *domain.ExploreResult, policy format.CurrencyPolicy) {
	fmt.Printf("\nSource: %s\n", result.Source)
	fmt.Printf("Columns: date=%s value=%s\n",
		describeColumn(result.Selection.DateColumn, result.Selection.DateOverridden, result.Selection.DateFraction()),
		describeColumn(result.Selection.ValueColumn, result.Selection.ValueOverridden, result.Selection.ValueFraction()))
	fmt.Printf("Rows: %d kept, %d dropped of %d\n",
		result.Stats.RowsKept, result.Stats.RowsDropped, result.Stats.RowsTotal)
	if !result.Range.IsZero() {
		fmt.Printf("Range: %s\n", describeRange(result.Range))
	}
	fmt.Printf("Granularity: %s%s\n", result.Resolved.Label(), autoNote(result))

	if result.KPIs == nil {
		fmt.Printf("\nNo data: %s\n", result.KPIError)
		return
	}

	k := result.KPIs
	fmt.Println("\n=== KPIs ===")
	fmt.Printf("Total:   %s\n", policy.Currency(k.Total))
	fmt.Printf("Average: %s\n", policy.Currency(k.Average))
	fmt.Printf("Count:   %d\n", k.Count)
	fmt.Printf("Max:     %s on %s\n", policy.Currency(k.Max.Value), k.Max.Date.Format("2006-01-02"))
	fmt.Printf("Min:     %s on %s\n", policy.Currency(k.Min.Value), k.Min.Date.Format("2006-01-02"))

	fmt.Printf("\n=== %s Totals ===\n", result.Resolved.Label())
	fmt.Println("Period       | Total              | Obs")
	fmt.Println("-------------|--------------------|----")
	for _, b := range result.Aggregate.Buckets {
		fmt.Printf("%-12s | %18s | %3d\n",
			format.PeriodLabel(b.Start, result.Resolved),
			policy.Currency(b.Value),
			b.Count)
	}
	fmt.Printf("Average per bucket: %s\n", policy.Currency(result.Aggregate.MeanBucketValue()))
}

func describeColumn(name string, overridden bool, fraction float64) string {
	if overridden {
		return fmt.Sprintf("%q (manual)", name)
	}
	return fmt.Sprintf("%q (detected, %.0f%% parse)", name, fraction*100)
}

func describeRange(r domain.DateRange) string {
	from, to := "start", "end"
	if !r.From.IsZero() {
		from = r.From.Format("2006-01-02")
	}
	if !r.To.IsZero() {
		to = r.To.Format("2006-01-02")
	}
	return fmt.Sprintf("%s to %s", from, to)
}

func autoNote(result *domain.ExploreResult) string {
	if result.Requested == domain.GranularityAuto {
		return fmt.Sprintf(" (auto, %d-day span)", result.SpanDays)
	}
	return ""
}
