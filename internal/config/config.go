package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "github.com/sarahsmason/Time-Series-Explorer/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Input    InputConfig    `yaml:"input" envconfig:"INPUT"`
	Detect   DetectConfig   `yaml:"detect" envconfig:"DETECT"`
	Explorer ExplorerConfig `yaml:"explorer" envconfig:"EXPLORER"`
	Format   FormatConfig   `yaml:"format" envconfig:"FORMAT"`
	Export   ExportConfig   `yaml:"export" envconfig:"EXPORT"`
	Tracing  TracingConfig  `yaml:"tracing" envconfig:"TRACING"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stderr stdout file"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// InputConfig controls how datasets are located and read
type InputConfig struct {
	// DefaultFiles are probed in order when no explicit input path is given.
	DefaultFiles []string `yaml:"default_files" envconfig:"DEFAULT_FILES"`
	// Sheet selects the Excel worksheet; empty means the first sheet.
	Sheet string `yaml:"sheet" envconfig:"SHEET"`
	// Delimiter is the CSV field separator.
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER" validate:"len=1"`
	// DateFormats are tried in order when parsing date cells.
	DateFormats []string `yaml:"date_formats" envconfig:"DATE_FORMATS" validate:"min=1"`
	// MaxFileSizeMB caps the input file size.
	MaxFileSizeMB int64 `yaml:"max_file_size_mb" envconfig:"MAX_FILE_SIZE_MB" validate:"min=1"`
}

// DetectConfig controls automatic column detection
type DetectConfig struct {
	// Threshold is the parse fraction a column must exceed (strictly) to
	// qualify as a date or numeric candidate.
	Threshold float64 `yaml:"threshold" envconfig:"THRESHOLD" validate:"gt=0,lt=1"`
}

// ExplorerConfig controls pipeline behavior
type ExplorerConfig struct {
	Auto    AutoConfig    `yaml:"auto" envconfig:"AUTO"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"min=1s"`
}

// AutoConfig holds the span thresholds, in days, used to resolve the auto
// granularity. Spans at or under DailyMaxDays aggregate daily, and so on;
// anything beyond QuarterlyMaxDays aggregates yearly. Validation requires
// the thresholds to be positive and strictly ascending, which is what keeps
// the resolution monotone: a longer span never yields a finer granularity.
type AutoConfig struct {
	DailyMaxDays     int `yaml:"daily_max_days" envconfig:"DAILY_MAX_DAYS" validate:"min=1"`
	WeeklyMaxDays    int `yaml:"weekly_max_days" envconfig:"WEEKLY_MAX_DAYS" validate:"min=1"`
	MonthlyMaxDays   int `yaml:"monthly_max_days" envconfig:"MONTHLY_MAX_DAYS" validate:"min=1"`
	QuarterlyMaxDays int `yaml:"quarterly_max_days" envconfig:"QUARTERLY_MAX_DAYS" validate:"min=1"`
}

// FormatConfig controls presentation formatting
type FormatConfig struct {
	CurrencySymbol string `yaml:"currency_symbol" envconfig:"CURRENCY_SYMBOL"`
	ThousandsSep   string `yaml:"thousands_sep" envconfig:"THOUSANDS_SEP"`
	DecimalSep     string `yaml:"decimal_sep" envconfig:"DECIMAL_SEP" validate:"required"`
	Decimals       int    `yaml:"decimals" envconfig:"DECIMALS" validate:"min=0,max=6"`
	SymbolSuffix   bool   `yaml:"symbol_suffix" envconfig:"SYMBOL_SUFFIX"`
	AxisTickCount  int    `yaml:"axis_tick_count" envconfig:"AXIS_TICK_COUNT" validate:"min=2,max=20"`
}

// ExportConfig controls file exports
type ExportConfig struct {
	OutputDir  string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	IncludeBOM bool   `yaml:"include_bom" envconfig:"INCLUDE_BOM"`
}

// TracingConfig controls OpenTelemetry span export
type TracingConfig struct {
	Enabled     bool `yaml:"enabled" envconfig:"ENABLED"`
	PrettyPrint bool `yaml:"pretty_print" envconfig:"PRETTY_PRINT"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stderr",
			FilePath: "logs/explorer.log",
		},
		Input: InputConfig{
			DefaultFiles: []string{
				"RetailSalesHealthPersonalCare.csv",
				"data.csv",
			},
			Delimiter: ",",
			DateFormats: []string{
				"2006-01-02",
				"2006-01-02 15:04:05",
				time.RFC3339,
				"01/02/2006",
				"02/01/2006",
				"2006/01/02",
				"01-02-2006",
				"2-Jan-2006",
				"Jan 2, 2006",
			},
			MaxFileSizeMB: 100,
		},
		Detect: DetectConfig{
			Threshold: 0.5,
		},
		Explorer: ExplorerConfig{
			Auto: AutoConfig{
				DailyMaxDays:     90,
				WeeklyMaxDays:    730,
				MonthlyMaxDays:   3650,
				QuarterlyMaxDays: 14600,
			},
			Timeout: 2 * time.Minute,
		},
		Format: FormatConfig{
			CurrencySymbol: "$",
			ThousandsSep:   ",",
			DecimalSep:     ".",
			Decimals:       2,
			SymbolSuffix:   false,
			AxisTickCount:  6,
		},
		Export: ExportConfig{
			OutputDir:  "out",
			IncludeBOM: true,
		},
		Tracing: TracingConfig{
			Enabled:     false,
			PrettyPrint: false,
		},
	}
}

// Load loads configuration, lowest precedence first: defaults, then the
// YAML file (the given path, or the first candidate location that exists
// when path is empty), then TSX_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	configFile := path
	if configFile == "" {
		configFile = findConfigFile()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError(
				fmt.Sprintf("failed to load config file %s", configFile), err)
		}
	}

	if err := envconfig.Process("TSX", cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; fields absent from the file
// keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// findConfigFile returns the first config file candidate that exists
func findConfigFile() string {
	locations := []string{
		"explorer.yaml",
		"configs/explorer.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use defaults and env vars only
}

// validate validates the configuration
func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}

	// Cross-field rules the struct tags cannot express.
	a := c.Explorer.Auto
	if !(a.DailyMaxDays < a.WeeklyMaxDays &&
		a.WeeklyMaxDays < a.MonthlyMaxDays &&
		a.MonthlyMaxDays < a.QuarterlyMaxDays) {
		return apperrors.NewConfigError(
			fmt.Sprintf("auto thresholds must be strictly ascending, got %d/%d/%d/%d",
				a.DailyMaxDays, a.WeeklyMaxDays, a.MonthlyMaxDays, a.QuarterlyMaxDays), nil)
	}

	if c.Logging.Output == "file" && c.Logging.FilePath == "" {
		return apperrors.NewConfigError("logging output is file but file_path is empty", nil)
	}

	return nil
}
