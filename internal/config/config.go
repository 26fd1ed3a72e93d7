package config

import (
	"strings"

	"github.com/spf13/viper"

	"fakturo/internal/parser"
	"fakturo/internal/validator/faktur"
)

// Config holds all application configuration.
type Config struct {
	Log        LogConfig
	Parser     ParserConfig
	Validation ValidationConfig
	Export     ExportConfig
	Batch      BatchConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ParserConfig holds the extraction pipeline tunables.
type ParserConfig struct {
	YTolerance      float64 `mapstructure:"y_tolerance"`
	LabelLookahead  int     `mapstructure:"label_lookahead"`
	SignatureWindow int     `mapstructure:"signature_window"`
}

// ValidationConfig holds the reconciliation tunables.
type ValidationConfig struct {
	BaseTolerancePct  float64 `mapstructure:"base_tolerance_pct"`
	MaxTolerancePct   float64 `mapstructure:"max_tolerance_pct"`
	MinPlausibleAmt   float64 `mapstructure:"min_plausible_amount"`
	ApprovalThreshold float64 `mapstructure:"approval_threshold"`
}

// ExportConfig holds CSV/XLSX export settings.
type ExportConfig struct {
	CSVDelimiter string `mapstructure:"csv_delimiter"`
	XLSXSheet    string `mapstructure:"xlsx_sheet"`
}

// BatchConfig holds batch runner settings.
type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

// Options converts the parser section into pipeline options.
func (c *Config) Options() parser.Options {
	return parser.Options{
		YTolerance:      c.Parser.YTolerance,
		LabelLookahead:  c.Parser.LabelLookahead,
		SignatureWindow: c.Parser.SignatureWindow,
	}
}

// ValidationSettings converts the validation section into the engine config,
// keeping the built-in tier multipliers and known rates.
func (c *Config) ValidationSettings() faktur.ValidationConfig {
	cfg := faktur.DefaultValidationConfig()
	cfg.BaseTolerancePct = c.Validation.BaseTolerancePct
	cfg.MaxTolerancePct = c.Validation.MaxTolerancePct
	cfg.MinPlausibleAmount = c.Validation.MinPlausibleAmt
	cfg.ApprovalThreshold = c.Validation.ApprovalThreshold
	return cfg
}

// Load reads configuration from environment variables with the FAKTURO_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FAKTURO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Parser defaults
	v.SetDefault("parser.y_tolerance", 8.0)
	v.SetDefault("parser.label_lookahead", 3)
	v.SetDefault("parser.signature_window", 12)

	// Validation defaults
	v.SetDefault("validation.base_tolerance_pct", 0.02)
	v.SetDefault("validation.max_tolerance_pct", 0.05)
	v.SetDefault("validation.min_plausible_amount", 10000.0)
	v.SetDefault("validation.approval_threshold", 0.95)

	// Export defaults
	v.SetDefault("export.csv_delimiter", ",")
	v.SetDefault("export.xlsx_sheet", "Review")

	// Batch defaults
	v.SetDefault("batch.workers", 4)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"log.level":                       "FAKTURO_LOG_LEVEL",
		"log.format":                      "FAKTURO_LOG_FORMAT",
		"parser.y_tolerance":              "FAKTURO_PARSER_Y_TOLERANCE",
		"parser.label_lookahead":          "FAKTURO_PARSER_LABEL_LOOKAHEAD",
		"parser.signature_window":         "FAKTURO_PARSER_SIGNATURE_WINDOW",
		"validation.base_tolerance_pct":   "FAKTURO_VALIDATION_BASE_TOLERANCE_PCT",
		"validation.max_tolerance_pct":    "FAKTURO_VALIDATION_MAX_TOLERANCE_PCT",
		"validation.min_plausible_amount": "FAKTURO_VALIDATION_MIN_PLAUSIBLE_AMOUNT",
		"validation.approval_threshold":   "FAKTURO_VALIDATION_APPROVAL_THRESHOLD",
		"export.csv_delimiter":            "FAKTURO_EXPORT_CSV_DELIMITER",
		"export.xlsx_sheet":               "FAKTURO_EXPORT_XLSX_SHEET",
		"batch.workers":                   "FAKTURO_BATCH_WORKERS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Parser = ParserConfig{
		YTolerance:      v.GetFloat64("parser.y_tolerance"),
		LabelLookahead:  v.GetInt("parser.label_lookahead"),
		SignatureWindow: v.GetInt("parser.signature_window"),
	}
	cfg.Validation = ValidationConfig{
		BaseTolerancePct:  v.GetFloat64("validation.base_tolerance_pct"),
		MaxTolerancePct:   v.GetFloat64("validation.max_tolerance_pct"),
		MinPlausibleAmt:   v.GetFloat64("validation.min_plausible_amount"),
		ApprovalThreshold: v.GetFloat64("validation.approval_threshold"),
	}
	cfg.Export = ExportConfig{
		CSVDelimiter: v.GetString("export.csv_delimiter"),
		XLSXSheet:    v.GetString("export.xlsx_sheet"),
	}
	cfg.Batch = BatchConfig{
		Workers: v.GetInt("batch.workers"),
	}
	return cfg, nil
}
