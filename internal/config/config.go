package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"transitdash/pkg/contracts/domain"
)

// EnvPrefix namespaces every environment variable read by Load
const EnvPrefix = "TRANSIT"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Data      DataConfig      `yaml:"data" envconfig:"DATA"`
	Policy    PolicyConfig    `yaml:"policy" envconfig:"POLICY"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gte=0"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" validate:"gt=0"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" validate:"min=1"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gt=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// DataConfig locates the ridership workbook
type DataConfig struct {
	File     string `yaml:"file" envconfig:"FILE" validate:"required"`
	Sheet    string `yaml:"sheet" envconfig:"SHEET" validate:"required"`
	SkipRows int    `yaml:"skip_rows" envconfig:"SKIP_ROWS" validate:"gte=0"`
}

// PolicyConfig holds the highlight rules. Dates use the 2006-01-02 layout.
type PolicyConfig struct {
	DisruptionStart string `yaml:"disruption_start" envconfig:"DISRUPTION_START" validate:"datetime=2006-01-02"`
	DisruptionEnd   string `yaml:"disruption_end" envconfig:"DISRUPTION_END" validate:"datetime=2006-01-02"`
	DisruptionLabel string `yaml:"disruption_label" envconfig:"DISRUPTION_LABEL"`
	HighlightFrom   int    `yaml:"highlight_from" envconfig:"HIGHLIGHT_FROM" validate:"gte=1900"`
	HighlightTo     int    `yaml:"highlight_to" envconfig:"HIGHLIGHT_TO" validate:"gtefield=HighlightFrom"`
	SummerMonths    []int  `yaml:"summer_months" envconfig:"SUMMER_MONTHS" validate:"dive,min=1,max=12"`
	BaselineYear    int    `yaml:"baseline_year" envconfig:"BASELINE_YEAR" validate:"gte=1900"`
}

// TelemetryConfig controls metrics and tracing
type TelemetryConfig struct {
	ServiceName   string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Metrics       bool   `yaml:"metrics" envconfig:"METRICS"`
	TraceExporter string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
}

// Load builds the configuration from defaults, an optional YAML file, an
// optional .env file and TRANSIT_* environment variables, in increasing
// order of precedence.
func Load() (*Config, error) {
	// .env never overrides variables already set in the process
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit YAML file; an empty path skips the file
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; absent keys keep their value
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks field constraints and the cross-field rules of the policy
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	if _, err := c.Policy.ToDomain(); err != nil {
		return err
	}
	return nil
}

// ToDomain converts the configured policy into the form the charts consume
func (p PolicyConfig) ToDomain() (domain.Policy, error) {
	start, err := time.Parse(DateLayout, p.DisruptionStart)
	if err != nil {
		return domain.Policy{}, fmt.Errorf("invalid disruption start %q: %w", p.DisruptionStart, err)
	}
	end, err := time.Parse(DateLayout, p.DisruptionEnd)
	if err != nil {
		return domain.Policy{}, fmt.Errorf("invalid disruption end %q: %w", p.DisruptionEnd, err)
	}
	if !end.After(start) {
		return domain.Policy{}, fmt.Errorf("disruption end %s must be after start %s", p.DisruptionEnd, p.DisruptionStart)
	}

	months := make([]time.Month, 0, len(p.SummerMonths))
	for _, m := range p.SummerMonths {
		months = append(months, time.Month(m))
	}

	return domain.Policy{
		DisruptionStart: start,
		DisruptionEnd:   end,
		DisruptionLabel: p.DisruptionLabel,
		HighlightYears:  domain.YearRange{From: p.HighlightFrom, To: p.HighlightTo},
		SummerMonths:    months,
		BaselineYear:    p.BaselineYear,
	}, nil
}

// Addr returns the listen address of the HTTP server
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// URL returns the browser address of the dashboard
func (s ServerConfig) URL() string {
	host := s.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, s.Port)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	policy := domain.DefaultPolicy()
	summer := make([]int, 0, len(policy.SummerMonths))
	for _, m := range policy.SummerMonths {
		summer = append(summer, int(m))
	}

	return &Config{
		Server: ServerConfig{
			Port:            DefaultPort,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{fmt.Sprintf("http://localhost:%d", DefaultPort)},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   100,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/dashboard.log",
		},
		Data: DataConfig{
			File:     DefaultDataFile,
			Sheet:    DefaultSheet,
			SkipRows: 1,
		},
		Policy: PolicyConfig{
			DisruptionStart: policy.DisruptionStart.Format(DateLayout),
			DisruptionEnd:   policy.DisruptionEnd.Format(DateLayout),
			DisruptionLabel: policy.DisruptionLabel,
			HighlightFrom:   policy.HighlightYears.From,
			HighlightTo:     policy.HighlightYears.To,
			SummerMonths:    summer,
			BaselineYear:    policy.BaselineYear,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   "transit-dashboard",
			Metrics:       true,
			TraceExporter: "none",
		},
	}
}
