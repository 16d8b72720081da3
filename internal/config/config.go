package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete pipeline configuration
type Config struct {
	Ingest  IngestConfig  `yaml:"ingest" envconfig:"INGEST"`
	Report  ReportConfig  `yaml:"report" envconfig:"REPORT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
}

// IngestConfig contains download and conversion configuration
type IngestConfig struct {
	SourceURL     string        `yaml:"source_url" envconfig:"SOURCE_URL" default:"https://data.cityofnewyork.us/api/views/nc67-uf89/rows.csv?accessType=DOWNLOAD" validate:"required,url"`
	RowsPerPart   int           `yaml:"rows_per_part" envconfig:"ROWS_PER_PART" default:"1000000" validate:"min=1"`
	RetryAttempts int           `yaml:"retry_attempts" envconfig:"RETRY_ATTEMPTS" default:"10" validate:"min=1"`
	RetryEvery    time.Duration `yaml:"retry_every" envconfig:"RETRY_EVERY" default:"5s"`
	Timeout       time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"0"`
}

// ReportConfig contains the analytical query parameters
type ReportConfig struct {
	Year            int      `yaml:"year" envconfig:"YEAR" default:"2024" validate:"min=2000,max=2100"`
	MetroStates     []string `yaml:"metro_states" envconfig:"METRO_STATES" default:"NY,NJ,CT"`
	CameraLabel     string   `yaml:"camera_label" envconfig:"CAMERA_LABEL" default:"PHTO SCHOOL ZN SPEED"`
	SuperSpeederMin int64    `yaml:"super_speeder_min" envconfig:"SUPER_SPEEDER_MIN" default:"50" validate:"min=2"`
	DebtorThreshold float64  `yaml:"debtor_threshold" envconfig:"DEBTOR_THRESHOLD" default:"10000" validate:"min=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/opcv.log"`
}

// PathsConfig contains file system paths configuration. Empty values fall
// back to the executable-relative layout resolved by GetPaths.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	DatasetDir string `yaml:"dataset_dir" envconfig:"DATASET_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// Load loads configuration from environment variables and config file.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	cfg := Default()

	// Load from config file if one exists
	if configFile := findConfigFile(); configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		*cfg = *fileCfg
	}

	// Environment overrides
	if err := envconfig.Process("OPCV", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file on top of defaults
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against the struct validation tags plus
// the cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if len(c.Report.MetroStates) == 0 {
		return fmt.Errorf("at least one metro state must be specified")
	}
	for _, s := range c.Report.MetroStates {
		if len(s) != 2 {
			return fmt.Errorf("invalid metro state code: %q", s)
		}
	}

	if c.Logging.Format != "json" {
		// Always JSON; the log file is consumed by tooling
		c.Logging.Format = "json"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/opcv.log"
	}

	return nil
}

// findConfigFile returns the path to the config file, if any
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
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
	return &Config{
		Ingest: IngestConfig{
			SourceURL:     "https://data.cityofnewyork.us/api/views/nc67-uf89/rows.csv?accessType=DOWNLOAD",
			RowsPerPart:   1_000_000,
			RetryAttempts: 10,
			RetryEvery:    5 * time.Second,
		},
		Report: ReportConfig{
			Year:            2024,
			MetroStates:     []string{"NY", "NJ", "CT"},
			CameraLabel:     "PHTO SCHOOL ZN SPEED",
			SuperSpeederMin: 50,
			DebtorThreshold: 10000,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/opcv.log",
		},
	}
}
