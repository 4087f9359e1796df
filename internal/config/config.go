package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Settings represents the complete application configuration
type Settings struct {
	Run     RunConfig     `yaml:"run" envconfig:"RUN"`
	Fetch   FetchConfig   `yaml:"fetch" envconfig:"FETCH"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Chart   ChartConfig   `yaml:"chart" envconfig:"CHART"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// RunConfig carries the run parameters that may also arrive via flags,
// prompt, or defaults. Empty fields here mean "not explicitly configured";
// ResolveRunParams decides what fills them.
type RunConfig struct {
	Tickers   []string `yaml:"tickers" envconfig:"TICKERS"`
	StartDate string   `yaml:"start_date" envconfig:"START_DATE"`
	EndDate   string   `yaml:"end_date" envconfig:"END_DATE"`
	Auto      bool     `yaml:"auto" envconfig:"AUTO"`
}

// FetchConfig contains market-data provider client configuration
type FetchConfig struct {
	BaseURL     string        `yaml:"base_url" envconfig:"BASE_URL" validate:"required,url"`
	Timeout     time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
	RatePerSec  float64       `yaml:"rate_per_sec" envconfig:"RATE_PER_SEC" validate:"gt=0"`
	Burst       int           `yaml:"burst" envconfig:"BURST" validate:"gte=1"`
	Concurrency int           `yaml:"concurrency" envconfig:"CONCURRENCY" validate:"gte=1"`
	MaxAttempts int           `yaml:"max_attempts" envconfig:"MAX_ATTEMPTS" validate:"gte=1"`
	RetryDelay  time.Duration `yaml:"retry_delay" envconfig:"RETRY_DELAY" validate:"gt=0"`
	MaxDelay    time.Duration `yaml:"max_delay" envconfig:"MAX_DELAY" validate:"gt=0"`
}

// OutputConfig contains output directory and artifact configuration
type OutputConfig struct {
	// BaseDir anchors the output tree. Empty means the executable directory.
	BaseDir  string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir  string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	PlotsDir string `yaml:"plots_dir" envconfig:"PLOTS_DIR" validate:"required"`
	Excel    bool   `yaml:"excel" envconfig:"EXCEL"`
}

// ChartConfig contains chart rendering dimensions in pixels
type ChartConfig struct {
	Width          int `yaml:"width" envconfig:"WIDTH" validate:"gte=320"`
	Height         int `yaml:"height" envconfig:"HEIGHT" validate:"gte=240"`
	CombinedWidth  int `yaml:"combined_width" envconfig:"COMBINED_WIDTH" validate:"gte=320"`
	CombinedHeight int `yaml:"combined_height" envconfig:"COMBINED_HEIGHT" validate:"gte=240"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Default returns the built-in configuration
func Default() *Settings {
	return &Settings{
		Fetch: FetchConfig{
			BaseURL:     "https://query1.finance.yahoo.com",
			Timeout:     30 * time.Second,
			RatePerSec:  4,
			Burst:       2,
			Concurrency: 3,
			MaxAttempts: 3,
			RetryDelay:  time.Second,
			MaxDelay:    30 * time.Second,
		},
		Output: OutputConfig{
			DataDir:  "data",
			PlotsDir: "plots",
		},
		Chart: ChartConfig{
			Width:          1000,
			Height:         500,
			CombinedWidth:  1200,
			CombinedHeight: 600,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Output:   "console",
			FilePath: "logs/stocklens.log",
		},
	}
}

// Load builds the configuration in layers: built-in defaults, then the
// optional YAML file, then STOCKLENS_* environment variables. Later layers
// win. The result is validated before being returned.
func Load(configFile string) (*Settings, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process("STOCKLENS", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays values from a YAML file onto cfg. Keys absent from
// the file keep their current values.
func loadFromFile(filePath string, cfg *Settings) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate validates the configuration
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	if s.Fetch.RetryDelay > s.Fetch.MaxDelay {
		return fmt.Errorf("fetch retry_delay %s exceeds max_delay %s", s.Fetch.RetryDelay, s.Fetch.MaxDelay)
	}
	if s.Logging.Output != "console" && s.Logging.FilePath == "" {
		return fmt.Errorf("logging output %q requires a file path", s.Logging.Output)
	}
	return nil
}

// tickerPattern accepts uppercase provider symbols such as AAPL, BRK-B,
// BF.B and ^GSPC.
var tickerPattern = regexp.MustCompile(`^[\^]?[A-Z0-9][A-Z0-9.\-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Tag name registration cannot fail for a non-empty tag.
	_ = v.RegisterValidation("ticker", func(fl validator.FieldLevel) bool {
		return tickerPattern.MatchString(fl.Field().String())
	})
	return v
}
