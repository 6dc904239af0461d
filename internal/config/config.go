package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/quantlab/rotor/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Backtest BacktestConfig `mapstructure:"backtest"`
	Data     DataConfig     `mapstructure:"data"`
	Report   ReportConfig   `mapstructure:"report"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Server   ServerConfig   `mapstructure:"server"`
}

// BacktestConfig is the recognized strategy and simulation surface.
type BacktestConfig struct {
	InitialCapital   float64  `mapstructure:"initial_capital"`
	MomentumWindow   int      `mapstructure:"momentum_window"`
	ShortWindow      int      `mapstructure:"short_window"`
	CommissionRate   float64  `mapstructure:"commission_rate"`
	MinCommission    float64  `mapstructure:"min_commission"`
	ScoringVariant   string   `mapstructure:"scoring_variant"` // "A" or "B"
	InstrumentPool   []string `mapstructure:"instrument_pool"`
	StartDate        string   `mapstructure:"start_date"` // YYYY-MM-DD, empty = full history
	EndDate          string   `mapstructure:"end_date"`
	FractionalShares bool     `mapstructure:"fractional_shares"`
}

type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

type ReportConfig struct {
	Dir string `mapstructure:"dir"`
}

// ArchiveConfig selects the cold storage backend for completed runs.
type ArchiveConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "localfs" or "s3"
	Path    string   `mapstructure:"path"` // For localfs
	S3      S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Metrics bool   `mapstructure:"metrics"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with the documented defaults.
func Defaults() *Config {
	return &Config{
		Backtest: BacktestConfig{
			InitialCapital: 100000,
			MomentumWindow: 25,
			ShortWindow:    3,
			CommissionRate: 0.0002,
			MinCommission:  5.0,
			ScoringVariant: "A",
		},
		Data: DataConfig{
			Dir: "data",
		},
		Report: ReportConfig{
			Dir: "results",
		},
		Archive: ArchiveConfig{
			Type: "localfs",
			Path: "archive",
		},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Metrics: true,
		},
	}
}

// Validate checks the configuration before a run starts. A run must not
// begin with an invalid configuration.
func (c *Config) Validate() error {
	b := c.Backtest

	if b.InitialCapital <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial_capital must be positive, got %v", b.InitialCapital))
	}
	if b.MomentumWindow <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("momentum_window must be positive, got %d", b.MomentumWindow))
	}
	if b.ShortWindow <= 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("short_window must be positive, got %d", b.ShortWindow))
	}
	if b.ShortWindow > b.MomentumWindow {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("short_window (%d) cannot exceed momentum_window (%d)", b.ShortWindow, b.MomentumWindow))
	}
	if b.CommissionRate < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("commission_rate cannot be negative, got %v", b.CommissionRate))
	}
	if b.MinCommission < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("min_commission cannot be negative, got %v", b.MinCommission))
	}
	if v := core.ScoringVariant(b.ScoringVariant); v != core.VariantWeighted && v != core.VariantSigmoid {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("scoring_variant must be A or B, got %q", b.ScoringVariant))
	}
	if len(b.InstrumentPool) == 0 {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("instrument_pool is empty"))
	}

	start, err := b.StartTime()
	if err != nil {
		return core.WrapError(core.ErrConfigInvalid, err)
	}
	end, err := b.EndTime()
	if err != nil {
		return core.WrapError(core.ErrConfigInvalid, err)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("end_date %s before start_date %s", b.EndDate, b.StartDate))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	switch c.Archive.Type {
	case "", "localfs", "s3":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("archive type must be localfs or s3, got %q", c.Archive.Type))
	}
	if c.Archive.Enabled && c.Archive.Type == "s3" && c.Archive.S3.Bucket == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("s3 bucket required when archive type is s3"))
	}

	return nil
}

// StartTime parses the start bound; zero when unset (full history).
func (b BacktestConfig) StartTime() (time.Time, error) {
	return parseDate(b.StartDate, "start_date")
}

// EndTime parses the end bound; zero when unset.
func (b BacktestConfig) EndTime() (time.Time, error) {
	return parseDate(b.EndDate, "end_date")
}

func parseDate(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: expected YYYY-MM-DD, got %q", field, value)
	}
	return t, nil
}
