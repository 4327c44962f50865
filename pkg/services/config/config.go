package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rps-tools/report-atlas/pkg/services/charts"
	"github.com/rps-tools/report-atlas/pkg/services/datasource"
	"github.com/spf13/viper"
)

const EnvPrefix = "REPORT"

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	DataSource DataSourceConfig `mapstructure:"datasource"`
	Relational RelationalConfig `mapstructure:"relational"`
	Report     ReportConfig     `mapstructure:"report"`
	PDF        PDFConfig        `mapstructure:"pdf"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Palette    charts.Palette   `mapstructure:"palette"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DataSourceConfig struct {
	Kind string `mapstructure:"kind"`
	// Seed makes synthetic figures reproducible. Zero seeds from the clock.
	Seed      uint64 `mapstructure:"seed"`
	Companies int    `mapstructure:"companies"`
}

type RelationalConfig struct {
	Driver       string        `mapstructure:"driver"`
	DSN          string        `mapstructure:"dsn"`
	Profile      string        `mapstructure:"profile"`
	ProfilesPath string        `mapstructure:"profiles_path"`
	RosterTTL    time.Duration `mapstructure:"roster_ttl"`
}

type ReportConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	BaseURL  string        `mapstructure:"base_url"`
}

type PDFConfig struct {
	Engine string `mapstructure:"engine"`
}

type ArchiveConfig struct {
	Bucket  string `mapstructure:"bucket"`
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
	Prefix  string `mapstructure:"prefix"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func setDefaults(v *viper.Viper) {
	palette := charts.DefaultPalette()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("datasource.kind", datasource.KindSynthetic)
	v.SetDefault("datasource.seed", 0)
	v.SetDefault("datasource.companies", 3)
	v.SetDefault("relational.driver", "pgx")
	v.SetDefault("relational.dsn", "")
	v.SetDefault("relational.profile", "")
	v.SetDefault("relational.profiles_path", "")
	v.SetDefault("relational.roster_ttl", 5*time.Minute)
	v.SetDefault("report.cache_ttl", time.Duration(0))
	v.SetDefault("report.base_url", "")
	v.SetDefault("pdf.engine", "maroto")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.region", "")
	v.SetDefault("archive.profile", "")
	v.SetDefault("archive.prefix", "relatorios")
	v.SetDefault("rate_limit.rps", 2.0)
	v.SetDefault("rate_limit.burst", 5)
	v.SetDefault("palette.primary", palette.Primary)
	v.SetDefault("palette.secondary", palette.Secondary)
	v.SetDefault("palette.tertiary", palette.Tertiary)
	v.SetDefault("palette.background", palette.Background)
	v.SetDefault("palette.light", palette.Light)
	v.SetDefault("palette.pale", palette.Pale)
}

// Load reads the optional config file at path, then REPORT_* environment variables, on top
// of the defaults. REPORT_SERVER_PORT overrides server.port.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	switch c.DataSource.Kind {
	case datasource.KindSynthetic:
	case datasource.KindRelational:
		if c.Relational.DSN == "" && c.Relational.Profile == "" {
			return fmt.Errorf("relational data source needs relational.dsn or relational.profile")
		}
	default:
		return fmt.Errorf("unknown datasource.kind %q", c.DataSource.Kind)
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit values cannot be negative")
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		return fmt.Errorf("rate_limit.burst must be at least 1 when rate_limit.rps is set")
	}
	return nil
}
