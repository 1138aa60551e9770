// Package config loads service settings with viper: built-in defaults, an
// optional config.yml and WORKFORCE_* environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/paralelo/workforce/payroll"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. WORKFORCE_SERVER_PORT.
const EnvPrefix = "WORKFORCE"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Payroll   PayrollConfig   `mapstructure:"payroll"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	// StaticDir holds a built frontend to serve under /. Empty disables it.
	StaticDir string `mapstructure:"static_dir"`
}

const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

type PayrollConfig struct {
	// DashboardPolicy counts minutes on the dashboard and payroll views.
	DashboardPolicy string `mapstructure:"dashboard_policy"`
	// ReportPolicy counts minutes on the formal report and month close.
	ReportPolicy string `mapstructure:"report_policy"`
	// EditWindowDays is how long after its date a work log can be edited. 0 disables.
	EditWindowDays int `mapstructure:"edit_window_days"`
}

type SchedulerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

type LogConfig struct {
	Format string `mapstructure:"format"`
	Level  string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", "http://localhost:5173,http://localhost:8080")
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.static_dir", "")

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "workforce.db")

	v.SetDefault("payroll.dashboard_policy", string(payroll.AnyStatus))
	v.SetDefault("payroll.report_policy", string(payroll.ApprovedOnly))
	v.SetDefault("payroll.edit_window_days", 7)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.interval", time.Hour)

	v.SetDefault("log.format", "text")
	v.SetDefault("log.level", "info")
}

// Load reads config.yml from path when present. A missing file is not an
// error; defaults and environment still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}
	return &cfg, nil
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}
	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}
	if err := c.Payroll.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("payroll config: %v", err))
	}
	if c.Scheduler.Enabled && c.Scheduler.Interval <= 0 {
		errs = append(errs, "scheduler config: interval must be positive")
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("log config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	for _, origin := range c.Origins() {
		if origin == "*" {
			continue
		}
		if _, err := url.ParseRequestURI(origin); err != nil {
			return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

// Origins splits the comma separated allowed_origins list.
func (c *ServerConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverMemory:
		return nil
	case DriverSQLite:
		if c.Path == "" {
			return errors.New("path is required for the sqlite driver")
		}
		return nil
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
}

func (c *PayrollConfig) Validate() error {
	if _, ok := payroll.ParseStatusPolicy(c.DashboardPolicy); !ok {
		return fmt.Errorf("invalid dashboard_policy %q", c.DashboardPolicy)
	}
	if _, ok := payroll.ParseStatusPolicy(c.ReportPolicy); !ok {
		return fmt.Errorf("invalid report_policy %q", c.ReportPolicy)
	}
	if c.EditWindowDays < 0 {
		return errors.New("edit_window_days must not be negative")
	}
	return nil
}

// Policies returns the parsed dashboard and report policies.
func (c *PayrollConfig) Policies() (dashboard, report payroll.StatusPolicy) {
	dashboard, _ = payroll.ParseStatusPolicy(c.DashboardPolicy)
	report, _ = payroll.ParseStatusPolicy(c.ReportPolicy)
	return dashboard, report
}

func (c *LogConfig) Validate() error {
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid format %q", c.Format)
	}
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid level %q", c.Level)
	}
	return nil
}
