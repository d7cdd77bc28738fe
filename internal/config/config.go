// Package config loads runtime settings from defaults, an optional YAML
// file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Shivanand-hulikatti/event-registration/internal/database"
	"github.com/Shivanand-hulikatti/event-registration/internal/draft"
	"github.com/Shivanand-hulikatti/event-registration/internal/gate"
	"github.com/Shivanand-hulikatti/event-registration/internal/tracing"
)

// EnvPrefix prefixes every environment override, e.g. REGISTRATION_GATE_CLOSES_AT.
const EnvPrefix = "REGISTRATION"

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Drafts        DraftsConfig        `mapstructure:"drafts"`
	Sessions      SessionsConfig      `mapstructure:"sessions"`
	Gate          GateConfig          `mapstructure:"gate"`
	Confirmations ConfirmationsConfig `mapstructure:"confirmations"`
	Certificates  CertificatesConfig  `mapstructure:"certificates"`
	Log           LogConfig           `mapstructure:"log"`
	Tracing       tracing.Config      `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	WebDir          string        `mapstructure:"web_dir"`
	AllowedOrigin   string        `mapstructure:"allowed_origin"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects the participant store. Driver "memory" keeps
// everything in process and ignores the connection settings.
type DatabaseConfig struct {
	Driver       string        `mapstructure:"driver"`
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	Name         string        `mapstructure:"name"`
	SSLMode      string        `mapstructure:"sslmode"`
	MaxConns     int32         `mapstructure:"max_conns"`
	ConnectTries int           `mapstructure:"connect_tries"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
	AutoMigrate  bool          `mapstructure:"auto_migrate"`
}

// DraftsConfig selects where form drafts are persisted.
type DraftsConfig struct {
	Backend    string        `mapstructure:"backend"`
	Namespace  string        `mapstructure:"namespace"`
	TTL        time.Duration `mapstructure:"ttl"`
	RedisURL   string        `mapstructure:"redis_url"`
	SQLitePath string        `mapstructure:"sqlite_path"`
}

type SessionsConfig struct {
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

// GateConfig configures the admission window. ClosesAt (RFC 3339) and the
// daily window are mutually exclusive; with neither the gate is always open.
type GateConfig struct {
	ClosesAt     string        `mapstructure:"closes_at"`
	DailyOpen    string        `mapstructure:"daily_open"`
	DailyClose   string        `mapstructure:"daily_close"`
	Timezone     string        `mapstructure:"timezone"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// ConfirmationsConfig enables the Kafka transport when Brokers is set.
type ConfirmationsConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type CertificatesConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// legacyEnv keeps the plain variable names the deployment already uses.
var legacyEnv = map[string]string{
	"server.port":       "PORT",
	"database.host":     "DB_HOST",
	"database.port":     "DB_PORT",
	"database.user":     "DB_USER",
	"database.password": "DB_PASSWORD",
	"database.name":     "DB_NAME",
	"database.sslmode":  "DB_SSLMODE",
	"drafts.redis_url":  "REDIS_URL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.web_dir", "./web")
	v.SetDefault("server.allowed_origin", "*")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "registration")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.connect_tries", 5)
	v.SetDefault("database.query_timeout", 10*time.Second)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("drafts.backend", "memory")
	v.SetDefault("drafts.namespace", draft.DefaultNamespace)
	v.SetDefault("drafts.ttl", 7*24*time.Hour)
	v.SetDefault("drafts.redis_url", "redis://localhost:6379/0")
	v.SetDefault("drafts.sqlite_path", "data/drafts.db")

	v.SetDefault("sessions.idle_timeout", 30*time.Minute)

	v.SetDefault("gate.closes_at", "")
	v.SetDefault("gate.daily_open", "")
	v.SetDefault("gate.daily_close", "")
	v.SetDefault("gate.timezone", "Local")
	v.SetDefault("gate.poll_interval", gate.DefaultPollInterval)

	v.SetDefault("confirmations.brokers", []string{})
	v.SetDefault("confirmations.topic", "registration-confirmations")

	v.SetDefault("certificates.dir", "./certificates")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	t := tracing.DefaultConfig()
	v.SetDefault("tracing.enabled", t.Enabled)
	v.SetDefault("tracing.exporter", t.Exporter)
	v.SetDefault("tracing.otlp_endpoint", t.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", t.SampleRate)
	v.SetDefault("tracing.service_name", t.ServiceName)
}

// Load reads configuration. path may be empty, in which case only defaults
// and the environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", legacy, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings that cannot be served.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Port) == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not one of postgres, memory", c.Database.Driver))
	}
	switch c.Drafts.Backend {
	case "memory", "redis", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("drafts.backend %q is not one of memory, redis, sqlite", c.Drafts.Backend))
	}
	if len(c.Confirmations.Brokers) > 0 && c.Confirmations.Topic == "" {
		errs = append(errs, errors.New("confirmations.topic is required with brokers"))
	}
	if _, err := c.Gate.Build(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Postgres converts the database settings for the pool.
func (c DatabaseConfig) Postgres() database.Config {
	return database.Config{
		Host:         c.Host,
		Port:         c.Port,
		User:         c.User,
		Password:     c.Password,
		DBName:       c.Name,
		SSLMode:      c.SSLMode,
		MaxConns:     c.MaxConns,
		ConnectTries: c.ConnectTries,
	}
}

// Build returns the configured gate.
func (c GateConfig) Build() (gate.Gate, error) {
	daily := c.DailyOpen != "" || c.DailyClose != ""
	switch {
	case c.ClosesAt != "" && daily:
		return nil, errors.New("gate: closes_at and a daily window are mutually exclusive")
	case c.ClosesAt != "":
		t, err := time.Parse(time.RFC3339, c.ClosesAt)
		if err != nil {
			return nil, fmt.Errorf("gate: parse closes_at: %w", err)
		}
		return gate.Deadline{ClosesAt: t}, nil
	case daily:
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return nil, fmt.Errorf("gate: load timezone: %w", err)
		}
		g, err := gate.ParseDaily(c.DailyOpen, c.DailyClose, loc)
		if err != nil {
			return nil, fmt.Errorf("gate: %w", err)
		}
		return g, nil
	default:
		return gate.Always{}, nil
	}
}
