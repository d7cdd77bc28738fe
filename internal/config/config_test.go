package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/event-registration/internal/gate"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_HOST", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "memory", cfg.Drafts.Backend)
	assert.Equal(t, "kinetic-registration", cfg.Drafts.Namespace)
	assert.Equal(t, gate.DefaultPollInterval, cfg.Gate.PollInterval)
	assert.Empty(t, cfg.Confirmations.Brokers)
	assert.False(t, cfg.Tracing.Enabled)

	g, err := cfg.Gate.Build()
	require.NoError(t, err)
	assert.Equal(t, gate.Always{}, g)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("REGISTRATION_DATABASE_DRIVER", "memory")
	t.Setenv("REGISTRATION_GATE_CLOSES_AT", "2026-03-01T18:00:00Z")
	t.Setenv("REGISTRATION_CONFIRMATIONS_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Confirmations.Brokers)

	g, err := cfg.Gate.Build()
	require.NoError(t, err)
	assert.Equal(t, gate.Deadline{ClosesAt: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)}, g)
}

func TestLoad_PrefixedBeatsLegacy(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REGISTRATION_SERVER_PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "3000"
drafts:
  backend: sqlite
  sqlite_path: /tmp/drafts.db
gate:
  daily_open: "09:00"
  daily_close: "17:30"
  timezone: UTC
  poll_interval: 15s
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Drafts.Backend)
	assert.Equal(t, 15*time.Second, cfg.Gate.PollInterval)

	g, err := cfg.Gate.Build()
	require.NoError(t, err)
	daily, ok := g.(gate.Daily)
	require.True(t, ok)
	assert.Equal(t, 9*time.Hour, daily.Open)
	assert.Equal(t, 17*time.Hour+30*time.Minute, daily.Close)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"unknown drafts backend", map[string]string{"REGISTRATION_DRAFTS_BACKEND": "etcd"}, "drafts.backend"},
		{"unknown driver", map[string]string{"REGISTRATION_DATABASE_DRIVER": "mysql"}, "database.driver"},
		{"bad deadline", map[string]string{"REGISTRATION_GATE_CLOSES_AT": "tomorrow"}, "parse closes_at"},
		{"both gates", map[string]string{
			"REGISTRATION_GATE_CLOSES_AT":  "2026-03-01T18:00:00Z",
			"REGISTRATION_GATE_DAILY_OPEN": "09:00",
		}, "mutually exclusive"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestDatabaseConfig_Postgres(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: "5433", User: "u", Password: "p", Name: "n", SSLMode: "require", MaxConns: 4}
	pg := d.Postgres()
	assert.Equal(t, "host=h port=5433 user=u password=p dbname=n sslmode=require", pg.DSN())
	assert.Equal(t, int32(4), pg.MaxConns)
}
