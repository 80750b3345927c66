package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("ENV", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, defaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://crm@localhost/crm")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadRejectsSQLiteInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "release")
	t.Setenv("JWT_SECRET", "a-real-secret")
	t.Setenv("DATABASE_URL", "crm.db")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PostgreSQL")
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("JWT_TTL", "forever")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_TTL")
}

func TestLoadSplitsCORSOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://crm.example.com, ,https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://crm.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoadPipelineDefaults(t *testing.T) {
	p, err := LoadPipeline("")
	require.NoError(t, err)
	assert.Len(t, p.Statuses, 8)
	assert.Len(t, p.Sources, 10)
	assert.Equal(t, "Negociação", p.Statuses["NEGOCIACAO"])
}

func TestLoadPipelineMissingFileFallsBack(t *testing.T) {
	p, err := LoadPipeline(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Novo", p.Statuses["NOVO"])
}

func TestLoadPipelineOverridesLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	body := "statuses:\n  NOVO: Entrada\nsources:\n  OUTRO: Diversos\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	p, err := LoadPipeline(path)
	require.NoError(t, err)
	assert.Equal(t, "Entrada", p.Statuses["NOVO"])
	assert.Equal(t, "Qualificado", p.Statuses["QUALIFICADO"])
	assert.Equal(t, "Diversos", p.Sources["OUTRO"])
}

func TestLoadPipelineRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 7\n"), 0o644))

	_, err := LoadPipeline(path)
	require.Error(t, err)
}
