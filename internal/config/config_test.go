package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "DSC_LOCALIDADE", cfg.Locality.Attribute)
	assert.Equal(t, "localidade", cfg.Locality.OutputAttribute)
	assert.False(t, cfg.Locality.Normalize)
	assert.InDelta(t, 500, cfg.Cluster.Eps, 0.001)
	assert.Equal(t, 10, cfg.Cluster.MinSamples)
	assert.Equal(t, 10, cfg.Cluster.MinRecords)
	assert.Equal(t, "EPSG:4326", cfg.CRS.Source)
	assert.Equal(t, "EPSG:3857", cfg.CRS.Working)
	assert.Equal(t, "EPSG:4326", cfg.CRS.Target)
	assert.Equal(t, 1, cfg.Pipeline.Concurrency)
	assert.Empty(t, cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
cluster:
  eps: 250
  min_samples: 5
store:
  driver: sqlite
  database_url: results.db
log:
  level: debug
  format: console
pipeline:
  concurrency: 4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 250, cfg.Cluster.Eps, 0.001)
	assert.Equal(t, 5, cfg.Cluster.MinSamples)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "results.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 4, cfg.Pipeline.Concurrency)
	// Defaults still apply for unset values
	assert.Equal(t, 10, cfg.Cluster.MinRecords)
	assert.Equal(t, "DSC_LOCALIDADE", cfg.Locality.Attribute)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
locality:
  attribute: NM_BAIRRO
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("LOCALITY_LOCALITY_ATTRIBUTE", "NM_DISTRITO")
	t.Setenv("LOCALITY_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "NM_DISTRITO", cfg.Locality.Attribute)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("LOCALITY_CLUSTER_MIN_SAMPLES", "3")
	t.Setenv("LOCALITY_LOCALITY_NORMALIZE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Cluster.MinSamples)
	assert.True(t, cfg.Locality.Normalize)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("cluster: [unterminated"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Locality.Attribute = "DSC_LOCALIDADE"
	cfg.Locality.OutputAttribute = "localidade"
	cfg.Cluster.Eps = 500
	cfg.Cluster.MinSamples = 10
	cfg.Cluster.MinRecords = 10
	cfg.Pipeline.Concurrency = 1
	return cfg
}

func TestValidateRun_Defaults(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("run"))
}

func TestValidateRun_CollectsProblems(t *testing.T) {
	cfg := validDefaults()
	cfg.Locality.Attribute = " "
	cfg.Cluster.Eps = 0
	cfg.Cluster.MinSamples = 0

	err := cfg.Validate("run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locality.attribute is required")
	assert.Contains(t, err.Error(), "cluster.eps must be > 0")
	assert.Contains(t, err.Error(), "cluster.min_samples must be >= 1")
}

func TestValidateRun_ConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Pipeline.Concurrency = 0
	assert.ErrorContains(t, cfg.Validate("run"), "pipeline.concurrency must be between 1 and 64")

	cfg.Pipeline.Concurrency = 65
	assert.Error(t, cfg.Validate("run"))

	cfg.Pipeline.Concurrency = 64
	assert.NoError(t, cfg.Validate("run"))
}

func TestValidateRun_StoreNeedsURL(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "postgres"

	assert.ErrorContains(t, cfg.Validate("run"), "store.database_url is required")

	cfg.Store.DatabaseURL = "postgres://localhost/localities"
	assert.NoError(t, cfg.Validate("run"))
}

func TestValidateInspect_IgnoresClustering(t *testing.T) {
	cfg := validDefaults()
	cfg.Cluster.Eps = 0
	cfg.Pipeline.Concurrency = 0

	assert.NoError(t, cfg.Validate("inspect"))
}

func TestValidateStore(t *testing.T) {
	cfg := validDefaults()

	err := cfg.Validate("store")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver is required")

	cfg.Store.Driver = "mysql"
	cfg.Store.DatabaseURL = "mysql://localhost"
	assert.ErrorContains(t, cfg.Validate("store"), `store.driver "mysql"`)

	cfg.Store.Driver = "sqlite"
	cfg.Store.DatabaseURL = "results.db"
	assert.NoError(t, cfg.Validate("store"))
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	assert.ErrorContains(t, err, "unknown mode")
}

func TestConfigYAML(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.DatabaseURL = "results.db"

	out, err := cfg.YAML()
	require.NoError(t, err)

	assert.Contains(t, string(out), "attribute: DSC_LOCALIDADE")
	assert.Contains(t, string(out), "database_url: results.db")
	assert.Contains(t, string(out), "min_samples: 10")
}
