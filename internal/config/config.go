package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	Locality LocalityConfig `yaml:"locality" mapstructure:"locality"`
	Cluster  ClusterConfig  `yaml:"cluster" mapstructure:"cluster"`
	CRS      CRSConfig      `yaml:"crs" mapstructure:"crs"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Ingest   IngestConfig   `yaml:"ingest" mapstructure:"ingest"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// LocalityConfig names the attribute carrying the locality on input and output.
type LocalityConfig struct {
	Attribute       string `yaml:"attribute" mapstructure:"attribute"`
	OutputAttribute string `yaml:"output_attribute" mapstructure:"output_attribute"`
	Normalize       bool   `yaml:"normalize" mapstructure:"normalize"`
}

// ClusterConfig configures density clustering and the per-locality threshold.
type ClusterConfig struct {
	Eps        float64 `yaml:"eps" mapstructure:"eps"`
	MinSamples int     `yaml:"min_samples" mapstructure:"min_samples"`
	MinRecords int     `yaml:"min_records" mapstructure:"min_records"`
}

// CRSConfig names the input, working, and output coordinate reference systems.
// Source is used only when the input does not declare its own CRS.
type CRSConfig struct {
	Source  string `yaml:"source" mapstructure:"source"`
	Working string `yaml:"working" mapstructure:"working"`
	Target  string `yaml:"target" mapstructure:"target"`
}

// PipelineConfig configures the pipeline driver.
type PipelineConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// IngestConfig configures input loading.
type IngestConfig struct {
	TempDir string `yaml:"temp_dir" mapstructure:"temp_dir"`
}

// StoreConfig configures the optional result store.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LOCALITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("locality.attribute", "DSC_LOCALIDADE")
	v.SetDefault("locality.output_attribute", "localidade")
	v.SetDefault("locality.normalize", false)
	v.SetDefault("cluster.eps", 500.0)
	v.SetDefault("cluster.min_samples", 10)
	v.SetDefault("cluster.min_records", 10)
	v.SetDefault("crs.source", "EPSG:4326")
	v.SetDefault("crs.working", "EPSG:3857")
	v.SetDefault("crs.target", "EPSG:4326")
	v.SetDefault("pipeline.concurrency", 1)
	v.SetDefault("ingest.temp_dir", "")
	v.SetDefault("store.driver", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode needs. Modes are "run",
// "inspect", and "store".
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "run", "inspect":
		if strings.TrimSpace(c.Locality.Attribute) == "" {
			problems = append(problems, "locality.attribute is required")
		}
		if c.Cluster.MinRecords < 0 {
			problems = append(problems, "cluster.min_records must be >= 0")
		}
		if mode == "inspect" {
			break
		}
		if c.Locality.OutputAttribute == "" {
			problems = append(problems, "locality.output_attribute is required")
		}
		if c.Cluster.Eps <= 0 {
			problems = append(problems, "cluster.eps must be > 0")
		}
		if c.Cluster.MinSamples < 1 {
			problems = append(problems, "cluster.min_samples must be >= 1")
		}
		if c.Pipeline.Concurrency < 1 || c.Pipeline.Concurrency > 64 {
			problems = append(problems, "pipeline.concurrency must be between 1 and 64")
		}
		if c.Store.Driver != "" {
			problems = append(problems, c.validateStore()...)
		}
	case "store":
		if c.Store.Driver == "" {
			problems = append(problems, "store.driver is required")
		}
		problems = append(problems, c.validateStore()...)
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) validateStore() []string {
	var problems []string
	switch c.Store.Driver {
	case "", "postgres", "sqlite":
	default:
		problems = append(problems, fmt.Sprintf("store.driver %q is not one of postgres, sqlite", c.Store.Driver))
	}
	if c.Store.Driver != "" && c.Store.DatabaseURL == "" {
		problems = append(problems, "store.database_url is required")
	}
	return problems
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, eris.Wrap(err, "config: marshal yaml")
	}
	return out, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
