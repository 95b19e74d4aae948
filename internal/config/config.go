package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/nevintel/internal/fusion"
	"github.com/sells-group/nevintel/internal/ranker"
	"github.com/sells-group/nevintel/internal/source"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Sources   SourcesConfig   `yaml:"sources" mapstructure:"sources"`
	Collector CollectorConfig `yaml:"collector" mapstructure:"collector"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Fusion    fusion.Config   `yaml:"fusion" mapstructure:"fusion"`
	Ranking   ranker.Config   `yaml:"ranking" mapstructure:"ranking"`
	Report    ReportConfig    `yaml:"report" mapstructure:"report"`
	Versions  VersionsConfig  `yaml:"versions" mapstructure:"versions"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the version store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite or postgres
	Path        string `yaml:"path" mapstructure:"path"`     // sqlite file path
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SourcesConfig enumerates the configured data sources.
type SourcesConfig struct {
	UserAgent      string                  `yaml:"user_agent" mapstructure:"user_agent"`
	RequestsPerSec float64                 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	Burst          int                     `yaml:"burst" mapstructure:"burst"`
	CPCA           source.CPCAConfig       `yaml:"cpca" mapstructure:"cpca"`
	Platforms      []source.PlatformConfig `yaml:"platforms" mapstructure:"platforms"`
	Leaders        source.LeaderConfig     `yaml:"leaders" mapstructure:"leaders"`
}

// Names lists all configured source names in declaration order.
func (s SourcesConfig) Names() []string {
	names := []string{s.CPCA.Name}
	for _, p := range s.Platforms {
		names = append(names, p.Key)
	}
	names = append(names, s.Leaders.Name)
	return names
}

// CollectorConfig bounds the collection phase.
type CollectorConfig struct {
	SourceTimeoutSecs int `yaml:"source_timeout_secs" mapstructure:"source_timeout_secs"`
	MaxAttempts       int `yaml:"max_attempts" mapstructure:"max_attempts"`
	RunDeadlineSecs   int `yaml:"run_deadline_secs" mapstructure:"run_deadline_secs"`
	MaxConcurrent     int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ScoringConfig configures the scoring engine.
type ScoringConfig struct {
	LexiconPath       string   `yaml:"lexicon_path" mapstructure:"lexicon_path"`
	GovernmentOrigins []string `yaml:"government_origins" mapstructure:"government_origins"`
}

// ReportConfig configures report assembly.
type ReportConfig struct {
	TopHighlights int `yaml:"top_highlights" mapstructure:"top_highlights"`
}

// VersionsConfig configures report versioning.
type VersionsConfig struct {
	Retention int `yaml:"retention" mapstructure:"retention"`
}

// OutputConfig configures rendered report output.
type OutputConfig struct {
	Dir     string   `yaml:"dir" mapstructure:"dir"`
	Formats []string `yaml:"formats" mapstructure:"formats"` // json, markdown, html
}

// ServerConfig configures the report HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("NEVINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "nevintel.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("sources.user_agent", "nevintel/1.0")
	v.SetDefault("sources.requests_per_sec", 4.0)
	v.SetDefault("sources.burst", 4)
	v.SetDefault("sources.cpca.name", "cpca")
	v.SetDefault("sources.leaders.name", "leader_tracker")
	v.SetDefault("collector.source_timeout_secs", 30)
	v.SetDefault("collector.max_attempts", 3)
	v.SetDefault("collector.run_deadline_secs", 300)
	v.SetDefault("collector.max_concurrent", 8)
	v.SetDefault("scoring.government_origins", []string{"cpca", "miit"})
	v.SetDefault("fusion.min_data_quality", 40)
	v.SetDefault("fusion.min_relevance", 50)
	v.SetDefault("ranking.freshness_weight", 0.4)
	v.SetDefault("ranking.quality_weight", 0.4)
	v.SetDefault("ranking.trust_weight", 0.2)
	v.SetDefault("ranking.default_trust", 0.5)
	v.SetDefault("ranking.trust", map[string]float64{
		"cpca":      0.95,
		"autohome":  0.8,
		"dongchedi": 0.75,
		"yiche":     0.7,
		"pcauto":    0.7,
	})
	v.SetDefault("report.top_highlights", 5)
	v.SetDefault("versions.retention", 30)
	v.SetDefault("output.dir", "reports")
	v.SetDefault("output.formats", []string{"json", "markdown", "html"})

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
