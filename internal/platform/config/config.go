package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Database holds PostgreSQL connection parameters.
type Database struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// DSN renders the connection URL consumed by the pgx stdlib driver.
func (d Database) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// Analysis holds the tunable parameters of the analysis pipeline.
type Analysis struct {
	ChunkSize            int
	SampleSize           int
	MinDataPoints        int
	ConfidenceLevel      float64
	TrendThreshold       float64
	CorrelationThreshold float64
}

// Redis configures the optional report cache. An empty URL disables caching.
type Redis struct {
	URL string
	TTL time.Duration
}

// Server configures the HTTP surface of `gmda serve`.
type Server struct {
	Addr string
}

// Config is the full configuration tree.
type Config struct {
	Database Database
	Analysis Analysis
	Redis    Redis
	Server   Server
	Debug    bool
}

// Load builds a Config from defaults, an optional YAML file, and GMDA_*
// environment variables, in increasing order of precedence.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "mental_health_db")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("analysis.chunk_size", 10000)
	v.SetDefault("analysis.sample_size", 500000)
	v.SetDefault("analysis.min_data_points", 5)
	v.SetDefault("analysis.confidence_level", 0.95)
	v.SetDefault("analysis.trend_threshold", 0.001)
	v.SetDefault("analysis.correlation_threshold", 0.5)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.ttl", 5*time.Minute)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("debug", false)

	v.SetEnvPrefix("GMDA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Database: Database{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			Name:     v.GetString("database.name"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Analysis: Analysis{
			ChunkSize:            v.GetInt("analysis.chunk_size"),
			SampleSize:           v.GetInt("analysis.sample_size"),
			MinDataPoints:        v.GetInt("analysis.min_data_points"),
			ConfidenceLevel:      v.GetFloat64("analysis.confidence_level"),
			TrendThreshold:       v.GetFloat64("analysis.trend_threshold"),
			CorrelationThreshold: v.GetFloat64("analysis.correlation_threshold"),
		},
		Redis: Redis{
			URL: v.GetString("redis.url"),
			TTL: v.GetDuration("redis.ttl"),
		},
		Server: Server{
			Addr: v.GetString("server.addr"),
		},
		Debug: v.GetBool("debug"),
	}

	if cfg.Analysis.ChunkSize <= 0 {
		return Config{}, fmt.Errorf("analysis.chunk_size must be positive, got %d", cfg.Analysis.ChunkSize)
	}
	if cfg.Analysis.SampleSize <= 0 {
		return Config{}, fmt.Errorf("analysis.sample_size must be positive, got %d", cfg.Analysis.SampleSize)
	}
	return cfg, nil
}
