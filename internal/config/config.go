// internal/config/config.go
package config

import (
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Ingest   IngestConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Planner  PlannerConfig
	Archive  ArchiveConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// IngestConfig configures the snapshot webhook service.
type IngestConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

// PlannerConfig is the environment-tunable slice of the planner settings:
// the forecast horizon and the transit allowance. The field alias lists live
// with the planner defaults.
type PlannerConfig struct {
	HorizonStart        string // "2006-01", empty anchors the horizon at now
	HorizonOffsetMonths int
	HorizonMonths       int
	ArrivalLeadDays     int
}

// HorizonAnchor parses the configured fixed horizon start, zero when unset
// or malformed.
func (p PlannerConfig) HorizonAnchor() time.Time {
	if p.HorizonStart == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation("2006-01", p.HorizonStart, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ArchiveConfig configures the S3-compatible gap report archive.
type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	Prefix    string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("INGEST_PORT", "8081")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "opsboard")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_TTL_SECONDS", 60)
		viper.SetDefault("PLANNER_HORIZON_START", "")
		viper.SetDefault("PLANNER_HORIZON_OFFSET_MONTHS", 1)
		viper.SetDefault("PLANNER_HORIZON_MONTHS", 8)
		viper.SetDefault("PLANNER_ARRIVAL_LEAD_DAYS", 30)
		viper.SetDefault("ARCHIVE_ENABLED", false)
		viper.SetDefault("ARCHIVE_PREFIX", "gap-reports")
		viper.SetDefault("ARCHIVE_REGION", "us-east-1")
		viper.SetDefault("ARCHIVE_USE_SSL", true)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: splitOrigins(viper.GetStringSlice("SERVER_ALLOWED_ORIGINS")),
			},
			Ingest: IngestConfig{
				Port: viper.GetString("INGEST_PORT"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:       viper.GetBool("CACHE_ENABLED"),
				RedisURL:      viper.GetString("REDIS_URL"),
				RedisHost:     viper.GetString("REDIS_HOST"),
				RedisPort:     viper.GetString("REDIS_PORT"),
				RedisPassword: viper.GetString("REDIS_PASSWORD"),
				RedisDB:       viper.GetInt("REDIS_DB"),
				TTLSeconds:    viper.GetInt("CACHE_TTL_SECONDS"),
			},
			Planner: PlannerConfig{
				HorizonStart:        viper.GetString("PLANNER_HORIZON_START"),
				HorizonOffsetMonths: viper.GetInt("PLANNER_HORIZON_OFFSET_MONTHS"),
				HorizonMonths:       viper.GetInt("PLANNER_HORIZON_MONTHS"),
				ArrivalLeadDays:     viper.GetInt("PLANNER_ARRIVAL_LEAD_DAYS"),
			},
			Archive: ArchiveConfig{
				Enabled:   viper.GetBool("ARCHIVE_ENABLED"),
				Endpoint:  viper.GetString("ARCHIVE_ENDPOINT"),
				AccessKey: viper.GetString("ARCHIVE_ACCESS_KEY"),
				SecretKey: viper.GetString("ARCHIVE_SECRET_KEY"),
				Bucket:    viper.GetString("ARCHIVE_BUCKET"),
				Region:    viper.GetString("ARCHIVE_REGION"),
				UseSSL:    viper.GetBool("ARCHIVE_USE_SSL"),
				Prefix:    viper.GetString("ARCHIVE_PREFIX"),
			},
		}
	})

	return instance
}

// splitOrigins flattens comma-separated entries so both repeated values and
// a single comma list work.
func splitOrigins(raw []string) []string {
	var out []string
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
