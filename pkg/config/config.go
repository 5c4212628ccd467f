package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Analytics AnalyticsConfig
	Risk      RiskConfig
	Reports   ReportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// AnalyticsConfig tunes aggregation caching and list defaults.
type AnalyticsConfig struct {
	CacheTTL        time.Duration
	DefaultPageSize int
	PassingScore    float64
}

// RiskConfig holds the thresholds driving risk tier classification. Values
// are illustrative defaults until confirmed with the academic team.
type RiskConfig struct {
	AttentionScore    float64
	AttentionPassRate float64
	ImprovableScore   float64
	GoodScore         float64
	LowProgress       float64
	LowStudyHours     float64
	InactivityWindow  time.Duration
}

// ReportsConfig controls bulk report generation and archiving.
type ReportsConfig struct {
	ArchiveEnabled  bool
	ArchiveDir      string
	ArchiveTTL      time.Duration
	CleanupInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Analytics = AnalyticsConfig{
		CacheTTL:        parseDuration(v.GetString("ANALYTICS_CACHE_TTL"), 5*time.Minute),
		DefaultPageSize: v.GetInt("ANALYTICS_DEFAULT_PAGE_SIZE"),
		PassingScore:    v.GetFloat64("ANALYTICS_PASSING_SCORE"),
	}

	cfg.Risk = RiskConfig{
		AttentionScore:    v.GetFloat64("RISK_ATTENTION_SCORE"),
		AttentionPassRate: v.GetFloat64("RISK_ATTENTION_PASS_RATE"),
		ImprovableScore:   v.GetFloat64("RISK_IMPROVABLE_SCORE"),
		GoodScore:         v.GetFloat64("RISK_GOOD_SCORE"),
		LowProgress:       v.GetFloat64("RISK_LOW_PROGRESS"),
		LowStudyHours:     v.GetFloat64("RISK_LOW_STUDY_HOURS"),
		InactivityWindow:  parseDuration(v.GetString("RISK_INACTIVITY_WINDOW"), 14*24*time.Hour),
	}

	cfg.Reports = ReportsConfig{
		ArchiveEnabled:  v.GetBool("REPORTS_ARCHIVE_ENABLED"),
		ArchiveDir:      v.GetString("REPORTS_ARCHIVE_DIR"),
		ArchiveTTL:      parseDuration(v.GetString("REPORTS_ARCHIVE_TTL"), 7*24*time.Hour),
		CleanupInterval: parseDuration(v.GetString("REPORTS_CLEANUP_INTERVAL"), time.Hour),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "educasaber_analytics")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ANALYTICS_CACHE_TTL", "5m")
	v.SetDefault("ANALYTICS_DEFAULT_PAGE_SIZE", 20)
	v.SetDefault("ANALYTICS_PASSING_SCORE", 60)

	v.SetDefault("RISK_ATTENTION_SCORE", 60)
	v.SetDefault("RISK_ATTENTION_PASS_RATE", 50)
	v.SetDefault("RISK_IMPROVABLE_SCORE", 70)
	v.SetDefault("RISK_GOOD_SCORE", 80)
	v.SetDefault("RISK_LOW_PROGRESS", 40)
	v.SetDefault("RISK_LOW_STUDY_HOURS", 5)
	v.SetDefault("RISK_INACTIVITY_WINDOW", "336h")

	v.SetDefault("REPORTS_ARCHIVE_ENABLED", false)
	v.SetDefault("REPORTS_ARCHIVE_DIR", "./reports")
	v.SetDefault("REPORTS_ARCHIVE_TTL", "168h")
	v.SetDefault("REPORTS_CLEANUP_INTERVAL", "1h")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
