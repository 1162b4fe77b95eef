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
	CORS      CORSConfig
	Log       LogConfig
	Cache     CacheConfig
	Timetable TimetableConfig
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

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig governs the Redis-backed proposal cache shared by the
// timetable endpoints.
type CacheConfig struct {
	Enabled  bool
	CacheTTL time.Duration
}

// TimetableConfig carries the genetic algorithm's default hyperparameters
// and concurrency knobs for the generate/optimize operations.
type TimetableConfig struct {
	GeneratePopulationSize int
	GenerateGenerations    int
	GenerateMutationRate   float64
	GenerateCrossoverRate  float64
	GenerateEliteSize      int

	OptimizePopulationSize int
	OptimizeGenerations    int
	OptimizeMutationRate   float64

	Workers          int
	GenerationBudget time.Duration
	ProposalTTL      time.Duration
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

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled:  v.GetBool("ENABLE_CACHE"),
		CacheTTL: parseDuration(v.GetString("CACHE_TTL"), 30*time.Minute),
	}

	cfg.Timetable = TimetableConfig{
		GeneratePopulationSize: v.GetInt("GA_GENERATE_POPULATION_SIZE"),
		GenerateGenerations:    v.GetInt("GA_GENERATE_GENERATIONS"),
		GenerateMutationRate:   v.GetFloat64("GA_GENERATE_MUTATION_RATE"),
		GenerateCrossoverRate:  v.GetFloat64("GA_GENERATE_CROSSOVER_RATE"),
		GenerateEliteSize:      v.GetInt("GA_GENERATE_ELITE_SIZE"),

		OptimizePopulationSize: v.GetInt("GA_OPTIMIZE_POPULATION_SIZE"),
		OptimizeGenerations:    v.GetInt("GA_OPTIMIZE_GENERATIONS"),
		OptimizeMutationRate:   v.GetFloat64("GA_OPTIMIZE_MUTATION_RATE"),

		Workers:          v.GetInt("GA_WORKERS"),
		GenerationBudget: parseDuration(v.GetString("GA_GENERATION_BUDGET"), 0),
		ProposalTTL:      parseDuration(v.GetString("GA_PROPOSAL_TTL"), 30*time.Minute),
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
	v.SetDefault("DB_NAME", "timetable_generator")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CACHE", true)
	v.SetDefault("CACHE_TTL", "30m")

	v.SetDefault("GA_GENERATE_POPULATION_SIZE", 100)
	v.SetDefault("GA_GENERATE_GENERATIONS", 1000)
	v.SetDefault("GA_GENERATE_MUTATION_RATE", 0.10)
	v.SetDefault("GA_GENERATE_CROSSOVER_RATE", 0.80)
	v.SetDefault("GA_GENERATE_ELITE_SIZE", 20)

	v.SetDefault("GA_OPTIMIZE_POPULATION_SIZE", 50)
	v.SetDefault("GA_OPTIMIZE_GENERATIONS", 500)
	v.SetDefault("GA_OPTIMIZE_MUTATION_RATE", 0.15)

	v.SetDefault("GA_WORKERS", 0)
	v.SetDefault("GA_GENERATION_BUDGET", "0s")
	v.SetDefault("GA_PROPOSAL_TTL", "30m")
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
