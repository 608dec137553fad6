package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/attendance-payroll-go/internal/domain/store"
	"github.com/cmlabs-hris/attendance-payroll-go/internal/pkg/validator"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Policy   store.Policy
	Cron     CronConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

type StorageConfig struct {
	Driver string
	// SeedFile is a JSON document of stores and staff loaded into the memory backend at startup.
	SeedFile string
}

// RedisConfig is optional; an empty Addr disables the store cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	StoreTTL time.Duration
}

type CronConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config, err := fromEnv()
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func fromEnv() (*Config, error) {
	var errs []error
	p := &envParser{errs: &errs}

	config := &Config{}

	// Application configuration
	config.App = AppConfig{
		Port:           p.getInt("APP_PORT", 8080),
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	// Database configuration
	config.Database = DatabaseConfig{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            p.getInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Name:            getEnv("DB_NAME", "attendance_payroll"),
		SSLMode:         getEnv("DB_SSL_MODE", "disable"),
		MaxConns:        int32(p.getInt("DB_MAX_CONNS", 10)),
		MinConns:        int32(p.getInt("DB_MIN_CONNS", 1)),
		MaxConnLifetime: p.getDuration("DB_MAX_CONN_LIFETIME", time.Hour),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: p.getDuration("JWT_ACCESS_EXPIRATION_TIME", time.Hour),
	}

	config.Storage = StorageConfig{
		Driver:   strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		SeedFile: getEnv("SEED_FILE", ""),
	}

	// Redis configuration
	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       p.getInt("REDIS_DB", 0),
		StoreTTL: p.getDuration("REDIS_STORE_TTL", 5*time.Minute),
	}

	// Business policy
	config.Policy = store.Policy{
		LateFineAmount:         p.getDecimal("POLICY_LATE_FINE_AMOUNT", store.DefaultLateFineAmount),
		PerfectAttendanceBonus: p.getDecimal("POLICY_PERFECT_ATTENDANCE_BONUS", store.DefaultPerfectAttendanceBonus),
		GracePeriodMinutes:     p.getInt("POLICY_GRACE_PERIOD_MINUTES", store.DefaultGracePeriodMinutes),
		MaxLeavesPerMonth:      p.getInt("POLICY_MAX_LEAVES_PER_MONTH", store.DefaultMaxLeavesPerMonth),
		DefaultRadiusMeters:    p.getFloat("POLICY_DEFAULT_RADIUS_METERS", store.DefaultRadiusMeters),
		ShiftStart:             getEnv("POLICY_SHIFT_START", store.DefaultShiftStart),
		ShiftEnd:               getEnv("POLICY_SHIFT_END", store.DefaultShiftEnd),
		Timezone:               getEnv("POLICY_TIMEZONE", store.DefaultTimezone),
	}

	// Background jobs
	config.Cron = CronConfig{
		Enabled:  p.getBool("CRON_ENABLED", true),
		Interval: p.getDuration("CRON_INTERVAL", 15*time.Minute),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.Secret == "" {
		errs = append(errs, fmt.Errorf("JWT_SECRET_KEY is required"))
	}
	if c.JWT.AccessExpiration <= 0 {
		errs = append(errs, fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be positive"))
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			errs = append(errs, fmt.Errorf("DB_PASSWORD is required"))
		}
		if c.Database.MinConns > c.Database.MaxConns {
			errs = append(errs, fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS"))
		}
	case StorageDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q", StorageDriverPostgres, StorageDriverMemory))
	}

	if c.Redis.Addr != "" && c.Redis.StoreTTL <= 0 {
		errs = append(errs, fmt.Errorf("REDIS_STORE_TTL must be positive"))
	}

	if !validator.IsValidClock(c.Policy.ShiftStart) {
		errs = append(errs, fmt.Errorf("POLICY_SHIFT_START must be HH:MM"))
	}
	if !validator.IsValidClock(c.Policy.ShiftEnd) {
		errs = append(errs, fmt.Errorf("POLICY_SHIFT_END must be HH:MM"))
	}
	if validator.IsValidClock(c.Policy.ShiftStart) && validator.IsValidClock(c.Policy.ShiftEnd) && c.Policy.ShiftEnd <= c.Policy.ShiftStart {
		errs = append(errs, fmt.Errorf("POLICY_SHIFT_END must be after POLICY_SHIFT_START"))
	}
	if !validator.IsValidTimezone(c.Policy.Timezone) {
		errs = append(errs, fmt.Errorf("POLICY_TIMEZONE %q is not a known timezone", c.Policy.Timezone))
	}
	if c.Policy.GracePeriodMinutes < 0 {
		errs = append(errs, fmt.Errorf("POLICY_GRACE_PERIOD_MINUTES must not be negative"))
	}
	if c.Policy.MaxLeavesPerMonth < 0 {
		errs = append(errs, fmt.Errorf("POLICY_MAX_LEAVES_PER_MONTH must not be negative"))
	}
	if c.Policy.LateFineAmount.IsNegative() || c.Policy.PerfectAttendanceBonus.IsNegative() {
		errs = append(errs, fmt.Errorf("policy amounts must not be negative"))
	}
	if c.Policy.DefaultRadiusMeters <= 0 {
		errs = append(errs, fmt.Errorf("POLICY_DEFAULT_RADIUS_METERS must be positive"))
	}

	if c.Cron.Enabled && c.Cron.Interval <= 0 {
		errs = append(errs, fmt.Errorf("CRON_INTERVAL must be positive"))
	}

	return errors.Join(errs...)
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

// envParser collects parse failures so every bad variable is reported at once.
type envParser struct {
	errs *[]error
}

func (p *envParser) fail(key string, err error) {
	*p.errs = append(*p.errs, fmt.Errorf("invalid %s: %w", key, err))
}

func (p *envParser) getInt(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return v
}

func (p *envParser) getFloat(key string, fallback float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return v
}

func (p *envParser) getBool(key string, fallback bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return v
}

func (p *envParser) getDuration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, err)
		return fallback
	}
	return v
}

func (p *envParser) getDecimal(key string, fallback int64) decimal.Decimal {
	raw := getEnv(key, "")
	if raw == "" {
		return decimal.NewFromInt(fallback)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		p.fail(key, err)
		return decimal.NewFromInt(fallback)
	}
	return v
}
