package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/swiftride/backend/internal/domain/driver"
	"github.com/swiftride/backend/internal/service/fare"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Maps     MapsConfig
	Fares    FaresConfig
	Geo      GeoConfig
	OTP      OTPConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
	Host string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	MinIdleConn int
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

type NewRelicConfig struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type MapsConfig struct {
	APIKey        string
	DirectionsURL string
	Timeout       time.Duration
}

type FaresConfig struct {
	Standard fare.Rate
	Premium  fare.Rate
	XL       fare.Rate
}

type GeoConfig struct {
	DefaultRadiusMeters float64
	MaxNearbyDrivers    int
}

type OTPConfig struct {
	ResendCooldown time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "swiftride"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNECTIONS", 100),
			MaxIdle:  getEnvAsInt("DB_MAX_IDLE_CONNECTIONS", 10),
		},
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			MaxRetries:  getEnvAsInt("REDIS_MAX_RETRIES", 3),
			PoolSize:    getEnvAsInt("REDIS_POOL_SIZE", 100),
			MinIdleConn: 10,
			DialTimeout: 5 * time.Second,
			ReadTimeout: 3 * time.Second,
		},
		NewRelic: NewRelicConfig{
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			AppName:    getEnv("NEW_RELIC_APP_NAME", "SwiftRide-Backend"),
			Enabled:    getEnvAsBool("NEW_RELIC_ENABLED", false),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your_jwt_secret_key_here"),
			Expiry: parseDuration(getEnv("JWT_EXPIRY", "24h"), 24*time.Hour),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "localhost"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
		Maps: MapsConfig{
			APIKey:        getEnv("MAPS_API_KEY", ""),
			DirectionsURL: getEnv("MAPS_DIRECTIONS_URL", ""),
			Timeout:       parseDuration(getEnv("MAPS_TIMEOUT", "5s"), 5*time.Second),
		},
		Fares: FaresConfig{
			Standard: fare.Rate{
				Base:      getEnvAsFloat64("FARE_BASE_STANDARD", 2.50),
				PerKM:     getEnvAsFloat64("FARE_PER_KM_STANDARD", 1.50),
				PerMinute: getEnvAsFloat64("FARE_PER_MINUTE_STANDARD", 0.30),
			},
			Premium: fare.Rate{
				Base:      getEnvAsFloat64("FARE_BASE_PREMIUM", 4.00),
				PerKM:     getEnvAsFloat64("FARE_PER_KM_PREMIUM", 2.00),
				PerMinute: getEnvAsFloat64("FARE_PER_MINUTE_PREMIUM", 0.40),
			},
			XL: fare.Rate{
				Base:      getEnvAsFloat64("FARE_BASE_XL", 3.50),
				PerKM:     getEnvAsFloat64("FARE_PER_KM_XL", 1.80),
				PerMinute: getEnvAsFloat64("FARE_PER_MINUTE_XL", 0.35),
			},
		},
		Geo: GeoConfig{
			DefaultRadiusMeters: getEnvAsFloat64("GEO_DEFAULT_RADIUS_METERS", 5000),
			MaxNearbyDrivers:    getEnvAsInt("GEO_MAX_NEARBY_DRIVERS", 50),
		},
		OTP: OTPConfig{
			ResendCooldown: parseDuration(getEnv("OTP_RESEND_COOLDOWN", "1m"), time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if c.JWT.Secret == "your_jwt_secret_key_here" && c.Server.Env == "production" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.Maps.APIKey == "" && c.Server.Env == "production" {
		return fmt.Errorf("MAPS_API_KEY must be set in production")
	}
	return nil
}

// FareRates builds the immutable rate table handed to the estimator
func (c *Config) FareRates() fare.Config {
	return fare.Config{
		Rates: map[driver.VehicleType]fare.Rate{
			driver.VehicleStandard: c.Fares.Standard,
			driver.VehiclePremium:  c.Fares.Premium,
			driver.VehicleXL:       c.Fares.XL,
		},
	}
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
