package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	Clinic  ClinicConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// StorageConfig selects the key-value medium backing every record collection.
type StorageConfig struct {
	Driver     string // redis, postgres or memory
	KeyPrefix  string
	MaxRetries int
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	SweepInterval time.Duration // how often expired sessions are purged
}

type ClinicConfig struct {
	GSTNumber string
	GSTRate   decimal.Decimal // percent, applied on top of the bill amount
	Location  *time.Location
}

const (
	StorageDriverRedis    = "redis"
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORAGE_DRIVER", StorageDriverRedis)
	viper.SetDefault("STORAGE_KEY_PREFIX", "mediflow:")
	viper.SetDefault("STORAGE_MAX_RETRIES", 5)
	viper.SetDefault("CLINIC_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("CLINIC_GST_RATE", "0")

	if err := viper.ReadInConfig(); err != nil {
		// .env is optional, the environment alone is enough
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	sweepInterval, err := time.ParseDuration(viper.GetString("JWT_SESSION_SWEEP_INTERVAL"))
	if err != nil {
		sweepInterval = 15 * time.Minute
	}

	location, err := time.LoadLocation(viper.GetString("CLINIC_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLINIC_TIMEZONE %q: %w", viper.GetString("CLINIC_TIMEZONE"), err)
	}

	gstRate, err := decimal.NewFromString(viper.GetString("CLINIC_GST_RATE"))
	if err != nil || gstRate.IsNegative() {
		return nil, fmt.Errorf("invalid CLINIC_GST_RATE %q", viper.GetString("CLINIC_GST_RATE"))
	}

	config := &Config{
		App: AppConfig{
			Port:     viper.GetString("APP_PORT"),
			Env:      viper.GetString("APP_ENV"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		Storage: StorageConfig{
			Driver:     viper.GetString("STORAGE_DRIVER"),
			KeyPrefix:  viper.GetString("STORAGE_KEY_PREFIX"),
			MaxRetries: viper.GetInt("STORAGE_MAX_RETRIES"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
			SweepInterval: sweepInterval,
		},
		Clinic: ClinicConfig{
			GSTNumber: viper.GetString("CLINIC_GST_NO"),
			GSTRate:   gstRate,
			Location:  location,
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}
