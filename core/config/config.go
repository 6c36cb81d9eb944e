package config

import (
	"strings"
	"time"

	"quickmeet-api/core/constants"

	"github.com/spf13/viper"
)

// AppConfig holds all runtime configuration, loaded once at startup.
type AppConfig struct {
	Env  string
	Port int

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Sweep    SweepConfig

	// Path to the metro-area alias table (YAML). Empty means the
	// built-in table is used.
	MetroTablePath string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type SweepConfig struct {
	Interval    time.Duration
	ChatroomTTL time.Duration
}

var cfg *AppConfig

// Load reads configuration from environment variables (optionally seeded
// by a .env file loaded before this call) and stores the result for Get.
func Load() (*AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", 7070)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "quickmeet")
	v.SetDefault("DB_SSLMODE", constants.DatabaseSSLMode)

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "")

	v.SetDefault("SWEEP_INTERVAL", constants.DefaultSweepInterval)
	v.SetDefault("CHATROOM_GRACE", constants.ChatroomGracePeriod)

	v.SetDefault("METRO_TABLE_PATH", "")

	cfg = &AppConfig{
		Env:  v.GetString("APP_ENV"),
		Port: v.GetInt("PORT"),
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		Sweep: SweepConfig{
			Interval:    v.GetDuration("SWEEP_INTERVAL"),
			ChatroomTTL: v.GetDuration("CHATROOM_GRACE"),
		},
		MetroTablePath: v.GetString("METRO_TABLE_PATH"),
	}

	return cfg, nil
}

// Get returns the loaded configuration. Load must have been called.
func Get() *AppConfig {
	return cfg
}
