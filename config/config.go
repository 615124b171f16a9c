package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	HTTP     ServerConfig
	MySQL    MySQLConfig
	Log      LogConfig
	Phoenixd PhoenixdConfig
	Relay    RelayConfig
	Jobs     JobsConfig
}

type AppConfig struct {
	ServiceName string
}

type ServerConfig struct {
	Host string
	Port string
}

type MySQLConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type PhoenixdConfig struct {
	URL         string
	Password    string
	HTTPTimeout time.Duration
}

type RelayConfig struct {
	ReconnectDelay time.Duration
	StartupDelay   time.Duration
}

type JobsConfig struct {
	PruneInterval  time.Duration
	PruneRetention time.Duration
	PruneBatchSize int32
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "phoenixd-dash"),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "4000"),
		},
		MySQL: MySQLConfig{
			DSN:             mysqlDSN,
			MaxOpenConns:    getIntEnv("MYSQL_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntEnv("MYSQL_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getMinutesEnv("MYSQL_CONN_MAX_LIFETIME_MINUTES", 30*time.Minute),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Phoenixd: PhoenixdConfig{
			URL:         getEnv("PHOENIXD_URL", "http://phoenixd:9740"),
			Password:    getEnv("PHOENIXD_PASSWORD", ""),
			HTTPTimeout: getSecondsEnv("PHOENIXD_HTTP_TIMEOUT_SECONDS", 30*time.Second),
		},
		Relay: RelayConfig{
			ReconnectDelay: getSecondsEnv("RELAY_RECONNECT_DELAY_SECONDS", 5*time.Second),
			StartupDelay:   getSecondsEnv("RELAY_STARTUP_DELAY_SECONDS", 3*time.Second),
		},
		Jobs: JobsConfig{
			PruneInterval:  getMinutesEnv("PAYMENT_LOG_PRUNE_INTERVAL_MINUTES", 60*time.Minute),
			PruneRetention: getMinutesEnv("PAYMENT_LOG_RETENTION_MINUTES", 90*24*60*time.Minute),
			PruneBatchSize: int32(getIntEnv("PAYMENT_LOG_PRUNE_BATCH_SIZE", 500)),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getMinutesEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
