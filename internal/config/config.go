package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	RabbitMQ RabbitMQConfig
	Log      LogConfig
	Seed     SeedConfig
}

type ServerConfig struct {
	Port               int
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
}

type StorageConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host             string
	Port             int
	User             string
	Password         string
	Name             string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
	TxTimeout        time.Duration
	MaxRetryAttempts int
}

type MongoConfig struct {
	URL      string
	Database string
	Timeout  time.Duration
}

// RabbitMQConfig with an empty URL disables ticket publishing.
type RabbitMQConfig struct {
	URL string
}

type LogConfig struct {
	Level  string
	Format string
}

type SeedConfig struct {
	OnStart bool
}

// Load reads configuration from the environment, optionally layered over the
// YAML file named by CONFIG_FILE.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 8001)
	v.SetDefault("SERVER_READ_TIMEOUT", "10s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("DB_DRIVER", DriverMongo)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "ristorante")
	v.SetDefault("DB_PASSWORD", "secret")
	v.SetDefault("DB_NAME", "ristorante_manager")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("DB_TX_TIMEOUT", "5s")
	v.SetDefault("DB_MAX_RETRY_ATTEMPTS", 3)
	v.SetDefault("MONGO_URL", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "ristorante_manager")
	v.SetDefault("MONGO_TIMEOUT", "10s")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SEED_ON_START", true)

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	durations := map[string]time.Duration{}
	for _, key := range []string{"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "DB_CONN_MAX_LIFETIME", "DB_TX_TIMEOUT", "MONGO_TIMEOUT"} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		durations[key] = d
	}

	driver := strings.ToLower(v.GetString("DB_DRIVER"))
	switch driver {
	case DriverMongo, DriverMySQL, DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               v.GetInt("SERVER_PORT"),
			ReadTimeout:        durations["SERVER_READ_TIMEOUT"],
			WriteTimeout:       durations["SERVER_WRITE_TIMEOUT"],
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Storage: StorageConfig{
			Driver: driver,
		},
		Database: DatabaseConfig{
			Host:             v.GetString("DB_HOST"),
			Port:             v.GetInt("DB_PORT"),
			User:             v.GetString("DB_USER"),
			Password:         v.GetString("DB_PASSWORD"),
			Name:             v.GetString("DB_NAME"),
			MaxOpenConns:     v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:     v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime:  durations["DB_CONN_MAX_LIFETIME"],
			TxTimeout:        durations["DB_TX_TIMEOUT"],
			MaxRetryAttempts: v.GetInt("DB_MAX_RETRY_ATTEMPTS"),
		},
		Mongo: MongoConfig{
			URL:      v.GetString("MONGO_URL"),
			Database: v.GetString("MONGO_DATABASE"),
			Timeout:  durations["MONGO_TIMEOUT"],
		},
		RabbitMQ: RabbitMQConfig{
			URL: v.GetString("RABBITMQ_URL"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Seed: SeedConfig{
			OnStart: v.GetBool("SEED_ON_START"),
		},
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
