package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	DBName          string        `yaml:"dbname"`
	SSLMode         string        `yaml:"sslmode"`
	MaxConns        int32         `yaml:"max_conns"`
	MinConns        int32         `yaml:"min_conns"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
	MigrationsPath  string        `yaml:"migrations_path"`
}

type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	SesionTTL time.Duration `yaml:"sesion_ttl"`
}

type Config struct {
	App struct {
		Port string `yaml:"port"`
	} `yaml:"app"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
}

// NewConfig loads configuration from an optional YAML file (CONFIG_PATH),
// an optional .env file, and environment variables, in that order of
// increasing precedence.
func NewConfig() (*Config, error) {
	cfg := &Config{}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: failed to open config file: %w", err)
		}
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("config: invalid config file: %w", err)
		}
	}

	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	overrideString(&cfg.App.Port, "APP_PORT", "8080")
	overrideString(&cfg.Postgres.Host, "DB_HOST", "localhost")
	overrideString(&cfg.Postgres.Port, "DB_PORT", "5432")
	overrideString(&cfg.Postgres.User, "DB_USER", "")
	overrideString(&cfg.Postgres.Password, "DB_PASSWORD", "")
	overrideString(&cfg.Postgres.DBName, "DB_NAME", "")
	overrideString(&cfg.Postgres.SSLMode, "DB_SSLMODE", "disable")
	overrideString(&cfg.Postgres.MigrationsPath, "DB_MIGRATIONS_PATH", "migrations")
	overrideString(&cfg.Redis.Addr, "REDIS_ADDR", "localhost:6379")

	if cfg.Postgres.MaxConns == 0 {
		cfg.Postgres.MaxConns = 10
	}
	if cfg.Postgres.MinConns == 0 {
		cfg.Postgres.MinConns = 2
	}
	if cfg.Postgres.MaxConnLifetime == 0 {
		cfg.Postgres.MaxConnLifetime = 30 * time.Minute
	}
	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("config: invalid DB_MAX_CONNS: %w", err)
		}
		cfg.Postgres.MaxConns = int32(n)
	}
	if cfg.Redis.SesionTTL == 0 {
		cfg.Redis.SesionTTL = 24 * time.Hour
	}

	if cfg.Postgres.User == "" {
		return nil, fmt.Errorf("config: DB_USER is required")
	}
	if cfg.Postgres.DBName == "" {
		return nil, fmt.Errorf("config: DB_NAME is required")
	}

	return cfg, nil
}

func overrideString(dst *string, env, fallback string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
		return
	}
	if *dst == "" {
		*dst = fallback
	}
}
