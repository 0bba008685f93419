package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config is the root application configuration, read from the environment.
type Config struct {
	AppEnv   string `env:"APP_ENV"   env-default:"production"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Upload   UploadConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT"                    env-default:"3000"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT"     env-default:"5s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT"    env-default:"10s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER" env-default:"postgres"`
}

type DatabaseConfig struct {
	Host       string `env:"DB_HOST"`
	User       string `env:"DB_USER"`
	Password   string `env:"DB_PASSWORD"`
	Name       string `env:"DB_NAME"`
	Port       string `env:"DB_PORT"        env-default:"5432"`
	SSLMode    string `env:"DB_SSLMODE"     env-default:"disable"`
	MaxRetries int    `env:"DB_MAX_RETRIES" env-default:"5"`
}

// RedisConfig is optional; an empty Addr disables idempotent POSTs.
type RedisConfig struct {
	Addr       string `env:"REDIS_ADDR"`
	MaxRetries int    `env:"REDIS_MAX_RETRIES" env-default:"5"`
}

type UploadConfig struct {
	WebRoot        string `env:"WEB_ROOT"         env-default:"wwwroot"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" env-default:"33554432"`
}

// ImagesDir is where uploaded photos live.
func (u UploadConfig) ImagesDir() string {
	return filepath.Join(u.WebRoot, "images")
}

func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if c.Database.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required for the postgres store"))
		}
		if c.Database.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}

	if c.Upload.WebRoot == "" {
		errs = append(errs, errors.New("WEB_ROOT must not be empty"))
	}
	if c.Upload.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}

	return errors.Join(errs...)
}
