package config

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"
)

const envPrefix = "STARWARS"

var (
	Module = fx.Provide(
		NewConfig,
	)
)

type (
	Config struct {
		Host            string        `mapstructure:"HOST"`
		Port            string        `mapstructure:"PORT"`
		GRPCPort        string        `mapstructure:"GRPC_PORT"`
		DatabaseURL     string        `mapstructure:"DATABASE_URL"`
		SQLitePath      string        `mapstructure:"SQLITE_PATH"`
		BcryptCost      int           `mapstructure:"BCRYPT_COST"`
		LogLevel        string        `mapstructure:"LOG_LEVEL"`
		ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
		SQLLog          bool          `mapstructure:"SQL_LOG"`
	}
)

var defaults = map[string]interface{}{
	"HOST":             "0.0.0.0",
	"PORT":             "3000",
	"GRPC_PORT":        "9000",
	"DATABASE_URL":     "",
	"SQLITE_PATH":      "/tmp/test.db",
	"BCRYPT_COST":      12,
	"LOG_LEVEL":        "info",
	"SHUTDOWN_TIMEOUT": "5s",
	"SQL_LOG":          false,
}

// NewConfig reads the STARWARS_* environment on top of the local defaults.
// A non-empty DATABASE_URL switches the store from the local SQLite file to Postgres.
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "bind env %s", key)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

func (c *Config) HTTPAddr() string {
	return c.Host + ":" + c.Port
}

func (c *Config) GRPCAddr() string {
	return c.Host + ":" + c.GRPCPort
}

func (c *Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

func validate(cfg *Config) error {
	if cfg.Port == "" {
		return errors.New("PORT is empty")
	}
	if cfg.GRPCPort == "" {
		return errors.New("GRPC_PORT is empty")
	}
	if !cfg.UsePostgres() && cfg.SQLitePath == "" {
		return errors.New("either DATABASE_URL or SQLITE_PATH must be set")
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return errors.New(fmt.Sprintf("BCRYPT_COST must be within [%d, %d]: %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.BcryptCost))
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return errors.Wrap(err, "LOG_LEVEL is invalid")
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.New(fmt.Sprintf("SHUTDOWN_TIMEOUT must be positive: %s", cfg.ShutdownTimeout))
	}
	return nil
}
