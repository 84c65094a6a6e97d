package main

import (
	"errors"
	"fmt"

	"github.com/joeshaw/envdecode"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is read from the environment; flags override it.
type Config struct {
	// Lang selects issue messages. ENV: QSKEMA_LANG
	Lang string `env:"QSKEMA_LANG,default=en"`
	// LogLevel for the stderr logger. ENV: QSKEMA_LOG_LEVEL
	LogLevel string `env:"QSKEMA_LOG_LEVEL,default=warn"`
}

// LoadConfig decodes Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	return cfg, nil
}

// NewLogger builds a console logger on stderr at the configured level.
func (c Config) NewLogger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config: log level: %w", err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Development = false
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}
