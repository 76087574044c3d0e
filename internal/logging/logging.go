// Package logging builds the process-wide zap logger.
package logging

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	Level  zapcore.Level `koanf:"level"`
	Format string        `koanf:"format"`

	// Stderr routes log output to stderr instead of stdout. Required for
	// the MCP server, whose stdout carries the protocol stream.
	Stderr bool `koanf:"stderr"`
}

// NewDefaultConfig returns config with production defaults.
func NewDefaultConfig() Config {
	return Config{
		Level:  zapcore.InfoLevel,
		Format: "json",
	}
}

// Validate checks config for errors.
func (c Config) Validate() error {
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}
	return nil
}

// New creates a zap logger from config.
func New(cfg Config) (*zap.Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	sink := os.Stdout
	if cfg.Stderr {
		sink = os.Stderr
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(sink), cfg.Level)
	logger := zap.New(core, zap.AddCaller()).With(zap.String("service", "decisiond"))

	return logger, nil
}

// Sync flushes the logger, ignoring the harmless errors syncing a
// terminal stdout/stderr produces on Linux.
func Sync(logger *zap.Logger) error {
	err := logger.Sync()
	if err != nil && isStdoutSyncError(err) {
		return nil
	}
	return err
}

func isStdoutSyncError(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EINVAL || errno == syscall.ENOTTY
	}
	return false
}
