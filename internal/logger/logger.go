package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Option adjusts the logger configuration before it is built.
type Option func(*zap.Config) error

// WithOutput sends entries to the given paths in addition to stderr.
func WithOutput(paths ...string) Option {
	return func(cfg *zap.Config) error {
		for _, path := range paths {
			if path != "" {
				cfg.OutputPaths = append(cfg.OutputPaths, path)
			}
		}
		return nil
	}
}

// WithLevel overrides the level chosen by the debug switch. An empty level is ignored.
func WithLevel(level string) Option {
	return func(cfg *zap.Config) error {
		if level == "" {
			return nil
		}
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		cfg.Level.SetLevel(parsed)
		return nil
	}
}

// New builds the process logger. Logs go to stderr so command output written
// to stdout stays machine readable.
func New(json bool, debug bool, opts ...Option) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}

	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "step",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,

			EncodeDuration: zapcore.MillisDurationEncoder,
		},
	}

	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return cfg.Build()
}
