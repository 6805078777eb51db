// Package logging builds the zap logger shared by all components.
//
// The terminal frontends own stdout, so console output is optional. When a
// log file is configured records are also written there as JSON, rotated
// by lumberjack.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dshills/typewriter/internal/config"
)

// Name is the root logger name.
const Name = "typewriter"

// New builds a logger from cfg. console receives records in cfg.Format;
// nil disables console output. The returned closer releases the log file
// and is never nil.
func New(cfg config.LoggingConfig, console zapcore.WriteSyncer) (*zap.Logger, io.Closer) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level.SetLevel(zap.InfoLevel)
	}

	var cores []zapcore.Core
	if console != nil {
		cores = append(cores, zapcore.NewCore(encoder(cfg.Format), console, level))
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		// File records are always JSON.
		cores = append(cores, zapcore.NewCore(encoder("json"), zapcore.AddSync(file), level))
		closer = file
	}

	if len(cores) == 0 {
		return zap.NewNop(), closer
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel))
	return logger.Named(Name), closer
}

func encoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")

	if format == "console" {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(cfg)
	}

	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(cfg)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
