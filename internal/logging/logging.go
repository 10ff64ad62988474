package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Config struct {
	// Level is a zap level name ("debug", "info", "warn", "error").
	Level string `json:"level"`
	// File, when set, adds a rotating JSON log file next to the console.
	File string `json:"file"`
}

// writeSyncer adapts lumberjack to zapcore; rotation handles flushing.
type writeSyncer struct {
	*lumberjack.Logger
}

func (writeSyncer) Sync() error { return nil }

// New builds the service logger: a human-readable console core, plus a
// rotating JSON file core when configured.
func New(cfg Config) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stdout), level),
	}

	if cfg.File != "" {
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		sink := writeSyncer{&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    20, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
			LocalTime:  true,
		}}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), sink, level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}
