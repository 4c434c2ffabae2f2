// Package logging builds the zap loggers used across the service.
package logging

import (
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"azimute/internal/config"
)

// New returns a logger writing to stdout according to cfg.
func New(cfg config.LogConfig, loc *time.Location) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if !cfg.JSON {
		zc := zap.NewDevelopmentConfig()
		zc.Level.SetLevel(lvl)
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zc.Build()
	}
	return NewWithWriter(os.Stdout, lvl, loc), nil
}

// NewWithWriter returns a JSON logger writing one object per line to w.
// Timestamps are RFC3339Nano in loc under the "ts" key.
func NewWithWriter(w io.Writer, lvl zapcore.Level, loc *time.Location) *zap.Logger {
	if loc == nil {
		loc = time.UTC
	}
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		NameKey:        "logger",
		CallerKey:      "",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeTime: func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
			pae.AppendString(t.In(loc).Format(time.RFC3339Nano))
		},
	})
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl))
}
