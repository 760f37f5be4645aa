// Package logging builds the zap logger used by the extractor and the CLI.
package logging

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/JPM1118/framegrab/internal/config"
)

// New returns a logger for cfg. Output goes to cfg.File when set, otherwise
// to w. With no file and a nil w the logger discards everything, which is
// what the TUI wants since it owns the terminal.
//
// The returned cleanup flushes the logger and closes any opened file.
func New(cfg config.LogConfig, w io.Writer) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	var (
		sink      zapcore.WriteSyncer
		closeSink = func() {}
	)
	switch {
	case cfg.File != "":
		ws, closeFile, err := zap.Open(cfg.File)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		sink, closeSink = ws, closeFile
	case w != nil:
		sink = zapcore.AddSync(w)
	default:
		return zap.NewNop(), func() {}, nil
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), sink, level)
	logger := zap.New(core)
	return logger, func() {
		_ = logger.Sync()
		closeSink()
	}, nil
}

func encoderConfig() zapcore.EncoderConfig {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	enc.CallerKey = ""
	return enc
}
