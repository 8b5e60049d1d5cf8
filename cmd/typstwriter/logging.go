package main

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	typstwriter "github.com/alnah/go-typstwriter"
)

// newLogger returns a console logger on w. Warnings are shown by default,
// debug entries with verbose, errors only with quiet.
func newLogger(w io.Writer, verbose, quiet bool) *zap.Logger {
	level := zapcore.WarnLevel
	switch {
	case quiet:
		level = zapcore.ErrorLevel
	case verbose:
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = "" // build output, not a service log
	encoderConfig.CallerKey = ""
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core)
}

// logWarnings writes one entry per render warning.
func logWarnings(logger *zap.Logger, document string, warnings []typstwriter.Warning) {
	for _, w := range warnings {
		logger.Warn(w.Message,
			zap.String("kind", w.Kind),
			zap.String("location", w.Location),
			zap.String("document", document),
		)
	}
}
