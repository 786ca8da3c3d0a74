// Package logger builds the zap logger used across the CLI. Logs go to
// stderr so answers on stdout stay clean.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

type Options struct {
	// Debug enables debug output and caller annotations.
	Debug bool
	// Verbose lowers the threshold to info so tool calls are traced.
	Verbose bool
	Writers []io.Writer
	// Color forces the colored level encoder. It is enabled automatically
	// when the only writer is a terminal.
	Color bool
}

func New(opts Options) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	writers := opts.Writers
	if len(writers) == 0 {
		writers = []io.Writer{os.Stderr}
	}
	if opts.Color || (len(writers) == 1 && isTerminal(writers[0])) {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	syncers := make([]zapcore.WriteSyncer, 0, len(writers))
	for _, writer := range writers {
		syncers = append(syncers, zapcore.AddSync(writer))
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(syncers...),
		Level(opts),
	)

	if opts.Debug {
		return zap.New(core, zap.AddCaller())
	}
	return zap.New(core)
}

func Level(opts Options) zapcore.Level {
	switch {
	case opts.Debug:
		return zap.DebugLevel
	case opts.Verbose:
		return zap.InfoLevel
	default:
		return zap.WarnLevel
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
