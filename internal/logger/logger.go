// Package logger wraps the process-wide zap logger.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nhle/taskboard/internal/model"
)

// Output selects where log lines are written.
type Output string

const (
	// OutputFile writes only to the configured log file. The TUI uses this
	// since it owns the terminal.
	OutputFile Output = "file"
	// OutputStderr writes to standard error.
	OutputStderr Output = "stderr"
	// OutputBoth writes to standard error and the log file.
	OutputBoth Output = "both"
)

var (
	base  atomic.Pointer[zap.Logger]
	sugar atomic.Pointer[zap.SugaredLogger]
)

func init() {
	set(zap.NewNop())
}

func set(l *zap.Logger) {
	base.Store(l)
	sugar.Store(l.WithOptions(zap.AddCallerSkip(1)).Sugar())
}

// L returns the current logger. It is a no-op logger until Init is called.
func L() *zap.Logger {
	return base.Load()
}

// Sugar returns the sugared form of the current logger.
func Sugar() *zap.SugaredLogger {
	return sugar.Load()
}

// Replace installs l as the process logger. Tests use it with zaptest or
// observer cores.
func Replace(l *zap.Logger) {
	set(l)
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Init builds the logger from cfg and installs it.
func Init(cfg model.LogConfig, out Output) error {
	atomicLevel := zap.NewAtomicLevelAt(parseLevel(cfg.Level))

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var syncer zapcore.WriteSyncer
	switch out {
	case OutputFile, OutputBoth:
		if cfg.File == "" {
			return fmt.Errorf("log output %q requires log.file", out)
		}
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file %s: %w", cfg.File, err)
		}
		syncer = zapcore.AddSync(file)
		if out == OutputBoth {
			syncer = zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stderr), syncer)
		}
	default:
		syncer = zapcore.AddSync(os.Stderr)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), syncer, atomicLevel)
	set(zap.New(core, zap.AddCaller()))
	return nil
}

// Debugf formats a Debug log line.
func Debugf(format string, args ...any) { Sugar().Debugf(format, args...) }

// Infof formats an Info log line.
func Infof(format string, args ...any) { Sugar().Infof(format, args...) }

// Warnf formats a Warn log line.
func Warnf(format string, args ...any) { Sugar().Warnf(format, args...) }

// Errorf formats an Error log line.
func Errorf(format string, args ...any) { Sugar().Errorf(format, args...) }

// Sync flushes any buffered log entries.
func Sync() error {
	return L().Sync()
}
