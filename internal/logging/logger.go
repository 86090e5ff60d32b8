// Package logging provides colored, leveled, structured log output for the
// prompt-eval CLI.
//
// Every line starts with a color-coded level prefix followed by the message
// and its key/value fields. Debug output is suppressed unless verbose mode is
// enabled via SetVerbose(true).
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.Mutex
	verbose bool
	out     io.Writer = os.Stderr
	fields  []any
	sugar   *zap.SugaredLogger
)

// Color printers for each log level.
var (
	debugPrefix = color.New(color.FgHiBlack).SprintFunc()
	infoPrefix  = color.New(color.FgBlue).SprintFunc()
	warnPrefix  = color.New(color.FgYellow).SprintFunc()
	errorPrefix = color.New(color.FgRed).SprintFunc()
)

func levelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch l {
	case zapcore.DebugLevel:
		enc.AppendString(debugPrefix("[DEBUG]"))
	case zapcore.InfoLevel:
		enc.AppendString(infoPrefix("[INFO]"))
	case zapcore.WarnLevel:
		enc.AppendString(warnPrefix("[WARN]"))
	default:
		enc.AppendString(errorPrefix("[" + l.CapitalString() + "]"))
	}
}

func build() *zap.SugaredLogger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		LevelKey:         "level",
		MessageKey:       "msg",
		NameKey:          zapcore.OmitKey,
		TimeKey:          zapcore.OmitKey,
		CallerKey:        zapcore.OmitKey,
		StacktraceKey:    zapcore.OmitKey,
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      levelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(out)),
		level,
	)
	return zap.New(core).Sugar().With(fields...)
}

func logger() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if sugar == nil {
		sugar = build()
	}
	return sugar
}

func reset() {
	mu.Lock()
	defer mu.Unlock()
	sugar = nil
}

// SetVerbose enables or disables Debug output.
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
	reset()
}

// SetOutput redirects all log output to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	out = w
	mu.Unlock()
	reset()
}

// SetFields attaches key/value pairs to every subsequent line.
func SetFields(keysAndValues ...any) {
	mu.Lock()
	fields = keysAndValues
	mu.Unlock()
	reset()
}

// Debug logs at debug level, only when verbose mode is enabled.
func Debug(msg string, keysAndValues ...any) {
	logger().Debugw(msg, keysAndValues...)
}

// Info logs an informational message.
func Info(msg string, keysAndValues ...any) {
	logger().Infow(msg, keysAndValues...)
}

// Warn logs a warning.
func Warn(msg string, keysAndValues ...any) {
	logger().Warnw(msg, keysAndValues...)
}

// Error logs an error.
func Error(msg string, keysAndValues ...any) {
	logger().Errorw(msg, keysAndValues...)
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = logger().Sync()
}

// FormatDuration converts a duration in seconds to a human-readable string.
//
// Examples:
//
//	FormatDuration(0)    => "0s"
//	FormatDuration(45)   => "45s"
//	FormatDuration(90)   => "1m 30s"
//	FormatDuration(3661) => "1h 1m 1s"
func FormatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds < 3600 {
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	}
	return fmt.Sprintf("%dh %dm %ds", seconds/3600, (seconds%3600)/60, seconds%60)
}
