// Package zaplog adapts go.uber.org/zap to the domain Logger contract.
package zaplog

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ochairo/sheetfetch/internal/domain/interfaces"
)

// Options controls how the production logger is built
type Options struct {
	Verbose bool // Debug level instead of info
	JSON    bool // JSON lines instead of console output

	// Output replaces stderr when set
	Output io.Writer
}

// Logger implements interfaces.Logger on top of a zap.Logger
type Logger struct {
	zl *zap.Logger
}

// New builds a logger from zap's production config, writing to stderr
// unless opts.Output is set
func New(opts Options) (*Logger, error) {
	config := zap.NewProductionConfig()
	if opts.Verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if !opts.JSON {
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	// stack traces on warn/error are noise for per-target failures
	config.DisableStacktrace = true

	if opts.Output != nil {
		var enc zapcore.Encoder
		if opts.JSON {
			enc = zapcore.NewJSONEncoder(config.EncoderConfig)
		} else {
			enc = zapcore.NewConsoleEncoder(config.EncoderConfig)
		}
		core := zapcore.NewCore(enc, zapcore.AddSync(opts.Output), config.Level)
		return NewFromZap(zap.New(core)), nil
	}

	zl, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return NewFromZap(zl), nil
}

// NewFromZap wraps an existing zap logger
func NewFromZap(zl *zap.Logger) *Logger {
	return &Logger{zl: zl}
}

// Debug logs debug-level messages
func (l *Logger) Debug(msg string, fields ...interfaces.Field) {
	l.zl.Debug(msg, convert(fields)...)
}

// Info logs informational messages
func (l *Logger) Info(msg string, fields ...interfaces.Field) {
	l.zl.Info(msg, convert(fields)...)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, fields ...interfaces.Field) {
	l.zl.Warn(msg, convert(fields)...)
}

// Error logs error messages
func (l *Logger) Error(msg string, fields ...interfaces.Field) {
	l.zl.Error(msg, convert(fields)...)
}

// With returns a child logger carrying fields
func (l *Logger) With(fields ...interfaces.Field) interfaces.Logger {
	return &Logger{zl: l.zl.With(convert(fields)...)}
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

// Zap exposes the underlying logger
func (l *Logger) Zap() *zap.Logger {
	return l.zl
}

func convert(fields []interfaces.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			out = append(out, zap.NamedError(f.Key, err))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}
