package logging

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"
)

// ANSI color codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
	ColorBold   = "\033[1m"
)

// Level represents log levels
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel accepts a level name in any case; "warning" is an alias of
// "warn" and an empty string means info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	}
	return InfoLevel, fmt.Errorf("unknown log level %q", s)
}

// Fields represents structured logging fields
type Fields map[string]any

func mergeFields(base Fields, extra ...Fields) Fields {
	out := make(Fields, len(base))
	maps.Copy(out, base)
	for _, f := range extra {
		maps.Copy(out, f)
	}
	return out
}

// Logger defines the interface that the library expects for logging
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
	Fatal(err error, msg string, fields ...Fields)

	// WithFields returns a logger with preset fields
	WithFields(fields Fields) Logger

	// WithContext returns a logger carrying the fields stored in ctx by
	// ContextWithFields
	WithContext(ctx context.Context) Logger

	// SetLevel sets the minimum log level
	SetLevel(level Level)
}

type contextKey struct{}

// ContextWithFields returns a context carrying fields for WithContext. Fields
// already present in ctx are kept unless overridden.
func ContextWithFields(ctx context.Context, fields Fields) context.Context {
	return context.WithValue(ctx, contextKey{}, mergeFields(FieldsFromContext(ctx), fields))
}

// FieldsFromContext returns the fields stored by ContextWithFields, or nil.
func FieldsFromContext(ctx context.Context) Fields {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(contextKey{}).(Fields)
	return fields
}

var (
	globalMu     sync.RWMutex
	globalLogger Logger = NewDefaultLogger()
)

// SetGlobalLogger sets the global logger instance. nil disables logging.
func SetGlobalLogger(logger Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if logger == nil {
		globalLogger = &NoOpLogger{}
	} else {
		globalLogger = logger
	}
}

// GetGlobalLogger returns the current global logger
func GetGlobalLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// LoggerFromAppLogger wraps an application logger so the library can log
// through it. Values that already implement Logger are returned as is;
// loggers with printf-style Debug/Info/Warn/Error methods are adapted; anything
// else falls back to a default logger.
//
// Example integration:
// appLogger := applog.New(applog.Fields{"component": "theory"})
// logging.SetGlobalLogger(logging.LoggerFromAppLogger(appLogger))
func LoggerFromAppLogger(appLogger any) Logger {
	if appLogger == nil {
		return NewDefaultLogger()
	}
	if logger, ok := appLogger.(Logger); ok {
		return logger
	}
	if _, ok := appLogger.(printfLogger); ok {
		return &AppLoggerAdapter{appLogger: appLogger}
	}
	return NewDefaultLogger()
}

type printfLogger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
}

// AppLoggerAdapter adapts a printf-style application logger to Logger.
// Fields are rendered into the message; optional Warn, Error, Fatal and
// WithFields methods are used when the application logger has them.
type AppLoggerAdapter struct {
	appLogger any
	fields    Fields
}

func (a *AppLoggerAdapter) render(msg string, fields []Fields) string {
	all := mergeFields(a.fields, fields...)
	if len(all) == 0 {
		return msg
	}
	return fmt.Sprintf("%s %+v", msg, map[string]any(all))
}

func (a *AppLoggerAdapter) Debug(msg string, fields ...Fields) {
	a.appLogger.(printfLogger).Debug("%s", a.render(msg, fields))
}

func (a *AppLoggerAdapter) Info(msg string, fields ...Fields) {
	a.appLogger.(printfLogger).Info("%s", a.render(msg, fields))
}

func (a *AppLoggerAdapter) Warn(msg string, fields ...Fields) {
	if warner, ok := a.appLogger.(interface{ Warn(string, ...any) }); ok {
		warner.Warn("%s", a.render(msg, fields))
		return
	}
	a.appLogger.(printfLogger).Info("WARN: %s", a.render(msg, fields))
}

func (a *AppLoggerAdapter) Error(err error, msg string, fields ...Fields) {
	if errorer, ok := a.appLogger.(interface{ Error(error, ...any) }); ok {
		errorer.Error(err, a.render(msg, fields))
		return
	}
	a.appLogger.(printfLogger).Info("ERROR: %s: %v", a.render(msg, fields), err)
}

// Fatal reports through the application logger's Fatal or Error method. It
// does not exit; the application logger decides that.
func (a *AppLoggerAdapter) Fatal(err error, msg string, fields ...Fields) {
	if fataler, ok := a.appLogger.(interface{ Fatal(string, ...any) }); ok {
		fataler.Fatal("%s: %v", a.render(msg, fields), err)
		return
	}
	a.Error(err, "FATAL: "+msg, fields...)
}

func (a *AppLoggerAdapter) WithFields(fields Fields) Logger {
	return &AppLoggerAdapter{appLogger: a.appLogger, fields: mergeFields(a.fields, fields)}
}

func (a *AppLoggerAdapter) WithContext(ctx context.Context) Logger {
	if fields := FieldsFromContext(ctx); len(fields) > 0 {
		return a.WithFields(fields)
	}
	return a
}

func (a *AppLoggerAdapter) SetLevel(level Level) {
	if leveler, ok := a.appLogger.(interface{ SetLevel(Level) }); ok {
		leveler.SetLevel(level)
	}
}

// Package-level logging functions that use the global logger
func Debug(msg string, fields ...Fields) {
	GetGlobalLogger().Debug(msg, fields...)
}

func Info(msg string, fields ...Fields) {
	GetGlobalLogger().Info(msg, fields...)
}

func Warn(msg string, fields ...Fields) {
	GetGlobalLogger().Warn(msg, fields...)
}

func Error(err error, msg string, fields ...Fields) {
	GetGlobalLogger().Error(err, msg, fields...)
}

func Fatal(err error, msg string, fields ...Fields) {
	GetGlobalLogger().Fatal(err, msg, fields...)
}

func WithFields(fields Fields) Logger {
	return GetGlobalLogger().WithFields(fields)
}

func WithContext(ctx context.Context) Logger {
	return GetGlobalLogger().WithContext(ctx)
}

func SetLevel(level Level) {
	GetGlobalLogger().SetLevel(level)
}

// DisableColors globally disables color output for the default logger
func DisableColors() {
	if defaultLogger, ok := GetGlobalLogger().(*DefaultLogger); ok {
		defaultLogger.setColors(false)
	}
}

// EnableColors globally enables color output for the default logger
func EnableColors() {
	if defaultLogger, ok := GetGlobalLogger().(*DefaultLogger); ok {
		defaultLogger.setColors(true)
	}
}
