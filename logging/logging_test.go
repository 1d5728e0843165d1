package logging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"", InfoLevel},
		{"Warn", WarnLevel},
		{"warning", WarnLevel},
		{" error ", ErrorLevel},
		{"fatal", FatalLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("ParseLevel(verbose) succeeded")
	}
	if Level(42).String() != "UNKNOWN" {
		t.Errorf("Level(42) = %s", Level(42))
	}
}

func TestWriterLoggerRouting(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWriterLogger(&out, &errOut, InfoLevel)

	l.Debug("hidden")
	l.Info("realized", Fields{"root": "C4"})
	l.Warn("no key")
	l.Error(errors.New("boom"), "export failed", Fields{"notes": 3})

	if got := out.String(); got != "[INFO] realized map[root:C4]\n" {
		t.Errorf("stdout = %q", got)
	}
	want := "[WARN] no key\n[ERROR] export failed: boom map[notes:3]\n"
	if got := errOut.String(); got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}

	out.Reset()
	l.SetLevel(DebugLevel)
	l.Debug("shown")
	if out.String() != "[DEBUG] shown\n" {
		t.Errorf("debug output = %q", out.String())
	}
}

func TestWithFieldsAndContext(t *testing.T) {
	var out bytes.Buffer
	base := NewWriterLogger(&out, &out, InfoLevel)
	child := base.WithFields(Fields{"component": "catalog", "n": 1})

	ctx := ContextWithFields(context.Background(), Fields{"request": "a"})
	ctx = ContextWithFields(ctx, Fields{"n": 2})
	if got := FieldsFromContext(ctx); len(got) != 2 || got["request"] != "a" || got["n"] != 2 {
		t.Fatalf("context fields = %v", got)
	}

	child.WithContext(ctx).Info("loaded", Fields{"formulas": 40})
	want := "[INFO] loaded map[component:catalog formulas:40 n:2 request:a]\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}

	out.Reset()
	base.Info("plain")
	if out.String() != "[INFO] plain\n" {
		t.Errorf("parent logger picked up child fields: %q", out.String())
	}

	if base.WithContext(context.Background()) != Logger(base) {
		t.Error("WithContext without fields should return the receiver")
	}
	if FieldsFromContext(nil) != nil {
		t.Error("nil context has fields")
	}
}

func TestFatalExits(t *testing.T) {
	code := -1
	prev := exit
	exit = func(c int) { code = c }
	defer func() { exit = prev }()

	var out bytes.Buffer
	NewWriterLogger(&out, &out, ErrorLevel).Fatal(errors.New("corrupt"), "catalog")
	if code != 1 || !strings.HasPrefix(out.String(), "[FATAL] catalog: corrupt") {
		t.Errorf("exit code %d, output %q", code, out.String())
	}
}

func TestColors(t *testing.T) {
	var out bytes.Buffer
	l := NewWriterLogger(&out, &out, DebugLevel)
	l.setColors(true)
	l.Warn("careful")
	l.Info("plain")
	want := ColorYellow + "[WARN] careful" + ColorReset + "\n[INFO] plain\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestGlobalLogger(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	var out bytes.Buffer
	SetGlobalLogger(NewWriterLogger(&out, &out, InfoLevel))
	WithFields(Fields{"component": "key_estimator"}).Info("estimated")
	Debug("dropped")
	if out.String() != "[INFO] estimated map[component:key_estimator]\n" {
		t.Errorf("global output = %q", out.String())
	}

	SetGlobalLogger(nil)
	if _, ok := GetGlobalLogger().(*NoOpLogger); !ok {
		t.Errorf("SetGlobalLogger(nil) installed %T", GetGlobalLogger())
	}
}

// recorder is a printf-style application logger.
type recorder struct {
	lines []string
}

func (r *recorder) Debug(format string, args ...any) {
	r.lines = append(r.lines, "debug "+fmt.Sprintf(format, args...))
}

func (r *recorder) Info(format string, args ...any) {
	r.lines = append(r.lines, "info "+fmt.Sprintf(format, args...))
}

func (r *recorder) Warn(format string, args ...any) {
	r.lines = append(r.lines, "warn "+fmt.Sprintf(format, args...))
}

func TestLoggerFromAppLogger(t *testing.T) {
	rec := &recorder{}
	l := LoggerFromAppLogger(rec)
	if _, ok := l.(*AppLoggerAdapter); !ok {
		t.Fatalf("adapter type = %T", l)
	}
	l = l.WithFields(Fields{"key": "D-Major"})
	l.Info("estimated")
	l.Warn("tie")
	l.Error(errors.New("x"), "failed")

	want := []string{
		"info estimated map[key:D-Major]",
		"warn tie map[key:D-Major]",
		"info ERROR: failed map[key:D-Major]: x",
	}
	if len(rec.lines) != len(want) {
		t.Fatalf("lines = %q", rec.lines)
	}
	for i := range want {
		if rec.lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, rec.lines[i], want[i])
		}
	}

	native := &NoOpLogger{}
	if LoggerFromAppLogger(native) != Logger(native) {
		t.Error("a Logger should pass through unchanged")
	}
	if _, ok := LoggerFromAppLogger(42).(*DefaultLogger); !ok {
		t.Error("unsupported value should fall back to the default logger")
	}
}
