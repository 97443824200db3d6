package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureAll(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	SetWriterForAll(buf)
	SetColor(false)
	t.Cleanup(func() {
		SetWriterForAll(os.Stdout)
		SetColor(true)
		SetVerbose(false)
		SetExitFunc(os.Exit)
	})
	return buf
}

func TestDebugRequiresVerbose(t *testing.T) {
	buf := captureAll(t)

	SetVerbose(false)
	Debug("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("debug output without verbose: %q", buf.String())
	}

	SetVerbose(true)
	Debug("shown %d", 2)
	if !strings.Contains(buf.String(), "DEBUG shown 2") {
		t.Errorf("missing debug line, got %q", buf.String())
	}
}

func TestLevelsAreFormatted(t *testing.T) {
	buf := captureAll(t)

	Info("info message")
	Warn("warn message")
	Error("error message")

	out := buf.String()
	for _, want := range []string{"INFO  info message", "WARN  warn message", "ERROR error message"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("color codes written with color disabled: %q", out)
	}
}

func TestFatalCallsExit(t *testing.T) {
	buf := captureAll(t)

	code := -1
	SetExitFunc(func(c int) { code = c })
	Fatal("boom")

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(buf.String(), "FATAL boom") {
		t.Errorf("missing fatal line, got %q", buf.String())
	}
}

func TestAddLogFile(t *testing.T) {
	buf := captureAll(t)

	path := filepath.Join(t.TempDir(), "httpskin.log")
	closer, err := AddLogFile(path)
	if err != nil {
		t.Fatalf("AddLogFile() error = %v", err)
	}
	Info("to both")
	closer.Close()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "to both") {
		t.Errorf("log file missing message: %q", content)
	}
	if !strings.Contains(buf.String(), "to both") {
		t.Errorf("console missing message: %q", buf.String())
	}
}

func TestLogFileIsPlainWhileConsoleIsColored(t *testing.T) {
	buf := captureAll(t)
	SetColor(true)

	file := &bytes.Buffer{}
	AddWriter(WARN, file)
	Warn("careful")
	Info("not teed")

	if !strings.Contains(buf.String(), ColorYellow) {
		t.Errorf("console not colored: %q", buf.String())
	}
	if strings.Contains(file.String(), "\033[") {
		t.Errorf("plain writer got color codes: %q", file.String())
	}
	if !strings.Contains(file.String(), "WARN  careful") || strings.Contains(file.String(), "not teed") {
		t.Errorf("plain writer = %q", file.String())
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{FATAL, "FATAL"},
		{LogLevel(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
