package logx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestServiceLoggerWritesAllLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	svc, log := New(Config{Level: "debug", File: FileConfig{Enabled: true, Path: path}})
	defer svc.Close()

	log.Debug("dbg")
	log.Info("inf", String("series", "Severance"))
	log.Warn("wrn")
	log.Error("err", Int64("admin", 42))

	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		`"level":"debug"`, `"level":"info"`, `"level":"warn"`, `"level":"error"`,
		`"message":"inf"`, `"series":"Severance"`, `"admin":42`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %s:\n%s", want, out)
		}
	}
	if lines := strings.Count(strings.TrimSpace(out), "\n") + 1; lines != 4 {
		t.Fatalf("expected 4 log lines, got %d:\n%s", lines, out)
	}
}

func TestLevelFiltersBelowThreshold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	svc, log := New(Config{Level: "error", File: FileConfig{Enabled: true, Path: path}})

	log.Debug("quiet")
	log.Info("quiet")
	log.Warn("quiet")
	log.Error("loud")

	svc.Close()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "quiet") {
		t.Fatalf("sub-threshold events leaked: %s", data)
	}
	if !strings.Contains(string(data), "loud") {
		t.Fatalf("error event missing: %s", data)
	}
}

func TestNewConsoleIsUsableWithoutService(t *testing.T) {
	boot := NewConsole("error")
	if boot.IsZero() {
		t.Fatal("console logger should not be zero")
	}
	// Below threshold, so nothing reaches stdout during the test run.
	boot.Info("boot", String("config", "config.yaml"))
	boot.With(String("stage", "startup")).Debug("boot")
}

func TestZeroLoggerIsSilent(t *testing.T) {
	t.Parallel()

	var log Logger
	if !log.IsZero() {
		t.Fatal("zero Logger should report IsZero")
	}
	log.Info("dropped", String("k", "v"))
	log.With(String("k", "v")).Error("dropped")
	Nop().Warn("dropped")
}

func TestWithDoesNotMutateParent(t *testing.T) {
	t.Parallel()

	parent := Nop().With(String("a", "1"))
	child := parent.With(String("b", "2"))
	if len(parent.fields) != 1 {
		t.Fatalf("parent fields grew to %d", len(parent.fields))
	}
	if len(child.fields) != 2 {
		t.Fatalf("child fields = %d, want 2", len(child.fields))
	}
}
