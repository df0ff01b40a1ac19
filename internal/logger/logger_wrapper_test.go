package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leandrodaf/midiclock/sdk/contracts"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (contracts.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewFromZap(zap.New(core)), logs
}

func TestFieldsReachZap(t *testing.T) {
	log, logs := observed()

	log.Warn("Tempo rejected",
		log.Field().Float64("bpm", 400),
		log.Field().Int("pulse", 7),
		log.Field().String("reason", "range"),
		log.Field().Error("error", errors.New("boom")),
	)

	entries := logs.FilterMessage("Tempo rejected").All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("level = %v, want warn", entries[0].Level)
	}
	ctx := entries[0].ContextMap()
	if ctx["bpm"] != 400.0 {
		t.Fatalf("bpm = %v, want 400", ctx["bpm"])
	}
	if ctx["pulse"] != int64(7) {
		t.Fatalf("pulse = %v, want 7", ctx["pulse"])
	}
	if ctx["reason"] != "range" {
		t.Fatalf("reason = %v, want range", ctx["reason"])
	}
	if ctx["error"] != "boom" {
		t.Fatalf("error = %v, want boom", ctx["error"])
	}
}

func TestNilErrorFieldIsDropped(t *testing.T) {
	log, logs := observed()
	log.Info("ok", log.Field().Error("error", nil))
	if got := len(logs.All()[0].Context); got != 0 {
		t.Fatalf("got %d context fields, want 0", got)
	}
}

func TestSetLevelFilters(t *testing.T) {
	log, logs := observed()

	log.Debug("hidden")
	if logs.Len() != 0 {
		t.Fatalf("debug entry written at info level")
	}

	log.SetLevel(contracts.DebugLevel)
	log.Debug("shown")
	if logs.FilterMessage("shown").Len() != 1 {
		t.Fatalf("debug entry missing after SetLevel(DebugLevel)")
	}

	log.SetLevel(contracts.ErrorLevel)
	log.Warn("dropped")
	log.Error("kept")
	if logs.FilterMessage("dropped").Len() != 0 {
		t.Fatalf("warn entry written at error level")
	}
	if logs.FilterMessage("kept").Len() != 1 {
		t.Fatalf("error entry missing at error level")
	}
}

func TestFileDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clock.log")
	log := NewZapLogger()
	log.SetDestination(contracts.FileLog, path)
	log.Info("Clock started", log.Field().Float64("tempo", 120))
	if err := log.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "Clock started") {
		t.Fatalf("log file missing entry: %q", data)
	}
}

func TestFileDestinationWithoutPathKeepsLogger(t *testing.T) {
	log, logs := observed()
	log.SetDestination(contracts.FileLog)
	log.Info("still here")
	if logs.FilterMessage("still here").Len() != 1 {
		t.Fatalf("logger replaced despite missing path")
	}
}
