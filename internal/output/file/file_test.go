package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/carlosaherrerap/Evidencias/internal/model"
)

func testEvent(level model.Level, msg string) model.Event {
	return model.Event{
		RunID:   "run-1",
		Time:    time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC),
		Current: 4,
		Total:   10,
		Message: msg,
		Level:   level,
		Cuenta:  "107069101002288680",
		Nombre:  "GABANCHO CACERES, BANZER",
	}
}

func TestWriteProducesValidNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.jsonl")
	out, err := New(path)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := out.Write(context.Background(), testEvent(model.LevelInfo, "IVR: ivr_ok.mp3")); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	out.Close()

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	for i, line := range lines {
		var ev model.Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Errorf("line %d: invalid JSON: %v", i, err)
		}
		if ev.Current != 4 || ev.Total != 10 {
			t.Errorf("line %d: progress = %d/%d, want 4/10", i, ev.Current, ev.Total)
		}
	}
}

func TestWriteVisibleBeforeClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.jsonl")
	out, err := New(path)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer out.Close()

	out.Write(context.Background(), testEvent(model.LevelInfo, "first"))

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"message":"first"`) {
		t.Fatalf("event not flushed to disk: %q", data)
	}
}

func TestRotationTriggersAtMaxSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "progress.jsonl")

	// Each line is well over 100 bytes, so every write after the first rotates.
	out, err := New(path, WithMaxSize(200))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := out.Write(context.Background(), testEvent(model.LevelWarn, "CALL: audio not found")); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	out.Close()

	if _, err := os.Stat(path + ".1"); os.IsNotExist(err) {
		t.Error("expected rotated file .1 to exist")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("current file stat error: %v", err)
	}
	if info.Size() == 0 {
		t.Error("current file is empty after rotation")
	}
}

func TestRotationKeepsBackupLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.jsonl")

	out, err := New(path, WithMaxSize(200), WithBackups(2))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := out.Write(context.Background(), testEvent(model.LevelInfo, fmt.Sprintf("msg-%d", i))); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	out.Close()

	want := map[string]string{
		path:        "msg-4",
		path + ".1": "msg-3",
		path + ".2": "msg-2",
	}
	for p, msg := range want {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if !strings.Contains(string(data), `"message":"`+msg+`"`) {
			t.Errorf("%s = %q, want %s", filepath.Base(p), data, msg)
		}
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Errorf("backup past the limit still present: %v", err)
	}
}

func TestRotationWithoutBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.jsonl")

	out, err := New(path, WithMaxSize(200), WithBackups(0))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := out.Write(context.Background(), testEvent(model.LevelInfo, fmt.Sprintf("msg-%d", i))); err != nil {
			t.Fatalf("Write error: %v", err)
		}
	}
	out.Close()

	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Errorf("no backup expected, stat err = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 1 || !strings.Contains(string(data), "msg-2") {
		t.Errorf("current file = %q, want only msg-2", data)
	}
}

func TestMinLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.jsonl")
	out, err := New(path, WithMinLevel(model.LevelWarn))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	out.Write(context.Background(), testEvent(model.LevelInfo, "skipped"))
	out.Write(context.Background(), testEvent(model.LevelWarn, "kept"))
	out.Close()

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], `"message":"kept"`) {
		t.Fatalf("got %q, want only the warn event", data)
	}
}

func TestAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.jsonl")
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := New(path)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	out.Write(context.Background(), testEvent(model.LevelInfo, "next"))
	out.Close()

	data, _ := os.ReadFile(path)
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
}

func TestConcurrentWritesSafe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.jsonl")
	out, err := New(path)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out.Write(context.Background(), testEvent(model.LevelInfo, "concurrent"))
		}()
	}
	wg.Wait()
	out.Close()

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 50 {
		t.Errorf("got %d lines, want 50", len(lines))
	}
}
