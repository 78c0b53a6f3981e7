package notifier

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTerminal(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminal(&buf)

	n.Success("Task updated")
	n.Failure("Failed to update task", errors.New("status 500"))

	out := buf.String()
	if !strings.Contains(out, "Task updated") {
		t.Errorf("output %q missing success text", out)
	}
	if !strings.Contains(out, "Failed to update task: status 500") {
		t.Errorf("output %q missing failure text", out)
	}
	if lines := strings.Count(out, "\n"); lines != 2 {
		t.Errorf("got %d lines, want 2", lines)
	}
}

func TestQueueExpiry(t *testing.T) {
	clock := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	q := NewQueue()
	q.now = func() time.Time { return clock }

	q.Success("first")
	clock = clock.Add(3 * time.Second)
	q.Failure("second", nil)

	if got := q.Active(); len(got) != 2 {
		t.Fatalf("Active() returned %d toasts, want 2", len(got))
	}

	clock = clock.Add(3 * time.Second) // first is now 6s old
	got := q.Active()
	if len(got) != 1 || got[0].Text != "second" {
		t.Fatalf("Active() = %+v, want only the second toast", got)
	}
	if got[0].Level != LevelError {
		t.Errorf("Level = %v, want LevelError", got[0].Level)
	}

	clock = clock.Add(10 * time.Second)
	if got := q.Active(); len(got) != 0 {
		t.Errorf("Active() returned %d toasts after expiry, want 0", len(got))
	}
}

func TestToastRender(t *testing.T) {
	if !strings.Contains(Toast{Level: LevelSuccess, Text: "ok"}.Render(), "ok") {
		t.Error("Render() dropped the success text")
	}
	if !strings.Contains(Toast{Level: LevelError, Text: "bad"}.Render(), "bad") {
		t.Error("Render() dropped the failure text")
	}
}
