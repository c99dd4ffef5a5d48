package log

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func resetSession(t *testing.T) {
	t.Helper()
	sessionMutex.Lock()
	currentSession = nil
	loggingEnabled = true
	sessionMutex.Unlock()
}

func TestSessionRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	resetSession(t)

	if err := StartSession("run", []string{"/src", "/dst"}); err != nil {
		t.Fatalf("StartSession error = %v", err)
	}
	LogMove("/src/a/ep - S01E01.mkv", "/dst/a/ep - S01E01.mkv", true, nil)
	LogCopy("/src/a/ep - S01E02.mkv", "/dst/a/ep - S01E02.mkv", false, errors.New("disk full"))
	if err := EndSession(); err != nil {
		t.Fatalf("EndSession error = %v", err)
	}

	sessions, err := ReadSessions(0)
	if err != nil {
		t.Fatalf("ReadSessions error = %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1", len(sessions))
	}

	got := sessions[0]
	if diff := cmp.Diff([]string{"run", "/src", "/dst"}, got.Metadata.CommandArgs); diff != "" {
		t.Errorf("CommandArgs diff (-want +got):\n%s", diff)
	}
	if got.Metadata.TotalOps != 2 || got.Metadata.SuccessfulOps != 1 || got.Metadata.FailedOps != 1 {
		t.Errorf("stats = (%d, %d, %d), want (2, 1, 1)",
			got.Metadata.TotalOps, got.Metadata.SuccessfulOps, got.Metadata.FailedOps)
	}
	if got.Operations[1].Error != "disk full" {
		t.Errorf("Operations[1].Error = %q, want %q", got.Operations[1].Error, "disk full")
	}
}

func TestEmptySessionNotWritten(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	resetSession(t)

	if err := StartSession("run", nil); err != nil {
		t.Fatalf("StartSession error = %v", err)
	}
	if err := EndSession(); err != nil {
		t.Fatalf("EndSession error = %v", err)
	}

	sessions, err := ReadSessions(0)
	if err != nil {
		t.Fatalf("ReadSessions error = %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("len(sessions) = %d, want 0", len(sessions))
	}
}

func TestLoggingDisabled(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	resetSession(t)
	Initialize(false, 30)

	if err := StartSession("run", nil); err != nil {
		t.Fatalf("StartSession error = %v", err)
	}
	LogMove("/a", "/b", true, nil)
	if err := EndSession(); err != nil {
		t.Fatalf("EndSession error = %v", err)
	}

	sessions, err := ReadSessions(0)
	if err != nil {
		t.Fatalf("ReadSessions error = %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("len(sessions) = %d, want 0 when logging disabled", len(sessions))
	}

	Initialize(true, 30)
}
