package session

import (
	"errors"
	"testing"
	"time"
)

func TestDelay_CompletesWhenActive(t *testing.T) {
	s := New()
	if err := s.Delay(time.Millisecond); err != nil {
		t.Fatalf("delay on active session: %v", err)
	}
}

func TestDelay_RejectsImmediatelyWhenEnded(t *testing.T) {
	s := New()
	s.End()
	start := time.Now()
	err := s.Delay(time.Second)
	if !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("expected ErrSessionEnded, got %v", err)
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Fatalf("delay did not reject promptly")
	}
}

func TestDelay_UnblocksOnEndMidWait(t *testing.T) {
	s := New()
	done := make(chan error, 1)
	go func() { done <- s.Delay(5 * time.Second) }()
	time.Sleep(10 * time.Millisecond)
	s.End()
	select {
	case err := <-done:
		if !errors.Is(err, ErrSessionEnded) {
			t.Fatalf("expected ErrSessionEnded, got %v", err)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("delay did not unblock after End")
	}
}

func TestEnd_Idempotent(t *testing.T) {
	s := New()
	s.End()
	s.End()
	if s.Active() {
		t.Fatalf("session still active after End")
	}
	if s.Completed() {
		t.Fatalf("End alone must not mark the session completed")
	}
}

func TestComplete_MarksCompletedAndEnds(t *testing.T) {
	s := New()
	s.Complete()
	if s.Active() {
		t.Fatalf("session still active after Complete")
	}
	if !s.Completed() {
		t.Fatalf("expected completed session")
	}
}

func TestElapsed_FrozenAfterEnd(t *testing.T) {
	s := New()
	time.Sleep(5 * time.Millisecond)
	s.End()
	first := s.Elapsed()
	time.Sleep(10 * time.Millisecond)
	if got := s.Elapsed(); got != first {
		t.Fatalf("elapsed moved after End: %v -> %v", first, got)
	}
}

func TestSessions_IndependentCancellation(t *testing.T) {
	a, b := New(), New()
	a.End()
	if err := b.Delay(time.Millisecond); err != nil {
		t.Fatalf("sibling session affected by End: %v", err)
	}
}
