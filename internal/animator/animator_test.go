package animator

import (
	"sync/atomic"
	"testing"
	"time"
)

func fastTimings() Option {
	return WithTimings(10*time.Millisecond, 25*time.Millisecond, 40*time.Millisecond)
}

func phaseOf(a *Animator, code string) (Phase, bool) {
	for _, s := range a.Overlay() {
		if s.Code == code {
			return s.Phase, true
		}
	}
	return "", false
}

func waitPhase(t *testing.T, a *Animator, code string, want Phase) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if p, ok := phaseOf(a, code); ok && p == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	p, ok := phaseOf(a, code)
	t.Fatalf("field %s never reached %s (now %v, present=%v)", code, want, p, ok)
}

func TestNotify_WalksPhasesThenRemoves(t *testing.T) {
	a := New(fastTimings())
	defer a.Close()
	a.Notify("ANNUAL_MAX")
	if p, ok := phaseOf(a, "ANNUAL_MAX"); !ok || p != PhaseHighlight {
		t.Fatalf("expected immediate highlight, got %v present=%v", p, ok)
	}
	waitPhase(t, a, "ANNUAL_MAX", PhaseBadge)
	waitPhase(t, a, "ANNUAL_MAX", PhaseLeaving)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, ok := phaseOf(a, "ANNUAL_MAX"); !ok {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("field never removed from overlay")
}

func TestNotify_SecondWriteCancelsStaleChain(t *testing.T) {
	a := New(fastTimings())
	defer a.Close()
	a.Notify("X")
	waitPhase(t, a, "X", PhaseBadge)
	// Re-verify inside the first chain's window: the field snaps back to
	// highlight and the first chain's later timers must never fire.
	a.Notify("X")
	if p, _ := phaseOf(a, "X"); p != PhaseHighlight {
		t.Fatalf("re-notify did not re-highlight, got %v", p)
	}
	// The stale removal (40ms after the first notify) would land here.
	time.Sleep(25 * time.Millisecond)
	if _, ok := phaseOf(a, "X"); !ok {
		t.Fatalf("stale removal fired after re-notify")
	}
	if a.PendingTimers() != 1 {
		t.Fatalf("expected exactly 1 live chain, got %d", a.PendingTimers())
	}
	// The fresh chain still completes on its own schedule.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, ok := phaseOf(a, "X"); !ok {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("fresh chain never completed")
}

func TestChains_IndependentPerCode(t *testing.T) {
	a := New(fastTimings())
	defer a.Close()
	a.Notify("A")
	waitPhase(t, a, "A", PhaseLeaving)
	a.Notify("B")
	if p, _ := phaseOf(a, "B"); p != PhaseHighlight {
		t.Fatalf("B should start at highlight")
	}
	if p, _ := phaseOf(a, "A"); p != PhaseLeaving {
		t.Fatalf("notifying B disturbed A's phase: %v", p)
	}
}

func TestClose_StopsEverything(t *testing.T) {
	a := New(fastTimings())
	var changes int32
	a.Notify("A")
	a.OnChange(func() { atomic.AddInt32(&changes, 1) })
	a.Close()
	if got := a.PendingTimers(); got != 0 {
		t.Fatalf("pending chains after Close: %d", got)
	}
	a.Notify("B")
	time.Sleep(60 * time.Millisecond)
	if atomic.LoadInt32(&changes) != 0 {
		t.Fatalf("overlay changed after Close")
	}
}
