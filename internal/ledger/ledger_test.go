package ledger

import (
	"testing"
	"time"
)

func seedTwo(l *Ledger) {
	l.Seed([]Record{
		{Code: "ANNUAL_MAX", FieldName: "Annual Maximum", Category: "Plan", Missing: "Y"},
		{Code: "DEDUCTIBLE", FieldName: "Deductible", Category: "Plan", Missing: "N", PriorValue: "$50", VerifiedBy: VerifiedByAPI},
	})
}

func TestMarkChecking_AtMostOne(t *testing.T) {
	l := New()
	seedTwo(l)
	l.MarkChecking("ANNUAL_MAX")
	l.MarkChecking("DEDUCTIBLE")
	var checking int
	for _, r := range l.View(FilterAll) {
		if r.IsChecking {
			checking++
			if r.Code != "DEDUCTIBLE" {
				t.Fatalf("wrong record checking: %s", r.Code)
			}
		}
	}
	if checking != 1 {
		t.Fatalf("expected exactly 1 checking record, got %d", checking)
	}
}

func TestWriteValue_TransitionsMissingOnce(t *testing.T) {
	l := New(WithUpdateWindow(10 * time.Millisecond))
	seedTwo(l)
	l.WriteValue("ANNUAL_MAX", "$1500", VerifiedByCall)
	recs := l.View(FilterVerified)
	if len(recs) != 2 {
		t.Fatalf("expected 2 verified records, got %d", len(recs))
	}
	got := l.View(FilterAll)[0]
	if got.Missing != "N" || got.ObtainedValue != "$1500" || got.VerifiedBy != VerifiedByCall {
		t.Fatalf("unexpected record after write: %+v", got)
	}
	if got.IsChecking {
		t.Fatalf("write must clear the checking flag")
	}
	if len(l.View(FilterMissing)) != 0 {
		t.Fatalf("record still missing after write")
	}
}

func TestWriteValue_UpdateFlagSelfClears(t *testing.T) {
	l := New(WithUpdateWindow(15 * time.Millisecond))
	seedTwo(l)
	l.WriteValue("ANNUAL_MAX", "$1500", VerifiedByCall)
	if !l.View(FilterAll)[0].IsUpdating {
		t.Fatalf("expected updating flag right after write")
	}
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if !l.View(FilterAll)[0].IsUpdating {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("updating flag never cleared")
}

func TestWriteValue_UnknownCodeIsNoop(t *testing.T) {
	l := New()
	seedTwo(l)
	l.WriteValue("NOPE", "x", VerifiedByCall)
	missing, verified := l.Counts()
	if missing != 1 || verified != 1 {
		t.Fatalf("counts changed by unknown write: missing=%d verified=%d", missing, verified)
	}
}

func TestWriteValue_HookFires(t *testing.T) {
	l := New(WithUpdateWindow(5 * time.Millisecond))
	seedTwo(l)
	var codes []string
	l.OnWrite(func(code string) { codes = append(codes, code) })
	l.WriteValue("ANNUAL_MAX", "$1500", VerifiedByCall)
	l.WriteValue("NOPE", "x", VerifiedByCall)
	if len(codes) != 1 || codes[0] != "ANNUAL_MAX" {
		t.Fatalf("hook calls: %v", codes)
	}
}

func TestSeed_ReplacesWholesale(t *testing.T) {
	l := New(WithUpdateWindow(50 * time.Millisecond))
	seedTwo(l)
	l.WriteValue("ANNUAL_MAX", "$1500", VerifiedByCall)
	l.Seed([]Record{{Code: "WAITING", FieldName: "Waiting Period", Missing: "Y"}})
	all := l.View(FilterAll)
	if len(all) != 1 || all[0].Code != "WAITING" {
		t.Fatalf("reseed did not replace: %+v", all)
	}
	// The stale highlight timer from the first seed must not touch new state.
	time.Sleep(80 * time.Millisecond)
	if l.View(FilterAll)[0].IsUpdating {
		t.Fatalf("stale timer leaked into reseeded ledger")
	}
}

func TestClose_StopsHighlightTimers(t *testing.T) {
	l := New(WithUpdateWindow(10 * time.Millisecond))
	seedTwo(l)
	l.WriteValue("ANNUAL_MAX", "$1500", VerifiedByCall)
	l.Close()
	time.Sleep(30 * time.Millisecond)
	// Closed ledger keeps whatever state it had; nothing fires after Close.
	if got := l.View(FilterAll)[0]; !got.IsUpdating {
		t.Fatalf("timer fired after Close")
	}
	l.WriteValue("DEDUCTIBLE", "$100", VerifiedByCall)
	if l.View(FilterAll)[1].ObtainedValue != "" {
		t.Fatalf("write accepted after Close")
	}
}
