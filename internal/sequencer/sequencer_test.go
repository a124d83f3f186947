package sequencer

import (
	"sync"
	"testing"
	"time"

	"github.com/ricky2013dev/smithpjt-verify/internal/ledger"
	"github.com/ricky2013dev/smithpjt-verify/internal/script"
	"github.com/ricky2013dev/smithpjt-verify/internal/session"
)

func fastSeq(led *ledger.Ledger, hooks Hooks) *Sequencer {
	return New(led, nil, hooks, WithTypeStep(time.Millisecond))
}

func twoTurnScript() []script.Action {
	return []script.Action{
		{
			Check: "X",
			Turn:  &script.Turn{Speaker: script.SpeakerAgent, Text: "What is the annual maximum?", PostDelay: 5 * time.Millisecond},
		},
		{
			Turn:  &script.Turn{Speaker: script.SpeakerRep, Text: "It is 42.", PostDelay: 5 * time.Millisecond},
			Write: &script.FieldWrite{Code: "X", Value: "42", VerifiedBy: ledger.VerifiedByCall},
		},
	}
}

func seededLedger() *ledger.Ledger {
	led := ledger.New(ledger.WithUpdateWindow(5 * time.Millisecond))
	led.Seed([]ledger.Record{{Code: "X", FieldName: "Annual Maximum", Missing: "Y"}})
	return led
}

func TestRun_CompletesScriptAndLedger(t *testing.T) {
	led := seededLedger()
	seq := fastSeq(led, Hooks{})
	sess := session.New()
	seq.Run(sess, twoTurnScript())

	if seq.State() != StateCompleted {
		t.Fatalf("state = %v, want completed", seq.State())
	}
	if !sess.Completed() {
		t.Fatalf("completed run must mark the session finished")
	}
	entries := seq.Transcript()
	if len(entries) != 2 {
		t.Fatalf("transcript entries = %d, want 2", len(entries))
	}
	if entries[0].Text != "What is the annual maximum?" || entries[1].Text != "It is 42." {
		t.Fatalf("transcript out of order: %+v", entries)
	}
	verified := led.View(ledger.FilterVerified)
	if len(verified) != 1 || verified[0].Code != "X" || verified[0].ObtainedValue != "42" || verified[0].Missing != "N" {
		t.Fatalf("verified view: %+v", verified)
	}
}

func TestRun_TypedPartialsGrowToFullText(t *testing.T) {
	led := seededLedger()
	var mu sync.Mutex
	var partials []string
	seq := fastSeq(led, Hooks{OnPartial: func(_ script.Speaker, p string) {
		mu.Lock()
		partials = append(partials, p)
		mu.Unlock()
	}})
	seq.Run(session.New(), []script.Action{
		{Turn: &script.Turn{Speaker: script.SpeakerAgent, Text: "Hi."}},
	})
	mu.Lock()
	defer mu.Unlock()
	if len(partials) != 3 || partials[2] != "Hi." {
		t.Fatalf("partials: %v", partials)
	}
	for i := 1; i < len(partials); i++ {
		if len(partials[i]) <= len(partials[i-1]) {
			t.Fatalf("partials not strictly growing: %v", partials)
		}
	}
}

func TestRun_CancelMidScriptStopsOutput(t *testing.T) {
	led := seededLedger()
	sess := session.New()
	entryCh := make(chan Entry, 8)
	seq := fastSeq(led, Hooks{OnEntry: func(e Entry) { entryCh <- e }})

	done := make(chan struct{})
	go func() { seq.Run(sess, twoTurnScript()); close(done) }()

	// End the call after turn 1 commits, before turn 2's field write.
	<-entryCh
	sess.End()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not stop after End")
	}
	if seq.State() != StateCancelled {
		t.Fatalf("state = %v, want cancelled", seq.State())
	}
	if sess.Completed() {
		t.Fatalf("cancelled run must not mark the session completed")
	}
	if got := len(seq.Transcript()); got != 1 {
		t.Fatalf("transcript entries after cancel = %d, want 1", got)
	}
	if rec := led.View(ledger.FilterAll)[0]; rec.Missing != "Y" || rec.ObtainedValue != "" {
		t.Fatalf("ledger written after cancel: %+v", rec)
	}
}

func TestRun_CancelBeforeStartEmitsNothing(t *testing.T) {
	led := seededLedger()
	sess := session.New()
	sess.End()
	seq := fastSeq(led, Hooks{})
	seq.Run(sess, twoTurnScript())
	if seq.State() != StateCancelled {
		t.Fatalf("state = %v, want cancelled", seq.State())
	}
	if len(seq.Transcript()) != 0 {
		t.Fatalf("transcript written on dead session")
	}
}

func TestRun_MissingNeverReverts(t *testing.T) {
	led := ledger.New(ledger.WithUpdateWindow(time.Millisecond))
	led.Seed([]ledger.Record{
		{Code: "A", Missing: "Y"},
		{Code: "B", Missing: "N", VerifiedBy: ledger.VerifiedByAPI},
	})
	actions := []script.Action{
		{Turn: &script.Turn{Speaker: script.SpeakerRep, Text: "a"}, Write: &script.FieldWrite{Code: "A", Value: "1", VerifiedBy: ledger.VerifiedByCall}},
		{Turn: &script.Turn{Speaker: script.SpeakerRep, Text: "b"}, Write: &script.FieldWrite{Code: "A", Value: "2", VerifiedBy: ledger.VerifiedByCall}},
	}
	seq := fastSeq(led, Hooks{})
	seq.Run(session.New(), actions)
	for _, r := range led.View(ledger.FilterAll) {
		if r.Missing == "Y" && r.Code == "A" {
			t.Fatalf("A reverted to missing")
		}
	}
}

func TestRun_SpeakerHookBracketsEachTurn(t *testing.T) {
	led := seededLedger()
	type ev struct {
		sp script.Speaker
		on bool
	}
	var mu sync.Mutex
	var evs []ev
	seq := fastSeq(led, Hooks{OnSpeaker: func(sp script.Speaker, on bool) {
		mu.Lock()
		evs = append(evs, ev{sp, on})
		mu.Unlock()
	}})
	seq.Run(session.New(), twoTurnScript())
	mu.Lock()
	defer mu.Unlock()
	if len(evs) != 4 {
		t.Fatalf("speaker events = %d, want 4", len(evs))
	}
	want := []ev{
		{script.SpeakerAgent, true}, {script.SpeakerAgent, false},
		{script.SpeakerRep, true}, {script.SpeakerRep, false},
	}
	for i := range want {
		if evs[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, evs[i], want[i])
		}
	}
}

func TestRun_CheckingMarkedDuringQuestion(t *testing.T) {
	led := seededLedger()
	seenChecking := make(chan bool, 1)
	seq := fastSeq(led, Hooks{OnEntry: func(e Entry) {
		if e.Speaker == script.SpeakerAgent {
			for _, r := range led.View(ledger.FilterAll) {
				if r.Code == "X" {
					select {
					case seenChecking <- r.IsChecking:
					default:
					}
				}
			}
		}
	}})
	seq.Run(session.New(), twoTurnScript())
	select {
	case on := <-seenChecking:
		if !on {
			t.Fatalf("field not marked checking while its question rendered")
		}
	default:
		t.Fatalf("agent turn never observed")
	}
}
