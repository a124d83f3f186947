package httpserver

import (
	"sync"
	"time"

	"github.com/ricky2013dev/smithpjt-verify/internal/animator"
	"github.com/ricky2013dev/smithpjt-verify/internal/config"
	"github.com/ricky2013dev/smithpjt-verify/internal/faxflow"
	"github.com/ricky2013dev/smithpjt-verify/internal/ledger"
	"github.com/ricky2013dev/smithpjt-verify/internal/script"
	"github.com/ricky2013dev/smithpjt-verify/internal/sequencer"
	"github.com/ricky2013dev/smithpjt-verify/internal/session"
	"github.com/ricky2013dev/smithpjt-verify/internal/speech"
	"github.com/ricky2013dev/smithpjt-verify/pkg/log"
)

// callRuntime bundles everything owned by one call session.
type callRuntime struct {
	sess *session.Session
	seq  *sequencer.Sequencer
	led  *ledger.Ledger
	anim *animator.Animator
	hub  *hub
}

// Manager owns the active call and fax runs. One call session and one fax
// flow at a time; starting a new one discards the prior.
type Manager struct {
	cfg config.Config

	typeStep time.Duration // overridable for tests
	delayCap time.Duration

	mu   sync.Mutex
	call *callRuntime

	fax    *faxflow.Controller
	faxHub *hub
	faxID  string
}

func NewManager(cfg config.Config) *Manager {
	m := &Manager{cfg: cfg, faxHub: newHub()}
	m.fax = faxflow.New(faxflow.Hooks{
		OnStep: func(i int, st faxflow.Status) {
			m.faxHub.publish(Event{Type: "flow_step", Step: i, Status: string(st)})
		},
		OnReportPartial: func(p string) {
			m.faxHub.publish(Event{Type: "report_partial", Text: p})
		},
		OnDone: func() {
			m.faxHub.publish(Event{Type: "state", State: "completed"})
		},
	})
	return m
}

// StartCall begins a fresh call session, tearing down any prior one, and
// returns its id.
func (m *Manager) StartCall() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownCallLocked()

	h := newHub()
	led := ledger.New()
	led.Seed(script.VerificationSeed())
	anim := animator.New()
	anim.OnChange(func() { h.publish(Event{Type: "overlay", Overlay: anim.Overlay()}) })
	led.OnWrite(func(code string) {
		anim.Notify(code)
		h.publish(Event{Type: "field", Records: led.View(ledger.FilterAll)})
	})

	var synth speech.Synthesizer
	if m.cfg.SpeechEnabled {
		synth = speech.NewElevenLabsSynthesizer(m.cfg.ElevenLabsAPIKey, hubSink{h})
	}
	ch := speech.NewChannel(synth, m.cfg.SpeechEnabled)

	sess := session.New()
	hooks := sequencer.Hooks{
		OnPartial: func(sp script.Speaker, p string) {
			h.publish(Event{Type: "partial", Speaker: sp, Text: p})
		},
		OnSpeaker: func(sp script.Speaker, on bool) {
			h.publish(Event{Type: "speaker", Speaker: sp, On: on})
		},
		OnEntry: func(e sequencer.Entry) {
			h.publish(Event{Type: "entry", Speaker: e.Speaker, Text: e.Text})
		},
		OnState: func(st sequencer.State) {
			h.publish(Event{Type: "state", State: string(st)})
		},
	}
	opts := []sequencer.Option{}
	if m.typeStep > 0 {
		opts = append(opts, sequencer.WithTypeStep(m.typeStep))
	}
	if m.delayCap > 0 {
		opts = append(opts, sequencer.WithPostDelayCap(m.delayCap))
	}
	seq := sequencer.New(led, ch, hooks, opts...)

	rt := &callRuntime{sess: sess, seq: seq, led: led, anim: anim, hub: h}
	m.call = rt
	go seq.Run(sess, script.VerificationCall())
	log.Info(log.Fields{"session": sess.ID}, "call session started")
	return sess.ID
}

// EndCall cancels the call session with the given id. Unknown ids are a
// no-op, as is ending an already-ended session.
func (m *Manager) EndCall(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.call == nil || m.call.sess.ID != id {
		return false
	}
	m.call.sess.End()
	log.Info(log.Fields{"session": id}, "call session ended")
	return true
}

// teardownCallLocked discards the previous call runtime entirely: session,
// ledger, and the animator's cosmetic timers.
func (m *Manager) teardownCallLocked() {
	if m.call == nil {
		return
	}
	m.call.sess.End()
	m.call.anim.Close()
	m.call.led.Close()
	m.call = nil
}

// StartFax begins the fax-analysis flow and returns its session id.
func (m *Manager) StartFax() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := m.fax.Start(script.FaxReport)
	m.faxID = sess.ID
	log.Info(log.Fields{"session": sess.ID}, "fax flow started")
	return sess.ID
}

// ResetFax cancels and zeroes the fax flow.
func (m *Manager) ResetFax(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.faxID != id {
		return false
	}
	m.fax.Reset()
	m.faxID = ""
	return true
}

// attach resolves a session id, subscribes a viewer, and then captures the
// snapshot, in that order: an event published in between lands in both (a
// duplicate the dashboard tolerates) rather than in neither.
func (m *Manager) attach(id string) (*hub, chan message, []Event, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.call != nil && m.call.sess.ID == id {
		rt := m.call
		sub := rt.hub.subscribe()
		snap := []Event{
			{Type: "state", State: string(rt.seq.State())},
			{Type: "field", Records: rt.led.View(ledger.FilterAll)},
			{Type: "overlay", Overlay: rt.anim.Overlay()},
		}
		for _, e := range rt.seq.Transcript() {
			snap = append(snap, Event{Type: "entry", Speaker: e.Speaker, Text: e.Text})
		}
		return rt.hub, sub, snap, true
	}
	if m.faxID == id {
		sub := m.faxHub.subscribe()
		steps := m.fax.Steps()
		snap := make([]Event, 0, 4)
		for i, st := range steps {
			snap = append(snap, Event{Type: "flow_step", Step: i + 1, Status: string(st)})
		}
		if r := m.fax.Rendered(); r != "" {
			snap = append(snap, Event{Type: "report_partial", Text: r})
		}
		return m.faxHub, sub, snap, true
	}
	return nil, nil, nil, false
}

// CallSummary reports the current call session for the REST surface.
type CallSummary struct {
	Session   string            `json:"session"`
	State     sequencer.State   `json:"state"`
	Elapsed   float64           `json:"elapsedSeconds"`
	Missing   int               `json:"missing"`
	Verified  int               `json:"verified"`
	Entries   []sequencer.Entry `json:"entries"`
	Completed bool              `json:"completed"`
}

// Summary snapshots the call with the given id.
func (m *Manager) Summary(id string) (CallSummary, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.call == nil || m.call.sess.ID != id {
		return CallSummary{}, false
	}
	missing, verified := m.call.led.Counts()
	return CallSummary{
		Session:   id,
		State:     m.call.seq.State(),
		Elapsed:   m.call.sess.Elapsed().Seconds(),
		Missing:   missing,
		Verified:  verified,
		Entries:   m.call.seq.Transcript(),
		Completed: m.call.sess.Completed(),
	}, true
}

// Ledger returns the call's ledger projection for the form tabs.
func (m *Manager) Ledger(id string, f ledger.Filter) ([]ledger.Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.call == nil || m.call.sess.ID != id {
		return nil, false
	}
	return m.call.led.View(f), true
}

// Close tears everything down. Used on server shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownCallLocked()
	m.fax.Reset()
}
