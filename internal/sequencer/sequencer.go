// Package sequencer walks a scripted call: for each action it marks the
// field being checked, renders the line typed and spoken together, appends
// the finished line to the transcript, lands any field value in the ledger,
// then waits out the turn's pause. Ending the session stops all of it at the
// next suspension point.
package sequencer

import (
	"errors"
	"sync"
	"time"

	"github.com/ricky2013dev/smithpjt-verify/internal/ledger"
	"github.com/ricky2013dev/smithpjt-verify/internal/script"
	"github.com/ricky2013dev/smithpjt-verify/internal/session"
	"github.com/ricky2013dev/smithpjt-verify/internal/speech"
	"github.com/ricky2013dev/smithpjt-verify/internal/typewriter"
	"github.com/ricky2013dev/smithpjt-verify/pkg/log"
)

// State of one sequencer run.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
)

// Entry is one completed transcript line. Appended only after the line's
// typed render finishes; never mutated afterwards.
type Entry struct {
	Speaker    script.Speaker `json:"speaker"`
	Text       string         `json:"text"`
	RenderedAt time.Time      `json:"renderedAt"`
}

// Hooks are the sequencer's outbound notifications. All are optional and
// invoked from the run goroutine.
type Hooks struct {
	OnPartial func(sp script.Speaker, partial string)
	OnSpeaker func(sp script.Speaker, speaking bool)
	OnEntry   func(e Entry)
	OnState   func(s State)
}

// Sequencer drives one scripted call against a ledger and speech channel.
type Sequencer struct {
	led      *ledger.Ledger
	ch       *speech.Channel
	hooks    Hooks
	step     time.Duration
	delayCap time.Duration

	mu     sync.Mutex
	state  State
	script []script.Action
	log    []Entry
}

// Option adjusts the sequencer; tests compress the typing cadence.
type Option func(*Sequencer)

func WithTypeStep(d time.Duration) Option {
	return func(s *Sequencer) { s.step = d }
}

// WithPostDelayCap clamps every turn's authored post-delay, letting tests
// drive a full script in real time without fake clocks.
func WithPostDelayCap(d time.Duration) Option {
	return func(s *Sequencer) { s.delayCap = d }
}

// New builds a sequencer over the given ledger and speech channel.
func New(led *ledger.Ledger, ch *speech.Channel, hooks Hooks, opts ...Option) *Sequencer {
	if ch == nil {
		ch = speech.NewChannel(nil, false)
	}
	s := &Sequencer{led: led, ch: ch, hooks: hooks, step: typewriter.DefaultStep, state: StateIdle}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns the run state.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns a copy of the completed entries in order.
func (s *Sequencer) Transcript() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.log))
	copy(out, s.log)
	return out
}

func (s *Sequencer) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	if s.hooks.OnState != nil {
		s.hooks.OnState(st)
	}
}

func roleFor(sp script.Speaker) speech.Role {
	if sp == script.SpeakerRep {
		return speech.RoleCounterpart
	}
	return speech.RoleAgent
}

// Run executes actions in order until the script ends or sess is ended.
// Cancellation is a normal stop: Run returns nil either way and the state
// reports Completed or Cancelled. Only Completed marks the session finished.
func (s *Sequencer) Run(sess *session.Session, actions []script.Action) {
	s.setState(StateRunning)
	err := s.run(sess, actions)
	switch {
	case err == nil:
		sess.Complete()
		s.setState(StateCompleted)
	case errors.Is(err, session.ErrSessionEnded):
		s.ch.Cancel()
		s.setState(StateCancelled)
	default:
		// Unexpected errors stop the run but never crash the process.
		log.Error(log.Fields{"session": sess.ID, "err": err}, "call script aborted")
		s.ch.Cancel()
		s.setState(StateCancelled)
	}
}

func (s *Sequencer) run(sess *session.Session, actions []script.Action) error {
	for _, a := range actions {
		if !sess.Active() {
			return session.ErrSessionEnded
		}
		if a.Check != "" {
			s.led.MarkChecking(a.Check)
		}
		if a.Turn != nil {
			if err := s.renderTurn(sess, a.Turn); err != nil {
				return err
			}
		}
		if a.Write != nil {
			if !sess.Active() {
				return session.ErrSessionEnded
			}
			s.led.WriteValue(a.Write.Code, a.Write.Value, a.Write.VerifiedBy)
		}
		if a.Turn != nil && a.Turn.PostDelay > 0 {
			d := a.Turn.PostDelay
			if s.delayCap > 0 && d > s.delayCap {
				d = s.delayCap
			}
			if err := sess.Delay(d); err != nil {
				return err
			}
		}
	}
	return nil
}

// renderTurn types and speaks one line concurrently, then commits it to the
// transcript. The turn is not complete until both the typed render and the
// speech promise have settled; speech is best-effort and cannot fail the turn.
func (s *Sequencer) renderTurn(sess *session.Session, t *script.Turn) error {
	if s.hooks.OnSpeaker != nil {
		s.hooks.OnSpeaker(t.Speaker, true)
	}

	spoken := make(chan struct{})
	go func() {
		defer close(spoken)
		s.ch.Speak(sess.Context(), roleFor(t.Speaker), t.Text)
	}()

	err := typewriter.Render(t.Text, s.step, sess, func(p string) {
		if s.hooks.OnPartial != nil {
			s.hooks.OnPartial(t.Speaker, p)
		}
	})
	if err != nil {
		s.ch.Cancel()
	}
	<-spoken

	if s.hooks.OnSpeaker != nil {
		s.hooks.OnSpeaker(t.Speaker, false)
	}
	if err != nil {
		return err
	}

	e := Entry{Speaker: t.Speaker, Text: t.Text, RenderedAt: time.Now()}
	s.mu.Lock()
	s.log = append(s.log, e)
	s.mu.Unlock()
	if s.hooks.OnEntry != nil {
		s.hooks.OnEntry(e)
	}
	return nil
}
