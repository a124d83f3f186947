// Package animator schedules the visual lifecycle of a just-verified field:
// immediate highlight, delayed badge reveal, delayed move-out, then removal
// from the "just verified" overlay. Timer chains are keyed by field code and
// replaced atomically so a re-verified field never sees a stale timer fire.
package animator

import (
	"sync"
	"time"
)

// Phase is where a field currently sits in its post-verification animation.
type Phase string

const (
	PhaseHighlight Phase = "highlight"
	PhaseBadge     Phase = "badge"
	PhaseLeaving   Phase = "leaving"
)

// Default offsets from the moment of the write.
const (
	DefaultBadgeAt  = 800 * time.Millisecond
	DefaultMoveAt   = 3800 * time.Millisecond
	DefaultRemoveAt = 5 * time.Second
)

// State is one field's position in the overlay.
type State struct {
	Code  string `json:"code"`
	Phase Phase  `json:"phase"`
}

type chain struct {
	gen    uint64
	phase  Phase
	timers []*time.Timer
}

// Animator owns the overlay set and its timers. These timers deliberately
// outlive session cancellation (the tail of a highlight is cosmetic and
// bounded) but Close stops everything on view teardown.
type Animator struct {
	mu     sync.Mutex
	chains map[string]*chain
	gen    uint64
	closed bool

	badgeAt, moveAt, removeAt time.Duration
	onChange                  func()
}

// Option adjusts timings; tests compress them.
type Option func(*Animator)

func WithTimings(badgeAt, moveAt, removeAt time.Duration) Option {
	return func(a *Animator) {
		a.badgeAt, a.moveAt, a.removeAt = badgeAt, moveAt, removeAt
	}
}

func New(opts ...Option) *Animator {
	a := &Animator{
		chains:   make(map[string]*chain),
		badgeAt:  DefaultBadgeAt,
		moveAt:   DefaultMoveAt,
		removeAt: DefaultRemoveAt,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// OnChange registers a hook invoked after any overlay transition, used to
// push overlay snapshots to the event stream.
func (a *Animator) OnChange(fn func()) {
	a.mu.Lock()
	a.onChange = fn
	a.mu.Unlock()
}

// Notify starts (or restarts) the animation chain for code. A prior chain
// for the same code is cancelled in full before the new one is scheduled.
func (a *Animator) Notify(code string) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	if old, ok := a.chains[code]; ok {
		for _, t := range old.timers {
			t.Stop()
		}
	}
	a.gen++
	c := &chain{gen: a.gen, phase: PhaseHighlight}
	c.timers = []*time.Timer{
		time.AfterFunc(a.badgeAt, func() { a.advance(code, c.gen, PhaseBadge) }),
		time.AfterFunc(a.moveAt, func() { a.advance(code, c.gen, PhaseLeaving) }),
		time.AfterFunc(a.removeAt, func() { a.remove(code, c.gen) }),
	}
	a.chains[code] = c
	hook := a.onChange
	a.mu.Unlock()
	if hook != nil {
		hook()
	}
}

// advance moves a chain to the next phase, unless a newer chain replaced it.
func (a *Animator) advance(code string, gen uint64, p Phase) {
	a.mu.Lock()
	c, ok := a.chains[code]
	if !ok || c.gen != gen || a.closed {
		a.mu.Unlock()
		return
	}
	c.phase = p
	hook := a.onChange
	a.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (a *Animator) remove(code string, gen uint64) {
	a.mu.Lock()
	c, ok := a.chains[code]
	if !ok || c.gen != gen || a.closed {
		a.mu.Unlock()
		return
	}
	delete(a.chains, code)
	hook := a.onChange
	a.mu.Unlock()
	if hook != nil {
		hook()
	}
}

// Overlay returns a snapshot of the fields currently animating.
func (a *Animator) Overlay() []State {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]State, 0, len(a.chains))
	for code, c := range a.chains {
		out = append(out, State{Code: code, Phase: c.phase})
	}
	return out
}

// PendingTimers reports how many chains are live, for leak checks.
func (a *Animator) PendingTimers() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.chains)
}

// Close cancels every chain. The animator accepts no further notifications.
func (a *Animator) Close() {
	a.mu.Lock()
	a.closed = true
	for _, c := range a.chains {
		for _, t := range c.timers {
			t.Stop()
		}
	}
	a.chains = make(map[string]*chain)
	a.mu.Unlock()
}
