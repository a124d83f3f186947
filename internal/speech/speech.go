// Package speech renders a line of dialogue as audio alongside its typed
// transcript. Synthesis is best-effort: failures degrade to typed-only
// rendering and never hold up or fail the turn beyond their own return.
package speech

import (
	"context"
	"sync"

	"github.com/ricky2013dev/smithpjt-verify/pkg/log"
)

// Role selects a voice profile for one side of the simulated call.
type Role string

const (
	RoleAgent       Role = "agent"
	RoleCounterpart Role = "counterpart"
)

// Profile is the voice configuration applied to an utterance.
type Profile struct {
	VoiceID string
	Pitch   float64
	Rate    float64
}

var profiles = map[Role]Profile{
	RoleAgent:       {VoiceID: "21m00Tcm4TlvDq8ikWAM", Pitch: 1.0, Rate: 1.0},
	RoleCounterpart: {VoiceID: "TxGEqnHWrfWFTfGW9XjX", Pitch: 0.9, Rate: 0.95},
}

// ProfileFor returns the voice profile for a role, defaulting to the agent's.
func ProfileFor(role Role) Profile {
	if p, ok := profiles[role]; ok {
		return p
	}
	return profiles[RoleAgent]
}

// Synthesizer produces audible output for one utterance. Implementations
// must honor ctx cancellation promptly.
type Synthesizer interface {
	Speak(ctx context.Context, text string, p Profile) error
}

// Noop is the headless synthesizer: it resolves immediately.
type Noop struct{}

func (Noop) Speak(context.Context, string, Profile) error { return nil }

// Channel serializes utterances over one synthesizer. Starting a new
// utterance cancels the in-flight one; disabling the channel cancels
// in-flight synthesis and turns subsequent calls into no-ops.
type utterance struct {
	cancel context.CancelFunc
}

type Channel struct {
	synth Synthesizer

	mu      sync.Mutex
	enabled bool
	current *utterance
}

// NewChannel wraps a synthesizer; a nil synthesizer means headless.
func NewChannel(s Synthesizer, enabled bool) *Channel {
	if s == nil {
		s = Noop{}
	}
	return &Channel{synth: s, enabled: enabled}
}

// Enabled reports whether the channel will produce audio.
func (c *Channel) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// SetEnabled toggles audio output. Disabling mid-session silences the
// in-flight utterance as well.
func (c *Channel) SetEnabled(on bool) {
	c.mu.Lock()
	c.enabled = on
	cur := c.current
	c.mu.Unlock()
	if !on && cur != nil {
		cur.cancel()
	}
}

// Cancel stops the in-flight utterance, if any.
func (c *Channel) Cancel() {
	c.mu.Lock()
	cur := c.current
	c.mu.Unlock()
	if cur != nil {
		cur.cancel()
	}
}

// Speak renders text with the role's profile and blocks until the utterance
// finishes, errors, or ctx is cancelled. Synthesis errors are logged and
// swallowed; the transcript must never wait on or surface them.
func (c *Channel) Speak(ctx context.Context, role Role, text string) {
	c.mu.Lock()
	if !c.enabled {
		c.mu.Unlock()
		return
	}
	if c.current != nil {
		c.current.cancel()
	}
	utterCtx, cancel := context.WithCancel(ctx)
	u := &utterance{cancel: cancel}
	c.current = u
	c.mu.Unlock()

	err := c.synth.Speak(utterCtx, text, ProfileFor(role))

	cancel()
	c.mu.Lock()
	if c.current == u {
		c.current = nil
	}
	c.mu.Unlock()

	if err != nil && utterCtx.Err() == nil {
		log.Warn(log.Fields{"role": role, "err": err}, "speech synthesis failed; continuing typed-only")
	}
}
