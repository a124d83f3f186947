// Package faxflow runs the three-step fax-analysis simulation: retrieve the
// document, stream the analysis report, reveal the findings table. Steps are
// strictly sequential and the whole flow resets idempotently.
package faxflow

import (
	"errors"
	"sync"
	"time"

	"github.com/ricky2013dev/smithpjt-verify/internal/script"
	"github.com/ricky2013dev/smithpjt-verify/internal/session"
	"github.com/ricky2013dev/smithpjt-verify/internal/typewriter"
	"github.com/ricky2013dev/smithpjt-verify/pkg/log"
)

// Status of one step.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Step indices. StepRetrieve holds for a fixed duration before revealing the
// document; StepAnalyze streams the report; StepResults is immediate.
const (
	StepRetrieve = 1
	StepAnalyze  = 2
	StepResults  = 3
)

// Hooks are the controller's outbound notifications, all optional.
type Hooks struct {
	OnStep          func(index int, st Status)
	OnReportPartial func(partial string)
	OnDone          func()
}

// Controller drives one fax-analysis run at a time.
type Controller struct {
	hooks Hooks
	hold  time.Duration
	step  time.Duration

	mu       sync.Mutex
	steps    [3]Status
	sess     *session.Session
	rendered string
}

// Option adjusts timings; tests compress them.
type Option func(*Controller)

func WithRetrievalHold(d time.Duration) Option {
	return func(c *Controller) { c.hold = d }
}

func WithTypeStep(d time.Duration) Option {
	return func(c *Controller) { c.step = d }
}

func New(hooks Hooks, opts ...Option) *Controller {
	c := &Controller{
		hooks: hooks,
		hold:  script.FaxRetrievalHold,
		step:  8 * time.Millisecond,
		steps: [3]Status{StatusPending, StatusPending, StatusPending},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Steps returns the current status of all three steps.
func (c *Controller) Steps() [3]Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.steps
}

// Rendered returns the analysis text streamed so far.
func (c *Controller) Rendered() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rendered
}

// Start begins a run on a fresh session and returns it. A run already in
// progress is reset first; only one flow is active at a time.
func (c *Controller) Start(report string) *session.Session {
	c.Reset()
	sess := session.New()
	c.mu.Lock()
	c.sess = sess
	c.mu.Unlock()
	go c.run(sess, report)
	return sess
}

func (c *Controller) run(sess *session.Session, report string) {
	err := c.walk(sess, report)
	if err == nil {
		// A Reset racing the final step replaces c.sess; the run it
		// displaced must not announce completion over zeroed steps.
		c.mu.Lock()
		live := c.sess == sess
		c.mu.Unlock()
		if !live {
			return
		}
		sess.Complete()
		if c.hooks.OnDone != nil {
			c.hooks.OnDone()
		}
		return
	}
	if !errors.Is(err, session.ErrSessionEnded) {
		log.Error(log.Fields{"session": sess.ID, "err": err}, "fax flow aborted")
	}
}

func (c *Controller) walk(sess *session.Session, report string) error {
	c.setStep(sess, StepRetrieve, StatusInProgress)
	if err := sess.Delay(c.hold); err != nil {
		return err
	}
	c.setStep(sess, StepRetrieve, StatusCompleted)

	c.setStep(sess, StepAnalyze, StatusInProgress)
	err := typewriter.Render(report, c.step, sess, func(p string) {
		c.mu.Lock()
		if c.sess == sess {
			c.rendered = p
		}
		c.mu.Unlock()
		if c.hooks.OnReportPartial != nil {
			c.hooks.OnReportPartial(p)
		}
	})
	if err != nil {
		return err
	}
	c.setStep(sess, StepAnalyze, StatusCompleted)

	// The results table is static; the step completes on entry.
	c.setStep(sess, StepResults, StatusInProgress)
	c.setStep(sess, StepResults, StatusCompleted)
	return nil
}

// setStep publishes a step transition, ignoring transitions from a session
// that has been replaced by Reset.
func (c *Controller) setStep(sess *session.Session, index int, st Status) {
	c.mu.Lock()
	if c.sess != sess {
		c.mu.Unlock()
		return
	}
	c.steps[index-1] = st
	c.mu.Unlock()
	if c.hooks.OnStep != nil {
		c.hooks.OnStep(index, st)
	}
}

// Reset cancels any in-flight run and zeroes all steps and rendered text.
// Safe to call at any point, repeatedly.
func (c *Controller) Reset() {
	c.mu.Lock()
	sess := c.sess
	c.sess = nil
	c.steps = [3]Status{StatusPending, StatusPending, StatusPending}
	c.rendered = ""
	c.mu.Unlock()
	if sess != nil {
		sess.End()
	}
}
