package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionEnded is returned from Delay once a session is no longer active.
// Orchestrators treat it as a normal stop signal, never as a failure.
var ErrSessionEnded = errors.New("session ended")

// Session is the cancellation handle for one simulated call or flow run.
// Every timed suspension in a run goes through Delay so that End halts the
// whole chain within one timer tick. The handle is scoped to a single run;
// a new run gets a new Session, so overlapping runs cannot observe each
// other's cancellation.
type Session struct {
	ID        string
	StartedAt time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	ended     bool
	endedAt   time.Time
	completed bool
}

// New creates an active session.
func New() *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Active reports whether the session has not been ended.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.ended
}

// Done exposes the cancellation channel for select-based consumers.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

// Context returns a context cancelled when the session ends. Passed to
// best-effort collaborators such as speech synthesis.
func (s *Session) Context() context.Context { return s.ctx }

// End deactivates the session. Idempotent; ending an ended session is a no-op.
func (s *Session) End() {
	s.mu.Lock()
	if !s.ended {
		s.ended = true
		s.endedAt = time.Now()
	}
	s.mu.Unlock()
	s.cancel()
}

// Complete records that the run reached its final step before ending the
// session. Only the orchestrator's terminal state calls this.
func (s *Session) Complete() {
	s.mu.Lock()
	s.completed = true
	s.mu.Unlock()
	s.End()
}

// Completed reports whether the run finished its script rather than being cancelled.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

// Elapsed returns the session's wall-clock duration, frozen at End.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return s.endedAt.Sub(s.StartedAt)
	}
	return time.Since(s.StartedAt)
}

// Delay suspends for d, returning ErrSessionEnded if the session is inactive
// at call time or becomes inactive before the timer fires. The active check
// is repeated when the timer fires so a cancellation racing the tick still
// stops the chain.
func (s *Session) Delay(d time.Duration) error {
	if !s.Active() {
		return ErrSessionEnded
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		if !s.Active() {
			return ErrSessionEnded
		}
		return nil
	case <-s.ctx.Done():
		return ErrSessionEnded
	}
}
