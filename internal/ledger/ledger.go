// Package ledger tracks the verification form being filled in by a simulated
// call or fax: one record per benefit field, keyed by field code.
package ledger

import (
	"sync"
	"time"
)

// Provenance tags for a verified value.
const (
	VerifiedByNone = "-"
	VerifiedByCall = "CALL"
	VerifiedByAPI  = "API"
	VerifiedByFax  = "FAX"
)

// UpdateWindow is how long a record keeps its "just updated" highlight after
// a value is written. The window is cosmetic and runs out even if the call
// ends first.
const UpdateWindow = 1500 * time.Millisecond

// Record is one benefit field on the verification form.
type Record struct {
	Code          string `json:"code"`
	ReferenceCode string `json:"referenceCode"`
	Category      string `json:"category"`
	FieldName     string `json:"fieldName"`
	PriorValue    string `json:"priorValue"`
	Missing       string `json:"missing"` // "Y" or "N"
	ObtainedValue string `json:"obtainedValue"`
	VerifiedBy    string `json:"verifiedBy"`
	IsChecking    bool   `json:"isChecking"`
	IsUpdating    bool   `json:"isUpdating"`
}

// Filter selects a projection of the ledger.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterMissing  Filter = "missing"
	FilterVerified Filter = "verified"
)

// Ledger owns the records for one session. All mutation goes through the
// sequencer; views are copies.
type Ledger struct {
	mu           sync.Mutex
	order        []string
	recs         map[string]*Record
	updateTimers map[string]*time.Timer
	window       time.Duration
	onWrite      func(code string)
	closed       bool
}

// Option adjusts a Ledger at construction. Tests shorten the update window.
type Option func(*Ledger)

func WithUpdateWindow(d time.Duration) Option {
	return func(l *Ledger) { l.window = d }
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		recs:         make(map[string]*Record),
		updateTimers: make(map[string]*time.Timer),
		window:       UpdateWindow,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// OnWrite registers a hook invoked after each successful WriteValue, outside
// the ledger lock. Used to drive the transition animator and event stream.
func (l *Ledger) OnWrite(fn func(code string)) {
	l.mu.Lock()
	l.onWrite = fn
	l.mu.Unlock()
}

// Seed replaces the ledger wholesale. Called once at session start.
func (l *Ledger) Seed(records []Record) {
	l.mu.Lock()
	for _, t := range l.updateTimers {
		t.Stop()
	}
	l.updateTimers = make(map[string]*time.Timer)
	l.order = l.order[:0]
	l.recs = make(map[string]*Record, len(records))
	for _, r := range records {
		rec := r
		if rec.VerifiedBy == "" {
			rec.VerifiedBy = VerifiedByNone
		}
		l.order = append(l.order, rec.Code)
		l.recs[rec.Code] = &rec
	}
	l.mu.Unlock()
}

// MarkChecking flags code as the field currently being checked, clearing the
// flag on every other record so at most one is ever set.
func (l *Ledger) MarkChecking(code string) {
	l.mu.Lock()
	for c, r := range l.recs {
		r.IsChecking = c == code
	}
	l.mu.Unlock()
}

// WriteValue lands a call-obtained value on code: the record stops being
// missing, carries its provenance tag, and holds a transient "just updated"
// highlight that self-clears after the update window regardless of what
// happens to the session. Unknown codes are ignored.
func (l *Ledger) WriteValue(code, value, verifiedBy string) {
	l.mu.Lock()
	rec, ok := l.recs[code]
	if !ok || l.closed {
		l.mu.Unlock()
		return
	}
	rec.ObtainedValue = value
	rec.VerifiedBy = verifiedBy
	rec.Missing = "N"
	rec.IsChecking = false
	rec.IsUpdating = true
	if t, ok := l.updateTimers[code]; ok {
		t.Stop()
	}
	l.updateTimers[code] = time.AfterFunc(l.window, func() {
		l.mu.Lock()
		if r, ok := l.recs[code]; ok && !l.closed {
			r.IsUpdating = false
		}
		delete(l.updateTimers, code)
		l.mu.Unlock()
	})
	hook := l.onWrite
	l.mu.Unlock()
	if hook != nil {
		hook(code)
	}
}

// View returns a copy of the records matching the filter, in seed order.
func (l *Ledger) View(f Filter) []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, 0, len(l.order))
	for _, code := range l.order {
		r := l.recs[code]
		switch f {
		case FilterMissing:
			if r.Missing != "Y" {
				continue
			}
		case FilterVerified:
			if r.Missing != "N" {
				continue
			}
		}
		out = append(out, *r)
	}
	return out
}

// Counts returns how many records are missing and how many are verified.
func (l *Ledger) Counts() (missing, verified int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.recs {
		if r.Missing == "Y" {
			missing++
		} else {
			verified++
		}
	}
	return
}

// Close stops the pending highlight timers. Called on view teardown so no
// timer writes into a discarded ledger.
func (l *Ledger) Close() {
	l.mu.Lock()
	l.closed = true
	for _, t := range l.updateTimers {
		t.Stop()
	}
	l.updateTimers = make(map[string]*time.Timer)
	l.mu.Unlock()
}
