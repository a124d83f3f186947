// Package typewriter reveals fixed text one rune at a time on a steady
// cadence. It is used both for "typing" a spoken line in the simulated call
// and for streaming the fax analysis report.
package typewriter

import "time"

// DefaultStep is the per-rune cadence used by the call transcript.
const DefaultStep = 30 * time.Millisecond

// Delayer gates each tick of a render. The session handle satisfies this;
// its error return is how cancellation reaches the renderer without the
// renderer knowing anything about sessions.
type Delayer interface {
	Delay(d time.Duration) error
}

// Render emits strictly growing rune-prefixes of text, calling onPartial
// once per tick until the full text has been delivered, then returns nil.
// The delay runs before each emission, so once the Delayer starts returning
// an error no further partial is delivered. A fresh call always restarts
// from the empty prefix.
func Render(text string, step time.Duration, d Delayer, onPartial func(partial string)) error {
	runes := []rune(text)
	for i := 1; i <= len(runes); i++ {
		if err := d.Delay(step); err != nil {
			return err
		}
		if onPartial != nil {
			onPartial(string(runes[:i]))
		}
	}
	return nil
}
