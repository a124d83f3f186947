// Package script holds the declarative data that drives the simulated
// verification call and fax-analysis flow: ordered turn lists, field-update
// tables, ledger seeds, and fixed report text. Engines interpret this data
// and never embed any of it, so a real data source can replace it without
// touching the engines.
package script

import "time"

// Speaker attributes a scripted line of dialogue.
type Speaker string

const (
	SpeakerAgent  Speaker = "agent"  // the AI verification agent
	SpeakerRep    Speaker = "rep"    // the insurance representative
	SpeakerSystem Speaker = "system" // call framing lines (greeting, hold, wrap-up)
)

// Turn is one scripted line: who says it, the text rendered and spoken, and
// the pause that follows it. Immutable; ordering within a script is fixed.
type Turn struct {
	Speaker   Speaker
	Text      string
	PostDelay time.Duration
}

// FieldWrite records a value obtained during the call into the ledger.
type FieldWrite struct {
	Code       string
	Value      string
	VerifiedBy string
}

// Action is one step of a call script. Check (when set) marks a ledger field
// as being checked before the turn renders; Write (when set) lands the
// field's value after the turn completes.
type Action struct {
	Check string
	Turn  *Turn
	Write *FieldWrite
}
