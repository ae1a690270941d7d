// Package domain defines the core persistence models for the application.
// This file models the publication lifecycle as an explicit transition table
// instead of a free-form status string, so illegal moves (for example
// published → publishing) are rejected before they reach the database.
package domain

// Publication lifecycle states.
const (
	StatusPending    = "pending"    // initial, created with the post
	StatusPublishing = "publishing" // a publish attempt is in flight
	StatusPublished  = "published"  // terminal success
	StatusFailed     = "failed"     // terminal after exhausting retries
)

// publishable lists the states from which a publish trigger may claim a
// publication. Pending covers the first attempt; failed covers the
// operator-initiated retry. Publishing is excluded on purpose: a second
// trigger while a loop is running must be rejected, and published is
// terminal for good.
var publishable = map[string]struct{}{
	StatusPending: {},
	StatusFailed:  {},
}

// CanStartPublish reports whether a publication in the given status may be
// moved into publishing.
func CanStartPublish(status string) bool {
	_, ok := publishable[status]
	return ok
}

// ValidStatus reports whether s is one of the four lifecycle states.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusPublishing, StatusPublished, StatusFailed:
		return true
	}
	return false
}

// TerminalStatus reports whether s is a terminal state. No automatic
// transition leaves a terminal state; only an operator trigger moves
// failed back to publishing.
func TerminalStatus(s string) bool {
	return s == StatusPublished || s == StatusFailed
}
