package commsutil

import (
	"fmt"
	"strings"
)

// Default COMMS subjects.
const (
	SubjectDispatched    = "skill.dispatched"
	SubjectDispatchedAll = "skill.dispatched.>"
)

// BuildDispatchedSubject builds the per-kind dispatch event subject, e.g.
// "skill.dispatched.intent". A non-empty base overrides SubjectDispatched.
func BuildDispatchedSubject(base, kind string) string {
	if base == "" {
		base = SubjectDispatched
	}
	return fmt.Sprintf("%s.%s", base, sanitizeToken(kind))
}

// sanitizeToken makes s safe for use as a single subject token.
func sanitizeToken(s string) string {
	if s == "" {
		return "unknown"
	}
	return strings.NewReplacer(".", "_", " ", "_", "*", "_", ">", "_").Replace(s)
}
