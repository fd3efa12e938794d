// Package access decides whether an acting identity may view or edit a
// buyer record. Callers must surface a denial as a not-found outcome so
// record existence is never leaked to unauthorized parties.
package access

import "strings"

// Mode is the kind of access being requested.
type Mode string

const (
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)

// Guard evaluates record-level access. The administrator email comes from
// out-of-band configuration and has full access to every record.
type Guard struct {
	adminEmail string
}

// NewGuard creates a guard for the configured administrator email.
// An empty admin email disables the admin override entirely.
func NewGuard(adminEmail string) *Guard {
	return &Guard{adminEmail: strings.ToLower(strings.TrimSpace(adminEmail))}
}

// CanAccess reports whether actorEmail may access a record whose contact
// email is recordEmail (nil when the record has none). Access is granted to
// the administrator or when the actor's email matches the record's email,
// both case-insensitively. A record without an email can only be accessed
// by the administrator. Both modes share the same policy today; the mode
// parameter keeps the call sites explicit about intent.
func (g *Guard) CanAccess(actorEmail string, recordEmail *string, _ Mode) bool {
	actor := strings.ToLower(strings.TrimSpace(actorEmail))
	if actor == "" {
		return false
	}

	if g.adminEmail != "" && actor == g.adminEmail {
		return true
	}

	if recordEmail == nil || *recordEmail == "" {
		return false
	}

	return actor == strings.ToLower(strings.TrimSpace(*recordEmail))
}
