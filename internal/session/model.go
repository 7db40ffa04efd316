package session

import "github.com/rxstock/rxdash/internal/api"

// Session is the current authentication state. The caller is authenticated
// iff Token is non-empty.
type Session struct {
	Token string
	User  *api.Profile
}

// Authenticated reports whether a token is held.
func (s Session) Authenticated() bool {
	return s.Token != ""
}
