// Package session holds the signed-in state of the client and the
// controller that creates, validates and ends it.
package session

import "github.com/naveenspark/bartr/pkg/domain"

// Session is the auth state of the running process. The zero value is
// signed out. Sessions are values: the UI replaces its copy wholesale when
// the Manager returns a new one.
type Session struct {
	Token string
	User  *domain.User
}

// Authenticated reports whether s carries both a token and a user.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// UserID returns the signed-in user's id, or 0 when signed out.
func (s Session) UserID() int {
	if s.User == nil {
		return 0
	}
	return s.User.ID
}

// UserName returns the signed-in user's display name.
func (s Session) UserName() string {
	if s.User == nil {
		return ""
	}
	return s.User.Name
}
