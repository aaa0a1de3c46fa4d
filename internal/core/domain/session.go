package domain

import "time"

// Identity is the user profile cached next to the bearer token. Its JSON form
// is what the session store persists.
type Identity struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	ProfilePic string `json:"profilePic,omitempty"`
}

// Session is an authenticated identity plus its bearer token. Both halves are
// persisted together or not at all.
type Session struct {
	Token    string
	Identity Identity
}

// Complete reports whether both halves of the session are present.
func (s Session) Complete() bool {
	return s.Token != "" && s.Identity.ID != ""
}

// AuthState is the orchestrator's view of the session lifecycle.
type AuthState int

const (
	StateAnonymous AuthState = iota
	StateAuthenticating
	StateAuthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// ProfilePicUpdate is broadcast by the session store whenever the stored
// identity's picture changes.
type ProfilePicUpdate struct {
	ProfilePic string    `json:"profilePic"`
	At         time.Time `json:"at"`
}
