package ports

import (
	"context"

	"github.com/jobportal/portal/internal/core/domain"
)

// KeyValueStore is the durable string storage a session store sits on. Get
// reports ok=false for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// TokenSource is the read-only view the HTTP client wrappers need.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Subscription delivers profile-picture updates until closed.
type Subscription interface {
	Updates() <-chan domain.ProfilePicUpdate
	Close() error
}

// SessionStore persists the bearer token and the identity. Token returns ""
// and UserData returns nil when nothing usable is stored.
type SessionStore interface {
	TokenSource

	SetToken(ctx context.Context, token string) error
	RemoveToken(ctx context.Context) error

	SetUserData(ctx context.Context, identity domain.Identity) error
	UserData(ctx context.Context) (*domain.Identity, error)
	RemoveUserData(ctx context.Context) error

	IsAuthenticated(ctx context.Context) bool
	// Snapshot returns token and identity as written by the same Save.
	Snapshot(ctx context.Context) (token string, identity *domain.Identity, err error)

	// Save writes token and identity together; on failure the store is left
	// as it was.
	Save(ctx context.Context, session domain.Session) error
	// UpdateUserData applies mutate to the stored identity. It is a no-op
	// returning nil when no identity is stored.
	UpdateUserData(ctx context.Context, mutate func(*domain.Identity)) (*domain.Identity, error)
	// Clear removes both keys.
	Clear(ctx context.Context) error

	Subscribe() Subscription
	Ping(ctx context.Context) error
}
