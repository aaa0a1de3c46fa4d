// Package session persists the authenticated identity and its bearer token
// on top of a pluggable key/value backend, and broadcasts profile-picture
// changes to subscribed shells.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
	"github.com/jobportal/portal/internal/infrastructure/crypto"
)

// Keys under which the session is persisted.
const (
	TokenKey = "jobportal_token"
	UserKey  = "jobportal_user"
)

// Store implements ports.SessionStore.
type Store struct {
	kv     ports.KeyValueStore
	cipher *crypto.Cipher
	log    zerolog.Logger
	now    func() time.Time

	// mu guards the token/identity pair. Writers hold it across both keys,
	// readers share it, so nobody observes half of a Save.
	mu sync.RWMutex

	hub *hub
}

// NewStore wraps kv. A nil cipher stores the token in clear text.
func NewStore(kv ports.KeyValueStore, cipher *crypto.Cipher, log zerolog.Logger) *Store {
	return &Store{
		kv:     kv,
		cipher: cipher,
		log:    log.With().Str("component", "session_store").Logger(),
		now:    time.Now,
		hub:    newHub(defaultSubscriberBuffer),
	}
}

// SetToken persists token.
func (s *Store) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeToken(ctx, token)
}

// Token returns the stored token or "" when none is stored. A value that
// cannot be decrypted is treated as absent.
func (s *Store) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readToken(ctx)
}

func (s *Store) readToken(ctx context.Context) (string, error) {
	raw, ok, err := s.kv.Get(ctx, TokenKey)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	if !ok || raw == "" {
		return "", nil
	}

	token, err := s.cipher.Open(raw)
	if err != nil {
		s.log.Warn().Err(err).Msg("stored token unreadable, treating session as empty")
		return "", nil
	}
	return token, nil
}

// RemoveToken deletes the token.
func (s *Store) RemoveToken(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(ctx, TokenKey)
}

// SetUserData persists identity.
func (s *Store) SetUserData(ctx context.Context, identity domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.readUser(ctx)
	if err != nil {
		return err
	}
	if err := s.writeUser(ctx, identity); err != nil {
		return err
	}
	s.notify(prev, &identity)
	return nil
}

// UserData returns the stored identity, or nil when nothing is stored or the
// stored value does not parse.
func (s *Store) UserData(ctx context.Context) (*domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readUser(ctx)
}

// RemoveUserData deletes the identity.
func (s *Store) RemoveUserData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(ctx, UserKey)
}

// IsAuthenticated reports whether a token is present. It does not check
// freshness or signature.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	token, err := s.Token(ctx)
	return err == nil && token != ""
}

// Snapshot reads token and identity under one lock, so both belong to the
// same Save. Either may be empty.
func (s *Store) Snapshot(ctx context.Context) (string, *domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, err := s.readToken(ctx)
	if err != nil {
		return "", nil, err
	}
	identity, err := s.readUser(ctx)
	if err != nil {
		return "", nil, err
	}
	return token, identity, nil
}

// Save writes identity then token. When the token write fails the previous
// identity is put back so the pair never goes out of step.
func (s *Store) Save(ctx context.Context, sess domain.Session) error {
	if !sess.Complete() {
		return domain.ErrIncompleteSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prevRaw, hadPrev, err := s.kv.Get(ctx, UserKey)
	if err != nil {
		return fmt.Errorf("read user: %w", err)
	}
	prev := decodeIdentity(prevRaw, hadPrev)

	if err := s.writeUser(ctx, sess.Identity); err != nil {
		return err
	}
	if err := s.writeToken(ctx, sess.Token); err != nil {
		var restoreErr error
		if hadPrev {
			restoreErr = s.kv.Set(ctx, UserKey, prevRaw)
		} else {
			restoreErr = s.kv.Delete(ctx, UserKey)
		}
		if restoreErr != nil {
			s.log.Error().Err(restoreErr).Msg("failed to restore identity after token write failure")
		}
		return err
	}

	s.notify(prev, &sess.Identity)
	return nil
}

// UpdateUserData applies mutate to a copy of the stored identity and writes
// it back.
func (s *Store) UpdateUserData(ctx context.Context, mutate func(*domain.Identity)) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := s.readUser(ctx)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, nil
	}

	next := *prev
	mutate(&next)
	if err := s.writeUser(ctx, next); err != nil {
		return nil, err
	}
	s.notify(prev, &next)
	return &next, nil
}

// Clear removes token and identity. Both deletes are attempted.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return errors.Join(
		s.kv.Delete(ctx, TokenKey),
		s.kv.Delete(ctx, UserKey),
	)
}

// Subscribe registers a listener for profile-picture updates.
func (s *Store) Subscribe() ports.Subscription {
	return s.hub.subscribe()
}

// Ping checks the backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// Close ends every subscription and closes the backend.
func (s *Store) Close() error {
	s.hub.close()
	return s.kv.Close()
}

func (s *Store) writeToken(ctx context.Context, token string) error {
	sealed, err := s.cipher.Seal(token)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}
	if err := s.kv.Set(ctx, TokenKey, sealed); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func (s *Store) readUser(ctx context.Context) (*domain.Identity, error) {
	raw, ok, err := s.kv.Get(ctx, UserKey)
	if err != nil {
		return nil, fmt.Errorf("read user: %w", err)
	}
	identity := decodeIdentity(raw, ok)
	if ok && identity == nil {
		s.log.Warn().Msg("stored user data unparseable, treating as absent")
	}
	return identity, nil
}

func (s *Store) writeUser(ctx context.Context, identity domain.Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.kv.Set(ctx, UserKey, string(raw)); err != nil {
		return fmt.Errorf("write user: %w", err)
	}
	return nil
}

// notify publishes when the picture changed to a non-empty value.
func (s *Store) notify(prev, next *domain.Identity) {
	if next == nil || next.ProfilePic == "" {
		return
	}
	if prev != nil && prev.ProfilePic == next.ProfilePic {
		return
	}
	s.hub.publish(domain.ProfilePicUpdate{ProfilePic: next.ProfilePic, At: s.now().UTC()})
}

func decodeIdentity(raw string, ok bool) *domain.Identity {
	if !ok || raw == "" {
		return nil
	}
	var identity domain.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return nil
	}
	return &identity
}

var _ ports.SessionStore = (*Store)(nil)

// Subscribers reports how many shells are currently listening.
func (s *Store) Subscribers() int {
	return s.hub.count()
}
