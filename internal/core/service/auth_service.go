package service

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
	"github.com/jobportal/portal/internal/core/validation"
)

const (
	tracerName = "github.com/jobportal/portal/internal/core/service"

	// MaxUploadSize caps avatars and resumes.
	MaxUploadSize = 5 << 20
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// SessionObserver is told about every session transition (login, register,
// logout). It backs the shell's session metrics.
type SessionObserver interface {
	SessionTransition(op string, to domain.AuthState)
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithSessionObserver registers o for session transitions.
func WithSessionObserver(o SessionObserver) AuthOption {
	return func(s *AuthService) { s.observer = o }
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) AuthOption {
	return func(s *AuthService) { s.tracer = tp.Tracer(tracerName) }
}

// AuthService is the only component that moves the session store between
// empty and populated. Failed calls never touch the store.
type AuthService struct {
	api      ports.AuthAPI
	store    ports.SessionStore
	log      zerolog.Logger
	tracer   trace.Tracer
	observer SessionObserver

	// inflight counts login/register calls awaiting the backend.
	inflight atomic.Int64
}

func NewAuthService(api ports.AuthAPI, store ports.SessionStore, log zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		api:    api,
		store:  store,
		log:    log.With().Str("component", "auth_service").Logger(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates against role's endpoint and persists the session.
// Concurrent logins are not serialised: the last one to resolve wins.
func (s *AuthService) Login(ctx context.Context, role domain.Role, creds ports.Credentials) (*domain.Session, error) {
	ctx, span := s.start(ctx, "auth.Login", role)
	defer span.End()

	creds.Email = strings.TrimSpace(creds.Email)
	if err := checkRole(role); err != nil {
		return nil, fail(span, err)
	}
	if err := validation.Struct(creds); err != nil {
		return nil, fail(span, err)
	}

	return s.authenticate(ctx, span, "login", role, func() (*domain.Envelope[*ports.AuthData], error) {
		return s.api.Login(ctx, role, creds)
	})
}

// Register creates an account and, like Login, persists the returned session.
func (s *AuthService) Register(ctx context.Context, role domain.Role, reg ports.Registration) (*domain.Session, error) {
	ctx, span := s.start(ctx, "auth.Register", role)
	defer span.End()

	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	if err := checkRole(role); err != nil {
		return nil, fail(span, err)
	}
	if err := validation.Struct(reg); err != nil {
		return nil, fail(span, err)
	}

	return s.authenticate(ctx, span, "register", role, func() (*domain.Envelope[*ports.AuthData], error) {
		return s.api.Register(ctx, role, reg)
	})
}

func (s *AuthService) authenticate(
	ctx context.Context,
	span trace.Span,
	op string,
	role domain.Role,
	send func() (*domain.Envelope[*ports.AuthData], error),
) (*domain.Session, error) {
	s.inflight.Add(1)
	defer s.inflight.Add(-1)

	env, err := send()
	if err != nil {
		s.log.Debug().Err(err).Str("op", op).Str("role", role.String()).Msg("authentication rejected")
		return nil, fail(span, err)
	}

	sess, err := sessionFrom(env, role)
	if err != nil {
		s.log.Warn().Str("op", op).Str("role", role.String()).Msg("authentication reply without session")
		return nil, fail(span, err)
	}

	if err := s.store.Save(ctx, *sess); err != nil {
		s.log.Error().Err(err).Str("op", op).Msg("persist session")
		return nil, fail(span, domain.AsAPIError(err))
	}

	span.SetAttributes(attribute.String("user.id", sess.Identity.ID))
	s.log.Info().Str("op", op).Str("role", sess.Identity.Role.String()).Str("user_id", sess.Identity.ID).Msg("session established")
	s.transition(op, domain.StateAuthenticated)
	return sess, nil
}

// Logout clears the session. It never fails and is safe to repeat.
func (s *AuthService) Logout(ctx context.Context) {
	_, span := s.start(ctx, "auth.Logout", "")
	defer span.End()

	if err := s.store.Clear(ctx); err != nil {
		span.RecordError(err)
		s.log.Warn().Err(err).Msg("clear session")
	}
	s.transition("logout", domain.StateAnonymous)
}

// State reports Authenticating while any login/register call is pending,
// otherwise whether the store holds a token.
func (s *AuthService) State(ctx context.Context) domain.AuthState {
	if s.inflight.Load() > 0 {
		return domain.StateAuthenticating
	}
	if token, _, err := s.store.Snapshot(ctx); err == nil && token != "" {
		return domain.StateAuthenticated
	}
	return domain.StateAnonymous
}

// CurrentUser returns the stored identity or ErrNotAuthenticated.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.Identity, error) {
	identity, err := s.store.UserData(ctx)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return identity, nil
}

// Profile fetches the full account record for the stored identity's role.
func (s *AuthService) Profile(ctx context.Context) (*domain.Profile, error) {
	identity, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := s.start(ctx, "auth.Profile", identity.Role)
	defer span.End()

	env, err := s.api.Profile(ctx, identity.Role)
	if err != nil {
		return nil, fail(span, err)
	}
	if env == nil || env.Data == nil {
		return nil, fail(span, unexpectedReply(rejection(env)))
	}
	return env.Data, nil
}

// UpdateProfile saves name/email (and password when set) and merges the
// result into the stored identity.
func (s *AuthService) UpdateProfile(ctx context.Context, update ports.ProfileUpdate) (*domain.Identity, error) {
	identity, err := s.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := s.start(ctx, "auth.UpdateProfile", identity.Role)
	defer span.End()

	update.Name = strings.TrimSpace(update.Name)
	update.Email = strings.TrimSpace(update.Email)
	if err := validation.Struct(update); err != nil {
		return nil, fail(span, err)
	}

	env, err := s.api.UpdateProfile(ctx, identity.Role, update)
	if err != nil {
		return nil, fail(span, err)
	}

	name, email := update.Name, update.Email
	if env != nil && env.Data != nil {
		if env.Data.Name != "" {
			name = env.Data.Name
		}
		if env.Data.Email != "" {
			email = env.Data.Email
		}
	}

	merged, err := s.store.UpdateUserData(ctx, func(id *domain.Identity) {
		id.Name = name
		id.Email = email
	})
	if err != nil {
		return nil, fail(span, domain.AsAPIError(err))
	}
	return merged, nil
}

// UploadProfilePic validates file as a JPEG/PNG/GIF of at most 5 MiB, uploads
// it and stores the new picture URL. Subscribers of the session store are
// notified through the store.
func (s *AuthService) UploadProfilePic(ctx context.Context, file ports.Upload) (string, error) {
	identity, err := s.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	ctx, span := s.start(ctx, "auth.UploadProfilePic", identity.Role)
	defer span.End()

	if err := checkImage(file); err != nil {
		return "", fail(span, err)
	}

	env, err := s.api.UploadProfilePic(ctx, identity.Role, file)
	if err != nil {
		return "", fail(span, err)
	}
	if env == nil || env.Data == nil || env.Data.ProfilePic == "" {
		return "", fail(span, unexpectedReply(rejection(env)))
	}

	pic := env.Data.ProfilePic
	if _, err := s.store.UpdateUserData(ctx, func(id *domain.Identity) { id.ProfilePic = pic }); err != nil {
		return "", fail(span, domain.AsAPIError(err))
	}
	return pic, nil
}

func (s *AuthService) start(ctx context.Context, name string, role domain.Role) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, name)
	if role != "" {
		span.SetAttributes(attribute.String("user.role", role.String()))
	}
	return ctx, span
}

func (s *AuthService) transition(op string, to domain.AuthState) {
	if s.observer != nil {
		s.observer.SessionTransition(op, to)
	}
}

// sessionFrom extracts a complete session from a login/register reply.
func sessionFrom(env *domain.Envelope[*ports.AuthData], requested domain.Role) (*domain.Session, error) {
	if env == nil || env.Data == nil || !env.Success {
		msg := ""
		if env != nil && !env.Success {
			msg = env.Message
		}
		return nil, unexpectedReply(msg)
	}
	d := env.Data
	role := d.Role
	if !role.Valid() {
		role = requested
	}
	sess := &domain.Session{
		Token: d.Token,
		Identity: domain.Identity{
			ID:         d.ID,
			Name:       d.Name,
			Email:      d.Email,
			Role:       role,
			ProfilePic: d.ProfilePic,
		},
	}
	if !sess.Complete() {
		return nil, unexpectedReply("")
	}
	return sess, nil
}

// unexpectedReply builds the payload error, preferring the backend's own
// message when it sent one.
func unexpectedReply(backendMsg string) *domain.APIError {
	msg := domain.UnexpectedReplyMessage
	if strings.TrimSpace(backendMsg) != "" {
		msg = backendMsg
	}
	return domain.NewAPIError(domain.KindPayload, 0, msg, domain.ErrUnexpectedPayload)
}

// rejection returns the message of a 2xx reply that reports success=false.
// Messages on successful replies ("Job posted") are not error text.
func rejection[T any](env *domain.Envelope[T]) string {
	if env == nil || env.Success {
		return ""
	}
	return env.Message
}

func checkRole(role domain.Role) error {
	if _, err := role.Endpoints(); err != nil {
		return domain.NewAPIError(domain.KindValidation, 0, err.Error(), err)
	}
	return nil
}

func checkImage(file ports.Upload) error {
	if file.Content == nil {
		return domain.ValidationError("Please choose an image to upload")
	}
	if !imageTypes[strings.ToLower(file.ContentType)] {
		return domain.ValidationError("Please upload a valid image file (JPEG, PNG, GIF)")
	}
	if file.Size > MaxUploadSize {
		return domain.ValidationError("Image size must be less than 5MB")
	}
	return nil
}

// fail records err on span and returns it unchanged.
func fail(span trace.Span, err error) error {
	span.SetStatus(codes.Error, err.Error())
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.Kind() != domain.KindValidation {
		span.RecordError(err)
	}
	return err
}

var _ ports.AuthService = (*AuthService)(nil)
