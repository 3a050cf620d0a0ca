package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/naveenspark/bartr/internal/logging"
	"github.com/naveenspark/bartr/internal/tokenstore"
	"github.com/naveenspark/bartr/pkg/client"
	"github.com/naveenspark/bartr/pkg/domain"
)

var (
	// ErrNoSession means no token is stored and none came from the environment.
	ErrNoSession = errors.New("session: not logged in")
	// ErrExpired means the stored token's exp claim is in the past.
	ErrExpired = errors.New("session: token expired")
)

// Op names an auth operation for user-facing failure text.
type Op string

const (
	OpLogin    Op = "Login"
	OpRegister Op = "Registration"
)

// Manager is the auth controller. It talks to the API, keeps the persisted
// token in step with the sessions it hands out, and never holds a session
// of its own.
type Manager struct {
	api      *client.Client
	store    tokenstore.Store
	log      logging.Logger
	envToken string
	now      func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithEnvToken makes token take precedence over the store. It is used as is
// and never written to or removed from the store.
func WithEnvToken(token string) Option {
	return func(m *Manager) { m.envToken = token }
}

// WithClock overrides the clock used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager. api should carry no token; the Manager
// derives authenticated copies from it.
func NewManager(api *client.Client, store tokenstore.Store, log logging.Logger, opts ...Option) *Manager {
	if log == nil {
		log = logging.Nop()
	}
	m := &Manager{
		api:   api,
		store: store,
		log:   log.With("component", "session"),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Client returns an API client authenticated as s.
func (m *Manager) Client(s Session) *client.Client {
	return m.api.WithToken(s.Token)
}

// Register creates an account and signs it in.
func (m *Manager) Register(ctx context.Context, name, email, password string) (Session, error) {
	resp, err := m.api.Register(ctx, client.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		m.log.Warn(ctx, "register failed", failureAttrs(err)...)
		return Session{}, fmt.Errorf("session.Register: %w", err)
	}
	return m.begin(ctx, resp.Token, resp.User), nil
}

// Login signs in with email and password.
func (m *Manager) Login(ctx context.Context, email, password string) (Session, error) {
	resp, err := m.api.Login(ctx, client.LoginRequest{Email: email, Password: password})
	if err != nil {
		m.log.Warn(ctx, "login failed", failureAttrs(err)...)
		return Session{}, fmt.Errorf("session.Login: %w", err)
	}
	return m.begin(ctx, resp.Token, resp.User), nil
}

// failureAttrs describes a failed sign-in for the log. Credentials are
// never logged; server rejections are identified by status and request id.
func failureAttrs(err error) []any {
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		return []any{"status", httpErr.StatusCode, "request_id", httpErr.RequestID}
	}
	return []any{"err", err}
}

// begin persists token and builds the session. A failed save is logged but
// does not fail sign-in: the in-memory session is authoritative for this run.
func (m *Manager) begin(ctx context.Context, token string, user domain.User) Session {
	if err := m.store.Save(ctx, token); err != nil {
		m.log.Error(ctx, "persist token", "err", err)
	}
	m.log.Info(ctx, "signed in", "user_id", user.ID)
	u := user
	return Session{Token: token, User: &u}
}

// Logout forgets the persisted token. There is no server call.
func (m *Manager) Logout(ctx context.Context) (Session, error) {
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error(ctx, "clear token", "err", err)
		return Session{}, fmt.Errorf("session.Logout: %w", err)
	}
	m.log.Info(ctx, "signed out")
	return Session{}, nil
}

// Check restores a session from the environment token or the store and
// validates it against GET /me. Any failure on a stored token clears it.
func (m *Manager) Check(ctx context.Context) (Session, error) {
	token, fromEnv := m.envToken, m.envToken != ""
	if !fromEnv {
		stored, err := m.store.Load(ctx)
		if err != nil {
			m.log.Error(ctx, "load token", "err", err)
			return Session{}, fmt.Errorf("session.Check: %w", err)
		}
		token = stored
	}
	if token == "" {
		return Session{}, ErrNoSession
	}

	if expired(token, m.now()) {
		m.log.Info(ctx, "stored token expired")
		m.discard(ctx, fromEnv)
		return Session{}, ErrExpired
	}

	user, err := m.api.WithToken(token).GetMe(ctx)
	if err != nil {
		m.log.Warn(ctx, "auth check failed", "err", err)
		m.discard(ctx, fromEnv)
		return Session{}, fmt.Errorf("session.Check: %w", err)
	}
	return Session{Token: token, User: user}, nil
}

func (m *Manager) discard(ctx context.Context, fromEnv bool) {
	if fromEnv {
		return
	}
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error(ctx, "clear token", "err", err)
	}
}

// expired reports whether token is a JWT whose exp claim is not after now.
// Opaque tokens and tokens without exp are left to the server to judge.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}

// FailureMessage is the text shown in the auth error area for err. Server
// rejections show the server's message; anything else gets a generic line.
func FailureMessage(op Op, err error) string {
	if msg, ok := client.ErrorMessage(err); ok && msg != "" {
		return msg
	}
	return string(op) + " failed. Please try again."
}
