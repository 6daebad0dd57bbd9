// Package session owns the authenticated session: a bearer token kept in a
// token store plus the user profile held in memory.
//
// A Provider is the single owner of that state. Consumers read it through the
// Auth interface and change it only through Signup, Signin and Signout.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/physai-textbook/docsite/internal/authapi"
	"github.com/physai-textbook/docsite/internal/tokenstore"
)

// DefaultStorageKey is the storage key the token is kept under
const DefaultStorageKey = "token"

// API is the subset of the auth API the provider needs
type API interface {
	Me(ctx context.Context) (*authapi.User, error)
	Signup(ctx context.Context, req authapi.SignupRequest) (*authapi.AuthResponse, error)
	Signin(ctx context.Context, email, password string) (*authapi.AuthResponse, error)
	SetToken(token string)
	ClearToken()
}

// Auth is the capability set handed to session consumers
type Auth interface {
	User() *authapi.User
	Loading() bool
	Error() string
	IsAuthenticated() bool
	Signup(ctx context.Context, req authapi.SignupRequest) (*authapi.AuthResponse, error)
	Signin(ctx context.Context, email, password string) (*authapi.AuthResponse, error)
	Signout()
	Wait(ctx context.Context) error
}

// Option configures a Provider
type Option func(*Provider)

// WithStorageKey overrides the storage key of the token
func WithStorageKey(key string) Option {
	return func(p *Provider) {
		p.storageKey = key
	}
}

// WithLogger sets the provider logger
func WithLogger(log zerolog.Logger) Option {
	return func(p *Provider) {
		p.logger = log
	}
}

// WithClock replaces time.Now for token expiry checks
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		p.now = now
	}
}

// Provider holds the session state
type Provider struct {
	api        API
	store      tokenstore.Store
	logger     zerolog.Logger
	storageKey string
	now        func() time.Time

	mu      sync.RWMutex
	token   string
	gen     uint64
	user    *authapi.User
	loading bool
	err     string

	// closed when the single restore started by New finishes
	restored chan struct{}
}

var _ Auth = (*Provider)(nil)

// New creates the provider and starts restoring a persisted session in the
// background. Loading reports true until that restore has finished.
func New(ctx context.Context, api API, store tokenstore.Store, opts ...Option) *Provider {
	p := &Provider{
		api:        api,
		store:      store,
		logger:     zerolog.Nop(),
		storageKey: DefaultStorageKey,
		now:        time.Now,
		loading:    true,
		restored:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	go p.restore(ctx)

	return p
}

// restore re-validates a persisted token by fetching the profile.
// Any failure discards the token silently.
func (p *Provider) restore(ctx context.Context) {
	defer func() {
		p.mu.Lock()
		p.loading = false
		p.mu.Unlock()
		close(p.restored)
	}()

	p.mu.RLock()
	gen := p.gen
	p.mu.RUnlock()

	token, err := p.store.Load(p.storageKey)
	if err != nil {
		if !errors.Is(err, tokenstore.ErrNotFound) {
			p.logger.Warn().Err(err).Msg("Failed to read stored token")
		}
		return
	}
	if token == "" {
		return
	}

	if !p.adopt(token, gen) {
		return
	}

	user, err := p.api.Me(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Error fetching user, discarding stored token")
		p.discard(token)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// A signin or signout may have replaced the session meanwhile
	if p.token == token {
		p.user = user
	}
}

// adopt attaches a stored token unless it has expired or the session
// changed since generation gen
func (p *Provider) adopt(token string, gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gen != gen {
		return false
	}

	if tokenExpired(token, p.now()) {
		p.logger.Debug().Msg("Stored token has expired, discarding")
		if err := p.store.Delete(p.storageKey); err != nil {
			p.logger.Warn().Err(err).Msg("Failed to remove stored token")
		}
		return false
	}

	p.token = token
	p.api.SetToken(token)
	return true
}

// discard clears the token and credential if they still belong to token
func (p *Provider) discard(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != token {
		return
	}

	if err := p.store.Delete(p.storageKey); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to remove stored token")
	}
	p.api.ClearToken()
	p.token = ""
	p.user = nil
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// Opaque or unparsable tokens are never considered expired here.
func tokenExpired(token string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !claims.ExpiresAt.Time.After(now)
}

// Signup registers an account and starts a session for it
func (p *Provider) Signup(ctx context.Context, req authapi.SignupRequest) (*authapi.AuthResponse, error) {
	p.setError("")

	resp, err := p.api.Signup(ctx, req)
	if err == nil {
		err = p.establish(resp)
	}
	if err != nil {
		return nil, p.fail("signup", "Signup failed", err)
	}

	p.logger.Info().Str("email", req.Email).Msg("Signed up")
	return resp, nil
}

// Signin authenticates with email and password and starts a session
func (p *Provider) Signin(ctx context.Context, email, password string) (*authapi.AuthResponse, error) {
	p.setError("")

	resp, err := p.api.Signin(ctx, email, password)
	if err == nil {
		err = p.establish(resp)
	}
	if err != nil {
		return nil, p.fail("signin", "Signin failed", err)
	}

	p.logger.Info().Str("email", email).Msg("Signed in")
	return resp, nil
}

// establish persists and attaches the token from an auth response
func (p *Provider) establish(resp *authapi.AuthResponse) error {
	if resp == nil || resp.AccessToken == "" {
		return errors.New("response did not include an access token")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Persisting is best effort; the in-memory session stands either way
	if err := p.store.Save(p.storageKey, resp.AccessToken); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to persist token")
	}
	p.api.SetToken(resp.AccessToken)
	p.gen++
	p.token = resp.AccessToken
	p.user = resp.User
	return nil
}

// fail records a readable message for err and returns err to the caller
func (p *Provider) fail(op, fallback string, err error) error {
	msg := errorMessage(err, fallback)
	p.setError(msg)
	p.logger.Error().Err(err).Str("op", op).Msg(msg)
	return fmt.Errorf("%s: %w", op, err)
}

// errorMessage prefers the server-supplied detail, then the raw failure reason
func errorMessage(err error, fallback string) string {
	var apiErr *authapi.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// Signout drops the session. It never touches the network.
func (p *Provider) Signout() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.store.Delete(p.storageKey); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to remove stored token")
	}
	p.api.ClearToken()
	p.gen++
	p.token = ""
	p.user = nil
}

// Wait blocks until the startup restore has finished or ctx is done
func (p *Provider) Wait(ctx context.Context) error {
	select {
	case <-p.restored:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// User returns the signed-in user, or nil
func (p *Provider) User() *authapi.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.user
}

// Loading reports whether the startup restore is still in flight
func (p *Provider) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}

// Error returns the message of the last failed signup or signin
func (p *Provider) Error() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}

// IsAuthenticated reports whether a user is signed in
func (p *Provider) IsAuthenticated() bool {
	return p.User() != nil
}

func (p *Provider) setError(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = msg
}
