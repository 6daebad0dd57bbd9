package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/physai-textbook/docsite/internal/authapi"
)

// ErrUnavailable is returned by every operation of the auth set handed out
// when no provider is in scope
var ErrUnavailable = errors.New("auth not available")

type ctxKey struct{}

// NewContext returns a copy of ctx carrying auth
func NewContext(ctx context.Context, auth Auth) context.Context {
	return context.WithValue(ctx, ctxKey{}, auth)
}

// Lookup returns the Auth carried by ctx, if any
func Lookup(ctx context.Context) (Auth, bool) {
	auth, ok := ctx.Value(ctxKey{}).(Auth)
	return auth, ok && auth != nil
}

var warnOnce sync.Once

// FromContext returns the Auth carried by ctx. Without one it returns a
// degraded set that never authenticates and logs a warning once.
func FromContext(ctx context.Context) Auth {
	if auth, ok := Lookup(ctx); ok {
		return auth
	}

	warnOnce.Do(func() {
		log.Warn().Msg("Auth used outside of a session provider, returning defaults")
	})
	return unavailable{}
}

// unavailable reports a session that never finishes loading
type unavailable struct{}

func (unavailable) User() *authapi.User   { return nil }
func (unavailable) Loading() bool         { return true }
func (unavailable) Error() string         { return "" }
func (unavailable) IsAuthenticated() bool { return false }
func (unavailable) Signout()              {}

func (unavailable) Signup(context.Context, authapi.SignupRequest) (*authapi.AuthResponse, error) {
	return nil, ErrUnavailable
}

func (unavailable) Signin(context.Context, string, string) (*authapi.AuthResponse, error) {
	return nil, ErrUnavailable
}

func (unavailable) Wait(context.Context) error {
	return ErrUnavailable
}
