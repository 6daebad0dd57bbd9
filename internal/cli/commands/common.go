package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/physai-textbook/docsite/internal/cli/prompt"
	"github.com/physai-textbook/docsite/internal/session"
)

// AnnotationNoSession marks commands that run without a session provider
const AnnotationNoSession = "docsite/no-session"

var noSession = map[string]string{AnnotationNoSession: "true"}

// runOptions are the interactive dependencies of a command
type runOptions struct {
	readPassword func(label string) (string, error)
	readEmail    func(label string) (string, error)
	selectOption func(label string, options []string) (string, error)
}

// Option overrides an interactive dependency, mostly for tests
type Option func(*runOptions)

// WithPasswordReader replaces the terminal password prompt
func WithPasswordReader(fn func(label string) (string, error)) Option {
	return func(o *runOptions) {
		o.readPassword = fn
	}
}

// WithEmailReader replaces the terminal email prompt
func WithEmailReader(fn func(label string) (string, error)) Option {
	return func(o *runOptions) {
		o.readEmail = fn
	}
}

// WithSelector replaces the interactive list selection
func WithSelector(fn func(label string, options []string) (string, error)) Option {
	return func(o *runOptions) {
		o.selectOption = fn
	}
}

func newRunOptions(opts []Option) *runOptions {
	o := &runOptions{
		readPassword: prompt.Password,
		readEmail:    prompt.Email,
		selectOption: prompt.Select,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// readySession returns the session from ctx once its startup restore is done
func readySession(ctx context.Context) (session.Auth, error) {
	auth := session.FromContext(ctx)
	if err := auth.Wait(ctx); err != nil {
		if errors.Is(err, session.ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	return auth, nil
}

// actionError shows the session's readable message while keeping the
// underlying failure reachable through errors.Is and errors.As
type actionError struct {
	action string
	msg    string
	err    error
}

func (e *actionError) Error() string {
	return e.action + " failed: " + e.msg
}

func (e *actionError) Unwrap() error {
	return e.err
}
