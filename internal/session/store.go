// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/assoplat/assoplat/internal/apierr"
)

// DefaultLifetime is how long a session stays valid after its last write.
const DefaultLifetime = 7 * 24 * time.Hour

// Clock returns the current time.
type Clock func() time.Time

// CookieConfig holds the static cookie attributes.
type CookieConfig struct {
	Name     string
	Domain   string
	Path     string
	HTTPOnly bool
	Secure   bool
}

// Config configures a Store.
type Config struct {
	Cookie   CookieConfig
	Lifetime time.Duration

	// EnforceExpiry makes Resolve treat expired rows as missing.
	EnforceExpiry bool

	// RefreshExpiry makes Persist push the stored expiry forward for
	// unchanged sessions, at most once per refresh step. It is implied by
	// EnforceExpiry and needed whenever expired rows get swept.
	RefreshExpiry bool
}

// TokenLength is the length of a canonical UUID session token.
const TokenLength = 36

func validToken(token string) bool {
	if len(token) != TokenLength {
		return false
	}
	_, err := uuid.Parse(token)
	return err == nil
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() Config {
	return Config{
		Cookie: CookieConfig{
			Name:     "session",
			Path:     "/",
			HTTPOnly: true,
		},
		Lifetime: DefaultLifetime,
	}
}

// CookieDirective tells the transport which cookie to set.
type CookieDirective struct {
	Name     string
	Value    string
	Expires  time.Time
	Domain   string
	Path     string
	HTTPOnly bool
	Secure   bool
}

// HTTPCookie converts the directive for net/http.
func (d CookieDirective) HTTPCookie() *http.Cookie {
	return &http.Cookie{
		Name:     d.Name,
		Value:    d.Value,
		Expires:  d.Expires,
		Domain:   d.Domain,
		Path:     d.Path,
		HttpOnly: d.HTTPOnly,
		Secure:   d.Secure,
	}
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for expiry.
func WithClock(now Clock) Option {
	return func(s *Store) { s.now = now }
}

// WithCodec sets the blob codec. The default is ProtoCodec.
func WithCodec(c Codec) Option {
	return func(s *Store) { s.codec = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithTokenGenerator sets the function producing tokens for new sessions.
func WithTokenGenerator(gen func() string) Option {
	return func(s *Store) { s.newToken = gen }
}

// Store resolves and persists sessions.
type Store struct {
	repo     Repository
	cfg      Config
	codec    Codec
	now      Clock
	newToken func() string
	logger   *slog.Logger
}

// NewStore creates a Store backed by repo.
func NewStore(repo Repository, cfg Config, opts ...Option) (*Store, error) {
	if repo == nil {
		return nil, oops.Code("SESSION_STORE_INVALID").Errorf("session repository is required")
	}
	if cfg.Lifetime <= 0 {
		return nil, oops.Code("SESSION_STORE_INVALID").
			With("lifetime", cfg.Lifetime).
			Errorf("session lifetime must be positive")
	}
	if cfg.Cookie.Name == "" {
		return nil, oops.Code("SESSION_STORE_INVALID").Errorf("cookie name is required")
	}

	s := &Store{
		repo:     repo,
		cfg:      cfg,
		codec:    ProtoCodec{},
		now:      time.Now,
		newToken: uuid.NewString,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CookieName returns the name of the session cookie.
func (s *Store) CookieName() string {
	return s.cfg.Cookie.Name
}

// Resolve returns the session for token. An empty token yields a new
// session with a fresh token; an unknown token yields a new session that
// keeps the supplied token. A token that is not a canonical UUID is treated
// like an empty one.
func (s *Store) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		SessionsResolved.WithLabelValues(ResolveNew).Inc()
		return newSession(s.newToken()), nil
	}
	if !validToken(token) {
		SessionsResolved.WithLabelValues(ResolveBogus).Inc()
		s.logger.DebugContext(ctx, "malformed session token replaced", "length", len(token))
		return newSession(s.newToken()), nil
	}

	rec, err := s.repo.Load(ctx, token)
	if errors.Is(err, ErrNotFound) {
		SessionsResolved.WithLabelValues(ResolveMiss).Inc()
		return newSession(token), nil
	}
	if err != nil {
		return nil, apierr.NewStorageFailure("load session", err)
	}

	if s.cfg.EnforceExpiry && rec.Expiry.Before(s.now()) {
		SessionsResolved.WithLabelValues(ResolveStale).Inc()
		s.logger.DebugContext(ctx, "session expired", "expiry", rec.Expiry)
		return newSession(token), nil
	}

	data, err := s.codec.Decode(rec.Data)
	if err != nil {
		return nil, apierr.NewStorageFailure("decode session", err)
	}

	SessionsResolved.WithLabelValues(ResolveLoaded).Inc()
	return loadedSession(token, data, rec.Expiry), nil
}

// Persist writes the session if it is new or modified and returns the cookie
// directive. The expiry is recomputed on every call. With expiry refresh on,
// an unchanged session is rewritten once its stored expiry lags by a refresh
// step, and otherwise the cookie never outlives the stored row.
func (s *Store) Persist(ctx context.Context, sess *Session) (CookieDirective, error) {
	expiry := s.now().Add(s.cfg.Lifetime)

	write := sess.needsWrite() || (s.refreshing() && expiry.Sub(sess.expiry) >= s.refreshStep())
	if write {
		blob, err := s.codec.Encode(sess.data)
		if err != nil {
			return CookieDirective{}, apierr.NewStorageFailure("encode session", err)
		}
		err = s.repo.Upsert(ctx, Record{Token: sess.token, Data: blob, Expiry: expiry})
		if err != nil {
			return CookieDirective{}, apierr.NewStorageFailure("save session", err)
		}
		sess.markPersisted(expiry)
	} else if s.refreshing() {
		expiry = sess.expiry
	}
	recordPersist(write)

	c := s.cfg.Cookie
	return CookieDirective{
		Name:     c.Name,
		Value:    sess.token,
		Expires:  expiry,
		Domain:   c.Domain,
		Path:     c.Path,
		HTTPOnly: c.HTTPOnly,
		Secure:   c.Secure,
	}, nil
}

func (s *Store) refreshing() bool {
	return s.cfg.RefreshExpiry || s.cfg.EnforceExpiry
}

// refreshStep is one seventh of the lifetime, a day with the default.
func (s *Store) refreshStep() time.Duration {
	return s.cfg.Lifetime / 7
}
