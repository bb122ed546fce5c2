package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/k-j-hyun/shdocs/internal/persistence"
)

// tokenAccount is the single slot used for the Google authorization.
// The mirror serves one operator, not per-user calendars.
const tokenAccount = "default"

// TokenRepository captures the persistence operations needed by the service.
type TokenRepository interface {
	SaveToken(ctx context.Context, account string, payload []byte, updatedAt string) error
	GetToken(ctx context.Context, account string) (persistence.Token, error)
	DeleteToken(ctx context.Context, account string) error
}

// AuthService runs the Google consent flow, stores the resulting token, and
// hands out authorized HTTP clients. It also validates the optional local
// admin password.
type AuthService struct {
	tokens     TokenRepository
	oauth      *oauth2.Config
	adminHash  string
	sessionTTL time.Duration
	now        func() time.Time
	logger     *slog.Logger

	mu       sync.Mutex
	states   map[string]time.Time
	sessions map[string]time.Time
}

// NewAuthService constructs an auth service with the provided dependencies.
func NewAuthService(tokens TokenRepository, oauth *oauth2.Config, adminHash string, sessionTTL time.Duration, now func() time.Time, logger *slog.Logger) *AuthService {
	if now == nil {
		now = time.Now
	}
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		tokens:     tokens,
		oauth:      oauth,
		adminHash:  adminHash,
		sessionTTL: sessionTTL,
		now:        now,
		logger:     defaultLogger(logger),
		states:     make(map[string]time.Time),
		sessions:   make(map[string]time.Time),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// LoginURL returns the Google consent URL with a fresh anti-forgery state.
func (s *AuthService) LoginURL() (string, error) {
	state, err := randomToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.pruneLocked()
	s.states[state] = s.now().Add(10 * time.Minute)
	s.mu.Unlock()

	// AccessTypeOffline yields a refresh token so the mirror keeps working
	// after the access token expires.
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// HandleCallback exchanges the authorization code and stores the token.
func (s *AuthService) HandleCallback(ctx context.Context, state, code string) (err error) {
	logger := s.loggerWith(ctx, "HandleCallback")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "google authorization failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "google authorization stored")
	}()

	s.mu.Lock()
	expiry, known := s.states[state]
	delete(s.states, state)
	s.mu.Unlock()
	if !known || s.now().After(expiry) {
		err = fmt.Errorf("unknown or expired oauth state")
		return
	}

	token, exchangeErr := s.oauth.Exchange(ctx, code)
	if exchangeErr != nil {
		err = fmt.Errorf("exchange authorization code: %w", exchangeErr)
		return
	}

	payload, marshalErr := json.Marshal(token)
	if marshalErr != nil {
		err = marshalErr
		return
	}
	err = s.tokens.SaveToken(ctx, tokenAccount, payload, s.now().UTC().Format(time.RFC3339))
	return
}

// Status reports whether a usable Google authorization is on file.
func (s *AuthService) Status(ctx context.Context) (AuthStatus, error) {
	record, err := s.tokens.GetToken(ctx, tokenAccount)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return AuthStatus{Authenticated: false}, nil
		}
		return AuthStatus{}, err
	}

	var token oauth2.Token
	if err := json.Unmarshal(record.Payload, &token); err != nil {
		return AuthStatus{}, fmt.Errorf("decode stored token: %w", err)
	}

	status := AuthStatus{Authenticated: token.Valid() || token.RefreshToken != ""}
	if !token.Expiry.IsZero() {
		status.ExpiresAt = token.Expiry.UTC().Format(time.RFC3339)
	}
	return status, nil
}

// Logout discards the stored Google authorization.
func (s *AuthService) Logout(ctx context.Context) error {
	logger := s.loggerWith(ctx, "Logout")
	if err := s.tokens.DeleteToken(ctx, tokenAccount); err != nil {
		logger.ErrorContext(ctx, "failed to discard token", "error", err)
		return err
	}
	logger.InfoContext(ctx, "google authorization discarded")
	return nil
}

// HTTPClient returns an HTTP client that attaches the stored Google
// authorization and persists refreshed tokens.
func (s *AuthService) HTTPClient(ctx context.Context) (*http.Client, error) {
	record, err := s.tokens.GetToken(ctx, tokenAccount)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil, ErrAuthRequired
		}
		return nil, err
	}

	var token oauth2.Token
	if err := json.Unmarshal(record.Payload, &token); err != nil {
		return nil, fmt.Errorf("decode stored token: %w", err)
	}
	if !token.Valid() && token.RefreshToken == "" {
		return nil, ErrAuthRequired
	}

	source := &persistingTokenSource{
		service: s,
		ctx:     ctx,
		last:    &token,
		wrapped: s.oauth.TokenSource(ctx, &token),
	}
	return oauth2.NewClient(ctx, source), nil
}

// LocalLogin verifies the admin password and opens a management session.
func (s *AuthService) LocalLogin(ctx context.Context, password string) (string, error) {
	logger := s.loggerWith(ctx, "LocalLogin")

	if s.adminHash == "" {
		logger.WarnContext(ctx, "local login attempted without configured password")
		return "", ErrInvalidCredentials
	}
	if err := VerifyPassword(s.adminHash, password); err != nil {
		logger.WarnContext(ctx, "local login rejected")
		return "", ErrInvalidCredentials
	}

	session, err := randomToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.pruneLocked()
	s.sessions[session] = s.now().Add(s.sessionTTL)
	s.mu.Unlock()

	logger.InfoContext(ctx, "local session opened")
	return session, nil
}

// ValidSession reports whether the session token is live.
func (s *AuthService) ValidSession(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	expiry, known := s.sessions[token]
	if !known {
		return false
	}
	if s.now().After(expiry) {
		delete(s.sessions, token)
		return false
	}
	return true
}

// RequiresLocalLogin reports whether mutating endpoints are password gated.
func (s *AuthService) RequiresLocalLogin() bool {
	return s.adminHash != ""
}

func (s *AuthService) pruneLocked() {
	now := s.now()
	for state, expiry := range s.states {
		if now.After(expiry) {
			delete(s.states, state)
		}
	}
	for session, expiry := range s.sessions {
		if now.After(expiry) {
			delete(s.sessions, session)
		}
	}
}

// persistingTokenSource writes refreshed tokens back to the repository so a
// restart never loses the authorization.
type persistingTokenSource struct {
	service *AuthService
	ctx     context.Context
	last    *oauth2.Token
	wrapped oauth2.TokenSource
}

func (p *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := p.wrapped.Token()
	if err != nil {
		return nil, err
	}
	if token.AccessToken != p.last.AccessToken {
		p.last = token
		if payload, marshalErr := json.Marshal(token); marshalErr == nil {
			updatedAt := p.service.now().UTC().Format(time.RFC3339)
			if saveErr := p.service.tokens.SaveToken(p.ctx, tokenAccount, payload, updatedAt); saveErr != nil {
				p.service.logger.Warn("failed to persist refreshed token", "error", saveErr)
			}
		}
	}
	return token, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
