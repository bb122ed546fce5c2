package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/k-j-hyun/shdocs/internal/application"
)

type authService interface {
	LoginURL() (string, error)
	HandleCallback(ctx context.Context, state, code string) error
	Status(ctx context.Context) (application.AuthStatus, error)
	Logout(ctx context.Context) error
	LocalLogin(ctx context.Context, password string) (string, error)
}

type AuthHandler struct {
	service    authService
	sessionTTL time.Duration
	responder  responder
	logger     *slog.Logger
}

func NewAuthHandler(service authService, sessionTTL time.Duration, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthHandler{service: service, sessionTTL: sessionTTL, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

// Login redirects the browser to the Google consent screen.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	loginURL, err := h.service.LoginURL()
	if err != nil {
		h.log(r.Context(), "Login").ErrorContext(r.Context(), "failed to build consent url", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	http.Redirect(w, r, loginURL, http.StatusFound)
}

// Callback completes the consent flow and sends the browser back to the app.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	state := query.Get("state")
	code := query.Get("code")
	if state == "" || code == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingOAuthParams)
		return
	}

	if err := h.service.HandleCallback(r.Context(), state, code); err != nil {
		h.log(r.Context(), "Callback").ErrorContext(r.Context(), "authorization callback failed", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errCallbackFailed)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// Status reports whether a Google authorization is on file.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context())
	if err != nil {
		h.log(r.Context(), "Status").ErrorContext(r.Context(), "failed to read auth status", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, status)
}

// Logout discards the stored Google authorization. Browser navigation (GET)
// is sent back to the app; API callers (POST) get a JSON confirmation.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		h.log(r.Context(), "Logout").ErrorContext(r.Context(), "logout failed", "error", err)
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if r.Method == http.MethodGet {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, messageResponse{Success: true, Message: "로그아웃되었습니다."})
}

// LocalLogin opens a management session for the configured admin password.
func (h *AuthHandler) LocalLogin(w http.ResponseWriter, r *http.Request) {
	var req localLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if strings.TrimSpace(req.Password) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	session, err := h.service.LocalLogin(r.Context(), req.Password)
	if err != nil {
		h.log(r.Context(), "LocalLogin").WarnContext(r.Context(), "local login rejected", "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "shdocs_session",
		Value:    session,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessionTTL / time.Second),
	})
	h.responder.writeJSON(r.Context(), w, http.StatusOK, localLoginResponse{Token: session, Message: "로그인되었습니다."})
}

type localLoginRequest struct {
	Password string `json:"password"`
}

type localLoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}
