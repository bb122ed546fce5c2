package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Sheets     *SheetHandler
	Events     *EventHandler
	Auth       *AuthHandler
	Sessions   SessionValidator
	Static     http.Handler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	requireAdmin := RequireAdminSession(cfg.Sessions, nil)

	if cfg.Sheets != nil {
		mux.HandleFunc("/api/sheets", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Sheets.List(w, r)
			case http.MethodPost:
				requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					cfg.Sheets.Create(w, r)
				})).ServeHTTP(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/api/sheets/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/api/sheets/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				cfg.Sheets.Delete(w, r, id)
			})).ServeHTTP(w, r)
		})
	}

	if cfg.Events != nil {
		mux.HandleFunc("/api/events", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Events.List(w, r)
		})
		mux.HandleFunc("/api/events/ics", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Events.ICS(w, r)
		})
		mux.HandleFunc("/api/events/monthly/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			rest := strings.TrimPrefix(r.URL.Path, "/api/events/monthly/")
			year, month, ok := parseMonthPath(rest)
			if !ok {
				newResponder(nil).writeError(r.Context(), w, http.StatusBadRequest, errInvalidMonthPath)
				return
			}
			cfg.Events.Monthly(w, r, year, month)
		})
		mux.HandleFunc("/api/calendar/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			rest := strings.TrimPrefix(r.URL.Path, "/api/calendar/")
			year, month, ok := parseMonthPath(rest)
			if !ok {
				newResponder(nil).writeError(r.Context(), w, http.StatusBadRequest, errInvalidMonthPath)
				return
			}
			cfg.Events.Calendar(w, r, year, month)
		})
	}

	if cfg.Auth != nil {
		mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Auth.Login(w, r)
		})
		mux.HandleFunc("/auth/callback", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Auth.Callback(w, r)
		})
		mux.HandleFunc("/auth/status", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Auth.Status(w, r)
		})
		mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
				return
			}
			cfg.Auth.Logout(w, r)
		})
		mux.HandleFunc("/auth/local", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.LocalLogin(w, r)
		})
	}

	if cfg.Static != nil {
		mux.Handle("/", cfg.Static)
	}

	var handler http.Handler = mux
	handler = CachePolicy(handler)
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		handler = cfg.Middleware[i](handler)
	}
	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
