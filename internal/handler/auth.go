package handler

import (
	"log/slog"
	"net/http"

	"mdstash/internal/auth"
	"mdstash/internal/httputil"
)

// AuthHandler handles the login exchange.
type AuthHandler struct {
	authService  *auth.Service
	secureCookie bool
	logger       *slog.Logger
}

// NewAuthHandler creates an auth handler. secureCookie should be true behind
// TLS.
func NewAuthHandler(authService *auth.Service, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login exchanges the shared password for a session cookie.
// POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.authService.Login(req.Password)
	if err != nil {
		h.logger.Warn("login rejected", "remote", r.RemoteAddr)
		handleError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.authService.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
