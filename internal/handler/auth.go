package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/game-portal/internal/auth"
	"github.com/sakif/game-portal/internal/service"
)

// AccountService is what AuthHandler needs from service.AuthService.
type AccountService interface {
	Register(ctx context.Context, username, email, password string) (int64, error)
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	Logout(token string)
}

// AuthHandler serves registration, login, logout and the status probe.
type AuthHandler struct {
	accounts     AccountService
	gate         *auth.Gate
	cookieSecure bool
	logger       *slog.Logger
}

func NewAuthHandler(accounts AccountService, gate *auth.Gate, cookieSecure bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts:     accounts,
		gate:         gate,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// StatusResponse answers GET /auth/status. user_id and is_admin are only
// present when authenticated.
type StatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserID        *int64 `json:"user_id,omitempty"`
	IsAdmin       *bool  `json:"is_admin,omitempty"`
}

// HandleRegister creates a regular account.
//
// HTTP: POST /register
// REQUEST BODY: {"username": "...", "email": "...", "password": "..."}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	id, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{Message: "Usuario registrado correctamente", ID: id})
}

// HandleLogin checks credentials and sets the session cookie.
//
// HTTP: POST /login
//
// THE SESSION COOKIE:
//   - HttpOnly: JavaScript cannot read it, so XSS cannot steal the token
//   - SameSite=None + Secure: the frontend is served from another origin and
//     still has to send the cookie on credentialed fetches
//   - no Max-Age: a browser-session cookie, matching sessions that never expire
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    result.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteNoneMode,
	})
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Inicio de sesión correcto"})
}

// HandleLogout revokes the caller's session and clears the cookie.
//
// HTTP: POST /logout (behind RequireSession)
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := auth.TokenFromContext(r.Context()); ok {
		h.accounts.Logout(token)
	}

	// MaxAge<0 tells the browser to delete the cookie now.
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteNoneMode,
	})
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Sesión cerrada correctamente"})
}

// HandleStatus reports whether the request carries a live session.
//
// HTTP: GET /auth/status
//
// This route is public: it answers the question rather than enforcing it,
// but keeps 401 for the negative answer so clients can branch on the code.
func (h *AuthHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.gate.Authenticate(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, StatusResponse{Authenticated: false})
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{
		Authenticated: true,
		UserID:        &id.UserID,
		IsAdmin:       &id.IsAdmin,
	})
}
