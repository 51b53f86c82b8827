package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// CookieName is the cookie that carries the session token.
const CookieName = "token"

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. A plain string key can be read or
// shadowed by any package that knows the string. A package-private type means
// only this package can create, and therefore read, these keys.
type contextKey string

const (
	identityKey contextKey = "identity"
	tokenKey    contextKey = "token"
)

// Gate is the access gate in front of protected routes. It derives an
// Identity from the request's token cookie and enforces role requirements.
//
// ROUTE COMPOSITION:
// Requirements are attached explicitly per route with chi:
//
//	r.With(gate.RequireSession).Get("/juegos", ...)
//	r.With(gate.RequireSession, gate.RequireAdmin).Post("/juegos", ...)
//
// RequireSession always comes first, so a caller with no valid session gets
// 401 even on an admin route. Only an authenticated non-admin ever sees 403.
type Gate struct {
	sessions *SessionRegistry
	logger   *slog.Logger
}

func NewGate(sessions *SessionRegistry, logger *slog.Logger) *Gate {
	return &Gate{sessions: sessions, logger: logger}
}

// Authenticate reads the token cookie and resolves it. It has no side effects
// and never writes to the response.
func (g *Gate) Authenticate(r *http.Request) (Identity, bool) {
	token, ok := tokenFromRequest(r)
	if !ok {
		return Identity{}, false
	}
	return g.sessions.Resolve(token)
}

// RequireSession stops the chain with 401 unless Authenticate finds a live
// session. On success the identity and the raw token are stored in the
// request context for the handlers below.
func (g *Gate) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := g.Authenticate(r)
		if !ok {
			g.logger.Debug("rejected request without a live session", slog.String("path", r.URL.Path))
			denyUnauthenticated(w)
			return
		}

		// Authenticate succeeded, so the cookie is present; only Logout needs it.
		token, _ := tokenFromRequest(r)
		ctx := context.WithValue(r.Context(), identityKey, id)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin allows the request through only for administrator sessions.
// It must be mounted after RequireSession; with no identity in the context it
// answers 401 rather than guessing.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			denyUnauthenticated(w)
			return
		}
		if !id.IsAdmin {
			g.logger.Info("non-admin attempted catalog mutation",
				slog.Int64("user_id", id.UserID),
				slog.String("session", id.Handle),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			writeDenial(w, http.StatusForbidden, "forbidden", "Acceso denegado: se requieren permisos de administrador")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityFromContext returns the identity stored by RequireSession.
//
// Usage in handlers:
//
//	id, ok := auth.IdentityFromContext(r.Context())
//	if !ok {
//	    // route is not behind RequireSession
//	}
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// TokenFromContext returns the raw session token stored by RequireSession.
// Logout needs it to revoke the session.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}

// tokenFromRequest reads the token cookie.
// http.ErrNoCookie is not an error here, just an anonymous request.
func tokenFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func denyUnauthenticated(w http.ResponseWriter) {
	writeDenial(w, http.StatusUnauthorized, "unauthorized", "No autorizado")
}

// writeDenial mirrors the handler package's error body. It lives here because
// handler imports auth, not the other way round.
func writeDenial(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}
