package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/game-portal/internal/apperror"
	"github.com/sakif/game-portal/internal/auth"
	"github.com/sakif/game-portal/internal/handler"
	"github.com/sakif/game-portal/internal/model"
	"github.com/sakif/game-portal/internal/service"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// MockAccounts records calls and returns canned results.
type MockAccounts struct {
	RegisterID  int64
	RegisterErr error
	LoginResult *service.LoginResult
	LoginErr    error

	GotUsername, GotEmail, GotPassword string
	LoggedOut                          []string
}

func (m *MockAccounts) Register(ctx context.Context, username, email, password string) (int64, error) {
	m.GotUsername, m.GotEmail, m.GotPassword = username, email, password
	return m.RegisterID, m.RegisterErr
}

func (m *MockAccounts) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	m.GotUsername, m.GotPassword = username, password
	return m.LoginResult, m.LoginErr
}

func (m *MockAccounts) Logout(token string) {
	m.LoggedOut = append(m.LoggedOut, token)
}

// MockCatalog is a CatalogService with canned results.
type MockCatalog struct {
	Games    []model.Game
	ReturnID int64
	Err      error

	CapturedID    int64
	CapturedInput model.GameInput
}

func (m *MockCatalog) List(ctx context.Context) ([]model.Game, error) {
	return m.Games, m.Err
}

func (m *MockCatalog) Create(ctx context.Context, in model.GameInput) (int64, error) {
	m.CapturedInput = in
	return m.ReturnID, m.Err
}

func (m *MockCatalog) Update(ctx context.Context, id int64, in model.GameInput) (int64, error) {
	m.CapturedID, m.CapturedInput = id, in
	return id, m.Err
}

func (m *MockCatalog) Delete(ctx context.Context, id int64) (int64, error) {
	m.CapturedID = id
	return id, m.Err
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func post(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// =========================================================================
// AUTH HANDLER
// =========================================================================

func TestAuthHandler_Register(t *testing.T) {
	gate := auth.NewGate(auth.NewSessionRegistry(), logger)

	t.Run("created", func(t *testing.T) {
		accounts := &MockAccounts{RegisterID: 7}
		h := handler.NewAuthHandler(accounts, gate, true, logger)
		rr := httptest.NewRecorder()

		h.HandleRegister(rr, post("/register", `{"username":"alice","email":"a@b.c","password":"pw"}`))

		assert.Equal(t, http.StatusCreated, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, float64(7), body["id"])
		assert.NotEmpty(t, body["message"])
		assert.Equal(t, "alice", accounts.GotUsername)
		assert.Equal(t, "a@b.c", accounts.GotEmail)
	})

	t.Run("invalid json", func(t *testing.T) {
		h := handler.NewAuthHandler(&MockAccounts{}, gate, true, logger)
		rr := httptest.NewRecorder()

		h.HandleRegister(rr, post("/register", `{"username":`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "validation_error", decodeBody(t, rr)["error"])
	})

	t.Run("status per error kind", func(t *testing.T) {
		tests := []struct {
			err        error
			wantStatus int
		}{
			{apperror.ValidationFailed("email", "Faltan campos obligatorios"), http.StatusBadRequest},
			{apperror.Conflict("El usuario o email ya existe"), http.StatusConflict},
			{errors.New("pq: connection refused"), http.StatusInternalServerError},
		}
		for _, tt := range tests {
			h := handler.NewAuthHandler(&MockAccounts{RegisterErr: tt.err}, gate, true, logger)
			rr := httptest.NewRecorder()

			h.HandleRegister(rr, post("/register", `{"username":"a","email":"b","password":"c"}`))

			assert.Equal(t, tt.wantStatus, rr.Code, "error %v", tt.err)
		}
	})

	t.Run("store error is not leaked", func(t *testing.T) {
		h := handler.NewAuthHandler(&MockAccounts{RegisterErr: errors.New("SELECT secret FROM usuarios failed")}, gate, true, logger)
		rr := httptest.NewRecorder()

		h.HandleRegister(rr, post("/register", `{"username":"a","email":"b","password":"c"}`))

		assert.NotContains(t, rr.Body.String(), "SELECT")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	gate := auth.NewGate(auth.NewSessionRegistry(), logger)

	t.Run("sets session cookie", func(t *testing.T) {
		accounts := &MockAccounts{LoginResult: &service.LoginResult{Token: "abc123"}}
		h := handler.NewAuthHandler(accounts, gate, true, logger)
		rr := httptest.NewRecorder()

		h.HandleLogin(rr, post("/login", `{"username":"admin","password":"admin123"}`))

		require.Equal(t, http.StatusOK, rr.Code)
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, auth.CookieName, c.Name)
		assert.Equal(t, "abc123", c.Value)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, "admin", accounts.GotUsername)
	})

	t.Run("insecure cookie when configured", func(t *testing.T) {
		h := handler.NewAuthHandler(&MockAccounts{LoginResult: &service.LoginResult{Token: "t"}}, gate, false, logger)
		rr := httptest.NewRecorder()

		h.HandleLogin(rr, post("/login", `{"username":"u","password":"p"}`))

		require.Len(t, rr.Result().Cookies(), 1)
		assert.False(t, rr.Result().Cookies()[0].Secure)
	})

	t.Run("bad credentials", func(t *testing.T) {
		h := handler.NewAuthHandler(&MockAccounts{LoginErr: apperror.Unauthenticated("Credenciales incorrectas")}, gate, true, logger)
		rr := httptest.NewRecorder()

		h.HandleLogin(rr, post("/login", `{"username":"u","password":"nope"}`))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, rr.Result().Cookies(), "no cookie on failure")
		assert.Equal(t, "Credenciales incorrectas", decodeBody(t, rr)["message"])
	})
}

func TestAuthHandler_LogoutAndStatus(t *testing.T) {
	reg := auth.NewSessionRegistry()
	gate := auth.NewGate(reg, logger)
	accounts := &MockAccounts{}
	h := handler.NewAuthHandler(accounts, gate, true, logger)

	token, err := reg.Create(3, true)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Get("/auth/status", h.HandleStatus)
	r.With(gate.RequireSession).Post("/logout", h.HandleLogout)

	withCookie := func(req *http.Request) *http.Request {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		return req
	}

	t.Run("status authenticated", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, withCookie(httptest.NewRequest(http.MethodGet, "/auth/status", nil)))

		assert.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, true, body["authenticated"])
		assert.Equal(t, float64(3), body["user_id"])
		assert.Equal(t, true, body["is_admin"])
	})

	t.Run("status anonymous", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/status", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"authenticated":false}`, rr.Body.String())
	})

	t.Run("logout revokes and clears cookie", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, withCookie(httptest.NewRequest(http.MethodPost, "/logout", nil)))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, []string{token}, accounts.LoggedOut)
		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, -1, cookies[0].MaxAge)
	})

	t.Run("logout without session", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/logout", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

// =========================================================================
// GAME HANDLER
// =========================================================================

func gameRouter(h *handler.GameHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/juegos", h.HandleList)
	r.Post("/juegos", h.HandleCreate)
	r.Put("/juegos/{id:[0-9]+}", h.HandleUpdate)
	r.Delete("/juegos/{id:[0-9]+}", h.HandleDelete)
	return r
}

func TestGameHandler_List(t *testing.T) {
	img := "../assets/tetris.png"
	catalog := &MockCatalog{Games: []model.Game{
		{ID: 1, Name: "Tetris", Genre: "Puzzle", Platform: "Web", Year: 1984, Description: "d", ImagePath: &img},
	}}
	rr := httptest.NewRecorder()

	gameRouter(handler.NewGameHandler(catalog, logger)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/juegos", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":1,"nombre":"Tetris","genero":"Puzzle","plataforma":"Web","anio":1984,
		"descripcion":"d","imagen_ruta":"../assets/tetris.png","wikipedia_url":null}]`, rr.Body.String())
}

func TestGameHandler_ListEmpty(t *testing.T) {
	rr := httptest.NewRecorder()

	gameRouter(handler.NewGameHandler(&MockCatalog{Games: []model.Game{}}, logger)).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/juegos", nil))

	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestGameHandler_Create(t *testing.T) {
	catalog := &MockCatalog{ReturnID: 14}
	rr := httptest.NewRecorder()

	gameRouter(handler.NewGameHandler(catalog, logger)).ServeHTTP(rr,
		post("/juegos", `{"nombre":"Hades","genero":"Roguelike","plataforma":"PC/Consola","anio":2020,"descripcion":null}`))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, float64(14), decodeBody(t, rr)["id"])
	require.NotNil(t, catalog.CapturedInput.Year)
	assert.Equal(t, 2020, *catalog.CapturedInput.Year)
	assert.Nil(t, catalog.CapturedInput.Description, "null descripcion decodes as absent")
}

func TestGameHandler_CreateValidationError(t *testing.T) {
	catalog := &MockCatalog{Err: apperror.ValidationFailed("anio", "Faltan campos obligatorios: anio")}
	rr := httptest.NewRecorder()

	gameRouter(handler.NewGameHandler(catalog, logger)).ServeHTTP(rr, post("/juegos", `{"nombre":"x"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGameHandler_UpdateAndDelete(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		err        error
		wantStatus int
		wantID     int64
	}{
		{name: "update ok", method: http.MethodPut, path: "/juegos/5", body: `{"nombre":"a","genero":"b","plataforma":"c","anio":1}`, wantStatus: http.StatusOK, wantID: 5},
		{name: "update missing", method: http.MethodPut, path: "/juegos/99", body: `{}`, err: apperror.NotFound("game", 99), wantStatus: http.StatusNotFound, wantID: 99},
		{name: "update bad json", method: http.MethodPut, path: "/juegos/5", body: `nope`, wantStatus: http.StatusBadRequest},
		{name: "delete ok", method: http.MethodDelete, path: "/juegos/8", wantStatus: http.StatusOK, wantID: 8},
		{name: "delete missing", method: http.MethodDelete, path: "/juegos/8", err: apperror.NotFound("game", 8), wantStatus: http.StatusNotFound, wantID: 8},
		{name: "non numeric id", method: http.MethodDelete, path: "/juegos/abc", wantStatus: http.StatusNotFound},
		{name: "id overflows int64", method: http.MethodDelete, path: "/juegos/99999999999999999999", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &MockCatalog{Err: tt.err}
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))

			gameRouter(handler.NewGameHandler(catalog, logger)).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantID, catalog.CapturedID)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, float64(tt.wantID), decodeBody(t, rr)["id"])
			}
		})
	}
}
