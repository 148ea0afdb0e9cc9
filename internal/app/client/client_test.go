package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"grapetracker/internal/app/client/config"
	"grapetracker/internal/app/client/session"
	"grapetracker/internal/app/client/varieties"
	"grapetracker/internal/infrastructure/storage"
)

const anaJSON = `{"id":1,"name":"Ana","email":"ana@example.com"}`

// fakeBackend - минимальная имитация REST API бэкенда
type fakeBackend struct {
	finds   atomic.Int32
	deletes atomic.Int32
}

func (f *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-ana" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(anaJSON))
	})
	mux.HandleFunc("/api/auth/users/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok-ana"}`))
	})
	mux.HandleFunc("/api/collections/grape-varieties", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			f.finds.Add(1)
			_, _ = w.Write([]byte(`{"data":[
				{"id":5,"name":"Gamay","color":"Red","grower":` + anaJSON + `,"createdAt":"2025-03-01T10:00:00.000Z"},
				{"id":7,"name":"Syrah","color":"Black","grower":{"id":2,"name":"Bob"},"createdAt":"2025-02-01T10:00:00.000Z"}
			],"currentPage":1,"lastPage":1,"total":2,"perPage":100}`))
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":42,"name":"Pinot Noir","color":"Red","createdAt":"2025-03-02T10:00:00.000Z"}`))
		}
	})
	mux.HandleFunc("/api/collections/grape-varieties/7", func(w http.ResponseWriter, r *http.Request) {
		f.deletes.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Forbidden resource"}`))
	})
	return mux
}

func newTestApp(t *testing.T, tokens storage.TokenStore) (*App, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{}
	srv := httptest.NewServer(fb.handler(t))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Env:            "local",
		AppID:          "test123",
		BackendURL:     srv.URL,
		RequestTimeout: 5 * time.Second,
		ProbeAttempts:  1,
		ProbeInterval:  time.Millisecond,
		PageSize:       100,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWithStore(cfg, tokens, log), fb
}

func TestApp_Start_RestoredSessionLoadsOnce(t *testing.T) {
	tokens := storage.NewMemoryTokenStore()
	require.NoError(t, tokens.Save(context.Background(), "test123", "tok-ana"))

	app, fb := newTestApp(t, tokens)
	require.NoError(t, app.Start(context.Background()))

	assert.Equal(t, session.ScreenDashboard, app.Session().Screen())
	u, ok := app.Session().User()
	require.True(t, ok)
	assert.Equal(t, "Ana", u.Name)

	view, err := app.Dashboard()
	require.NoError(t, err)
	assert.Len(t, view.Items(), 2)
	assert.Equal(t, int32(1), fb.finds.Load())
}

func TestApp_Start_WithoutSession(t *testing.T) {
	app, fb := newTestApp(t, storage.NewMemoryTokenStore())
	require.NoError(t, app.Start(context.Background()))

	assert.Equal(t, session.ScreenLanding, app.Session().Screen())
	_, err := app.Dashboard()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Zero(t, fb.finds.Load())

	assert.ErrorIs(t, app.Start(context.Background()), session.ErrAlreadyInitialized)
}

func TestApp_LoginCreateDeleteLogout(t *testing.T) {
	tokens := storage.NewMemoryTokenStore()
	app, fb := newTestApp(t, tokens)
	app.SetConfirmer(varieties.ConfirmFunc(func(string) bool { return true }))
	ctx := context.Background()

	require.NoError(t, app.Start(ctx))

	err := app.Login(ctx, "ana@example.com", "wrong")
	assert.ErrorIs(t, err, session.ErrLoginFailed)
	assert.Equal(t, session.ScreenLanding, app.Session().Screen())

	require.NoError(t, app.Login(ctx, "ana@example.com", "secret"))
	assert.Equal(t, session.ScreenDashboard, app.Session().Screen())
	assert.Equal(t, int32(1), fb.finds.Load())

	saved, err := tokens.Load(ctx, "test123")
	require.NoError(t, err)
	assert.Equal(t, "tok-ana", saved)

	view, err := app.Dashboard()
	require.NoError(t, err)

	form := view.Form()
	form.Name = "Pinot Noir"
	view.SetForm(form)
	created, err := view.CreateForm(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, created.ID)
	assert.Equal(t, 42, view.Items()[0].ID)

	before := view.Items()
	err = view.Delete(ctx, 7)
	assert.ErrorIs(t, err, varieties.ErrPermissionDenied)
	assert.Equal(t, before, view.Items())
	assert.Equal(t, int32(1), fb.deletes.Load())

	require.NoError(t, app.Logout(ctx))
	assert.Equal(t, session.ScreenLanding, app.Session().Screen())
	_, err = app.Dashboard()
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = tokens.Load(ctx, "test123")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}

func TestApp_AdminURL(t *testing.T) {
	app, _ := newTestApp(t, storage.NewMemoryTokenStore())
	assert.Contains(t, app.AdminURL(), "/admin")
	assert.NoError(t, app.Close())
}

func TestApp_Start_NullUserStaysLoggedOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	}))
	t.Cleanup(srv.Close)

	tokens := storage.NewMemoryTokenStore()
	require.NoError(t, tokens.Save(context.Background(), "test123", "opaque-token"))

	cfg := &config.Config{AppID: "test123", BackendURL: srv.URL, ProbeAttempts: 1, PageSize: 100}
	app := NewWithStore(cfg, tokens, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, app.Start(context.Background()))

	assert.Equal(t, session.StateUnauthenticated, app.Session().State())
	u, ok := app.Session().User()
	assert.False(t, ok)
	assert.True(t, u.IsZero())
	_, err := app.Dashboard()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
