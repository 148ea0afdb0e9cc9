package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/exp/slog"

	"grapetracker/internal/app/client/config"
	"grapetracker/internal/app/client/manifest"
	"grapetracker/internal/app/client/session"
	"grapetracker/internal/app/client/varieties"
	"grapetracker/internal/infrastructure/storage"
	"grapetracker/internal/infrastructure/storage/sqlite"
	"grapetracker/internal/utils/logger"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// App wires the backend facade, the session controller and the dashboard.
// The facade is built once here and passed explicitly to everything else.
type App struct {
	config   *config.Config
	log      *slog.Logger
	backend  *manifest.Client
	tokens   storage.TokenStore
	session  *session.Controller
	confirm  varieties.Confirmer
	started  bool
	mu       sync.RWMutex
	dashView *varieties.View
}

func New(cfg *config.Config, log *slog.Logger) *App {
	// Локальное хранилище токена (SQLite, при ошибке - память)
	var tokens storage.TokenStore
	sqliteStore, err := sqlite.Open(cfg.DataPath, log)
	if err != nil {
		log.Warn("Не удалось инициализировать SQLite, используем память", logger.Err(err))
		tokens = storage.NewMemoryTokenStore()
	} else {
		tokens = sqliteStore
	}

	return NewWithStore(cfg, tokens, log)
}

// NewWithStore builds the app around an existing token store.
func NewWithStore(cfg *config.Config, tokens storage.TokenStore, log *slog.Logger) *App {
	backend := manifest.New(manifest.Options{
		BaseURL: cfg.BackendURL,
		AppID:   cfg.AppID,
		Timeout: cfg.RequestTimeout,
		Store:   tokens,
	}, log)

	ctrl := session.NewController(backend, session.Options{
		ProbeAttempts: cfg.ProbeAttempts,
		ProbeInterval: cfg.ProbeInterval,
	}, log)

	return &App{
		config:  cfg,
		log:     log.With("component", "app"),
		backend: backend,
		tokens:  tokens,
		session: ctrl,
	}
}

// SetConfirmer sets the prompt used before deleting a variety.
// It applies to dashboards opened after the call.
func (a *App) SetConfirmer(c varieties.Confirmer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.confirm = c
}

// Start restores the saved session and, when authenticated, loads the dashboard once.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return session.ErrAlreadyInitialized
	}
	a.started = true
	a.mu.Unlock()

	if err := a.backend.Restore(ctx); err != nil {
		a.log.Warn("failed to restore token", logger.Err(err))
	}

	if err := a.session.Initialize(ctx); err != nil {
		return err
	}

	if a.session.State() == session.StateAuthenticated {
		a.openDashboard(ctx)
	}
	return nil
}

// Login authenticates and loads the dashboard.
func (a *App) Login(ctx context.Context, email, password string) error {
	if err := a.session.Login(ctx, email, password); err != nil {
		return err
	}
	a.openDashboard(ctx)
	return nil
}

// Logout ends the session and drops the dashboard.
func (a *App) Logout(ctx context.Context) error {
	err := a.session.Logout(ctx)

	a.mu.Lock()
	a.dashView = nil
	a.mu.Unlock()

	return err
}

// Dashboard returns the list view of the authenticated user.
func (a *App) Dashboard() (*varieties.View, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.dashView == nil {
		return nil, ErrNotAuthenticated
	}
	return a.dashView, nil
}

func (a *App) Session() *session.Controller {
	return a.session
}

func (a *App) AdminURL() string {
	return a.backend.AdminURL()
}

// Close releases the token store.
func (a *App) Close() error {
	if c, ok := a.tokens.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close token store: %w", err)
		}
	}
	return nil
}

// openDashboard creates the list view and issues its single initial Load.
// A failed load is kept on the view (LastError) and is not fatal.
func (a *App) openDashboard(ctx context.Context) {
	u, _ := a.session.User()

	a.mu.Lock()
	view := varieties.NewView(varieties.NewManifestStore(a.backend), u, varieties.Options{
		PageSize:  a.config.PageSize,
		Confirmer: a.confirm,
	}, a.log)
	a.dashView = view
	a.mu.Unlock()

	if err := view.Load(ctx); err != nil {
		a.log.Warn("initial load failed", logger.Err(err))
	}
}
