package manifest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"grapetracker/internal/domain/user"
	"grapetracker/internal/infrastructure/storage"
	"grapetracker/internal/utils/logger"
)

const (
	defaultAuthEntity = "users"
	defaultTimeout    = 30 * time.Second
	appIDHeader       = "X-App-ID"
	userAgent         = "GrapeTracker-Client/1.0"
)

type Options struct {
	BaseURL    string
	AppID      string
	AuthEntity string
	Timeout    time.Duration
	Store      storage.TokenStore
	HTTPClient *http.Client
	Now        func() time.Time
}

// Client is the backend facade: authentication plus per-collection CRUD.
// It holds the session token and is safe for concurrent use.
type Client struct {
	http       *http.Client
	baseURL    string
	appID      string
	authEntity string
	store      storage.TokenStore
	now        func() time.Time
	log        *slog.Logger

	mu    sync.RWMutex
	token string
}

func New(opts Options, log *slog.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		}
	}

	authEntity := opts.AuthEntity
	if authEntity == "" {
		authEntity = defaultAuthEntity
	}

	store := opts.Store
	if store == nil {
		store = storage.NewMemoryTokenStore()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		http:       httpClient,
		baseURL:    opts.BaseURL,
		appID:      opts.AppID,
		authEntity: authEntity,
		store:      store,
		now:        now,
		log:        log.With("component", "manifest"),
	}
}

// Restore loads a previously saved token, if any.
func (c *Client) Restore(ctx context.Context) error {
	token, err := c.store.Load(ctx, c.appID)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return nil
		}
		return fmt.Errorf("load token: %w", err)
	}
	c.setToken(token)
	c.log.Debug("token restored from store")
	return nil
}

// HasToken reports whether a session token is held.
func (c *Client) HasToken() bool {
	return c.getToken() != ""
}

// Login exchanges credentials for a token and persists it.
func (c *Client) Login(ctx context.Context, email, password string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/auth/"+c.authEntity+"/login", user.Credentials{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}

	var loginResp user.LoginResponse
	if err := c.parseResponse(resp, &loginResp); err != nil {
		return err
	}
	if loginResp.Token == "" {
		return errors.New("login response has no token")
	}

	c.setToken(loginResp.Token)
	if err := c.store.Save(ctx, c.appID, loginResp.Token); err != nil {
		// сессия в памяти уже есть, сохранить между запусками не вышло
		c.log.Warn("failed to persist token", logger.Err(err))
	}
	return nil
}

// Logout forgets the token locally. The backend keeps no server-side session.
func (c *Client) Logout(ctx context.Context) error {
	c.setToken("")
	if err := c.store.Delete(ctx, c.appID); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Me returns the user of the current session.
func (c *Client) Me(ctx context.Context) (user.User, error) {
	token := c.getToken()
	if token == "" {
		return user.User{}, ErrNoSession
	}
	if tokenExpired(token, c.now()) {
		c.log.Debug("stored token expired")
		_ = c.Logout(ctx)
		return user.User{}, fmt.Errorf("%w: token expired", ErrNoSession)
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/auth/"+c.authEntity+"/me", nil)
	if err != nil {
		return user.User{}, err
	}

	var u user.User
	if err := c.parseResponse(resp, &u); err != nil {
		return user.User{}, err
	}
	// пустое тело или null - бэкенд не знает пользователя
	if u.IsZero() {
		return user.User{}, fmt.Errorf("%w: empty user in response", ErrNoSession)
	}
	return u, nil
}

// Health checks that the backend answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return err
	}
	return c.parseResponse(resp, nil)
}

// AdminURL is the backend admin panel address.
func (c *Client) AdminURL() string {
	return c.baseURL + "/admin"
}

// Collection returns a handle on the named collection.
func (c *Client) Collection(slug string) *Collection {
	return &Collection{client: c, slug: slug}
}

func (c *Client) getToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req)
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(appIDHeader, c.appID)
	if token := c.getToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug("sending request", "method", req.Method, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	return resp, nil
}

func (c *Client) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.log.Debug("response received", "status", resp.StatusCode, "size", len(body))

	if resp.StatusCode >= 400 {
		return newAPIError(resp.StatusCode, body)
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
