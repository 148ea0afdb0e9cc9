package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/exp/slog"

	"grapetracker/internal/domain/user"
	"grapetracker/internal/utils/logger"
)

const (
	defaultProbeAttempts = 3
	defaultProbeInterval = time.Second
)

// Backend is the part of the backend facade the controller drives.
type Backend interface {
	Me(ctx context.Context) (user.User, error)
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Health(ctx context.Context) error
}

var errEmptyUser = errors.New("backend returned no user")

type Options struct {
	ProbeAttempts int
	ProbeInterval time.Duration
}

// Controller owns the top-level session state and decides which screen is shown.
type Controller struct {
	backend       Backend
	log           *slog.Logger
	probeAttempts int
	probeInterval time.Duration

	mu          sync.RWMutex
	state       State
	user        user.User
	initialized bool
	conn        Connectivity
}

func NewController(backend Backend, opts Options, log *slog.Logger) *Controller {
	if opts.ProbeAttempts < 1 {
		opts.ProbeAttempts = defaultProbeAttempts
	}
	if opts.ProbeInterval <= 0 {
		opts.ProbeInterval = defaultProbeInterval
	}

	return &Controller{
		backend:       backend,
		log:           log.With("component", "session"),
		probeAttempts: opts.ProbeAttempts,
		probeInterval: opts.ProbeInterval,
		state:         StateInitializing,
		conn:          Connectivity{Status: StatusTesting},
	}
}

// Initialize resolves an existing session. Any failure leads to
// Unauthenticated; the only error is a repeated call.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return ErrAlreadyInitialized
	}
	c.initialized = true
	c.mu.Unlock()

	u, err := c.resolveUser(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.log.Debug("no active session", logger.Err(err))
		c.user = user.User{}
		return c.transition(StateUnauthenticated)
	}

	c.log.Info("session restored", "user_id", u.ID)
	c.user = u
	return c.transition(StateAuthenticated)
}

// Login exchanges credentials and resolves the user. State is left unchanged on failure.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	if s := c.State(); s != StateUnauthenticated {
		return fmt.Errorf("%w: login from %s", ErrInvalidTransition, s)
	}

	if err := c.backend.Login(ctx, email, password); err != nil {
		c.log.Warn("login rejected", logger.Err(err))
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	u, err := c.resolveUser(ctx)
	if err != nil {
		c.log.Warn("user lookup after login failed", logger.Err(err))
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.transition(StateAuthenticated); err != nil {
		return err
	}
	c.user = u
	c.log.Info("logged in", "user_id", u.ID)
	return nil
}

// Logout drops the session. The backend call is best effort.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.backend.Logout(ctx); err != nil {
		c.log.Warn("backend logout failed", logger.Err(err))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.user = user.User{}
	switch c.state {
	case StateUnauthenticated:
		return nil
	case StateInitializing:
		return fmt.Errorf("%w: logout before initialization", ErrInvalidTransition)
	}
	c.log.Info("logged out")
	return c.transition(StateUnauthenticated)
}

// resolveUser treats a lookup without an identity as no session.
func (c *Controller) resolveUser(ctx context.Context) (user.User, error) {
	u, err := c.backend.Me(ctx)
	if err != nil {
		return user.User{}, err
	}
	if u.IsZero() {
		return user.User{}, errEmptyUser
	}
	return u, nil
}

// transition must be called with mu held.
func (c *Controller) transition(to State) error {
	if !canTransition(c.state, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.state, to)
	}
	c.log.Debug("state changed", "from", c.state.String(), "to", to.String())
	c.state = to
	return nil
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) Screen() Screen {
	return c.State().Screen()
}

// User returns the cached user and whether a session is active.
func (c *Controller) User() (user.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user, c.state == StateAuthenticated
}

func (c *Controller) Connectivity() Connectivity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}

// Probe checks the backend health endpoint with a bounded number of attempts.
func (c *Controller) Probe(ctx context.Context) error {
	c.setConnectivity(Connectivity{Status: StatusTesting})

	attempts := 0
	backoff := retry.WithMaxRetries(uint64(c.probeAttempts-1), retry.NewConstant(c.probeInterval))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		if err := c.backend.Health(ctx); err != nil {
			c.log.Debug("backend check failed", "attempt", attempts, logger.Err(err))
			return retry.RetryableError(err)
		}
		return nil
	})

	if err != nil {
		c.log.Warn("backend unreachable", "attempts", attempts, logger.Err(err))
		c.setConnectivity(Connectivity{Status: StatusFailed, Attempts: attempts})
		return err
	}

	c.setConnectivity(Connectivity{Connected: true, Status: StatusConnected, Attempts: attempts})
	return nil
}

// StartProbe runs Probe in the background. The channel is closed when it finishes.
func (c *Controller) StartProbe(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Probe(ctx)
	}()
	return done
}

func (c *Controller) setConnectivity(conn Connectivity) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}
