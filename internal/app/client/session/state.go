package session

import "errors"

var (
	ErrAlreadyInitialized = errors.New("session already initialized")
	ErrLoginFailed        = errors.New("login failed")
	ErrInvalidTransition  = errors.New("invalid session transition")
)

// LoginFailedMessage is shown to the user when ErrLoginFailed is returned.
const LoginFailedMessage = "Login failed. Please check your credentials."

type State int

const (
	StateInitializing State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Screen is the top-level view shown for a state.
type Screen string

const (
	ScreenLoading   Screen = "loading"
	ScreenLanding   Screen = "landing"
	ScreenDashboard Screen = "dashboard"
)

func (s State) Screen() Screen {
	switch s {
	case StateAuthenticated:
		return ScreenDashboard
	case StateUnauthenticated:
		return ScreenLanding
	}
	return ScreenLoading
}

var transitions = map[State][]State{
	StateInitializing:    {StateAuthenticated, StateUnauthenticated},
	StateUnauthenticated: {StateAuthenticated},
	StateAuthenticated:   {StateUnauthenticated},
}

func canTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Статусы индикатора соединения
const (
	StatusTesting   = "Testing connection..."
	StatusConnected = "Connected"
	StatusFailed    = "Connection Failed"
)

// Connectivity is a snapshot of the backend reachability indicator.
type Connectivity struct {
	Connected bool
	Status    string
	Attempts  int
}
