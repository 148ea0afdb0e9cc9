package storage

import (
	"context"
	"errors"
	"sync"
)

var ErrTokenNotFound = errors.New("token not found")

// TokenStore persists the session token between runs, keyed by app id.
type TokenStore interface {
	Save(ctx context.Context, appID, token string) error
	Load(ctx context.Context, appID string) (string, error)
	Delete(ctx context.Context, appID string) error
}

// MemoryTokenStore keeps tokens for the lifetime of the process.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]string)}
}

func (m *MemoryTokenStore) Save(_ context.Context, appID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[appID] = token
	return nil
}

func (m *MemoryTokenStore) Load(_ context.Context, appID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, ok := m.tokens[appID]
	if !ok {
		return "", ErrTokenNotFound
	}
	return token, nil
}

func (m *MemoryTokenStore) Delete(_ context.Context, appID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, appID)
	return nil
}
