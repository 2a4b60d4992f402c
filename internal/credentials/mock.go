package credentials

import "sync"

// MockKeyring is an in-memory Keyring for tests.
type MockKeyring struct {
	mu    sync.RWMutex
	store map[string]map[string]string // service -> account -> secret
}

// NewMockKeyring creates an empty mock keyring.
func NewMockKeyring() *MockKeyring {
	return &MockKeyring{store: make(map[string]map[string]string)}
}

func (m *MockKeyring) Set(service, account, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store[service] == nil {
		m.store[service] = make(map[string]string)
	}
	m.store[service][account] = secret
	return nil
}

func (m *MockKeyring) Get(service, account string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if secret, ok := m.store[service][account]; ok {
		return secret, nil
	}
	return "", ErrNotFound
}

func (m *MockKeyring) Delete(service, account string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.store[service][account]; !ok {
		return ErrNotFound
	}
	delete(m.store[service], account)
	return nil
}
