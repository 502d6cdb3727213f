package credentials

import "sync"

// MemoryStore is an in-memory Store used by tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]string

	// Fail, when set, makes every mutation return it.
	Fail error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]string{}}
}

// Seed sets individual keys directly, bypassing the pair invariant, so
// tests can stage partial states.
func (m *MemoryStore) Seed(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}

// Has reports whether a key is present.
func (m *MemoryStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

func (m *MemoryStore) Load() (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userRecord, okUser := m.entries[KeyUserRecord]
	token, okToken := m.entries[KeyAuthToken]
	if !okUser || !okToken {
		return "", "", ErrNotFound
	}
	return userRecord, token, nil
}

func (m *MemoryStore) Save(userRecord, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.entries[KeyUserRecord] = userRecord
	m.entries[KeyAuthToken] = token
	return nil
}

func (m *MemoryStore) SaveUser(userRecord string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	if _, ok := m.entries[KeyAuthToken]; !ok {
		return ErrNotFound
	}
	m.entries[KeyUserRecord] = userRecord
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	delete(m.entries, KeyUserRecord)
	delete(m.entries, KeyAuthToken)
	return nil
}
