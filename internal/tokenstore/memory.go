package tokenstore

import "sync"

// Memory keeps tokens in process memory
type Memory struct {
	mu     sync.Mutex
	tokens map[string]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{tokens: make(map[string]string)}
}

func (m *Memory) Load(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok := m.tokens[key]
	if !ok {
		return "", ErrNotFound
	}
	return token, nil
}

func (m *Memory) Save(key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens[key] = token
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tokens, key)
	return nil
}
