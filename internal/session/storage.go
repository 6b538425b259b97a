package session

import (
	"sync"
)

// Storage reemplaza al local storage del navegador: pares clave/valor string.
// Get reporta ok=false cuando la clave no existe.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

type memoryStorage struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMemoryStorage() Storage {
	return &memoryStorage{
		items: make(map[string]string),
	}
}

func (s *memoryStorage) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *memoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = value
	return nil
}

func (s *memoryStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
