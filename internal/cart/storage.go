package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

type Storage interface {
	Load() (State, error)
	Save(State) error
}

// FileStorage keeps the cart as a JSON document on disk. A missing file is an empty cart.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Load() (State, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("reading cart file: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("decoding cart file: %w", err)
	}
	return s, nil
}

// Save writes to a temp file and renames it over the target.
func (f *FileStorage) Save(s State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".cart-*")
	if err != nil {
		return fmt.Errorf("creating temp cart file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing cart file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing cart file: %w", err)
	}
	return os.Rename(tmp.Name(), f.path)
}

type MemoryStorage struct {
	mu    sync.Mutex
	state State
	saves int
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *MemoryStorage) Save(s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
	m.saves++
	return nil
}

func (m *MemoryStorage) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
