package booking

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage defines the interface for raw transcript storage
type Storage interface {
	// Save writes a transcript and returns its name
	Save(name string, data []byte) (string, error)

	// Get reads a transcript by name
	Get(name string) ([]byte, error)

	// Delete removes a transcript
	Delete(name string) error
}

// LocalStorage keeps transcripts as files under a base directory
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the base directory if needed
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// path confines name to the base directory
func (l *LocalStorage) path(name string) string {
	return filepath.Join(l.basePath, filepath.Base(name))
}

// Save writes a transcript to disk
func (l *LocalStorage) Save(name string, data []byte) (string, error) {
	name = filepath.Base(name)
	if err := os.WriteFile(l.path(name), data, 0644); err != nil {
		return "", fmt.Errorf("writing transcript: %w", err)
	}
	return name, nil
}

// Get reads a transcript from disk
func (l *LocalStorage) Get(name string) ([]byte, error) {
	data, err := os.ReadFile(l.path(name))
	if err != nil {
		return nil, fmt.Errorf("reading transcript: %w", err)
	}
	return data, nil
}

// Delete removes a transcript from disk
func (l *LocalStorage) Delete(name string) error {
	if err := os.Remove(l.path(name)); err != nil {
		return fmt.Errorf("deleting transcript: %w", err)
	}
	return nil
}
