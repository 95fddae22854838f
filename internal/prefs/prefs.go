// Package prefs is the local-storage layer of the client: small named JSON
// documents kept under a data directory, the moral equivalent of a mobile
// app's preference files. Two documents exist today, the current user and
// the cookie store.
package prefs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
)

// ErrNotExist is returned by Get when no document with that name was stored.
var ErrNotExist = errors.New("prefs: document does not exist")

// Store persists named blobs under a single directory. It is safe for use
// from multiple goroutines; writes go through an atomic rename so a crash
// mid-write never leaves a torn document behind.
type Store struct {
	mu   sync.RWMutex
	root string
}

// New creates the data directory if needed and returns a store rooted there.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, errors.New("prefs: empty data directory")
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{root: root}, nil
}

// Get returns the stored document, or ErrNotExist.
func (s *Store) Get(name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Put replaces the document atomically.
func (s *Store) Put(name string, data []byte) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Delete removes the document. Deleting a document that does not exist is
// not an error.
func (s *Store) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func (s *Store) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("prefs: invalid document name %q", name)
	}
	return filepath.Join(s.root, name), nil
}
