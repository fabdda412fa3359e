// Package credstore provides an encrypted-at-rest store for the two
// session secrets: the access token and the refresh token.
package credstore

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Recognized credential keys.
const (
	KeyAccess  = "access"
	KeyRefresh = "refresh"
)

const keyFileSize = 32

// Store persists the credential pair in a single encrypted file.
// Get on an absent key returns "" with no error. Set and Delete
// durably persist before returning.
type Store struct {
	mu   sync.Mutex
	path string
	aead cipher.AEAD
}

// Open loads or initializes the store. keyPath holds a random
// per-install secret (created 0600 on first use); the AEAD key is
// derived from it with HKDF-SHA256.
func Open(path, keyPath string) (*Store, error) {
	const op = "credstore.Open"

	secret, err := loadOrCreateKey(keyPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	kdf := hkdf.New(sha256.New, secret, nil, []byte("credential-store"))
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{path: path, aead: aead}, nil
}

// Get returns the stored value for key, or "" if absent.
func (s *Store) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", err
	}
	return values[key], nil
}

// Set stores value under key and persists before returning.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

// Delete removes key and persists before returning.
// Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	delete(values, key)
	return s.save(values)
}

func (s *Store) load() (map[string]string, error) {
	const op = "credstore.load"

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	nonceSize := chacha20poly1305.NonceSizeX
	if len(data) < nonceSize {
		return nil, fmt.Errorf("%s: credential file truncated", op)
	}

	plain, err := s.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(plain, &values); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return values, nil
}

// save writes the encrypted map atomically: a temp file in the same
// directory is renamed over the target so readers never observe a
// partial write.
func (s *Store) save(values map[string]string) error {
	const op = "credstore.save"

	plain, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	sealed := s.aead.Seal(nonce, nonce, plain, nil)

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(sealed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// loadOrCreateKey reads the per-install secret, generating it on first use.
func loadOrCreateKey(path string) ([]byte, error) {
	secret, err := os.ReadFile(path)
	if err == nil {
		if len(secret) != keyFileSize {
			return nil, fmt.Errorf("key file %s has unexpected size %d", path, len(secret))
		}
		return secret, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	secret = make([]byte, keyFileSize)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, secret, 0600); err != nil {
		return nil, err
	}
	return secret, nil
}
