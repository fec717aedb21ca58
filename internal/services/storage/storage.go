// Package storage provides transparently encrypted file access for the
// data directory. Files are written atomically; when encryption is
// enabled, everything except the marker files is Age-encrypted with a
// password-derived scrypt key.
package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"filippo.io/age"
)

const (
	// ageHeader is the prefix of Age-encrypted files
	ageHeader = "age-encryption.org"

	// markerFile indicates encryption is enabled
	markerFile = ".encrypted"

	// verifyFile is used to validate the password
	verifyFile = ".encryption-verify"

	// verifyMagic is the expected content in the verify file
	verifyMagic = `{"magic":"smartspend-encryption-verify","version":1}`
)

// Storage mediates all reads and writes under a base directory
type Storage struct {
	baseDir   string
	encrypted bool
	identity  *age.ScryptIdentity
	recipient *age.ScryptRecipient
	mu        sync.RWMutex
}

// New creates a Storage for the given base directory, detecting whether
// encryption has been enabled on it
func New(baseDir string) (*Storage, error) {
	s := &Storage{baseDir: baseDir}

	if _, err := os.Stat(filepath.Join(baseDir, markerFile)); err == nil {
		s.encrypted = true
	}

	return s, nil
}

// BaseDir returns the base directory
func (s *Storage) BaseDir() string {
	return s.baseDir
}

// IsEncrypted reports whether the data directory is encrypted
func (s *Storage) IsEncrypted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.encrypted
}

// IsUnlocked reports whether reads and writes can proceed: either
// encryption is off, or a password has been verified
func (s *Storage) IsUnlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.encrypted || s.identity != nil
}

// Unlock verifies the password against the verification file and keeps
// the derived key in memory
func (s *Storage) Unlock(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.encrypted {
		return nil
	}

	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	encrypted, err := os.ReadFile(filepath.Join(s.baseDir, verifyFile))
	if err != nil {
		return fmt.Errorf("failed to read verification file: %w", err)
	}

	decrypted, err := decryptData(encrypted, identity)
	if err != nil {
		return fmt.Errorf("incorrect password")
	}
	if string(decrypted) != verifyMagic {
		return fmt.Errorf("incorrect password (verification failed)")
	}

	s.identity = identity
	s.recipient, _ = age.NewScryptRecipient(password)

	return nil
}

// Lock clears the encryption key from memory
func (s *Storage) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil
	s.recipient = nil
}

// ReadFile reads a file, decrypting it if needed
func (s *Storage) ReadFile(path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if isAgeEncrypted(data) {
		if s.identity == nil {
			return nil, fmt.Errorf("file is encrypted but storage is locked")
		}
		return decryptData(data, s.identity)
	}

	return data, nil
}

// WriteFile writes a file atomically, encrypting it when encryption is
// enabled and unlocked
func (s *Storage) WriteFile(path string, data []byte, perm os.FileMode) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.shouldSkipEncryption(path) {
		return atomicWrite(path, data, perm)
	}

	if s.encrypted && s.recipient != nil {
		encrypted, err := encryptData(data, s.recipient)
		if err != nil {
			return fmt.Errorf("failed to encrypt: %w", err)
		}
		data = encrypted
	}

	return atomicWrite(path, data, perm)
}

// Remove removes a file
func (s *Storage) Remove(path string) error {
	return os.Remove(path)
}

// atomicWrite writes via a temp file and rename so a crash mid-write
// never leaves a truncated document behind
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// shouldSkipEncryption returns true for the encryption bookkeeping files
func (s *Storage) shouldSkipEncryption(path string) bool {
	base := filepath.Base(path)
	return base == markerFile || base == verifyFile
}

// isAgeEncrypted checks if data starts with the Age encryption header
func isAgeEncrypted(data []byte) bool {
	return len(data) > len(ageHeader) && string(data[:len(ageHeader)]) == ageHeader
}

// encryptData encrypts data for the given recipient
func encryptData(data []byte, recipient *age.ScryptRecipient) ([]byte, error) {
	var buf bytes.Buffer

	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// decryptData decrypts Age-encrypted data with the given identity
func decryptData(data []byte, identity *age.ScryptIdentity) ([]byte, error) {
	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}
