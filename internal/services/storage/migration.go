package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
)

// EnableEncryption encrypts every JSON document in the data directory
// with the given password
func (s *Storage) EnableEncryption(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.encrypted {
		return fmt.Errorf("encryption is already enabled")
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	recipient, err := age.NewScryptRecipient(password)
	if err != nil {
		return fmt.Errorf("failed to create recipient: %w", err)
	}
	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	// Verification file first, so Unlock can check the password later
	verifyPath := filepath.Join(s.baseDir, verifyFile)
	encrypted, err := encryptData([]byte(verifyMagic), recipient)
	if err != nil {
		return fmt.Errorf("failed to encrypt verification file: %w", err)
	}
	if err := os.WriteFile(verifyPath, encrypted, 0644); err != nil {
		return fmt.Errorf("failed to write verification file: %w", err)
	}

	var filesToEncrypt []string
	err = filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || s.shouldSkipEncryption(path) {
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) == ".json" {
			filesToEncrypt = append(filesToEncrypt, path)
		}
		return nil
	})
	if err != nil {
		os.Remove(verifyPath)
		return fmt.Errorf("failed to scan files: %w", err)
	}

	for _, path := range filesToEncrypt {
		if err := s.encryptFile(path, recipient); err != nil {
			// Best-effort rollback of anything already converted
			s.rollbackEncryption(filesToEncrypt, identity)
			os.Remove(verifyPath)
			return fmt.Errorf("failed to encrypt %s: %w", filepath.Base(path), err)
		}
	}

	markerPath := filepath.Join(s.baseDir, markerFile)
	if err := os.WriteFile(markerPath, []byte("encrypted"), 0644); err != nil {
		return fmt.Errorf("failed to create marker file: %w", err)
	}

	s.encrypted = true
	s.identity = identity
	s.recipient = recipient

	return nil
}

// DisableEncryption decrypts every encrypted file in place; requires
// the current password
func (s *Storage) DisableEncryption(password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.encrypted {
		return fmt.Errorf("encryption is not enabled")
	}

	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	verifyPath := filepath.Join(s.baseDir, verifyFile)
	encrypted, err := os.ReadFile(verifyPath)
	if err != nil {
		return fmt.Errorf("failed to read verification file: %w", err)
	}
	decrypted, err := decryptData(encrypted, identity)
	if err != nil || string(decrypted) != verifyMagic {
		return fmt.Errorf("incorrect password")
	}

	var filesToDecrypt []string
	err = filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil // skip unreadable files
		}
		if isAgeEncrypted(data) {
			filesToDecrypt = append(filesToDecrypt, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan files: %w", err)
	}

	for _, path := range filesToDecrypt {
		if err := s.decryptFile(path, identity); err != nil {
			return fmt.Errorf("failed to decrypt %s: %w", filepath.Base(path), err)
		}
	}

	os.Remove(filepath.Join(s.baseDir, markerFile))
	os.Remove(verifyPath)

	s.encrypted = false
	s.identity = nil
	s.recipient = nil

	return nil
}

// encryptFile encrypts a single file in place
func (s *Storage) encryptFile(path string, recipient *age.ScryptRecipient) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if isAgeEncrypted(data) {
		return nil
	}

	encrypted, err := encryptData(data, recipient)
	if err != nil {
		return err
	}

	return atomicWrite(path, encrypted, 0644)
}

// decryptFile decrypts a single file in place
func (s *Storage) decryptFile(path string, identity *age.ScryptIdentity) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !isAgeEncrypted(data) {
		return nil
	}

	decrypted, err := decryptData(data, identity)
	if err != nil {
		return err
	}

	return atomicWrite(path, decrypted, 0644)
}

// rollbackEncryption attempts to undo a partially completed migration
func (s *Storage) rollbackEncryption(files []string, identity *age.ScryptIdentity) {
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil || !isAgeEncrypted(data) {
			continue
		}

		decrypted, err := decryptData(data, identity)
		if err != nil {
			continue
		}

		os.WriteFile(path, decrypted, 0644)
	}
}
