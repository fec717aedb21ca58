package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEncryptDecryptRoundtrip(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	// Write unencrypted document
	testFile := filepath.Join(dir, "ledger.json")
	original := []byte(`{"accounts":[],"transactions":[]}`)

	if err := store.WriteFile(testFile, original, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	// Verify unencrypted content
	read, err := store.ReadFile(testFile)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(read) != string(original) {
		t.Errorf("Content mismatch before encryption")
	}

	// Enable encryption
	password := "testpassword123"
	if err := store.EnableEncryption(password); err != nil {
		t.Fatalf("Failed to enable encryption: %v", err)
	}

	if !store.IsEncrypted() {
		t.Error("Expected IsEncrypted() to return true")
	}

	// Verify file is encrypted on disk
	rawData, _ := os.ReadFile(testFile)
	if !isAgeEncrypted(rawData) {
		t.Error("File should be encrypted on disk")
	}

	// Read should still return original content (decrypted)
	read, err = store.ReadFile(testFile)
	if err != nil {
		t.Fatalf("Failed to read encrypted file: %v", err)
	}
	if string(read) != string(original) {
		t.Errorf("Content mismatch after encryption: got %q, want %q", string(read), string(original))
	}

	// Lock and unlock
	store.Lock()
	if store.IsUnlocked() {
		t.Error("Expected IsUnlocked() to return false after Lock")
	}
	if err := store.Unlock(password); err != nil {
		t.Fatalf("Failed to unlock: %v", err)
	}

	// Read again after unlock
	read, err = store.ReadFile(testFile)
	if err != nil {
		t.Fatalf("Failed to read after unlock: %v", err)
	}
	if string(read) != string(original) {
		t.Errorf("Content mismatch after unlock")
	}

	// Disable encryption
	if err := store.DisableEncryption(password); err != nil {
		t.Fatalf("Failed to disable encryption: %v", err)
	}

	if store.IsEncrypted() {
		t.Error("Expected IsEncrypted() to return false after disable")
	}

	// Verify file is decrypted on disk
	rawData, _ = os.ReadFile(testFile)
	if isAgeEncrypted(rawData) {
		t.Error("File should be decrypted on disk")
	}
	if string(rawData) != string(original) {
		t.Errorf("Raw content mismatch after decryption")
	}
}

func TestWrongPassword(t *testing.T) {
	dir := t.TempDir()
	store, _ := New(dir)

	testFile := filepath.Join(dir, "ledger.json")
	if err := store.WriteFile(testFile, []byte(`{"test": true}`), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if err := store.EnableEncryption("correctpassword"); err != nil {
		t.Fatalf("Failed to enable encryption: %v", err)
	}

	store.Lock()

	err := store.Unlock("wrongpassword")
	if err == nil {
		t.Error("Expected error with wrong password")
	}
}

func TestPasswordTooShort(t *testing.T) {
	dir := t.TempDir()
	store, _ := New(dir)

	err := store.EnableEncryption("short")
	if err == nil {
		t.Error("Expected error for short password")
	}
}

func TestEnableEncryptionSkipsNonJSON(t *testing.T) {
	dir := t.TempDir()
	store, _ := New(dir)

	otherFile := filepath.Join(dir, "notes.txt")
	content := []byte("plain text notes")
	if err := store.WriteFile(otherFile, content, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if err := store.EnableEncryption("testpassword123"); err != nil {
		t.Fatalf("Failed to enable encryption: %v", err)
	}

	// Migration only converts JSON documents
	rawData, _ := os.ReadFile(otherFile)
	if isAgeEncrypted(rawData) {
		t.Error("Non-JSON file should not be encrypted by migration")
	}
	if string(rawData) != string(content) {
		t.Error("Non-JSON file content should be unchanged")
	}
}

func TestNewFilesEncrypted(t *testing.T) {
	dir := t.TempDir()
	store, _ := New(dir)

	if err := store.EnableEncryption("testpassword123"); err != nil {
		t.Fatalf("Failed to enable encryption: %v", err)
	}

	// Write a new file after enabling - should be encrypted
	newFile := filepath.Join(dir, "snapshots", "ledger-pre-import-abc.json")
	content := []byte(`{"accounts":[]}`)
	if err := store.WriteFile(newFile, content, 0644); err != nil {
		t.Fatalf("Failed to write new file: %v", err)
	}

	rawData, _ := os.ReadFile(newFile)
	if !isAgeEncrypted(rawData) {
		t.Error("New file should be encrypted on disk")
	}

	// But ReadFile should return decrypted content
	read, err := store.ReadFile(newFile)
	if err != nil {
		t.Fatalf("Failed to read new file: %v", err)
	}
	if string(read) != string(content) {
		t.Errorf("Content mismatch: got %q, want %q", string(read), string(content))
	}
}

func TestDetectsExistingMarker(t *testing.T) {
	dir := t.TempDir()

	store, _ := New(dir)
	if err := store.EnableEncryption("testpassword123"); err != nil {
		t.Fatalf("Failed to enable encryption: %v", err)
	}

	// A fresh Storage over the same directory starts encrypted and locked
	reopened, _ := New(dir)
	if !reopened.IsEncrypted() {
		t.Error("Expected marker file to be detected")
	}
	if reopened.IsUnlocked() {
		t.Error("Expected reopened storage to be locked")
	}
}
