package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ai-chat-backend/internal/domain"
)

// TestSaveWritesContentUnderUUIDFilename tests that saved files get a
// generated name keeping the original extension
func TestSaveWritesContentUnderUUIDFilename(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	content := []byte("hello world")
	response, err := store.Save("photo.JPG", "image/jpeg", content)
	if err != nil {
		t.Fatalf("expected no error saving, got: %v", err)
	}

	if response.Filename != "photo.JPG" {
		t.Errorf("expected original filename 'photo.JPG', got: %s", response.Filename)
	}

	if !strings.HasSuffix(response.SavedFilename, ".jpg") {
		t.Errorf("expected saved filename to keep lowercased extension, got: %s", response.SavedFilename)
	}

	if response.SavedFilename == "photo.JPG" {
		t.Error("expected saved filename to differ from original")
	}

	if response.URL != "/uploads/"+response.SavedFilename {
		t.Errorf("expected URL /uploads/%s, got: %s", response.SavedFilename, response.URL)
	}

	if response.Size != int64(len(content)) {
		t.Errorf("expected size %d, got: %d", len(content), response.Size)
	}

	saved, err := os.ReadFile(filepath.Join(store.Dir(), response.SavedFilename))
	if err != nil {
		t.Fatalf("expected saved file on disk, got: %v", err)
	}
	if !bytes.Equal(saved, content) {
		t.Errorf("saved content does not match original")
	}
}

// TestSaveGeneratesUniqueFilenames tests that two saves of the same
// original filename never collide
func TestSaveGeneratesUniqueFilenames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	first, err := store.Save("doc.txt", "text/plain", []byte("one"))
	if err != nil {
		t.Fatalf("expected no error saving, got: %v", err)
	}
	second, err := store.Save("doc.txt", "text/plain", []byte("two"))
	if err != nil {
		t.Fatalf("expected no error saving, got: %v", err)
	}

	if first.SavedFilename == second.SavedFilename {
		t.Errorf("expected distinct saved filenames, both were: %s", first.SavedFilename)
	}
}

// TestReadRoundTrip tests reading back a saved file
func TestReadRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	content := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	response, err := store.Save("img.jpg", "image/jpeg", content)
	if err != nil {
		t.Fatalf("expected no error saving, got: %v", err)
	}

	got, err := store.Read(response.SavedFilename)
	if err != nil {
		t.Fatalf("expected no error reading, got: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("read content does not match saved content")
	}
}

// TestPathReturnsErrFileNotFoundForMissingFile tests missing-file handling
func TestPathReturnsErrFileNotFoundForMissingFile(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	if _, err := store.Path("no-such-file.png"); !errors.Is(err, domain.ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got: %v", err)
	}

	if _, err := store.Read("no-such-file.png"); !errors.Is(err, domain.ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound from Read, got: %v", err)
	}
}

// TestPathRejectsTraversalFilenames tests that path components outside
// the upload directory are treated as absent
func TestPathRejectsTraversalFilenames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	for _, name := range []string{"../secret.txt", "a/b.txt", "..", "/etc/passwd"} {
		if _, err := store.Path(name); !errors.Is(err, domain.ErrFileNotFound) {
			t.Errorf("expected ErrFileNotFound for %q, got: %v", name, err)
		}
	}
}
