package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ai-chat-backend/internal/domain"
	"ai-chat-backend/internal/ports/output"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Compile-time check that LocalStorage implements the output port
var _ output.FileStorage = (*LocalStorage)(nil)

// LocalStorage struct - Secondary/Driven adapter storing uploads on local disk
type LocalStorage struct {
	dir string
}

// NewLocalStorage func - Creates the upload directory if missing
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	logrus.Infof("Local file storage initialized at: %s", dir)

	return &LocalStorage{dir: dir}, nil
}

// Save func - Writes content under a fresh UUID filename keeping the original extension
func (s *LocalStorage) Save(originalFilename, contentType string, content []byte) (*domain.UploadResponse, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	savedFilename := uuid.New().String() + ext
	path := filepath.Join(s.dir, savedFilename)

	if err := os.WriteFile(path, content, 0o644); err != nil {
		logrus.Errorln(err)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &domain.UploadResponse{
		Filename:      originalFilename,
		SavedFilename: savedFilename,
		URL:           "/uploads/" + savedFilename,
		ContentType:   contentType,
		Size:          int64(len(content)),
	}, nil
}

// Path func - Resolves a stored filename to a path inside the upload directory
func (s *LocalStorage) Path(filename string) (string, error) {
	// Reject traversal attempts: only bare filenames are stored
	if filename != filepath.Base(filename) {
		return "", domain.ErrFileNotFound
	}

	path := filepath.Join(s.dir, filename)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", domain.ErrFileNotFound
		}
		return "", err
	}
	return path, nil
}

// Read func - Returns the content of a stored file
func (s *LocalStorage) Read(filename string) ([]byte, error) {
	path, err := s.Path(filename)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return content, nil
}

// Dir func
func (s *LocalStorage) Dir() string {
	return s.dir
}
