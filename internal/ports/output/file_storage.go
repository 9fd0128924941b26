package output

import "ai-chat-backend/internal/domain"

// FileStorage interface - Output port
// Defines what the application needs for storing uploaded files
type FileStorage interface {
	// Save writes the content under a fresh UUID filename that keeps the
	// original extension, and returns the stored file's metadata.
	Save(originalFilename, contentType string, content []byte) (*domain.UploadResponse, error)

	// Path resolves a stored filename to an absolute path on disk.
	// Returns ErrFileNotFound when the file does not exist.
	Path(filename string) (string, error)

	// Read returns the content of a stored file
	Read(filename string) ([]byte, error)

	// Dir returns the root directory files are stored in
	Dir() string
}
