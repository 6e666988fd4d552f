// Package storage keeps uploaded statements on disk, keyed by intake
// session, so a statement can be re-processed after a failed password
// attempt without a re-upload.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// FileInfo contains metadata about a stored file
type FileInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Path        string    `json:"path"` // Internal storage path
	CreatedAt   time.Time `json:"created_at"`
}

// Storage defines the interface for file storage operations
type Storage interface {
	// Upload stores a file under a session and returns its metadata
	Upload(ctx context.Context, sessionID, filename, contentType string, r io.Reader) (*FileInfo, error)

	// Download retrieves a file by its ID
	Download(ctx context.Context, sessionID string, fileID uuid.UUID) (io.ReadCloser, *FileInfo, error)

	// Delete removes a file by its ID
	Delete(ctx context.Context, sessionID string, fileID uuid.UUID) error

	// List returns all files for a session
	List(ctx context.Context, sessionID string) ([]*FileInfo, error)

	// GetInfo returns metadata for a file without downloading
	GetInfo(ctx context.Context, sessionID string, fileID uuid.UUID) (*FileInfo, error)

	// Purge removes everything stored for a session
	Purge(ctx context.Context, sessionID string) error
}

// Config holds storage configuration
type Config struct {
	LocalPath string
}

// New creates a Storage implementation based on configuration
func New(cfg *Config) (Storage, error) {
	return NewLocalStorage(cfg.LocalPath)
}
