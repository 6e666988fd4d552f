package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStorage implements Storage using the local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local filesystem storage
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// Upload stores a file under a session and returns its metadata
func (s *LocalStorage) Upload(ctx context.Context, sessionID, filename, contentType string, r io.Reader) (*FileInfo, error) {
	fileID := uuid.New()

	sessionDir, err := s.sessionDir(sessionID)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	// Sanitize filename and add UUID prefix for uniqueness
	safeFilename := sanitizeFilename(filename)
	storedFilename := fmt.Sprintf("%s_%s", fileID.String()[:8], safeFilename)
	filePath := filepath.Join(sessionDir, storedFilename)

	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(filePath) // Cleanup on error
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	info := &FileInfo{
		ID:          fileID,
		Name:        filename,
		Size:        size,
		ContentType: contentType,
		Path:        storedFilename,
		CreatedAt:   time.Now(),
	}

	if err := s.saveMetadata(sessionID, fileID, info); err != nil {
		os.Remove(filePath) // Cleanup on error
		return nil, err
	}

	return info, nil
}

// Download retrieves a file by its ID
func (s *LocalStorage) Download(ctx context.Context, sessionID string, fileID uuid.UUID) (io.ReadCloser, *FileInfo, error) {
	info, err := s.GetInfo(ctx, sessionID, fileID)
	if err != nil {
		return nil, nil, err
	}

	sessionDir, err := s.sessionDir(sessionID)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(filepath.Join(sessionDir, info.Path))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	return f, info, nil
}

// Delete removes a file by its ID
func (s *LocalStorage) Delete(ctx context.Context, sessionID string, fileID uuid.UUID) error {
	info, err := s.GetInfo(ctx, sessionID, fileID)
	if err != nil {
		return err
	}

	sessionDir, err := s.sessionDir(sessionID)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(sessionDir, info.Path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	os.Remove(filepath.Join(sessionDir, ".meta", fileID.String()+".json"))

	return nil
}

// List returns all files for a session
func (s *LocalStorage) List(ctx context.Context, sessionID string) ([]*FileInfo, error) {
	sessionDir, err := s.sessionDir(sessionID)
	if err != nil {
		return nil, err
	}
	metaDir := filepath.Join(sessionDir, ".meta")
	if _, err := os.Stat(metaDir); os.IsNotExist(err) {
		return []*FileInfo{}, nil
	}

	entries, err := os.ReadDir(metaDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}

	files := make([]*FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id, err := uuid.Parse(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}

		info, err := s.GetInfo(ctx, sessionID, id)
		if err != nil {
			continue
		}
		files = append(files, info)
	}

	return files, nil
}

// GetInfo returns metadata for a file without downloading
func (s *LocalStorage) GetInfo(ctx context.Context, sessionID string, fileID uuid.UUID) (*FileInfo, error) {
	sessionDir, err := s.sessionDir(sessionID)
	if err != nil {
		return nil, err
	}
	metaPath := filepath.Join(sessionDir, ".meta", fileID.String()+".json")

	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", fileID)
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var info FileInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	return &info, nil
}

// Purge removes everything stored for a session
func (s *LocalStorage) Purge(ctx context.Context, sessionID string) error {
	sessionDir, err := s.sessionDir(sessionID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(sessionDir); err != nil {
		return fmt.Errorf("failed to purge session storage: %w", err)
	}
	return nil
}

// sessionDir resolves a session's directory, rejecting IDs that would
// escape the base path.
func (s *LocalStorage) sessionDir(sessionID string) (string, error) {
	safe := sanitizeFilename(sessionID)
	if safe == "" || safe != sessionID {
		return "", fmt.Errorf("invalid session id: %q", sessionID)
	}
	return filepath.Join(s.basePath, safe), nil
}

// saveMetadata saves file metadata to a JSON file
func (s *LocalStorage) saveMetadata(sessionID string, fileID uuid.UUID, info *FileInfo) error {
	sessionDir, err := s.sessionDir(sessionID)
	if err != nil {
		return err
	}
	metaDir := filepath.Join(sessionDir, ".meta")
	if err := os.MkdirAll(metaDir, 0755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}

	metaPath := filepath.Join(metaDir, fileID.String()+".json")
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(metaPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	return nil
}

// sanitizeFilename removes unsafe characters from filenames
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
