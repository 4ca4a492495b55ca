package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalEvidenceStorage keeps evidence photos on the local filesystem. It
// stands in for cloud blob storage in development and tests; references are
// random UUID keys so they leak nothing about the uploader.
type LocalEvidenceStorage struct {
	photosDir string
}

func NewLocalEvidenceStorage(uploadsDir string) (*LocalEvidenceStorage, error) {
	photosDir := filepath.Join(uploadsDir, "evidence")
	if err := os.MkdirAll(photosDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create evidence directory: %w", err)
	}
	return &LocalEvidenceStorage{photosDir: photosDir}, nil
}

func (s *LocalEvidenceStorage) Store(ctx context.Context, reader io.Reader, contentType string) (string, error) {
	ref := uuid.New().String()

	file, err := os.Create(filepath.Join(s.photosDir, ref))
	if err != nil {
		return "", fmt.Errorf("failed to create evidence file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return "", fmt.Errorf("failed to write evidence file: %w", err)
	}
	return ref, nil
}

func (s *LocalEvidenceStorage) Exists(ctx context.Context, ref string) (bool, int64, error) {
	info, err := os.Stat(filepath.Join(s.photosDir, ref))
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}

func (s *LocalEvidenceStorage) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(s.photosDir, ref))
	if err != nil {
		return nil, fmt.Errorf("failed to open evidence file: %w", err)
	}
	return file, nil
}

func (s *LocalEvidenceStorage) Delete(ctx context.Context, ref string) error {
	err := os.Remove(filepath.Join(s.photosDir, ref))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete evidence file: %w", err)
	}
	return nil
}
