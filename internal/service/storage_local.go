package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pdf-converter/internal/domain"
)

// LocalStorage stores files on disk under the media root. Keys use forward
// slashes and must not escape the root.
type LocalStorage struct {
	root   string
	logger domain.Logger
}

// NewLocalStorage creates a disk-backed storage service rooted at mediaRoot.
func NewLocalStorage(mediaRoot string, logger domain.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(mediaRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &LocalStorage{root: mediaRoot, logger: logger}, nil
}

func (s *LocalStorage) Save(ctx context.Context, path string, r io.Reader) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return err
	}
	return f.Close()
}

func (s *LocalStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if os.IsNotExist(err) {
		return nil, domain.ErrDocumentNotFound
	}
	return f, err
}

func (s *LocalStorage) Delete(ctx context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	err = os.Remove(full)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// resolve joins the key onto the root and rejects traversal outside it.
func (s *LocalStorage) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(path))
	if strings.Contains(clean, "..") {
		return "", domain.ErrInvalidFile
	}
	return filepath.Join(s.root, clean), nil
}
