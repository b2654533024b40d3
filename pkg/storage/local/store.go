package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/agrilinkmw/agrilink-backend/pkg/config"
	"github.com/agrilinkmw/agrilink-backend/pkg/logger"
	"github.com/google/uuid"
)

var filenameSanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Store keeps uploads on the local filesystem under a single base directory.
type Store struct {
	baseDir string
	maxSize int64
}

// New prepares the uploads directory and returns a disk-backed store.
func New(ctx context.Context, cfg config.UploadsConfig, logg *logger.Logger) (*Store, error) {
	if cfg.Dir == "" {
		return nil, errors.New("uploads dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads dir %q: %w", cfg.Dir, err)
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{"dir": cfg.Dir}), "local upload store ready")
	}
	return &Store{baseDir: cfg.Dir, maxSize: cfg.MaxSizeBytes}, nil
}

// Save writes the contents to a uniquely named file and returns the stored name.
// The stored name keeps the original extension so clients can set content types.
func (s *Store) Save(ctx context.Context, originalName string, contents io.Reader) (string, error) {
	if contents == nil {
		return "", errors.New("file contents are required")
	}

	name := uniqueName(originalName)
	path := filepath.Join(s.baseDir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer f.Close()

	reader := contents
	if s.maxSize > 0 {
		reader = io.LimitReader(contents, s.maxSize+1)
	}

	written, err := io.Copy(f, reader)
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing upload file: %w", err)
	}
	if s.maxSize > 0 && written > s.maxSize {
		os.Remove(path)
		return "", fmt.Errorf("upload exceeds maximum size of %d bytes", s.maxSize)
	}

	return name, nil
}

// Open returns a reader for the stored file.
func (s *Store) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening stored file %q: %w", name, err)
	}
	return f, nil
}

// Remove deletes the stored file if it exists.
func (s *Store) Remove(ctx context.Context, name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing stored file %q: %w", name, err)
	}
	return nil
}

// resolve rejects names that escape the base directory.
func (s *Store) resolve(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("file name is required")
	}
	cleaned := filepath.Base(filepath.Clean(name))
	if cleaned == "." || cleaned == ".." || cleaned != name {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

func uniqueName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	ext = filenameSanitizeRe.ReplaceAllString(ext, "")
	return uuid.NewString() + ext
}
