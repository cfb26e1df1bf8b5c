package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/vietddude/docqueue/internal/core/domain"
	"github.com/vietddude/docqueue/internal/infra/storage"
)

// defaultPerm is the mode of a queue file created by the store.
const defaultPerm os.FileMode = 0o644

// Store keeps the queue as a newline-separated text file.
type Store struct {
	path string
}

// NewStore creates a file-backed queue store. The file itself is not created.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the queue file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the queue file is present.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat queue file: %w", err)
}

// ReadAll returns the non-blank lines of the queue file in order.
func (s *Store) ReadAll(ctx context.Context) ([]domain.Item, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %w", storage.ErrQueueNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("read queue file: %w", err)
	}
	return parse(string(data)), nil
}

// WriteAll replaces the queue file with items, one per line.
// The content goes to a temp file in the same directory which is then renamed
// over the queue file, so a crash never leaves a half-written queue.
// An existing queue file keeps its permission bits.
func (s *Store) WriteAll(ctx context.Context, items []domain.Item) error {
	perm, err := s.mode()
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp queue file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.WriteString(format(items)); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp queue file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp queue file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp queue file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return fmt.Errorf("chmod temp queue file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("replace queue file: %w", err)
	}
	return nil
}

func (s *Store) mode() (os.FileMode, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaultPerm, nil
	}
	if err != nil {
		return 0, fmt.Errorf("stat queue file: %w", err)
	}
	return info.Mode().Perm(), nil
}

// Append adds items to the end of the queue, creating the file if needed.
func (s *Store) Append(ctx context.Context, items ...domain.Item) error {
	existing, err := s.ReadAll(ctx)
	if err != nil && !errors.Is(err, storage.ErrQueueNotFound) {
		return err
	}
	return s.WriteAll(ctx, append(existing, domain.CleanItems(items)...))
}

func parse(content string) []domain.Item {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return domain.CleanItems(lines)
}

func format(items []domain.Item) string {
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, "\n") + "\n"
}
