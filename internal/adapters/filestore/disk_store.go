package filestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DiskStore keeps attachment bytes on the local filesystem under
// <Dir>/<year>/<month>/<uuid>_<basename>. Returned paths are relative to
// Dir, which is what attachment rows persist.
type DiskStore struct {
	Dir string
}

func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{Dir: dir}
}

func (s *DiskStore) Save(filename string, r io.Reader) (string, int64, error) {
	if s.Dir == "" {
		return "", 0, errors.New("disk store: dir is empty")
	}

	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "upload"
	}

	now := time.Now().UTC()
	relDir := filepath.Join(now.Format("2006"), now.Format("01"))
	relPath := filepath.Join(relDir, uuid.NewString()+"_"+base)

	absDir := filepath.Join(s.Dir, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("disk store: create %q: %w", absDir, err)
	}

	absPath := filepath.Join(s.Dir, relPath)
	f, err := os.Create(absPath)
	if err != nil {
		return "", 0, fmt.Errorf("disk store: create %q: %w", absPath, err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(absPath)
		return "", 0, fmt.Errorf("disk store: write %q: %w", absPath, err)
	}

	return relPath, size, nil
}

func (s *DiskStore) Open(path string) (io.ReadCloser, error) {
	abs, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("disk store: open %q: %w", path, err)
	}
	return f, nil
}

func (s *DiskStore) Remove(path string) error {
	abs, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("disk store: remove %q: %w", path, err)
	}
	return nil
}

// resolve rejects paths that escape the store directory.
func (s *DiskStore) resolve(path string) (string, error) {
	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("disk store: invalid path %q", path)
	}
	return filepath.Join(s.Dir, clean), nil
}
