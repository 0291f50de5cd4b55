package ports

import "io"

// Port: storage for attachment file bytes. Save returns the relative path
// the bytes were written under, which is what attachment rows persist.
type FileStore interface {
	Save(filename string, r io.Reader) (path string, size int64, err error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}
