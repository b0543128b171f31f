// Package filestore persists uploaded attachments on local disk and serves
// them back under the public /files/ prefix.
package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/scootcare/support-platform/internal/errs"
)

// MaxUploadSize caps attachment uploads at 10 MiB.
const MaxUploadSize = 10 << 20

// Store writes uploads to a directory and maps them to public URLs.
type Store struct {
	dir     string
	baseURL string
}

// New creates a store rooted at dir. URLs are built from publicBaseURL.
func New(dir, publicBaseURL string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Dir returns the directory uploads are written to.
func (s *Store) Dir() string { return s.dir }

// Save streams an upload to disk under a fresh name and returns its public
// URL. The original filename only contributes its extension, so path
// traversal in client-supplied names is inert.
func (s *Store) Save(name string, r io.Reader) (string, int64, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	filename := uuid.Must(uuid.NewV7()).String() + ext

	f, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", 0, errs.Upstream("filestore", err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		os.Remove(f.Name())
		return "", 0, errs.Upstream("filestore", err)
	}
	if written > MaxUploadSize {
		os.Remove(f.Name())
		return "", 0, errs.Validation("file", "exceeds maximum upload size")
	}

	return fmt.Sprintf("%s/files/%s", s.baseURL, filename), written, nil
}
