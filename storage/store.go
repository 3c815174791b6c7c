package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var ErrPayloadTooLarge = errors.New("upload exceeds size limit")
var ErrBadName = errors.New("not a storage name")

// storage names carry an extension of 1-5 alphanumerics; anything else
// falls back to .mp4
var extRe = regexp.MustCompile(`^\.[a-z0-9]{1,5}$`)

const DefaultExt = ".mp4"

// NewName derives a fresh storage name from a client-supplied filename.
// Only the extension of the input survives; the rest of the name is a
// uuidv7, so two calls never collide in practice (48-bit millisecond
// timestamp plus 74 random bits; see DESIGN.md for the arithmetic).
// The result is a single path segment regardless of what the client sent.
func NewName(original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if !extRe.MatchString(ext) {
		ext = DefaultExt
	}
	return uuid.Must(uuid.NewV7()).String() + ext
}

// Store is a flat directory of artifacts with a per-file byte cap.
type Store struct {
	dir      string
	maxBytes int64
}

func New(dir string, maxBytes int64) *Store {
	return &Store{dir: dir, maxBytes: maxBytes}
}

func (s *Store) Dir() string {
	return s.dir
}

// Path resolves a storage name inside the store. Names containing path
// separators or traversal sequences are rejected so a caller can pass
// request input straight through.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", ErrBadName
	}
	return filepath.Join(s.dir, name), nil
}

// Save streams src into the store under name. Bytes land in a temporary
// file first and are promoted by rename, so a failed or oversized upload
// leaves nothing behind. Returns the byte count written.
func (s *Store) Save(name string, src io.Reader) (int64, error) {
	dstPath, err := s.Path(name)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return 0, fmt.Errorf("couldn't create storage dir %s: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return 0, err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	// the extra byte tells an at-limit upload apart from an over-limit one
	n, err := io.Copy(tmp, io.LimitReader(src, s.maxBytes+1))
	if err != nil {
		return 0, err
	}
	if n > s.maxBytes {
		return 0, ErrPayloadTooLarge
	}

	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), dstPath); err != nil {
		return 0, err
	}
	return n, nil
}
