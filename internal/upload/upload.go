// Package upload stores user supplied images in a flat directory.
//
// Files are accepted on the strength of their client-supplied extension
// alone; there is no content sniffing. Stored names are the sanitised client
// names, so two uploads that sanitise to the same name overwrite each other.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrNoFile              = errors.New("no file uploaded")
	ErrExtensionNotAllowed = errors.New("file extension not allowed")
	ErrUnsafeFilename      = errors.New("filename is empty after sanitising")
)

// Result is either Accepted with the stored filename or Rejected with a reason.
type Result struct {
	Filename string
	Reason   error
}

func Accepted(filename string) Result { return Result{Filename: filename} }

func Rejected(reason error) Result { return Result{Reason: reason} }

func (r Result) Accepted() bool { return r.Reason == nil && r.Filename != "" }

type Store struct {
	dir     string
	allowed map[string]struct{}
}

func NewStore(dir string, allowedExtensions []string) *Store {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	return &Store{dir: dir, allowed: allowed}
}

func (s *Store) Dir() string {
	return s.dir
}

// AllowedFile reports whether the text after the last dot of filename is on
// the allow-list, ignoring case.
func (s *Store) AllowedFile(filename string) bool {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return false
	}
	_, ok := s.allowed[strings.ToLower(filename[i+1:])]
	return ok
}

// Accept validates and writes fh. A nil header or a header with an empty
// filename is rejected with ErrNoFile. The error return is only for I/O
// failures; validation outcomes are reported through Result.
func (s *Store) Accept(fh *multipart.FileHeader) (Result, error) {
	if fh == nil || fh.Filename == "" {
		return Rejected(ErrNoFile), nil
	}
	if !s.AllowedFile(fh.Filename) {
		return Rejected(ErrExtensionNotAllowed), nil
	}

	filename := SecureFilename(fh.Filename)
	if filename == "" || !s.AllowedFile(filename) {
		return Rejected(ErrUnsafeFilename), nil
	}

	src, err := fh.Open()
	if err != nil {
		return Result{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err := s.write(filename, src); err != nil {
		return Result{}, err
	}
	return Accepted(filename), nil
}

func (s *Store) write(filename string, src io.Reader) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create upload directory: %w", err)
	}

	// os.Create truncates, so a same-named earlier upload is replaced.
	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("save file: %w", err)
	}
	return dst.Close()
}

// SecureFilename reduces a client filename to a flat, ASCII-only name safe
// to join onto the upload directory. It may return "".
func SecureFilename(filename string) string {
	var ascii strings.Builder
	for _, r := range norm.NFKD.String(filename) {
		if r < unicode.MaxASCII {
			ascii.WriteRune(r)
		}
	}

	flat := strings.NewReplacer("/", " ", "\\", " ").Replace(ascii.String())
	joined := strings.Join(strings.Fields(flat), "_")

	var safe strings.Builder
	for _, r := range joined {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			safe.WriteRune(r)
		}
	}
	return strings.Trim(safe.String(), "._")
}
