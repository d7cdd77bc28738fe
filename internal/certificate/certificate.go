// Package certificate locates participation certificates by email.
package certificate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

var (
	ErrEmailRequired = errors.New("email is required")
	ErrInvalidEmail  = errors.New("email has no local part")
	ErrNotFound      = errors.New("certificate not found")
)

// Certificate is an open certificate file. Callers must Close it.
type Certificate struct {
	afero.File
	// Filename is the name offered to the visitor on download.
	Filename string
	Size     int64
}

// Store serves certificates named "<email local part>.pdf" from a directory.
type Store struct {
	fs afero.Fs
}

// NewStore serves certificates from dir on the OS filesystem.
func NewStore(dir string) *Store {
	return NewStoreFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// NewStoreFs serves certificates from the root of fsys.
func NewStoreFs(fsys afero.Fs) *Store {
	return &Store{fs: afero.NewReadOnlyFs(fsys)}
}

// Prefix derives the certificate key from an email: its lowercased local part.
func Prefix(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmailRequired
	}
	local, _, _ := strings.Cut(email, "@")
	local = strings.ToLower(strings.TrimSpace(local))
	if local == "" || strings.ContainsAny(local, `/\`) || local == "." || local == ".." {
		return "", ErrInvalidEmail
	}
	return local, nil
}

// Open returns the certificate issued to email.
func (s *Store) Open(email string) (*Certificate, error) {
	prefix, err := Prefix(email)
	if err != nil {
		return nil, err
	}

	name := path.Join("/", prefix+".pdf")
	info, err := s.fs.Stat(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("stat certificate: %w", err)
	}
	if info.IsDir() {
		return nil, ErrNotFound
	}

	f, err := s.fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open certificate: %w", err)
	}
	return &Certificate{
		File:     f,
		Filename: fmt.Sprintf("certificate_%s.pdf", prefix),
		Size:     info.Size(),
	}, nil
}
