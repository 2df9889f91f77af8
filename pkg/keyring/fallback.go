package keyring

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const tokenFileMode = 0600

// FileStore keeps the token in a file readable only by the owner.
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore returns a file store at path on fs.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{fs: fs, path: path}
}

func (f *FileStore) Get() (string, error) {
	data, err := afero.ReadFile(f.fs, f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return "", ErrNotFound
	}
	return tok, nil
}

// Set writes the token atomically through a temp file and rename.
func (f *FileStore) Set(token string) error {
	dir := filepath.Dir(f.path)
	if err := f.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp, err := afero.TempFile(f.fs, dir, ".rpc.token.tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		f.fs.Remove(tmpPath)
		return fmt.Errorf("write token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		f.fs.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := f.fs.Chmod(tmpPath, tokenFileMode); err != nil {
		f.fs.Remove(tmpPath)
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := f.fs.Rename(tmpPath, f.path); err != nil {
		f.fs.Remove(tmpPath)
		return fmt.Errorf("rename token file: %w", err)
	}
	return nil
}

func (f *FileStore) Delete() error {
	err := f.fs.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// FallbackStore uses primary and switches to secondary when primary fails
// for any reason other than a missing token.
type FallbackStore struct {
	primary   TokenStore
	secondary TokenStore
}

// NewFallbackStore chains two stores.
func NewFallbackStore(primary, secondary TokenStore) *FallbackStore {
	return &FallbackStore{primary: primary, secondary: secondary}
}

func (s *FallbackStore) Get() (string, error) {
	tok, err := s.primary.Get()
	if err == nil {
		return tok, nil
	}
	if errors.Is(err, ErrNotFound) {
		// The token may have been written to the secondary while the
		// primary was unavailable.
		if tok, err2 := s.secondary.Get(); err2 == nil {
			return tok, nil
		}
		return "", ErrNotFound
	}
	return s.secondary.Get()
}

func (s *FallbackStore) Set(token string) error {
	if err := s.primary.Set(token); err != nil {
		return s.secondary.Set(token)
	}
	return nil
}

func (s *FallbackStore) Delete() error {
	err1 := s.primary.Delete()
	err2 := s.secondary.Delete()
	if err1 != nil && err2 != nil {
		return err2
	}
	return nil
}
