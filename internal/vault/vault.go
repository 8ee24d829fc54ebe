// Package vault stores assets on the local filesystem beneath a vault root.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrOutsideVault is returned for logical paths that resolve above the root.
var ErrOutsideVault = errors.New("path escapes vault")

// FS is a vault rooted at a directory on disk.
type FS struct {
	root string
}

// Open returns the vault at root, which must be an existing directory.
func Open(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve vault root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open vault: %s is not a directory", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute vault directory.
func (v *FS) Root() string { return v.root }

// Abs maps a logical vault path ("/Assets/Notes") to a host path. Leading
// slashes are relative to the vault root.
func (v *FS) Abs(logical string) (string, error) {
	rel := path.Clean(strings.TrimLeft(strings.ReplaceAll(logical, "\\", "/"), "/"))
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s: %w", logical, ErrOutsideVault)
	}
	if rel == "." {
		return v.root, nil
	}
	return filepath.Join(v.root, filepath.FromSlash(rel)), nil
}

// CreateFolder creates the folder and its parents. If the folder already
// existed the returned error wraps fs.ErrExist.
func (v *FS) CreateFolder(_ context.Context, logical string) error {
	dir, err := v.Abs(logical)
	if err != nil {
		return err
	}
	if info, err := os.Stat(dir); err == nil {
		if info.IsDir() {
			return fmt.Errorf("folder %s: %w", logical, fs.ErrExist)
		}
		return fmt.Errorf("folder %s: not a directory", logical)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create folder %s: %w", logical, err)
	}
	return nil
}

// CreateBinaryFile writes data to a new file. It never replaces an existing
// file.
func (v *FS) CreateBinaryFile(_ context.Context, logical string, data []byte) error {
	dst, err := v.Abs(logical)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("create file %s: %w", logical, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write file %s: %w", logical, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", logical, err)
	}
	return nil
}
