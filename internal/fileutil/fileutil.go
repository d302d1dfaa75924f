// Package fileutil provides file and path utility functions.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// TempDir creates a uniquely-named scratch directory and returns its
// path with a cleanup function that removes the whole tree. The
// directory is exclusively owned by one invocation; cleanup is
// best-effort and safe to call multiple times.
func TempDir(prefix string) (dir string, cleanup func(), err error) {
	dir, err = os.MkdirTemp("", prefix)
	if err != nil {
		return "", nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	cleanup = func() { _ = os.RemoveAll(dir) }
	return dir, cleanup, nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// NonEmptyFile returns true if the path is a regular file with at least
// one byte of content.
func NonEmptyFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

// MoveFile moves src to dst, replacing dst if it exists. Rename is
// tried first; a copy-and-remove fallback handles cross-device moves
// (scratch directories often live on a different filesystem than the
// destination).
func MoveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// copyFile copies src to dst preserving nothing but content.
func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- src is an internally-produced scratch path
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst) // #nosec G304 -- dst is the caller-requested output path
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("copying content: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("closing destination: %w", err)
	}
	return nil
}
