// Package atomicfile replaces a file's contents without ever exposing
// a partially written result: data lands in a temporary file in the
// destination's directory and only reaches the final name through
// rename. Both the settings store and the round-artifact transport
// write through it.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes data to filename with the given permissions. The
// destination directory is created if missing. On any failure the
// destination is left as it was; no temp file survives.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmpPath, err := writeTemp(dir, data, perm)
	if err != nil {
		return err
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", filename, err)
	}
	return nil
}

// writeTemp stages data in a fresh temp file inside dir, synced and
// chmodded, and returns its path. The file is removed again if any
// step fails.
func writeTemp(dir string, data []byte, perm os.FileMode) (string, error) {
	f, err := os.CreateTemp(dir, ".stage-*")
	if err != nil {
		return "", fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	name := f.Name()

	err = fill(f, data, perm)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

func fill(f *os.File, data []byte, perm os.FileMode) error {
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Chmod(perm); err != nil {
		return fmt.Errorf("set temp file permissions: %w", err)
	}
	return nil
}
