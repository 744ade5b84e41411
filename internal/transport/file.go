// Package transport implements the filesystem-backed "read file by
// pattern" / "write bytes" transport BSMS's engine consumes through
// its abstract transport interface, plus the free-space
// preflight and auto-collection rules for reading a directory of
// signer round-1 artifacts.
package transport

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/bsms/internal/atomicfile"
)

// Disk is a filesystem-backed transport rooted at one directory
// (a removable disk mount point, or any ordinary directory when
// running off a regular machine).
type Disk struct {
	Dir string
}

// New builds a Disk transport rooted at dir.
func New(dir string) *Disk {
	return &Disk{Dir: dir}
}

// WriteFile atomically writes data under name inside the transport's
// directory, after checking there is enough free space.
func (d *Disk) WriteFile(name string, data []byte, perm os.FileMode) error {
	if err := d.checkSpace(uint64(len(data))); err != nil {
		return err
	}
	return atomicfile.WriteFile(filepath.Join(d.Dir, name), data, perm)
}

// ReadFile reads the named file from the transport's directory.
func (d *Disk) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(d.Dir, name))
}

// ListPattern returns the base names of every file in the transport's
// directory matching glob (a filepath.Match-style pattern, e.g.
// "bsms_sr1*.dat").
func (d *Disk) ListPattern(glob string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(d.Dir, glob))
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", glob, err)
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = filepath.Base(m)
	}
	return names, nil
}
