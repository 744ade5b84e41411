//go:build !windows

package transport

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// getAvailableSpace returns available disk space in bytes for path.
func getAvailableSpace(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("failed to get disk space: %w", err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}
