package transport

import (
	"errors"
	"fmt"

	usbdrivedetector "github.com/SonarBeserk/gousbdrivedetector"

	"github.com/yourusername/bsms/internal/bsms"
)

// spaceSlack is extra headroom required beyond the artifact's own
// size before a write is attempted, so a nearly-full device fails the
// preflight check rather than the write itself.
const spaceSlack = 4096

// checkSpace raises OutOfSpace if the transport's directory does not
// have at least needed+spaceSlack bytes free, the preflight every
// round-file write performs before committing.
func (d *Disk) checkSpace(needed uint64) error {
	avail, err := getAvailableSpace(d.Dir)
	if err != nil {
		return fmt.Errorf("failed to check available space: %w", err)
	}
	if avail < needed+spaceSlack {
		return &bsms.Error{Kind: bsms.KindOutOfSpace, Msg: fmt.Sprintf("only %d bytes free, need %d", avail, needed+spaceSlack)}
	}
	return nil
}

// DetectRemovableDisks returns the mount points of every detected
// removable storage device, the candidate set a CLI offers the
// operator when choosing where to write or read BSMS round artifacts.
func DetectRemovableDisks() ([]string, error) {
	devices, err := usbdrivedetector.Detect()
	if err != nil {
		return nil, fmt.Errorf("removable disk detection failed: %w", err)
	}
	if len(devices) == 0 {
		return nil, errors.New("no removable storage devices found")
	}
	return devices, nil
}
