package bsms

import "fmt"

// FormatXFP renders a 32-bit master key fingerprint as 8 lowercase
// hex characters, the canonical display form used in key-origin
// strings and operator-facing messages.
func FormatXFP(xfp uint32) string {
	return fmt.Sprintf("%08x", xfp)
}
