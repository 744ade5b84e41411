package bsms

import "runtime"

// ClearBytes zeroes b in place. Scopes that hold K_enc, K_mac, or
// PBKDF2 output call this (the envelope functions via defer) so the
// material does not outlive the call that produced it; signing keys
// are zeroed through their own Zero method instead.
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
