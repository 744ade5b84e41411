package descriptor

import (
	"errors"
	"strings"
)

// inputCharset is BIP-380's fixed 64-symbol alphabet for descriptor
// checksum input; a character's index mod 32 feeds the polymod, its
// index div 32 (0, 1, or 2) feeds the three-wide class accumulator.
const inputCharset = "0123456789()[],'/*abcdefgh@:$%{}" +
	"IJKLMNOPQRSTUVWXYZ&+-.;<=>?!^_|~" +
	"ijklmnopqrstuvwxyzABCDEFGH`#\"\\ "

// checksumCharset is the 32-symbol bech32-style output alphabet.
const checksumCharset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

func polyMod(c uint64, val int) uint64 {
	c0 := byte(c >> 35)
	c = ((c & 0x7ffffffff) << 5) ^ uint64(val)
	if c0&1 != 0 {
		c ^= 0xf5dee51989
	}
	if c0&2 != 0 {
		c ^= 0xa9fdca3312
	}
	if c0&4 != 0 {
		c ^= 0x1bab10e32d
	}
	if c0&8 != 0 {
		c ^= 0x3706b1677a
	}
	if c0&16 != 0 {
		c ^= 0x644d626ffd
	}
	return c
}

// checksum computes the 8-character BIP-380 descriptor checksum of a
// descriptor string that does not itself carry a "#" suffix.
func checksum(descriptor string) (string, bool) {
	var c uint64 = 1
	cls := 0
	clsCount := 0

	for _, ch := range descriptor {
		pos := strings.IndexRune(inputCharset, ch)
		if pos < 0 {
			return "", false
		}
		c = polyMod(c, pos&31)
		cls = cls*3 + (pos >> 5)
		clsCount++
		if clsCount == 3 {
			c = polyMod(c, cls)
			cls = 0
			clsCount = 0
		}
	}
	if clsCount > 0 {
		c = polyMod(c, cls)
	}
	for i := 0; i < 8; i++ {
		c = polyMod(c, 0)
	}
	c ^= 1

	out := make([]byte, 8)
	for j := 0; j < 8; j++ {
		out[j] = checksumCharset[(c>>(5*(7-j)))&31]
	}
	return string(out), true
}

// AddChecksum appends "#" plus the BIP-380 checksum to a descriptor
// string that does not already carry one.
func AddChecksum(descriptorStr string) (string, error) {
	sum, ok := checksum(descriptorStr)
	if !ok {
		return "", errors.New("descriptor contains a character outside the BIP-380 checksum charset")
	}
	return descriptorStr + "#" + sum, nil
}

// SplitChecksum separates a descriptor's body from its "#checksum"
// suffix and verifies the checksum, returning the bare body.
func SplitChecksum(full string) (string, error) {
	idx := strings.LastIndex(full, "#")
	if idx < 0 {
		return "", errors.New("descriptor is missing its \"#\" checksum")
	}
	body := full[:idx]
	given := full[idx+1:]
	if len(given) != 8 {
		return "", errors.New("descriptor checksum must be 8 characters")
	}
	want, ok := checksum(body)
	if !ok || want != given {
		return "", errors.New("descriptor checksum does not match")
	}
	return body, nil
}
