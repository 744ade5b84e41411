package transport

import (
	"fmt"
	"strings"

	"github.com/yourusername/bsms/internal/bsms"
)

// tokPrefix returns the first four hex characters of token, the
// filename-disambiguation prefix used throughout the artifact naming
// scheme.
func tokPrefix(token string) string {
	if len(token) < 4 {
		return token
	}
	return token[:4]
}

// TokenFilename is the filename a coordinator writes one distributed
// token under: "bsms_<tokprefix>.token".
func TokenFilename(token string) string {
	return fmt.Sprintf("bsms_%s.token", tokPrefix(token))
}

// SignerRound1Filename is the filename a signer writes its round-1
// artifact under, per encryption type.
func SignerRound1Filename(enc bsms.EncryptionType, token string) string {
	switch enc {
	case bsms.NoEncryption:
		return "bsms_sr1.txt"
	case bsms.StandardEncryption:
		return "bsms_sr1.dat"
	case bsms.ExtendedEncryption:
		return fmt.Sprintf("bsms_sr1_%s.dat", tokPrefix(token))
	default:
		return "bsms_sr1.dat"
	}
}

// CoordinatorRound2Filename is the filename a coordinator writes one
// round-2 artifact under, per encryption type.
func CoordinatorRound2Filename(enc bsms.EncryptionType, token string) string {
	switch enc {
	case bsms.NoEncryption:
		return "bsms_cr2.txt"
	case bsms.StandardEncryption:
		return "bsms_cr2.dat"
	case bsms.ExtendedEncryption:
		return fmt.Sprintf("bsms_cr2_%s.dat", tokPrefix(token))
	default:
		return "bsms_cr2.dat"
	}
}

const (
	round1GlobText = "bsms_sr1*.txt"
	round1GlobData = "bsms_sr1*.dat"
)

// matchesPrefix reports whether name contains the given token prefix,
// the EXTENDED auto-collection matching rule.
func matchesPrefix(name, prefix string) bool {
	return strings.Contains(name, prefix)
}
