package bsms

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/pbkdf2"
)

// kdfPassword is the literal password mixed into every token's key
// derivation. It is not a secret; it is a fixed domain-separation
// constant shared by every BSMS implementation.
const kdfPassword = "No SPOF"

const kdfIterations = 2048
const kdfKeyLen = 32

// NormalizeToken trims surrounding whitespace, strips an optional
// "0x"/"0X" prefix and lower-cases the result. It does not validate
// length or hex-ness; call ValidateToken for that.
func NormalizeToken(raw string) string {
	t := strings.TrimSpace(raw)
	if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") {
		t = t[2:]
	}
	return strings.ToLower(t)
}

// ValidateToken accepts the "00" sentinel, or a pure-hex string of
// exactly 16 or 32 characters (64 or 128 bits of entropy).
func ValidateToken(token string) error {
	if token == SentinelToken {
		return nil
	}
	if len(token) != 16 && len(token) != 32 {
		return newInvalidTokenError("token must be the \"00\" sentinel or 16/32 hex characters")
	}
	if _, err := hex.DecodeString(token); err != nil {
		return newInvalidTokenError("token is not valid hex")
	}
	return nil
}

// DeriveKey computes K_enc for a non-sentinel token: PBKDF2-HMAC-
// SHA512 over the literal password "No SPOF", salted with the
// token's raw (hex-decoded) bytes, 2048 iterations, 32-byte output.
// The sentinel token has no key; callers must not invoke DeriveKey
// for it.
func DeriveKey(token string) ([]byte, error) {
	if token == SentinelToken {
		return nil, newInvalidTokenError("sentinel token has no derived key")
	}
	if err := ValidateToken(token); err != nil {
		return nil, err
	}
	tokenBytes, err := hex.DecodeString(token)
	if err != nil {
		return nil, newInvalidTokenError("token is not valid hex")
	}
	return pbkdf2.Key([]byte(kdfPassword), tokenBytes, kdfIterations, kdfKeyLen, sha512.New), nil
}

// DeriveMacKey computes K_mac = SHA-256(K_enc).
func DeriveMacKey(kEnc []byte) []byte {
	sum := sha256.Sum256(kEnc)
	return sum[:]
}

// DecimalDisplay renders a non-sentinel hex token as a base58 string
// suitable for manual transcription, mirroring the reference
// firmware's decimal/manual-entry display path. BSMS only ever
// exchanges hex tokens over its wire formats; this helper exists
// purely for operator-facing display when a token must be read aloud
// or typed by hand.
func DecimalDisplay(token string) (string, error) {
	if token == SentinelToken {
		return "", newInvalidTokenError("sentinel token has no manual-entry form")
	}
	raw, err := hex.DecodeString(token)
	if err != nil {
		return "", newInvalidTokenError("token is not valid hex")
	}
	return base58.Encode(raw), nil
}
