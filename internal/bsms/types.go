// Package bsms implements the BIP-129 Bitcoin Secure Multisig Setup
// protocol engine: token lifecycle, authenticated envelope, round-1/
// round-2 message framing, and the coordinator/signer roles that
// build and verify them. Every function here is pure over its
// explicit inputs; I/O, persistence, and prompts are the caller's
// concern (see internal/transport, internal/settings, internal/cli).
package bsms

import "fmt"

// EncryptionType selects how round payloads are protected in transit.
type EncryptionType string

const (
	// StandardEncryption uses a single shared 64-bit token for every signer.
	StandardEncryption EncryptionType = "STANDARD"
	// ExtendedEncryption assigns each signer its own 128-bit token.
	ExtendedEncryption EncryptionType = "EXTENDED"
	// NoEncryption exchanges payloads in the clear under the "00" sentinel token.
	NoEncryption EncryptionType = "NO_ENCRYPTION"
)

func (e EncryptionType) String() string { return string(e) }

// AddressFormat selects the script type of the agreed multisig wallet.
type AddressFormat string

const (
	// NativeSegwit produces a wsh(sortedmulti(...)) P2WSH wallet.
	NativeSegwit AddressFormat = "P2WSH"
	// NestedSegwit produces a sh(wsh(sortedmulti(...))) P2SH-P2WSH wallet.
	NestedSegwit AddressFormat = "P2SH-P2WSH"
)

func (a AddressFormat) String() string { return string(a) }

// SessionKind tags which role a persisted session belongs to. Role is
// a tagged variant on the session struct, not a class hierarchy.
type SessionKind string

const (
	KindCoordinatorSession SessionKind = "coordinator"
	KindSignerSession      SessionKind = "signer"
)

// CoordinatorSession records one coordinator-run wallet setup across
// its two rounds. It is created at coordinator round 1 and persists
// (it is not destroyed) after being consumed at coordinator round 2.
type CoordinatorSession struct {
	M             int
	N             int
	AddressFormat AddressFormat
	Encryption    EncryptionType
	Tokens        []string // canonical hex tokens; see Validate
}

// Validate checks the structural invariants of a CoordinatorSession:
// 2 <= N <= 15, 1 <= M <= N, and the token slice shape implied by
// Encryption.
func (s *CoordinatorSession) Validate() error {
	if s.N < 2 || s.N > 15 {
		return newBoundsError(fmt.Sprintf("N must be between 2 and 15, got %d", s.N))
	}
	if s.M < 1 || s.M > s.N {
		return newBoundsError(fmt.Sprintf("M must be between 1 and N (%d), got %d", s.N, s.M))
	}
	switch s.Encryption {
	case NoEncryption:
		if len(s.Tokens) != 0 {
			return newBoundsError("NO_ENCRYPTION sessions must carry no tokens")
		}
	case StandardEncryption:
		if len(s.Tokens) != 1 {
			return newBoundsError("STANDARD sessions must carry exactly one token")
		}
		if len(s.Tokens[0]) != 16 {
			return newInvalidTokenError("STANDARD token must be 16 hex characters")
		}
	case ExtendedEncryption:
		if len(s.Tokens) != s.N {
			return newBoundsError(fmt.Sprintf("EXTENDED sessions must carry N=%d tokens, got %d", s.N, len(s.Tokens)))
		}
		for _, t := range s.Tokens {
			if len(t) != 32 {
				return newInvalidTokenError("EXTENDED tokens must be 32 hex characters")
			}
		}
	default:
		return newBoundsError(fmt.Sprintf("unknown encryption type %q", s.Encryption))
	}
	return nil
}

// TokenFor returns the token that authenticates signer index i
// (0-based) within this session: the shared token for STANDARD, the
// i'th token for EXTENDED, the sentinel otherwise.
func (s *CoordinatorSession) TokenFor(i int) string {
	switch s.Encryption {
	case StandardEncryption:
		return s.Tokens[0]
	case ExtendedEncryption:
		return s.Tokens[i]
	default:
		return SentinelToken
	}
}

// SignerSession is just a canonical token; multiple signer sessions
// may coexist on one device, one per participating wallet setup.
type SignerSession struct {
	Token string
}

// KeyContribution is the parsed, verified round-1 signer payload.
type KeyContribution struct {
	Token       string
	XFP         string
	Path        string // derivation path without the leading "m/"
	ExtendedKey string // xpub or tpub string
	Description string
	Signature   []byte // compact recoverable ECDSA signature
}

// DescriptorTemplate is the coordinator round-2 payload: a descriptor
// with the wildcard pair collapsed to "/**", the fixed path
// restriction line, and the joint first receive address.
type DescriptorTemplate struct {
	Descriptor string
	Address    string
}

// SentinelToken is the canonical representation of "no encryption".
const SentinelToken = "00"

// ProtocolVersion is the literal first line of every BSMS message.
const ProtocolVersion = "BSMS 1.0"

// PathRestrictions is the literal, fixed path-restrictions line BSMS
// allows; custom path restrictions are a non-goal.
const PathRestrictions = "/0/*,/1/*"

// MaxDescription is the maximum UTF-8 character length of a round-1
// free-form description.
const MaxDescription = 80
