// Package descriptor implements BIP-380 output descriptor parsing,
// serialization, and checksum for the sortedmulti descriptors BSMS
// agrees on, plus the sortedmulti redeem-script and address
// derivation that turns such a descriptor into the agreement address.
package descriptor

// ScriptType selects the multisig wrapping: native segwit (wsh) or
// nested segwit (sh-wrapped wsh).
type ScriptType string

const (
	Native ScriptType = "wsh"
	Nested ScriptType = "sh-wsh"
)

// KeyOrigin is one "[xfp/path]xpub" key expression: a master key
// fingerprint, the derivation path from that master (without the
// leading "m/", hardened steps marked with "'"), and the resulting
// extended public key (xpub or tpub, SLIP-132 variants forbidden).
type KeyOrigin struct {
	XFP         uint32
	Path        string
	ExtendedKey string
}

// MultisigDescriptor is a fully parsed sortedmulti descriptor: M-of-N
// over Keys in the order they appear, wrapped per Format.
type MultisigDescriptor struct {
	M      int
	N      int
	Format ScriptType
	Keys   []KeyOrigin
}
