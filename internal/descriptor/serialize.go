package descriptor

import (
	"fmt"
	"strings"
)

// WildcardMultiPath is the combined internal/external multi-path
// wildcard BIP-389 descriptors use natively.
const WildcardMultiPath = "<0;1>/*"

// WildcardCollapsed is the literal token BSMS substitutes for
// WildcardMultiPath on the wire: every key's derivation
// suffix becomes "/**" in the transmitted descriptor text.
const WildcardCollapsed = "/**"

// WildcardExternal and WildcardInternal are the two single branches
// WildcardCollapsed expands to.
const (
	WildcardExternal = "/0/*"
	WildcardInternal = "/1/*"
)

// Serialize renders a MultisigDescriptor with the given per-key
// derivation suffix (e.g. WildcardMultiPath, WildcardCollapsed,
// WildcardExternal, or "") appended to every key expression, with no
// checksum.
func Serialize(d *MultisigDescriptor, suffix string) string {
	keyExprs := make([]string, len(d.Keys))
	for i, k := range d.Keys {
		keyExprs[i] = FormatKeyOrigin(k) + suffix
	}
	inner := fmt.Sprintf("%d,%s", d.M, strings.Join(keyExprs, ","))

	switch d.Format {
	case Nested:
		return "sh(wsh(sortedmulti(" + inner + ")))"
	default:
		return "wsh(sortedmulti(" + inner + "))"
	}
}

// CollapseWildcard replaces the combined multi-path wildcard with the
// literal "/**" token used on the wire.
func CollapseWildcard(desc string) string {
	return strings.ReplaceAll(desc, WildcardMultiPath, WildcardCollapsed)
}

// ExpandExternal replaces the collapsed "/**" wildcard with the
// single external (receive) branch "/0/*", the form a signer needs
// to derive and verify the agreement address.
func ExpandExternal(desc string) string {
	return strings.ReplaceAll(desc, WildcardCollapsed, WildcardExternal)
}

// BuildTransmittedDescriptor serializes d with the combined wildcard,
// collapses it to "/**", and appends a BIP-380 checksum, exactly
// the coordinator round-2 descriptor-production sequence.
func BuildTransmittedDescriptor(d *MultisigDescriptor) (string, error) {
	raw := Serialize(d, WildcardMultiPath)
	collapsed := CollapseWildcard(raw)
	return AddChecksum(collapsed)
}
