package bsms

import (
	"fmt"
	"strings"
)

// Summarize renders the human-readable coordinator round-1 summary
// screen (M of N, address format, encryption type, numbered token
// list). The CLI prints it once the session has been persisted and
// the token files written.
func Summarize(session *CoordinatorSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d multisig\n", session.M, session.N)
	fmt.Fprintf(&b, "Address type: %s\n", session.AddressFormat)
	fmt.Fprintf(&b, "Encryption: %s\n", session.Encryption)

	switch session.Encryption {
	case NoEncryption:
		b.WriteString("No tokens (unencrypted)\n")
	default:
		b.WriteString("Tokens:\n")
		for i, tok := range session.Tokens {
			fmt.Fprintf(&b, "  %d: %s\n", i+1, tok)
		}
	}
	return b.String()
}
