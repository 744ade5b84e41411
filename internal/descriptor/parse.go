package descriptor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseKeyOrigin parses a standalone "[xfp/path]xpub" key expression
// with no trailing derivation suffix, the form used in a BSMS round-1
// message's key-origin-and-xpub field.
func ParseKeyOrigin(s string) (KeyOrigin, error) {
	ko, suffix, err := parseKeyExpr(s)
	if err != nil {
		return KeyOrigin{}, err
	}
	if suffix != "" {
		return KeyOrigin{}, errors.New("key-origin expression must not carry a derivation suffix")
	}
	return ko, nil
}

// FormatKeyOrigin renders a KeyOrigin as "[xfp/path]xpub" with no
// trailing derivation suffix.
func FormatKeyOrigin(ko KeyOrigin) string {
	return fmt.Sprintf("[%08x/%s]%s", ko.XFP, ko.Path, ko.ExtendedKey)
}

// parseKeyExpr parses one "[xfp/path]ext[/suffix]" key expression as
// it appears inside a sortedmulti(...) argument list, returning the
// key origin and whatever trailing derivation suffix (possibly empty)
// followed the extended key.
func parseKeyExpr(s string) (KeyOrigin, string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") {
		return KeyOrigin{}, "", errors.New("key expression must begin with \"[\"")
	}
	end := strings.Index(s, "]")
	if end < 0 {
		return KeyOrigin{}, "", errors.New("key expression is missing closing \"]\"")
	}
	origin := s[1:end]
	rest := s[end+1:]

	originParts := strings.SplitN(origin, "/", 2)
	if len(originParts) != 2 || len(originParts[0]) != 8 {
		return KeyOrigin{}, "", errors.New("key origin must be \"xfp/path\" with an 8-hex-char fingerprint")
	}
	xfp64, err := strconv.ParseUint(originParts[0], 16, 32)
	if err != nil {
		return KeyOrigin{}, "", fmt.Errorf("key origin fingerprint is not valid hex: %w", err)
	}
	path := originParts[1]

	if rest == "" {
		return KeyOrigin{}, "", errors.New("key expression is missing an extended key")
	}
	var ext, suffix string
	if idx := strings.Index(rest, "/"); idx >= 0 {
		ext = rest[:idx]
		suffix = rest[idx:]
	} else {
		ext = rest
	}

	return KeyOrigin{XFP: uint32(xfp64), Path: path, ExtendedKey: ext}, suffix, nil
}

// ParseSortedMulti parses a "wsh(sortedmulti(M,key,...))" or
// "sh(wsh(sortedmulti(M,key,...)))" descriptor body (no "#checksum"
// suffix - split that off first with SplitChecksum). It requires
// every key to carry the same trailing derivation suffix and returns
// that suffix (e.g. "/**", "/0/*", or "" for none) alongside the
// parsed descriptor.
func ParseSortedMulti(body string) (*MultisigDescriptor, string, error) {
	var inner string
	var format ScriptType
	switch {
	case strings.HasPrefix(body, "wsh(sortedmulti(") && strings.HasSuffix(body, "))"):
		inner = strings.TrimSuffix(strings.TrimPrefix(body, "wsh(sortedmulti("), "))")
		format = Native
	case strings.HasPrefix(body, "sh(wsh(sortedmulti(") && strings.HasSuffix(body, ")))"):
		inner = strings.TrimSuffix(strings.TrimPrefix(body, "sh(wsh(sortedmulti("), ")))")
		format = Nested
	default:
		return nil, "", errors.New("descriptor is not a sortedmulti wsh(...) or sh(wsh(...)) multisig")
	}

	parts := strings.Split(inner, ",")
	if len(parts) < 3 {
		return nil, "", errors.New("sortedmulti requires M and at least two keys")
	}

	m, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, "", fmt.Errorf("sortedmulti threshold is not an integer: %w", err)
	}

	keys := make([]KeyOrigin, 0, len(parts)-1)
	var commonSuffix string
	for i, p := range parts[1:] {
		ko, suffix, err := parseKeyExpr(p)
		if err != nil {
			return nil, "", fmt.Errorf("key %d: %w", i+1, err)
		}
		if i == 0 {
			commonSuffix = suffix
		} else if suffix != commonSuffix {
			return nil, "", errors.New("every key in a sortedmulti descriptor must carry the same derivation suffix")
		}
		keys = append(keys, ko)
	}

	n := len(keys)
	if n < 2 || n > 15 {
		return nil, "", fmt.Errorf("sortedmulti key count must be between 2 and 15, got %d", n)
	}
	if m < 1 || m > n {
		return nil, "", fmt.Errorf("sortedmulti threshold %d is out of range for %d keys", m, n)
	}

	return &MultisigDescriptor{M: m, N: n, Format: format, Keys: keys}, commonSuffix, nil
}
