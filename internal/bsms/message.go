package bsms

import (
	"strings"
	"unicode/utf8"
)

// BuildRound1Unsigned assembles the four-line round-1 signer message
// body that gets signed. keyOrigin is the "[xfp/path]xpub"
// string; description is the free-form text, at most
// MaxDescription UTF-8 characters.
func BuildRound1Unsigned(token string, keyOrigin string, description string) (string, error) {
	if utf8.RuneCountInString(description) > MaxDescription {
		return "", newBoundsError("description exceeds 80 characters")
	}
	return strings.Join([]string{ProtocolVersion, token, keyOrigin, description}, "\n"), nil
}

// AppendSignature appends the base64-encoded signature as the
// message's fifth line.
func AppendSignature(unsigned string, sigB64 string) string {
	return unsigned + "\n" + sigB64
}

// ParseRound1 splits a signed round-1 message into its five fields
// and requires the version line to match exactly.
func ParseRound1(body string) (token, keyOrigin, description, sigB64 string, err error) {
	lines := strings.Split(body, "\n")
	if len(lines) != 5 {
		return "", "", "", "", newVersionMismatchError("round-1 message must have exactly five lines")
	}
	if lines[0] != ProtocolVersion {
		return "", "", "", "", newVersionMismatchError(lines[0])
	}
	return lines[1], lines[2], lines[3], lines[4], nil
}

// UnsignedRound1Body reconstructs the four-line body that was signed,
// from the five parsed fields of a signed message.
func UnsignedRound1Body(token, keyOrigin, description string) string {
	return strings.Join([]string{ProtocolVersion, token, keyOrigin, description}, "\n")
}

// BuildRound2 assembles the four-line round-2 coordinator message
// body: version, descriptor (wildcard already collapsed to
// "/**" and checksummed), the fixed path-restrictions line, and the
// joint first receive address.
func BuildRound2(descriptor string, address string) string {
	return strings.Join([]string{ProtocolVersion, descriptor, PathRestrictions, address}, "\n")
}

// ParseRound2 splits a round-2 coordinator message into its
// descriptor and address fields, requiring the version line and the
// literal path-restrictions line to match exactly.
func ParseRound2(body string) (descriptor, address string, err error) {
	lines := strings.Split(body, "\n")
	if len(lines) != 4 {
		return "", "", newVersionMismatchError("round-2 message must have exactly four lines")
	}
	if lines[0] != ProtocolVersion {
		return "", "", newVersionMismatchError(lines[0])
	}
	if lines[2] != PathRestrictions {
		return "", "", newPathRestrictionInvalidError(lines[2])
	}
	return lines[1], lines[3], nil
}
