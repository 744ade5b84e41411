package bsms

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"

	"github.com/yourusername/bsms/internal/descriptor"
	"github.com/yourusername/bsms/internal/hdkey"
)

// ScriptHint selects which of the three account-level path templates
// a signer uses for round 1.
type ScriptHint string

const (
	HintUnknown ScriptHint = "unknown"
	HintNative  ScriptHint = "native"
	HintNested  ScriptHint = "nested"
)

// Round1Input bundles a signer round-1 invocation's parameters.
// Encryption mirrors the coordinator's choice for this session (the
// signer learns it out of band, the same way it learns the token
// itself) and selects the outgoing filename convention; whether the
// body is envelope-encrypted follows from the token alone, sentinel
// meaning plaintext.
type Round1Input struct {
	Token       string
	Account     uint32
	Hint        ScriptHint
	Description string
	XFP         uint32
	Root        *hdkeychain.ExtendedKey
	Encryption  EncryptionType
}

// Round1Output is what a successful signer round-1 produces.
type Round1Output struct {
	Session    SignerSession
	Body       string // the signed five-line text form
	Payload    []byte // what actually goes out: Body verbatim, or its envelope
	Encryption EncryptionType
}

// SignerRound1 derives the account-level key for the requested script
// hint, signs the round-1 message body, and envelope-encrypts it if
// the token requires encryption.
func SignerRound1(svc *hdkey.Service, in Round1Input) (*Round1Output, error) {
	token := NormalizeToken(in.Token)
	if err := ValidateToken(token); err != nil {
		return nil, err
	}

	var path string
	switch in.Hint {
	case HintNative:
		path = svc.NativeSegwitPath(in.Account)
	case HintNested:
		path = svc.NestedSegwitPath(in.Account)
	default:
		path = svc.UnknownPath(in.Account)
	}

	node, err := svc.DerivePath(in.Root, path)
	if err != nil {
		return nil, newKeyFormatError("failed to derive account key", err)
	}
	xpub, err := svc.GetExtendedPublicKey(node)
	if err != nil {
		return nil, newKeyFormatError("failed to serialize extended public key", err)
	}
	keyOrigin := descriptor.FormatKeyOrigin(descriptor.KeyOrigin{XFP: in.XFP, Path: path, ExtendedKey: xpub})

	unsigned, err := BuildRound1Unsigned(token, keyOrigin, in.Description)
	if err != nil {
		return nil, err
	}

	priv, err := svc.GetPrivateKey(node)
	if err != nil {
		return nil, newKeyFormatError("failed to obtain signing key", err)
	}
	defer priv.Zero()
	sig := SignMessage(priv, []byte(unsigned))

	signed := AppendSignature(unsigned, base64.StdEncoding.EncodeToString(sig))

	out := &Round1Output{
		Session:    SignerSession{Token: token},
		Body:       signed,
		Encryption: in.Encryption,
	}

	if token == SentinelToken {
		out.Payload = []byte(signed)
		return out, nil
	}

	kEnc, err := DeriveKey(token)
	if err != nil {
		return nil, err
	}
	envelope, err := EncryptEnvelope(kEnc, token, signed)
	if err != nil {
		return nil, err
	}
	out.Payload = envelope
	return out, nil
}

// Round2Result is what a successful signer round-2 produces: the
// verified descriptor, the verified agreement address, and the
// signer's own key-origin entry within the descriptor.
type Round2Result struct {
	Descriptor     *descriptor.MultisigDescriptor
	DescriptorText string // the transmitted descriptor text, checksum included
	Address        string
	Self           descriptor.KeyOrigin
}

// SignerRound2 verifies a coordinator round-2 payload end to end:
// decrypt, parse, expand the wildcard, locate self, re-derive and
// compare the device's own key, and recompute and compare the
// agreement address.
func SignerRound2(svc *hdkey.Service, session SignerSession, payload []byte, xfp uint32, root *hdkeychain.ExtendedKey) (*Round2Result, error) {
	var body string
	if session.Token != SentinelToken {
		kEnc, err := DeriveKey(session.Token)
		if err != nil {
			return nil, err
		}
		pt, err := DecryptEnvelope(kEnc, session.Token, payload)
		if err != nil {
			return nil, err
		}
		body = pt
	} else {
		body = string(payload)
	}

	descStr, address, err := ParseRound2(body)
	if err != nil {
		return nil, err
	}

	// A descriptor arriving without its "#" checksum gets one
	// appended; one arriving with a checksum must verify against it.
	var descBody string
	if strings.Contains(descStr, "#") {
		descBody, err = descriptor.SplitChecksum(descStr)
		if err != nil {
			return nil, newDescriptorInvalidError("invalid descriptor checksum", err)
		}
	} else {
		descBody = descStr
		descStr, err = descriptor.AddChecksum(descStr)
		if err != nil {
			return nil, newDescriptorInvalidError("failed to append descriptor checksum", err)
		}
	}

	expanded := descriptor.ExpandExternal(descBody)
	parsed, suffix, err := descriptor.ParseSortedMulti(expanded)
	if err != nil {
		return nil, newDescriptorInvalidError("failed to parse descriptor", err)
	}
	if suffix != descriptor.WildcardExternal {
		return nil, newDescriptorInvalidError(fmt.Sprintf("unexpected derivation suffix %q after wildcard expansion", suffix), nil)
	}

	for _, k := range parsed.Keys {
		if _, err := svc.ValidateExtendedPublicKey(k.ExtendedKey); err != nil {
			return nil, newKeyFormatError("descriptor key failed validation", err)
		}
	}

	var self *descriptor.KeyOrigin
	matches := 0
	for i := range parsed.Keys {
		if parsed.Keys[i].XFP == xfp {
			matches++
			self = &parsed.Keys[i]
		}
	}
	if matches == 0 {
		return nil, newSelfMissingError()
	}
	if matches > 1 {
		return nil, newDuplicateSelfError()
	}

	node, err := svc.DerivePath(root, self.Path)
	if err != nil {
		return nil, newKeyFormatError("failed to re-derive own key", err)
	}
	ownXpub, err := svc.GetExtendedPublicKey(node)
	if err != nil {
		return nil, newKeyFormatError("failed to serialize own extended public key", err)
	}
	if ownXpub != self.ExtendedKey {
		// The descriptor's entry for our own fingerprint was not
		// produced by our own key: a substituted key. This is the
		// same agreement failure the address check below guards
		// against, surfaced earlier with a clearer cause.
		return nil, newAddressMismatchError()
	}

	computedAddr, err := descriptor.DeriveAgreementAddress(parsed, svc.Params())
	if err != nil {
		return nil, newDescriptorInvalidError("failed to compute agreement address", err)
	}
	if computedAddr != address {
		return nil, newAddressMismatchError()
	}

	return &Round2Result{Descriptor: parsed, DescriptorText: descStr, Address: address, Self: *self}, nil
}
