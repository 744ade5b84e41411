package bsms

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/yourusername/bsms/internal/descriptor"
	"github.com/yourusername/bsms/internal/hdkey"
)

func decodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// CoordinatorRound1 generates the session's tokens and
// returns the populated, validated CoordinatorSession ready to
// persist and distribute.
func CoordinatorRound1(m, n int, format AddressFormat, enc EncryptionType) (*CoordinatorSession, error) {
	session := &CoordinatorSession{M: m, N: n, AddressFormat: format, Encryption: enc}

	switch enc {
	case NoEncryption:
		session.Tokens = nil
	case StandardEncryption:
		tok, err := randomHexToken(8)
		if err != nil {
			return nil, err
		}
		session.Tokens = []string{tok}
	case ExtendedEncryption:
		tokens := make([]string, n)
		for i := 0; i < n; i++ {
			tok, err := randomHexToken(16)
			if err != nil {
				return nil, err
			}
			tokens[i] = tok
		}
		session.Tokens = tokens
	default:
		return nil, newBoundsError(fmt.Sprintf("unknown encryption type %q", enc))
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}
	return session, nil
}

func randomHexToken(nBytes int) (string, error) {
	buf := make([]byte, nBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", newError(KindInternal, "failed to generate random token", err)
	}
	return hex.EncodeToString(buf), nil
}

func scriptType(format AddressFormat) descriptor.ScriptType {
	if format == NestedSegwit {
		return descriptor.Nested
	}
	return descriptor.Native
}

// Round2Artifact is one coordinator round-2 output file: the token
// that authenticated it (the sentinel "00" for NO_ENCRYPTION) and the
// bytes to write.
type Round2Artifact struct {
	Token string
	Data  []byte
}

// CoordinatorRound2Result is what a successful coordinator round-2
// produces: the assembled descriptor template and the artifacts to
// distribute, one per token.
type CoordinatorRound2Result struct {
	Descriptor *descriptor.MultisigDescriptor
	Template   DescriptorTemplate
	Artifacts  []Round2Artifact
}

// CoordinatorRound2 ingests the N signer round-1 payloads in the
// order supplied, validates and verifies each, assembles the
// sortedmulti descriptor and joint first address, and produces the
// per-token encrypted (or plaintext) round-2 artifacts.
// Failure of any step aborts the whole round: no partial descriptor
// is returned.
func CoordinatorRound2(svc *hdkey.Service, session *CoordinatorSession, payloads [][]byte) (*CoordinatorRound2Result, error) {
	if len(payloads) != session.N {
		return nil, newBoundsError(fmt.Sprintf("expected %d signer payloads, got %d", session.N, len(payloads)))
	}

	keys := make([]descriptor.KeyOrigin, 0, session.N)
	for i, raw := range payloads {
		token := session.TokenFor(i)

		var body string
		if token != SentinelToken {
			kEnc, err := DeriveKey(token)
			if err != nil {
				return nil, err
			}
			pt, err := DecryptEnvelope(kEnc, token, raw)
			if err != nil {
				return nil, err
			}
			body = pt
		} else {
			body = string(raw)
		}

		payloadToken, keyOriginStr, description, sigB64, err := ParseRound1(body)
		if err != nil {
			return nil, err
		}
		if payloadToken != token {
			return nil, newTokenMismatchError()
		}

		ko, err := descriptor.ParseKeyOrigin(keyOriginStr)
		if err != nil {
			return nil, newKeyFormatError("failed to parse key-origin expression", err)
		}

		extKey, err := svc.ValidateExtendedPublicKey(ko.ExtendedKey)
		if err != nil {
			return nil, newKeyFormatError("signer extended key failed validation", err)
		}

		sig, err := decodeBase64(sigB64)
		if err != nil {
			return nil, newSignatureInvalidError("signature is not valid base64")
		}
		unsigned := UnsignedRound1Body(payloadToken, keyOriginStr, description)

		pub, err := svc.GetPublicKey(extKey)
		if err != nil {
			return nil, newKeyFormatError("failed to extract signer public key", err)
		}
		if err := VerifyMessageSignature(sig, []byte(unsigned), pub); err != nil {
			return nil, err
		}

		keys = append(keys, ko)
	}

	desc := &descriptor.MultisigDescriptor{
		M:      session.M,
		N:      session.N,
		Format: scriptType(session.AddressFormat),
		Keys:   keys,
	}

	descStr, err := descriptor.BuildTransmittedDescriptor(desc)
	if err != nil {
		return nil, newDescriptorInvalidError("failed to serialize descriptor", err)
	}

	address, err := descriptor.DeriveAgreementAddress(desc, svc.Params())
	if err != nil {
		return nil, newDescriptorInvalidError("failed to derive agreement address", err)
	}

	body := BuildRound2(descStr, address)

	artifacts, err := buildRound2Artifacts(session, body)
	if err != nil {
		return nil, err
	}

	return &CoordinatorRound2Result{
		Descriptor: desc,
		Template:   DescriptorTemplate{Descriptor: descStr, Address: address},
		Artifacts:  artifacts,
	}, nil
}

// buildRound2Artifacts emits one encrypted (or plaintext) artifact per
// token, mirroring the source's generator: one
// envelope for STANDARD's shared token, one per signer for EXTENDED,
// and a single plaintext artifact for NO_ENCRYPTION.
func buildRound2Artifacts(session *CoordinatorSession, body string) ([]Round2Artifact, error) {
	var artifacts []Round2Artifact
	err := ForEachRound2Artifact(session, body, func(token string, data []byte) error {
		artifacts = append(artifacts, Round2Artifact{Token: token, Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

// ForEachRound2Artifact calls fn once per token with the bytes to
// write for that token, bounding peak memory the way the source's
// generator does without needing Go generators or channels for
// something this simple.
func ForEachRound2Artifact(session *CoordinatorSession, body string, fn func(token string, data []byte) error) error {
	switch session.Encryption {
	case NoEncryption:
		return fn(SentinelToken, []byte(body))
	case StandardEncryption, ExtendedEncryption:
		for _, token := range session.Tokens {
			kEnc, err := DeriveKey(token)
			if err != nil {
				return err
			}
			data, err := EncryptEnvelope(kEnc, token, body)
			if err != nil {
				return err
			}
			if err := fn(token, data); err != nil {
				return err
			}
		}
		return nil
	default:
		return newBoundsError(fmt.Sprintf("unknown encryption type %q", session.Encryption))
	}
}
