package bsms

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// bitcoinMessageMagic is the fixed prefix of the Bitcoin Signed
// Message construction.
const bitcoinMessageMagic = "Bitcoin Signed Message:\n"

// appendCompactSize appends n to b using Bitcoin's variable-length
// integer encoding.
func appendCompactSize(b []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(b, byte(n))
	case n <= 0xffff:
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(n))
		return append(append(b, 0xfd), buf...)
	case n <= 0xffffffff:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(n))
		return append(append(b, 0xfe), buf...)
	default:
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, n)
		return append(append(b, 0xff), buf...)
	}
}

// bitcoinMessageHash computes the double-SHA256 digest of the
// varint-length-prefixed Bitcoin Signed Message framing of msg, the
// digest that every BSMS signature is produced and verified over.
func bitcoinMessageHash(msg []byte) [32]byte {
	var buf []byte
	buf = appendCompactSize(buf, uint64(len(bitcoinMessageMagic)))
	buf = append(buf, bitcoinMessageMagic...)
	buf = appendCompactSize(buf, uint64(len(msg)))
	buf = append(buf, msg...)

	first := sha256.Sum256(buf)
	second := sha256.Sum256(first[:])
	return second
}

// SignMessage produces a compact recoverable ECDSA signature over the
// Bitcoin-message-hash of body, using the given secp256k1 private key.
// The resulting 65-byte signature is what gets base64-encoded as the
// round-1 message's signature line.
func SignMessage(priv *btcec.PrivateKey, body []byte) []byte {
	digest := bitcoinMessageHash(body)
	sig, _ := ecdsa.SignCompact(priv, digest[:], true)
	return sig
}

// RecoverPublicKey recovers the secp256k1 public key that produced
// sig over the Bitcoin-message-hash of body.
func RecoverPublicKey(sig []byte, body []byte) (*btcec.PublicKey, error) {
	digest := bitcoinMessageHash(body)
	pub, _, err := ecdsa.RecoverCompact(sig, digest[:])
	if err != nil {
		return nil, newSignatureInvalidError("failed to recover public key from signature: " + err.Error())
	}
	return pub, nil
}

// VerifyMessageSignature recovers the public key behind sig over body
// and requires it to serialize (compressed) to the same bytes as
// want. This is the round-2 self-consistency check: the signature
// must recover to the declared extended key's public key, not merely
// to *some* valid key.
func VerifyMessageSignature(sig []byte, body []byte, want *btcec.PublicKey) error {
	recovered, err := RecoverPublicKey(sig, body)
	if err != nil {
		return err
	}
	if !bytes.Equal(recovered.SerializeCompressed(), want.SerializeCompressed()) {
		return newSignatureInvalidError("recovered public key does not match the declared extended key")
	}
	return nil
}
