// Package hdkey wraps BIP-32 hierarchical deterministic key
// derivation for the three account-level path templates BSMS uses,
// with network-aware (mainnet/testnet) xpub/tpub serialization.
package hdkey

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
)

// Service derives and serializes HD keys for one network.
type Service struct {
	params   *chaincfg.Params
	coinType uint32
}

// NewMainnetService builds a Service against Bitcoin mainnet, coin
// type 0 in the BSMS path templates.
func NewMainnetService() *Service {
	return &Service{params: &chaincfg.MainNetParams, coinType: 0}
}

// NewTestnetService builds a Service against Bitcoin testnet, coin
// type 1 in the BSMS path templates.
func NewTestnetService() *Service {
	return &Service{params: &chaincfg.TestNet3Params, coinType: 1}
}

// Params returns the network parameters this service derives under.
func (s *Service) Params() *chaincfg.Params { return s.params }

// NewMasterKey builds a master extended key from a root seed (16-64
// bytes, as produced by a BIP-39 mnemonic).
func (s *Service) NewMasterKey(seed []byte) (*hdkeychain.ExtendedKey, error) {
	if len(seed) < 16 || len(seed) > 64 {
		return nil, fmt.Errorf("seed must be between 16 and 64 bytes, got %d", len(seed))
	}
	masterKey, err := hdkeychain.NewMaster(seed, s.params)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}
	return masterKey, nil
}

// UnknownPath is the account-level derivation path template used when
// the signer has not been told a specific script type.
func (s *Service) UnknownPath(account uint32) string {
	return fmt.Sprintf("129'/%d'/%d'", s.coinType, account)
}

// NativeSegwitPath is the account-level derivation path template for
// native segwit (P2WSH) multisig.
func (s *Service) NativeSegwitPath(account uint32) string {
	return fmt.Sprintf("48'/%d'/%d'/2'", s.coinType, account)
}

// NestedSegwitPath is the account-level derivation path template for
// nested segwit (P2SH-P2WSH) multisig.
func (s *Service) NestedSegwitPath(account uint32) string {
	return fmt.Sprintf("48'/%d'/%d'/1'", s.coinType, account)
}

// DerivePath derives the child key reached by path, a "/"-separated
// sequence of decimal indices optionally suffixed with "'" for
// hardened derivation (e.g. "48'/1'/0'/2'"). A leading "m/" is
// tolerated and stripped.
func (s *Service) DerivePath(key *hdkeychain.ExtendedKey, path string) (*hdkeychain.ExtendedKey, error) {
	path = strings.TrimPrefix(path, "m/")
	if path == "" {
		return key, nil
	}

	components := strings.Split(path, "/")
	current := key
	for i, component := range components {
		if component == "" {
			continue
		}
		hardened := strings.HasSuffix(component, "'")
		if hardened {
			component = strings.TrimSuffix(component, "'")
		}
		index, err := strconv.ParseUint(component, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid path component at position %d: %s", i, component)
		}
		childIndex := uint32(index)
		if hardened {
			childIndex = hdkeychain.HardenedKeyStart + uint32(index)
		}
		child, err := current.Derive(childIndex)
		if err != nil {
			return nil, fmt.Errorf("failed to derive child at index %d: %w", index, err)
		}
		current = child
	}
	return current, nil
}

// GetPublicKey extracts the compressed public key from an extended key.
func (s *Service) GetPublicKey(key *hdkeychain.ExtendedKey) (*btcec.PublicKey, error) {
	pub, err := key.ECPubKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get public key: %w", err)
	}
	return pub, nil
}

// GetPrivateKey extracts the private key from an extended key.
// Callers must clear the returned key's serialized bytes after use.
func (s *Service) GetPrivateKey(key *hdkeychain.ExtendedKey) (*btcec.PrivateKey, error) {
	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get private key: %w", err)
	}
	return priv, nil
}

// GetExtendedPublicKey returns the network-appropriate xpub/tpub
// string for key, neutering it if it still carries a private key.
func (s *Service) GetExtendedPublicKey(key *hdkeychain.ExtendedKey) (string, error) {
	pub, err := key.Neuter()
	if err != nil {
		return "", fmt.Errorf("failed to neuter key: %w", err)
	}
	return pub.String(), nil
}

// Fingerprint computes key's own BIP-32 key fingerprint: the first
// four bytes of HASH160 of its serialized compressed public key, the
// identifier a child key records as its parent fingerprint and the
// XFP a descriptor key origin names.
func (s *Service) Fingerprint(key *hdkeychain.ExtendedKey) (uint32, error) {
	pub, err := key.ECPubKey()
	if err != nil {
		return 0, fmt.Errorf("failed to get public key: %w", err)
	}
	h := btcutil.Hash160(pub.SerializeCompressed())
	return binary.BigEndian.Uint32(h[:4]), nil
}

// ValidateExtendedPublicKey parses s as an extended public key,
// requires it to carry no private key material, match this service's
// network, and use the plain xpub/tpub version bytes (SLIP-132
// script-type variants such as ypub/zpub/upub/vpub are rejected, as
// BSMS always expresses script type via the descriptor wrapper, not
// the key version).
func (s *Service) ValidateExtendedPublicKey(extKey string) (*hdkeychain.ExtendedKey, error) {
	if !strings.HasPrefix(extKey, "xpub") && !strings.HasPrefix(extKey, "tpub") {
		return nil, fmt.Errorf("extended key must use the plain xpub/tpub prefix, not a SLIP-132 variant")
	}
	key, err := hdkeychain.NewKeyFromString(extKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse extended key: %w", err)
	}
	if key.IsPrivate() {
		return nil, fmt.Errorf("extended key must be public, not private")
	}
	if !key.IsForNet(s.params) {
		return nil, fmt.Errorf("extended key does not match the configured network")
	}
	return key, nil
}
