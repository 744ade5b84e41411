package descriptor

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// externalBranch is the receive branch of the fixed "/0/*,/1/*" path
// restriction pair; firstIndex is the first address slot within it.
const (
	externalBranch = 0
	firstIndex     = 0
)

// DeriveAgreementAddress computes the joint first receive address for
// a multisig descriptor: each account-level key is derived down the
// external branch to its first address slot (<account>/0/0), the
// resulting public keys are sorted lexicographically (sortedmulti),
// assembled into an M-of-N redeem script, and wrapped per d.Format.
// This is the BSMS agreement address every participant must compute
// identically.
func DeriveAgreementAddress(d *MultisigDescriptor, params *chaincfg.Params) (string, error) {
	pubKeys := make([]*btcec.PublicKey, 0, len(d.Keys))
	for _, k := range d.Keys {
		pub, err := deriveFirstReceivePubKey(k.ExtendedKey, params)
		if err != nil {
			return "", fmt.Errorf("key %s: %w", k.ExtendedKey, err)
		}
		pubKeys = append(pubKeys, pub)
	}

	sort.Slice(pubKeys, func(i, j int) bool {
		return bytes.Compare(pubKeys[i].SerializeCompressed(), pubKeys[j].SerializeCompressed()) < 0
	})

	pubKeyAddrs := make([]*btcutil.AddressPubKey, len(pubKeys))
	for i, pub := range pubKeys {
		addr, err := btcutil.NewAddressPubKey(pub.SerializeCompressed(), params)
		if err != nil {
			return "", fmt.Errorf("failed to build pubkey address: %w", err)
		}
		pubKeyAddrs[i] = addr
	}

	redeemScript, err := txscript.MultiSigScript(pubKeyAddrs, d.M)
	if err != nil {
		return "", fmt.Errorf("failed to assemble multisig redeem script: %w", err)
	}

	witnessHash := sha256.Sum256(redeemScript)
	witnessAddr, err := btcutil.NewAddressWitnessScriptHash(witnessHash[:], params)
	if err != nil {
		return "", fmt.Errorf("failed to build witness script hash address: %w", err)
	}

	switch d.Format {
	case Nested:
		witnessProgram, err := txscript.PayToAddrScript(witnessAddr)
		if err != nil {
			return "", fmt.Errorf("failed to build witness program: %w", err)
		}
		addr, err := btcutil.NewAddressScriptHash(witnessProgram, params)
		if err != nil {
			return "", fmt.Errorf("failed to build P2SH-P2WSH address: %w", err)
		}
		return addr.EncodeAddress(), nil
	default:
		return witnessAddr.EncodeAddress(), nil
	}
}

// deriveFirstReceivePubKey parses an account-level xpub/tpub,
// validates it against params, and derives the non-hardened public
// key two levels down at /0/0: the external branch, then the first
// address slot within it.
func deriveFirstReceivePubKey(extendedKey string, params *chaincfg.Params) (*btcec.PublicKey, error) {
	key, err := hdkeychain.NewKeyFromString(extendedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse extended key: %w", err)
	}
	if !key.IsForNet(params) {
		return nil, fmt.Errorf("extended key does not match the configured network")
	}
	branch, err := key.Derive(externalBranch)
	if err != nil {
		return nil, fmt.Errorf("failed to derive external branch: %w", err)
	}
	child, err := branch.Derive(firstIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to derive child key: %w", err)
	}
	pub, err := child.ECPubKey()
	if err != nil {
		return nil, fmt.Errorf("failed to extract public key: %w", err)
	}
	return pub, nil
}
