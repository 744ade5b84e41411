package cli

import (
	"fmt"

	"github.com/tyler-smith/go-bip39"
)

// SeedFromMnemonic turns an operator-supplied BIP-39 mnemonic into the
// device's root seed, the one bip39 call BSMS needs: a signing device
// with an existing seed has no use for mnemonic generation or
// strength selection, only this one conversion.
func SeedFromMnemonic(mnemonic, passphrase string) ([]byte, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid BIP-39 mnemonic")
	}
	return bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
}
