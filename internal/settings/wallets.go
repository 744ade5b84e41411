package settings

import (
	"encoding/json"
	"fmt"
)

// walletsKey holds the device's enrolled multisig wallet descriptors,
// the list internal/bsms.WalletEnroller appends to.
const walletsKey = "multisig_wallets"

// EnrolledWallet is one accepted multisig wallet descriptor.
type EnrolledWallet struct {
	Descriptor string `json:"descriptor"`
	Name       string `json:"name"`
}

// Enrol implements internal/bsms.WalletEnroller: it appends the
// accepted descriptor to the settings store's multisig-wallet list
// and saves transactionally.
func (s *Store) Enrol(descriptorText string, name string, sessionIndex int) error {
	raw, ok := s.Get(walletsKey)
	var wallets []EnrolledWallet
	if ok {
		if err := json.Unmarshal(raw, &wallets); err != nil {
			return fmt.Errorf("failed to parse enrolled wallet list: %w", err)
		}
	}
	wallets = append(wallets, EnrolledWallet{Descriptor: descriptorText, Name: name})
	return s.SaveKeyTransactional(walletsKey, wallets)
}
