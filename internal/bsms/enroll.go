package bsms

// WalletEnroller is the external collaborator that accepts a verified
// descriptor into the device's wallet store. BSMS does not
// implement a full wallet/UTXO tracker (out of scope); this is only
// the enrolment-acceptance hook signer round-2 needs to complete.
type WalletEnroller interface {
	Enrol(descriptorText string, name string, sessionIndex int) error
}
