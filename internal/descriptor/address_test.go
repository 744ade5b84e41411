package descriptor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bsms/internal/descriptor"
	"github.com/yourusername/bsms/internal/hdkey"
)

func signerXpub(t *testing.T, svc *hdkey.Service, seed byte) (descriptor.KeyOrigin, *hdkey.Service) {
	t.Helper()
	seedBytes := make([]byte, 32)
	for i := range seedBytes {
		seedBytes[i] = seed
	}
	master, err := svc.NewMasterKey(seedBytes)
	require.NoError(t, err)

	node, err := svc.DerivePath(master, svc.NativeSegwitPath(0))
	require.NoError(t, err)
	xpub, err := svc.GetExtendedPublicKey(node)
	require.NoError(t, err)
	xfp, err := svc.Fingerprint(master)
	require.NoError(t, err)

	return descriptor.KeyOrigin{XFP: xfp, Path: svc.NativeSegwitPath(0), ExtendedKey: xpub}, svc
}

func TestDeriveAgreementAddress_DeterministicAndOrderIndependent(t *testing.T) {
	svc := hdkey.NewMainnetService()
	k1, _ := signerXpub(t, svc, 0x11)
	k2, _ := signerXpub(t, svc, 0x22)
	k3, _ := signerXpub(t, svc, 0x33)

	d1 := &descriptor.MultisigDescriptor{M: 2, N: 3, Format: descriptor.Native, Keys: []descriptor.KeyOrigin{k1, k2, k3}}
	addr1, err := descriptor.DeriveAgreementAddress(d1, svc.Params())
	require.NoError(t, err)
	assert.NotEmpty(t, addr1)

	// sortedmulti sorts public keys at script-assembly time, so the
	// descriptor's key order must not affect the agreement address.
	d2 := &descriptor.MultisigDescriptor{M: 2, N: 3, Format: descriptor.Native, Keys: []descriptor.KeyOrigin{k3, k1, k2}}
	addr2, err := descriptor.DeriveAgreementAddress(d2, svc.Params())
	require.NoError(t, err)
	assert.Equal(t, addr1, addr2)
}

func TestDeriveAgreementAddress_NativeVsNestedDiffer(t *testing.T) {
	svc := hdkey.NewMainnetService()
	k1, _ := signerXpub(t, svc, 0x11)
	k2, _ := signerXpub(t, svc, 0x22)

	native := &descriptor.MultisigDescriptor{M: 2, N: 2, Format: descriptor.Native, Keys: []descriptor.KeyOrigin{k1, k2}}
	nested := &descriptor.MultisigDescriptor{M: 2, N: 2, Format: descriptor.Nested, Keys: []descriptor.KeyOrigin{k1, k2}}

	addrNative, err := descriptor.DeriveAgreementAddress(native, svc.Params())
	require.NoError(t, err)
	addrNested, err := descriptor.DeriveAgreementAddress(nested, svc.Params())
	require.NoError(t, err)

	assert.NotEqual(t, addrNative, addrNested)
	assert.True(t, addrNative[:3] == "bc1")
	assert.True(t, addrNested[:1] == "3")
}

func TestDeriveAgreementAddress_TamperedKeyChangesAddress(t *testing.T) {
	svc := hdkey.NewMainnetService()
	k1, _ := signerXpub(t, svc, 0x11)
	k2, _ := signerXpub(t, svc, 0x22)

	d := &descriptor.MultisigDescriptor{M: 2, N: 2, Format: descriptor.Native, Keys: []descriptor.KeyOrigin{k1, k2}}
	addr, err := descriptor.DeriveAgreementAddress(d, svc.Params())
	require.NoError(t, err)

	k3, _ := signerXpub(t, svc, 0x33)
	tampered := &descriptor.MultisigDescriptor{M: 2, N: 2, Format: descriptor.Native, Keys: []descriptor.KeyOrigin{k1, k3}}
	addrTampered, err := descriptor.DeriveAgreementAddress(tampered, svc.Params())
	require.NoError(t, err)

	assert.NotEqual(t, addr, addrTampered)
}
