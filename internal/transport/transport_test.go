package transport_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bsms/internal/bsms"
	"github.com/yourusername/bsms/internal/transport"
)

func TestDisk_WriteReadRoundTrip(t *testing.T) {
	d := transport.New(t.TempDir())
	require.NoError(t, d.WriteFile("bsms_sr1.txt", []byte("hello"), 0600))

	got, err := d.ReadFile("bsms_sr1.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestDisk_ListPattern(t *testing.T) {
	dir := t.TempDir()
	d := transport.New(dir)
	require.NoError(t, d.WriteFile("bsms_sr1_aaaa.dat", []byte("a"), 0600))
	require.NoError(t, d.WriteFile("bsms_sr1_bbbb.dat", []byte("b"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0600))

	names, err := d.ListPattern("bsms_sr1*.dat")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bsms_sr1_aaaa.dat", "bsms_sr1_bbbb.dat"}, names)
}

func TestFilenameConventions(t *testing.T) {
	assert.Equal(t, "bsms_sr1.txt", transport.SignerRound1Filename(bsms.NoEncryption, bsms.SentinelToken))
	assert.Equal(t, "bsms_sr1.dat", transport.SignerRound1Filename(bsms.StandardEncryption, "deadbeefdeadbeef"))
	assert.Equal(t, "bsms_sr1_dead.dat", transport.SignerRound1Filename(bsms.ExtendedEncryption, "deadbeefdeadbeefdeadbeefdeadbeef"))

	assert.Equal(t, "bsms_cr2.txt", transport.CoordinatorRound2Filename(bsms.NoEncryption, bsms.SentinelToken))
	assert.Equal(t, "bsms_cr2.dat", transport.CoordinatorRound2Filename(bsms.StandardEncryption, "deadbeefdeadbeef"))
	assert.Equal(t, "bsms_cr2_dead.dat", transport.CoordinatorRound2Filename(bsms.ExtendedEncryption, "deadbeefdeadbeefdeadbeefdeadbeef"))

	assert.Equal(t, "bsms_dead.token", transport.TokenFilename("deadbeefdeadbeefdeadbeefdeadbeef"))
}

func TestCollectSignerRound1_NoEncryption(t *testing.T) {
	dir := t.TempDir()
	d := transport.New(dir)
	require.NoError(t, d.WriteFile("bsms_sr1_1.txt", []byte("one"), 0600))
	require.NoError(t, d.WriteFile("bsms_sr1_2.txt", []byte("two"), 0600))
	require.NoError(t, d.WriteFile("bsms_sr1_3.txt", []byte("three"), 0600))

	session := &bsms.CoordinatorSession{M: 2, N: 3, AddressFormat: bsms.NativeSegwit, Encryption: bsms.NoEncryption}
	payloads, err := d.CollectSignerRound1(session)
	require.NoError(t, err)
	assert.Len(t, payloads, 3)
}

func TestCollectSignerRound1_NoEncryption_WrongCountRejected(t *testing.T) {
	dir := t.TempDir()
	d := transport.New(dir)
	require.NoError(t, d.WriteFile("bsms_sr1_1.txt", []byte("one"), 0600))

	session := &bsms.CoordinatorSession{M: 2, N: 3, AddressFormat: bsms.NativeSegwit, Encryption: bsms.NoEncryption}
	_, err := d.CollectSignerRound1(session)
	assert.Error(t, err)
}

func TestCollectSignerRound1_Standard_FiltersByDecryptability(t *testing.T) {
	dir := t.TempDir()
	d := transport.New(dir)

	token := "deadbeefdeadbeef"
	kEnc, err := bsms.DeriveKey(token)
	require.NoError(t, err)
	envelope, err := bsms.EncryptEnvelope(kEnc, token, "BSMS 1.0\nsigner body")
	require.NoError(t, err)
	require.NoError(t, d.WriteFile("bsms_sr1.dat", envelope, 0600))

	otherToken := "cafebabecafebabe"
	kOther, err := bsms.DeriveKey(otherToken)
	require.NoError(t, err)
	stray, err := bsms.EncryptEnvelope(kOther, otherToken, "BSMS 1.0\nstray body")
	require.NoError(t, err)
	require.NoError(t, d.WriteFile("bsms_sr1_cafe.dat", stray, 0600))

	session := &bsms.CoordinatorSession{M: 1, N: 1, AddressFormat: bsms.NativeSegwit, Encryption: bsms.StandardEncryption, Tokens: []string{token}}
	payloads, err := d.CollectSignerRound1(session)
	require.NoError(t, err)
	require.Len(t, payloads, 1)
	assert.Equal(t, envelope, payloads[0])
}

func TestCollectSignerRound1_Extended_OrdersByToken(t *testing.T) {
	dir := t.TempDir()
	d := transport.New(dir)

	tokens := []string{
		"11111111111111111111111111111111",
		"22222222222222222222222222222222",
		"33333333333333333333333333333333",
	}
	for i, tok := range tokens {
		require.NoError(t, d.WriteFile(transport.SignerRound1Filename(bsms.ExtendedEncryption, tok), []byte{byte(i)}, 0600))
	}

	session := &bsms.CoordinatorSession{M: 2, N: 3, AddressFormat: bsms.NativeSegwit, Encryption: bsms.ExtendedEncryption, Tokens: tokens}
	payloads, err := d.CollectSignerRound1(session)
	require.NoError(t, err)
	require.Len(t, payloads, 3)
	for i := range tokens {
		assert.Equal(t, []byte{byte(i)}, payloads[i], "payload %d must correspond to token %d", i, i)
	}
}

func TestCollectSignerRound1_Extended_AmbiguousPrefixRejected(t *testing.T) {
	dir := t.TempDir()
	d := transport.New(dir)

	tokens := []string{
		"11111111111111111111111111111111",
		"11119999999999999999999999999999", // shares the 4-char prefix with tokens[0]
	}
	require.NoError(t, d.WriteFile("bsms_sr1_1111.dat", []byte("a"), 0600))
	require.NoError(t, d.WriteFile("bsms_sr1_1111_dup.dat", []byte("b"), 0600))

	session := &bsms.CoordinatorSession{M: 2, N: 2, AddressFormat: bsms.NativeSegwit, Encryption: bsms.ExtendedEncryption, Tokens: tokens}
	_, err := d.CollectSignerRound1(session)
	require.Error(t, err)
	assert.ErrorIs(t, err, bsms.ErrAutoCollectionAmbiguous)
}
