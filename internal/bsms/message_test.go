package bsms_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bsms/internal/bsms"
)

func TestBuildRound1Unsigned_DescriptionLimit(t *testing.T) {
	keyOrigin := "[aabbccdd/48'/1'/0'/2']tpubDExample"

	t.Run("80 chars accepted", func(t *testing.T) {
		desc := strings.Repeat("a", 80)
		body, err := bsms.BuildRound1Unsigned("00", keyOrigin, desc)
		require.NoError(t, err)
		assert.Equal(t, "BSMS 1.0\n00\n"+keyOrigin+"\n"+desc, body)
	})

	t.Run("81 chars rejected", func(t *testing.T) {
		desc := strings.Repeat("a", 81)
		_, err := bsms.BuildRound1Unsigned("00", keyOrigin, desc)
		require.Error(t, err)
		assert.True(t, isKind(err, bsms.KindBoundsError))
	})
}

func TestRound1_ParseRoundTrip(t *testing.T) {
	keyOrigin := "[aabbccdd/48'/1'/0'/2']tpubDExample"
	unsigned, err := bsms.BuildRound1Unsigned("00", keyOrigin, "my wallet")
	require.NoError(t, err)

	signed := bsms.AppendSignature(unsigned, "c2lnbmF0dXJl")

	token, ko, desc, sig, err := bsms.ParseRound1(signed)
	require.NoError(t, err)
	assert.Equal(t, "00", token)
	assert.Equal(t, keyOrigin, ko)
	assert.Equal(t, "my wallet", desc)
	assert.Equal(t, "c2lnbmF0dXJl", sig)

	assert.Equal(t, unsigned, bsms.UnsignedRound1Body(token, ko, desc))
}

func TestParseRound1_RejectsWrongLineCount(t *testing.T) {
	_, _, _, _, err := bsms.ParseRound1("BSMS 1.0\nonly\nthree\nlines")
	require.Error(t, err)
	assert.True(t, isKind(err, bsms.KindVersionMismatch))
}

func TestParseRound1_RejectsWrongVersion(t *testing.T) {
	_, _, _, _, err := bsms.ParseRound1("BSMS 2.0\na\nb\nc\nd")
	require.Error(t, err)
	assert.True(t, isKind(err, bsms.KindVersionMismatch))
}

func TestRound2_BuildParseRoundTrip(t *testing.T) {
	body := bsms.BuildRound2("wsh(sortedmulti(2,...))#abcdefgh", "bc1qexampleaddress")
	assert.Equal(t, "BSMS 1.0\nwsh(sortedmulti(2,...))#abcdefgh\n/0/*,/1/*\nbc1qexampleaddress", body)

	desc, addr, err := bsms.ParseRound2(body)
	require.NoError(t, err)
	assert.Equal(t, "wsh(sortedmulti(2,...))#abcdefgh", desc)
	assert.Equal(t, "bc1qexampleaddress", addr)
}

func TestParseRound2_RejectsWrongPathRestriction(t *testing.T) {
	body := "BSMS 1.0\nwsh(sortedmulti(2,...))\n/2/*,/3/*\nbc1qexampleaddress"
	_, _, err := bsms.ParseRound2(body)
	require.Error(t, err)
	assert.True(t, isKind(err, bsms.KindPathRestrictionInvalid))
}

func TestParseRound2_RejectsWrongLineCount(t *testing.T) {
	_, _, err := bsms.ParseRound2("BSMS 1.0\nonly two lines")
	require.Error(t, err)
	assert.True(t, isKind(err, bsms.KindVersionMismatch))
}
