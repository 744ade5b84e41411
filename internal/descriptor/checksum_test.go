package descriptor_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bsms/internal/descriptor"
)

func TestAddChecksum_SplitChecksum_RoundTrip(t *testing.T) {
	body := "wsh(sortedmulti(2,[aabbccdd/48'/1'/0'/2']tpubDExample/**,[11223344/48'/1'/0'/2']tpubDOther/**))"

	full, err := descriptor.AddChecksum(body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(full, "#"))
	assert.Len(t, strings.SplitN(full, "#", 2)[1], 8)

	gotBody, err := descriptor.SplitChecksum(full)
	require.NoError(t, err)
	assert.Equal(t, body, gotBody)
}

func TestSplitChecksum_RejectsMissingChecksum(t *testing.T) {
	_, err := descriptor.SplitChecksum("wsh(sortedmulti(2,key1,key2))")
	assert.Error(t, err)
}

func TestSplitChecksum_RejectsTamperedChecksum(t *testing.T) {
	body := "wsh(sortedmulti(2,[aabbccdd/48'/1'/0'/2']tpubDExample/**))"
	full, err := descriptor.AddChecksum(body)
	require.NoError(t, err)

	tampered := full[:len(full)-1] + "x"
	if tampered == full {
		tampered = full[:len(full)-1] + "y"
	}
	_, err = descriptor.SplitChecksum(tampered)
	assert.Error(t, err)
}

func TestSplitChecksum_RejectsTamperedBody(t *testing.T) {
	body := "wsh(sortedmulti(2,[aabbccdd/48'/1'/0'/2']tpubDExample/**))"
	full, err := descriptor.AddChecksum(body)
	require.NoError(t, err)

	// Flip one character in the body, leaving the checksum untouched.
	tampered := strings.Replace(full, "tpubD", "tpubX", 1)
	_, err = descriptor.SplitChecksum(tampered)
	assert.Error(t, err)
}

func TestAddChecksum_RejectsOutOfCharsetInput(t *testing.T) {
	_, err := descriptor.AddChecksum("wsh(sortedmulti(2,éé))")
	assert.Error(t, err)
}
