package descriptor_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/bsms/internal/descriptor"
)

func exampleDescriptor(format descriptor.ScriptType) *descriptor.MultisigDescriptor {
	return &descriptor.MultisigDescriptor{
		M:      2,
		N:      3,
		Format: format,
		Keys: []descriptor.KeyOrigin{
			{XFP: 0xaabbccdd, Path: "48'/1'/0'/2'", ExtendedKey: "tpubDOne"},
			{XFP: 0x11223344, Path: "48'/1'/0'/2'", ExtendedKey: "tpubDTwo"},
			{XFP: 0x55667788, Path: "48'/1'/0'/2'", ExtendedKey: "tpubDThree"},
		},
	}
}

func TestSerialize_WrapsNativeAndNested(t *testing.T) {
	native := descriptor.Serialize(exampleDescriptor(descriptor.Native), "")
	assert.True(t, strings.HasPrefix(native, "wsh(sortedmulti("))
	assert.True(t, strings.HasSuffix(native, "))"))

	nested := descriptor.Serialize(exampleDescriptor(descriptor.Nested), "")
	assert.True(t, strings.HasPrefix(nested, "sh(wsh(sortedmulti("))
	assert.True(t, strings.HasSuffix(nested, ")))"))
}

func TestCollapseWildcard_ExpandExternal(t *testing.T) {
	raw := descriptor.Serialize(exampleDescriptor(descriptor.Native), descriptor.WildcardMultiPath)
	assert.True(t, strings.Contains(raw, descriptor.WildcardMultiPath))

	collapsed := descriptor.CollapseWildcard(raw)
	assert.False(t, strings.Contains(collapsed, descriptor.WildcardMultiPath))
	assert.True(t, strings.Contains(collapsed, descriptor.WildcardCollapsed))

	expanded := descriptor.ExpandExternal(collapsed)
	assert.False(t, strings.Contains(expanded, descriptor.WildcardCollapsed))
	assert.True(t, strings.Contains(expanded, descriptor.WildcardExternal))
}

func TestBuildTransmittedDescriptor(t *testing.T) {
	d := exampleDescriptor(descriptor.Native)
	full, err := descriptor.BuildTransmittedDescriptor(d)
	require.NoError(t, err)

	assert.True(t, strings.Contains(full, descriptor.WildcardCollapsed))
	assert.False(t, strings.Contains(full, descriptor.WildcardMultiPath))
	assert.True(t, strings.Contains(full, "#"))

	body, err := descriptor.SplitChecksum(full)
	require.NoError(t, err)

	parsed, suffix, err := descriptor.ParseSortedMulti(descriptor.ExpandExternal(body))
	require.NoError(t, err)
	assert.Equal(t, descriptor.WildcardExternal, suffix)
	assert.Equal(t, d.Keys, parsed.Keys)
	assert.Equal(t, d.M, parsed.M)
}
