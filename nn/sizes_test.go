package nn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLayerSizes(t *testing.T) {
	sizes, err := ParseLayerSizes("[2, [16, 16, 16], [8,8,8], 3]")
	require.NoError(t, err)
	require.Len(t, sizes, 4)
	require.False(t, sizes[0].IsBranched())
	require.Equal(t, 2, sizes[0].Units())
	require.True(t, sizes[1].IsBranched())
	require.Equal(t, []int{16, 16, 16}, sizes[1].Branches())
	require.Equal(t, "[8, 8, 8]", sizes[2].String())
	require.Equal(t, "3", sizes[3].String())

	_, flat := FlatSizes(sizes)
	require.False(t, flat)
}

func TestParseLayerSizesFlat(t *testing.T) {
	sizes, err := ParseLayerSizes("[1, 32, 32, 1]")
	require.NoError(t, err)
	ns, flat := FlatSizes(sizes)
	require.True(t, flat)
	require.Equal(t, []int{1, 32, 32, 1}, ns)
	require.Equal(t, SharedSizes(1, 32, 32, 1), sizes)
}

func TestParseLayerSizesErrors(t *testing.T) {
	for _, s := range []string{
		"",
		"2, 3",
		"{\"a\": 1}",
		"[2, 3.5, 1]",
		"[2, \"16\", 1]",
		"[2, [16, 1.5], 1]",
		"[2, [[16]], 1]",
		"[2, 16",
	} {
		_, err := ParseLayerSizes(s)
		require.Error(t, err, s)
	}
}
