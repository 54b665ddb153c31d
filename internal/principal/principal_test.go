package principal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBytesRejectsTooLong(t *testing.T) {
	_, err := FromBytes(make([]byte, MaxLen+1))
	require.ErrorIs(t, err, ErrTooLong)
}

func TestFromBytesAcceptsMaxLen(t *testing.T) {
	p, err := FromBytes(make([]byte, MaxLen))
	require.NoError(t, err)
	assert.Len(t, p, MaxLen)
}

func TestHexRoundTrip(t *testing.T) {
	p, err := FromBytes([]byte{0xde, 0xad, 0xbe, 0xef})
	require.NoError(t, err)

	decoded, err := FromHex(p.String())
	require.NoError(t, err)
	assert.True(t, p.Equal(decoded))
}

func TestCompareOrdersBytewise(t *testing.T) {
	a := Principal{0x01}
	b := Principal{0x02}
	assert.Negative(t, a.Compare(b))
	assert.Positive(t, b.Compare(a))
	assert.Zero(t, a.Compare(Principal{0x01}))
}

func TestPadded29ZeroPadsOnTheRight(t *testing.T) {
	p := Principal{0xAA, 0xBB}
	padded := p.Padded29()
	assert.Equal(t, byte(0xAA), padded[0])
	assert.Equal(t, byte(0xBB), padded[1])
	for _, b := range padded[2:] {
		assert.Zero(t, b)
	}
}
