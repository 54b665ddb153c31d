package bucketerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonioVentilii/vault-core/internal/authtoken"
)

func TestFromAuthErrorMapsKnownSentinels(t *testing.T) {
	assert.Equal(t, ErrInvalidSignature, FromAuthError(authtoken.ErrInvalidSignature))
	assert.Equal(t, ErrTokenExpired, FromAuthError(authtoken.ErrTokenExpired))
	assert.Equal(t, ErrWrongBucket, FromAuthError(authtoken.ErrWrongBucket))
}

func TestFromAuthErrorMapsChunkNotAllowed(t *testing.T) {
	err := FromAuthError(&authtoken.ChunkNotAllowedError{Index: 7})
	require.Equal(t, CodeChunkNotAllowed, err.Code)
	assert.Equal(t, uint32(7), err.ChunkIndex)
}

func TestFromAuthErrorFallsBackToOther(t *testing.T) {
	err := FromAuthError(assertErr{})
	assert.Equal(t, CodeOther, err.Code)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestFromAuthErrorNilIsNil(t *testing.T) {
	assert.Nil(t, FromAuthError(nil))
}
