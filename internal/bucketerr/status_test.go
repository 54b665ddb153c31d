package bucketerr

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCoversEveryCode(t *testing.T) {
	cases := map[Code]int{
		CodeInvalidSignature: http.StatusForbidden,
		CodeTokenExpired:     http.StatusForbidden,
		CodeWrongBucket:      http.StatusForbidden,
		CodeUnauthorized:     http.StatusForbidden,
		CodeAdminOnly:        http.StatusForbidden,
		CodeChunkNotFound:    http.StatusNotFound,
		CodeChunkNotAllowed:  http.StatusBadRequest,
		CodeInvalidFileID:    http.StatusBadRequest,
		CodePaymentFailed:    http.StatusPaymentRequired,
		CodeReadOnly:         http.StatusServiceUnavailable,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(string(code)), "code %s", code)
	}
}

func TestHTTPStatusDefaultsToInternalError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus("unknown_code"))
}

func TestErrorCodeMatchesCodeField(t *testing.T) {
	err := ChunkNotAllowed(3)
	assert.Equal(t, string(CodeChunkNotAllowed), err.ErrorCode())
}
