package directoryerr

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusCoversEveryCode(t *testing.T) {
	cases := map[Code]int{
		CodeUnauthorized:          http.StatusForbidden,
		CodeAdminOnly:             http.StatusForbidden,
		CodeUploadSessionNotFound: http.StatusNotFound,
		CodeFileNotFound:          http.StatusNotFound,
		CodeLinkNotFound:          http.StatusNotFound,
		CodeLinkExpired:           http.StatusGone,
		CodeAccountExpired:        http.StatusGone,
		CodeQuotaExceeded:         http.StatusPaymentRequired,
		CodePaymentFailed:         http.StatusPaymentRequired,
		CodeUploadIncomplete:      http.StatusBadRequest,
		CodeInvalidRequest:        http.StatusBadRequest,
		CodeBucketAlreadyExists:   http.StatusBadRequest,
		CodeNoWritableBuckets:     http.StatusServiceUnavailable,
		CodeTransferFailed:        http.StatusServiceUnavailable,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(string(code)), "code %s", code)
	}
}

func TestHTTPStatusDefaultsToInternalError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus("unknown_code"))
}

func TestErrorCodeMatchesCodeField(t *testing.T) {
	err := QuotaExceeded(1, 2, 3)
	assert.Equal(t, string(CodeQuotaExceeded), err.ErrorCode())
}
