package directoryerr

import "net/http"

// HTTPStatus maps a Directory error code to the HTTP status its RPC
// handler should respond with.
func HTTPStatus(code string) int {
	switch Code(code) {
	case CodeUnauthorized, CodeAdminOnly:
		return http.StatusForbidden
	case CodeUploadSessionNotFound, CodeFileNotFound, CodeLinkNotFound:
		return http.StatusNotFound
	case CodeLinkExpired, CodeAccountExpired:
		return http.StatusGone
	case CodeQuotaExceeded, CodePaymentFailed:
		return http.StatusPaymentRequired
	case CodeUploadIncomplete, CodeInvalidRequest, CodeBucketAlreadyExists:
		return http.StatusBadRequest
	case CodeNoWritableBuckets, CodeTransferFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
