package bucketerr

import "net/http"

// HTTPStatus maps a Bucket error code to the HTTP status its RPC handler
// should respond with.
func HTTPStatus(code string) int {
	switch Code(code) {
	case CodeInvalidSignature, CodeTokenExpired, CodeWrongBucket, CodeUnauthorized, CodeAdminOnly:
		return http.StatusForbidden
	case CodeChunkNotFound:
		return http.StatusNotFound
	case CodeChunkNotAllowed, CodeInvalidFileID:
		return http.StatusBadRequest
	case CodePaymentFailed:
		return http.StatusPaymentRequired
	case CodeReadOnly:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
