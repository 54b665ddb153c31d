// Package directoryerr implements the Directory service's tagged error
// taxonomy: a closed set of named variants, each carrying whatever
// fields its RPC needs to report, returned on the RPC boundary as one half
// of an Ok|Err envelope rather than as an unwound Go error chain.
package directoryerr

import "fmt"

// Code names one Directory error variant. Unlike the teacher's apperror,
// which maps errors to HTTP status codes for a browser-facing API, these
// codes travel inside a JSON Result envelope (internal/transport/httprpc)
// and a vaultctl client branches on Code, not on the transport status.
type Code string

const (
	CodePaymentFailed         Code = "payment_failed"
	CodeQuotaExceeded         Code = "quota_exceeded"
	CodeUploadSessionNotFound Code = "upload_session_not_found"
	CodeUploadIncomplete      Code = "upload_incomplete"
	CodeUnauthorized          Code = "unauthorized"
	CodeFileNotFound          Code = "file_not_found"
	CodeNoWritableBuckets     Code = "no_writable_buckets"
	CodeTransferFailed        Code = "transfer_failed"
	CodeInvalidRequest        Code = "invalid_request"
	CodeLinkNotFound          Code = "link_not_found"
	CodeLinkExpired           Code = "link_expired"
	CodeAccountExpired        Code = "account_expired"
	CodeAdminOnly             Code = "admin_only"
	CodeBucketAlreadyExists   Code = "bucket_already_exists"
)

// Error is the Directory's tagged error envelope. Fields beyond Code/Message
// are populated only by the variants that need them (QuotaExceeded,
// UploadIncomplete); all others leave them zero.
type Error struct {
	Code      Code   `json:"code"`
	Message   string `json:"message,omitempty"`
	Used      uint64 `json:"used,omitempty"`
	Requested uint64 `json:"requested,omitempty"`
	Quota     uint64 `json:"quota,omitempty"`
	Uploaded  uint32 `json:"uploaded,omitempty"`
	Expected  uint32 `json:"expected,omitempty"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("directory: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("directory: %s", e.Code)
}

// ErrorCode satisfies httprpc.CodedError so the transport layer can encode
// this error without importing directoryerr.
func (e *Error) ErrorCode() string {
	return string(e.Code)
}

// PaymentFailed wraps msg as the protocol's PaymentFailed(msg) variant.
func PaymentFailed(msg string) *Error {
	return &Error{Code: CodePaymentFailed, Message: msg}
}

// QuotaExceeded reports a quota check failure with the three fields this
// variant carries.
func QuotaExceeded(used, requested, quota uint64) *Error {
	return &Error{Code: CodeQuotaExceeded, Used: used, Requested: requested, Quota: quota}
}

var (
	ErrUploadSessionNotFound = &Error{Code: CodeUploadSessionNotFound}
	ErrUnauthorized          = &Error{Code: CodeUnauthorized}
	ErrFileNotFound          = &Error{Code: CodeFileNotFound}
	ErrNoWritableBuckets     = &Error{Code: CodeNoWritableBuckets}
	ErrLinkNotFound          = &Error{Code: CodeLinkNotFound}
	ErrLinkExpired           = &Error{Code: CodeLinkExpired}
	ErrAccountExpired        = &Error{Code: CodeAccountExpired}
	ErrAdminOnly             = &Error{Code: CodeAdminOnly}
	ErrBucketAlreadyExists   = &Error{Code: CodeBucketAlreadyExists}
)

// UploadIncomplete reports commit_upload called before every expected chunk
// was reported.
func UploadIncomplete(uploaded, expected uint32) *Error {
	return &Error{Code: CodeUploadIncomplete, Uploaded: uploaded, Expected: expected}
}

// TransferFailed wraps msg as the protocol's TransferFailed(msg) variant,
// returned when admin_withdraw's ledger transfer fails.
func TransferFailed(msg string) *Error {
	return &Error{Code: CodeTransferFailed, Message: msg}
}

// InvalidRequest wraps msg as the protocol's InvalidRequest(msg) variant.
func InvalidRequest(msg string) *Error {
	return &Error{Code: CodeInvalidRequest, Message: msg}
}

// Is supports errors.Is(err, SentinelError) comparisons by Code, so callers
// can match a wrapped *Error the same way they'd match a plain sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
