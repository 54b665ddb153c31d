// Package bucketerr implements the Bucket service's tagged error taxonomy,
// the Bucket-side counterpart to internal/directoryerr.
package bucketerr

import (
	"errors"
	"fmt"

	"github.com/AntonioVentilii/vault-core/internal/authtoken"
)

// Code names one Bucket error variant.
type Code string

const (
	CodePaymentFailed    Code = "payment_failed"
	CodeInvalidSignature Code = "invalid_signature"
	CodeTokenExpired     Code = "token_expired"
	CodeWrongBucket      Code = "wrong_bucket"
	CodeChunkNotAllowed  Code = "chunk_not_allowed"
	CodeInvalidFileID    Code = "invalid_file_id"
	CodeChunkNotFound    Code = "chunk_not_found"
	CodeUnauthorized     Code = "unauthorized"
	CodeAdminOnly        Code = "admin_only"
	CodeReadOnly         Code = "read_only"
	CodeOther            Code = "other"
)

// Error is the Bucket's tagged error envelope.
type Error struct {
	Code       Code   `json:"code"`
	Message    string `json:"message,omitempty"`
	ChunkIndex uint32 `json:"chunk_index,omitempty"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("bucket: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("bucket: %s", e.Code)
}

// ErrorCode satisfies httprpc.CodedError so the transport layer can encode
// this error without importing bucketerr.
func (e *Error) ErrorCode() string {
	return string(e.Code)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrPaymentFailed    = &Error{Code: CodePaymentFailed}
	ErrInvalidSignature = &Error{Code: CodeInvalidSignature}
	ErrTokenExpired     = &Error{Code: CodeTokenExpired}
	ErrWrongBucket      = &Error{Code: CodeWrongBucket}
	ErrInvalidFileID    = &Error{Code: CodeInvalidFileID}
	ErrChunkNotFound    = &Error{Code: CodeChunkNotFound}
	ErrUnauthorized     = &Error{Code: CodeUnauthorized}
	ErrAdminOnly        = &Error{Code: CodeAdminOnly}
	ErrReadOnly         = &Error{Code: CodeReadOnly}
)

// ChunkNotAllowed reports the protocol's ChunkNotAllowed(idx) variant.
func ChunkNotAllowed(idx uint32) *Error {
	return &Error{Code: CodeChunkNotAllowed, ChunkIndex: idx}
}

// Other wraps msg as the protocol's Other(msg) catch-all variant, used for
// failures (disk I/O, internal invariant violations) that don't fit a named
// variant.
func Other(msg string) *Error {
	return &Error{Code: CodeOther, Message: msg}
}

// FromAuthError maps the authtoken package's precondition-chain errors onto
// the matching Bucket error variant, keeping the mapping in one place rather
// than scattered across every RPC handler that calls authtoken.Check*.
func FromAuthError(err error) *Error {
	if err == nil {
		return nil
	}
	var notAllowed *authtoken.ChunkNotAllowedError
	switch {
	case errors.Is(err, authtoken.ErrInvalidSignature):
		return ErrInvalidSignature
	case errors.Is(err, authtoken.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, authtoken.ErrWrongBucket):
		return ErrWrongBucket
	case errors.As(err, &notAllowed):
		return ChunkNotAllowed(notAllowed.Index)
	default:
		return Other(err.Error())
	}
}
