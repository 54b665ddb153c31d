// Package httprpc is the shared net/http transport the Directory and Bucket
// services use to expose their RPCs. Every RPC is a single endpoint named
// after the operation (mirroring the canister entrypoints this system
// replaces), POST except the Bucket's read-only stat and get_status, which
// are GET, and every response body is one of the two envelope variants
// described below: there are no bare nulls and no ad-hoc status-only
// responses.
package httprpc

import (
	"encoding/json"
	"net/http"

	"github.com/AntonioVentilii/vault-core/internal/logger"
)

// Envelope is the wire shape for every RPC response: exactly one of Ok or
// Err is present.
type Envelope struct {
	Ok  json.RawMessage `json:"ok,omitempty"`
	Err json.RawMessage `json:"err,omitempty"`
}

// ErrorBody is the Err payload: a tagged code plus a human-readable message
// and whatever structured fields the originating error carried.
type ErrorBody struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail,omitempty"`
}

// CodedError is implemented by directoryerr.Error and bucketerr.Error so this
// package can encode either without importing them (which would create an
// import cycle: both error packages are lower in the dependency graph than
// the services that use this transport).
type CodedError interface {
	error
	ErrorCode() string
}

// StatusMapper maps an error code to a response status. Each service passes
// its own (directoryerr.HTTPStatus, bucketerr.HTTPStatus) since the code sets
// differ between Directory and Bucket.
type StatusMapper func(code string) int

// WriteOk encodes a successful RPC result as {"ok": value}.
func WriteOk(w http.ResponseWriter, r *http.Request, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		WriteInternalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(Envelope{Ok: payload})
}

// WriteErr encodes a CodedError as {"err": {...}} using statusFor to pick the
// HTTP status code. Detail is whatever fields the concrete error type
// attaches beyond Code/Message (quota usage, chunk index, etc.); callers
// that want those fields in the body should marshal the full error value as
// detail themselves before calling WriteErr via WriteErrWithDetail.
func WriteErr(w http.ResponseWriter, r *http.Request, statusFor StatusMapper, err CodedError) {
	WriteErrWithDetail(w, r, statusFor, err, nil)
}

// WriteErrWithDetail is WriteErr with an explicit detail payload, used when
// the caller already has the full structured error (with fields like Used/
// Requested/Quota or ChunkIndex) and wants it round-tripped to the client.
func WriteErrWithDetail(w http.ResponseWriter, r *http.Request, statusFor StatusMapper, err CodedError, detail any) {
	log := logger.FromContext(r.Context())
	log.Warn("rpc error", "code", err.ErrorCode(), "message", err.Error())

	var rawDetail json.RawMessage
	if detail != nil {
		if b, marshalErr := json.Marshal(detail); marshalErr == nil {
			rawDetail = b
		}
	}

	body := ErrorBody{
		Code:    err.ErrorCode(),
		Message: err.Error(),
		Detail:  rawDetail,
	}
	payload, marshalErr := json.Marshal(body)
	if marshalErr != nil {
		WriteInternalError(w, r, marshalErr)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(err.ErrorCode()))
	_ = json.NewEncoder(w).Encode(Envelope{Err: payload})
}

// WriteInternalError handles failures that aren't a CodedError: JSON
// marshal/decode failures, context cancellation, anything unexpected. These
// never leak internals to the client.
func WriteInternalError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Error("unhandled rpc error", "error", err.Error())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(Envelope{
		Err: mustMarshal(ErrorBody{Code: "internal", Message: "internal error"}),
	})
}

// DecodeJSON decodes the request body into dst, writing a 400 invalid-request
// envelope on failure and returning false so callers can return early.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log := logger.FromContext(r.Context())
		log.Warn("rpc decode failure", "error", err.Error())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(Envelope{
			Err: mustMarshal(ErrorBody{Code: "invalid_request", Message: "malformed request body"}),
		})
		return false
	}
	return true
}

func mustMarshal(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{"code":"internal","message":"internal error"}`)
	}
	return b
}
