// Package authtoken implements deterministic HMAC-SHA256 signing and
// verification of UploadToken and DownloadToken over an exact canonical byte
// encoding: the mechanism that lets a Directory delegate authority to a
// Bucket it does not otherwise trust to re-check ACLs.
//
// The field order and integer endianness below is a wire-compat contract:
// changing it invalidates every token a deployed client might still be
// holding.
package authtoken

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
)

// MinSecretLen is the minimum shared-secret length the protocol calls for
// ("a shared 32+ byte secret").
const MinSecretLen = 32

// ErrInvalidSignature, ErrTokenExpired and ErrWrongBucket, together with
// ChunkNotAllowedError below, are the four check failures fatal for the
// calling RPC; the client must request a fresh token. ErrShortSecret is
// returned when the secret is shorter than MinSecretLen.
var (
	ErrInvalidSignature = errors.New("authtoken: invalid signature")
	ErrTokenExpired     = errors.New("authtoken: token expired")
	ErrWrongBucket      = errors.New("authtoken: wrong bucket")
	ErrShortSecret      = errors.New("authtoken: secret shorter than 32 bytes")
)

// ChunkNotAllowedError reports that a chunk index, while part of a
// well-formed and still-valid token, is not in the token's allowed set.
type ChunkNotAllowedError struct {
	Index uint32
}

func (e *ChunkNotAllowedError) Error() string {
	return "authtoken: chunk not allowed"
}

func uploadTokenMAC(secret []byte, t vaulttypes.UploadToken) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(t.UploadID[:])
	mac.Write(t.FileID.Owner)
	mac.Write(t.FileID.ID[:])
	mac.Write(t.BucketID)
	mac.Write(t.DirectoryID)
	var expBuf [8]byte
	binary.BigEndian.PutUint64(expBuf[:], t.ExpiresAtNs)
	mac.Write(expBuf[:])
	var chunkBuf [4]byte
	for _, c := range t.AllowedChunks {
		binary.BigEndian.PutUint32(chunkBuf[:], c)
		mac.Write(chunkBuf[:])
	}
	return mac.Sum(nil)
}

func downloadTokenMAC(secret []byte, t vaulttypes.DownloadToken) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(t.FileID.Owner)
	mac.Write(t.FileID.ID[:])
	mac.Write(t.BucketID)
	mac.Write(t.DirectoryID)
	var expBuf [8]byte
	binary.BigEndian.PutUint64(expBuf[:], t.ExpiresAtNs)
	mac.Write(expBuf[:])
	return mac.Sum(nil)
}

// SignUpload signs t in place, setting t.Sig. secret must be at least
// MinSecretLen bytes.
func SignUpload(t *vaulttypes.UploadToken, secret []byte) error {
	if len(secret) < MinSecretLen {
		return ErrShortSecret
	}
	t.Sig = uploadTokenMAC(secret, *t)
	return nil
}

// VerifyUpload reports whether t's signature is valid for secret, using a
// constant-time comparison.
func VerifyUpload(t vaulttypes.UploadToken, secret []byte) bool {
	if len(secret) < MinSecretLen {
		return false
	}
	expected := uploadTokenMAC(secret, t)
	return hmac.Equal(expected, t.Sig)
}

// SignDownload signs t in place, setting t.Sig.
func SignDownload(t *vaulttypes.DownloadToken, secret []byte) error {
	if len(secret) < MinSecretLen {
		return ErrShortSecret
	}
	t.Sig = downloadTokenMAC(secret, *t)
	return nil
}

// VerifyDownload reports whether t's signature is valid for secret.
func VerifyDownload(t vaulttypes.DownloadToken, secret []byte) bool {
	if len(secret) < MinSecretLen {
		return false
	}
	expected := downloadTokenMAC(secret, t)
	return hmac.Equal(expected, t.Sig)
}

// CheckUpload runs the full precondition chain a Bucket applies to an
// UploadToken before accepting a chunk.
func CheckUpload(t vaulttypes.UploadToken, secret []byte, selfBucketID []byte, nowNs uint64, chunkIndex uint32) error {
	if !VerifyUpload(t, secret) {
		return ErrInvalidSignature
	}
	if nowNs > t.ExpiresAtNs {
		return ErrTokenExpired
	}
	if !bytes.Equal(t.BucketID, selfBucketID) {
		return ErrWrongBucket
	}
	for _, c := range t.AllowedChunks {
		if c == chunkIndex {
			return nil
		}
	}
	return &ChunkNotAllowedError{Index: chunkIndex}
}

// CheckDownload runs the precondition chain for a DownloadToken, which
// covers the whole file so there is no chunk-index check.
func CheckDownload(t vaulttypes.DownloadToken, secret []byte, selfBucketID []byte, nowNs uint64) error {
	if !VerifyDownload(t, secret) {
		return ErrInvalidSignature
	}
	if nowNs > t.ExpiresAtNs {
		return ErrTokenExpired
	}
	if !bytes.Equal(t.BucketID, selfBucketID) {
		return ErrWrongBucket
	}
	return nil
}
