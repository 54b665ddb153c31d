// Package vaulttypes holds the wire-level data model shared by the Directory
// and Bucket services: file identity, chunk addressing, session and ACL
// records, and the capability tokens that bridge the two services. These
// types mirror shared/src/types.rs from the original ICP canister pair this
// protocol was distilled from, re-expressed as plain Go structs.
package vaulttypes

import (
	"github.com/AntonioVentilii/vault-core/internal/principal"
)

// FileStatus is the lifecycle state of a FileMeta record.
type FileStatus string

const (
	FileStatusPending FileStatus = "pending"
	FileStatusReady   FileStatus = "ready"
	FileStatusDeleted FileStatus = "deleted"
)

// FileRole distinguishes ACL entries granting read-only vs. read-write
// access to a file beyond its owner.
type FileRole string

const (
	RoleReader FileRole = "reader"
	RoleWriter FileRole = "writer"
)

// FileMeta is the durable record of a committed file.
type FileMeta struct {
	FileID      FileID
	Name        string
	Mime        string
	SizeBytes   uint64
	ChunkSize   uint32
	ChunkCount  uint32
	CreatedAtNs uint64
	UpdatedAtNs uint64
	Status      FileStatus
	SHA256      []byte // optional, nil if unset
	Readers     []principal.Principal
	Writers     []principal.Principal
}

// HasReader reports whether p is listed as a reader (not owner, not writer).
func (m FileMeta) HasReader(p principal.Principal) bool {
	for _, r := range m.Readers {
		if r.Equal(p) {
			return true
		}
	}
	return false
}

// HasWriter reports whether p is listed as a writer.
func (m FileMeta) HasWriter(p principal.Principal) bool {
	for _, w := range m.Writers {
		if w.Equal(p) {
			return true
		}
	}
	return false
}

// CanRead reports whether p may download this file: owner, reader, or
// writer.
func (m FileMeta) CanRead(p principal.Principal) bool {
	return m.FileID.Owner.Equal(p) || m.HasReader(p) || m.HasWriter(p)
}

// CanWrite reports whether p may mutate or delete this file: owner or
// writer.
func (m FileMeta) CanWrite(p principal.Principal) bool {
	return m.FileID.Owner.Equal(p) || m.HasWriter(p)
}

// UploadSession tracks an in-progress chunked upload.
// ChunkSize is fixed at 1 MiB for all sessions.
type UploadSession struct {
	UploadID           [FileIDLen]byte
	FileID             FileID
	Name               string
	Mime               string
	ChunkSize          uint32
	ExpectedSizeBytes  uint64
	ExpectedChunkCount uint32
	UploadedChunks     map[uint32]struct{}
	ExpiresAtNs        uint64
	ReservedCredit     uint64 // cycles reserved against the session's estimated storage cost
}

// UploadedCount returns the number of distinct chunk indices reported so far.
func (s *UploadSession) UploadedCount() int {
	return len(s.UploadedChunks)
}

// IsComplete reports whether every expected chunk has been reported,
// the precondition for commit_upload.
func (s *UploadSession) IsComplete() bool {
	return uint32(len(s.UploadedChunks)) >= s.ExpectedChunkCount
}

// ChunkLocation names the bucket that stores one chunk of a file.
type ChunkLocation struct {
	ChunkIndex uint32
	Bucket     principal.Principal
}

// BucketAuth pairs a bucket with the DownloadToken a client presents to it,
// the reference wire format's parallel "auth" list.
type BucketAuth struct {
	BucketID principal.Principal
	Token    DownloadToken
}

// DownloadPlan tells a client where every chunk of a file lives and how to
// authenticate to fetch it.
type DownloadPlan struct {
	ChunkCount uint32
	ChunkSize  uint32
	Locations  []ChunkLocation
	Auth       []BucketAuth
}

// UploadToken is the capability a client presents to a Bucket's put_chunk,
// minted by the Directory and covering a specific subset of chunk indices.
type UploadToken struct {
	UploadID      [FileIDLen]byte
	FileID        FileID
	BucketID      principal.Principal
	DirectoryID   principal.Principal
	ExpiresAtNs   uint64
	AllowedChunks []uint32
	Sig           []byte
}

// DownloadToken is the capability a client presents to a Bucket's get_chunk,
// covering the whole file rather than individual chunks.
type DownloadToken struct {
	FileID      FileID
	BucketID    principal.Principal
	DirectoryID principal.Principal
	ExpiresAtNs uint64
	Sig         []byte
}

// LinkInfo is a share link granting unauthenticated, time-bounded read
// access to one file.
type LinkInfo struct {
	FileID      FileID
	ExpiresAtNs uint64
	Revoked     bool
}

// BucketInfo tracks one storage bucket's capacity, write eligibility, and
// the address the Directory uses to reach it for delete_file cascades.
type BucketInfo struct {
	ID             principal.Principal
	BaseURL        string
	Writable       bool
	UsedBytes      uint64
	SoftLimitBytes uint64
	HardLimitBytes uint64
}

// IsOverSoftLimit reports whether the bucket should stop accepting new
// placements.
func (b BucketInfo) IsOverSoftLimit() bool {
	return b.UsedBytes >= b.SoftLimitBytes
}

// UserState tracks one user's storage quota. Default quota is
// 10 GiB, applied by the Directory when no record exists yet.
type UserState struct {
	UsedBytes   uint64
	QuotaBytes  uint64
	ExpiresAtNs uint64 // 0 means no expiry; nonzero backs the AccountExpired check
}

const DefaultQuotaBytes = 10 * GiB

// Byte-size constants.
const (
	KiB uint64 = 1024
	MiB        = 1024 * KiB
	GiB        = 1024 * MiB
)

// Duration constants in nanoseconds, matching the original's
// shared/src/constants.rs exactly.
const (
	SecondNs uint64 = 1_000_000_000
	MinuteNs        = 60 * SecondNs
	HourNs          = 60 * MinuteNs
	DayNs           = 24 * HourNs
	MonthNs         = 30 * DayNs
)

// UploadChunkSize is the fixed chunk size for every upload session.
const UploadChunkSize = uint32(MiB)

// SessionTTLNs is how long an upload session lives before the reaper claims
// it.
const SessionTTLNs = HourNs

// ChunkCount computes ceil(sizeBytes / chunkSize), the invariant tying
// FileMeta.ChunkCount and UploadSession.ExpectedChunkCount to size.
func ChunkCount(sizeBytes uint64, chunkSize uint32) uint32 {
	if chunkSize == 0 {
		return 0
	}
	cs := uint64(chunkSize)
	return uint32((sizeBytes + cs - 1) / cs)
}
