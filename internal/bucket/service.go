// Package bucket implements the Bucket half of the store: a ChunkStore
// keyed by packed ChunkKey, gated by capability-token verification and a
// per-call payment deduction, with an admin surface for withdrawal and
// read-only mode.
package bucket

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AntonioVentilii/vault-core/internal/authtoken"
	"github.com/AntonioVentilii/vault-core/internal/bucket/notify"
	"github.com/AntonioVentilii/vault-core/internal/bucketerr"
	"github.com/AntonioVentilii/vault-core/internal/logger"
	"github.com/AntonioVentilii/vault-core/internal/metrics"
	"github.com/AntonioVentilii/vault-core/internal/payment"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
)

// Withdrawer performs the actual ledger transfer for admin_withdraw. The
// concrete implementation lives outside this package.
type Withdrawer interface {
	Withdraw(ctx context.Context, ledger string, amount uint64, to principal.Principal) error
}

// Service implements every Bucket RPC. mu guards the ChunkStore around each
// single Put, Get, DeleteFile or count/usage read; it is not held across the
// payment deduction call. This mirrors the one-lock-per-store shape the
// teacher's upload session store uses rather than sharding per chunk.
type Service struct {
	mu sync.Mutex

	self       principal.Principal
	secret     []byte
	admins     principal.Set
	store      *ChunkStore
	guard      *payment.Guard
	withdrawer Withdrawer
	publisher  notify.Publisher

	readOnly       atomic.Bool
	softLimitBytes uint64
	hardLimitBytes uint64

	now func() uint64 // nanoseconds since epoch; overridable in tests
}

// NewService constructs a Bucket Service.
func NewService(self principal.Principal, secret []byte, admins principal.Set, guard *payment.Guard, withdrawer Withdrawer, publisher notify.Publisher, softLimitBytes, hardLimitBytes uint64) *Service {
	return &Service{
		self:           self,
		secret:         secret,
		admins:         admins,
		store:          NewChunkStore(),
		guard:          guard,
		withdrawer:     withdrawer,
		publisher:      publisher,
		softLimitBytes: softLimitBytes,
		hardLimitBytes: hardLimitBytes,
		now:            func() uint64 { return uint64(time.Now().UnixNano()) },
	}
}

// PutChunk validates payment, read-only mode, and the token's precondition
// chain, in that order, then stores the chunk and fires the best-effort
// chunk-report notification.
func (s *Service) PutChunk(ctx context.Context, token vaulttypes.UploadToken, chunkIndex uint32, data []byte, funding payment.FundingKind) (int, *bucketerr.Error) {
	if err := s.guard.Deduct(ctx, payment.MethodPutChunk, funding); err != nil {
		metrics.RecordPaymentFailure(string(payment.MethodPutChunk))
		return 0, bucketerr.ErrPaymentFailed
	}

	if s.readOnly.Load() {
		return 0, bucketerr.ErrReadOnly
	}

	if err := authtoken.CheckUpload(token, s.secret, s.self, s.now(), chunkIndex); err != nil {
		metrics.RecordTokenVerification("upload", "rejected")
		return 0, bucketerr.FromAuthError(err)
	}
	metrics.RecordTokenVerification("upload", "accepted")

	key := vaulttypes.PackChunkKey(token.FileID.Owner, token.FileID.ID, chunkIndex)

	s.mu.Lock()
	n := s.store.Put(key, data)
	s.mu.Unlock()

	metrics.RecordChunkUploaded("success", n)

	s.notifyChunkUploaded(ctx, token, chunkIndex)

	return n, nil
}

func (s *Service) notifyChunkUploaded(ctx context.Context, token vaulttypes.UploadToken, chunkIndex uint32) {
	log := logger.FromContext(ctx)
	report := notify.ChunkReport{
		DirectoryID: token.DirectoryID.String(),
		UploadID:    principal.Principal(token.UploadID[:]).String(),
		ChunkIndex:  chunkIndex,
	}
	if err := s.publisher.Publish(ctx, report); err != nil {
		log.Warn("chunk report notification failed", "error", err.Error())
	}
}

// GetChunk validates a DownloadToken and returns the stored chunk bytes.
func (s *Service) GetChunk(ctx context.Context, token vaulttypes.DownloadToken, chunkIndex uint32) ([]byte, *bucketerr.Error) {
	if err := authtoken.CheckDownload(token, s.secret, s.self, s.now()); err != nil {
		metrics.RecordTokenVerification("download", "rejected")
		return nil, bucketerr.FromAuthError(err)
	}
	metrics.RecordTokenVerification("download", "accepted")

	key := vaulttypes.PackChunkKey(token.FileID.Owner, token.FileID.ID, chunkIndex)

	s.mu.Lock()
	data, ok := s.store.Get(key)
	s.mu.Unlock()

	if !ok {
		return nil, bucketerr.ErrChunkNotFound
	}
	return data, nil
}

// DeleteFile removes every chunk belonging to (owner, fileID). Idempotent.
func (s *Service) DeleteFile(owner principal.Principal, fileID [vaulttypes.FileIDLen]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.DeleteFile(owner, fileID)
}

// AdminSetReadOnly toggles write rejection. Admin-only.
func (s *Service) AdminSetReadOnly(caller principal.Principal, readOnly bool) *bucketerr.Error {
	if !s.admins.Contains(caller) {
		return bucketerr.ErrAdminOnly
	}
	s.readOnly.Store(readOnly)
	return nil
}

// AdminWithdraw transfers amount from this bucket's balance on ledger to to.
// Admin-only.
func (s *Service) AdminWithdraw(ctx context.Context, caller principal.Principal, ledger string, amount uint64, to principal.Principal) *bucketerr.Error {
	if !s.admins.Contains(caller) {
		return bucketerr.ErrAdminOnly
	}
	if err := s.withdrawer.Withdraw(ctx, ledger, amount, to); err != nil {
		return bucketerr.Other(err.Error())
	}
	return nil
}

// Stat returns a human-readable summary, as the protocol's stat() RPC does.
func (s *Service) Stat() string {
	s.mu.Lock()
	count := s.store.ChunkCount()
	used := s.store.UsedBytes()
	s.mu.Unlock()
	return statLine(count, used)
}

func statLine(chunkCount int, usedBytes uint64) string {
	return fmt.Sprintf("chunks=%d used_bytes=%d", chunkCount, usedBytes)
}

// Status is the structured equivalent of Stat, returned by get_status().
// Each GetStatus call also updates the vault_bucket_used_bytes gauge.
type Status struct {
	ChunkCount     int    `json:"chunk_count"`
	UsedBytes      uint64 `json:"used_bytes"`
	SoftLimitBytes uint64 `json:"soft_limit_bytes"`
	HardLimitBytes uint64 `json:"hard_limit_bytes"`
	ReadOnly       bool   `json:"read_only"`
	Writable       bool   `json:"writable"`
}

// GetStatus returns the Bucket's current capacity and write eligibility.
func (s *Service) GetStatus() Status {
	s.mu.Lock()
	count := s.store.ChunkCount()
	used := s.store.UsedBytes()
	s.mu.Unlock()

	readOnly := s.readOnly.Load()
	writable := !readOnly && used < s.softLimitBytes

	metrics.SetBucketUsedBytes(s.self.String(), used)

	return Status{
		ChunkCount:     count,
		UsedBytes:      used,
		SoftLimitBytes: s.softLimitBytes,
		HardLimitBytes: s.hardLimitBytes,
		ReadOnly:       readOnly,
		Writable:       writable,
	}
}
