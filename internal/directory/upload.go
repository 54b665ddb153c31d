package directory

import (
	"context"
	"crypto/rand"
	"encoding/binary"

	"github.com/AntonioVentilii/vault-core/internal/authtoken"
	"github.com/AntonioVentilii/vault-core/internal/directoryerr"
	"github.com/AntonioVentilii/vault-core/internal/logger"
	"github.com/AntonioVentilii/vault-core/internal/metrics"
	"github.com/AntonioVentilii/vault-core/internal/payment"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
)

// uploadTokenTTLNs bounds how long a single get_upload_tokens grant is good
// for, shorter than the session TTL so a stale token can't outlive its
// session.
const uploadTokenTTLNs = 10 * vaulttypes.MinuteNs

func newRandomID() [vaulttypes.FileIDLen]byte {
	var id [vaulttypes.FileIDLen]byte
	_, _ = rand.Read(id[:])
	return id
}

// newUploadID mints a 16-byte upload id: the first 8 bytes are the current
// time so ids sort roughly chronologically, the last 8 are random so two ids
// minted in the same nanosecond still can't collide.
func newUploadID(nowNs uint64) [vaulttypes.FileIDLen]byte {
	var id [vaulttypes.FileIDLen]byte
	binary.BigEndian.PutUint64(id[:8], nowNs)
	_, _ = rand.Read(id[8:])
	return id
}

// StartUpload opens a new upload session: it checks the caller's quota,
// charges the start_upload fee, and reserves a FileID and UploadID for the
// session. Bucket placement happens lazily on the first GetUploadTokens
// call, not here.
func (s *Service) StartUpload(ctx context.Context, caller principal.Principal, name, mime string, sizeBytes uint64, funding payment.FundingKind) (vaulttypes.FileID, [vaulttypes.FileIDLen]byte, uint64, *directoryerr.Error) {
	var zeroFileID vaulttypes.FileID
	var zeroUploadID [vaulttypes.FileIDLen]byte

	s.store.Lock()
	defer s.store.Unlock()

	user := s.store.GetUser(caller)
	now := s.now()
	if user.ExpiresAtNs != 0 && now > user.ExpiresAtNs {
		return zeroFileID, zeroUploadID, 0, directoryerr.ErrAccountExpired
	}
	if user.UsedBytes+sizeBytes > user.QuotaBytes {
		metrics.QuotaExceededTotal.Inc()
		return zeroFileID, zeroUploadID, 0, directoryerr.QuotaExceeded(user.UsedBytes, sizeBytes, user.QuotaBytes)
	}

	if err := s.guard.Deduct(ctx, payment.MethodStartUpload, funding); err != nil {
		metrics.RecordPaymentFailure(string(payment.MethodStartUpload))
		return zeroFileID, zeroUploadID, 0, directoryerr.PaymentFailed(err.Error())
	}

	fileID := vaulttypes.FileID{Owner: caller, ID: newRandomID()}

	uploadID := newUploadID(now)
	for {
		if _, exists := s.store.GetUpload(uploadID); !exists {
			break
		}
		uploadID = newUploadID(now)
	}

	chunkCount := vaulttypes.ChunkCount(sizeBytes, vaulttypes.UploadChunkSize)
	session := vaulttypes.UploadSession{
		UploadID:           uploadID,
		FileID:             fileID,
		Name:               name,
		Mime:               mime,
		ChunkSize:          vaulttypes.UploadChunkSize,
		ExpectedSizeBytes:  sizeBytes,
		ExpectedChunkCount: chunkCount,
		UploadedChunks:     make(map[uint32]struct{}, chunkCount),
		ExpiresAtNs:        now + vaulttypes.SessionTTLNs,
		ReservedCredit:     payment.CalculateReservationCost(sizeBytes),
	}

	s.store.PutUpload(session)

	metrics.UploadSessionsActive.Inc()
	logger.FromContext(ctx).Debug("upload session started", "upload_id", session.UploadID)

	return fileID, uploadID, uint64(chunkCount), nil
}

// GetUploadTokens mints a signed UploadToken authorizing the caller to put
// the requested chunk indices to the session's assigned bucket. The first
// call for a session picks the bucket (the first writable entry in
// ascending Principal order) and records it; later calls reuse that choice.
func (s *Service) GetUploadTokens(caller principal.Principal, uploadID [vaulttypes.FileIDLen]byte, chunkIndices []uint32) (principal.Principal, vaulttypes.UploadToken, *directoryerr.Error) {
	var zero vaulttypes.UploadToken

	s.store.Lock()
	defer s.store.Unlock()

	session, ok := s.store.GetUpload(uploadID)
	if !ok {
		return nil, zero, directoryerr.ErrUploadSessionNotFound
	}
	if !session.FileID.Owner.Equal(caller) {
		return nil, zero, directoryerr.ErrUnauthorized
	}

	bucket, ok := s.store.GetFileBucket(session.FileID)
	if !ok {
		placed, ok := s.store.FirstWritableBucket()
		if !ok {
			return nil, zero, directoryerr.ErrNoWritableBuckets
		}
		s.store.SetFileBucket(session.FileID, placed.ID)
		bucket = placed.ID
	}

	token := vaulttypes.UploadToken{
		UploadID:      uploadID,
		FileID:        session.FileID,
		BucketID:      bucket,
		DirectoryID:   s.self,
		ExpiresAtNs:   min(s.now()+uploadTokenTTLNs, session.ExpiresAtNs),
		AllowedChunks: chunkIndices,
	}
	if err := authtoken.SignUpload(&token, s.secret); err != nil {
		return nil, zero, directoryerr.InvalidRequest(err.Error())
	}

	return bucket, token, nil
}

// ReportChunkUploaded records that chunkIndex has landed in the bucket, the
// client-issued confirmation the protocol treats as authoritative (the
// Bucket's best-effort notification is never enough on its own). An index at
// or past the session's expected chunk count is not recorded.
func (s *Service) ReportChunkUploaded(caller principal.Principal, uploadID [vaulttypes.FileIDLen]byte, chunkIndex uint32) *directoryerr.Error {
	s.store.Lock()
	defer s.store.Unlock()

	session, ok := s.store.GetUpload(uploadID)
	if !ok {
		return directoryerr.ErrUploadSessionNotFound
	}
	if !session.FileID.Owner.Equal(caller) {
		return directoryerr.ErrUnauthorized
	}

	if chunkIndex < session.ExpectedChunkCount {
		session.UploadedChunks[chunkIndex] = struct{}{}
		s.store.PutUpload(session)
	}
	return nil
}

// CommitUpload finalizes a session into a FileMeta once every expected chunk
// has been reported, charging the caller's quota for the file's size.
func (s *Service) CommitUpload(caller principal.Principal, uploadID [vaulttypes.FileIDLen]byte, sha256 []byte) (vaulttypes.FileMeta, *directoryerr.Error) {
	var zero vaulttypes.FileMeta

	s.store.Lock()
	defer s.store.Unlock()

	session, ok := s.store.GetUpload(uploadID)
	if !ok {
		return zero, directoryerr.ErrUploadSessionNotFound
	}
	if !session.FileID.Owner.Equal(caller) {
		return zero, directoryerr.ErrUnauthorized
	}
	if !session.IsComplete() {
		return zero, directoryerr.UploadIncomplete(uint32(session.UploadedCount()), session.ExpectedChunkCount)
	}

	now := s.now()
	meta := vaulttypes.FileMeta{
		FileID:      session.FileID,
		Name:        session.Name,
		Mime:        session.Mime,
		SizeBytes:   session.ExpectedSizeBytes,
		ChunkSize:   session.ChunkSize,
		ChunkCount:  session.ExpectedChunkCount,
		CreatedAtNs: now,
		UpdatedAtNs: now,
		Status:      vaulttypes.FileStatusReady,
		SHA256:      sha256,
	}
	s.store.PutFile(meta)

	user := s.store.GetUser(caller)
	user.UsedBytes += session.ExpectedSizeBytes
	s.store.PutUser(caller, user)

	s.store.DeleteUpload(uploadID)

	metrics.UploadSessionsActive.Dec()
	metrics.RecordUploadSessionOutcome("committed")
	metrics.FilesCommittedTotal.Inc()

	return meta, nil
}

// AbortUpload discards an in-progress session together with its
// FILE_TO_BUCKET entry. Chunks already placed in the bucket are not deleted,
// and since garbage_collect finds orphans only through FILE_TO_BUCKET
// entries, it does not reclaim them either.
func (s *Service) AbortUpload(caller principal.Principal, uploadID [vaulttypes.FileIDLen]byte) *directoryerr.Error {
	s.store.Lock()
	defer s.store.Unlock()

	session, ok := s.store.GetUpload(uploadID)
	if !ok {
		return directoryerr.ErrUploadSessionNotFound
	}
	if !session.FileID.Owner.Equal(caller) {
		return directoryerr.ErrUnauthorized
	}

	s.store.DeleteUpload(uploadID)
	s.store.DeleteFileBucket(session.FileID)

	metrics.UploadSessionsActive.Dec()
	metrics.RecordUploadSessionOutcome("aborted")

	return nil
}
