package directory

import (
	"context"

	"github.com/AntonioVentilii/vault-core/internal/logger"
	"github.com/AntonioVentilii/vault-core/internal/metrics"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
)

// ReapExpiredUploads removes every upload session past its TTL, freeing the
// FileID/bucket reservation it held. It is safe to call concurrently with
// normal traffic and is the operation the reaper worker calls on a timer.
func (s *Service) ReapExpiredUploads(ctx context.Context) int {
	now := s.now()

	s.store.Lock()
	expired := s.store.ExpiredUploads(now)
	for _, session := range expired {
		s.store.DeleteUpload(session.UploadID)
		s.store.DeleteFileBucket(session.FileID)
	}
	s.store.Unlock()

	if len(expired) > 0 {
		metrics.UploadSessionsActive.Sub(float64(len(expired)))
		for range expired {
			metrics.RecordUploadSessionOutcome("reaped")
		}
		logger.FromContext(ctx).Info("reaped expired upload sessions", "count", len(expired))
	}
	metrics.ReaperSweepsTotal.Inc()
	metrics.ReaperSessionsReapedTotal.Add(float64(len(expired)))

	return len(expired)
}

// GarbageCollect reaps expired upload sessions, then finds FILE_TO_BUCKET
// entries whose FILES row is gone (because DeleteFile's bucket cascade
// failed, or a process crashed between the two writes) and retries the
// bucket delete_file call for each. Entries that still belong to an open
// upload session are skipped. It returns the count of each kind of
// work it did: expired upload sessions reaped, and orphaned bucket entries
// reclaimed.
func (s *Service) GarbageCollect(ctx context.Context) (reaped, reclaimed int) {
	reaped = s.ReapExpiredUploads(ctx)

	s.store.Lock()
	orphans := s.store.OrphanedFileBuckets()
	s.store.uploads.Ascend(func(_ []byte, sess vaulttypes.UploadSession) bool {
		delete(orphans, string(sess.FileID.Key()))
		return true
	})
	buckets := s.store.ListBuckets()
	s.store.Unlock()

	baseURLs := make(map[string]string, len(buckets))
	for _, b := range buckets {
		baseURLs[b.ID.String()] = b.BaseURL
	}

	for key, bucket := range orphans {
		fileID := decodeFileBucketKey(key)

		baseURL, ok := baseURLs[bucket.String()]
		if !ok || baseURL == "" || s.bucketClient == nil {
			continue
		}
		if err := s.bucketClient.DeleteFile(ctx, baseURL, fileID.Owner, fileID.ID); err != nil {
			logger.FromContext(ctx).Warn("garbage_collect: bucket delete_file retry failed", "bucket", bucket.String(), "error", err)
			continue
		}

		s.store.Lock()
		s.store.DeleteFileBucket(fileID)
		s.store.Unlock()
		reclaimed++
	}

	return reaped, reclaimed
}

// decodeFileBucketKey reverses FileID.Key(): the key is the owner's
// Principal bytes followed by the fixed-length file id suffix.
func decodeFileBucketKey(key string) vaulttypes.FileID {
	raw := []byte(key)
	ownerLen := len(raw) - vaulttypes.FileIDLen
	owner := principal.Principal(append([]byte(nil), raw[:ownerLen]...))
	var id [vaulttypes.FileIDLen]byte
	copy(id[:], raw[ownerLen:])
	return vaulttypes.FileID{Owner: owner, ID: id}
}
