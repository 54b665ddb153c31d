package directory

import (
	"github.com/AntonioVentilii/vault-core/internal/authtoken"
	"github.com/AntonioVentilii/vault-core/internal/directoryerr"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
)

// downloadTokenTTLNs bounds how long a get_download_plan grant is good for.
const downloadTokenTTLNs = 10 * vaulttypes.MinuteNs

// GetDownloadPlan builds the chunk layout and the per-bucket download token a
// caller needs to fetch a file, after checking that caller may read it.
func (s *Service) GetDownloadPlan(caller principal.Principal, fileID vaulttypes.FileID) (vaulttypes.DownloadPlan, *directoryerr.Error) {
	var zero vaulttypes.DownloadPlan

	s.store.Lock()
	defer s.store.Unlock()

	user := s.store.GetUser(caller)
	if user.ExpiresAtNs != 0 && s.now() > user.ExpiresAtNs {
		return zero, directoryerr.ErrAccountExpired
	}

	meta, ok := s.store.GetFile(fileID)
	if !ok || meta.Status != vaulttypes.FileStatusReady {
		return zero, directoryerr.ErrFileNotFound
	}
	if !meta.CanRead(caller) {
		return zero, directoryerr.ErrUnauthorized
	}

	bucket, ok := s.store.GetFileBucket(fileID)
	if !ok {
		return zero, directoryerr.ErrFileNotFound
	}

	return s.buildDownloadPlan(meta, bucket, s.now()+downloadTokenTTLNs)
}

// buildDownloadPlan mints one DownloadToken per distinct bucket the file's
// chunks live in. Every chunk of a committed file shares the single bucket
// it was uploaded to, so today this always produces exactly one token, but
// the per-chunk Locations slice lets a future multi-bucket placement scheme
// slot in without changing the wire shape. expiresAtNs is the caller-computed
// token expiry, already capped against any share link the plan was resolved
// through.
func (s *Service) buildDownloadPlan(meta vaulttypes.FileMeta, bucket principal.Principal, expiresAtNs uint64) (vaulttypes.DownloadPlan, *directoryerr.Error) {
	token := vaulttypes.DownloadToken{
		FileID:      meta.FileID,
		BucketID:    bucket,
		DirectoryID: s.self,
		ExpiresAtNs: expiresAtNs,
	}
	if err := authtoken.SignDownload(&token, s.secret); err != nil {
		return vaulttypes.DownloadPlan{}, directoryerr.InvalidRequest(err.Error())
	}

	locations := make([]vaulttypes.ChunkLocation, meta.ChunkCount)
	for i := range locations {
		locations[i] = vaulttypes.ChunkLocation{ChunkIndex: uint32(i), Bucket: bucket}
	}

	return vaulttypes.DownloadPlan{
		ChunkCount: meta.ChunkCount,
		ChunkSize:  meta.ChunkSize,
		Locations:  locations,
		Auth:       []vaulttypes.BucketAuth{{BucketID: bucket, Token: token}},
	}, nil
}

// GetDownloadPlanViaLink resolves an unrevoked, unexpired share link and
// builds the same plan GetDownloadPlan would for an ACL'd reader, without
// requiring a caller identity.
func (s *Service) GetDownloadPlanViaLink(linkToken []byte) (vaulttypes.DownloadPlan, *directoryerr.Error) {
	var zero vaulttypes.DownloadPlan

	s.store.Lock()
	defer s.store.Unlock()

	link, ok := s.store.GetLink(linkToken)
	if !ok {
		return zero, directoryerr.ErrLinkNotFound
	}
	if link.Revoked || s.now() > link.ExpiresAtNs {
		return zero, directoryerr.ErrLinkExpired
	}

	meta, ok := s.store.GetFile(link.FileID)
	if !ok || meta.Status != vaulttypes.FileStatusReady {
		return zero, directoryerr.ErrFileNotFound
	}

	bucket, ok := s.store.GetFileBucket(link.FileID)
	if !ok {
		return zero, directoryerr.ErrFileNotFound
	}

	expiresAtNs := s.now() + downloadTokenTTLNs
	if link.ExpiresAtNs < expiresAtNs {
		expiresAtNs = link.ExpiresAtNs
	}

	return s.buildDownloadPlan(meta, bucket, expiresAtNs)
}
