package directory

import (
	"context"

	"github.com/AntonioVentilii/vault-core/internal/directoryerr"
	"github.com/AntonioVentilii/vault-core/internal/logger"
	"github.com/AntonioVentilii/vault-core/internal/metrics"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
)

// AddFileAccess grants grantee reader or writer access to a file the caller
// owns. Granting an already-held role is a no-op.
func (s *Service) AddFileAccess(caller principal.Principal, fileID vaulttypes.FileID, grantee principal.Principal, role vaulttypes.FileRole) *directoryerr.Error {
	s.store.Lock()
	defer s.store.Unlock()

	meta, ok := s.store.GetFile(fileID)
	if !ok || meta.Status != vaulttypes.FileStatusReady {
		return directoryerr.ErrFileNotFound
	}
	if !meta.FileID.Owner.Equal(caller) {
		return directoryerr.ErrUnauthorized
	}

	switch role {
	case vaulttypes.RoleWriter:
		if !meta.HasWriter(grantee) {
			meta.Writers = append(meta.Writers, grantee)
		}
	case vaulttypes.RoleReader:
		if !meta.HasReader(grantee) {
			meta.Readers = append(meta.Readers, grantee)
		}
	default:
		return directoryerr.InvalidRequest("unknown file role")
	}

	meta.UpdatedAtNs = s.now()
	s.store.PutFile(meta)
	return nil
}

// RemoveFileAccess revokes grantee's reader or writer grant. Revoking a role
// the grantee doesn't hold is a no-op.
func (s *Service) RemoveFileAccess(caller principal.Principal, fileID vaulttypes.FileID, grantee principal.Principal, role vaulttypes.FileRole) *directoryerr.Error {
	s.store.Lock()
	defer s.store.Unlock()

	meta, ok := s.store.GetFile(fileID)
	if !ok || meta.Status != vaulttypes.FileStatusReady {
		return directoryerr.ErrFileNotFound
	}
	if !meta.FileID.Owner.Equal(caller) {
		return directoryerr.ErrUnauthorized
	}

	switch role {
	case vaulttypes.RoleWriter:
		meta.Writers = removePrincipal(meta.Writers, grantee)
	case vaulttypes.RoleReader:
		meta.Readers = removePrincipal(meta.Readers, grantee)
	default:
		return directoryerr.InvalidRequest("unknown file role")
	}

	meta.UpdatedAtNs = s.now()
	s.store.PutFile(meta)
	return nil
}

func removePrincipal(list []principal.Principal, target principal.Principal) []principal.Principal {
	out := list[:0]
	for _, p := range list {
		if !p.Equal(target) {
			out = append(out, p)
		}
	}
	return out
}

// DeleteFile removes a file's metadata, frees its quota, and asks its
// bucket to delete the chunks. A failed bucket call does not block the
// metadata deletion: the chunks become an orphaned FILE_TO_BUCKET entry that
// garbage_collect reclaims on its next sweep.
func (s *Service) DeleteFile(ctx context.Context, caller principal.Principal, fileID vaulttypes.FileID) *directoryerr.Error {
	s.store.Lock()

	meta, ok := s.store.GetFile(fileID)
	if !ok {
		s.store.Unlock()
		return directoryerr.ErrFileNotFound
	}
	if !meta.CanWrite(caller) {
		s.store.Unlock()
		return directoryerr.ErrUnauthorized
	}

	bucket, hasBucket := s.store.GetFileBucket(fileID)

	s.store.DeleteFile(fileID)
	owner := fileID.Owner
	user := s.store.GetUser(owner)
	if user.UsedBytes > meta.SizeBytes {
		user.UsedBytes -= meta.SizeBytes
	} else {
		user.UsedBytes = 0
	}
	s.store.PutUser(owner, user)

	s.store.Unlock()

	metrics.RecordFileDeletion("ok")

	if hasBucket && s.bucketClient != nil {
		s.store.Lock()
		info, hasInfo := s.store.GetBucket(bucket)
		s.store.Unlock()
		if !hasInfo || info.BaseURL == "" {
			logger.FromContext(ctx).Warn("delete_file: no base URL for bucket", "bucket", bucket.String())
			return nil
		}
		if err := s.bucketClient.DeleteFile(ctx, info.BaseURL, fileID.Owner, fileID.ID); err != nil {
			logger.FromContext(ctx).Warn("delete_file cascade failed, leaving chunks for gc", "bucket", bucket.String(), "error", err)
		} else {
			s.store.Lock()
			s.store.DeleteFileBucket(fileID)
			s.store.Unlock()
		}
	}

	return nil
}
