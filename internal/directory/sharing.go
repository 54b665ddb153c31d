package directory

import (
	"crypto/rand"

	"github.com/AntonioVentilii/vault-core/internal/directoryerr"
	"github.com/AntonioVentilii/vault-core/internal/metrics"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
)

// linkTokenLen is the byte length of a share link's bearer token, long
// enough that guessing one isn't a viable attack.
const linkTokenLen = 32

func newLinkToken() []byte {
	token := make([]byte, linkTokenLen)
	_, _ = rand.Read(token)
	return token
}

// CreateShareLink mints an unauthenticated, time-bounded read link for a
// file the caller owns. Only the owner may share a file, even if other
// principals hold write access to it.
func (s *Service) CreateShareLink(caller principal.Principal, fileID vaulttypes.FileID, ttlNs uint64) ([]byte, *directoryerr.Error) {
	s.store.Lock()
	defer s.store.Unlock()

	meta, ok := s.store.GetFile(fileID)
	if !ok || meta.Status != vaulttypes.FileStatusReady {
		return nil, directoryerr.ErrFileNotFound
	}
	if !meta.FileID.Owner.Equal(caller) {
		return nil, directoryerr.ErrUnauthorized
	}

	token := newLinkToken()
	s.store.PutLink(token, vaulttypes.LinkInfo{
		FileID:      fileID,
		ExpiresAtNs: s.now() + ttlNs,
	})

	metrics.ShareLinksActive.Inc()
	return token, nil
}

// ResolveShareLink validates a link token and returns the file it grants
// access to, without granting a download plan itself (use
// GetDownloadPlanViaLink for that).
func (s *Service) ResolveShareLink(linkToken []byte) (vaulttypes.FileID, *directoryerr.Error) {
	s.store.Lock()
	defer s.store.Unlock()

	link, ok := s.store.GetLink(linkToken)
	if !ok {
		metrics.RecordShareLinkResolution("not_found")
		return vaulttypes.FileID{}, directoryerr.ErrLinkNotFound
	}
	if link.Revoked || s.now() > link.ExpiresAtNs {
		metrics.RecordShareLinkResolution("expired")
		return vaulttypes.FileID{}, directoryerr.ErrLinkExpired
	}

	metrics.RecordShareLinkResolution("ok")
	return link.FileID, nil
}

// RevokeShareLink marks a link unusable without waiting for its expiry.
// Only the file's owner may revoke it.
func (s *Service) RevokeShareLink(caller principal.Principal, linkToken []byte) *directoryerr.Error {
	s.store.Lock()
	defer s.store.Unlock()

	link, ok := s.store.GetLink(linkToken)
	if !ok {
		return directoryerr.ErrLinkNotFound
	}

	meta, ok := s.store.GetFile(link.FileID)
	if !ok {
		return directoryerr.ErrFileNotFound
	}
	if !meta.FileID.Owner.Equal(caller) {
		return directoryerr.ErrUnauthorized
	}

	if !link.Revoked {
		link.Revoked = true
		s.store.PutLink(linkToken, link)
		metrics.ShareLinksActive.Dec()
	}
	return nil
}
