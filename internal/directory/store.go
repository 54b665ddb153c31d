// Package directory implements the Directory half of the store: the
// SessionStore/QuotaLedger, the upload/download/sharing protocols, ACL and
// admin operations, and garbage collection, all built on the ordered-map
// persistence abstraction in internal/ordmap.
package directory

import (
	"sync"

	"github.com/AntonioVentilii/vault-core/internal/ordmap"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
)

// Store holds every persisted ordered map the Directory owns. A single
// mutex guards all of them together, mirroring the single-threaded
// cooperative execution model: a request performs every map mutation it
// needs before yielding at its one suspension point (the payment
// deduction), so per-map locking would buy nothing and would only risk
// partial updates becoming visible out of order.
type Store struct {
	mu sync.Mutex

	users        *ordmap.Map[vaulttypes.UserState]
	files        *ordmap.Map[vaulttypes.FileMeta]
	uploads      *ordmap.Map[vaulttypes.UploadSession]
	fileToBucket *ordmap.Map[principal.Principal]
	buckets      *ordmap.Map[vaulttypes.BucketInfo]
	links        *ordmap.Map[vaulttypes.LinkInfo]

	defaultQuotaBytes uint64
}

// NewStore returns an empty Store.
func NewStore(defaultQuotaBytes uint64) *Store {
	return &Store{
		users:             ordmap.New[vaulttypes.UserState](),
		files:             ordmap.New[vaulttypes.FileMeta](),
		uploads:           ordmap.New[vaulttypes.UploadSession](),
		fileToBucket:      ordmap.New[principal.Principal](),
		buckets:           ordmap.New[vaulttypes.BucketInfo](),
		links:             ordmap.New[vaulttypes.LinkInfo](),
		defaultQuotaBytes: defaultQuotaBytes,
	}
}

// Lock/Unlock expose the store's mutex to the service layer so a single RPC
// can perform several map operations as one atomic unit without a second
// layer of locking inside each accessor below.
func (s *Store) Lock()   { s.mu.Lock() }
func (s *Store) Unlock() { s.mu.Unlock() }

// --- USERS ---

func (s *Store) GetUser(p principal.Principal) vaulttypes.UserState {
	u, ok := s.users.Get(p)
	if !ok {
		return vaulttypes.UserState{UsedBytes: 0, QuotaBytes: s.defaultQuotaBytes}
	}
	return u
}

func (s *Store) PutUser(p principal.Principal, u vaulttypes.UserState) {
	s.users.Set(p, u)
}

// --- FILES ---

func (s *Store) GetFile(id vaulttypes.FileID) (vaulttypes.FileMeta, bool) {
	return s.files.Get(id.Key())
}

func (s *Store) PutFile(m vaulttypes.FileMeta) {
	s.files.Set(m.FileID.Key(), m)
}

func (s *Store) DeleteFile(id vaulttypes.FileID) bool {
	return s.files.Delete(id.Key())
}

// ListFilesByOwner returns every FileMeta owned by owner, in FileID order.
func (s *Store) ListFilesByOwner(owner principal.Principal) []vaulttypes.FileMeta {
	var out []vaulttypes.FileMeta
	s.files.Ascend(func(_ []byte, m vaulttypes.FileMeta) bool {
		if m.FileID.Owner.Equal(owner) {
			out = append(out, m)
		}
		return true
	})
	return out
}

// --- UPLOADS ---

func (s *Store) GetUpload(uploadID [vaulttypes.FileIDLen]byte) (vaulttypes.UploadSession, bool) {
	return s.uploads.Get(uploadID[:])
}

func (s *Store) PutUpload(sess vaulttypes.UploadSession) {
	s.uploads.Set(sess.UploadID[:], sess)
}

func (s *Store) DeleteUpload(uploadID [vaulttypes.FileIDLen]byte) bool {
	return s.uploads.Delete(uploadID[:])
}

// ExpiredUploads returns every upload session whose expiry has passed.
func (s *Store) ExpiredUploads(nowNs uint64) []vaulttypes.UploadSession {
	var out []vaulttypes.UploadSession
	s.uploads.Ascend(func(_ []byte, sess vaulttypes.UploadSession) bool {
		if sess.ExpiresAtNs < nowNs {
			out = append(out, sess)
		}
		return true
	})
	return out
}

// --- FILE_TO_BUCKET ---

func (s *Store) GetFileBucket(id vaulttypes.FileID) (principal.Principal, bool) {
	return s.fileToBucket.Get(id.Key())
}

func (s *Store) SetFileBucket(id vaulttypes.FileID, bucket principal.Principal) {
	s.fileToBucket.Set(id.Key(), bucket)
}

func (s *Store) DeleteFileBucket(id vaulttypes.FileID) bool {
	return s.fileToBucket.Delete(id.Key())
}

// OrphanedFileBuckets returns every FILE_TO_BUCKET entry whose FILES row is
// now absent, for garbage_collect.
func (s *Store) OrphanedFileBuckets() map[string]principal.Principal {
	orphans := make(map[string]principal.Principal)
	s.fileToBucket.Ascend(func(key []byte, bucket principal.Principal) bool {
		if _, ok := s.files.Get(key); !ok {
			k := make([]byte, len(key))
			copy(k, key)
			orphans[string(k)] = bucket
		}
		return true
	})
	return orphans
}

// --- BUCKETS ---

func (s *Store) GetBucket(id principal.Principal) (vaulttypes.BucketInfo, bool) {
	return s.buckets.Get(id)
}

func (s *Store) PutBucket(info vaulttypes.BucketInfo) {
	s.buckets.Set(info.ID, info)
}

// FirstWritableBucket returns the writable bucket with the smallest
// Principal byte value, the deterministic tie-break the upload protocol's
// bucket-selection step requires.
func (s *Store) FirstWritableBucket() (vaulttypes.BucketInfo, bool) {
	var found vaulttypes.BucketInfo
	ok := false
	s.buckets.Ascend(func(_ []byte, info vaulttypes.BucketInfo) bool {
		if info.Writable {
			found = info
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

func (s *Store) ListBuckets() []vaulttypes.BucketInfo {
	var out []vaulttypes.BucketInfo
	s.buckets.Ascend(func(_ []byte, info vaulttypes.BucketInfo) bool {
		out = append(out, info)
		return true
	})
	return out
}

// --- LINKS ---

func (s *Store) GetLink(token []byte) (vaulttypes.LinkInfo, bool) {
	return s.links.Get(token)
}

func (s *Store) PutLink(token []byte, info vaulttypes.LinkInfo) {
	s.links.Set(token, info)
}
