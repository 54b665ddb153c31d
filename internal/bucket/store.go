package bucket

import (
	"github.com/AntonioVentilii/vault-core/internal/ordmap"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
)

// ChunkStore is the Bucket's ordered map of packed ChunkKey to raw chunk
// bytes. Key order is the exact byte order of the packed ChunkKey, which is
// what lets DeleteFile terminate a prefix scan at the first non-matching
// key instead of visiting every entry in the store.
type ChunkStore struct {
	data *ordmap.Map[[]byte]
}

// NewChunkStore returns an empty ChunkStore.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{data: ordmap.New[[]byte]()}
}

// Put writes bytes under key, overwriting any prior value. Returns the
// number of bytes written.
func (s *ChunkStore) Put(key vaulttypes.ChunkKey, value []byte) int {
	s.data.Set(key.Bytes(), value)
	return len(value)
}

// Get returns the bytes stored at key, if any.
func (s *ChunkStore) Get(key vaulttypes.ChunkKey) ([]byte, bool) {
	return s.data.Get(key.Bytes())
}

// DeleteFile removes every chunk of (owner, fileID) and reports how many
// were removed.
func (s *ChunkStore) DeleteFile(owner principal.Principal, fileID [vaulttypes.FileIDLen]byte) int {
	prefix := vaulttypes.FilePrefix(owner, fileID)
	return s.data.DeletePrefix(prefix[:])
}

// ChunkCount returns the total number of chunks stored, across every file.
func (s *ChunkStore) ChunkCount() int {
	return s.data.Len()
}

// UsedBytes sums the size of every chunk currently stored. O(n); called only
// by admin/status endpoints, not on the put_chunk hot path.
func (s *ChunkStore) UsedBytes() uint64 {
	var total uint64
	s.data.Ascend(func(_ []byte, value []byte) bool {
		total += uint64(len(value))
		return true
	})
	return total
}
