package vaulttypes

import (
	"encoding/binary"

	"github.com/AntonioVentilii/vault-core/internal/principal"
)

// ChunkKeyLen is the exact packed length of a ChunkKey: 29 (owner, padded) +
// 1 (owner_len) + 16 (file id) + 4 (chunk index, big-endian) = 50 bytes.
// This layout is bit-exact and not to be changed.
const ChunkKeyLen = principal.MaxLen + 1 + FileIDLen + 4

// PrefixLen is the length of the portion of a ChunkKey shared by every chunk
// of one file: owner (29) + owner_len (1) + file id (16) = 46 bytes.
const PrefixLen = principal.MaxLen + 1 + FileIDLen

// ChunkKey packs (owner, file id, chunk index) into the exact 50-byte layout
// the Bucket's ordered map is keyed by. Big-endian chunk-index encoding is
// required so that ascending byte order over keys visits chunks 0..N in
// order, which is what makes prefix range-deletion correct.
type ChunkKey [ChunkKeyLen]byte

// PackChunkKey builds the packed key for one chunk of one file.
func PackChunkKey(owner principal.Principal, fileID [FileIDLen]byte, chunkIndex uint32) ChunkKey {
	var k ChunkKey
	padded := owner.Padded29()
	copy(k[0:principal.MaxLen], padded[:])
	k[principal.MaxLen] = byte(len(owner))
	copy(k[principal.MaxLen+1:principal.MaxLen+1+FileIDLen], fileID[:])
	binary.BigEndian.PutUint32(k[PrefixLen:], chunkIndex)
	return k
}

// Prefix returns the 46-byte portion shared by every chunk of this key's
// file, used both to test prefix membership during a range scan and as the
// lower bound for Bucket.delete_file's range delete.
func (k ChunkKey) Prefix() [PrefixLen]byte {
	var p [PrefixLen]byte
	copy(p[:], k[:PrefixLen])
	return p
}

// ChunkIndex extracts the big-endian chunk index suffix.
func (k ChunkKey) ChunkIndex() uint32 {
	return binary.BigEndian.Uint32(k[PrefixLen:])
}

// FilePrefix computes the 46-byte prefix shared by all chunks of
// (owner, fileID) without needing a concrete chunk index, for starting a
// range scan or range delete.
func FilePrefix(owner principal.Principal, fileID [FileIDLen]byte) [PrefixLen]byte {
	return PackChunkKey(owner, fileID, 0).Prefix()
}

// Bytes returns the key as a plain byte slice, for use as an ordmap key.
func (k ChunkKey) Bytes() []byte {
	return k[:]
}
