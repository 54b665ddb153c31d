package vaulttypes

import (
	"bytes"
	"encoding/hex"

	"github.com/AntonioVentilii/vault-core/internal/principal"
)

// FileIDLen is the fixed length, in bytes, of a FileID's random/time-derived
// suffix.
const FileIDLen = 16

// FileID identifies a file by owner plus a 16-byte id. It is globally unique
// by construction and orders lexicographically by (owner, id).
type FileID struct {
	Owner principal.Principal
	ID    [FileIDLen]byte
}

// Compare orders two FileIDs by owner bytes, then by id bytes.
func (f FileID) Compare(o FileID) int {
	if c := f.Owner.Compare(o.Owner); c != 0 {
		return c
	}
	return bytes.Compare(f.ID[:], o.ID[:])
}

// Equal reports whether f and o name the same file.
func (f FileID) Equal(o FileID) bool {
	return f.Compare(o) == 0
}

// String renders the FileId as "<owner-hex>:<id-hex>", used for logging and
// as a map key where a comparable Go value (rather than byte slice) is
// needed, e.g. as a Go map key in caches that don't need ordering.
func (f FileID) String() string {
	return f.Owner.String() + ":" + hex.EncodeToString(f.ID[:])
}

// Key returns the byte encoding used as a key in ordered maps: owner bytes
// followed by the 16-byte id. The split is unambiguous on decode since the id
// suffix has a fixed length, so two distinct (owner, id) pairs never produce
// the same flat byte string even though the owner itself is variable length.
func (f FileID) Key() []byte {
	key := make([]byte, 0, len(f.Owner)+FileIDLen)
	key = append(key, f.Owner...)
	key = append(key, f.ID[:]...)
	return key
}
