// Package ordmap implements the ordered, byte-keyed persistent-map
// abstraction the Directory and Bucket services are built on. The original
// canister pair this protocol was distilled from keeps every durable
// collection (chunk store, upload sessions, quota ledger, ACL links, bucket
// registry) in an ic_stable_structures::StableBTreeMap, which guarantees
// ascending byte-order iteration and O(log n) range scans. google/btree gives
// the same shape in Go; this package wraps its classic Item-based API with
// generics so callers get a typed map keyed by raw bytes instead of
// re-implementing btree.Item at every call site.
//
// A Map is safe for concurrent use: every operation takes the same
// sync.RWMutex, mirroring the single in-memory lock the teacher's upload
// session store uses rather than introducing per-bucket sharding this
// module has no scale requirement for.
package ordmap

import (
	"bytes"
	"sync"

	"github.com/google/btree"
)

const defaultDegree = 32

// Map is an ordered map from byte-string keys to values of type V, backed by
// a google/btree.BTree. Keys are copied on Set so callers may reuse the
// backing array of a key slice after the call returns.
type Map[V any] struct {
	mu   sync.RWMutex
	tree *btree.BTree
}

type entry[V any] struct {
	key   []byte
	value V
}

func (e entry[V]) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry[V]).key) < 0
}

// New returns an empty Map.
func New[V any]() *Map[V] {
	return &Map[V]{tree: btree.New(defaultDegree)}
}

// Set inserts or replaces the value stored at key.
func (m *Map[V]) Set(key []byte, value V) {
	k := append([]byte(nil), key...)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tree.ReplaceOrInsert(entry[V]{key: k, value: value})
}

// Get returns the value stored at key, if any.
func (m *Map[V]) Get(key []byte) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item := m.tree.Get(entry[V]{key: key})
	if item == nil {
		var zero V
		return zero, false
	}
	return item.(entry[V]).value, true
}

// Has reports whether key is present.
func (m *Map[V]) Has(key []byte) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key, reporting whether it was present.
func (m *Map[V]) Delete(key []byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	item := m.tree.Delete(entry[V]{key: key})
	return item != nil
}

// Len returns the number of entries in the map.
func (m *Map[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tree.Len()
}

// Ascend calls fn for every entry in ascending key order, stopping early if
// fn returns false.
func (m *Map[V]) Ascend(fn func(key []byte, value V) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.tree.Ascend(func(item btree.Item) bool {
		e := item.(entry[V])
		return fn(e.key, e.value)
	})
}

// AscendRange calls fn for every entry with greaterOrEqual <= key < lessThan,
// in ascending order, stopping early if fn returns false.
func (m *Map[V]) AscendRange(greaterOrEqual, lessThan []byte, fn func(key []byte, value V) bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.tree.AscendRange(entry[V]{key: greaterOrEqual}, entry[V]{key: lessThan}, func(item btree.Item) bool {
		e := item.(entry[V])
		return fn(e.key, e.value)
	})
}

// prefixUpperBound returns the smallest key strictly greater than every key
// with the given prefix, by incrementing the last byte that isn't already
// 0xFF and truncating after it. A prefix of all 0xFF bytes (or empty) has no
// finite upper bound, so the second return value is false and callers should
// fall back to an unbounded ascend-from-prefix scan.
func prefixUpperBound(prefix []byte) ([]byte, bool) {
	upper := append([]byte(nil), prefix...)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] != 0xFF {
			upper[i]++
			return upper[:i+1], true
		}
	}
	return nil, false
}

// AscendPrefix calls fn for every entry whose key starts with prefix, in
// ascending order, stopping early if fn returns false. This is how a
// Bucket's ChunkStore enumerates every chunk of one file and how a Directory
// enumerates records scoped to one owner.
func (m *Map[V]) AscendPrefix(prefix []byte, fn func(key []byte, value V) bool) {
	upper, bounded := prefixUpperBound(prefix)
	if !bounded {
		m.mu.RLock()
		defer m.mu.RUnlock()
		m.tree.AscendGreaterOrEqual(entry[V]{key: prefix}, func(item btree.Item) bool {
			e := item.(entry[V])
			if !bytes.HasPrefix(e.key, prefix) {
				return false
			}
			return fn(e.key, e.value)
		})
		return
	}
	m.AscendRange(prefix, upper, fn)
}

// DeletePrefix removes every entry whose key starts with prefix and reports
// how many were removed. Used by delete_file to drop every chunk of a file
// in one call.
func (m *Map[V]) DeletePrefix(prefix []byte) int {
	var keys [][]byte
	m.AscendPrefix(prefix, func(key []byte, _ V) bool {
		keys = append(keys, append([]byte(nil), key...))
		return true
	})
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		m.tree.Delete(entry[V]{key: k})
	}
	return len(keys)
}
