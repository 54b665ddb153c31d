package directory

import (
	"testing"

	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPrincipal(t *testing.T, b byte) principal.Principal {
	t.Helper()
	return principal.Principal{b}
}

func TestStoreGetUserDefaultsToQuota(t *testing.T) {
	store := NewStore(1024)
	user := store.GetUser(mustPrincipal(t, 1))
	assert.Equal(t, uint64(0), user.UsedBytes)
	assert.Equal(t, uint64(1024), user.QuotaBytes)
}

func TestStorePutUserOverridesDefault(t *testing.T) {
	store := NewStore(1024)
	p := mustPrincipal(t, 1)
	store.PutUser(p, vaulttypes.UserState{UsedBytes: 10, QuotaBytes: 99})
	user := store.GetUser(p)
	assert.Equal(t, uint64(10), user.UsedBytes)
	assert.Equal(t, uint64(99), user.QuotaBytes)
}

func TestStoreFileRoundTrip(t *testing.T) {
	store := NewStore(0)
	fileID := vaulttypes.FileID{Owner: mustPrincipal(t, 1), ID: [16]byte{1}}
	meta := vaulttypes.FileMeta{FileID: fileID, Name: "a.txt", Status: vaulttypes.FileStatusReady}

	_, ok := store.GetFile(fileID)
	assert.False(t, ok)

	store.PutFile(meta)
	got, ok := store.GetFile(fileID)
	require.True(t, ok)
	assert.Equal(t, "a.txt", got.Name)

	assert.True(t, store.DeleteFile(fileID))
	_, ok = store.GetFile(fileID)
	assert.False(t, ok)
}

func TestStoreListFilesByOwner(t *testing.T) {
	store := NewStore(0)
	owner := mustPrincipal(t, 1)
	other := mustPrincipal(t, 2)

	store.PutFile(vaulttypes.FileMeta{FileID: vaulttypes.FileID{Owner: owner, ID: [16]byte{1}}, Name: "one"})
	store.PutFile(vaulttypes.FileMeta{FileID: vaulttypes.FileID{Owner: owner, ID: [16]byte{2}}, Name: "two"})
	store.PutFile(vaulttypes.FileMeta{FileID: vaulttypes.FileID{Owner: other, ID: [16]byte{1}}, Name: "three"})

	files := store.ListFilesByOwner(owner)
	require.Len(t, files, 2)
	assert.Equal(t, "one", files[0].Name)
	assert.Equal(t, "two", files[1].Name)
}

func TestStoreUploadRoundTrip(t *testing.T) {
	store := NewStore(0)
	var uploadID [16]byte
	uploadID[0] = 7

	_, ok := store.GetUpload(uploadID)
	assert.False(t, ok)

	store.PutUpload(vaulttypes.UploadSession{UploadID: uploadID, ExpiresAtNs: 100})
	sess, ok := store.GetUpload(uploadID)
	require.True(t, ok)
	assert.Equal(t, uint64(100), sess.ExpiresAtNs)

	assert.True(t, store.DeleteUpload(uploadID))
	_, ok = store.GetUpload(uploadID)
	assert.False(t, ok)
}

func TestStoreExpiredUploads(t *testing.T) {
	store := NewStore(0)
	var expired, fresh [16]byte
	expired[0], fresh[0] = 1, 2

	store.PutUpload(vaulttypes.UploadSession{UploadID: expired, ExpiresAtNs: 50})
	store.PutUpload(vaulttypes.UploadSession{UploadID: fresh, ExpiresAtNs: 500})

	out := store.ExpiredUploads(100)
	require.Len(t, out, 1)
	assert.Equal(t, expired, out[0].UploadID)
}

func TestStoreFileBucketRoundTrip(t *testing.T) {
	store := NewStore(0)
	fileID := vaulttypes.FileID{Owner: mustPrincipal(t, 1), ID: [16]byte{1}}
	bucket := mustPrincipal(t, 9)

	_, ok := store.GetFileBucket(fileID)
	assert.False(t, ok)

	store.SetFileBucket(fileID, bucket)
	got, ok := store.GetFileBucket(fileID)
	require.True(t, ok)
	assert.True(t, got.Equal(bucket))

	assert.True(t, store.DeleteFileBucket(fileID))
	_, ok = store.GetFileBucket(fileID)
	assert.False(t, ok)
}

func TestStoreOrphanedFileBuckets(t *testing.T) {
	store := NewStore(0)
	owner := mustPrincipal(t, 1)
	bucket := mustPrincipal(t, 9)

	orphanID := vaulttypes.FileID{Owner: owner, ID: [16]byte{1}}
	liveID := vaulttypes.FileID{Owner: owner, ID: [16]byte{2}}

	store.SetFileBucket(orphanID, bucket)
	store.SetFileBucket(liveID, bucket)
	store.PutFile(vaulttypes.FileMeta{FileID: liveID})

	orphans := store.OrphanedFileBuckets()
	require.Len(t, orphans, 1)
	for key, b := range orphans {
		decoded := decodeFileBucketKey(key)
		assert.True(t, decoded.Equal(orphanID))
		assert.True(t, b.Equal(bucket))
	}
}

func TestStoreFirstWritableBucketPicksSmallestPrincipal(t *testing.T) {
	store := NewStore(0)
	store.PutBucket(vaulttypes.BucketInfo{ID: mustPrincipal(t, 5), Writable: true})
	store.PutBucket(vaulttypes.BucketInfo{ID: mustPrincipal(t, 2), Writable: true})
	store.PutBucket(vaulttypes.BucketInfo{ID: mustPrincipal(t, 1), Writable: false})

	found, ok := store.FirstWritableBucket()
	require.True(t, ok)
	assert.True(t, found.ID.Equal(mustPrincipal(t, 2)))
}

func TestStoreFirstWritableBucketNoneWritable(t *testing.T) {
	store := NewStore(0)
	store.PutBucket(vaulttypes.BucketInfo{ID: mustPrincipal(t, 1), Writable: false})

	_, ok := store.FirstWritableBucket()
	assert.False(t, ok)
}

func TestStoreListBuckets(t *testing.T) {
	store := NewStore(0)
	store.PutBucket(vaulttypes.BucketInfo{ID: mustPrincipal(t, 1)})
	store.PutBucket(vaulttypes.BucketInfo{ID: mustPrincipal(t, 2)})
	assert.Len(t, store.ListBuckets(), 2)
}

func TestStoreLinkRoundTrip(t *testing.T) {
	store := NewStore(0)
	token := []byte("a-token")

	_, ok := store.GetLink(token)
	assert.False(t, ok)

	store.PutLink(token, vaulttypes.LinkInfo{ExpiresAtNs: 42})
	link, ok := store.GetLink(token)
	require.True(t, ok)
	assert.Equal(t, uint64(42), link.ExpiresAtNs)
}
