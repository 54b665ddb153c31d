package directory

import (
	"testing"

	"github.com/AntonioVentilii/vault-core/internal/authtoken"
	"github.com/AntonioVentilii/vault-core/internal/directoryerr"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putReadyFile(store *Store, owner principal.Principal, idByte byte, bucket principal.Principal, chunkCount uint32) vaulttypes.FileID {
	fileID := vaulttypes.FileID{Owner: owner, ID: [16]byte{idByte}}
	store.PutFile(vaulttypes.FileMeta{
		FileID:     fileID,
		Status:     vaulttypes.FileStatusReady,
		ChunkCount: chunkCount,
		ChunkSize:  vaulttypes.UploadChunkSize,
	})
	store.SetFileBucket(fileID, bucket)
	return fileID
}

func TestGetDownloadPlanForOwner(t *testing.T) {
	svc, store := newTestService(nil, &fakeDeducter{})
	setClock(svc, 1000)
	bucket := principal.Principal{9}
	owner := principal.Principal{1}
	fileID := putReadyFile(store, owner, 1, bucket, 3)

	plan, derr := svc.GetDownloadPlan(owner, fileID)
	require.Nil(t, derr)
	assert.Equal(t, uint32(3), plan.ChunkCount)
	require.Len(t, plan.Auth, 1)
	assert.True(t, plan.Auth[0].BucketID.Equal(bucket))
	assert.True(t, authtoken.VerifyDownload(plan.Auth[0].Token, []byte(testSecret)))
	assert.Len(t, plan.Locations, 3)
}

func TestGetDownloadPlanRejectsUnauthorized(t *testing.T) {
	svc, store := newTestService(nil, &fakeDeducter{})
	owner := principal.Principal{1}
	stranger := principal.Principal{2}
	fileID := putReadyFile(store, owner, 1, principal.Principal{9}, 1)

	_, derr := svc.GetDownloadPlan(stranger, fileID)
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeUnauthorized, derr.Code)
}

func TestGetDownloadPlanAllowsGrantedReader(t *testing.T) {
	svc, store := newTestService(nil, &fakeDeducter{})
	owner := principal.Principal{1}
	reader := principal.Principal{2}
	fileID := putReadyFile(store, owner, 1, principal.Principal{9}, 1)

	require.Nil(t, svc.AddFileAccess(owner, fileID, reader, vaulttypes.RoleReader))

	_, derr := svc.GetDownloadPlan(reader, fileID)
	assert.Nil(t, derr)
}

func TestGetDownloadPlanMissingFile(t *testing.T) {
	svc, _ := newTestService(nil, &fakeDeducter{})
	owner := principal.Principal{1}
	_, derr := svc.GetDownloadPlan(owner, vaulttypes.FileID{Owner: owner, ID: [16]byte{0xaa}})
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeFileNotFound, derr.Code)
}

func TestGetDownloadPlanViaLink(t *testing.T) {
	svc, store := newTestService(nil, &fakeDeducter{})
	setClock(svc, 1000)
	owner := principal.Principal{1}
	fileID := putReadyFile(store, owner, 1, principal.Principal{9}, 2)

	token, derr := svc.CreateShareLink(owner, fileID, 500)
	require.Nil(t, derr)

	plan, derr := svc.GetDownloadPlanViaLink(token)
	require.Nil(t, derr)
	assert.Equal(t, uint32(2), plan.ChunkCount)
}

func TestGetDownloadPlanViaLinkExpired(t *testing.T) {
	svc, store := newTestService(nil, &fakeDeducter{})
	setClock(svc, 1000)
	owner := principal.Principal{1}
	fileID := putReadyFile(store, owner, 1, principal.Principal{9}, 1)

	token, derr := svc.CreateShareLink(owner, fileID, 10)
	require.Nil(t, derr)

	setClock(svc, 2000)
	_, derr = svc.GetDownloadPlanViaLink(token)
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeLinkExpired, derr.Code)
}

func TestGetDownloadPlanViaLinkCapsExpiryToLinkTTL(t *testing.T) {
	svc, store := newTestService(nil, &fakeDeducter{})
	setClock(svc, 1000)
	owner := principal.Principal{1}
	fileID := putReadyFile(store, owner, 1, principal.Principal{9}, 1)

	// link TTL is shorter than downloadTokenTTLNs, so the minted token must
	// inherit the link's own, tighter expiry rather than the full default.
	shortTTL := uint64(5 * vaulttypes.MinuteNs)
	require.Less(t, shortTTL, uint64(downloadTokenTTLNs))
	token, derr := svc.CreateShareLink(owner, fileID, shortTTL)
	require.Nil(t, derr)

	plan, derr := svc.GetDownloadPlanViaLink(token)
	require.Nil(t, derr)
	require.Len(t, plan.Auth, 1)
	assert.Equal(t, uint64(1000)+shortTTL, plan.Auth[0].Token.ExpiresAtNs)
}

func TestGetDownloadPlanViaLinkUsesDefaultTTLWhenLinkOutlivesIt(t *testing.T) {
	svc, store := newTestService(nil, &fakeDeducter{})
	setClock(svc, 1000)
	owner := principal.Principal{1}
	fileID := putReadyFile(store, owner, 1, principal.Principal{9}, 1)

	longTTL := uint64(downloadTokenTTLNs) * 10
	token, derr := svc.CreateShareLink(owner, fileID, longTTL)
	require.Nil(t, derr)

	plan, derr := svc.GetDownloadPlanViaLink(token)
	require.Nil(t, derr)
	require.Len(t, plan.Auth, 1)
	assert.Equal(t, uint64(1000)+uint64(downloadTokenTTLNs), plan.Auth[0].Token.ExpiresAtNs)
}

func TestGetDownloadPlanViaLinkUnknownToken(t *testing.T) {
	svc, _ := newTestService(nil, &fakeDeducter{})
	_, derr := svc.GetDownloadPlanViaLink([]byte("nope"))
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeLinkNotFound, derr.Code)
}
