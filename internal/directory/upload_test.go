package directory

import (
	"context"
	"testing"

	"github.com/AntonioVentilii/vault-core/internal/directoryerr"
	"github.com/AntonioVentilii/vault-core/internal/payment"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func provisionWritableBucket(t *testing.T, store *Store, id byte) principal.Principal {
	t.Helper()
	bucket := principal.Principal{id}
	store.PutBucket(vaulttypes.BucketInfo{ID: bucket, Writable: true, SoftLimitBytes: 1 << 40, HardLimitBytes: 1 << 40})
	return bucket
}

func TestStartUploadHappyPath(t *testing.T) {
	svc, store := newTestService(nil, &fakeDeducter{})
	setClock(svc, 1000)
	provisionWritableBucket(t, store, 9)

	caller := principal.Principal{1}
	fileID, uploadID, chunkCount, derr := svc.StartUpload(context.Background(), caller, "doc.pdf", "application/pdf", vaulttypes.UploadChunkSize+1, payment.FundingKind{Tag: payment.FundingAttachedCycles})
	require.Nil(t, derr)
	assert.True(t, fileID.Owner.Equal(caller))
	assert.NotEqual(t, [16]byte{}, uploadID)
	assert.Equal(t, uint64(2), chunkCount)

	sess, ok := store.GetUpload(uploadID)
	require.True(t, ok)
	assert.Equal(t, uint32(2), sess.ExpectedChunkCount)
	assert.Equal(t, uint64(1000+vaulttypes.SessionTTLNs), sess.ExpiresAtNs)
}

func TestStartUploadRejectsExpiredAccount(t *testing.T) {
	svc, store := newTestService(nil, &fakeDeducter{})
	setClock(svc, 1000)
	caller := principal.Principal{1}
	store.PutUser(caller, vaulttypes.UserState{QuotaBytes: vaulttypes.DefaultQuotaBytes, ExpiresAtNs: 500})

	_, _, _, derr := svc.StartUpload(context.Background(), caller, "f", "m", 10, payment.FundingKind{})
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeAccountExpired, derr.Code)
}

func TestStartUploadRejectsOverQuota(t *testing.T) {
	svc, store := newTestService(nil, &fakeDeducter{})
	setClock(svc, 1000)
	provisionWritableBucket(t, store, 9)
	caller := principal.Principal{1}
	store.PutUser(caller, vaulttypes.UserState{QuotaBytes: 100})

	_, _, _, derr := svc.StartUpload(context.Background(), caller, "f", "m", 200, payment.FundingKind{})
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeQuotaExceeded, derr.Code)
}

func TestStartUploadSucceedsWithNoWritableBucketYet(t *testing.T) {
	svc, _ := newTestService(nil, &fakeDeducter{})
	setClock(svc, 1000)
	caller := principal.Principal{1}

	_, _, _, derr := svc.StartUpload(context.Background(), caller, "f", "m", 10, payment.FundingKind{})
	require.Nil(t, derr, "bucket placement happens at GetUploadTokens, not StartUpload")
}

func TestGetUploadTokensRejectsNoWritableBucket(t *testing.T) {
	svc, _ := newTestService(nil, &fakeDeducter{})
	setClock(svc, 1000)
	caller := principal.Principal{1}

	_, uploadID, _, derr := svc.StartUpload(context.Background(), caller, "f", "m", 10, payment.FundingKind{})
	require.Nil(t, derr)

	_, _, derr = svc.GetUploadTokens(caller, uploadID, []uint32{0})
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeNoWritableBuckets, derr.Code)
}

func TestGetUploadTokensPlacesBucketOnFirstCall(t *testing.T) {
	svc, store := newTestService(nil, &fakeDeducter{})
	setClock(svc, 1000)
	caller := principal.Principal{1}

	fileID, uploadID, _, derr := svc.StartUpload(context.Background(), caller, "f", "m", 10, payment.FundingKind{})
	require.Nil(t, derr)

	_, ok := store.GetFileBucket(fileID)
	assert.False(t, ok, "StartUpload must not place a bucket")

	bucket := provisionWritableBucket(t, store, 9)
	gotBucket, _, derr := svc.GetUploadTokens(caller, uploadID, []uint32{0})
	require.Nil(t, derr)
	assert.True(t, gotBucket.Equal(bucket))

	placed, ok := store.GetFileBucket(fileID)
	require.True(t, ok)
	assert.True(t, placed.Equal(bucket))
}

func TestStartUploadPaymentFailure(t *testing.T) {
	svc, store := newTestService(nil, &fakeDeducter{failing: true})
	setClock(svc, 1000)
	provisionWritableBucket(t, store, 9)
	caller := principal.Principal{1}

	_, _, _, derr := svc.StartUpload(context.Background(), caller, "f", "m", 10, payment.FundingKind{})
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodePaymentFailed, derr.Code)
}

func TestUploadSessionLifecycle(t *testing.T) {
	svc, store := newTestService(nil, &fakeDeducter{})
	setClock(svc, 1000)
	bucket := provisionWritableBucket(t, store, 9)
	caller := principal.Principal{1}

	fileID, uploadID, chunkCount, derr := svc.StartUpload(context.Background(), caller, "f", "m", vaulttypes.UploadChunkSize, payment.FundingKind{})
	require.Nil(t, derr)
	require.Equal(t, uint64(1), chunkCount)

	gotBucket, token, derr := svc.GetUploadTokens(caller, uploadID, []uint32{0})
	require.Nil(t, derr)
	assert.True(t, gotBucket.Equal(bucket))
	assert.True(t, token.FileID.Equal(fileID))
	assert.NotEmpty(t, token.Sig)

	derr = svc.ReportChunkUploaded(caller, uploadID, 0)
	require.Nil(t, derr)

	meta, derr := svc.CommitUpload(caller, uploadID, []byte("sha"))
	require.Nil(t, derr)
	assert.Equal(t, vaulttypes.FileStatusReady, meta.Status)
	assert.True(t, meta.FileID.Equal(fileID))

	_, ok := store.GetUpload(uploadID)
	assert.False(t, ok, "committed session should be removed")

	user := store.GetUser(caller)
	assert.Equal(t, uint64(vaulttypes.UploadChunkSize), user.UsedBytes)
}

func TestCommitUploadRejectsIncomplete(t *testing.T) {
	svc, store := newTestService(nil, &fakeDeducter{})
	setClock(svc, 1000)
	provisionWritableBucket(t, store, 9)
	caller := principal.Principal{1}

	_, uploadID, _, derr := svc.StartUpload(context.Background(), caller, "f", "m", vaulttypes.UploadChunkSize*2, payment.FundingKind{})
	require.Nil(t, derr)

	require.Nil(t, svc.ReportChunkUploaded(caller, uploadID, 0))

	_, derr = svc.CommitUpload(caller, uploadID, nil)
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeUploadIncomplete, derr.Code)
}

func TestUploadOperationsRejectWrongCaller(t *testing.T) {
	svc, store := newTestService(nil, &fakeDeducter{})
	setClock(svc, 1000)
	provisionWritableBucket(t, store, 9)
	owner := principal.Principal{1}
	stranger := principal.Principal{2}

	_, uploadID, _, derr := svc.StartUpload(context.Background(), owner, "f", "m", 10, payment.FundingKind{})
	require.Nil(t, derr)

	_, _, derr = svc.GetUploadTokens(stranger, uploadID, []uint32{0})
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeUnauthorized, derr.Code)

	derr = svc.ReportChunkUploaded(stranger, uploadID, 0)
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeUnauthorized, derr.Code)

	_, derr = svc.CommitUpload(stranger, uploadID, nil)
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeUnauthorized, derr.Code)

	derr = svc.AbortUpload(stranger, uploadID)
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeUnauthorized, derr.Code)
}

func TestAbortUploadRemovesSessionAndReservation(t *testing.T) {
	svc, store := newTestService(nil, &fakeDeducter{})
	setClock(svc, 1000)
	provisionWritableBucket(t, store, 9)
	caller := principal.Principal{1}

	fileID, uploadID, _, derr := svc.StartUpload(context.Background(), caller, "f", "m", 10, payment.FundingKind{})
	require.Nil(t, derr)

	_, _, derr = svc.GetUploadTokens(caller, uploadID, []uint32{0})
	require.Nil(t, derr)
	_, ok := store.GetFileBucket(fileID)
	require.True(t, ok, "reservation should exist before abort")

	require.Nil(t, svc.AbortUpload(caller, uploadID))

	_, ok = store.GetUpload(uploadID)
	assert.False(t, ok)
	_, ok = store.GetFileBucket(fileID)
	assert.False(t, ok)
}

func TestUploadOperationsOnUnknownSession(t *testing.T) {
	svc, _ := newTestService(nil, &fakeDeducter{})
	caller := principal.Principal{1}
	var unknown [16]byte
	unknown[0] = 0xee

	_, _, derr := svc.GetUploadTokens(caller, unknown, nil)
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeUploadSessionNotFound, derr.Code)

	derr2 := svc.ReportChunkUploaded(caller, unknown, 0)
	require.NotNil(t, derr2)
	assert.Equal(t, directoryerr.CodeUploadSessionNotFound, derr2.Code)

	_, derr = svc.CommitUpload(caller, unknown, nil)
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeUploadSessionNotFound, derr.Code)

	derr2 = svc.AbortUpload(caller, unknown)
	require.NotNil(t, derr2)
	assert.Equal(t, directoryerr.CodeUploadSessionNotFound, derr2.Code)
}
