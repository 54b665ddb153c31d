package directory

import (
	"context"
	"testing"

	"github.com/AntonioVentilii/vault-core/internal/directoryerr"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWithdrawer struct {
	failing bool
	calls   int
}

func (w *fakeWithdrawer) Withdraw(_ context.Context, _ string, _ uint64, _ principal.Principal) error {
	w.calls++
	if w.failing {
		return errDeductFailed
	}
	return nil
}

func newAdminService(admin principal.Principal) (*Service, *Store) {
	return newAdminServiceWithWithdrawer(admin, nil)
}

func newAdminServiceWithWithdrawer(admin principal.Principal, withdrawer Withdrawer) (*Service, *Store) {
	store := NewStore(0)
	svc := &Service{
		store:      store,
		self:       principal.Principal{0xff},
		secret:     []byte(testSecret),
		admins:     principal.NewSet(admin),
		guard:      nil,
		withdrawer: withdrawer,
		now:        func() uint64 { return 1000 },
	}
	return svc, store
}

func TestProvisionBucketRequiresAdmin(t *testing.T) {
	admin := principal.Principal{1}
	stranger := principal.Principal{2}
	svc, _ := newAdminService(admin)

	derr := svc.ProvisionBucket(stranger, principal.Principal{9}, "http://b", 1, 2)
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeAdminOnly, derr.Code)
}

func TestProvisionBucketRejectsDuplicate(t *testing.T) {
	admin := principal.Principal{1}
	svc, _ := newAdminService(admin)
	bucket := principal.Principal{9}

	require.Nil(t, svc.ProvisionBucket(admin, bucket, "http://b", 1, 2))
	derr := svc.ProvisionBucket(admin, bucket, "http://b2", 1, 2)
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeBucketAlreadyExists, derr.Code)
}

func TestAdminSetBucketWritable(t *testing.T) {
	admin := principal.Principal{1}
	svc, store := newAdminService(admin)
	bucket := principal.Principal{9}
	require.Nil(t, svc.ProvisionBucket(admin, bucket, "http://b", 1, 2))

	require.Nil(t, svc.AdminSetBucketWritable(admin, bucket, false))
	info, ok := store.GetBucket(bucket)
	require.True(t, ok)
	assert.False(t, info.Writable)
}

func TestAdminSetBucketWritableUnknownBucket(t *testing.T) {
	admin := principal.Principal{1}
	svc, _ := newAdminService(admin)
	derr := svc.AdminSetBucketWritable(admin, principal.Principal{9}, true)
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeInvalidRequest, derr.Code)
}

func TestAdminSetQuota(t *testing.T) {
	admin := principal.Principal{1}
	svc, store := newAdminService(admin)
	target := principal.Principal{5}

	require.Nil(t, svc.AdminSetQuota(admin, target, 4096))
	assert.Equal(t, uint64(4096), store.GetUser(target).QuotaBytes)
}

func TestAdminSetAccountExpiry(t *testing.T) {
	admin := principal.Principal{1}
	svc, store := newAdminService(admin)
	target := principal.Principal{5}

	require.Nil(t, svc.AdminSetAccountExpiry(admin, target, 12345))
	assert.Equal(t, uint64(12345), store.GetUser(target).ExpiresAtNs)
}

func TestAdminSetPricing(t *testing.T) {
	admin := principal.Principal{1}
	svc, _ := newAdminService(admin)

	require.Nil(t, svc.AdminSetPricing(admin, 7, "cheap"))
	rate, blurb := svc.GetPricing()
	assert.Equal(t, uint64(7), rate)
	assert.Equal(t, "cheap", blurb)
}

func TestAdminSetPricingDefaultsBlurb(t *testing.T) {
	admin := principal.Principal{1}
	svc, _ := newAdminService(admin)

	require.Nil(t, svc.AdminSetPricing(admin, 7, ""))
	_, blurb := svc.GetPricing()
	assert.NotEmpty(t, blurb)
}

func TestAdminWithdraw(t *testing.T) {
	admin := principal.Principal{1}
	withdrawer := &fakeWithdrawer{}
	svc, _ := newAdminServiceWithWithdrawer(admin, withdrawer)

	derr := svc.AdminWithdraw(context.Background(), admin, "icp", 100, principal.Principal{9})
	require.Nil(t, derr)
	assert.Equal(t, 1, withdrawer.calls)
}

func TestAdminWithdrawRequiresAdmin(t *testing.T) {
	admin := principal.Principal{1}
	stranger := principal.Principal{2}
	withdrawer := &fakeWithdrawer{}
	svc, _ := newAdminServiceWithWithdrawer(admin, withdrawer)

	derr := svc.AdminWithdraw(context.Background(), stranger, "icp", 100, principal.Principal{9})
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeAdminOnly, derr.Code)
	assert.Equal(t, 0, withdrawer.calls)
}

func TestAdminWithdrawPropagatesFailure(t *testing.T) {
	admin := principal.Principal{1}
	withdrawer := &fakeWithdrawer{failing: true}
	svc, _ := newAdminServiceWithWithdrawer(admin, withdrawer)

	derr := svc.AdminWithdraw(context.Background(), admin, "icp", 100, principal.Principal{9})
	require.NotNil(t, derr)
	assert.Equal(t, directoryerr.CodeTransferFailed, derr.Code)
}

func TestAdminOperationsRejectNonAdmin(t *testing.T) {
	admin := principal.Principal{1}
	stranger := principal.Principal{2}
	svc, _ := newAdminService(admin)

	assert.Equal(t, directoryerr.CodeAdminOnly, svc.AdminSetQuota(stranger, stranger, 1).Code)
	assert.Equal(t, directoryerr.CodeAdminOnly, svc.AdminSetAccountExpiry(stranger, stranger, 1).Code)
	assert.Equal(t, directoryerr.CodeAdminOnly, svc.AdminSetPricing(stranger, 1, "").Code)
	assert.Equal(t, directoryerr.CodeAdminOnly, svc.AdminSetBucketWritable(stranger, principal.Principal{9}, true).Code)
}
