package directory

import (
	"context"

	"github.com/AntonioVentilii/vault-core/internal/directory/bucketclient"
	"github.com/AntonioVentilii/vault-core/internal/payment"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
)

// fakeDeducter stubs payment.Deducter; failing makes every Deduct call
// return an error instead of succeeding.
type fakeDeducter struct {
	failing bool
	calls   int
}

func (d *fakeDeducter) Deduct(_ context.Context, _ payment.FundingKind, _ uint64) error {
	d.calls++
	if d.failing {
		return errDeductFailed
	}
	return nil
}

type stubError string

func (e stubError) Error() string { return string(e) }

const errDeductFailed = stubError("deduct failed")

// fakeBucketClient stubs bucketclient.Client, recording every delete_file
// call it receives.
type fakeBucketClient struct {
	failing bool
	deletes []vaulttypes.FileID
}

func (c *fakeBucketClient) DeleteFile(_ context.Context, _ string, owner principal.Principal, fileID [vaulttypes.FileIDLen]byte) error {
	if c.failing {
		return errDeductFailed
	}
	c.deletes = append(c.deletes, vaulttypes.FileID{Owner: owner, ID: fileID})
	return nil
}

const testSecret = "01234567890123456789012345678901"

func newTestService(bucketClient *fakeBucketClient, deducter *fakeDeducter) (*Service, *Store) {
	store := NewStore(vaulttypes.DefaultQuotaBytes)
	self := principal.Principal{0xff}
	guard := payment.NewGuard(deducter)
	var client bucketclient.Client
	if bucketClient != nil {
		client = bucketClient
	}
	svc := NewService(store, self, []byte(testSecret), principal.NewSet(), guard, client, nil)
	return svc, store
}

func setClock(svc *Service, nowNs uint64) {
	svc.now = func() uint64 { return nowNs }
}
