package directory

import (
	"context"
	"fmt"

	"github.com/AntonioVentilii/vault-core/internal/directoryerr"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
)

func (s *Service) requireAdmin(caller principal.Principal) *directoryerr.Error {
	if !s.admins.Contains(caller) {
		return directoryerr.ErrAdminOnly
	}
	return nil
}

// ProvisionBucket registers a new Bucket as a writable storage target. The
// call is rejected if a bucket with the same id already exists; use
// AdminSetBucketWritable to change an existing bucket's eligibility.
func (s *Service) ProvisionBucket(caller principal.Principal, bucketID principal.Principal, baseURL string, softLimitBytes, hardLimitBytes uint64) *directoryerr.Error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}

	s.store.Lock()
	defer s.store.Unlock()

	if _, exists := s.store.GetBucket(bucketID); exists {
		return directoryerr.ErrBucketAlreadyExists
	}

	s.store.PutBucket(vaulttypes.BucketInfo{
		ID:             bucketID,
		BaseURL:        baseURL,
		Writable:       true,
		SoftLimitBytes: softLimitBytes,
		HardLimitBytes: hardLimitBytes,
	})
	return nil
}

// AdminSetBucketWritable flips a registered bucket's write eligibility,
// e.g. to drain a bucket approaching its hard limit.
func (s *Service) AdminSetBucketWritable(caller principal.Principal, bucketID principal.Principal, writable bool) *directoryerr.Error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}

	s.store.Lock()
	defer s.store.Unlock()

	info, ok := s.store.GetBucket(bucketID)
	if !ok {
		return directoryerr.InvalidRequest("unknown bucket")
	}
	info.Writable = writable
	s.store.PutBucket(info)
	return nil
}

// AdminSetQuota overrides a user's storage quota, e.g. to grant a paid plan
// more space than the default.
func (s *Service) AdminSetQuota(caller principal.Principal, target principal.Principal, quotaBytes uint64) *directoryerr.Error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}

	s.store.Lock()
	defer s.store.Unlock()

	user := s.store.GetUser(target)
	user.QuotaBytes = quotaBytes
	s.store.PutUser(target, user)
	return nil
}

// AdminSetAccountExpiry sets or clears (expiresAtNs == 0) a user's account
// expiry, after which start_upload and get_download_plan reject the user
// with AccountExpired.
func (s *Service) AdminSetAccountExpiry(caller principal.Principal, target principal.Principal, expiresAtNs uint64) *directoryerr.Error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}

	s.store.Lock()
	defer s.store.Unlock()

	user := s.store.GetUser(target)
	user.ExpiresAtNs = expiresAtNs
	s.store.PutUser(target, user)
	return nil
}

// AdminSetPricing sets the per-GB-per-month storage rate and the
// human-readable blurb get_pricing reports. The start_upload reservation
// estimate does not use this rate; it is computed from
// payment.CyclesPerGiBMonth.
func (s *Service) AdminSetPricing(caller principal.Principal, ratePerGBPerMonth uint64, blurb string) *directoryerr.Error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	if blurb == "" {
		blurb = fmt.Sprintf("storage is billed at %d per GB per month", ratePerGBPerMonth)
	}

	s.pricingMu.Lock()
	s.pricing = pricing{ratePerGBPerMonth: ratePerGBPerMonth, blurb: blurb}
	s.pricingMu.Unlock()
	return nil
}

// AdminWithdraw transfers amount from this Directory's ledger balance on
// ledger to to. Admin-only.
func (s *Service) AdminWithdraw(ctx context.Context, caller principal.Principal, ledger string, amount uint64, to principal.Principal) *directoryerr.Error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	if s.withdrawer == nil {
		return directoryerr.InvalidRequest("no withdrawer configured")
	}
	if err := s.withdrawer.Withdraw(ctx, ledger, amount, to); err != nil {
		return directoryerr.TransferFailed(err.Error())
	}
	return nil
}
