package directory

import (
	"github.com/AntonioVentilii/vault-core/internal/directoryerr"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/AntonioVentilii/vault-core/internal/vaulttypes"
)

// GetFileMeta returns a file's metadata to a caller who may read it: the
// owner, a granted reader, or a granted writer.
func (s *Service) GetFileMeta(caller principal.Principal, fileID vaulttypes.FileID) (vaulttypes.FileMeta, *directoryerr.Error) {
	var zero vaulttypes.FileMeta

	s.store.Lock()
	defer s.store.Unlock()

	meta, ok := s.store.GetFile(fileID)
	if !ok {
		return zero, directoryerr.ErrFileNotFound
	}
	if !meta.CanRead(caller) {
		return zero, directoryerr.ErrUnauthorized
	}
	return meta, nil
}

// ListFiles returns every file caller owns, in FileID order.
func (s *Service) ListFiles(caller principal.Principal) []vaulttypes.FileMeta {
	s.store.Lock()
	defer s.store.Unlock()
	return s.store.ListFilesByOwner(caller)
}

// GetUsage returns target's quota usage. An empty target means "caller's
// own usage"; a non-empty target different from caller requires caller to
// be an admin.
func (s *Service) GetUsage(caller principal.Principal, target principal.Principal) (vaulttypes.UserState, *directoryerr.Error) {
	var zero vaulttypes.UserState

	who := caller
	if len(target) > 0 && !target.Equal(caller) {
		if !s.admins.Contains(caller) {
			return zero, directoryerr.ErrAdminOnly
		}
		who = target
	}

	s.store.Lock()
	defer s.store.Unlock()
	return s.store.GetUser(who), nil
}

// GetPricing returns the current storage rate and a human-readable blurb,
// the Go-native analogue of the original system's get_pricing() RPC.
func (s *Service) GetPricing() (ratePerGBPerMonth uint64, blurb string) {
	s.pricingMu.RLock()
	defer s.pricingMu.RUnlock()
	return s.pricing.ratePerGBPerMonth, s.pricing.blurb
}
