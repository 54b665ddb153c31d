package directory

import (
	"context"
	"sync"
	"time"

	"github.com/AntonioVentilii/vault-core/internal/directory/bucketclient"
	"github.com/AntonioVentilii/vault-core/internal/payment"
	"github.com/AntonioVentilii/vault-core/internal/principal"
)

// Withdrawer performs the actual ledger transfer for admin_withdraw. The
// concrete implementation (an ICRC-1 ledger client, a cycles wallet) lives
// outside this package.
type Withdrawer interface {
	Withdraw(ctx context.Context, ledger string, amount uint64, to principal.Principal) error
}

// pricing holds the operator-facing blurb and rate admin_set_pricing
// configures and get_pricing/GetPricing reports back.
type pricing struct {
	ratePerGBPerMonth uint64
	blurb             string
}

// Service implements every Directory RPC against a Store.
type Service struct {
	store  *Store
	self   principal.Principal // this Directory's own identity, stamped into every minted token
	secret []byte
	admins principal.Set

	guard        *payment.Guard
	bucketClient bucketclient.Client
	withdrawer   Withdrawer

	pricingMu sync.RWMutex
	pricing   pricing

	now func() uint64
}

// NewService constructs a Directory Service.
func NewService(store *Store, self principal.Principal, secret []byte, admins principal.Set, guard *payment.Guard, bucketClient bucketclient.Client, withdrawer Withdrawer) *Service {
	return &Service{
		store:        store,
		self:         self,
		secret:       secret,
		admins:       admins,
		guard:        guard,
		bucketClient: bucketClient,
		withdrawer:   withdrawer,
		pricing:      pricing{blurb: "storage is billed per PaymentGuard funding kind; see admin_set_pricing for the current rate"},
		now:          func() uint64 { return uint64(time.Now().UnixNano()) },
	}
}
