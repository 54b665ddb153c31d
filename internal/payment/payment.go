// Package payment implements the PaymentGuard adapter: a closed
// set of funding kinds, a flat per-method fee table keyed by ledger
// decimals, and a Deduct entry point whose only observable outcomes are
// success or an opaque failure the caller folds into PaymentFailed. This is
// deliberately not a subscription/tier system like the teacher's
// internal/billing — there is no recurring plan here, only a per-call toll.
package payment

import (
	"context"
	"errors"
)

// Method names an RPC that charges a fee under the flat per-call fee table.
type Method string

const (
	MethodStartUpload Method = "start_upload"
	MethodPutChunk    Method = "put_chunk"
)

// LedgerKind distinguishes the two ledger decimal conventions the fee table
// is keyed by.
type LedgerKind string

const (
	LedgerICPLike    LedgerKind = "icp_like"
	LedgerStableLike LedgerKind = "stable_like"
)

// FundingKindTag is the closed set of ways a call can be funded.
type FundingKindTag string

const (
	FundingAttachedCycles   FundingKindTag = "attached_cycles"
	FundingCallerPaysCycles FundingKindTag = "caller_pays_cycles"
	FundingPatronPaysCycles FundingKindTag = "patron_pays_cycles"
	FundingCallerPaysTokens FundingKindTag = "caller_pays_tokens"
	FundingPatronPaysTokens FundingKindTag = "patron_pays_tokens"
)

// FundingKind is a concrete funding selection for one call. Ledger is only
// meaningful when Tag is one of the *Tokens variants, naming which ledger
// (by canister/contract reference) the tokens are drawn from.
type FundingKind struct {
	Tag    FundingKindTag
	Ledger string
}

// feeTable[method][ledgerKind] is the flat fee schedule per RPC.
// Cycles-funded variants are priced against the ICP-like column: cycles and
// the ICP-like ledger share the same 8-decimal convention in the original
// system this was distilled from.
var feeTable = map[Method]map[LedgerKind]uint64{
	MethodStartUpload: {
		LedgerICPLike:    1_000_000,
		LedgerStableLike: 100_000,
	},
	MethodPutChunk: {
		LedgerICPLike:    300_000,
		LedgerStableLike: 30_000,
	},
}

// ErrUnknownMethod is returned when Fee is asked for a method outside the
// closed set the table covers.
var ErrUnknownMethod = errors.New("payment: unknown method")

// Fee looks up the flat fee for method under the given ledger kind.
func Fee(method Method, ledger LedgerKind) (uint64, error) {
	row, ok := feeTable[method]
	if !ok {
		return 0, ErrUnknownMethod
	}
	fee, ok := row[ledger]
	if !ok {
		return 0, ErrUnknownMethod
	}
	return fee, nil
}

// ledgerKindOf classifies a token ledger reference as ICP-like or
// stable-like. Any ledger not recognized as stable-like is treated as
// ICP-like, matching the original system's default.
func ledgerKindOf(ledger string, stableLedgers map[string]struct{}) LedgerKind {
	if _, ok := stableLedgers[ledger]; ok {
		return LedgerStableLike
	}
	return LedgerICPLike
}

// Deducter performs the actual funds movement for one funding kind. The
// concrete implementation (ledger transfer call, cycles acceptance) lives
// outside this package; PaymentGuard only knows how to pick a fee and
// delegate withdrawal.
type Deducter interface {
	Deduct(ctx context.Context, kind FundingKind, amount uint64) error
}

// Guard is the PaymentGuard adapter: it resolves a fee from (method,
// funding kind) and delegates the actual withdrawal to a Deducter.
type Guard struct {
	deducter      Deducter
	stableLedgers map[string]struct{}
}

// NewGuard constructs a Guard. stableLedgers names the ledger references
// that should be priced with the stable-like (6-decimal) fee column; every
// other ledger reference is priced ICP-like.
func NewGuard(deducter Deducter, stableLedgers ...string) *Guard {
	set := make(map[string]struct{}, len(stableLedgers))
	for _, l := range stableLedgers {
		set[l] = struct{}{}
	}
	return &Guard{deducter: deducter, stableLedgers: set}
}

// Deduct charges the fee for method under kind. Any failure from the
// underlying Deducter is wrapped as a plain error; callers translate it to
// their service's PaymentFailed(msg) variant.
func (g *Guard) Deduct(ctx context.Context, method Method, kind FundingKind) error {
	ledgerKind := LedgerICPLike
	if kind.Tag == FundingCallerPaysTokens || kind.Tag == FundingPatronPaysTokens {
		ledgerKind = ledgerKindOf(kind.Ledger, g.stableLedgers)
	}
	fee, err := Fee(method, ledgerKind)
	if err != nil {
		return err
	}
	return g.deducter.Deduct(ctx, kind, fee)
}
