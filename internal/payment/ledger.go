package payment

import (
	"context"
	"log/slog"

	"github.com/AntonioVentilii/vault-core/internal/principal"
)

// LogLedger is the default Deducter/Withdrawer: it accepts every deduction
// and withdrawal, logging the amount and funding kind. A deployment wires in
// a real ledger client (a cycles wallet, an ICRC-1 ledger canister, a
// payment processor) in its place; nothing in this module can reach an
// actual external ledger without one.
type LogLedger struct {
	log *slog.Logger
}

// NewLogLedger constructs a LogLedger.
func NewLogLedger(log *slog.Logger) *LogLedger {
	return &LogLedger{log: log}
}

// Deduct implements payment.Deducter.
func (l *LogLedger) Deduct(ctx context.Context, kind FundingKind, amount uint64) error {
	l.log.Info("ledger deduction", "tag", kind.Tag, "ledger", kind.Ledger, "amount", amount)
	return nil
}

// Withdraw implements bucket.Withdrawer.
func (l *LogLedger) Withdraw(ctx context.Context, ledger string, amount uint64, to principal.Principal) error {
	l.log.Info("ledger withdrawal", "ledger", ledger, "amount", amount, "to", to.String())
	return nil
}
