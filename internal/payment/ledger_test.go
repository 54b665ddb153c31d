package payment

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogLedger() (*LogLedger, *bytes.Buffer) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	return NewLogLedger(log), &buf
}

func TestLogLedgerDeductAlwaysSucceeds(t *testing.T) {
	ledger, buf := newBufferedLogLedger()

	err := ledger.Deduct(context.Background(), FundingKind{Tag: FundingAttachedCycles}, 500)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ledger deduction")
	assert.Contains(t, buf.String(), "amount=500")
}

func TestLogLedgerWithdrawAlwaysSucceeds(t *testing.T) {
	ledger, buf := newBufferedLogLedger()
	to := principal.Principal{1, 2, 3}

	err := ledger.Withdraw(context.Background(), "icp", 1000, to)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ledger withdrawal")
	assert.Contains(t, buf.String(), to.String())
}

func TestGuardDeductsThroughLogLedger(t *testing.T) {
	ledger, _ := newBufferedLogLedger()
	guard := NewGuard(ledger)

	err := guard.Deduct(context.Background(), MethodStartUpload, FundingKind{Tag: FundingAttachedCycles})
	assert.NoError(t, err)
}
