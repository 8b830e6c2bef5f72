package telemetry

import (
	"context"
	"testing"

	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func TestLeasingMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := NewMeterProviderWithReader(reader, zap.NewNop())
	m, err := NewLeasingMetrics(mp.Meter("leasing"))
	require.NoError(t, err)
	assert.Empty(t, m.EventTypes())

	ctx := context.Background()
	contract := &leasing.Contract{ContractNumber: "HP-001", ContractType: leasing.ContractTypeHirePurchase}
	proof := &leasing.PaymentProof{Status: leasing.ProofStatusPending}

	events := []shared.DomainEvent{
		leasing.NewContractCreatedEvent(contract),
		leasing.NewReceiptIssuedEvent(&leasing.Receipt{Amount: decimal.NewFromInt(1000), PaymentMethod: leasing.PaymentMethodCash}),
		leasing.NewReceiptIssuedEvent(&leasing.Receipt{Amount: decimal.RequireFromString("1750.50"), PaymentMethod: leasing.PaymentMethodCash}),
		leasing.NewPaymentProofEvent(leasing.EventTypeProofSubmitted, proof),
		leasing.NewPaymentProofEvent(leasing.EventTypeProofApproved, proof),
		leasing.NewContractCompletedEvent(contract),
	}
	for _, e := range events {
		require.NoError(t, m.Handle(ctx, e))
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	contracts := findMetric(t, rm, "leasing_contracts_total")
	assert.Equal(t, int64(1), sumByAttr(t, contracts, AttrContractEvent, "created"))
	assert.Equal(t, int64(1), sumByAttr(t, contracts, AttrContractType, "hire_purchase"))
	assert.Equal(t, int64(1), sumByAttr(t, contracts, AttrContractEvent, "completed"))

	assert.Equal(t, int64(2), sumByAttr(t, findMetric(t, rm, "leasing_receipts_total"), AttrPaymentMethod, "cash"))

	amount, ok := findMetric(t, rm, "leasing_payment_amount_total").Data.(metricdata.Sum[float64])
	require.True(t, ok)
	require.Len(t, amount.DataPoints, 1)
	assert.InDelta(t, 2750.5, amount.DataPoints[0].Value, 0.001)

	proofs := findMetric(t, rm, "leasing_payment_proofs_total")
	assert.Equal(t, int64(1), sumByAttr(t, proofs, AttrProofStatus, "submitted"))
	assert.Equal(t, int64(1), sumByAttr(t, proofs, AttrProofStatus, "approved"))
	assert.Equal(t, int64(0), sumByAttr(t, proofs, AttrProofStatus, "rejected"))
}

func TestProofTransition(t *testing.T) {
	assert.Equal(t, "rejected", proofTransition(leasing.EventTypeProofRejected))
	assert.Equal(t, "unknown", proofTransition("Other"))
}
