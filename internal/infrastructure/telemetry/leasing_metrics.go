package telemetry

import (
	"context"
	"fmt"

	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Business metric attribute keys
var (
	AttrContractEvent = attribute.Key("contract.event")
	AttrContractType  = attribute.Key("contract.type")
	AttrPaymentMethod = attribute.Key("payment.method")
	AttrProofStatus   = attribute.Key("payment_proof.status")
)

// LeasingMetrics turns leasing domain events into business counters. It is
// subscribed to the event bus for all event types.
type LeasingMetrics struct {
	contracts     metric.Int64Counter
	receipts      metric.Int64Counter
	paymentAmount metric.Float64Counter
	proofs        metric.Int64Counter
}

// NewLeasingMetrics creates the instruments on meter
func NewLeasingMetrics(meter metric.Meter) (*LeasingMetrics, error) {
	contracts, err := meter.Int64Counter("leasing_contracts_total",
		metric.WithDescription("Contract lifecycle transitions"), metric.WithUnit("{contract}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create leasing_contracts_total: %w", err)
	}
	receipts, err := meter.Int64Counter("leasing_receipts_total",
		metric.WithDescription("Receipts issued"), metric.WithUnit("{receipt}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create leasing_receipts_total: %w", err)
	}
	paymentAmount, err := meter.Float64Counter("leasing_payment_amount_total",
		metric.WithDescription("Sum of settled payment amounts"))
	if err != nil {
		return nil, fmt.Errorf("failed to create leasing_payment_amount_total: %w", err)
	}
	proofs, err := meter.Int64Counter("leasing_payment_proofs_total",
		metric.WithDescription("Payment proof transitions"), metric.WithUnit("{proof}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create leasing_payment_proofs_total: %w", err)
	}
	return &LeasingMetrics{
		contracts:     contracts,
		receipts:      receipts,
		paymentAmount: paymentAmount,
		proofs:        proofs,
	}, nil
}

// EventTypes implements shared.EventHandler; empty means every event
func (m *LeasingMetrics) EventTypes() []string {
	return nil
}

// Handle implements shared.EventHandler
func (m *LeasingMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *leasing.ContractCreatedEvent:
		m.contracts.Add(ctx, 1, metric.WithAttributes(
			AttrContractEvent.String("created"),
			AttrContractType.String(string(e.ContractType)),
		))
	case *leasing.ContractCompletedEvent:
		m.contracts.Add(ctx, 1, metric.WithAttributes(AttrContractEvent.String("completed")))
	case *leasing.ContractCancelledEvent:
		m.contracts.Add(ctx, 1, metric.WithAttributes(AttrContractEvent.String("cancelled")))
	case *leasing.ReceiptIssuedEvent:
		method := metric.WithAttributes(AttrPaymentMethod.String(string(e.PaymentMethod)))
		m.receipts.Add(ctx, 1, method)
		amount, _ := e.Amount.Float64()
		m.paymentAmount.Add(ctx, amount, method)
	case *leasing.PaymentProofEvent:
		m.proofs.Add(ctx, 1, metric.WithAttributes(AttrProofStatus.String(proofTransition(e.EventType()))))
	}
	return nil
}

func proofTransition(eventType string) string {
	switch eventType {
	case leasing.EventTypeProofSubmitted:
		return "submitted"
	case leasing.EventTypeProofApproved:
		return "approved"
	case leasing.EventTypeProofRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

var _ shared.EventHandler = (*LeasingMetrics)(nil)
